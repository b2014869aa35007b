package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/logging"
)

// EquipmentService orchestrates validation and persistence for equipment.
type EquipmentService struct {
	equipment   EquipmentRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewEquipmentService constructs an equipment service with the provided
// dependencies. Nil generators fall back to random UUIDs and time.Now.
func NewEquipmentService(equipment EquipmentRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *EquipmentService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &EquipmentService{equipment: equipment, idGenerator: idGenerator, now: now, logger: logging.OrDefault(logger)}
}

func (s *EquipmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "EquipmentService", operation, attrs...)
}

// CreateEquipment validates input and persists a new item.
func (s *EquipmentService) CreateEquipment(ctx context.Context, input EquipmentInput) (equipment Equipment, err error) {
	if s == nil || s.equipment == nil {
		err = fmt.Errorf("equipment repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateEquipment")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create equipment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("equipment_id", equipment.ID).InfoContext(ctx, "equipment created")
	}()

	if vErr := validateEquipmentInput(input); vErr.HasErrors() {
		err = vErr
		return
	}

	now := s.now().UTC()
	equipment, err = s.equipment.CreateEquipment(ctx, Equipment{
		ID:          s.idGenerator(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	err = mapRepoError(err)
	return
}

// UpdateEquipment replaces the name and description of an existing item.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, params UpdateEquipmentParams) (equipment Equipment, err error) {
	if s == nil || s.equipment == nil {
		err = fmt.Errorf("equipment repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateEquipment", "equipment_id", params.EquipmentID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update equipment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "equipment updated")
	}()

	var existing Equipment
	existing, err = s.equipment.GetEquipment(ctx, params.EquipmentID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	if vErr := validateEquipmentInput(params.Input); vErr.HasErrors() {
		err = vErr
		return
	}

	updated := existing
	updated.Name = strings.TrimSpace(params.Input.Name)
	updated.Description = strings.TrimSpace(params.Input.Description)
	updated.UpdatedAt = s.now().UTC()

	equipment, err = s.equipment.UpdateEquipment(ctx, updated)
	err = mapRepoError(err)
	return
}

// DeleteEquipment removes an item. Rooms and bookings that referenced it
// lose the reference.
func (s *EquipmentService) DeleteEquipment(ctx context.Context, equipmentID string) error {
	if s == nil || s.equipment == nil {
		return fmt.Errorf("equipment repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteEquipment", "equipment_id", equipmentID)
	if err := s.equipment.DeleteEquipment(ctx, equipmentID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete equipment", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "equipment deleted")
	return nil
}

// GetEquipment returns a single item.
func (s *EquipmentService) GetEquipment(ctx context.Context, equipmentID string) (Equipment, error) {
	if s == nil || s.equipment == nil {
		return Equipment{}, fmt.Errorf("equipment repository not configured")
	}
	equipment, err := s.equipment.GetEquipment(ctx, equipmentID)
	return equipment, mapRepoError(err)
}

// ListEquipment returns the equipment catalog.
func (s *EquipmentService) ListEquipment(ctx context.Context) (items []Equipment, err error) {
	if s == nil || s.equipment == nil {
		return nil, fmt.Errorf("equipment repository not configured")
	}

	logger := s.loggerWith(ctx, "ListEquipment")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list equipment", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(items)).DebugContext(ctx, "equipment listed")
	}()

	items, err = s.equipment.ListEquipment(ctx)
	err = mapRepoError(err)
	return
}

func validateEquipmentInput(input EquipmentInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	return vErr
}
