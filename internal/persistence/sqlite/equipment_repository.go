package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// EquipmentRepository implements persistence.EquipmentRepository using SQLite.
type EquipmentRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewEquipmentRepository creates a new SQLite equipment repository.
func NewEquipmentRepository(pool *ConnectionPool) *EquipmentRepository {
	return &EquipmentRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateEquipment inserts a new item.
func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment persistence.Equipment) error {
	if equipment.ID == "" {
		return persistence.ErrConstraintViolation
	}
	created, updated := stamps(equipment.CreatedAt, equipment.UpdatedAt)

	_, err := r.helper.Exec(ctx, `
		INSERT INTO equipment (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		equipment.ID,
		equipment.Name,
		equipment.Description,
		formatTime(created),
		formatTime(updated),
	)
	return r.mapper.MapError(err)
}

// UpdateEquipment rewrites the name and description of an existing item.
func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, equipment persistence.Equipment) error {
	if equipment.ID == "" {
		return persistence.ErrNotFound
	}
	_, updated := stamps(equipment.CreatedAt, equipment.UpdatedAt)

	result, err := r.helper.Exec(ctx, `
		UPDATE equipment
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`,
		equipment.Name,
		equipment.Description,
		formatTime(updated),
		equipment.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return expectAffected(result)
}

// GetEquipment retrieves an item by ID.
func (r *EquipmentRepository) GetEquipment(ctx context.Context, id string) (persistence.Equipment, error) {
	if id == "" {
		return persistence.Equipment{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM equipment
		WHERE id = ?
	`, id)
	equipment, err := scanEquipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Equipment{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Equipment{}, r.mapper.MapError(err)
	}
	return equipment, nil
}

// ListEquipment returns every item in creation order.
func (r *EquipmentRepository) ListEquipment(ctx context.Context) ([]persistence.Equipment, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM equipment
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	items := make([]persistence.Equipment, 0)
	for rows.Next() {
		equipment, err := scanEquipment(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		items = append(items, equipment)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return items, nil
}

// DeleteEquipment removes an item and detaches it from rooms and bookings.
func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		for _, detach := range []string{
			"DELETE FROM room_equipment WHERE equipment_id = ?",
			"DELETE FROM booking_equipment WHERE equipment_id = ?",
		} {
			if _, err := r.helper.ExecTx(ctx, tx, detach, id); err != nil {
				return r.mapper.MapError(err)
			}
		}

		result, err := r.helper.ExecTx(ctx, tx, "DELETE FROM equipment WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return expectAffected(result)
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(row rowScanner) (persistence.Equipment, error) {
	var (
		equipment          persistence.Equipment
		createdAt, updated string
	)
	if err := row.Scan(&equipment.ID, &equipment.Name, &equipment.Description, &createdAt, &updated); err != nil {
		return persistence.Equipment{}, err
	}
	var err error
	if equipment.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Equipment{}, err
	}
	if equipment.UpdatedAt, err = parseTime("updated_at", updated); err != nil {
		return persistence.Equipment{}, err
	}
	return equipment, nil
}

// stamps fills missing timestamps with the current time.
func stamps(created, updated time.Time) (time.Time, time.Time) {
	now := time.Now().UTC()
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() {
		updated = created
	}
	return created, updated
}
