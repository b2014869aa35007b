package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/logging"
)

type equipmentService interface {
	CreateEquipment(ctx context.Context, input application.EquipmentInput) (application.Equipment, error)
	UpdateEquipment(ctx context.Context, params application.UpdateEquipmentParams) (application.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID string) error
	GetEquipment(ctx context.Context, equipmentID string) (application.Equipment, error)
	ListEquipment(ctx context.Context) ([]application.Equipment, error)
}

// EquipmentHandler serves /equipment.
type EquipmentHandler struct {
	service   equipmentService
	responder responder
	logger    *slog.Logger
}

func NewEquipmentHandler(service equipmentService, logger *slog.Logger) *EquipmentHandler {
	base := logging.OrDefault(logger)
	return &EquipmentHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *EquipmentHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Scoped(ctx, h.logger, "handler", "EquipmentHandler", operation, attrs...)
}

func (h *EquipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req equipmentRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode equipment request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	equipment, err := h.service.CreateEquipment(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toEquipmentDTO(equipment))
}

func (h *EquipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	equipmentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(equipmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req equipmentRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "equipment_id", equipmentID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode equipment update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	equipment, err := h.service.UpdateEquipment(r.Context(), application.UpdateEquipmentParams{
		EquipmentID: equipmentID,
		Input:       req.toInput(),
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEquipmentDTO(equipment))
}

func (h *EquipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	equipmentID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(equipmentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	if err := h.service.DeleteEquipment(r.Context(), equipmentID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *EquipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	equipmentID, _ := ResourceIDFromContext(r.Context())
	equipment, err := h.service.GetEquipment(r.Context(), equipmentID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEquipmentDTO(equipment))
}

func (h *EquipmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	items, err := h.service.ListEquipment(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "equipment list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toEquipmentDTOs(items))
}

type equipmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r equipmentRequest) toInput() application.EquipmentInput {
	return application.EquipmentInput{Name: r.Name, Description: r.Description}
}

type equipmentDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

func toEquipmentDTO(e application.Equipment) equipmentDTO {
	return equipmentDTO{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   formatTimestamp(e.CreatedAt),
		UpdatedAt:   formatTimestamp(e.UpdatedAt),
	}
}

func toEquipmentDTOs(items []application.Equipment) []equipmentDTO {
	out := make([]equipmentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toEquipmentDTO(item))
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
