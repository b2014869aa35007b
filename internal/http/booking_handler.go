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

type bookingService interface {
	CreateBooking(ctx context.Context, input application.BookingInput) (application.Booking, error)
	UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (application.Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) error
	GetBooking(ctx context.Context, bookingID string) (application.Booking, error)
	ListBookings(ctx context.Context) ([]application.Booking, error)
}

// BookingHandler serves /bookings.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := logging.OrDefault(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return logging.Scoped(ctx, h.logger, "handler", "BookingHandler", operation, attrs...)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req bookingRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode booking request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, fieldErrs := req.toInput()
	if len(fieldErrs) > 0 {
		h.responder.writeValidation(r.Context(), w, fieldErrs)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", input.RoomID)

	booking, err := h.service.CreateBooking(r.Context(), input)
	if err != nil {
		logger.WarnContext(r.Context(), "booking creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, toBookingDTO(booking))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	var req bookingRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.log(r.Context(), "Update", "booking_id", bookingID, "error_kind", "bad_request").WarnContext(r.Context(), "failed to decode booking update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, fieldErrs := req.toInput()
	if len(fieldErrs) > 0 {
		h.responder.writeValidation(r.Context(), w, fieldErrs)
		return
	}

	logger := h.log(r.Context(), "Update", "booking_id", bookingID)

	booking, err := h.service.UpdateBooking(r.Context(), application.UpdateBookingParams{
		BookingID: bookingID,
		Input:     input,
	})
	if err != nil {
		logger.WarnContext(r.Context(), "booking update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(booking))
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(bookingID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errMissingID)
		return
	}

	logger := h.log(r.Context(), "Delete", "booking_id", bookingID)
	if err := h.service.DeleteBooking(r.Context(), bookingID); err != nil {
		logger.WarnContext(r.Context(), "booking delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	bookingID, _ := ResourceIDFromContext(r.Context())
	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, toBookingDTO(booking))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(bookings)).DebugContext(r.Context(), "bookings listed")
	out := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		out = append(out, toBookingDTO(booking))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, out)
}

type bookingRequest struct {
	Title     string   `json:"title"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Attendees int      `json:"attendees"`
	Organizer string   `json:"organizer"`
	RoomID    string   `json:"roomId"`
	Equipment []string `json:"equipment"`
}

// toInput parses the timestamps. Empty timestamps stay zero so the service
// reports them as missing.
func (r bookingRequest) toInput() (application.BookingInput, map[string]string) {
	fieldErrs := make(map[string]string)
	start, ok := parseTimestamp(r.StartTime)
	if !ok {
		fieldErrs["startTime"] = "start must be an RFC 3339 timestamp"
	}
	end, ok := parseTimestamp(r.EndTime)
	if !ok {
		fieldErrs["endTime"] = "end must be an RFC 3339 timestamp"
	}

	return application.BookingInput{
		Title:        r.Title,
		Start:        start,
		End:          end,
		Attendees:    r.Attendees,
		Organizer:    r.Organizer,
		RoomID:       r.RoomID,
		EquipmentIDs: r.Equipment,
	}, fieldErrs
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

type bookingDTO struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Attendees int      `json:"attendees"`
	Organizer string   `json:"organizer"`
	RoomID    string   `json:"roomId"`
	Room      *roomDTO `json:"room,omitempty"`
	Equipment []string `json:"equipment"`
	CreatedAt string   `json:"createdAt,omitempty"`
	UpdatedAt string   `json:"updatedAt,omitempty"`
}

func toBookingDTO(b application.Booking) bookingDTO {
	dto := bookingDTO{
		ID:        b.ID,
		Title:     b.Title,
		StartTime: formatTimestamp(b.Start),
		EndTime:   formatTimestamp(b.End),
		Attendees: b.Attendees,
		Organizer: b.Organizer,
		RoomID:    b.RoomID,
		Equipment: append([]string{}, b.EquipmentIDs...),
		CreatedAt: formatTimestamp(b.CreatedAt),
		UpdatedAt: formatTimestamp(b.UpdatedAt),
	}
	if b.Room != nil {
		room := toRoomDTO(*b.Room)
		dto.Room = &room
	}
	return dto
}
