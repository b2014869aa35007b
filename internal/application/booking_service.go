package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-booking/internal/logging"
	"github.com/example/room-booking/internal/scheduler"
)

// BookingService validates bookings against their room and rejects
// overlapping reservations of the same room.
type BookingService struct {
	bookings    BookingRepository
	rooms       RoomRepository
	equipment   EquipmentRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger

	// writeMu serializes the overlap check with the write that follows it.
	writeMu sync.Mutex
}

// NewBookingService constructs a booking service with the provided dependencies.
func NewBookingService(bookings BookingRepository, rooms RoomRepository, equipment EquipmentRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = uuid.NewString
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		equipment:   equipment,
		idGenerator: idGenerator,
		now:         now,
		logger:      logging.OrDefault(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates input and persists a new booking.
func (s *BookingService) CreateBooking(ctx context.Context, input BookingInput) (booking Booking, err error) {
	if s == nil || s.bookings == nil {
		err = fmt.Errorf("booking repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "CreateBooking", "room_id", input.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", booking.ID).InfoContext(ctx, "booking created")
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	now := s.now().UTC()
	candidate := bookingFromInput(input)
	candidate.ID = s.idGenerator()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	var room Room
	room, err = s.checkBooking(ctx, candidate)
	if err != nil {
		return
	}

	booking, err = s.bookings.CreateBooking(ctx, candidate)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	booking.Room = &room
	return
}

// UpdateBooking replaces the fields of an existing booking. The booking's
// previous interval does not count as an overlap.
func (s *BookingService) UpdateBooking(ctx context.Context, params UpdateBookingParams) (booking Booking, err error) {
	if s == nil || s.bookings == nil {
		err = fmt.Errorf("booking repository not configured")
		return
	}

	logger := s.loggerWith(ctx, "UpdateBooking", "booking_id", params.BookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking updated")
	}()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var existing Booking
	existing, err = s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		err = mapRepoError(err)
		return
	}

	updated := bookingFromInput(params.Input)
	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now().UTC()

	var room Room
	room, err = s.checkBooking(ctx, updated)
	if err != nil {
		return
	}

	booking, err = s.bookings.UpdateBooking(ctx, updated)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	booking.Room = &room
	return
}

// DeleteBooking removes a booking.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteBooking", "booking_id", bookingID)

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		err = mapRepoError(err)
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking deleted")
	return nil
}

// GetBooking returns a booking with its room filled in.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking repository not configured")
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, mapRepoError(err)
	}
	if s.rooms != nil {
		room, err := s.rooms.GetRoom(ctx, booking.RoomID)
		switch {
		case err == nil:
			booking.Room = &room
		case !errors.Is(mapRepoError(err), ErrNotFound):
			return Booking{}, mapRepoError(err)
		}
	}
	return booking, nil
}

// ListBookings returns every booking ordered by start, each with its room
// filled in.
func (s *BookingService) ListBookings(ctx context.Context) (bookings []Booking, err error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking repository not configured")
	}

	logger := s.loggerWith(ctx, "ListBookings")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to list bookings", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("result_count", len(bookings)).DebugContext(ctx, "bookings listed")
	}()

	bookings, err = s.bookings.ListBookings(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	if s.rooms == nil || len(bookings) == 0 {
		return
	}

	var rooms []Room
	rooms, err = s.rooms.ListRooms(ctx)
	if err != nil {
		err = mapRepoError(err)
		return
	}
	byID := make(map[string]Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}
	for i := range bookings {
		if room, ok := byID[bookings[i].RoomID]; ok {
			bookings[i].Room = &room
		}
	}
	return
}

// checkBooking runs field validation, then reference checks against the room
// and equipment catalog, then the overlap check. It returns the booked room.
func (s *BookingService) checkBooking(ctx context.Context, candidate Booking) (Room, error) {
	vErr := validateBookingFields(candidate)
	if vErr.HasErrors() {
		return Room{}, vErr
	}

	if s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	room, err := s.rooms.GetRoom(ctx, candidate.RoomID)
	if err != nil {
		if errors.Is(mapRepoError(err), ErrNotFound) {
			vErr.add("roomId", "room does not exist")
			return Room{}, vErr
		}
		return Room{}, mapRepoError(err)
	}
	if candidate.Attendees > room.Capacity {
		vErr.add("attendees", fmt.Sprintf("attendees exceed room capacity of %d", room.Capacity))
	}

	_, refErr, err := resolveEquipment(ctx, s.equipment, "equipment", candidate.EquipmentIDs)
	if err != nil {
		return Room{}, mapRepoError(err)
	}
	vErr.merge(refErr)
	if vErr.HasErrors() {
		return Room{}, vErr
	}

	existing, err := s.bookings.ListRoomBookings(ctx, candidate.RoomID, candidate.Start, candidate.End)
	if err != nil {
		return Room{}, mapRepoError(err)
	}
	reservations := make([]scheduler.Reservation, 0, len(existing))
	for _, other := range existing {
		reservations = append(reservations, toReservation(other))
	}
	conflicts := scheduler.DetectConflicts(reservations, toReservation(candidate))
	if len(conflicts) > 0 {
		with := make([]string, 0, len(conflicts))
		for _, conflict := range conflicts {
			with = append(with, conflict.WithBookingID)
		}
		return Room{}, &ConflictError{Reason: ReasonRoomOverlap, With: with}
	}

	return room, nil
}

func bookingFromInput(input BookingInput) Booking {
	return Booking{
		Title:        strings.TrimSpace(input.Title),
		Start:        input.Start.UTC(),
		End:          input.End.UTC(),
		Attendees:    input.Attendees,
		Organizer:    strings.TrimSpace(input.Organizer),
		RoomID:       strings.TrimSpace(input.RoomID),
		EquipmentIDs: uniqueIDs(input.EquipmentIDs),
	}
}

func toReservation(b Booking) scheduler.Reservation {
	return scheduler.Reservation{ID: b.ID, RoomID: b.RoomID, Start: b.Start, End: b.End}
}

func validateBookingFields(b Booking) *ValidationError {
	vErr := &ValidationError{}

	if b.Title == "" {
		vErr.add("title", "title is required")
	}
	if b.Organizer == "" {
		vErr.add("organizer", "organizer is required")
	}
	if b.RoomID == "" {
		vErr.add("roomId", "room is required")
	}
	switch {
	case b.Start.IsZero():
		vErr.add("startTime", "start is required")
	case b.End.IsZero():
		vErr.add("endTime", "end is required")
	case !b.Start.Before(b.End):
		vErr.add("endTime", "start must be before end")
	}
	if b.Attendees <= 0 {
		vErr.add("attendees", "attendees must be positive")
	}

	return vErr
}
