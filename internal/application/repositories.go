package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// EquipmentRepository captures the persistence operations for equipment.
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment Equipment) (Equipment, error)
	GetEquipment(ctx context.Context, id string) (Equipment, error)
	UpdateEquipment(ctx context.Context, equipment Equipment) (Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error
	ListEquipment(ctx context.Context) ([]Equipment, error)
}

// RoomRepository captures the persistence operations for rooms. Rooms are
// returned with their equipment resolved.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id string) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// BookingRepository captures the persistence operations for bookings.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) (Booking, error)
	GetBooking(ctx context.Context, id string) (Booking, error)
	UpdateBooking(ctx context.Context, booking Booking) (Booking, error)
	DeleteBooking(ctx context.Context, id string) error
	ListBookings(ctx context.Context) ([]Booking, error)
	// ListRoomBookings returns bookings of roomID intersecting [from, to).
	ListRoomBookings(ctx context.Context, roomID string, from, to time.Time) ([]Booking, error)
}

func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, persistence.ErrReferenced):
		return &ConflictError{Reason: ReasonRoomHasBookings}
	case errors.Is(err, persistence.ErrDuplicate):
		return &ConflictError{Reason: ReasonAlreadyExists}
	case errors.Is(err, persistence.ErrConstraintViolation):
		return &ConflictError{Reason: ReasonStaleReference}
	}
	return err
}

// uniqueIDs trims identifiers and drops blanks and repeats, keeping order.
func uniqueIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// resolveEquipment looks up every identifier. Unknown identifiers are
// reported as a validation error on field.
func resolveEquipment(ctx context.Context, repo EquipmentRepository, field string, ids []string) ([]Equipment, *ValidationError, error) {
	vErr := &ValidationError{}
	if len(ids) == 0 {
		return []Equipment{}, vErr, nil
	}
	if repo == nil {
		vErr.add(field, unknownIDsMessage("equipment", ids))
		return nil, vErr, nil
	}

	items, err := repo.ListEquipment(ctx)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]Equipment, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	resolved := make([]Equipment, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		item, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		resolved = append(resolved, item)
	}
	if len(unknown) > 0 {
		vErr.add(field, unknownIDsMessage("equipment", unknown))
	}
	return resolved, vErr, nil
}
