// Package store holds the rooms, equipment, and bookings fetched from the
// booking API and keeps them in step with the server.
//
// Collections change only after the server confirms a mutation: a failed call
// leaves the previous state untouched and the error is returned to the caller.
// List fetches never return an error; instead each collection records a
// LoadResult so views can tell "loaded, nothing there" from "failed to load".
package store

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/example/room-booking/internal/logging"
	"github.com/example/room-booking/internal/resource"
)

// Backend is the subset of the API client the store drives. *resource.Client
// satisfies it.
type Backend interface {
	ListRooms(ctx context.Context) ([]resource.Room, error)
	CreateRoom(ctx context.Context, room resource.Room) (resource.Room, error)
	UpdateRoom(ctx context.Context, room resource.Room) (resource.Room, error)
	DeleteRoom(ctx context.Context, id string) error

	ListEquipment(ctx context.Context) ([]resource.Equipment, error)
	CreateEquipment(ctx context.Context, e resource.Equipment) (resource.Equipment, error)
	UpdateEquipment(ctx context.Context, e resource.Equipment) (resource.Equipment, error)
	DeleteEquipment(ctx context.Context, id string) error

	ListBookings(ctx context.Context) ([]resource.Booking, error)
	CreateBooking(ctx context.Context, b resource.Booking) (resource.Booking, error)
	UpdateBooking(ctx context.Context, b resource.Booking) (resource.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// Store is safe for concurrent use. Reconciliation is applied in the order
// server confirmations arrive, so two in-flight updates of the same entity
// resolve to whichever response lands last.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu              sync.RWMutex
	rooms           []resource.Room
	equipment       []resource.Equipment
	bookings        []resource.Booking
	roomsStatus     LoadResult
	equipmentStatus LoadResult
	bookingsStatus  LoadResult
}

// New constructs an empty store backed by the given API client.
func New(backend Backend, logger *slog.Logger) *Store {
	return &Store{backend: backend, logger: logging.OrDefault(logger)}
}

func (s *Store) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return logging.Scoped(ctx, s.logger, "component", "store", operation, attrs...)
}

func (s *Store) fail(ctx context.Context, operation string, err error, attrs ...any) error {
	s.log(ctx, operation, attrs...).ErrorContext(ctx, "store action failed", "error", err, "error_kind", resource.ErrorKind(err))
	return err
}

// Rooms returns a copy of the room collection.
func (s *Store) Rooms() []resource.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]resource.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		out = append(out, room.Clone())
	}
	return out
}

// Equipment returns a copy of the equipment collection.
func (s *Store) Equipment() []resource.Equipment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]resource.Equipment{}, s.equipment...)
}

// Bookings returns a copy of the booking collection.
func (s *Store) Bookings() []resource.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]resource.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		out = append(out, booking.Clone())
	}
	return out
}

// RoomByID returns the room with the given identifier from the collection.
func (s *Store) RoomByID(id string) (resource.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		if room.ID == id {
			return room.Clone(), true
		}
	}
	return resource.Room{}, false
}

// ResolveRoom maps a room identifier or a case-insensitive room name to the
// room's identifier. Unknown values come back trimmed but otherwise unchanged.
func (s *Store) ResolveRoom(value string) string {
	value = strings.TrimSpace(value)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, room := range s.rooms {
		if room.ID == value {
			return value
		}
	}
	for _, room := range s.rooms {
		if strings.EqualFold(room.Name, value) {
			return room.ID
		}
	}
	return value
}

// RoomsStatus reports the outcome of the latest room fetch.
func (s *Store) RoomsStatus() LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomsStatus
}

// EquipmentStatus reports the outcome of the latest equipment fetch.
func (s *Store) EquipmentStatus() LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.equipmentStatus
}

// BookingsStatus reports the outcome of the latest booking fetch.
func (s *Store) BookingsStatus() LoadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookingsStatus
}

func roomID(r resource.Room) string { return r.ID }
func equipmentID(e resource.Equipment) string { return e.ID }
func bookingID(b resource.Booking) string { return b.ID }

// replaceByID swaps every member whose key matches updated. Members not in the
// collection are left out; the collection only mirrors what was fetched.
func replaceByID[T any](items []T, updated T, key func(T) string) []T {
	id := key(updated)
	out := make([]T, 0, len(items))
	for _, item := range items {
		if key(item) == id {
			out = append(out, updated)
			continue
		}
		out = append(out, item)
	}
	return out
}

// removeByID drops every member with the given identifier, preserving order.
// Removing an absent identifier is a no-op.
func removeByID[T any](items []T, id string, key func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if key(item) != id {
			out = append(out, item)
		}
	}
	return out
}
