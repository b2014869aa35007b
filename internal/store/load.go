package store

import (
	"context"
	"fmt"
	"time"

	"github.com/example/room-booking/internal/resource"
)

// LoadState describes whether a collection has been fetched.
type LoadState int

const (
	// NotLoaded means no fetch has completed yet.
	NotLoaded LoadState = iota
	// Loaded means the latest fetch succeeded, possibly with zero items.
	Loaded
	// Failed means the latest fetch failed and the collection was emptied.
	Failed
)

func (s LoadState) String() string {
	switch s {
	case NotLoaded:
		return "not_loaded"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

// LoadResult is the outcome of a collection fetch.
type LoadResult struct {
	State    LoadState
	Count    int
	Err      error
	LoadedAt time.Time
}

// Failed reports whether the fetch failed.
func (r LoadResult) Failed() bool { return r.State == Failed }

// Loaded reports whether the fetch succeeded.
func (r LoadResult) Loaded() bool { return r.State == Loaded }

func loaded(count int) LoadResult {
	return LoadResult{State: Loaded, Count: count, LoadedAt: time.Now()}
}

func failed(err error) LoadResult {
	return LoadResult{State: Failed, Err: err, LoadedAt: time.Now()}
}

// FetchRooms replaces the room collection with the server's list. On failure
// the collection is emptied, the error is logged, and the returned result is
// marked Failed.
func (s *Store) FetchRooms(ctx context.Context) LoadResult {
	rooms, err := s.backend.ListRooms(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log(ctx, "FetchRooms").ErrorContext(ctx, "failed to load rooms", "error", err, "error_kind", resource.ErrorKind(err))
		s.rooms = nil
		s.roomsStatus = failed(err)
		return s.roomsStatus
	}
	s.rooms = append([]resource.Room(nil), rooms...)
	s.roomsStatus = loaded(len(rooms))
	return s.roomsStatus
}

// FetchEquipment replaces the equipment collection with the server's list.
func (s *Store) FetchEquipment(ctx context.Context) LoadResult {
	items, err := s.backend.ListEquipment(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log(ctx, "FetchEquipment").ErrorContext(ctx, "failed to load equipment", "error", err, "error_kind", resource.ErrorKind(err))
		s.equipment = nil
		s.equipmentStatus = failed(err)
		return s.equipmentStatus
	}
	s.equipment = append([]resource.Equipment(nil), items...)
	s.equipmentStatus = loaded(len(items))
	return s.equipmentStatus
}

// FetchBookings replaces the booking collection with the server's list.
func (s *Store) FetchBookings(ctx context.Context) LoadResult {
	bookings, err := s.backend.ListBookings(ctx)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log(ctx, "FetchBookings").ErrorContext(ctx, "failed to load bookings", "error", err, "error_kind", resource.ErrorKind(err))
		s.bookings = nil
		s.bookingsStatus = failed(err)
		return s.bookingsStatus
	}
	s.bookings = append([]resource.Booking(nil), bookings...)
	s.bookingsStatus = loaded(len(bookings))
	return s.bookingsStatus
}
