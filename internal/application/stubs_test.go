package application

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/example/room-booking/internal/persistence"
)

// memoryRepo is an in-memory implementation of every repository interface.
type memoryRepo struct {
	mu        sync.Mutex
	equipment map[string]Equipment
	rooms     map[string]Room
	bookings  map[string]Booking
	order     []string

	listErr   error
	createErr error
	deleteErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		equipment: make(map[string]Equipment),
		rooms:     make(map[string]Room),
		bookings:  make(map[string]Booking),
	}
}

func (m *memoryRepo) CreateEquipment(ctx context.Context, e Equipment) (Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return Equipment{}, m.createErr
	}
	m.equipment[e.ID] = e
	m.order = append(m.order, e.ID)
	return e, nil
}

func (m *memoryRepo) GetEquipment(ctx context.Context, id string) (Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.equipment[id]
	if !ok {
		return Equipment{}, persistence.ErrNotFound
	}
	return e, nil
}

func (m *memoryRepo) UpdateEquipment(ctx context.Context, e Equipment) (Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipment[e.ID]; !ok {
		return Equipment{}, persistence.ErrNotFound
	}
	m.equipment[e.ID] = e
	return e, nil
}

func (m *memoryRepo) DeleteEquipment(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.equipment[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.equipment, id)
	return nil
}

func (m *memoryRepo) ListEquipment(ctx context.Context) ([]Equipment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Equipment
	for _, id := range m.order {
		if e, ok := m.equipment[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateRoom(ctx context.Context, r Room) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return Room{}, m.createErr
	}
	m.rooms[r.ID] = r
	m.order = append(m.order, r.ID)
	return r, nil
}

func (m *memoryRepo) GetRoom(ctx context.Context, id string) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return r, nil
}

func (m *memoryRepo) UpdateRoom(ctx context.Context, r Room) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[r.ID]; !ok {
		return Room{}, persistence.ErrNotFound
	}
	m.rooms[r.ID] = r
	return r, nil
}

func (m *memoryRepo) DeleteRoom(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.rooms, id)
	return nil
}

func (m *memoryRepo) ListRooms(ctx context.Context) ([]Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Room
	for _, id := range m.order {
		if r, ok := m.rooms[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryRepo) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return Booking{}, m.createErr
	}
	b.Room = nil
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memoryRepo) GetBooking(ctx context.Context, id string) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return Booking{}, persistence.ErrNotFound
	}
	return b, nil
}

func (m *memoryRepo) UpdateBooking(ctx context.Context, b Booking) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[b.ID]; !ok {
		return Booking{}, persistence.ErrNotFound
	}
	b.Room = nil
	m.bookings[b.ID] = b
	return b, nil
}

func (m *memoryRepo) DeleteBooking(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.bookings, id)
	return nil
}

func (m *memoryRepo) ListBookings(ctx context.Context) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *memoryRepo) ListRoomBookings(ctx context.Context, roomID string, from, to time.Time) ([]Booking, error) {
	all, _ := m.ListBookings(ctx)
	var out []Booking
	for _, b := range all {
		if b.RoomID == roomID && b.End.After(from) && b.Start.Before(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}
