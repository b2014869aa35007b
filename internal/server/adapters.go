package server

import (
	"context"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
)

type equipmentRepositoryAdapter struct {
	repo persistence.EquipmentRepository
}

func newEquipmentRepositoryAdapter(repo persistence.EquipmentRepository) *equipmentRepositoryAdapter {
	return &equipmentRepositoryAdapter{repo: repo}
}

func (a *equipmentRepositoryAdapter) CreateEquipment(ctx context.Context, equipment application.Equipment) (application.Equipment, error) {
	if err := a.repo.CreateEquipment(ctx, toPersistenceEquipment(equipment)); err != nil {
		return application.Equipment{}, err
	}
	return a.GetEquipment(ctx, equipment.ID)
}

func (a *equipmentRepositoryAdapter) GetEquipment(ctx context.Context, id string) (application.Equipment, error) {
	stored, err := a.repo.GetEquipment(ctx, id)
	if err != nil {
		return application.Equipment{}, err
	}
	return toApplicationEquipment(stored), nil
}

func (a *equipmentRepositoryAdapter) UpdateEquipment(ctx context.Context, equipment application.Equipment) (application.Equipment, error) {
	if err := a.repo.UpdateEquipment(ctx, toPersistenceEquipment(equipment)); err != nil {
		return application.Equipment{}, err
	}
	return a.GetEquipment(ctx, equipment.ID)
}

func (a *equipmentRepositoryAdapter) DeleteEquipment(ctx context.Context, id string) error {
	return a.repo.DeleteEquipment(ctx, id)
}

func (a *equipmentRepositoryAdapter) ListEquipment(ctx context.Context) ([]application.Equipment, error) {
	models, err := a.repo.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]application.Equipment, 0, len(models))
	for _, model := range models {
		items = append(items, toApplicationEquipment(model))
	}
	return items, nil
}

// roomRepositoryAdapter resolves the stored equipment identifiers of a room
// into full equipment records.
type roomRepositoryAdapter struct {
	rooms     persistence.RoomRepository
	equipment persistence.EquipmentRepository
}

func newRoomRepositoryAdapter(rooms persistence.RoomRepository, equipment persistence.EquipmentRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{rooms: rooms, equipment: equipment}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.rooms.CreateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	return a.GetRoom(ctx, room.ID)
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id string) (application.Room, error) {
	stored, err := a.rooms.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	catalog, err := a.catalog(ctx)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored, catalog), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	if err := a.rooms.UpdateRoom(ctx, toPersistenceRoom(room)); err != nil {
		return application.Room{}, err
	}
	return a.GetRoom(ctx, room.ID)
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id string) error {
	return a.rooms.DeleteRoom(ctx, id)
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.rooms.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := a.catalog(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model, catalog))
	}
	return rooms, nil
}

func (a *roomRepositoryAdapter) catalog(ctx context.Context) (map[string]persistence.Equipment, error) {
	items, err := a.equipment.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]persistence.Equipment, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog, nil
}

type bookingRepositoryAdapter struct {
	repo persistence.BookingRepository
}

func newBookingRepositoryAdapter(repo persistence.BookingRepository) *bookingRepositoryAdapter {
	return &bookingRepositoryAdapter{repo: repo}
}

func (a *bookingRepositoryAdapter) CreateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.CreateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	return a.GetBooking(ctx, booking.ID)
}

func (a *bookingRepositoryAdapter) GetBooking(ctx context.Context, id string) (application.Booking, error) {
	stored, err := a.repo.GetBooking(ctx, id)
	if err != nil {
		return application.Booking{}, err
	}
	return toApplicationBooking(stored), nil
}

func (a *bookingRepositoryAdapter) UpdateBooking(ctx context.Context, booking application.Booking) (application.Booking, error) {
	if err := a.repo.UpdateBooking(ctx, toPersistenceBooking(booking)); err != nil {
		return application.Booking{}, err
	}
	return a.GetBooking(ctx, booking.ID)
}

func (a *bookingRepositoryAdapter) DeleteBooking(ctx context.Context, id string) error {
	return a.repo.DeleteBooking(ctx, id)
}

func (a *bookingRepositoryAdapter) ListBookings(ctx context.Context) ([]application.Booking, error) {
	return a.list(ctx, persistence.BookingFilter{})
}

func (a *bookingRepositoryAdapter) ListRoomBookings(ctx context.Context, roomID string, from, to time.Time) ([]application.Booking, error) {
	return a.list(ctx, persistence.BookingFilter{RoomID: roomID, EndsAfter: &from, StartsBefore: &to})
}

func (a *bookingRepositoryAdapter) list(ctx context.Context, filter persistence.BookingFilter) ([]application.Booking, error) {
	models, err := a.repo.ListBookings(ctx, filter)
	if err != nil {
		return nil, err
	}
	bookings := make([]application.Booking, 0, len(models))
	for _, model := range models {
		bookings = append(bookings, toApplicationBooking(model))
	}
	return bookings, nil
}

func toPersistenceEquipment(e application.Equipment) persistence.Equipment {
	return persistence.Equipment{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toApplicationEquipment(e persistence.Equipment) application.Equipment {
	return application.Equipment{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:           room.ID,
		Name:         room.Name,
		Capacity:     room.Capacity,
		EquipmentIDs: room.EquipmentIDs(),
		CreatedAt:    room.CreatedAt,
		UpdatedAt:    room.UpdatedAt,
	}
}

// toApplicationRoom drops identifiers missing from the catalog.
func toApplicationRoom(room persistence.Room, catalog map[string]persistence.Equipment) application.Room {
	equipment := make([]application.Equipment, 0, len(room.EquipmentIDs))
	for _, id := range room.EquipmentIDs {
		if item, ok := catalog[id]; ok {
			equipment = append(equipment, toApplicationEquipment(item))
		}
	}
	return application.Room{
		ID:        room.ID,
		Name:      room.Name,
		Capacity:  room.Capacity,
		Equipment: equipment,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}
}

func toPersistenceBooking(b application.Booking) persistence.Booking {
	return persistence.Booking{
		ID:           b.ID,
		Title:        b.Title,
		Start:        b.Start,
		End:          b.End,
		Attendees:    b.Attendees,
		Organizer:    b.Organizer,
		RoomID:       b.RoomID,
		EquipmentIDs: append([]string{}, b.EquipmentIDs...),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func toApplicationBooking(b persistence.Booking) application.Booking {
	return application.Booking{
		ID:           b.ID,
		Title:        b.Title,
		Start:        b.Start,
		End:          b.End,
		Attendees:    b.Attendees,
		Organizer:    b.Organizer,
		RoomID:       b.RoomID,
		EquipmentIDs: append([]string{}, b.EquipmentIDs...),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}
