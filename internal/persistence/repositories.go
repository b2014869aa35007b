package persistence

import (
	"context"
	"time"
)

// EquipmentRepository exposes CRUD operations for equipment.
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment Equipment) error
	UpdateEquipment(ctx context.Context, equipment Equipment) error
	GetEquipment(ctx context.Context, id string) (Equipment, error)
	ListEquipment(ctx context.Context) ([]Equipment, error)
	// DeleteEquipment removes the item and detaches it from every room and booking.
	DeleteEquipment(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	// DeleteRoom fails with ErrReferenced while bookings still use the room.
	DeleteRoom(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries. Zero values do not filter.
type BookingFilter struct {
	RoomID string
	// EndsAfter and StartsBefore select bookings intersecting [EndsAfter, StartsBefore).
	EndsAfter    *time.Time
	StartsBefore *time.Time
}

// BookingRepository stores bookings and their equipment.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	UpdateBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}
