package persistence

import "time"

// Equipment represents an item that can be attached to rooms and bookings.
type Equipment struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Room represents a bookable meeting room and the equipment installed in it.
type Room struct {
	ID           string
	Name         string
	Capacity     int
	EquipmentIDs []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Booking represents a reservation of a room for a time interval.
type Booking struct {
	ID           string
	Title        string
	Start        time.Time
	End          time.Time
	Attendees    int
	Organizer    string
	RoomID       string
	EquipmentIDs []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
