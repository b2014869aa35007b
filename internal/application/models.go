package application

import "time"

// Equipment represents an item that can be installed in rooms or requested
// for bookings.
type Equipment struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Room represents a bookable meeting room with its installed equipment.
type Room struct {
	ID        string
	Name      string
	Capacity  int
	Equipment []Equipment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EquipmentIDs returns the identifiers of the room's equipment in order.
func (r Room) EquipmentIDs() []string {
	ids := make([]string, 0, len(r.Equipment))
	for _, item := range r.Equipment {
		ids = append(ids, item.ID)
	}
	return ids
}

// Booking represents a reservation of a room. Room is filled in on reads.
type Booking struct {
	ID           string
	Title        string
	Start        time.Time
	End          time.Time
	Attendees    int
	Organizer    string
	RoomID       string
	Room         *Room
	EquipmentIDs []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EquipmentInput captures caller provided equipment fields.
type EquipmentInput struct {
	Name        string
	Description string
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name         string
	Capacity     int
	EquipmentIDs []string
}

// BookingInput captures caller provided booking fields.
type BookingInput struct {
	Title        string
	Start        time.Time
	End          time.Time
	Attendees    int
	Organizer    string
	RoomID       string
	EquipmentIDs []string
}

// UpdateEquipmentParams wraps the data required to update equipment.
type UpdateEquipmentParams struct {
	EquipmentID string
	Input       EquipmentInput
}

// UpdateRoomParams wraps the data required to update a room.
type UpdateRoomParams struct {
	RoomID string
	Input  RoomInput
}

// UpdateBookingParams wraps the data required to update a booking.
type UpdateBookingParams struct {
	BookingID string
	Input     BookingInput
}
