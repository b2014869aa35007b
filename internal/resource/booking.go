package resource

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Booking reserves a room for a time range.
//
// RoomID is always populated when the server knows the room; Room carries the
// nested copy the server returns on reads and is never sent back.
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
}

// Clone returns a copy that shares no slices or pointers with b.
func (b Booking) Clone() Booking {
	b.EquipmentIDs = append([]string(nil), b.EquipmentIDs...)
	if b.Room != nil {
		room := b.Room.Clone()
		b.Room = &room
	}
	return b
}

// RoomName returns the nested room name or an empty string.
func (b Booking) RoomName() string {
	if b.Room == nil {
		return ""
	}
	return b.Room.Name
}

// BookingPayload is the write representation of a Booking.
type BookingPayload struct {
	Title     string   `json:"title"`
	StartTime string   `json:"startTime"`
	EndTime   string   `json:"endTime"`
	Attendees int      `json:"attendees"`
	Organizer string   `json:"organizer"`
	RoomID    string   `json:"roomId"`
	Equipment []string `json:"equipment"`
}

// DecodeBooking parses a server booking document.
func DecodeBooking(data []byte) (Booking, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Booking{}, err
	}
	return bookingFromObject(obj), nil
}

func bookingFromObject(obj object) Booking {
	booking := Booking{
		ID:           obj.string("id"),
		Title:        obj.string("title"),
		Start:        obj.time("startTime"),
		End:          obj.time("endTime"),
		Attendees:    obj.int("attendees"),
		Organizer:    obj.string("organizer"),
		RoomID:       obj.string("roomId"),
		EquipmentIDs: []string{},
	}
	if nested, ok := obj.object("room"); ok {
		room := roomFromObject(nested)
		booking.Room = &room
		if booking.RoomID == "" {
			booking.RoomID = room.ID
		}
	}
	for _, raw := range obj.list("equipment") {
		if id := referenceID(raw); id != "" {
			booking.EquipmentIDs = append(booking.EquipmentIDs, id)
		}
	}
	return booking
}

// BookingCreate returns the payload sent when creating a booking.
func BookingCreate(b Booking) BookingPayload {
	roomID := b.RoomID
	if roomID == "" && b.Room != nil {
		roomID = b.Room.ID
	}
	equipment := append([]string{}, b.EquipmentIDs...)
	return BookingPayload{
		Title:     b.Title,
		StartTime: formatTime(b.Start),
		EndTime:   formatTime(b.End),
		Attendees: b.Attendees,
		Organizer: b.Organizer,
		RoomID:    roomID,
		Equipment: equipment,
	}
}

// BookingUpdate returns the payload sent when updating a booking.
func BookingUpdate(b Booking) BookingPayload {
	return BookingCreate(b)
}

// ValidateBooking checks the booking invariants that can be decided locally.
// When room is nil the capacity check is left to the server.
func ValidateBooking(b Booking, room *Room) error {
	vErr := &ValidationError{}
	if strings.TrimSpace(b.Title) == "" {
		vErr.add("title", "title is required")
	}
	if strings.TrimSpace(b.Organizer) == "" {
		vErr.add("organizer", "organizer is required")
	}
	if strings.TrimSpace(b.RoomID) == "" && (b.Room == nil || b.Room.ID == "") {
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
	} else if room != nil && room.Capacity > 0 && b.Attendees > room.Capacity {
		vErr.add("attendees", fmt.Sprintf("attendees exceed room capacity of %d", room.Capacity))
	}
	return vErr.errOrNil()
}

// ListBookings fetches every booking.
func (c *Client) ListBookings(ctx context.Context) ([]Booking, error) {
	data, err := c.do(ctx, "ListBookings", http.MethodGet, c.endpoint(bookingsPath, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	items, err := decodeArray(data)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	bookings := make([]Booking, 0, len(items))
	for _, item := range items {
		booking, err := DecodeBooking(item)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}

// GetBooking fetches one booking.
func (c *Client) GetBooking(ctx context.Context, id string) (Booking, error) {
	if strings.TrimSpace(id) == "" {
		return Booking{}, ErrMissingID
	}
	data, err := c.do(ctx, "GetBooking", http.MethodGet, c.endpoint(bookingsPath, id), nil)
	if err != nil {
		return Booking{}, fmt.Errorf("get booking: %w", err)
	}
	return DecodeBooking(data)
}

// CreateBooking creates b and returns the server confirmed booking.
func (c *Client) CreateBooking(ctx context.Context, b Booking) (Booking, error) {
	data, err := c.do(ctx, "CreateBooking", http.MethodPost, c.endpoint(bookingsPath, ""), BookingCreate(b))
	if err != nil {
		return Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return DecodeBooking(data)
}

// UpdateBooking replaces the writable fields of b.ID.
func (c *Client) UpdateBooking(ctx context.Context, b Booking) (Booking, error) {
	if strings.TrimSpace(b.ID) == "" {
		return Booking{}, ErrMissingID
	}
	data, err := c.do(ctx, "UpdateBooking", http.MethodPut, c.endpoint(bookingsPath, b.ID), BookingUpdate(b))
	if err != nil {
		return Booking{}, fmt.Errorf("update booking: %w", err)
	}
	return DecodeBooking(data)
}

// DeleteBooking removes the booking with the given identifier.
func (c *Client) DeleteBooking(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if _, err := c.do(ctx, "DeleteBooking", http.MethodDelete, c.endpoint(bookingsPath, id), nil); err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	return nil
}
