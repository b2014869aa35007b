package store

import (
	"context"

	"github.com/example/room-booking/internal/resource"
)

// AddRoom creates the room on the server and appends the confirmed copy.
func (s *Store) AddRoom(ctx context.Context, room resource.Room) (resource.Room, error) {
	if err := resource.ValidateRoom(room); err != nil {
		return resource.Room{}, s.fail(ctx, "AddRoom", err)
	}
	room.ID = ""
	created, err := s.backend.CreateRoom(ctx, room.Clone())
	if err != nil {
		return resource.Room{}, s.fail(ctx, "AddRoom", err)
	}

	s.mu.Lock()
	s.rooms = append(append([]resource.Room(nil), s.rooms...), created)
	s.mu.Unlock()

	s.log(ctx, "AddRoom", "room_id", created.ID).InfoContext(ctx, "room added")
	return created.Clone(), nil
}

// UpdateRoom sends the room to the server and replaces the matching member
// with the confirmed copy.
func (s *Store) UpdateRoom(ctx context.Context, room resource.Room) (resource.Room, error) {
	if err := resource.ValidateRoom(room); err != nil {
		return resource.Room{}, s.fail(ctx, "UpdateRoom", err, "room_id", room.ID)
	}
	updated, err := s.backend.UpdateRoom(ctx, room.Clone())
	if err != nil {
		return resource.Room{}, s.fail(ctx, "UpdateRoom", err, "room_id", room.ID)
	}

	s.mu.Lock()
	s.rooms = replaceByID(s.rooms, updated, roomID)
	for i, booking := range s.bookings {
		if booking.RoomID == updated.ID {
			nested := updated.Clone()
			booking.Room = &nested
			s.bookings[i] = booking
		}
	}
	s.mu.Unlock()

	s.log(ctx, "UpdateRoom", "room_id", updated.ID).InfoContext(ctx, "room updated")
	return updated.Clone(), nil
}

// DeleteRoom deletes the room on the server and removes it locally.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	if err := s.backend.DeleteRoom(ctx, id); err != nil {
		return s.fail(ctx, "DeleteRoom", err, "room_id", id)
	}

	s.mu.Lock()
	s.rooms = removeByID(s.rooms, id, roomID)
	s.mu.Unlock()

	s.log(ctx, "DeleteRoom", "room_id", id).InfoContext(ctx, "room deleted")
	return nil
}

// AddEquipment creates the equipment item and appends the confirmed copy.
func (s *Store) AddEquipment(ctx context.Context, e resource.Equipment) (resource.Equipment, error) {
	if err := resource.ValidateEquipment(e); err != nil {
		return resource.Equipment{}, s.fail(ctx, "AddEquipment", err)
	}
	e.ID = ""
	created, err := s.backend.CreateEquipment(ctx, e)
	if err != nil {
		return resource.Equipment{}, s.fail(ctx, "AddEquipment", err)
	}

	s.mu.Lock()
	s.equipment = append(append([]resource.Equipment(nil), s.equipment...), created)
	s.mu.Unlock()

	s.log(ctx, "AddEquipment", "equipment_id", created.ID).InfoContext(ctx, "equipment added")
	return created, nil
}

// UpdateEquipment sends the item to the server and replaces the matching member.
// Rooms carrying the item see the new name and description as well.
func (s *Store) UpdateEquipment(ctx context.Context, e resource.Equipment) (resource.Equipment, error) {
	if err := resource.ValidateEquipment(e); err != nil {
		return resource.Equipment{}, s.fail(ctx, "UpdateEquipment", err, "equipment_id", e.ID)
	}
	updated, err := s.backend.UpdateEquipment(ctx, e)
	if err != nil {
		return resource.Equipment{}, s.fail(ctx, "UpdateEquipment", err, "equipment_id", e.ID)
	}

	s.mu.Lock()
	s.equipment = replaceByID(s.equipment, updated, equipmentID)
	for i, room := range s.rooms {
		if containsEquipment(room.Equipment, updated.ID) {
			room = room.Clone()
			room.Equipment = replaceByID(room.Equipment, updated, equipmentID)
			s.rooms[i] = room
		}
	}
	s.mu.Unlock()

	s.log(ctx, "UpdateEquipment", "equipment_id", updated.ID).InfoContext(ctx, "equipment updated")
	return updated, nil
}

// DeleteEquipment deletes the item on the server and removes it locally,
// including from the rooms and bookings that referenced it.
func (s *Store) DeleteEquipment(ctx context.Context, id string) error {
	if err := s.backend.DeleteEquipment(ctx, id); err != nil {
		return s.fail(ctx, "DeleteEquipment", err, "equipment_id", id)
	}

	s.mu.Lock()
	s.equipment = removeByID(s.equipment, id, equipmentID)
	for i, room := range s.rooms {
		if containsEquipment(room.Equipment, id) {
			room = room.Clone()
			room.Equipment = removeByID(room.Equipment, id, equipmentID)
			s.rooms[i] = room
		}
	}
	for i, booking := range s.bookings {
		booking.EquipmentIDs = removeByID(booking.EquipmentIDs, id, func(v string) string { return v })
		s.bookings[i] = booking
	}
	s.mu.Unlock()

	s.log(ctx, "DeleteEquipment", "equipment_id", id).InfoContext(ctx, "equipment deleted")
	return nil
}

// AddBooking validates the booking against the known room, creates it on the
// server, and appends the confirmed copy.
func (s *Store) AddBooking(ctx context.Context, b resource.Booking) (resource.Booking, error) {
	if err := s.validateBooking(b); err != nil {
		return resource.Booking{}, s.fail(ctx, "AddBooking", err, "room_id", b.RoomID)
	}
	b.ID = ""
	created, err := s.backend.CreateBooking(ctx, b.Clone())
	if err != nil {
		return resource.Booking{}, s.fail(ctx, "AddBooking", err, "room_id", b.RoomID)
	}

	s.mu.Lock()
	created = s.attachRoomLocked(created)
	s.bookings = append(append([]resource.Booking(nil), s.bookings...), created)
	s.mu.Unlock()

	s.log(ctx, "AddBooking", "booking_id", created.ID, "room_id", created.RoomID).InfoContext(ctx, "booking added")
	return created.Clone(), nil
}

// UpdateBooking sends the booking to the server and replaces the matching member.
func (s *Store) UpdateBooking(ctx context.Context, b resource.Booking) (resource.Booking, error) {
	if err := s.validateBooking(b); err != nil {
		return resource.Booking{}, s.fail(ctx, "UpdateBooking", err, "booking_id", b.ID)
	}
	updated, err := s.backend.UpdateBooking(ctx, b.Clone())
	if err != nil {
		return resource.Booking{}, s.fail(ctx, "UpdateBooking", err, "booking_id", b.ID)
	}

	s.mu.Lock()
	updated = s.attachRoomLocked(updated)
	s.bookings = replaceByID(s.bookings, updated, bookingID)
	s.mu.Unlock()

	s.log(ctx, "UpdateBooking", "booking_id", updated.ID).InfoContext(ctx, "booking updated")
	return updated.Clone(), nil
}

// DeleteBooking deletes the booking on the server and removes it locally.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	if err := s.backend.DeleteBooking(ctx, id); err != nil {
		return s.fail(ctx, "DeleteBooking", err, "booking_id", id)
	}

	s.mu.Lock()
	s.bookings = removeByID(s.bookings, id, bookingID)
	s.mu.Unlock()

	s.log(ctx, "DeleteBooking", "booking_id", id).InfoContext(ctx, "booking deleted")
	return nil
}

func (s *Store) validateBooking(b resource.Booking) error {
	id := b.RoomID
	if id == "" && b.Room != nil {
		id = b.Room.ID
	}
	if room, ok := s.RoomByID(id); ok {
		return resource.ValidateBooking(b, &room)
	}
	return resource.ValidateBooking(b, nil)
}

// attachRoomLocked fills the nested room from the collection when the server
// response carried only the identifier.
func (s *Store) attachRoomLocked(b resource.Booking) resource.Booking {
	if b.Room != nil || b.RoomID == "" {
		return b
	}
	for _, room := range s.rooms {
		if room.ID == b.RoomID {
			nested := room.Clone()
			b.Room = &nested
			break
		}
	}
	return b
}

func containsEquipment(items []resource.Equipment, id string) bool {
	for _, item := range items {
		if item.ID == id {
			return true
		}
	}
	return false
}
