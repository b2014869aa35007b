package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/application"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/resource"
)

var (
	equipmentCounter uint64
	roomCounter      uint64
	bookingCounter   uint64
)

var referenceTime = time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Equipment fixtures -----------------------------

// EquipmentFixture represents a deterministic equipment record.
type EquipmentFixture struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
}

// EquipmentOption configures the generated equipment fixture.
type EquipmentOption func(*EquipmentFixture)

// NewEquipmentFixture returns a deterministic equipment fixture.
func NewEquipmentFixture(opts ...EquipmentOption) EquipmentFixture {
	idx := atomic.AddUint64(&equipmentCounter, 1)
	fixture := EquipmentFixture{
		ID:          fmt.Sprintf("equipment-%03d", idx),
		Name:        fmt.Sprintf("Equipment %03d", idx),
		Description: "Standard issue",
		CreatedAt:   referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEquipmentName overrides the generated name.
func WithEquipmentName(name string) EquipmentOption {
	return func(f *EquipmentFixture) {
		f.Name = name
	}
}

// Persistence returns the fixture as a persistence.Equipment value.
func (f EquipmentFixture) Persistence() persistence.Equipment {
	return persistence.Equipment{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.CreatedAt,
	}
}

// Resource returns the fixture as the client side model without an identifier.
func (f EquipmentFixture) Resource() resource.Equipment {
	return resource.Equipment{Name: f.Name, Description: f.Description}
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic meeting room record.
type RoomFixture struct {
	ID           string
	Name         string
	Capacity     int
	EquipmentIDs []string
	CreatedAt    time.Time
}

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	fixture := RoomFixture{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Room %03d", idx),
		Capacity:  int(4 + idx%4),
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Hour),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomCapacity overrides the generated capacity.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = capacity
	}
}

// WithRoomEquipment installs the given equipment.
func WithRoomEquipment(ids ...string) RoomOption {
	return func(f *RoomFixture) {
		f.EquipmentIDs = append([]string(nil), ids...)
	}
}

// Persistence returns the fixture as a persistence.Room value.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:           f.ID,
		Name:         f.Name,
		Capacity:     f.Capacity,
		EquipmentIDs: append([]string(nil), f.EquipmentIDs...),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.CreatedAt,
	}
}

// Input returns the fixture as an application.RoomInput.
func (f RoomFixture) Input() application.RoomInput {
	return application.RoomInput{Name: f.Name, Capacity: f.Capacity, EquipmentIDs: append([]string(nil), f.EquipmentIDs...)}
}

// Resource returns the fixture as the client side model without an identifier.
func (f RoomFixture) Resource() resource.Room {
	room := resource.Room{Name: f.Name, Capacity: f.Capacity, Equipment: []resource.Equipment{}}
	for _, id := range f.EquipmentIDs {
		room.Equipment = append(room.Equipment, resource.Equipment{ID: id})
	}
	return room
}

// ----------------------------- Booking fixtures -----------------------------

// BookingFixture represents a deterministic booking of one hour.
type BookingFixture struct {
	ID           string
	Title        string
	Start        time.Time
	End          time.Time
	Attendees    int
	Organizer    string
	RoomID       string
	EquipmentIDs []string
	CreatedAt    time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a booking of roomID starting at the reference
// time plus one hour per generated booking.
func NewBookingFixture(roomID string, opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Duration(idx) * time.Hour)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%03d", idx),
		Title:     fmt.Sprintf("Meeting %03d", idx),
		Start:     start,
		End:       start.Add(time.Hour),
		Attendees: 2,
		Organizer: "organizer@example.test",
		RoomID:    roomID,
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingWindow overrides the booked interval.
func WithBookingWindow(start, end time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
		f.End = end
	}
}

// WithBookingAttendees overrides the attendee count.
func WithBookingAttendees(n int) BookingOption {
	return func(f *BookingFixture) {
		f.Attendees = n
	}
}

// WithBookingEquipment requests the given equipment.
func WithBookingEquipment(ids ...string) BookingOption {
	return func(f *BookingFixture) {
		f.EquipmentIDs = append([]string(nil), ids...)
	}
}

// Persistence returns the fixture as a persistence.Booking value.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:           f.ID,
		Title:        f.Title,
		Start:        f.Start,
		End:          f.End,
		Attendees:    f.Attendees,
		Organizer:    f.Organizer,
		RoomID:       f.RoomID,
		EquipmentIDs: append([]string(nil), f.EquipmentIDs...),
		CreatedAt:    f.CreatedAt,
		UpdatedAt:    f.CreatedAt,
	}
}

// Resource returns the fixture as the client side model without an identifier.
func (f BookingFixture) Resource() resource.Booking {
	return resource.Booking{
		Title:        f.Title,
		Start:        f.Start,
		End:          f.End,
		Attendees:    f.Attendees,
		Organizer:    f.Organizer,
		RoomID:       f.RoomID,
		EquipmentIDs: append([]string{}, f.EquipmentIDs...),
	}
}
