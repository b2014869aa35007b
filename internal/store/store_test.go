package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/example/room-booking/internal/resource"
)

type backendStub struct {
	rooms        []resource.Room
	roomsErr     error
	equipment    []resource.Equipment
	equipmentErr error
	bookings     []resource.Booking
	bookingsErr  error

	createErr error
	updateErr error
	deleteErr error

	calls   []string
	nextID  int
	deleted []string
}

func (b *backendStub) record(call string) { b.calls = append(b.calls, call) }

func (b *backendStub) id(prefix string) string {
	b.nextID++
	return fmt.Sprintf("%s-%d", prefix, b.nextID)
}

func (b *backendStub) ListRooms(ctx context.Context) ([]resource.Room, error) {
	b.record("ListRooms")
	return b.rooms, b.roomsErr
}

func (b *backendStub) CreateRoom(ctx context.Context, room resource.Room) (resource.Room, error) {
	b.record("CreateRoom")
	if b.createErr != nil {
		return resource.Room{}, b.createErr
	}
	room.ID = b.id("room")
	return room, nil
}

func (b *backendStub) UpdateRoom(ctx context.Context, room resource.Room) (resource.Room, error) {
	b.record("UpdateRoom")
	if b.updateErr != nil {
		return resource.Room{}, b.updateErr
	}
	return room, nil
}

func (b *backendStub) DeleteRoom(ctx context.Context, id string) error {
	b.record("DeleteRoom")
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *backendStub) ListEquipment(ctx context.Context) ([]resource.Equipment, error) {
	b.record("ListEquipment")
	return b.equipment, b.equipmentErr
}

func (b *backendStub) CreateEquipment(ctx context.Context, e resource.Equipment) (resource.Equipment, error) {
	b.record("CreateEquipment")
	if b.createErr != nil {
		return resource.Equipment{}, b.createErr
	}
	e.ID = b.id("eq")
	return e, nil
}

func (b *backendStub) UpdateEquipment(ctx context.Context, e resource.Equipment) (resource.Equipment, error) {
	b.record("UpdateEquipment")
	if b.updateErr != nil {
		return resource.Equipment{}, b.updateErr
	}
	return e, nil
}

func (b *backendStub) DeleteEquipment(ctx context.Context, id string) error {
	b.record("DeleteEquipment")
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *backendStub) ListBookings(ctx context.Context) ([]resource.Booking, error) {
	b.record("ListBookings")
	return b.bookings, b.bookingsErr
}

func (b *backendStub) CreateBooking(ctx context.Context, booking resource.Booking) (resource.Booking, error) {
	b.record("CreateBooking")
	if b.createErr != nil {
		return resource.Booking{}, b.createErr
	}
	booking.ID = b.id("booking")
	return booking, nil
}

func (b *backendStub) UpdateBooking(ctx context.Context, booking resource.Booking) (resource.Booking, error) {
	b.record("UpdateBooking")
	if b.updateErr != nil {
		return resource.Booking{}, b.updateErr
	}
	return booking, nil
}

func (b *backendStub) DeleteBooking(ctx context.Context, id string) error {
	b.record("DeleteBooking")
	if b.deleteErr != nil {
		return b.deleteErr
	}
	b.deleted = append(b.deleted, id)
	return nil
}

func newTestStore(t *testing.T, backend *backendStub) (*Store, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(backend, logger), &logs
}

func threeRooms() []resource.Room {
	return []resource.Room{
		{ID: "r1", Name: "Atlas", Capacity: 4},
		{ID: "r2", Name: "Borealis", Capacity: 8},
		{ID: "r3", Name: "Cirrus", Capacity: 12},
	}
}

func roomIDs(rooms []resource.Room) []string {
	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestStore_FetchRooms(t *testing.T) {
	backend := &backendStub{rooms: threeRooms()}
	s, _ := newTestStore(t, backend)

	if got := s.RoomsStatus(); got.State != NotLoaded {
		t.Fatalf("expected NotLoaded before fetch, got %v", got.State)
	}

	result := s.FetchRooms(context.Background())
	if !result.Loaded() || result.Count != 3 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if got := roomIDs(s.Rooms()); !reflect.DeepEqual(got, []string{"r1", "r2", "r3"}) {
		t.Fatalf("unexpected rooms: %v", got)
	}
}

func TestStore_ResolveRoom(t *testing.T) {
	backend := &backendStub{rooms: threeRooms()}
	s, _ := newTestStore(t, backend)
	s.FetchRooms(context.Background())

	cases := map[string]string{
		"r2":         "r2",
		"borealis":   "r2",
		" CIRRUS ":   "r3",
		"Nimbus":     "Nimbus",
		"  missing ": "missing",
	}
	for value, want := range cases {
		if got := s.ResolveRoom(value); got != want {
			t.Fatalf("ResolveRoom(%q) = %q, want %q", value, got, want)
		}
	}
}

func TestStore_FetchDistinguishesEmptyFromFailed(t *testing.T) {
	t.Run("empty but loaded", func(t *testing.T) {
		s, _ := newTestStore(t, &backendStub{})
		result := s.FetchEquipment(context.Background())
		if !result.Loaded() || result.Count != 0 || result.Err != nil {
			t.Fatalf("unexpected result: %+v", result)
		}
	})

	t.Run("transport failure empties the collection and is logged", func(t *testing.T) {
		backend := &backendStub{equipment: []resource.Equipment{{ID: "e1", Name: "TV"}}}
		s, logs := newTestStore(t, backend)
		s.FetchEquipment(context.Background())
		if len(s.Equipment()) != 1 {
			t.Fatal("expected initial equipment")
		}

		backend.equipmentErr = fmt.Errorf("list equipment: %w: dial tcp: connection refused", resource.ErrTransport)
		result := s.FetchEquipment(context.Background())

		if !result.Failed() || !errors.Is(result.Err, resource.ErrTransport) {
			t.Fatalf("expected failed result carrying transport error, got %+v", result)
		}
		if got := s.Equipment(); len(got) != 0 {
			t.Fatalf("expected empty equipment, got %v", got)
		}
		if !s.EquipmentStatus().Failed() {
			t.Fatal("expected equipment status to be failed")
		}
		if !strings.Contains(logs.String(), "failed to load equipment") || !strings.Contains(logs.String(), `"error_kind":"transport"`) {
			t.Fatalf("expected failure to be logged, got %s", logs.String())
		}
	})
}

func TestStore_AddRoom(t *testing.T) {
	t.Run("appends the confirmed room", func(t *testing.T) {
		backend := &backendStub{rooms: threeRooms()}
		s, _ := newTestStore(t, backend)
		s.FetchRooms(context.Background())

		created, err := s.AddRoom(context.Background(), resource.Room{ID: "client-made", Name: "Delta", Capacity: 6})
		if err != nil {
			t.Fatalf("AddRoom returned error: %v", err)
		}
		if created.ID != "room-1" {
			t.Fatalf("expected server identifier, got %q", created.ID)
		}
		if got := roomIDs(s.Rooms()); !reflect.DeepEqual(got, []string{"r1", "r2", "r3", "room-1"}) {
			t.Fatalf("unexpected rooms: %v", got)
		}
	})

	t.Run("server rejection leaves the collection unchanged", func(t *testing.T) {
		backend := &backendStub{
			rooms:     threeRooms(),
			createErr: fmt.Errorf("create room: %w", &resource.APIError{StatusCode: http.StatusConflict, Message: "Room overlap"}),
		}
		s, _ := newTestStore(t, backend)
		s.FetchRooms(context.Background())

		_, err := s.AddRoom(context.Background(), resource.Room{Name: "Delta", Capacity: 6})
		var apiErr *resource.APIError
		if !errors.As(err, &apiErr) || apiErr.Message != "Room overlap" {
			t.Fatalf("expected Room overlap error, got %v", err)
		}
		if !strings.Contains(err.Error(), "Room overlap") {
			t.Fatalf("expected message to be exposed, got %q", err.Error())
		}
		if got := roomIDs(s.Rooms()); !reflect.DeepEqual(got, []string{"r1", "r2", "r3"}) {
			t.Fatalf("expected unchanged rooms, got %v", got)
		}
	})

	t.Run("invalid rooms never reach the server", func(t *testing.T) {
		backend := &backendStub{}
		s, _ := newTestStore(t, backend)
		_, err := s.AddRoom(context.Background(), resource.Room{Name: "Delta"})
		var vErr *resource.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(backend.calls) != 0 {
			t.Fatalf("expected no backend calls, got %v", backend.calls)
		}
	})
}

func TestStore_UpdateRoom(t *testing.T) {
	backend := &backendStub{
		rooms:    threeRooms(),
		bookings: []resource.Booking{{ID: "b1", RoomID: "r2", Room: &resource.Room{ID: "r2", Name: "Borealis"}}},
	}
	s, _ := newTestStore(t, backend)
	s.FetchRooms(context.Background())
	s.FetchBookings(context.Background())

	if _, err := s.UpdateRoom(context.Background(), resource.Room{ID: "r2", Name: "Boreal", Capacity: 9}); err != nil {
		t.Fatalf("UpdateRoom returned error: %v", err)
	}
	rooms := s.Rooms()
	if rooms[1].Name != "Boreal" || rooms[1].Capacity != 9 {
		t.Fatalf("expected replaced room, got %+v", rooms[1])
	}
	if got := s.Bookings()[0].RoomName(); got != "Boreal" {
		t.Fatalf("expected booking to see new room name, got %q", got)
	}

	backend.updateErr = errors.New("boom")
	if _, err := s.UpdateRoom(context.Background(), resource.Room{ID: "r1", Name: "Nope", Capacity: 1}); err == nil {
		t.Fatal("expected error")
	}
	if got := s.Rooms()[0].Name; got != "Atlas" {
		t.Fatalf("failed update must not change state, got %q", got)
	}
}

func TestStore_DeleteRoom(t *testing.T) {
	t.Run("removing the middle room preserves order", func(t *testing.T) {
		backend := &backendStub{rooms: threeRooms()}
		s, _ := newTestStore(t, backend)
		s.FetchRooms(context.Background())

		if err := s.DeleteRoom(context.Background(), "r2"); err != nil {
			t.Fatalf("DeleteRoom returned error: %v", err)
		}
		if got := roomIDs(s.Rooms()); !reflect.DeepEqual(got, []string{"r1", "r3"}) {
			t.Fatalf("unexpected rooms: %v", got)
		}
	})

	t.Run("failed delete keeps the room", func(t *testing.T) {
		backend := &backendStub{rooms: threeRooms(), deleteErr: &resource.APIError{StatusCode: http.StatusConflict}}
		s, _ := newTestStore(t, backend)
		s.FetchRooms(context.Background())

		if err := s.DeleteRoom(context.Background(), "r2"); err == nil {
			t.Fatal("expected error")
		}
		if len(s.Rooms()) != 3 {
			t.Fatal("expected rooms to be unchanged")
		}
	})
}

func TestRemoveByID_Idempotent(t *testing.T) {
	rooms := threeRooms()
	once := removeByID(rooms, "r2", roomID)
	twice := removeByID(once, "r2", roomID)
	if !reflect.DeepEqual(roomIDs(twice), []string{"r1", "r3"}) {
		t.Fatalf("unexpected rooms: %v", roomIDs(twice))
	}
	if len(rooms) != 3 {
		t.Fatal("removeByID must not mutate its input")
	}
}

func TestReplaceByID_IgnoresUnknown(t *testing.T) {
	rooms := replaceByID(threeRooms(), resource.Room{ID: "r9", Name: "Ghost"}, roomID)
	if !reflect.DeepEqual(roomIDs(rooms), []string{"r1", "r2", "r3"}) {
		t.Fatalf("unexpected rooms: %v", roomIDs(rooms))
	}
}

func TestStore_Equipment(t *testing.T) {
	backend := &backendStub{
		equipment: []resource.Equipment{{ID: "e1", Name: "TV"}, {ID: "e2", Name: "Whiteboard"}},
		rooms:     []resource.Room{{ID: "r1", Name: "Atlas", Capacity: 4, Equipment: []resource.Equipment{{ID: "e1", Name: "TV"}}}},
		bookings:  []resource.Booking{{ID: "b1", RoomID: "r1", EquipmentIDs: []string{"e1", "e2"}}},
	}
	s, _ := newTestStore(t, backend)
	ctx := context.Background()
	s.FetchEquipment(ctx)
	s.FetchRooms(ctx)
	s.FetchBookings(ctx)

	if _, err := s.AddEquipment(ctx, resource.Equipment{Name: "Speaker"}); err != nil {
		t.Fatalf("AddEquipment returned error: %v", err)
	}
	if len(s.Equipment()) != 3 {
		t.Fatalf("expected three items, got %v", s.Equipment())
	}

	if _, err := s.UpdateEquipment(ctx, resource.Equipment{ID: "e1", Name: "OLED TV"}); err != nil {
		t.Fatalf("UpdateEquipment returned error: %v", err)
	}
	if got := s.Rooms()[0].Equipment[0].Name; got != "OLED TV" {
		t.Fatalf("expected room equipment to be refreshed, got %q", got)
	}

	if err := s.DeleteEquipment(ctx, "e1"); err != nil {
		t.Fatalf("DeleteEquipment returned error: %v", err)
	}
	if len(s.Rooms()[0].Equipment) != 0 {
		t.Fatalf("expected equipment to be detached from room, got %v", s.Rooms()[0].Equipment)
	}
	if got := s.Bookings()[0].EquipmentIDs; !reflect.DeepEqual(got, []string{"e2"}) {
		t.Fatalf("expected equipment to be detached from booking, got %v", got)
	}
}

func TestStore_Bookings(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	backend := &backendStub{rooms: threeRooms()}
	s, _ := newTestStore(t, backend)
	ctx := context.Background()
	s.FetchRooms(ctx)
	s.FetchBookings(ctx)

	t.Run("capacity is checked against the known room", func(t *testing.T) {
		_, err := s.AddBooking(ctx, resource.Booking{Title: "All hands", Organizer: "Ada", RoomID: "r1", Start: start, End: start.Add(time.Hour), Attendees: 5})
		var vErr *resource.ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["attendees"] == "" {
			t.Fatalf("expected attendees validation error, got %v", err)
		}
	})

	t.Run("confirmed booking gets its room attached", func(t *testing.T) {
		created, err := s.AddBooking(ctx, resource.Booking{Title: "Standup", Organizer: "Ada", RoomID: "r1", Start: start, End: start.Add(15 * time.Minute), Attendees: 3})
		if err != nil {
			t.Fatalf("AddBooking returned error: %v", err)
		}
		if created.RoomName() != "Atlas" {
			t.Fatalf("expected nested room, got %+v", created.Room)
		}

		created.Title = "Daily standup"
		if _, err := s.UpdateBooking(ctx, created); err != nil {
			t.Fatalf("UpdateBooking returned error: %v", err)
		}
		if got := s.Bookings()[0].Title; got != "Daily standup" {
			t.Fatalf("expected updated title, got %q", got)
		}

		if err := s.DeleteBooking(ctx, created.ID); err != nil {
			t.Fatalf("DeleteBooking returned error: %v", err)
		}
		if len(s.Bookings()) != 0 {
			t.Fatalf("expected no bookings, got %v", s.Bookings())
		}
	})
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	backend := &backendStub{rooms: []resource.Room{{ID: "r1", Name: "Atlas", Capacity: 4, Equipment: []resource.Equipment{{ID: "e1"}}}}}
	s, _ := newTestStore(t, backend)
	s.FetchRooms(context.Background())

	rooms := s.Rooms()
	rooms[0].Name = "mutated"
	rooms[0].Equipment[0].ID = "mutated"

	again := s.Rooms()
	if again[0].Name != "Atlas" || again[0].Equipment[0].ID != "e1" {
		t.Fatalf("store state leaked through snapshot: %+v", again[0])
	}
}

func TestLoadState_String(t *testing.T) {
	for state, want := range map[LoadState]string{NotLoaded: "not_loaded", Loaded: "loaded", Failed: "failed", LoadState(9): "LoadState(9)"} {
		if got := state.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
