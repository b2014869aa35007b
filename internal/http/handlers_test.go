package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/example/room-booking/internal/application"
)

type roomServiceStub struct {
	created   application.RoomInput
	updated   application.UpdateRoomParams
	deletedID string
	rooms     []application.Room
	err       error
}

func (s *roomServiceStub) CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error) {
	s.created = input
	if s.err != nil {
		return application.Room{}, s.err
	}
	return application.Room{ID: "room-1", Name: input.Name, Capacity: input.Capacity}, nil
}

func (s *roomServiceStub) UpdateRoom(ctx context.Context, params application.UpdateRoomParams) (application.Room, error) {
	s.updated = params
	if s.err != nil {
		return application.Room{}, s.err
	}
	return application.Room{ID: params.RoomID, Name: params.Input.Name, Capacity: params.Input.Capacity}, nil
}

func (s *roomServiceStub) DeleteRoom(ctx context.Context, roomID string) error {
	s.deletedID = roomID
	return s.err
}

func (s *roomServiceStub) GetRoom(ctx context.Context, roomID string) (application.Room, error) {
	for _, room := range s.rooms {
		if room.ID == roomID {
			return room, nil
		}
	}
	return application.Room{}, application.ErrNotFound
}

func (s *roomServiceStub) ListRooms(ctx context.Context) ([]application.Room, error) {
	return s.rooms, s.err
}

type bookingServiceStub struct {
	input application.BookingInput
	err   error
}

func (s *bookingServiceStub) CreateBooking(ctx context.Context, input application.BookingInput) (application.Booking, error) {
	s.input = input
	if s.err != nil {
		return application.Booking{}, s.err
	}
	room := application.Room{ID: input.RoomID, Name: "Atlas", Capacity: 8}
	return application.Booking{
		ID:           "booking-1",
		Title:        input.Title,
		Start:        input.Start,
		End:          input.End,
		Attendees:    input.Attendees,
		Organizer:    input.Organizer,
		RoomID:       input.RoomID,
		Room:         &room,
		EquipmentIDs: input.EquipmentIDs,
	}, nil
}

func (s *bookingServiceStub) UpdateBooking(ctx context.Context, params application.UpdateBookingParams) (application.Booking, error) {
	return application.Booking{}, s.err
}

func (s *bookingServiceStub) DeleteBooking(ctx context.Context, bookingID string) error {
	return s.err
}

func (s *bookingServiceStub) GetBooking(ctx context.Context, bookingID string) (application.Booking, error) {
	return application.Booking{}, application.ErrNotFound
}

func (s *bookingServiceStub) ListBookings(ctx context.Context) ([]application.Booking, error) {
	return nil, s.err
}

func serve(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp
}

func TestRoomHandlers(t *testing.T) {
	t.Parallel()

	t.Run("list returns a bare array with equipment objects", func(t *testing.T) {
		t.Parallel()
		svc := &roomServiceStub{rooms: []application.Room{{
			ID:        "room-1",
			Name:      "Atlas",
			Capacity:  6,
			Equipment: []application.Equipment{{ID: "eq-1", Name: "Projector"}},
		}}}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})

		rec := serve(t, router, http.MethodGet, "/rooms", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		var rooms []map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&rooms); err != nil {
			t.Fatalf("decode: %v", err)
		}
		equipment, _ := rooms[0]["equipment"].([]any)
		first, _ := equipment[0].(map[string]any)
		if len(rooms) != 1 || first["name"] != "Projector" {
			t.Fatalf("unexpected body: %v", rooms)
		}
	})

	t.Run("create passes equipment identifiers", func(t *testing.T) {
		t.Parallel()
		svc := &roomServiceStub{}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})

		rec := serve(t, router, http.MethodPost, "/rooms", `{"name":" Atlas ","capacity":4,"equipment":["eq-1"]}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if svc.created.Name != "Atlas" || len(svc.created.EquipmentIDs) != 1 {
			t.Fatalf("unexpected input: %+v", svc.created)
		}
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(&roomServiceStub{}, nil)})

		rec := serve(t, router, http.MethodPost, "/rooms", `{"name":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("validation errors carry field messages", func(t *testing.T) {
		t.Parallel()
		svc := &roomServiceStub{err: &application.ValidationError{FieldErrors: map[string]string{"capacity": "capacity must be positive"}}}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})

		rec := serve(t, router, http.MethodPut, "/rooms/room-1", `{"name":"Atlas","capacity":0}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if resp := decodeError(t, rec); resp.Errors["capacity"] != "capacity must be positive" {
			t.Fatalf("unexpected body: %+v", resp)
		}
		if svc.updated.RoomID != "room-1" {
			t.Fatalf("expected id from path, got %q", svc.updated.RoomID)
		}
	})

	t.Run("delete of a booked room is a conflict", func(t *testing.T) {
		t.Parallel()
		svc := &roomServiceStub{err: &application.ConflictError{Reason: application.ReasonRoomHasBookings}}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})

		rec := serve(t, router, http.MethodDelete, "/rooms/room-1", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if resp := decodeError(t, rec); resp.Message != "Room has bookings" {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	})

	t.Run("unknown room is not found", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(&roomServiceStub{}, nil)})

		rec := serve(t, router, http.MethodGet, "/rooms/missing", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("unsupported method", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(&roomServiceStub{}, nil)})

		rec := serve(t, router, http.MethodPatch, "/rooms/room-1", "")
		if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") == "" {
			t.Fatalf("expected 405 with Allow header, got %d", rec.Code)
		}
	})

	t.Run("unexpected errors are hidden", func(t *testing.T) {
		t.Parallel()
		svc := &roomServiceStub{err: errors.New("disk on fire")}
		router := NewRouter(RouterConfig{Rooms: NewRoomHandler(svc, nil)})

		rec := serve(t, router, http.MethodGet, "/rooms", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		if resp := decodeError(t, rec); strings.Contains(resp.Message, "disk") {
			t.Fatalf("internal error leaked: %q", resp.Message)
		}
	})
}

func TestBookingHandlers(t *testing.T) {
	t.Parallel()

	t.Run("create parses timestamps and returns nested room", func(t *testing.T) {
		t.Parallel()
		svc := &bookingServiceStub{}
		router := NewRouter(RouterConfig{Bookings: NewBookingHandler(svc, nil)})

		body := `{"title":"Review","startTime":"2026-03-02T10:00:00+09:00","endTime":"2026-03-02T11:00:00+09:00","attendees":3,"organizer":"kim","roomId":"room-1","equipment":["eq-1"]}`
		rec := serve(t, router, http.MethodPost, "/bookings", body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		want := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)
		if !svc.input.Start.Equal(want) {
			t.Fatalf("unexpected start %s", svc.input.Start)
		}

		var dto bookingDTO
		if err := json.NewDecoder(rec.Body).Decode(&dto); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if dto.ID != "booking-1" || dto.RoomID != "room-1" || dto.Room == nil || dto.Room.Name != "Atlas" {
			t.Fatalf("unexpected response: %+v", dto)
		}
		if dto.StartTime != "2026-03-02T01:00:00Z" || len(dto.Equipment) != 1 {
			t.Fatalf("unexpected response: %+v", dto)
		}
	})

	t.Run("unparseable timestamp is a validation error", func(t *testing.T) {
		t.Parallel()
		svc := &bookingServiceStub{}
		router := NewRouter(RouterConfig{Bookings: NewBookingHandler(svc, nil)})

		rec := serve(t, router, http.MethodPost, "/bookings", `{"title":"x","startTime":"tomorrow","endTime":"","attendees":1,"organizer":"a","roomId":"r"}`)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if resp := decodeError(t, rec); resp.Errors["startTime"] == "" {
			t.Fatalf("expected startTime error, got %+v", resp)
		}
		if svc.input.Title != "" {
			t.Fatal("service should not be called")
		}
	})

	t.Run("overlap is reported as conflict", func(t *testing.T) {
		t.Parallel()
		svc := &bookingServiceStub{err: &application.ConflictError{Reason: application.ReasonRoomOverlap, With: []string{"b-0"}}}
		router := NewRouter(RouterConfig{Bookings: NewBookingHandler(svc, nil)})

		rec := serve(t, router, http.MethodPost, "/bookings", `{"title":"x","startTime":"2026-03-02T10:00:00Z","endTime":"2026-03-02T11:00:00Z","attendees":1,"organizer":"a","roomId":"r"}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if resp := decodeError(t, rec); resp.Message != "Room overlap" {
			t.Fatalf("unexpected message %q", resp.Message)
		}
	})

	t.Run("empty list is an empty array", func(t *testing.T) {
		t.Parallel()
		router := NewRouter(RouterConfig{Bookings: NewBookingHandler(&bookingServiceStub{}, nil)})

		rec := serve(t, router, http.MethodGet, "/bookings", "")
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("expected empty array, got %q", rec.Body.String())
		}
	})
}

func TestHealth(t *testing.T) {
	t.Parallel()

	router := NewRouter(RouterConfig{})
	rec := serve(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected health response: %d %q", rec.Code, rec.Body.String())
	}
}
