package application

import (
	"context"
	"errors"
	"testing"

	"github.com/example/room-booking/internal/persistence"
)

func TestRoomService_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("validates required attributes", func(t *testing.T) {
		svc := NewRoomService(newMemoryRepo(), nil, nil, nil)

		_, err := svc.CreateRoom(ctx, RoomInput{Name: "   ", Capacity: 0})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if _, ok := vErr.FieldErrors["name"]; !ok {
			t.Fatalf("expected name validation error, got %v", vErr.FieldErrors)
		}
		if _, ok := vErr.FieldErrors["capacity"]; !ok {
			t.Fatalf("expected capacity validation error, got %v", vErr.FieldErrors)
		}
	})

	t.Run("rejects unknown equipment", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewRoomService(repo, repo, nil, nil)

		_, err := svc.CreateRoom(ctx, RoomInput{Name: "Atlas", Capacity: 4, EquipmentIDs: []string{"ghost"}})

		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["equipment"] != "unknown equipment ids: ghost" {
			t.Fatalf("expected equipment validation error, got %v", err)
		}
	})

	t.Run("resolves equipment in order without repeats", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.CreateEquipment(ctx, Equipment{ID: "eq-a", Name: "Projector"})
		repo.CreateEquipment(ctx, Equipment{ID: "eq-b", Name: "Whiteboard"})
		svc := NewRoomService(repo, repo, sequentialIDs("room"), fixedNow)

		room, err := svc.CreateRoom(ctx, RoomInput{Name: " Atlas ", Capacity: 6, EquipmentIDs: []string{"eq-b", "eq-a", "eq-b"}})
		if err != nil {
			t.Fatalf("CreateRoom returned error: %v", err)
		}
		if room.ID != "room-1" || room.Name != "Atlas" || room.Capacity != 6 {
			t.Fatalf("unexpected room: %+v", room)
		}
		ids := room.EquipmentIDs()
		if len(ids) != 2 || ids[0] != "eq-b" || ids[1] != "eq-a" {
			t.Fatalf("unexpected equipment order: %v", ids)
		}
		if room.Equipment[0].Name != "Whiteboard" {
			t.Fatalf("expected full equipment objects, got %+v", room.Equipment)
		}
	})

	t.Run("maps duplicate to conflict", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.createErr = persistence.ErrDuplicate
		svc := NewRoomService(repo, repo, nil, nil)

		_, err := svc.CreateRoom(ctx, RoomInput{Name: "Atlas", Capacity: 2})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})
}

func TestRoomService_UpdateRoom(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewRoomService(repo, repo, sequentialIDs("room"), fixedNow)

	created, err := svc.CreateRoom(ctx, RoomInput{Name: "Atlas", Capacity: 4})
	if err != nil {
		t.Fatalf("CreateRoom returned error: %v", err)
	}

	t.Run("not found", func(t *testing.T) {
		_, err := svc.UpdateRoom(ctx, UpdateRoomParams{RoomID: "missing", Input: RoomInput{Name: "x", Capacity: 1}})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("replaces fields", func(t *testing.T) {
		updated, err := svc.UpdateRoom(ctx, UpdateRoomParams{RoomID: created.ID, Input: RoomInput{Name: "Atlas XL", Capacity: 12}})
		if err != nil {
			t.Fatalf("UpdateRoom returned error: %v", err)
		}
		if updated.Name != "Atlas XL" || updated.Capacity != 12 || updated.ID != created.ID {
			t.Fatalf("unexpected room: %+v", updated)
		}
	})

	t.Run("validation leaves room unchanged", func(t *testing.T) {
		_, err := svc.UpdateRoom(ctx, UpdateRoomParams{RoomID: created.ID, Input: RoomInput{Name: "Atlas", Capacity: -1}})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		stored, _ := repo.GetRoom(ctx, created.ID)
		if stored.Capacity != 12 {
			t.Fatalf("expected stored capacity to stay 12, got %d", stored.Capacity)
		}
	})
}

func TestRoomService_DeleteRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("room with bookings is a conflict", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.deleteErr = persistence.ErrReferenced
		svc := NewRoomService(repo, repo, nil, nil)

		err := svc.DeleteRoom(ctx, "room-1")

		var conflict *ConflictError
		if !errors.As(err, &conflict) || conflict.Reason != ReasonRoomHasBookings {
			t.Fatalf("expected room has bookings conflict, got %v", err)
		}
	})

	t.Run("missing room", func(t *testing.T) {
		svc := NewRoomService(newMemoryRepo(), nil, nil, nil)
		if err := svc.DeleteRoom(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRoomService_ListRooms(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryRepo()
	svc := NewRoomService(repo, repo, sequentialIDs("room"), fixedNow)

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		if _, err := svc.CreateRoom(ctx, RoomInput{Name: name, Capacity: 2}); err != nil {
			t.Fatalf("CreateRoom returned error: %v", err)
		}
	}

	rooms, err := svc.ListRooms(ctx)
	if err != nil {
		t.Fatalf("ListRooms returned error: %v", err)
	}
	if len(rooms) != 3 || rooms[0].Name != "Zeta" || rooms[2].Name != "Mid" {
		t.Fatalf("expected creation order, got %+v", rooms)
	}
}
