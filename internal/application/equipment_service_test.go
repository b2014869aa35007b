package application

import (
	"context"
	"errors"
	"testing"
)

func TestEquipmentService(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a name", func(t *testing.T) {
		svc := NewEquipmentService(newMemoryRepo(), nil, nil, nil)

		_, err := svc.CreateEquipment(ctx, EquipmentInput{Name: "  "})

		var vErr *ValidationError
		if !errors.As(err, &vErr) || vErr.FieldErrors["name"] == "" {
			t.Fatalf("expected name validation error, got %v", err)
		}
	})

	t.Run("creates with generated id and trimmed fields", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewEquipmentService(repo, sequentialIDs("eq"), fixedNow, nil)

		created, err := svc.CreateEquipment(ctx, EquipmentInput{Name: " Projector ", Description: " 4K "})
		if err != nil {
			t.Fatalf("CreateEquipment returned error: %v", err)
		}
		if created.ID != "eq-1" || created.Name != "Projector" || created.Description != "4K" {
			t.Fatalf("unexpected equipment: %+v", created)
		}
		if !created.CreatedAt.Equal(fixedNow()) {
			t.Fatalf("expected creation time from clock, got %s", created.CreatedAt)
		}
	})

	t.Run("defaults to uuid identifiers", func(t *testing.T) {
		svc := NewEquipmentService(newMemoryRepo(), nil, nil, nil)

		created, err := svc.CreateEquipment(ctx, EquipmentInput{Name: "Whiteboard"})
		if err != nil {
			t.Fatalf("CreateEquipment returned error: %v", err)
		}
		if len(created.ID) != 36 {
			t.Fatalf("expected a uuid, got %q", created.ID)
		}
	})

	t.Run("update of unknown item is not found", func(t *testing.T) {
		svc := NewEquipmentService(newMemoryRepo(), nil, nil, nil)

		_, err := svc.UpdateEquipment(ctx, UpdateEquipmentParams{EquipmentID: "missing", Input: EquipmentInput{Name: "x"}})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update replaces fields and keeps creation time", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewEquipmentService(repo, sequentialIDs("eq"), fixedNow, nil)
		created, _ := svc.CreateEquipment(ctx, EquipmentInput{Name: "Screen"})

		updated, err := svc.UpdateEquipment(ctx, UpdateEquipmentParams{EquipmentID: created.ID, Input: EquipmentInput{Name: "Big screen", Description: "85in"}})
		if err != nil {
			t.Fatalf("UpdateEquipment returned error: %v", err)
		}
		if updated.Name != "Big screen" || updated.Description != "85in" || !updated.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("unexpected update result: %+v", updated)
		}
	})

	t.Run("delete and list", func(t *testing.T) {
		repo := newMemoryRepo()
		svc := NewEquipmentService(repo, sequentialIDs("eq"), fixedNow, nil)
		first, _ := svc.CreateEquipment(ctx, EquipmentInput{Name: "A"})
		second, _ := svc.CreateEquipment(ctx, EquipmentInput{Name: "B"})

		if err := svc.DeleteEquipment(ctx, first.ID); err != nil {
			t.Fatalf("DeleteEquipment returned error: %v", err)
		}
		if err := svc.DeleteEquipment(ctx, first.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}

		items, err := svc.ListEquipment(ctx)
		if err != nil {
			t.Fatalf("ListEquipment returned error: %v", err)
		}
		if len(items) != 1 || items[0].ID != second.ID {
			t.Fatalf("unexpected list: %+v", items)
		}
	})
}
