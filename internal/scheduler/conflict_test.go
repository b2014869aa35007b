package scheduler

import (
	"testing"
	"time"
)

func TestDetectConflicts(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	at := func(hours float64) time.Time {
		return base.Add(time.Duration(hours * float64(time.Hour)))
	}

	existing := []Reservation{
		{ID: "b-2", RoomID: "room-1", Start: at(2), End: at(3)},
		{ID: "b-1", RoomID: "room-1", Start: at(0), End: at(1)},
		{ID: "b-3", RoomID: "room-2", Start: at(0), End: at(4)},
	}

	t.Run("room overlap produces conflict", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Reservation{RoomID: "room-1", Start: at(0.5), End: at(2.5)})
		if len(conflicts) != 2 {
			t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
		}
		if conflicts[0].WithBookingID != "b-1" || conflicts[1].WithBookingID != "b-2" {
			t.Fatalf("expected earliest first, got %+v", conflicts)
		}
	})

	t.Run("back-to-back bookings do not conflict", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Reservation{RoomID: "room-1", Start: at(1), End: at(2)})
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %+v", conflicts)
		}
	})

	t.Run("other rooms are ignored", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Reservation{RoomID: "room-3", Start: at(0), End: at(4)})
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %+v", conflicts)
		}
	})

	t.Run("an update does not conflict with itself", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Reservation{ID: "b-2", RoomID: "room-1", Start: at(2.5), End: at(3.5)})
		if len(conflicts) != 0 {
			t.Fatalf("expected no conflicts, got %+v", conflicts)
		}
	})

	t.Run("containment counts as overlap", func(t *testing.T) {
		conflicts := DetectConflicts(existing, Reservation{RoomID: "room-2", Start: at(1), End: at(2)})
		if len(conflicts) != 1 || conflicts[0].WithBookingID != "b-3" {
			t.Fatalf("expected b-3 to conflict, got %+v", conflicts)
		}
	})
}

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	cases := map[string]struct {
		aStart, aEnd, bStart, bEnd time.Duration
		want                       bool
	}{
		"identical":     {0, time.Hour, 0, time.Hour, true},
		"partial":       {0, time.Hour, 30 * time.Minute, 2 * time.Hour, true},
		"touching":      {0, time.Hour, time.Hour, 2 * time.Hour, false},
		"disjoint":      {0, time.Hour, 3 * time.Hour, 4 * time.Hour, false},
		"contained":     {0, 4 * time.Hour, time.Hour, 2 * time.Hour, true},
		"reverse touch": {time.Hour, 2 * time.Hour, 0, time.Hour, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := Overlaps(base.Add(tc.aStart), base.Add(tc.aEnd), base.Add(tc.bStart), base.Add(tc.bEnd))
			if got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
		})
	}
}
