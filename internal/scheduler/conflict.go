package scheduler

import (
	"sort"
	"time"
)

// Reservation is the part of a booking that matters for room conflicts.
type Reservation struct {
	ID     string
	RoomID string
	Start  time.Time
	End    time.Time
}

// Conflict details an existing reservation that overlaps the candidate.
type Conflict struct {
	WithBookingID string
	RoomID        string
	Start         time.Time
	End           time.Time
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any instant. Back-to-back intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// DetectConflicts returns the reservations of the candidate's room that
// overlap it, earliest first. A reservation with the candidate's ID is the
// candidate itself and is skipped, so updates do not conflict with their
// previous version.
func DetectConflicts(existing []Reservation, candidate Reservation) []Conflict {
	var conflicts []Conflict
	for _, other := range existing {
		if other.RoomID != candidate.RoomID {
			continue
		}
		if candidate.ID != "" && other.ID == candidate.ID {
			continue
		}
		if !Overlaps(candidate.Start, candidate.End, other.Start, other.End) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			WithBookingID: other.ID,
			RoomID:        other.RoomID,
			Start:         other.Start,
			End:           other.End,
		})
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].Start.Before(conflicts[j].Start)
	})
	return conflicts
}
