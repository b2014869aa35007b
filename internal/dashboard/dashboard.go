// Package dashboard computes the summary shown on the booking dashboard:
// upcoming reservations, the number of rooms, and their combined capacity.
package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/example/room-booking/internal/resource"
	"github.com/example/room-booking/internal/store"
)

// UnknownRoom labels bookings whose room could not be resolved.
const UnknownRoom = "unknown room"

// Source is the part of the store the dashboard reads from.
type Source interface {
	FetchRooms(ctx context.Context) store.LoadResult
	FetchBookings(ctx context.Context) store.LoadResult
	Rooms() []resource.Room
	Bookings() []resource.Booking
	RoomsStatus() store.LoadResult
	BookingsStatus() store.LoadResult
}

// Entry is one upcoming booking as displayed on the dashboard.
type Entry struct {
	BookingID string
	Title     string
	Start     time.Time
	End       time.Time
	RoomName  string
	StartsIn  string
}

// Summary is the dashboard view model.
type Summary struct {
	GeneratedAt    time.Time
	UpcomingCount  int
	Upcoming       []Entry
	RoomCount      int
	TotalCapacity  int
	RoomsStatus    store.LoadResult
	BookingsStatus store.LoadResult
}

// Load refreshes rooms and bookings through the store concurrently and
// summarizes them relative to now.
func Load(ctx context.Context, src Source, now time.Time) Summary {
	var group errgroup.Group
	group.Go(func() error {
		src.FetchRooms(ctx)
		return nil
	})
	group.Go(func() error {
		src.FetchBookings(ctx)
		return nil
	})
	// Fetches report failures through their LoadResult, never as an error.
	_ = group.Wait()

	return Summarize(src, now)
}

// Summarize builds a Summary from the collections already held by src.
func Summarize(src Source, now time.Time) Summary {
	rooms := src.Rooms()
	bookings := src.Bookings()

	summary := Summary{
		GeneratedAt:    now,
		RoomCount:      len(rooms),
		TotalCapacity:  TotalCapacity(rooms),
		RoomsStatus:    src.RoomsStatus(),
		BookingsStatus: src.BookingsStatus(),
	}

	names := make(map[string]string, len(rooms))
	for _, room := range rooms {
		names[room.ID] = room.Name
	}

	for _, booking := range Upcoming(bookings, now) {
		name := booking.RoomName()
		if name == "" {
			name = names[booking.RoomID]
		}
		if name == "" {
			name = UnknownRoom
		}
		summary.Upcoming = append(summary.Upcoming, Entry{
			BookingID: booking.ID,
			Title:     booking.Title,
			Start:     booking.Start,
			End:       booking.End,
			RoomName:  name,
			StartsIn:  humanize.RelTime(booking.Start, now, "ago", "from now"),
		})
	}
	summary.UpcomingCount = len(summary.Upcoming)
	return summary
}

// Upcoming returns the bookings that start strictly after now, earliest first.
// A booking starting exactly at now is not upcoming.
func Upcoming(bookings []resource.Booking, now time.Time) []resource.Booking {
	var out []resource.Booking
	for _, booking := range bookings {
		if booking.Start.After(now) {
			out = append(out, booking)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// TotalCapacity sums the capacity of every room.
func TotalCapacity(rooms []resource.Room) int {
	total := 0
	for _, room := range rooms {
		total += room.Capacity
	}
	return total
}
