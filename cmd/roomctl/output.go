package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/example/room-booking/internal/config"
	"github.com/example/room-booking/internal/dashboard"
	"github.com/example/room-booking/internal/resource"
	"github.com/example/room-booking/internal/store"
)

// timeLayout is how booking times are printed and accepted, in local time.
const timeLayout = "2006-01-02 15:04"

type equipmentView struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type roomView struct {
	ID        string          `json:"id" yaml:"id"`
	Name      string          `json:"name" yaml:"name"`
	Capacity  int             `json:"capacity" yaml:"capacity"`
	Equipment []equipmentView `json:"equipment" yaml:"equipment"`
}

type bookingView struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	StartTime time.Time `json:"startTime" yaml:"startTime"`
	EndTime   time.Time `json:"endTime" yaml:"endTime"`
	Attendees int       `json:"attendees" yaml:"attendees"`
	Organizer string    `json:"organizer" yaml:"organizer"`
	RoomID    string    `json:"roomId" yaml:"roomId"`
	RoomName  string    `json:"roomName,omitempty" yaml:"roomName,omitempty"`
	Equipment []string  `json:"equipment" yaml:"equipment"`
}

type entryView struct {
	BookingID string    `json:"bookingId" yaml:"bookingId"`
	Title     string    `json:"title" yaml:"title"`
	Room      string    `json:"room" yaml:"room"`
	StartTime time.Time `json:"startTime" yaml:"startTime"`
	EndTime   time.Time `json:"endTime" yaml:"endTime"`
	StartsIn  string    `json:"startsIn" yaml:"startsIn"`
}

type dashboardView struct {
	GeneratedAt   time.Time   `json:"generatedAt" yaml:"generatedAt"`
	RoomCount     int         `json:"roomCount" yaml:"roomCount"`
	TotalCapacity int         `json:"totalCapacity" yaml:"totalCapacity"`
	UpcomingCount int         `json:"upcomingCount" yaml:"upcomingCount"`
	Upcoming      []entryView `json:"upcoming" yaml:"upcoming"`
	RoomsError    string      `json:"roomsError,omitempty" yaml:"roomsError,omitempty"`
	BookingsError string      `json:"bookingsError,omitempty" yaml:"bookingsError,omitempty"`
}

type deletedView struct {
	Deleted []string `json:"deleted" yaml:"deleted"`
}

func newEquipmentView(e resource.Equipment) equipmentView {
	return equipmentView{ID: e.ID, Name: e.Name, Description: e.Description}
}

func newRoomView(r resource.Room) roomView {
	view := roomView{ID: r.ID, Name: r.Name, Capacity: r.Capacity, Equipment: make([]equipmentView, 0, len(r.Equipment))}
	for _, e := range r.Equipment {
		view.Equipment = append(view.Equipment, newEquipmentView(e))
	}
	return view
}

func newBookingView(b resource.Booking, st *store.Store) bookingView {
	name := b.RoomName()
	if name == "" {
		if room, ok := st.RoomByID(b.RoomID); ok {
			name = room.Name
		}
	}
	return bookingView{
		ID:        b.ID,
		Title:     b.Title,
		StartTime: b.Start,
		EndTime:   b.End,
		Attendees: b.Attendees,
		Organizer: b.Organizer,
		RoomID:    b.RoomID,
		RoomName:  name,
		Equipment: append(make([]string, 0, len(b.EquipmentIDs)), b.EquipmentIDs...),
	}
}

func newDashboardView(s dashboard.Summary) dashboardView {
	view := dashboardView{
		GeneratedAt:   s.GeneratedAt,
		RoomCount:     s.RoomCount,
		TotalCapacity: s.TotalCapacity,
		UpcomingCount: s.UpcomingCount,
		Upcoming:      make([]entryView, 0, len(s.Upcoming)),
	}
	if s.RoomsStatus.Failed() {
		view.RoomsError = s.RoomsStatus.Err.Error()
	}
	if s.BookingsStatus.Failed() {
		view.BookingsError = s.BookingsStatus.Err.Error()
	}
	for _, entry := range s.Upcoming {
		view.Upcoming = append(view.Upcoming, entryView{
			BookingID: entry.BookingID,
			Title:     entry.Title,
			Room:      entry.RoomName,
			StartTime: entry.Start,
			EndTime:   entry.End,
			StartsIn:  entry.StartsIn,
		})
	}
	return view
}

// emit writes value as JSON or YAML, or calls table to print rows.
func (a *app) emit(value any, table func(tw *tabwriter.Writer)) error {
	switch a.output {
	case config.OutputYAML:
		encoder := yaml.NewEncoder(a.stdout)
		encoder.SetIndent(2)
		if err := encoder.Encode(value); err != nil {
			return err
		}
		return encoder.Close()
	case config.OutputTable:
		tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		encoder := json.NewEncoder(a.stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(value)
	}
}

func equipmentTable(items []equipmentView) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
		for _, e := range items {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Name, e.Description)
		}
	}
}

func roomTable(rooms []roomView) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tNAME\tCAPACITY\tEQUIPMENT")
		for _, r := range rooms {
			names := make([]string, 0, len(r.Equipment))
			for _, e := range r.Equipment {
				names = append(names, e.Name)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.ID, r.Name, r.Capacity, strings.Join(names, ", "))
		}
	}
}

func bookingTable(bookings []bookingView, now time.Time) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ID\tTITLE\tROOM\tSTART\tEND\tWHEN\tATTENDEES\tORGANIZER")
		for _, b := range bookings {
			room := b.RoomName
			if room == "" {
				room = b.RoomID
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				b.ID,
				b.Title,
				room,
				b.StartTime.Local().Format(timeLayout),
				b.EndTime.Local().Format(timeLayout),
				humanize.RelTime(b.StartTime, now, "ago", "from now"),
				b.Attendees,
				b.Organizer,
			)
		}
	}
}

func dashboardTable(view dashboardView) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		if view.RoomsError != "" {
			fmt.Fprintf(tw, "Rooms:\tfailed to load (%s)\n", view.RoomsError)
		} else {
			fmt.Fprintf(tw, "Rooms:\t%d\n", view.RoomCount)
			fmt.Fprintf(tw, "Total capacity:\t%s\n", humanize.Comma(int64(view.TotalCapacity)))
		}
		if view.BookingsError != "" {
			fmt.Fprintf(tw, "Upcoming bookings:\tfailed to load (%s)\n", view.BookingsError)
			return
		}
		fmt.Fprintf(tw, "Upcoming bookings:\t%d\n", view.UpcomingCount)
		if len(view.Upcoming) == 0 {
			return
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "TITLE\tROOM\tSTART\tWHEN")
		for _, entry := range view.Upcoming {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", entry.Title, entry.Room, entry.StartTime.Local().Format(timeLayout), entry.StartsIn)
		}
	}
}

func deletedTable(noun string, ids []string) func(tw *tabwriter.Writer) {
	return func(tw *tabwriter.Writer) {
		for _, id := range ids {
			fmt.Fprintf(tw, "deleted %s %s\n", noun, id)
		}
	}
}
