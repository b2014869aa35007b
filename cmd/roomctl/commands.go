package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/example/room-booking/internal/dashboard"
	"github.com/example/room-booking/internal/resource"
	"github.com/example/room-booking/internal/store"
	"github.com/example/room-booking/internal/tui"
)

func (a *app) commands() *command {
	return &command{
		name:    "roomctl",
		summary: "Manage meeting rooms, equipment and bookings through the booking API.",
		subcommands: []*command{
			{name: "dashboard", summary: "Show room totals and upcoming bookings", run: a.showDashboard},
			a.roomCommands(),
			a.equipmentCommands(),
			a.bookingCommands(),
			{name: "tui", summary: "Open the interactive terminal interface", run: a.runTUI},
		},
	}
}

func noArgs(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	return nil
}

func oneID(args []string) (string, error) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("exactly one identifier is required")
	}
	return args[0], nil
}

func flagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

func (a *app) showDashboard(ctx context.Context, args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}
	summary := dashboard.Load(ctx, st, a.now())
	view := newDashboardView(summary)
	if err := a.emit(view, dashboardTable(view)); err != nil {
		return err
	}

	var failures []error
	if summary.RoomsStatus.Failed() {
		failures = append(failures, fmt.Errorf("load rooms: %w", summary.RoomsStatus.Err))
	}
	if summary.BookingsStatus.Failed() {
		failures = append(failures, fmt.Errorf("load bookings: %w", summary.BookingsStatus.Err))
	}
	return errors.Join(failures...)
}

func (a *app) runTUI(ctx context.Context, args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	handler := tui.NewStatusHandler(slog.LevelWarn)
	logger := slog.New(handler)
	client, err := a.client(logger)
	if err != nil {
		return err
	}
	return tui.Run(ctx, store.New(client, logger), handler, tui.WithClock(a.now))
}

// Rooms.

func (a *app) roomCommands() *command {
	return &command{
		name:    "rooms",
		summary: "List, create, update and delete rooms",
		subcommands: []*command{
			{name: "list", summary: "List rooms", run: a.listRooms},
			a.saveRoomCommand("create"),
			a.saveRoomCommand("update"),
			{name: "delete", summary: "Delete rooms", usage: "<id>...", run: a.deleteRooms},
		},
	}
}

func (a *app) listRooms(ctx context.Context, args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}
	if result := st.FetchRooms(ctx); result.Failed() {
		return fmt.Errorf("load rooms: %w", result.Err)
	}
	views := make([]roomView, 0)
	for _, room := range st.Rooms() {
		views = append(views, newRoomView(room))
	}
	return a.emit(views, roomTable(views))
}

func (a *app) saveRoomCommand(verb string) *command {
	flags := flagSet(verb)
	name := flags.String("name", "", "room name")
	capacity := flags.Int("capacity", 0, "number of seats")
	equipment := flags.StringSlice("equipment", nil, "equipment IDs, comma separated")

	cmd := &command{name: verb, flags: flags}
	if verb == "create" {
		cmd.summary = "Create a room"
	} else {
		cmd.summary = "Update a room; unset flags keep their value"
		cmd.usage = "<id> [flags]"
	}

	cmd.run = func(ctx context.Context, args []string) error {
		st, err := a.store()
		if err != nil {
			return err
		}

		var room resource.Room
		if verb == "update" {
			id, err := oneID(args)
			if err != nil {
				return err
			}
			if result := st.FetchRooms(ctx); result.Failed() {
				return fmt.Errorf("load rooms: %w", result.Err)
			}
			var ok bool
			if room, ok = st.RoomByID(id); !ok {
				return fmt.Errorf("room %s not found", id)
			}
		} else if err := noArgs(args); err != nil {
			return err
		}

		if verb == "create" || flags.Changed("name") {
			room.Name = *name
		}
		if verb == "create" || flags.Changed("capacity") {
			room.Capacity = *capacity
		}
		if verb == "create" || flags.Changed("equipment") {
			room.Equipment = equipmentRefs(*equipment)
		}

		var saved resource.Room
		if verb == "update" {
			saved, err = st.UpdateRoom(ctx, room)
		} else {
			saved, err = st.AddRoom(ctx, room)
		}
		if err != nil {
			return err
		}
		view := newRoomView(saved)
		return a.emit(view, roomTable([]roomView{view}))
	}
	return cmd
}

func (a *app) deleteRooms(ctx context.Context, args []string) error {
	return a.deleteEach(ctx, "room", args, func(st *store.Store, id string) error {
		return st.DeleteRoom(ctx, id)
	})
}

func equipmentRefs(ids []string) []resource.Equipment {
	refs := make([]resource.Equipment, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			refs = append(refs, resource.Equipment{ID: id})
		}
	}
	return refs
}

// Equipment.

func (a *app) equipmentCommands() *command {
	return &command{
		name:    "equipment",
		summary: "List, create, update and delete equipment",
		subcommands: []*command{
			{name: "list", summary: "List equipment", run: a.listEquipment},
			a.saveEquipmentCommand("create"),
			a.saveEquipmentCommand("update"),
			{name: "delete", summary: "Delete equipment and detach it everywhere", usage: "<id>...", run: a.deleteEquipment},
		},
	}
}

func (a *app) listEquipment(ctx context.Context, args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}
	if result := st.FetchEquipment(ctx); result.Failed() {
		return fmt.Errorf("load equipment: %w", result.Err)
	}
	views := make([]equipmentView, 0)
	for _, e := range st.Equipment() {
		views = append(views, newEquipmentView(e))
	}
	return a.emit(views, equipmentTable(views))
}

func (a *app) saveEquipmentCommand(verb string) *command {
	flags := flagSet(verb)
	name := flags.String("name", "", "equipment name")
	description := flags.String("description", "", "free text description")

	cmd := &command{name: verb, flags: flags}
	if verb == "create" {
		cmd.summary = "Create an equipment item"
	} else {
		cmd.summary = "Update an equipment item; unset flags keep their value"
		cmd.usage = "<id> [flags]"
	}

	cmd.run = func(ctx context.Context, args []string) error {
		st, err := a.store()
		if err != nil {
			return err
		}

		var e resource.Equipment
		if verb == "update" {
			id, err := oneID(args)
			if err != nil {
				return err
			}
			if result := st.FetchEquipment(ctx); result.Failed() {
				return fmt.Errorf("load equipment: %w", result.Err)
			}
			found := false
			for _, item := range st.Equipment() {
				if item.ID == id {
					e, found = item, true
					break
				}
			}
			if !found {
				return fmt.Errorf("equipment %s not found", id)
			}
		} else if err := noArgs(args); err != nil {
			return err
		}

		if verb == "create" || flags.Changed("name") {
			e.Name = *name
		}
		if verb == "create" || flags.Changed("description") {
			e.Description = *description
		}

		var saved resource.Equipment
		if verb == "update" {
			saved, err = st.UpdateEquipment(ctx, e)
		} else {
			saved, err = st.AddEquipment(ctx, e)
		}
		if err != nil {
			return err
		}
		view := newEquipmentView(saved)
		return a.emit(view, equipmentTable([]equipmentView{view}))
	}
	return cmd
}

func (a *app) deleteEquipment(ctx context.Context, args []string) error {
	return a.deleteEach(ctx, "equipment", args, func(st *store.Store, id string) error {
		return st.DeleteEquipment(ctx, id)
	})
}

// Bookings.

func (a *app) bookingCommands() *command {
	return &command{
		name:    "bookings",
		summary: "List, create, update and delete bookings",
		subcommands: []*command{
			{name: "list", summary: "List bookings", run: a.listBookings},
			a.saveBookingCommand("create"),
			a.saveBookingCommand("update"),
			{name: "delete", summary: "Delete bookings", usage: "<id>...", run: a.deleteBookings},
		},
	}
}

func (a *app) listBookings(ctx context.Context, args []string) error {
	if err := noArgs(args); err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}
	if result := st.FetchBookings(ctx); result.Failed() {
		return fmt.Errorf("load bookings: %w", result.Err)
	}
	views := make([]bookingView, 0)
	for _, b := range st.Bookings() {
		views = append(views, newBookingView(b, st))
	}
	return a.emit(views, bookingTable(views, a.now()))
}

func (a *app) saveBookingCommand(verb string) *command {
	flags := flagSet(verb)
	title := flags.String("title", "", "booking title")
	organizer := flags.String("organizer", "", "who booked the room")
	room := flags.String("room", "", "room ID or name")
	start := flags.String("start", "", "start time, \""+timeLayout+"\" local or RFC 3339")
	end := flags.String("end", "", "end time, same formats as --start")
	attendees := flags.Int("attendees", 0, "expected number of attendees")
	equipment := flags.StringSlice("equipment", nil, "equipment IDs, comma separated")

	cmd := &command{name: verb, flags: flags}
	if verb == "create" {
		cmd.summary = "Create a booking"
	} else {
		cmd.summary = "Update a booking; unset flags keep their value"
		cmd.usage = "<id> [flags]"
	}

	cmd.run = func(ctx context.Context, args []string) error {
		st, err := a.store()
		if err != nil {
			return err
		}
		// Rooms back the capacity check and name lookup; a failed load leaves
		// both to the server.
		st.FetchRooms(ctx)

		var b resource.Booking
		if verb == "update" {
			id, err := oneID(args)
			if err != nil {
				return err
			}
			if result := st.FetchBookings(ctx); result.Failed() {
				return fmt.Errorf("load bookings: %w", result.Err)
			}
			found := false
			for _, existing := range st.Bookings() {
				if existing.ID == id {
					b, found = existing, true
					break
				}
			}
			if !found {
				return fmt.Errorf("booking %s not found", id)
			}
		} else if err := noArgs(args); err != nil {
			return err
		}

		set := func(flag string) bool { return verb == "create" || flags.Changed(flag) }
		if set("title") {
			b.Title = *title
		}
		if set("organizer") {
			b.Organizer = *organizer
		}
		if set("room") {
			b.RoomID = st.ResolveRoom(*room)
			b.Room = nil
		}
		if set("start") {
			if b.Start, err = parseTime(*start); err != nil {
				return fmt.Errorf("--start: %w", err)
			}
		}
		if set("end") {
			if b.End, err = parseTime(*end); err != nil {
				return fmt.Errorf("--end: %w", err)
			}
		}
		if set("attendees") {
			b.Attendees = *attendees
		}
		if set("equipment") {
			b.EquipmentIDs = equipmentIDs(*equipment)
		}

		var saved resource.Booking
		if verb == "update" {
			saved, err = st.UpdateBooking(ctx, b)
		} else {
			saved, err = st.AddBooking(ctx, b)
		}
		if err != nil {
			return err
		}
		view := newBookingView(saved, st)
		return a.emit(view, bookingTable([]bookingView{view}, a.now()))
	}
	return cmd
}

func (a *app) deleteBookings(ctx context.Context, args []string) error {
	return a.deleteEach(ctx, "booking", args, func(st *store.Store, id string) error {
		return st.DeleteBooking(ctx, id)
	})
}

// deleteEach deletes the identifiers in order and stops at the first failure.
func (a *app) deleteEach(ctx context.Context, noun string, ids []string, remove func(*store.Store, string) error) error {
	if len(ids) == 0 {
		return errors.New("at least one identifier is required")
	}
	st, err := a.store()
	if err != nil {
		return err
	}
	deleted := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := remove(st, id); err != nil {
			if len(deleted) > 0 {
				_ = a.emit(deletedView{Deleted: deleted}, deletedTable(noun, deleted))
			}
			return fmt.Errorf("delete %s %s: %w", noun, id, err)
		}
		deleted = append(deleted, id)
	}
	return a.emit(deletedView{Deleted: deleted}, deletedTable(noun, deleted))
}

// parseTime accepts timeLayout in local time or RFC 3339. Empty input is the
// zero time so the required-field check reports it.
func parseTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(timeLayout, value, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, use %q or RFC 3339", value, timeLayout)
	}
	return t, nil
}

func equipmentIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
