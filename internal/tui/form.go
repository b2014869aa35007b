package tui

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/example/room-booking/internal/resource"
)

// timeLayout is how booking times are shown and typed, in local time.
const timeLayout = "2006-01-02 15:04"

type field struct {
	label string
	input textinput.Model
}

type form struct {
	kind   tab
	id     string
	title  string
	fields []field
	focus  int
	err    string
}

func newForm(kind tab, id, title string, labels, values []string) *form {
	f := &form{kind: kind, id: id, title: title}
	for i, label := range labels {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 256
		if i < len(values) {
			input.SetValue(values[i])
		}
		f.fields = append(f.fields, field{label: label, input: input})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) editing() bool { return f.id != "" }

func (f *form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

func (f *form) move(delta int) tea.Cmd {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	return f.fields[f.focus].input.Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func roomForm(room resource.Room) *form {
	title := "New room"
	capacity := ""
	if room.ID != "" {
		title = "Edit room " + room.Name
		capacity = strconv.Itoa(room.Capacity)
	}
	return newForm(tabRooms, room.ID, title,
		[]string{"Name", "Capacity", "Equipment"},
		[]string{room.Name, capacity, strings.Join(room.EquipmentIDs(), ", ")},
	)
}

func equipmentForm(e resource.Equipment) *form {
	title := "New equipment"
	if e.ID != "" {
		title = "Edit equipment " + e.Name
	}
	return newForm(tabEquipment, e.ID, title,
		[]string{"Name", "Description"},
		[]string{e.Name, e.Description},
	)
}

func bookingForm(b resource.Booking) *form {
	title := "New booking"
	var start, end, attendees string
	if b.ID != "" {
		title = "Edit booking " + b.Title
		start = b.Start.Local().Format(timeLayout)
		end = b.End.Local().Format(timeLayout)
		attendees = strconv.Itoa(b.Attendees)
	}
	return newForm(tabBookings, b.ID, title,
		[]string{"Title", "Organizer", "Room", "Start", "End", "Attendees", "Equipment"},
		[]string{b.Title, b.Organizer, b.RoomID, start, end, attendees, strings.Join(b.EquipmentIDs, ", ")},
	)
}

type fieldErrors map[string]string

func (fe fieldErrors) err() error {
	if len(fe) == 0 {
		return nil
	}
	return &resource.ValidationError{FieldErrors: fe}
}

func (f *form) room() (resource.Room, error) {
	problems := fieldErrors{}
	room := resource.Room{ID: f.id, Name: f.value(0)}
	if raw := f.value(1); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil {
			problems["capacity"] = "capacity must be a whole number"
		}
		room.Capacity = capacity
	}
	for _, id := range splitIDs(f.value(2)) {
		room.Equipment = append(room.Equipment, resource.Equipment{ID: id})
	}
	return room, problems.err()
}

func (f *form) equipment() resource.Equipment {
	return resource.Equipment{ID: f.id, Name: f.value(0), Description: f.value(1)}
}

// booking reads the booking fields. resolveRoom maps the typed room, an
// identifier or a room name, to a room identifier.
func (f *form) booking(resolveRoom func(string) string) (resource.Booking, error) {
	problems := fieldErrors{}
	b := resource.Booking{
		ID:           f.id,
		Title:        f.value(0),
		Organizer:    f.value(1),
		RoomID:       resolveRoom(f.value(2)),
		EquipmentIDs: splitIDs(f.value(6)),
	}
	var err error
	if b.Start, err = parseLocalTime(f.value(3)); err != nil {
		problems["startTime"] = "use " + timeLayout
	}
	if b.End, err = parseLocalTime(f.value(4)); err != nil {
		problems["endTime"] = "use " + timeLayout
	}
	if raw := f.value(5); raw != "" {
		if b.Attendees, err = strconv.Atoi(raw); err != nil {
			problems["attendees"] = "attendees must be a whole number"
		}
	}
	return b, problems.err()
}

// parseLocalTime accepts timeLayout in local time or RFC 3339. Empty input is
// the zero time so the required-field check reports it.
func parseLocalTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(timeLayout, value, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func splitIDs(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
