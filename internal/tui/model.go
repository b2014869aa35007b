// Package tui is the terminal interface of roomctl: a dashboard plus room,
// equipment and booking lists with create, edit and delete forms. Every
// change goes through the store, so lists only show what the server
// confirmed.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/example/room-booking/internal/dashboard"
	"github.com/example/room-booking/internal/resource"
	"github.com/example/room-booking/internal/store"
)

type tab int

const (
	tabDashboard tab = iota
	tabRooms
	tabEquipment
	tabBookings
	tabCount
)

var tabNames = [tabCount]string{"Dashboard", "Rooms", "Equipment", "Bookings"}

// loadedMsg reports a completed reload of every collection.
type loadedMsg struct {
	summary dashboard.Summary
}

// actionMsg reports the outcome of a store action.
type actionMsg struct {
	success string
	failure string
	err     error
}

type statusLine struct {
	text  string
	level slog.Level
}

// Model is the bubbletea model of the booking TUI.
type Model struct {
	ctx    context.Context
	store  *store.Store
	now    func() time.Time
	keys   KeyMap
	styles Styles

	tab     tab
	cursor  [tabCount]int
	width   int
	height  int
	loading bool
	summary dashboard.Summary

	form          *form
	pendingDelete string
	status        statusLine
}

// Option configures a Model.
type Option func(*Model)

// WithClock replaces time.Now for the dashboard.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

// WithKeyMap replaces DefaultKeyMap.
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) { m.keys = keys }
}

// NewModel builds a model over st. Collections load when the program starts.
func NewModel(ctx context.Context, st *store.Store, opts ...Option) Model {
	m := Model{
		ctx:     ctx,
		store:   st,
		now:     time.Now,
		keys:    DefaultKeyMap,
		styles:  DefaultStyles(),
		loading: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Run starts the TUI and blocks until the user quits. handler, when not nil,
// starts routing log records into the status line.
func Run(ctx context.Context, st *store.Store, handler *StatusHandler, opts ...Option) error {
	program := tea.NewProgram(NewModel(ctx, st, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if handler != nil {
		handler.Attach(program)
		defer handler.Attach(nil)
	}
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.reload()
}

func (m Model) reload() tea.Cmd {
	ctx, st, now := m.ctx, m.store, m.now
	return func() tea.Msg {
		st.FetchEquipment(ctx)
		return loadedMsg{summary: dashboard.Load(ctx, st, now())}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case loadedMsg:
		m.loading = false
		m.summary = msg.summary
		m.clampCursors()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.status = statusLine{text: msg.failure + ": " + describeError(msg.err), level: slog.LevelError}
			if m.form != nil {
				m.form.err = describeError(msg.err)
			}
			return m, nil
		}
		m.form = nil
		m.status = statusLine{text: msg.success, level: slog.LevelInfo}
		m.summary = dashboard.Summarize(m.store, m.now())
		m.clampCursors()
		return m, nil

	case logRecordMsg:
		m.status = statusLine{text: msg.summary, level: msg.level}
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}

	if m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	confirmDelete := m.pendingDelete
	m.pendingDelete = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.tab] > 0 {
			m.cursor[m.tab]--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.tab] < m.rowCount(m.tab)-1 {
			m.cursor[m.tab]++
		}
	case key.Matches(msg, m.keys.NextTab):
		m.tab = (m.tab + 1) % tabCount
	case key.Matches(msg, m.keys.PrevTab):
		m.tab = (m.tab + tabCount - 1) % tabCount
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.status = statusLine{text: "reloading"}
		return m, m.reload()
	case key.Matches(msg, m.keys.New):
		return m.openForm(false)
	case key.Matches(msg, m.keys.Edit):
		return m.openForm(true)
	case key.Matches(msg, m.keys.Delete):
		id, label, ok := m.selected()
		if !ok {
			return m, nil
		}
		if confirmDelete != id {
			m.pendingDelete = id
			m.status = statusLine{text: fmt.Sprintf("press %s again to delete %s", m.keys.Delete.Help().Key, label), level: slog.LevelWarn}
			return m, nil
		}
		return m, m.deleteCmd(m.tab, id, label)
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] < '1'+byte(tabCount) {
			m.tab = tab(s[0] - '1')
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		m.status = statusLine{text: "cancelled"}
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextField):
		return m, m.form.move(1)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.form.move(-1)
	}
	return m, m.form.update(msg)
}

func (m Model) openForm(edit bool) (tea.Model, tea.Cmd) {
	cursor := m.cursor[m.tab]
	switch m.tab {
	case tabRooms:
		room := resource.Room{}
		if edit {
			rooms := m.store.Rooms()
			if cursor >= len(rooms) {
				return m, nil
			}
			room = rooms[cursor]
		}
		m.form = roomForm(room)
	case tabEquipment:
		e := resource.Equipment{}
		if edit {
			items := m.store.Equipment()
			if cursor >= len(items) {
				return m, nil
			}
			e = items[cursor]
		}
		m.form = equipmentForm(e)
	case tabBookings:
		b := resource.Booking{}
		if edit {
			bookings := m.sortedBookings()
			if cursor >= len(bookings) {
				return m, nil
			}
			b = bookings[cursor]
		}
		m.form = bookingForm(b)
	default:
		return m, nil
	}
	return m, m.form.fields[0].input.Focus()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	f := m.form
	f.err = ""
	ctx, st := m.ctx, m.store

	switch f.kind {
	case tabRooms:
		room, err := f.room()
		if err != nil {
			f.err = describeError(err)
			return m, nil
		}
		return m, func() tea.Msg {
			var saved resource.Room
			if f.editing() {
				saved, err = st.UpdateRoom(ctx, room)
			} else {
				saved, err = st.AddRoom(ctx, room)
			}
			return actionMsg{success: "saved room " + saved.Name, failure: "could not save room", err: err}
		}

	case tabEquipment:
		e := f.equipment()
		return m, func() tea.Msg {
			var (
				saved resource.Equipment
				err   error
			)
			if f.editing() {
				saved, err = st.UpdateEquipment(ctx, e)
			} else {
				saved, err = st.AddEquipment(ctx, e)
			}
			return actionMsg{success: "saved equipment " + saved.Name, failure: "could not save equipment", err: err}
		}

	case tabBookings:
		b, err := f.booking(m.store.ResolveRoom)
		if err != nil {
			f.err = describeError(err)
			return m, nil
		}
		return m, func() tea.Msg {
			var saved resource.Booking
			if f.editing() {
				saved, err = st.UpdateBooking(ctx, b)
			} else {
				saved, err = st.AddBooking(ctx, b)
			}
			return actionMsg{success: "saved booking " + saved.Title, failure: "could not save booking", err: err}
		}
	}
	return m, nil
}

func (m Model) deleteCmd(kind tab, id, label string) tea.Cmd {
	ctx, st := m.ctx, m.store
	return func() tea.Msg {
		var err error
		switch kind {
		case tabRooms:
			err = st.DeleteRoom(ctx, id)
		case tabEquipment:
			err = st.DeleteEquipment(ctx, id)
		case tabBookings:
			err = st.DeleteBooking(ctx, id)
		}
		return actionMsg{success: "deleted " + label, failure: "could not delete " + label, err: err}
	}
}

func (m Model) selected() (id, label string, ok bool) {
	cursor := m.cursor[m.tab]
	switch m.tab {
	case tabRooms:
		if rooms := m.store.Rooms(); cursor < len(rooms) {
			return rooms[cursor].ID, "room " + rooms[cursor].Name, true
		}
	case tabEquipment:
		if items := m.store.Equipment(); cursor < len(items) {
			return items[cursor].ID, "equipment " + items[cursor].Name, true
		}
	case tabBookings:
		if bookings := m.sortedBookings(); cursor < len(bookings) {
			return bookings[cursor].ID, "booking " + bookings[cursor].Title, true
		}
	}
	return "", "", false
}

// sortedBookings orders bookings by start time for display.
func (m Model) sortedBookings() []resource.Booking {
	bookings := m.store.Bookings()
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Start.Before(bookings[j].Start)
	})
	return bookings
}

func (m Model) rowCount(t tab) int {
	switch t {
	case tabRooms:
		return len(m.store.Rooms())
	case tabEquipment:
		return len(m.store.Equipment())
	case tabBookings:
		return len(m.store.Bookings())
	}
	return 0
}

func (m *Model) clampCursors() {
	for t := tabRooms; t < tabCount; t++ {
		if n := m.rowCount(t); m.cursor[t] >= n {
			m.cursor[t] = max(n-1, 0)
		}
	}
}

// describeError renders an action error for the status line. Server and
// local validation messages are shown with their field details.
func describeError(err error) string {
	var (
		apiErr *resource.APIError
		vErr   *resource.ValidationError
	)
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.As(err, &apiErr):
		if len(apiErr.FieldErrors) == 0 {
			return apiErr.Error()
		}
		fields := make([]string, 0, len(apiErr.FieldErrors))
		for field, message := range apiErr.FieldErrors {
			fields = append(fields, field+": "+message)
		}
		sort.Strings(fields)
		return apiErr.Error() + " (" + strings.Join(fields, "; ") + ")"
	}
	return err.Error()
}

func relative(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
