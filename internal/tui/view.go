package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/example/room-booking/internal/dashboard"
	"github.com/example/room-booking/internal/store"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.renderForm())
	} else {
		switch m.tab {
		case tabDashboard:
			b.WriteString(m.renderDashboard())
		case tabRooms:
			b.WriteString(m.renderRooms())
		case tabEquipment:
			b.WriteString(m.renderEquipment())
		case tabBookings:
			b.WriteString(m.renderBookings())
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.styles.Faint.Render(m.help()))
	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for t := tabDashboard; t < tabCount; t++ {
		label := fmt.Sprintf("%d:%s", t+1, tabNames[t])
		if t == m.tab {
			parts = append(parts, m.styles.ActiveTab.Render(label))
		} else {
			parts = append(parts, m.styles.Tab.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

// loadProblem describes a collection that is not ready to list, or returns "".
func (m Model) loadProblem(noun string, result store.LoadResult) string {
	switch {
	case result.Failed():
		return m.styles.Error.Render(fmt.Sprintf("Failed to load %s: %v", noun, result.Err))
	case !result.Loaded() && m.loading:
		return m.styles.Faint.Render("Loading " + noun + "...")
	}
	return ""
}

func (m Model) renderDashboard() string {
	s := m.summary
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render("Overview"))
	b.WriteString("\n")

	if problem := m.loadProblem("rooms", s.RoomsStatus); problem != "" {
		b.WriteString(problem + "\n")
	} else {
		fmt.Fprintf(&b, "Rooms: %d   Total capacity: %d\n", s.RoomCount, s.TotalCapacity)
	}
	if problem := m.loadProblem("bookings", s.BookingsStatus); problem != "" {
		b.WriteString(problem)
		return b.String()
	}
	fmt.Fprintf(&b, "Upcoming bookings: %d\n\n", s.UpcomingCount)

	if len(s.Upcoming) == 0 {
		b.WriteString(m.styles.Faint.Render("Nothing scheduled"))
		return b.String()
	}
	b.WriteString(m.styles.Heading.Render("Upcoming"))
	for _, entry := range s.Upcoming {
		b.WriteString("\n")
		b.WriteString(m.dashboardLine(entry))
	}
	return b.String()
}

func (m Model) dashboardLine(entry dashboard.Entry) string {
	return fmt.Sprintf("  %-28s %-16s %s %s",
		entry.Title,
		entry.RoomName,
		entry.Start.Local().Format(timeLayout),
		m.styles.Faint.Render("("+entry.StartsIn+")"),
	)
}

func (m Model) renderRows(noun string, result store.LoadResult, rows []string) string {
	if problem := m.loadProblem(noun, result); problem != "" {
		return problem
	}
	if len(rows) == 0 {
		return m.styles.Faint.Render("No " + noun + " yet. Press " + m.keys.New.Help().Key + " to add one.")
	}
	cursor := m.cursor[m.tab]
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		if i == cursor {
			lines = append(lines, m.styles.Selected.Render("> "+row))
			continue
		}
		lines = append(lines, "  "+row)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRooms() string {
	rooms := m.store.Rooms()
	rows := make([]string, 0, len(rooms))
	for _, room := range rooms {
		names := make([]string, 0, len(room.Equipment))
		for _, e := range room.Equipment {
			names = append(names, e.Name)
		}
		rows = append(rows, fmt.Sprintf("%-24s %4d seats  %s", room.Name, room.Capacity, strings.Join(names, ", ")))
	}
	return m.renderRows("rooms", m.store.RoomsStatus(), rows)
}

func (m Model) renderEquipment() string {
	items := m.store.Equipment()
	rows := make([]string, 0, len(items))
	for _, e := range items {
		rows = append(rows, fmt.Sprintf("%-24s %s", e.Name, e.Description))
	}
	return m.renderRows("equipment", m.store.EquipmentStatus(), rows)
}

func (m Model) renderBookings() string {
	bookings := m.sortedBookings()
	now := m.now()
	rows := make([]string, 0, len(bookings))
	for _, booking := range bookings {
		room := booking.RoomName()
		if room == "" {
			if r, ok := m.store.RoomByID(booking.RoomID); ok {
				room = r.Name
			} else {
				room = dashboard.UnknownRoom
			}
		}
		rows = append(rows, fmt.Sprintf("%-28s %-16s %s  %s  %s",
			booking.Title,
			room,
			booking.Start.Local().Format(timeLayout),
			humanize.Comma(int64(booking.Attendees))+" ppl",
			relative(booking.Start, now),
		))
	}
	return m.renderRows("bookings", m.store.BookingsStatus(), rows)
}

func (m Model) renderForm() string {
	f := m.form
	var b strings.Builder
	b.WriteString(m.styles.Heading.Render(f.title))
	b.WriteString("\n\n")
	for i, fld := range f.fields {
		marker := "  "
		if i == f.focus {
			marker = m.styles.Selected.Render("> ")
		}
		b.WriteString(marker + m.styles.Label.Render(fld.label) + fld.input.View() + "\n")
	}
	switch f.kind {
	case tabRooms:
		b.WriteString(m.styles.Faint.Render("\nEquipment takes comma separated equipment IDs."))
	case tabBookings:
		b.WriteString(m.styles.Faint.Render("\nRoom takes an ID or a name. Times use " + timeLayout + "."))
	}
	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(f.err))
	}
	return b.String()
}

func (m Model) renderStatus() string {
	if m.status.text == "" {
		return ""
	}
	switch {
	case m.status.level >= slog.LevelError:
		return m.styles.Error.Render(m.status.text)
	case m.status.level >= slog.LevelWarn:
		return m.styles.Warn.Render(m.status.text)
	}
	return m.styles.Info.Render(m.status.text)
}

func (m Model) help() string {
	k := m.keys
	if m.form != nil {
		return helpLine(k.NextField, k.PrevField, k.Submit, k.Cancel)
	}
	if m.tab == tabDashboard {
		return helpLine(k.NextTab, k.Reload, k.Quit)
	}
	return helpLine(k.Up, k.Down, k.NextTab, k.New, k.Edit, k.Delete, k.Reload, k.Quit)
}
