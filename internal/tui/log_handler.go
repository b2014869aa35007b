package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// logRecordMsg carries a log record into the model's status line.
type logRecordMsg struct {
	summary string
	level   slog.Level
}

// Sender delivers messages to a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

type sendTarget struct {
	mu     sync.RWMutex
	sender Sender
}

// StatusHandler is a slog.Handler that turns records at or above its level
// into status line messages. Records are dropped until Attach is called.
// Handlers derived through WithAttrs and WithGroup share the attached sender.
type StatusHandler struct {
	level  slog.Leveler
	target *sendTarget
	attrs  []slog.Attr
	prefix string
}

// NewStatusHandler returns a handler that forwards records at level and above.
func NewStatusHandler(level slog.Leveler) *StatusHandler {
	if level == nil {
		level = slog.LevelWarn
	}
	return &StatusHandler{level: level, target: &sendTarget{}}
}

// Attach routes subsequent records to sender.
func (h *StatusHandler) Attach(sender Sender) {
	h.target.mu.Lock()
	h.target.sender = sender
	h.target.mu.Unlock()
}

// Enabled implements slog.Handler.
func (h *StatusHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *StatusHandler) Handle(_ context.Context, record slog.Record) error {
	h.target.mu.RLock()
	sender := h.target.sender
	h.target.mu.RUnlock()
	if sender == nil {
		return nil
	}
	sender.Send(logRecordMsg{summary: h.summarize(record), level: record.Level})
	return nil
}

// WithAttrs implements slog.Handler.
func (h *StatusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, attr := range attrs {
		attr.Key = h.prefix + attr.Key
		clone.attrs = append(clone.attrs, attr)
	}
	return &clone
}

// WithGroup implements slog.Handler.
func (h *StatusHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

// summarize renders "message (key=value, ...)". The verbose component and
// operation labels are left out of the one-line status.
func (h *StatusHandler) summarize(record slog.Record) string {
	var parts []string
	add := func(attr slog.Attr) {
		switch attr.Key {
		case "component", "operation", "service", "handler", "error_kind":
			return
		}
		parts = append(parts, fmt.Sprintf("%s=%s", attr.Key, attr.Value))
	}
	for _, attr := range h.attrs {
		add(attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		attr.Key = h.prefix + attr.Key
		add(attr)
		return true
	})
	if len(parts) == 0 {
		return record.Message
	}
	return record.Message + " (" + strings.Join(parts, ", ") + ")"
}
