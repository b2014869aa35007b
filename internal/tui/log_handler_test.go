package tui

import (
	"errors"
	"log/slog"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type senderStub struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *senderStub) Send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func TestStatusHandler(t *testing.T) {
	handler := NewStatusHandler(slog.LevelWarn)
	logger := slog.New(handler)

	logger.Error("dropped before attach")

	sender := &senderStub{}
	handler.Attach(sender)

	logger.Info("below level")
	logger.With("component", "store", "operation", "FetchRooms").
		Error("failed to load rooms", "error", errors.New("boom"), "error_kind", "transport")
	logger.WithGroup("request").Warn("slow", "path", "/rooms")

	if len(sender.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sender.msgs))
	}
	first := sender.msgs[0].(logRecordMsg)
	if first.summary != "failed to load rooms (error=boom)" || first.level != slog.LevelError {
		t.Errorf("unexpected first message %+v", first)
	}
	second := sender.msgs[1].(logRecordMsg)
	if second.summary != "slow (request.path=/rooms)" {
		t.Errorf("unexpected grouped message %q", second.summary)
	}

	handler.Attach(nil)
	logger.Error("after detach")
	if len(sender.msgs) != 2 {
		t.Fatal("records after detach should be dropped")
	}
}
