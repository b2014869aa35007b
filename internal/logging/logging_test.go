package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextWithLogger(t *testing.T) {
	t.Run("round trips the logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := ContextWithLogger(context.Background(), logger)
		if got := FromContext(ctx); got != logger {
			t.Fatalf("expected stored logger, got %v", got)
		}
	})

	t.Run("ignores nil logger", func(t *testing.T) {
		ctx := ContextWithLogger(context.Background(), nil)
		if got := FromContext(ctx); got != nil {
			t.Fatalf("expected nil logger, got %v", got)
		}
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for input, want := range cases {
		got, err := ParseLevel(input)
		if err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelInfo, true).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Fatalf("expected JSON record, got %q", buf.String())
	}

	buf.Reset()
	New(&buf, slog.LevelWarn, false).Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be filtered, got %q", buf.String())
	}
}

func TestScoped(t *testing.T) {
	var fallbackBuf, ctxBuf bytes.Buffer
	fallback := New(&fallbackBuf, slog.LevelInfo, true)

	Scoped(context.Background(), fallback, "service", "RoomService", "CreateRoom", "room_id", "r1").Info("created")
	record := fallbackBuf.String()
	for _, want := range []string{`"service":"RoomService"`, `"operation":"CreateRoom"`, `"room_id":"r1"`} {
		if !strings.Contains(record, want) {
			t.Fatalf("expected %s in %s", want, record)
		}
	}

	ctx := ContextWithLogger(context.Background(), New(&ctxBuf, slog.LevelInfo, true))
	Scoped(ctx, fallback, "handler", "RoomHandler", "").Info("listed")
	if !strings.Contains(ctxBuf.String(), `"handler":"RoomHandler"`) {
		t.Fatalf("expected the context logger to win, got %q", ctxBuf.String())
	}
	if strings.Contains(ctxBuf.String(), `"operation"`) {
		t.Fatalf("empty operation should be omitted, got %q", ctxBuf.String())
	}

	if OrDefault(nil) != slog.Default() {
		t.Fatal("OrDefault(nil) should return slog.Default")
	}
}
