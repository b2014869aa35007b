package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestServiceLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))
	serviceLogger(context.Background(), base, "BookingService", "CreateBooking", "room_id", "r1").Info("booking created")

	record := buf.String()
	for _, want := range []string{`"service":"BookingService"`, `"operation":"CreateBooking"`, `"room_id":"r1"`} {
		if !strings.Contains(record, want) {
			t.Fatalf("expected %s in %s", want, record)
		}
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		err  error
		want string
	}{
		"nil":        {nil, ""},
		"not found":  {ErrNotFound, "not_found"},
		"wrapped":    {fmt.Errorf("get room: %w", ErrNotFound), "not_found"},
		"overlap":    {&ConflictError{Reason: ReasonRoomOverlap, With: []string{"b1"}}, "overlap"},
		"conflict":   {&ConflictError{Reason: ReasonRoomHasBookings}, "conflict"},
		"validation": {&ValidationError{FieldErrors: map[string]string{"name": "name is required"}}, "validation"},
		"unexpected": {errors.New("disk full"), "unexpected"},
	}
	for name, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("%s: ErrorKind = %q, want %q", name, got, tc.want)
		}
	}
}
