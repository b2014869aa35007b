package testfixtures

import (
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/room-booking/internal/resource"
	"github.com/example/room-booking/internal/server"
)

// APIHarness runs the booking API over a temporary SQLite database on an
// httptest server.
type APIHarness struct {
	*SQLiteHarness
	Server *httptest.Server
	Clock  *Clock
	IDs    *IDGenerator
}

// APIOption configures NewAPIHarness.
type APIOption func(*server.Options)

// WithAPIKeyHash enables the API key check.
func WithAPIKeyHash(hash string) APIOption {
	return func(o *server.Options) {
		o.APIKeyHash = hash
	}
}

// WithLogger routes server logs to logger instead of discarding them.
func WithLogger(logger *slog.Logger) APIOption {
	return func(o *server.Options) {
		o.Logger = logger
	}
}

// NewAPIHarness starts the API. Identifiers come from a deterministic
// generator and timestamps from a controllable clock.
func NewAPIHarness(tb testing.TB, opts ...APIOption) *APIHarness {
	tb.Helper()

	storage := NewSQLiteHarness(tb)
	clock := NewClock(time.Time{})
	ids := NewIDGenerator("api")

	options := server.Options{
		Logger:      discardLogger(),
		IDGenerator: ids.NextFunc(),
		Now:         clock.NowFunc(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	srv := httptest.NewServer(server.NewHandler(server.SQLiteRepositories(storage.Storage), options))
	tb.Cleanup(srv.Close)

	return &APIHarness{SQLiteHarness: storage, Server: srv, Clock: clock, IDs: ids}
}

// Client returns an API client pointed at the harness server.
func (h *APIHarness) Client(tb testing.TB, opts ...resource.Option) *resource.Client {
	tb.Helper()
	opts = append([]resource.Option{resource.WithHTTPClient(h.Server.Client())}, opts...)
	client, err := resource.NewClient(h.Server.URL, opts...)
	if err != nil {
		tb.Fatalf("failed to build client: %v", err)
	}
	return client
}
