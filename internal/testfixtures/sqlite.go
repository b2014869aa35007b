package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/room-booking/internal/logging"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite storage
// instance for integration-style persistence tests.
type SQLiteHarness struct {
	Storage   *sqlite.Storage
	Equipment persistence.EquipmentRepository
	Rooms     persistence.RoomRepository
	Bookings  persistence.BookingRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness using a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// will also register a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "rooms.db")
	ctx := logging.ContextWithLogger(context.Background(), discardLogger())

	storage, err := sqlite.Open(ctx, path+"?_pragma=foreign_keys(1)")
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if err := storage.Migrate(ctx); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:   storage,
		Equipment: storage.Equipment,
		Rooms:     storage.Rooms,
		Bookings:  storage.Bookings,
		cleanup: func() {
			_ = storage.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedEquipment stores the fixtures and fails the test on error.
func (h *SQLiteHarness) SeedEquipment(tb testing.TB, fixtures ...EquipmentFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Equipment.CreateEquipment(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("seed equipment %s: %v", f.ID, err)
		}
	}
}

// SeedRooms stores the fixtures and fails the test on error.
func (h *SQLiteHarness) SeedRooms(tb testing.TB, fixtures ...RoomFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Rooms.CreateRoom(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("seed room %s: %v", f.ID, err)
		}
	}
}

// SeedBookings stores the fixtures and fails the test on error.
func (h *SQLiteHarness) SeedBookings(tb testing.TB, fixtures ...BookingFixture) {
	tb.Helper()
	for _, f := range fixtures {
		if err := h.Bookings.CreateBooking(context.Background(), f.Persistence()); err != nil {
			tb.Fatalf("seed booking %s: %v", f.ID, err)
		}
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
