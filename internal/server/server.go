// Package server assembles the booking API from storage, services and the
// HTTP transport. cmd/roomsd and the integration test harness share it.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/example/room-booking/internal/application"
	httptransport "github.com/example/room-booking/internal/http"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/sqlite"
)

// Repositories groups the persistence repositories the services run on.
type Repositories struct {
	Equipment persistence.EquipmentRepository
	Rooms     persistence.RoomRepository
	Bookings  persistence.BookingRepository
	// Ping backs the health check. Nil reports healthy unconditionally.
	Ping func(ctx context.Context) error
}

// SQLiteRepositories exposes the repositories of an opened SQLite storage.
func SQLiteRepositories(storage *sqlite.Storage) Repositories {
	return Repositories{
		Equipment: storage.Equipment,
		Rooms:     storage.Rooms,
		Bookings:  storage.Bookings,
		Ping:      storage.Ping,
	}
}

// Options tunes the assembled handler.
type Options struct {
	Logger         *slog.Logger
	APIKeyHash     string
	RateLimitRPS   float64
	RateLimitBurst int
	// IDGenerator and Now default to random UUIDs and time.Now.
	IDGenerator func() string
	Now         func() time.Time
}

// NewHandler wires services and handlers over repos and wraps them in the
// request logging, rate limiting and API key middleware.
func NewHandler(repos Repositories, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	equipmentRepo := newEquipmentRepositoryAdapter(repos.Equipment)
	roomRepo := newRoomRepositoryAdapter(repos.Rooms, repos.Equipment)
	bookingRepo := newBookingRepositoryAdapter(repos.Bookings)

	equipmentService := application.NewEquipmentService(equipmentRepo, opts.IDGenerator, opts.Now, logger)
	roomService := application.NewRoomServiceWithLogger(roomRepo, equipmentRepo, opts.IDGenerator, opts.Now, logger)
	bookingService := application.NewBookingService(bookingRepo, roomRepo, equipmentRepo, opts.IDGenerator, opts.Now, logger)

	return httptransport.NewRouter(httptransport.RouterConfig{
		Rooms:     httptransport.NewRoomHandler(roomService, logger),
		Equipment: httptransport.NewEquipmentHandler(equipmentService, logger),
		Bookings:  httptransport.NewBookingHandler(bookingService, logger),
		Health:    healthHandler(repos.Ping, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst, logger),
			httptransport.RequireAPIKey(opts.APIKeyHash, logger),
		},
	})
}

func healthHandler(ping func(ctx context.Context) error, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "health check failed", "error", err)
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}` + "\n"))
				return
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
	}
}
