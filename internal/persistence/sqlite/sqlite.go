// Package sqlite implements the persistence repositories on SQLite through
// modernc.org/sqlite, a cgo-free driver.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/example/room-booking/internal/logging"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/persistence/sqlite/migration"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var (
	_ persistence.EquipmentRepository = (*EquipmentRepository)(nil)
	_ persistence.RoomRepository      = (*RoomRepository)(nil)
	_ persistence.BookingRepository   = (*BookingRepository)(nil)
)

// Storage bundles the connection pool with the repositories built on it.
type Storage struct {
	pool *ConnectionPool

	Equipment *EquipmentRepository
	Rooms     *RoomRepository
	Bookings  *BookingRepository
}

// Open connects to the database identified by dsn. Call Migrate before use.
func Open(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := NewConnectionPool(ctx, Config{DSN: dsn})
	if err != nil {
		return nil, err
	}
	return &Storage{
		pool:      pool,
		Equipment: NewEquipmentRepository(pool),
		Rooms:     NewRoomRepository(pool),
		Bookings:  NewBookingRepository(pool),
	}, nil
}

// Close releases the underlying connections.
func (s *Storage) Close() error {
	return s.pool.Close()
}

// Ping reports whether the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies the embedded schema migrations.
func (s *Storage) Migrate(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	manager := migration.NewManager(
		migration.NewScanner(migrationFiles, "migrations"),
		migration.NewSQLiteExecutor(s.pool.DB()),
		logger,
	)
	if err := manager.RunMigrations(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// linkedIDs loads the ordered equipment identifiers of every owner in table.
// The rows are fully read before returning so the connection is free again.
func linkedIDs(ctx context.Context, q queryer, table, ownerColumn string, ownerID string) (map[string][]string, error) {
	query := fmt.Sprintf("SELECT %s, equipment_id FROM %s", ownerColumn, table)
	var args []any
	if ownerID != "" {
		query += fmt.Sprintf(" WHERE %s = ?", ownerColumn)
		args = append(args, ownerID)
	}
	query += fmt.Sprintf(" ORDER BY %s, position", ownerColumn)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[string][]string)
	for rows.Next() {
		var owner, equipmentID string
		if err := rows.Scan(&owner, &equipmentID); err != nil {
			return nil, err
		}
		links[owner] = append(links[owner], equipmentID)
	}
	return links, rows.Err()
}

// replaceLinks rewrites the equipment links of one owner, keeping the given
// order and dropping repeated identifiers.
func replaceLinks(ctx context.Context, e execer, table, ownerColumn, ownerID string, equipmentIDs []string) error {
	if _, err := e.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, ownerColumn), ownerID); err != nil {
		return err
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s, equipment_id, position) VALUES (?, ?, ?)", table, ownerColumn)
	seen := make(map[string]struct{}, len(equipmentIDs))
	position := 0
	for _, id := range equipmentIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, err := e.ExecContext(ctx, insert, ownerID, id, position); err != nil {
			return err
		}
		position++
	}
	return nil
}
