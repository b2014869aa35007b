package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/example/room-booking/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateRoom inserts a new room together with its equipment links.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}
	created, updated := stamps(room.CreatedAt, room.UpdatedAt)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(ctx, tx, `
			INSERT INTO rooms (id, name, capacity, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
		`,
			room.ID,
			room.Name,
			room.Capacity,
			formatTime(created),
			formatTime(updated),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.mapper.MapError(replaceLinks(ctx, tx, "room_equipment", "room_id", room.ID, room.EquipmentIDs))
	})
}

// UpdateRoom rewrites an existing room and replaces its equipment links.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" {
		return persistence.ErrNotFound
	}
	if room.Capacity <= 0 {
		return persistence.ErrConstraintViolation
	}
	_, updated := stamps(room.CreatedAt, room.UpdatedAt)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(ctx, tx, `
			UPDATE rooms
			SET name = ?, capacity = ?, updated_at = ?
			WHERE id = ?
		`,
			room.Name,
			room.Capacity,
			formatTime(updated),
			room.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if err := expectAffected(result); err != nil {
			return err
		}
		return r.mapper.MapError(replaceLinks(ctx, tx, "room_equipment", "room_id", room.ID, room.EquipmentIDs))
	})
}

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	if id == "" {
		return persistence.Room{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		WHERE id = ?
	`, id)
	room, err := scanRoom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Room{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}

	links, err := linkedIDs(ctx, r.pool.DB(), "room_equipment", "room_id", id)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	room.EquipmentIDs = nonNil(links[id])
	return room, nil
}

// ListRooms returns every room in creation order.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rooms, err := r.listRoomRows(ctx)
	if err != nil {
		return nil, err
	}

	links, err := linkedIDs(ctx, r.pool.DB(), "room_equipment", "room_id", "")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	for i := range rooms {
		rooms[i].EquipmentIDs = nonNil(links[rooms[i].ID])
	}
	return rooms, nil
}

func (r *RoomRepository) listRoomRows(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, capacity, created_at, updated_at
		FROM rooms
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	rooms := make([]persistence.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room. Rooms that still have bookings are kept and
// ErrReferenced is returned.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var bookings int
		if err := r.helper.QueryRowTx(ctx, tx, "SELECT COUNT(*) FROM bookings WHERE room_id = ?", id).Scan(&bookings); err != nil {
			return r.mapper.MapError(err)
		}
		if bookings > 0 {
			return persistence.ErrReferenced
		}

		if _, err := r.helper.ExecTx(ctx, tx, "DELETE FROM room_equipment WHERE room_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}
		result, err := r.helper.ExecTx(ctx, tx, "DELETE FROM rooms WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return expectAffected(result)
	})
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room               persistence.Room
		createdAt, updated string
	)
	if err := row.Scan(&room.ID, &room.Name, &room.Capacity, &createdAt, &updated); err != nil {
		return persistence.Room{}, err
	}
	var err error
	if room.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Room{}, err
	}
	if room.UpdatedAt, err = parseTime("updated_at", updated); err != nil {
		return persistence.Room{}, err
	}
	return room, nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
