package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/example/room-booking/internal/persistence"
)

// BookingRepository implements persistence.BookingRepository using SQLite.
type BookingRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewBookingRepository creates a new SQLite booking repository.
func NewBookingRepository(pool *ConnectionPool) *BookingRepository {
	return &BookingRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

const bookingColumns = `id, title, start_at, end_at, attendees, organizer, room_id, created_at, updated_at`

// CreateBooking inserts a booking together with its equipment links.
func (r *BookingRepository) CreateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" || !booking.Start.Before(booking.End) {
		return persistence.ErrConstraintViolation
	}
	created, updated := stamps(booking.CreatedAt, booking.UpdatedAt)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := r.helper.ExecTx(ctx, tx, `
			INSERT INTO bookings (`+bookingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			booking.ID,
			booking.Title,
			formatTime(booking.Start),
			formatTime(booking.End),
			booking.Attendees,
			booking.Organizer,
			booking.RoomID,
			formatTime(created),
			formatTime(updated),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.mapper.MapError(replaceLinks(ctx, tx, "booking_equipment", "booking_id", booking.ID, booking.EquipmentIDs))
	})
}

// UpdateBooking rewrites an existing booking and replaces its equipment links.
func (r *BookingRepository) UpdateBooking(ctx context.Context, booking persistence.Booking) error {
	if booking.ID == "" {
		return persistence.ErrNotFound
	}
	if !booking.Start.Before(booking.End) {
		return persistence.ErrConstraintViolation
	}
	_, updated := stamps(booking.CreatedAt, booking.UpdatedAt)

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := r.helper.ExecTx(ctx, tx, `
			UPDATE bookings
			SET title = ?, start_at = ?, end_at = ?, attendees = ?, organizer = ?, room_id = ?, updated_at = ?
			WHERE id = ?
		`,
			booking.Title,
			formatTime(booking.Start),
			formatTime(booking.End),
			booking.Attendees,
			booking.Organizer,
			booking.RoomID,
			formatTime(updated),
			booking.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if err := expectAffected(result); err != nil {
			return err
		}
		return r.mapper.MapError(replaceLinks(ctx, tx, "booking_equipment", "booking_id", booking.ID, booking.EquipmentIDs))
	})
}

// GetBooking retrieves a booking by ID.
func (r *BookingRepository) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	if id == "" {
		return persistence.Booking{}, persistence.ErrNotFound
	}

	row := r.helper.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}

	links, err := linkedIDs(ctx, r.pool.DB(), "booking_equipment", "booking_id", id)
	if err != nil {
		return persistence.Booking{}, r.mapper.MapError(err)
	}
	booking.EquipmentIDs = nonNil(links[id])
	return booking, nil
}

// ListBookings returns bookings matching filter ordered by start time.
func (r *BookingRepository) ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	var (
		where []string
		args  []any
	)
	if filter.RoomID != "" {
		where = append(where, "room_id = ?")
		args = append(args, filter.RoomID)
	}
	if filter.EndsAfter != nil {
		where = append(where, "end_at > ?")
		args = append(args, formatTime(*filter.EndsAfter))
	}
	if filter.StartsBefore != nil {
		where = append(where, "start_at < ?")
		args = append(args, formatTime(*filter.StartsBefore))
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY start_at ASC, id ASC"

	bookings, err := r.queryBookings(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	links, err := linkedIDs(ctx, r.pool.DB(), "booking_equipment", "booking_id", "")
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	for i := range bookings {
		bookings[i].EquipmentIDs = nonNil(links[bookings[i].ID])
	}
	return bookings, nil
}

func (r *BookingRepository) queryBookings(ctx context.Context, query string, args ...any) ([]persistence.Booking, error) {
	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	bookings := make([]persistence.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return bookings, nil
}

// DeleteBooking removes a booking and its equipment links.
func (r *BookingRepository) DeleteBooking(ctx context.Context, id string) error {
	if id == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := r.helper.ExecTx(ctx, tx, "DELETE FROM booking_equipment WHERE booking_id = ?", id); err != nil {
			return r.mapper.MapError(err)
		}
		result, err := r.helper.ExecTx(ctx, tx, "DELETE FROM bookings WHERE id = ?", id)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return expectAffected(result)
	})
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var (
		booking                             persistence.Booking
		startAt, endAt, createdAt, updated string
	)
	if err := row.Scan(
		&booking.ID,
		&booking.Title,
		&startAt,
		&endAt,
		&booking.Attendees,
		&booking.Organizer,
		&booking.RoomID,
		&createdAt,
		&updated,
	); err != nil {
		return persistence.Booking{}, err
	}

	var err error
	if booking.Start, err = parseTime("start_at", startAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.End, err = parseTime("end_at", endAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return persistence.Booking{}, err
	}
	if booking.UpdatedAt, err = parseTime("updated_at", updated); err != nil {
		return persistence.Booking{}, err
	}
	return booking, nil
}
