package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `id, start_time, end_time, item_id, booker_id, status`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (start_time, end_time, item_id, booker_id, status)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		booking.Start.UTC(), booking.End.UTC(), booking.ItemID, booking.BookerID, booking.Status)
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	booking.ID = id
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	if err := db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, notFound(err)
	}
	return &booking, nil
}

// DecideBooking moves a booking out of its undecided state. The guard refuses
// the update when the row is already APPROVED, so a decision is made at most
// once.
func (db *DB) DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ? WHERE id = ? AND status != ?`
	result, err := db.ExecContext(ctx, query, status, id, models.StatusApproved)
	if err != nil {
		return fmt.Errorf("decide booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := db.GetBooking(ctx, id); err != nil {
			return err
		}
		return ErrAlreadyDecided
	}
	return nil
}

func (db *DB) DeleteBooking(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) BookingsByBooker(ctx context.Context, bookerID int64, page models.Page) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? ORDER BY start_time DESC LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &bookings, query, bookerID, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("list bookings by booker: %w", err)
	}
	return bookings, nil
}

func (db *DB) BookingsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT b.id, b.start_time, b.end_time, b.item_id, b.booker_id, b.status
              FROM bookings b JOIN items i ON i.id = b.item_id
              WHERE i.owner_id = ? ORDER BY b.start_time DESC LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &bookings, query, ownerID, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("list bookings by owner: %w", err)
	}
	return bookings, nil
}

func (db *DB) ApprovedBookingsByItemAsc(ctx context.Context, itemID int64) ([]models.Booking, error) {
	return db.approvedByItem(ctx, itemID, "ASC")
}

func (db *DB) ApprovedBookingsByItemDesc(ctx context.Context, itemID int64) ([]models.Booking, error) {
	return db.approvedByItem(ctx, itemID, "DESC")
}

func (db *DB) approvedByItem(ctx context.Context, itemID int64, order string) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE item_id = ? AND status = ? ORDER BY start_time ` + order
	if err := db.SelectContext(ctx, &bookings, query, itemID, models.StatusApproved); err != nil {
		return nil, fmt.Errorf("list approved bookings by item: %w", err)
	}
	return bookings, nil
}

// FinishedBookingsByBookerAndItem returns the booker's approved bookings of
// the item that ended before the given moment. Used to authorize comments.
func (db *DB) FinishedBookingsByBookerAndItem(ctx context.Context, bookerID, itemID int64, before time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings
              WHERE booker_id = ? AND item_id = ? AND status = ? AND end_time < ?`
	if err := db.SelectContext(ctx, &bookings, query, bookerID, itemID, models.StatusApproved, before.UTC()); err != nil {
		return nil, fmt.Errorf("list finished bookings: %w", err)
	}
	return bookings, nil
}
