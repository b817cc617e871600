package service

import (
	"time"

	"shareit/internal/models"
)

// LastBooking picks the most recent booking that has already begun from the
// approved bookings sorted descending by start. Bookings in progress qualify
// alongside finished ones, so the first match in descending order wins.
func LastBooking(approvedDesc []models.Booking, now time.Time) *models.BookingSummary {
	for _, b := range approvedDesc {
		if b.End.Before(now) || (b.Start.Before(now) && b.End.After(now)) {
			return b.Summary()
		}
	}
	return nil
}

// NextBooking picks the earliest booking that has not yet started from the
// approved bookings sorted ascending by start. When the item has at most one
// approved booking overall there is no upcoming booking beyond the one just
// made, so the result is absent even if that single booking starts in the
// future.
func NextBooking(approvedAsc []models.Booking, now time.Time) *models.BookingSummary {
	if len(approvedAsc) <= 1 {
		return nil
	}
	for _, b := range approvedAsc {
		if b.Start.After(now) {
			return b.Summary()
		}
	}
	return nil
}
