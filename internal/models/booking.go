package models

import "time"

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

type Booking struct {
	ID       int64         `db:"id" json:"id"`
	Start    time.Time     `db:"start_time" json:"start"`
	End      time.Time     `db:"end_time" json:"end"`
	ItemID   int64         `db:"item_id" json:"item_id"`
	BookerID int64         `db:"booker_id" json:"booker_id"`
	Status   BookingStatus `db:"status" json:"status"`
}

// BookingSummary is the short booking view embedded into item responses.
type BookingSummary struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

func (b Booking) Summary() *BookingSummary {
	return &BookingSummary{ID: b.ID, BookerID: b.BookerID, Start: b.Start, End: b.End}
}
