package models

type Item struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Available   bool   `db:"available" json:"available"`
	OwnerID     int64  `db:"owner_id" json:"owner_id"`
	RequestID   *int64 `db:"request_id" json:"request_id,omitempty"`
}

// ItemView is the item response enriched with comments and, for the owner,
// the last and next booking summaries.
type ItemView struct {
	Item
	LastBooking *BookingSummary `json:"last_booking,omitempty"`
	NextBooking *BookingSummary `json:"next_booking,omitempty"`
	Comments    []Comment       `json:"comments"`
}
