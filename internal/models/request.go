package models

import "time"

type ItemRequest struct {
	ID          int64     `db:"id" json:"id"`
	Description string    `db:"description" json:"description"`
	RequesterID int64     `db:"requester_id" json:"requester_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ItemRequestView carries the items listed in answer to the request.
type ItemRequestView struct {
	ItemRequest
	Items []Item `json:"items"`
}
