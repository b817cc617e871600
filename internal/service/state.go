package service

import (
	"time"

	"shareit/internal/apperr"
	"shareit/internal/models"
)

// SearchState selects a temporal/status subset of a booking list.
type SearchState string

const (
	StateAll      SearchState = "ALL"
	StateCurrent  SearchState = "CURRENT"
	StateWaiting  SearchState = "WAITING"
	StatePast     SearchState = "PAST"
	StateFuture   SearchState = "FUTURE"
	StateRejected SearchState = "REJECTED"
)

// ParseSearchState accepts only the exact upper-case keywords; anything else
// is an unsupported-state error, never a silent default.
func ParseSearchState(raw string) (SearchState, error) {
	switch SearchState(raw) {
	case StateAll, StateCurrent, StateWaiting, StatePast, StateFuture, StateRejected:
		return SearchState(raw), nil
	default:
		return "", apperr.UnsupportedState()
	}
}

// FilterByState returns the subsequence of bookings matching the state,
// preserving order. All time comparisons use the single now value supplied by
// the caller.
func FilterByState(bookings []models.Booking, state SearchState, now time.Time) ([]models.Booking, error) {
	var keep func(models.Booking) bool
	switch state {
	case StateAll:
		return bookings, nil
	case StateCurrent:
		keep = func(b models.Booking) bool {
			return !b.Start.After(now) && b.End.After(now)
		}
	case StateWaiting:
		keep = func(b models.Booking) bool { return b.Status == models.StatusWaiting }
	case StatePast:
		keep = func(b models.Booking) bool { return b.End.Before(now) }
	case StateFuture:
		keep = func(b models.Booking) bool { return b.End.After(now) }
	case StateRejected:
		keep = func(b models.Booking) bool { return b.Status == models.StatusRejected }
	default:
		return nil, apperr.UnsupportedState()
	}

	filtered := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if keep(b) {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}
