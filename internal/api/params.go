package api

import (
	"net/http"
	"strconv"

	"shareit/internal/apperr"
	"shareit/internal/models"
)

// sharerID reads the caller's user id from the sharer header.
func sharerID(r *http.Request) (int64, error) {
	raw := r.Header.Get(headerUserID)
	if raw == "" {
		return 0, apperr.Validation("%s header is required", headerUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("%s header must be a positive integer", headerUserID)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("%s must be a positive integer", name)
	}
	return id, nil
}

// queryPage reads from/size with defaults from=0, size=10.
func queryPage(r *http.Request) (models.Page, error) {
	from := models.DefaultPageFrom
	size := models.DefaultPageSize

	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return models.Page{}, apperr.Validation("from must be a non-negative integer")
		}
		from = v
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return models.Page{}, apperr.Validation("size must be a positive integer")
		}
		size = v
	}
	return models.NewPage(from, size), nil
}

// queryState reads the booking state filter, defaulting to ALL.
func queryState(r *http.Request) string {
	state := r.URL.Query().Get("state")
	if state == "" {
		return "ALL"
	}
	return state
}
