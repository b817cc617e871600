package gateway

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/service"
)

const headerUserID = "X-Sharer-User-Id"

// sharerID validates the sharer header without consuming the body.
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

// readBody buffers the request body so it can be validated here and still
// forwarded upstream.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, apperr.Validation("unreadable request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func validateCreateUser(body []byte) error {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name must not be blank")
	}
	if strings.TrimSpace(req.Email) == "" {
		return apperr.Validation("email must not be blank")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return apperr.Validation("email %s is malformed", req.Email)
	}
	return nil
}

func validateUpdateUser(body []byte) error {
	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperr.Validation("name must not be blank")
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return apperr.Validation("email %s is malformed", *req.Email)
		}
	}
	return nil
}

func validateCreateItem(body []byte) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Available   *bool  `json:"available"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperr.Validation("name must not be blank")
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperr.Validation("description must not be blank")
	}
	if req.Available == nil {
		return apperr.Validation("available is required")
	}
	return nil
}

// validateCreateBooking enforces the temporal rules before the booking ever
// reaches the server tier.
func validateCreateBooking(body []byte, now time.Time) error {
	var req struct {
		Start  *time.Time `json:"start"`
		End    *time.Time `json:"end"`
		ItemID int64      `json:"item_id"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	if req.ItemID <= 0 {
		return apperr.Validation("item_id must be a positive integer")
	}
	if req.Start == nil || req.End == nil {
		return apperr.Validation("start and end are required")
	}
	if !req.Start.Before(*req.End) {
		return apperr.Validation("start must be before end")
	}
	if req.Start.Before(now) {
		return apperr.Validation("start must not be in the past")
	}
	if req.End.Before(now) {
		return apperr.Validation("end must not be in the past")
	}
	return nil
}

func validateComment(body []byte) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperr.Validation("text must not be blank")
	}
	return nil
}

func validateCreateRequest(body []byte) error {
	var req struct {
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return apperr.Validation("invalid JSON body")
	}
	if strings.TrimSpace(req.Description) == "" {
		return apperr.Validation("description must not be blank")
	}
	return nil
}

func validateState(r *http.Request) error {
	state := r.URL.Query().Get("state")
	if state == "" {
		return nil
	}
	_, err := service.ParseSearchState(state)
	return err
}

func validatePage(r *http.Request) error {
	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return apperr.Validation("from must be a non-negative integer")
		}
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return apperr.Validation("size must be a positive integer")
		}
	}
	return nil
}

func validateApproved(r *http.Request) error {
	if _, err := strconv.ParseBool(r.URL.Query().Get("approved")); err != nil {
		return apperr.Validation("approved must be true or false")
	}
	return nil
}
