package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	query := `INSERT INTO requests (description, requester_id, created_at)
              VALUES (?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		request.Description, request.RequesterID, request.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	request.ID = id
	return nil
}

func (db *DB) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	var request models.ItemRequest
	query := `SELECT id, description, requester_id, created_at FROM requests WHERE id = ?`
	if err := db.GetContext(ctx, &request, query, id); err != nil {
		return nil, notFound(err)
	}
	return &request, nil
}

func (db *DB) RequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	query := `SELECT id, description, requester_id, created_at
              FROM requests WHERE requester_id = ? ORDER BY created_at DESC`
	if err := db.SelectContext(ctx, &requests, query, requesterID); err != nil {
		return nil, fmt.Errorf("list requests by requester: %w", err)
	}
	return requests, nil
}

// RequestsFromOthers pages through requests posted by everyone except the
// given user, newest first.
func (db *DB) RequestsFromOthers(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequest, error) {
	var requests []models.ItemRequest
	query := `SELECT id, description, requester_id, created_at
              FROM requests WHERE requester_id != ?
              ORDER BY created_at DESC LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &requests, query, userID, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("list requests from others: %w", err)
	}
	return requests, nil
}
