package database

import (
	"context"
	"fmt"
	"strings"

	"shareit/internal/models"
)

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, request_id)
              VALUES (?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, item.OwnerID, item.RequestID)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	item.ID = id
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	var item models.Item
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items WHERE id = ?`
	if err := db.GetContext(ctx, &item, query, id); err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, item.Name, item.Description, item.Available, item.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteItem(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error) {
	var items []models.Item
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items WHERE owner_id = ? ORDER BY id ASC LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &items, query, ownerID, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("list items by owner: %w", err)
	}
	return items, nil
}

// SearchItems matches available items whose name or description contains the
// text, case-insensitively.
func (db *DB) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	var items []models.Item
	pattern := "%" + strings.ToLower(text) + "%"
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items
              WHERE available = 1 AND (LOWER(name) LIKE ? OR LOWER(description) LIKE ?)
              ORDER BY id ASC LIMIT ? OFFSET ?`
	if err := db.SelectContext(ctx, &items, query, pattern, pattern, page.Limit(), page.Offset()); err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	return items, nil
}

func (db *DB) ItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	var items []models.Item
	query := `SELECT id, name, description, available, owner_id, request_id
              FROM items WHERE request_id = ? ORDER BY id ASC`
	if err := db.SelectContext(ctx, &items, query, requestID); err != nil {
		return nil, fmt.Errorf("list items by request: %w", err)
	}
	return items, nil
}
