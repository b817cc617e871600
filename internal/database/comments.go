package database

import (
	"context"
	"fmt"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created_at)
              VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		comment.Text, comment.ItemID, comment.AuthorID, comment.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	var comments []models.Comment
	query := `SELECT c.id, c.text, c.item_id, c.author_id, c.created_at, u.name AS author_name
              FROM comments c JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ? ORDER BY c.created_at ASC`
	if err := db.SelectContext(ctx, &comments, query, itemID); err != nil {
		return nil, fmt.Errorf("list comments by item: %w", err)
	}
	return comments, nil
}
