package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
)

// CreateComment creates a comment belonging to an account. The foreign key
// constraint rejects comments for accounts that do not exist.
func CreateComment(ctx context.Context, db *sql.DB, date time.Time, content string, userID int64) (*model.Comment, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO comments (date, content, user_id) VALUES (?, ?, ?)`,
		date.UTC(), content, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting comment id: %w", err)
	}

	return GetComment(ctx, db, id)
}

// GetComment returns a comment by ID.
func GetComment(ctx context.Context, db *sql.DB, id int64) (*model.Comment, error) {
	c := &model.Comment{}
	err := db.QueryRowContext(ctx,
		`SELECT id, date, content, user_id FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.Date, &c.Content, &c.UserID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting comment: %w", err)
	}
	return c, nil
}

// ListComments returns all comments, oldest first.
func ListComments(ctx context.Context, db *sql.DB) ([]model.Comment, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, date, content, user_id FROM comments ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Date, &c.Content, &c.UserID); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
