package model

import "time"

// Comment represents a user comment.
type Comment struct {
	ID      int64     `json:"id"`
	Date    time.Time `json:"date"`
	Content string    `json:"content"`
	UserID  int64     `json:"user_id"`
}
