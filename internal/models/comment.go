package models

import (
	"time"
)

// Comment represents a reader comment on an article
type Comment struct {
	ID          int64     `json:"id" db:"id"`
	Content     string    `json:"content" db:"content"`
	AuthorName  string    `json:"authorName" db:"authorName"`
	AuthorEmail *string   `json:"authorEmail" db:"authorEmail"`
	ArticleID   int64     `json:"articleId" db:"articleId"`
	CreatedAt   time.Time `json:"createdAt" db:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updatedAt"`
}

// CreateCommentRequest is the body of POST /comments/article/:articleId
type CreateCommentRequest struct {
	Content     string `json:"content" binding:"required,notblank,max=1000"`
	AuthorName  string `json:"authorName" binding:"required,notblank,max=100"`
	AuthorEmail string `json:"authorEmail" binding:"omitempty,email"`
}

// UpdateCommentRequest is the body of PUT /comments/:commentId
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=1000"`
}
