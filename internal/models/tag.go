package models

import (
	"time"
)

// Tag is a unique label that can be linked to many articles
type Tag struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updatedAt"`
}

// TagRequest is the body for creating or updating a tag
type TagRequest struct {
	Name string `json:"name" binding:"required,notblank,max=50"`
}

// ArticleTag links an article to a tag
type ArticleTag struct {
	ID        int64     `json:"id" db:"id"`
	ArticleID int64     `json:"articleId" db:"articleId"`
	TagID     int64     `json:"tagId" db:"tagId"`
	CreatedAt time.Time `json:"createdAt" db:"createdAt"`
}

// ArticleTagRequest identifies a single article/tag link
type ArticleTagRequest struct {
	ArticleID int64 `json:"articleId" binding:"required,gt=0"`
	TagID     int64 `json:"tagId" binding:"required,gt=0"`
}

// ArticleTagFilter narrows an article-tag listing
type ArticleTagFilter struct {
	ArticleID *int64
	TagID     *int64
}
