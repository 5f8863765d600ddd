package models

import (
	"time"
)

// ArticleVersion is an immutable snapshot of an article's editable fields.
// Version rows keep the snake_case naming of their table.
type ArticleVersion struct {
	ID            int64     `json:"id" db:"id"`
	ArticleID     int64     `json:"article_id" db:"article_id"`
	VersionNumber int       `json:"version_number" db:"version_number"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	Tags          []string  `json:"tags" db:"tags"`
	Links         []Link    `json:"links" db:"links"`
	CategoryID    *int64    `json:"category_id" db:"category_id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// SnapshotOf copies the versioned fields of an article
func SnapshotOf(a *Article) *ArticleVersion {
	v := &ArticleVersion{
		ArticleID: a.ID,
		Title:     a.Title,
		Content:   a.Content,
		UserID:    a.AuthorID,
		Tags:      append([]string{}, a.Tags...),
		Links:     append([]Link{}, a.Links...),
	}
	if a.CategoryID != nil {
		id := *a.CategoryID
		v.CategoryID = &id
	}
	return v
}
