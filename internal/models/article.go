package models

import (
	"encoding/json"
	"time"
)

// Link is an external reference attached to an article
type Link struct {
	Title string `json:"title" binding:"max=200"`
	URL   string `json:"url" binding:"required,max=2048"`
}

// CategoryRef is the category summary embedded in article responses
type CategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserRef is the author summary embedded in article responses
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Article represents a wiki document.
// Tags are derived from the article_tags relation on read.
type Article struct {
	ID         int64        `json:"id" db:"id"`
	Title      string       `json:"title" db:"title"`
	Content    string       `json:"content" db:"content"`
	Tags       []string     `json:"tags" db:"-"`
	Links      []Link       `json:"links" db:"links"`
	IsFavorite bool         `json:"isFavorite" db:"isFavorite"`
	CategoryID *int64       `json:"categoryId" db:"categoryId"`
	AuthorID   int64        `json:"authorId" db:"authorId"`
	CreatedAt  time.Time    `json:"createdAt" db:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt" db:"updatedAt"`
	Category   *CategoryRef `json:"Category"`
	User       *UserRef     `json:"User"`
}

// ArticleFilter narrows an article listing. Zero values mean no filter.
type ArticleFilter struct {
	CategoryID *int64
	Tag        string
	Favorite   *bool
	Query      string
}

// CreateArticleRequest is the body of POST /articles
type CreateArticleRequest struct {
	Title      string   `json:"title" binding:"required,notblank,max=200"`
	Content    string   `json:"content" binding:"required,notblank"`
	Tags       []string `json:"tags" binding:"omitempty,dive,max=50"`
	Links      []Link   `json:"links" binding:"omitempty,dive"`
	IsFavorite bool     `json:"isFavorite"`
	CategoryID *int64   `json:"categoryId"`
	AuthorID   *int64   `json:"authorId"`
}

// UpdateArticleRequest is the body of PUT /articles/:id.
// Nil fields are left untouched.
type UpdateArticleRequest struct {
	Title      *string    `json:"title" binding:"omitempty,notblank,max=200"`
	Content    *string    `json:"content" binding:"omitempty,notblank"`
	Tags       *[]string  `json:"tags"`
	Links      *[]Link    `json:"links" binding:"omitempty,dive"`
	IsFavorite *bool      `json:"isFavorite"`
	CategoryID NullableID `json:"categoryId"`
	AuthorID   NullableID `json:"authorId"`
}

// NullableID tells an absent JSON field apart from an explicit null.
type NullableID struct {
	Set   bool
	Valid bool
	Value int64
}

// UnmarshalJSON is only invoked when the key is present in the payload
func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Ptr returns the value as a pointer, nil when null or absent
func (n NullableID) Ptr() *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
