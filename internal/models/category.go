package models

import (
	"time"
)

// Category groups articles
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updatedAt"`
}

// CategoryRequest is the body for creating or updating a category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,notblank,min=2,max=50"`
	Description string `json:"description" binding:"max=1000"`
}

// DefaultCategoryName is seeded on first start
const DefaultCategoryName = "일반"

// UncategorizedLabel names the bucket for articles without a category
const UncategorizedLabel = "미분류"
