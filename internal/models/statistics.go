package models

import (
	"time"
)

// Statistics is the dashboard summary over all articles
type Statistics struct {
	TotalArticles      int             `json:"totalArticles"`
	FavoriteArticles   int             `json:"favoriteArticles"`
	RecentArticles     int             `json:"recentArticles"`
	ArticlesByCategory []CategoryCount `json:"articlesByCategory"`
	LatestArticles     []LatestArticle `json:"latestArticles"`
}

// CategoryCount is the number of articles in one category
type CategoryCount struct {
	CategoryName string `json:"categoryName"`
	Count        int    `json:"count"`
}

// LatestArticle is a compact view of a recently created article
type LatestArticle struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"createdAt"`
	Category  *CategoryRef `json:"Category"`
}

// RecentWindow bounds what counts as a recent article
const RecentWindow = 7 * 24 * time.Hour

// LatestArticlesLimit is the size of the latest-articles list
const LatestArticlesLimit = 5
