package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
)

const maxTagLength = 50

// normalizeTags trims names, drops blanks and duplicates, keeping first-seen order
func normalizeTags(names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if utf8.RuneCountInString(name) > maxTagLength {
			return nil, invalid("tags", fmt.Sprintf("tag %q exceeds %d characters", name, maxTagLength))
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}

// normalizeLinks drops entries without a URL
func normalizeLinks(links []models.Link) []models.Link {
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		l.URL = strings.TrimSpace(l.URL)
		l.Title = strings.TrimSpace(l.Title)
		if l.URL == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

// setArticleTags upserts names into the tag table and makes them the
// article's exact tag set.
func setArticleTags(ctx context.Context, repos *repository.Repositories, articleID int64, names []string) error {
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := repos.Tag.UpsertByName(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return repos.ArticleTag.SetForArticle(ctx, articleID, ids)
}
