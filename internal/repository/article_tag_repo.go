package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
	"github.com/lib/pq"
)

type articleTagRepo struct {
	db database.Querier
}

// NewArticleTagRepo creates a new article/tag relation repository
func NewArticleTagRepo(db database.Querier) ArticleTagRepository {
	return &articleTagRepo{db: db}
}

func (r *articleTagRepo) Create(ctx context.Context, link *models.ArticleTag) error {
	query := `
		INSERT INTO article_tags ("articleId", "tagId")
		VALUES ($1, $2)
		RETURNING id, "createdAt"
	`
	err := r.db.QueryRowContext(ctx, query, link.ArticleID, link.TagID).Scan(&link.ID, &link.CreatedAt)
	return translateError(err)
}

func (r *articleTagRepo) GetByID(ctx context.Context, id int64) (*models.ArticleTag, error) {
	var link models.ArticleTag
	err := r.db.QueryRowContext(ctx,
		`SELECT id, "articleId", "tagId", "createdAt" FROM article_tags WHERE id = $1`, id).
		Scan(&link.ID, &link.ArticleID, &link.TagID, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *articleTagRepo) List(ctx context.Context, filter models.ArticleTagFilter) ([]*models.ArticleTag, error) {
	var (
		where []string
		args  []any
	)
	if filter.ArticleID != nil {
		args = append(args, *filter.ArticleID)
		where = append(where, fmt.Sprintf(`"articleId" = $%d`, len(args)))
	}
	if filter.TagID != nil {
		args = append(args, *filter.TagID)
		where = append(where, fmt.Sprintf(`"tagId" = $%d`, len(args)))
	}

	query := `SELECT id, "articleId", "tagId", "createdAt" FROM article_tags`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*models.ArticleTag, 0)
	for rows.Next() {
		var link models.ArticleTag
		if err := rows.Scan(&link.ID, &link.ArticleID, &link.TagID, &link.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, &link)
	}
	return links, rows.Err()
}

func (r *articleTagRepo) Delete(ctx context.Context, articleID, tagID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM article_tags WHERE "articleId" = $1 AND "tagId" = $2`, articleID, tagID)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// SetForArticle makes tagIDs the exact tag set of the article
func (r *articleTagRepo) SetForArticle(ctx context.Context, articleID int64, tagIDs []int64) error {
	if tagIDs == nil {
		tagIDs = []int64{}
	}

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM article_tags WHERE "articleId" = $1 AND NOT ("tagId" = ANY($2::bigint[]))`,
		articleID, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("failed to unlink tags: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO article_tags ("articleId", "tagId")
		SELECT $1, tag_id FROM unnest($2::bigint[]) AS tag_id
		ON CONFLICT ("articleId", "tagId") DO NOTHING
	`, articleID, pq.Array(tagIDs))
	if err != nil {
		return fmt.Errorf("failed to link tags: %w", translateError(err))
	}
	return nil
}
