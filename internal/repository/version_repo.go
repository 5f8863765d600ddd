package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
)

type versionRepo struct {
	db database.Querier
}

// NewVersionRepo creates a new article version repository
func NewVersionRepo(db database.Querier) VersionRepository {
	return &versionRepo{db: db}
}

const versionColumns = `id, article_id, version_number, title, content, tags, links, category_id, user_id, created_at, updated_at`

func scanVersion(row interface{ Scan(...any) error }) (*models.ArticleVersion, error) {
	var (
		v          models.ArticleVersion
		tagsJSON   []byte
		linksJSON  []byte
		categoryID sql.NullInt64
	)
	err := row.Scan(&v.ID, &v.ArticleID, &v.VersionNumber, &v.Title, &v.Content,
		&tagsJSON, &linksJSON, &categoryID, &v.UserID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsJSON, &v.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode version tags: %w", err)
	}
	if err := json.Unmarshal(linksJSON, &v.Links); err != nil {
		return nil, fmt.Errorf("failed to decode version links: %w", err)
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Links == nil {
		v.Links = []models.Link{}
	}
	if categoryID.Valid {
		v.CategoryID = &categoryID.Int64
	}
	return &v, nil
}

// Create appends a version, numbering it one past the article's current
// maximum inside the same statement. Callers hold the article row lock so
// concurrent writers cannot compute the same number; the unique constraint
// on (article_id, version_number) rejects any that slip through.
func (r *versionRepo) Create(ctx context.Context, version *models.ArticleVersion) error {
	tags := version.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	linksJSON, err := marshalLinks(version.Links)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO article_versions
			(article_id, version_number, title, content, tags, links, category_id, user_id)
		SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3, $4, $5, $6, $7
		FROM article_versions
		WHERE article_id = $1
		RETURNING id, version_number, created_at, updated_at
	`
	err = r.db.QueryRowContext(ctx, query,
		version.ArticleID, version.Title, version.Content, string(tagsJSON), string(linksJSON),
		version.CategoryID, version.UserID,
	).Scan(&version.ID, &version.VersionNumber, &version.CreatedAt, &version.UpdatedAt)
	return translateError(err)
}

// ListByArticle returns an article's versions, newest first
func (r *versionRepo) ListByArticle(ctx context.Context, articleID int64) ([]*models.ArticleVersion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+versionColumns+` FROM article_versions WHERE article_id = $1 ORDER BY version_number DESC`,
		articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	versions := make([]*models.ArticleVersion, 0)
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

func (r *versionRepo) GetByNumber(ctx context.Context, articleID int64, versionNumber int) (*models.ArticleVersion, error) {
	v, err := scanVersion(r.db.QueryRowContext(ctx,
		`SELECT `+versionColumns+` FROM article_versions WHERE article_id = $1 AND version_number = $2`,
		articleID, versionNumber))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}
