package repository

import (
	"context"
	"database/sql"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
)

type tagRepo struct {
	db database.Querier
}

// NewTagRepo creates a new tag repository
func NewTagRepo(db database.Querier) TagRepository {
	return &tagRepo{db: db}
}

func (r *tagRepo) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tags (name) VALUES ($1) RETURNING id, "createdAt", "updatedAt"`, tag.Name).
		Scan(&tag.ID, &tag.CreatedAt, &tag.UpdatedAt)
	return translateError(err)
}

// UpsertByName returns the id of the named tag, creating it if needed.
// The no-op update makes RETURNING yield the existing row.
func (r *tagRepo) UpsertByName(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, name).Scan(&id)
	return id, err
}

func (r *tagRepo) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, "createdAt", "updatedAt" FROM tags WHERE id = $1`, id).
		Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepo) List(ctx context.Context) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, "createdAt", "updatedAt" FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.CreatedAt, &tag.UpdatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// Update renames a tag. Returns ErrNotFound when absent.
func (r *tagRepo) Update(ctx context.Context, tag *models.Tag) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE tags SET name = $2, "updatedAt" = NOW() WHERE id = $1 RETURNING "createdAt", "updatedAt"`,
		tag.ID, tag.Name).
		Scan(&tag.CreatedAt, &tag.UpdatedAt)
	return translateError(err)
}

func (r *tagRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *tagRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM tags WHERE id = $1)", id).Scan(&exists)
	return exists, err
}
