package repository

import (
	"context"
	"database/sql"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
)

type categoryRepo struct {
	db database.Querier
}

// NewCategoryRepo creates a new category repository
func NewCategoryRepo(db database.Querier) CategoryRepository {
	return &categoryRepo{db: db}
}

const categoryColumns = `id, name, description, "createdAt", "updatedAt"`

func scanCategory(row interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	var description sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (name, description)
		VALUES ($1, $2)
		RETURNING id, "createdAt", "updatedAt"
	`
	err := r.db.QueryRowContext(ctx, query, category.Name, nullString(category.Description)).
		Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
	return translateError(err)
}

func (r *categoryRepo) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *categoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (r *categoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update overwrites name and description. Returns ErrNotFound when absent.
func (r *categoryRepo) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories SET name = $2, description = $3, "updatedAt" = NOW()
		WHERE id = $1
		RETURNING "createdAt", "updatedAt"
	`
	err := r.db.QueryRowContext(ctx, query, category.ID, category.Name, nullString(category.Description)).
		Scan(&category.CreatedAt, &category.UpdatedAt)
	return translateError(err)
}

// Delete removes a category; articles and versions referencing it keep a NULL category
func (r *categoryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

func (r *categoryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)", id).Scan(&exists)
	return exists, err
}
