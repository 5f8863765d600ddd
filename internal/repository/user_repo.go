package repository

import (
	"context"
	"database/sql"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
)

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db database.Querier
}

// NewUserRepo creates a new user repository
func NewUserRepo(db database.Querier) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user and fills in its generated fields
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, "createdAt", "updatedAt"
	`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.Password).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translateError(err)
}

// EnsureWithID inserts a user with a fixed id unless a conflicting row
// exists, then moves the id sequence past it. Reports whether a row was added.
func (r *userRepo) EnsureWithID(ctx context.Context, user *models.User) (bool, error) {
	query := `
		INSERT INTO users (id, username, email, password)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.Password)
	if err != nil {
		return false, translateError(err)
	}
	created, err := affected(res)
	if err != nil {
		return false, err
	}

	_, err = r.db.ExecContext(ctx,
		`SELECT setval(pg_get_serial_sequence('users', 'id'), GREATEST((SELECT MAX(id) FROM users), 1))`)
	return created, err
}

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, password, "createdAt", "updatedAt" FROM users WHERE id = $1`

	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// List returns all users ordered by id
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, "createdAt", "updatedAt" FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// Exists checks if a user with the given ID exists
func (r *userRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id).Scan(&exists)
	return exists, err
}
