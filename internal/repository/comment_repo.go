package repository

import (
	"context"
	"database/sql"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
)

// commentRepo is the concrete implementation of CommentRepository
type commentRepo struct {
	db database.Querier
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db database.Querier) CommentRepository {
	return &commentRepo{db: db}
}

const commentColumns = `id, content, "authorName", "authorEmail", "articleId", "createdAt", "updatedAt"`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	var (
		comment models.Comment
		email   sql.NullString
	)
	err := row.Scan(&comment.ID, &comment.Content, &comment.AuthorName, &email,
		&comment.ArticleID, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if email.Valid {
		comment.AuthorEmail = &email.String
	}
	return &comment, nil
}

// Create inserts a new comment
func (r *commentRepo) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (content, "authorName", "authorEmail", "articleId")
		VALUES ($1, $2, $3, $4)
		RETURNING id, "createdAt", "updatedAt"
	`
	err := r.db.QueryRowContext(ctx, query,
		comment.Content, comment.AuthorName, comment.AuthorEmail, comment.ArticleID,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	return translateError(err)
}

// GetByID retrieves a comment by ID
func (r *commentRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return comment, err
}

// ListByArticle returns an article's comments, oldest first
func (r *commentRepo) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE "articleId" = $1 ORDER BY "createdAt" ASC, id ASC`,
		articleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*models.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Update replaces the comment body. Returns ErrNotFound when absent.
func (r *commentRepo) Update(ctx context.Context, comment *models.Comment) error {
	err := r.db.QueryRowContext(ctx,
		`UPDATE comments SET content = $2, "updatedAt" = NOW() WHERE id = $1 RETURNING "updatedAt"`,
		comment.ID, comment.Content,
	).Scan(&comment.UpdatedAt)
	return translateError(err)
}

func (r *commentRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
