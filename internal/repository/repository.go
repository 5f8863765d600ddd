package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned by writes that target a missing row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate key")
	// ErrForeignKey is returned when a referenced row does not exist
	ErrForeignKey = errors.New("foreign key violation")
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	EnsureWithID(ctx context.Context, user *models.User) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetByName(ctx context.Context, name string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	UpsertByName(ctx context.Context, name string) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// ArticleTagRepository defines the interface for the article/tag relation,
// the single source of truth for article tags.
type ArticleTagRepository interface {
	Create(ctx context.Context, link *models.ArticleTag) error
	GetByID(ctx context.Context, id int64) (*models.ArticleTag, error)
	List(ctx context.Context, filter models.ArticleTagFilter) ([]*models.ArticleTag, error)
	Delete(ctx context.Context, articleID, tagID int64) (bool, error)
	SetForArticle(ctx context.Context, articleID int64, tagIDs []int64) error
}

// ArticleRepository defines the interface for article data operations
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetForUpdate(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) (bool, error)
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
	Exists(ctx context.Context, id int64) (bool, error)

	Count(ctx context.Context) (int, error)
	CountFavorites(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	Latest(ctx context.Context, limit int) ([]models.LatestArticle, error)
}

// VersionRepository defines the interface for article version history
type VersionRepository interface {
	Create(ctx context.Context, version *models.ArticleVersion) error
	ListByArticle(ctx context.Context, articleID int64) ([]*models.ArticleVersion, error)
	GetByNumber(ctx context.Context, articleID int64, versionNumber int) (*models.ArticleVersion, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) (bool, error)
}

// Transactor runs fn with repositories bound to a single transaction
type Transactor interface {
	WithinTx(ctx context.Context, fn func(repos *Repositories) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User       UserRepository
	Category   CategoryRepository
	Tag        TagRepository
	ArticleTag ArticleTagRepository
	Article    ArticleRepository
	Version    VersionRepository
	Comment    CommentRepository

	// Tx is nil on repositories that are already bound to a transaction
	Tx Transactor
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	repos := bind(db)
	repos.Tx = &txManager{db: db}
	return repos
}

func bind(q database.Querier) *Repositories {
	return &Repositories{
		User:       NewUserRepo(q),
		Category:   NewCategoryRepo(q),
		Tag:        NewTagRepo(q),
		ArticleTag: NewArticleTagRepo(q),
		Article:    NewArticleRepo(q),
		Version:    NewVersionRepo(q),
		Comment:    NewCommentRepo(q),
	}
}

type txManager struct {
	db *database.DB
}

func (m *txManager) WithinTx(ctx context.Context, fn func(repos *Repositories) error) error {
	return m.db.WithTx(ctx, func(tx *sql.Tx) error {
		return fn(bind(tx))
	})
}

// translateError maps missing rows and PostgreSQL constraint violations
// to package errors
func translateError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
		case "23503":
			return fmt.Errorf("%w: %s", ErrForeignKey, pqErr.Constraint)
		}
	}
	return err
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
