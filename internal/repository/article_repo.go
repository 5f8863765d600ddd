package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
)

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db database.Querier
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db database.Querier) ArticleRepository {
	return &articleRepo{db: db}
}

// articleSelect loads an article with its category, author and derived tag list
const articleSelect = `
	SELECT a.id, a.title, a.content, a.links, a."isFavorite", a."categoryId", a."authorId",
	       a."createdAt", a."updatedAt",
	       c.id, c.name, u.id, u.username,
	       COALESCE((
	           SELECT json_agg(t.name ORDER BY t.name)
	           FROM article_tags atg JOIN tags t ON t.id = atg."tagId"
	           WHERE atg."articleId" = a.id
	       ), '[]'::json)
	FROM articles a
	LEFT JOIN categories c ON c.id = a."categoryId"
	LEFT JOIN users u ON u.id = a."authorId"
`

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	var (
		article      models.Article
		linksJSON    []byte
		tagsJSON     []byte
		categoryID   sql.NullInt64
		catID        sql.NullInt64
		catName      sql.NullString
		userID       sql.NullInt64
		userUsername sql.NullString
	)

	err := row.Scan(
		&article.ID, &article.Title, &article.Content, &linksJSON, &article.IsFavorite,
		&categoryID, &article.AuthorID, &article.CreatedAt, &article.UpdatedAt,
		&catID, &catName, &userID, &userUsername, &tagsJSON,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(linksJSON, &article.Links); err != nil {
		return nil, fmt.Errorf("failed to decode links of article %d: %w", article.ID, err)
	}
	if err := json.Unmarshal(tagsJSON, &article.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of article %d: %w", article.ID, err)
	}
	if article.Links == nil {
		article.Links = []models.Link{}
	}
	if article.Tags == nil {
		article.Tags = []string{}
	}
	if categoryID.Valid {
		article.CategoryID = &categoryID.Int64
	}
	if catID.Valid {
		article.Category = &models.CategoryRef{ID: catID.Int64, Name: catName.String}
	}
	if userID.Valid {
		article.User = &models.UserRef{ID: userID.Int64, Username: userUsername.String}
	}

	return &article, nil
}

func marshalLinks(links []models.Link) ([]byte, error) {
	if links == nil {
		links = []models.Link{}
	}
	return json.Marshal(links)
}

// Create inserts a new article. Tags are linked separately.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) error {
	linksJSON, err := marshalLinks(article.Links)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (title, content, links, "isFavorite", "categoryId", "authorId")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, "createdAt", "updatedAt"
	`
	err = r.db.QueryRowContext(ctx, query,
		article.Title, article.Content, string(linksJSON), article.IsFavorite,
		article.CategoryID, article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	return translateError(err)
}

// GetByID retrieves an article by ID
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, articleSelect+` WHERE a.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// GetForUpdate retrieves an article and locks its row until the
// surrounding transaction ends, serializing writers of that article.
func (r *articleRepo) GetForUpdate(ctx context.Context, id int64) (*models.Article, error) {
	article, err := scanArticle(r.db.QueryRowContext(ctx, articleSelect+` WHERE a.id = $1 FOR UPDATE OF a`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return article, err
}

// List returns articles matching filter, newest first
func (r *articleRepo) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	var (
		where []string
		args  []any
	)
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf(`a."categoryId" = $%d`, len(args)))
	}
	if filter.Favorite != nil {
		args = append(args, *filter.Favorite)
		where = append(where, fmt.Sprintf(`a."isFavorite" = $%d`, len(args)))
	}
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		where = append(where, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM article_tags ft JOIN tags t ON t.id = ft."tagId"
			WHERE ft."articleId" = a.id AND t.name = $%d)`, len(args)))
	}
	if filter.Query != "" {
		args = append(args, likePattern(filter.Query))
		where = append(where, fmt.Sprintf(`(a.title ILIKE $%[1]d OR a.content ILIKE $%[1]d)`, len(args)))
	}

	query := articleSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += ` ORDER BY a."createdAt" DESC, a.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Update overwrites the editable columns. Returns ErrNotFound when absent.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	linksJSON, err := marshalLinks(article.Links)
	if err != nil {
		return err
	}

	query := `
		UPDATE articles
		SET title = $2, content = $3, links = $4, "isFavorite" = $5,
		    "categoryId" = $6, "authorId" = $7, "updatedAt" = NOW()
		WHERE id = $1
		RETURNING "updatedAt"
	`
	err = r.db.QueryRowContext(ctx, query,
		article.ID, article.Title, article.Content, string(linksJSON), article.IsFavorite,
		article.CategoryID, article.AuthorID,
	).Scan(&article.UpdatedAt)
	return translateError(err)
}

// Delete removes an article; versions, comments and tag links cascade
func (r *articleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// ToggleFavorite flips the favorite flag, reporting whether the article exists
func (r *articleRepo) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE articles SET "isFavorite" = NOT "isFavorite", "updatedAt" = NOW() WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// Exists checks if an article with the given ID exists
func (r *articleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// Count returns the total number of articles
func (r *articleRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	return count, err
}

func (r *articleRepo) CountFavorites(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE "isFavorite"`).Scan(&count)
	return count, err
}

func (r *articleRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE "createdAt" >= $1`, since).Scan(&count)
	return count, err
}

// CountByCategory groups articles by category name, uncategorized ones
// under a single label
func (r *articleRepo) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	query := `
		SELECT COALESCE(c.name, $1) AS category_name, COUNT(a.id) AS cnt
		FROM articles a
		LEFT JOIN categories c ON c.id = a."categoryId"
		GROUP BY c.id, c.name
		ORDER BY cnt DESC, category_name
	`
	rows, err := r.db.QueryContext(ctx, query, models.UncategorizedLabel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.CategoryCount, 0)
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.CategoryName, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// Latest returns the most recently created articles
func (r *articleRepo) Latest(ctx context.Context, limit int) ([]models.LatestArticle, error) {
	query := `
		SELECT a.id, a.title, a."createdAt", c.id, c.name
		FROM articles a
		LEFT JOIN categories c ON c.id = a."categoryId"
		ORDER BY a."createdAt" DESC, a.id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	latest := make([]models.LatestArticle, 0, limit)
	for rows.Next() {
		var (
			la      models.LatestArticle
			catID   sql.NullInt64
			catName sql.NullString
		)
		if err := rows.Scan(&la.ID, &la.Title, &la.CreatedAt, &catID, &catName); err != nil {
			return nil, err
		}
		if catID.Valid {
			la.Category = &models.CategoryRef{ID: catID.Int64, Name: catName.String}
		}
		latest = append(latest, la)
	}
	return latest, rows.Err()
}

// likePattern wraps s for a substring ILIKE match with wildcards escaped
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
