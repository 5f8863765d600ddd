package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/pdf"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// PDFExport is a rendered article ready for download
type PDFExport struct {
	Filename string
	Data     []byte
}

type articleService struct {
	repos           *repository.Repositories
	versions        *VersionManager
	renderer        PDFRenderer
	defaultAuthorID int64
	now             func() time.Time
	log             zerolog.Logger
}

func newArticleService(repos *repository.Repositories, versions *VersionManager, renderer PDFRenderer, defaultAuthorID int64, log zerolog.Logger) *articleService {
	return &articleService{
		repos:           repos,
		versions:        versions,
		renderer:        renderer,
		defaultAuthorID: defaultAuthorID,
		now:             time.Now,
		log:             log.With().Str("service", "article").Logger(),
	}
}

// NewArticleService creates an article service with its own version manager
func NewArticleService(repos *repository.Repositories, renderer PDFRenderer, defaultAuthorID int64, log zerolog.Logger) ArticleService {
	return newArticleService(repos, NewVersionManager(defaultAuthorID, log), renderer, defaultAuthorID, log)
}

// resolveAuthor returns id when it names an existing user and the
// configured default author otherwise.
func (s *articleService) resolveAuthor(ctx context.Context, repos *repository.Repositories, id *int64) (int64, error) {
	if id == nil {
		return s.defaultAuthorID, nil
	}
	ok, err := repos.User.Exists(ctx, *id)
	if err != nil {
		return 0, err
	}
	if !ok {
		s.log.Warn().Int64("author_id", *id).Int64("default_author_id", s.defaultAuthorID).
			Msg("Unknown author, using default author")
		return s.defaultAuthorID, nil
	}
	return *id, nil
}

// resolveCategory returns id when it names an existing category and nil otherwise
func (s *articleService) resolveCategory(ctx context.Context, repos *repository.Repositories, id *int64) (*int64, error) {
	if id == nil {
		return nil, nil
	}
	ok, err := repos.Category.Exists(ctx, *id)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Warn().Int64("category_id", *id).Msg("Unknown category, storing article without category")
		return nil, nil
	}
	v := *id
	return &v, nil
}

func (s *articleService) Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, invalid("title", "title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, invalid("content", "content is required")
	}
	tags, err := normalizeTags(req.Tags)
	if err != nil {
		return nil, err
	}

	var created *models.Article
	err = s.repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		authorID, err := s.resolveAuthor(ctx, tx, req.AuthorID)
		if err != nil {
			return err
		}
		categoryID, err := s.resolveCategory(ctx, tx, req.CategoryID)
		if err != nil {
			return err
		}

		article := &models.Article{
			Title:      title,
			Content:    req.Content,
			Links:      normalizeLinks(req.Links),
			IsFavorite: req.IsFavorite,
			CategoryID: categoryID,
			AuthorID:   authorID,
		}
		if err := tx.Article.Create(ctx, article); err != nil {
			return fmt.Errorf("failed to create article: %w", err)
		}
		if err := setArticleTags(ctx, tx, article.ID, tags); err != nil {
			return err
		}

		// Reload to get the derived tag order the version should record.
		created, err = tx.Article.GetByID(ctx, article.ID)
		if err != nil {
			return err
		}
		_, err = s.versions.CreateVersion(ctx, tx, created, reasonCreate)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("article_id", created.ID).Str("title", created.Title).Msg("Article created")
	return created, nil
}

func (s *articleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	article, err := s.repos.Article.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, notFound("Article")
	}
	return article, nil
}

func (s *articleService) List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	filter.Tag = strings.TrimSpace(filter.Tag)
	filter.Query = strings.TrimSpace(filter.Query)
	return s.repos.Article.List(ctx, filter)
}

// Update snapshots the current state, then applies the provided fields
func (s *articleService) Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.Article, error) {
	var tags []string
	if req.Tags != nil {
		var err error
		if tags, err = normalizeTags(*req.Tags); err != nil {
			return nil, err
		}
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, invalid("title", "title must not be blank")
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, invalid("content", "content must not be blank")
	}

	err := s.repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		article, err := tx.Article.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if article == nil {
			return notFound("Article")
		}

		if _, err := s.versions.CreateVersion(ctx, tx, article, reasonUpdate); err != nil {
			return err
		}

		if req.Title != nil {
			article.Title = strings.TrimSpace(*req.Title)
		}
		if req.Content != nil {
			article.Content = *req.Content
		}
		if req.Links != nil {
			article.Links = normalizeLinks(*req.Links)
		}
		if req.IsFavorite != nil {
			article.IsFavorite = *req.IsFavorite
		}
		if req.CategoryID.Set {
			if article.CategoryID, err = s.resolveCategory(ctx, tx, req.CategoryID.Ptr()); err != nil {
				return err
			}
		}
		if req.AuthorID.Set {
			if article.AuthorID, err = s.resolveAuthor(ctx, tx, req.AuthorID.Ptr()); err != nil {
				return err
			}
		}

		if err := tx.Article.Update(ctx, article); err != nil {
			return fmt.Errorf("failed to update article %d: %w", id, err)
		}
		if req.Tags != nil {
			return setArticleTags(ctx, tx, id, tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("article_id", id).Msg("Article updated")
	return s.Get(ctx, id)
}

func (s *articleService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repos.Article.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Article")
	}
	s.log.Info().Int64("article_id", id).Msg("Article deleted")
	return nil
}

// ToggleFavorite flips the favorite flag without recording a version
func (s *articleService) ToggleFavorite(ctx context.Context, id int64) (*models.Article, error) {
	found, err := s.repos.Article.ToggleFavorite(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, notFound("Article")
	}
	return s.Get(ctx, id)
}

// Statistics runs the dashboard aggregates concurrently
func (s *articleService) Statistics(ctx context.Context) (*models.Statistics, error) {
	stats := &models.Statistics{}
	since := s.now().Add(-models.RecentWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.TotalArticles, err = s.repos.Article.Count(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.FavoriteArticles, err = s.repos.Article.CountFavorites(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.RecentArticles, err = s.repos.Article.CountCreatedSince(gctx, since)
		return err
	})
	g.Go(func() error {
		var err error
		stats.ArticlesByCategory, err = s.repos.Article.CountByCategory(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats.LatestArticles, err = s.repos.Article.Latest(gctx, models.LatestArticlesLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute statistics: %w", err)
	}
	return stats, nil
}

func (s *articleService) ListVersions(ctx context.Context, id int64) ([]*models.ArticleVersion, error) {
	return s.versions.ListVersions(ctx, s.repos, id)
}

func (s *articleService) GetVersion(ctx context.Context, id int64, versionNumber int) (*models.ArticleVersion, error) {
	return s.versions.GetVersion(ctx, s.repos, id, versionNumber)
}

func (s *articleService) RestoreVersion(ctx context.Context, id int64, versionNumber int) (*models.Article, error) {
	if err := s.versions.Restore(ctx, s.repos, id, versionNumber); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// RenderPDF exports the article
func (s *articleService) RenderPDF(ctx context.Context, id int64) (*PDFExport, error) {
	if s.renderer == nil {
		return nil, errors.New("pdf rendering is not configured")
	}
	article, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	doc := pdf.Document{
		Title:     article.Title,
		Content:   article.Content,
		Tags:      article.Tags,
		CreatedAt: article.CreatedAt,
	}
	if article.User != nil {
		doc.Author = article.User.Username
	}
	if article.Category != nil {
		doc.Category = article.Category.Name
	}

	data, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &PDFExport{Filename: article.Title + ".pdf", Data: data}, nil
}
