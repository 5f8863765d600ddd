package service

import (
	"context"
	"fmt"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/dochub-api/internal/telemetry"
	"github.com/rs/zerolog"
)

// Snapshot reasons, used as metric labels
const (
	reasonCreate  = "create"
	reasonUpdate  = "update"
	reasonRestore = "restore"
)

// VersionManager keeps the append-only history of article snapshots.
// Version numbers per article are contiguous from 1 and never reused.
type VersionManager struct {
	defaultAuthorID int64
	log             zerolog.Logger
}

// NewVersionManager creates a version manager
func NewVersionManager(defaultAuthorID int64, log zerolog.Logger) *VersionManager {
	return &VersionManager{
		defaultAuthorID: defaultAuthorID,
		log:             log.With().Str("component", "versions").Logger(),
	}
}

// CreateVersion appends a snapshot of article. repos must be bound to the
// transaction holding the article's row lock.
func (m *VersionManager) CreateVersion(ctx context.Context, repos *repository.Repositories, article *models.Article, reason string) (*models.ArticleVersion, error) {
	version := models.SnapshotOf(article)
	if version.UserID == 0 {
		version.UserID = m.defaultAuthorID
	}

	if err := repos.Version.Create(ctx, version); err != nil {
		return nil, fmt.Errorf("failed to create version of article %d: %w", article.ID, err)
	}

	telemetry.RecordVersion(reason)
	m.log.Debug().
		Int64("article_id", article.ID).
		Int("version_number", version.VersionNumber).
		Str("reason", reason).
		Msg("Article version created")

	return version, nil
}

// ListVersions returns an article's history, newest first
func (m *VersionManager) ListVersions(ctx context.Context, repos *repository.Repositories, articleID int64) ([]*models.ArticleVersion, error) {
	exists, err := repos.Article.Exists(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, notFound("Article")
	}
	return repos.Version.ListByArticle(ctx, articleID)
}

// GetVersion returns one version of an article
func (m *VersionManager) GetVersion(ctx context.Context, repos *repository.Repositories, articleID int64, versionNumber int) (*models.ArticleVersion, error) {
	version, err := repos.Version.GetByNumber(ctx, articleID, versionNumber)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, notFound("Version")
	}
	return version, nil
}

// Restore snapshots the live article and then overwrites it with the given
// version, all in one transaction. Both lookups happen before any write, so
// a missing version or article leaves the history untouched.
func (m *VersionManager) Restore(ctx context.Context, repos *repository.Repositories, articleID int64, versionNumber int) error {
	return repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		version, err := tx.Version.GetByNumber(ctx, articleID, versionNumber)
		if err != nil {
			return err
		}
		if version == nil {
			return notFound("Version")
		}

		article, err := tx.Article.GetForUpdate(ctx, articleID)
		if err != nil {
			return err
		}
		if article == nil {
			return notFound("Article")
		}

		if _, err := m.CreateVersion(ctx, tx, article, reasonRestore); err != nil {
			return err
		}

		article.Title = version.Title
		article.Content = version.Content
		article.Links = append([]models.Link{}, version.Links...)
		article.CategoryID = version.CategoryID
		article.AuthorID = version.UserID

		if article.CategoryID != nil {
			ok, err := tx.Category.Exists(ctx, *article.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				article.CategoryID = nil
			}
		}
		ok, err := tx.User.Exists(ctx, article.AuthorID)
		if err != nil {
			return err
		}
		if !ok {
			m.log.Warn().Int64("user_id", article.AuthorID).Msg("Version author missing, restoring with default author")
			article.AuthorID = m.defaultAuthorID
		}

		if err := tx.Article.Update(ctx, article); err != nil {
			return fmt.Errorf("failed to restore article %d: %w", articleID, err)
		}
		if err := setArticleTags(ctx, tx, articleID, version.Tags); err != nil {
			return err
		}

		m.log.Info().
			Int64("article_id", articleID).
			Int("version_number", versionNumber).
			Msg("Article restored from version")
		return nil
	})
}
