package service

import (
	"context"
	"errors"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
)

// articleTagService edits single links of the article/tag relation.
// Linking does not record an article version.
type articleTagService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newArticleTagService(repos *repository.Repositories, log zerolog.Logger) *articleTagService {
	return &articleTagService{
		repos: repos,
		log:   log.With().Str("service", "article_tag").Logger(),
	}
}

// NewArticleTagService creates an article-tag service
func NewArticleTagService(repos *repository.Repositories, log zerolog.Logger) ArticleTagService {
	return newArticleTagService(repos, log)
}

func (s *articleTagService) Link(ctx context.Context, req *models.ArticleTagRequest) (*models.ArticleTag, error) {
	articleExists, err := s.repos.Article.Exists(ctx, req.ArticleID)
	if err != nil {
		return nil, err
	}
	if !articleExists {
		return nil, notFound("Article")
	}
	tagExists, err := s.repos.Tag.Exists(ctx, req.TagID)
	if err != nil {
		return nil, err
	}
	if !tagExists {
		return nil, notFound("Tag")
	}

	link := &models.ArticleTag{ArticleID: req.ArticleID, TagID: req.TagID}
	if err := s.repos.ArticleTag.Create(ctx, link); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("tag is already linked to this article")
		case errors.Is(err, repository.ErrForeignKey):
			return nil, notFound("Article")
		}
		return nil, err
	}

	s.log.Info().Int64("article_id", req.ArticleID).Int64("tag_id", req.TagID).Msg("Tag linked")
	return link, nil
}

func (s *articleTagService) Unlink(ctx context.Context, req *models.ArticleTagRequest) error {
	deleted, err := s.repos.ArticleTag.Delete(ctx, req.ArticleID, req.TagID)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Article tag")
	}
	return nil
}

func (s *articleTagService) List(ctx context.Context, filter models.ArticleTagFilter) ([]*models.ArticleTag, error) {
	return s.repos.ArticleTag.List(ctx, filter)
}

func (s *articleTagService) Get(ctx context.Context, id int64) (*models.ArticleTag, error) {
	link, err := s.repos.ArticleTag.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link == nil {
		return nil, notFound("Article tag")
	}
	return link, nil
}
