package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
)

type commentService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newCommentService(repos *repository.Repositories, log zerolog.Logger) *commentService {
	return &commentService{
		repos: repos,
		log:   log.With().Str("service", "comment").Logger(),
	}
}

// NewCommentService creates a comment service
func NewCommentService(repos *repository.Repositories, log zerolog.Logger) CommentService {
	return newCommentService(repos, log)
}

func (s *commentService) requireArticle(ctx context.Context, articleID int64) error {
	exists, err := s.repos.Article.Exists(ctx, articleID)
	if err != nil {
		return err
	}
	if !exists {
		return notFound("Article")
	}
	return nil
}

// ListByArticle returns an article's comments, oldest first
func (s *commentService) ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error) {
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.repos.Comment.ListByArticle(ctx, articleID)
}

func (s *commentService) Create(ctx context.Context, articleID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalid("content", "content is required")
	}
	authorName := strings.TrimSpace(req.AuthorName)
	if authorName == "" {
		return nil, invalid("authorName", "authorName is required")
	}
	if err := s.requireArticle(ctx, articleID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Content:    content,
		AuthorName: authorName,
		ArticleID:  articleID,
	}
	if email := strings.TrimSpace(req.AuthorEmail); email != "" {
		comment.AuthorEmail = &email
	}

	if err := s.repos.Comment.Create(ctx, comment); err != nil {
		// The article can vanish between the check and the insert.
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, notFound("Article")
		}
		return nil, err
	}

	s.log.Info().Int64("comment_id", comment.ID).Int64("article_id", articleID).Msg("Comment created")
	return comment, nil
}

func (s *commentService) Get(ctx context.Context, id int64) (*models.Comment, error) {
	comment, err := s.repos.Comment.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, notFound("Comment")
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, id int64, req *models.UpdateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, invalid("content", "content is required")
	}

	comment := &models.Comment{ID: id, Content: content}
	if err := s.repos.Comment.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("Comment")
		}
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repos.Comment.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Comment")
	}
	return nil
}
