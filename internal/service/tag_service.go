package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
)

type tagService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newTagService(repos *repository.Repositories, log zerolog.Logger) *tagService {
	return &tagService{
		repos: repos,
		log:   log.With().Str("service", "tag").Logger(),
	}
}

// NewTagService creates a tag service
func NewTagService(repos *repository.Repositories, log zerolog.Logger) TagService {
	return newTagService(repos, log)
}

func tagName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxTagLength {
		return "", invalid("name", fmt.Sprintf("name must be at most %d characters", maxTagLength))
	}
	return name, nil
}

func (s *tagService) Create(ctx context.Context, req *models.TagRequest) (*models.Tag, error) {
	name, err := tagName(req.Name)
	if err != nil {
		return nil, err
	}

	tag := &models.Tag{Name: name}
	if err := s.repos.Tag.Create(ctx, tag); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("tag name already exists")
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]*models.Tag, error) {
	return s.repos.Tag.List(ctx)
}

func (s *tagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	tag, err := s.repos.Tag.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, notFound("Tag")
	}
	return tag, nil
}

// Update renames a tag; every linked article reflects the new name
func (s *tagService) Update(ctx context.Context, id int64, req *models.TagRequest) (*models.Tag, error) {
	name, err := tagName(req.Name)
	if err != nil {
		return nil, err
	}

	tag := &models.Tag{ID: id, Name: name}
	if err := s.repos.Tag.Update(ctx, tag); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Tag")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("tag name already exists")
		}
		return nil, err
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repos.Tag.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Tag")
	}
	return nil
}
