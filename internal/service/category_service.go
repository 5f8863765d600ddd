package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
)

type categoryService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newCategoryService(repos *repository.Repositories, log zerolog.Logger) *categoryService {
	return &categoryService{
		repos: repos,
		log:   log.With().Str("service", "category").Logger(),
	}
}

// NewCategoryService creates a category service
func NewCategoryService(repos *repository.Repositories, log zerolog.Logger) CategoryService {
	return newCategoryService(repos, log)
}

func categoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return "", invalid("name", "name must be at least 2 characters")
	}
	return name, nil
}

func (s *categoryService) Create(ctx context.Context, req *models.CategoryRequest) (*models.Category, error) {
	name, err := categoryName(req.Name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("category name already exists")
		}
		return nil, err
	}

	s.log.Info().Int64("category_id", category.ID).Str("name", name).Msg("Category created")
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	return s.repos.Category.List(ctx)
}

func (s *categoryService) Get(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.repos.Category.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, notFound("Category")
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, req *models.CategoryRequest) (*models.Category, error) {
	name, err := categoryName(req.Name)
	if err != nil {
		return nil, err
	}

	category := &models.Category{ID: id, Name: name, Description: strings.TrimSpace(req.Description)}
	if err := s.repos.Category.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, notFound("Category")
		case errors.Is(err, repository.ErrDuplicate):
			return nil, conflict("category name already exists")
		}
		return nil, err
	}
	return category, nil
}

// Delete removes a category; its articles become uncategorized
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repos.Category.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return notFound("Category")
	}
	s.log.Info().Int64("category_id", id).Msg("Category deleted")
	return nil
}
