package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
)

// ErrDefaultAuthorMissing is returned when seeding cannot provide DEFAULT_AUTHOR_ID
var ErrDefaultAuthorMissing = errors.New("default author missing")

const (
	defaultAdminUsername       = "admin"
	defaultAdminEmail          = "admin@dochub.com"
	defaultCategoryDescription = "기본 카테고리"
)

type seedService struct {
	repos *repository.Repositories
	cfg   config.WikiConfig
	log   zerolog.Logger
}

func newSeedService(repos *repository.Repositories, cfg config.WikiConfig, log zerolog.Logger) *seedService {
	return &seedService{
		repos: repos,
		cfg:   cfg,
		log:   log.With().Str("service", "seed").Logger(),
	}
}

// NewSeeder creates the default data seeder
func NewSeeder(repos *repository.Repositories, cfg config.WikiConfig, log zerolog.Logger) Seeder {
	return newSeedService(repos, cfg, log)
}

// SeedDefaults makes sure the default author and the default category exist.
// Running it again is a no-op.
func (s *seedService) SeedDefaults(ctx context.Context) error {
	if err := s.seedAdmin(ctx); err != nil {
		return err
	}
	return s.seedCategory(ctx)
}

func (s *seedService) seedAdmin(ctx context.Context) error {
	hash, err := hashPassword(s.cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	created, err := s.repos.User.EnsureWithID(ctx, &models.User{
		ID:       s.cfg.DefaultAuthorID,
		Username: defaultAdminUsername,
		Email:    defaultAdminEmail,
		Password: hash,
	})
	if err != nil {
		return fmt.Errorf("failed to seed default author: %w", err)
	}
	if created {
		s.log.Info().Int64("user_id", s.cfg.DefaultAuthorID).Msg("Default author created")
		return nil
	}

	// The insert is skipped on any conflict, including an admin row under another id.
	exists, err := s.repos.User.Exists(ctx, s.cfg.DefaultAuthorID)
	if err != nil {
		return fmt.Errorf("failed to check default author: %w", err)
	}
	if !exists {
		s.log.Error().
			Int64("user_id", s.cfg.DefaultAuthorID).
			Str("username", defaultAdminUsername).
			Msg("Default author could not be created")
		return fmt.Errorf("%w: default author %d is missing and %q or %q belongs to another user",
			ErrDefaultAuthorMissing, s.cfg.DefaultAuthorID, defaultAdminUsername, defaultAdminEmail)
	}
	return nil
}

func (s *seedService) seedCategory(ctx context.Context) error {
	existing, err := s.repos.Category.GetByName(ctx, models.DefaultCategoryName)
	if err != nil {
		return fmt.Errorf("failed to look up default category: %w", err)
	}
	if existing != nil {
		return nil
	}

	category := &models.Category{Name: models.DefaultCategoryName, Description: defaultCategoryDescription}
	if err := s.repos.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil
		}
		return fmt.Errorf("failed to seed default category: %w", err)
	}

	s.log.Info().Int64("category_id", category.ID).Msg("Default category created")
	return nil
}
