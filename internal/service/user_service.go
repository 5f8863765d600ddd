package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost matches the work factor existing hashes were created with
const passwordCost = 10

type userService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

func newUserService(repos *repository.Repositories, log zerolog.Logger) *userService {
	return &userService{
		repos: repos,
		log:   log.With().Str("service", "user").Logger(),
	}
}

// NewUserService creates a user service
func NewUserService(repos *repository.Repositories, log zerolog.Logger) UserService {
	return newUserService(repos, log)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *userService) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	username := strings.TrimSpace(req.Username)
	if len([]rune(username)) < 3 {
		return nil, invalid("username", "username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		return nil, invalid("password", "password must be at least 6 characters")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hash,
	}
	if err := s.repos.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("username or email already exists")
		}
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("User created")
	user.Password = ""
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.repos.User.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repos.User.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User")
	}
	user.Password = ""
	return user, nil
}
