package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/mocks"
	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/dochub-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const defaultAuthorID int64 = 1

type fixture struct {
	mock     *mocks.MockRepositories
	repos    *repository.Repositories
	renderer *mocks.MockPDFRenderer
	services *service.Services
}

// newFixture wires real services over the in-memory repositories with the
// default author already present
func newFixture(t *testing.T) *fixture {
	t.Helper()
	renderer := mocks.NewMockPDFRenderer()
	f := newFixtureWithRenderer(t, renderer)
	f.renderer = renderer
	return f
}

func newFixtureWithRenderer(t *testing.T, renderer service.PDFRenderer) *fixture {
	t.Helper()

	mock := mocks.NewMockRepositories()
	start := time.Now().Add(-time.Hour)
	tick := 0
	mock.Store.Now = func() time.Time {
		tick++
		return start.Add(time.Duration(tick) * time.Second)
	}

	repos := mock.Repositories()
	_, err := repos.User.EnsureWithID(context.Background(), &models.User{
		ID:       defaultAuthorID,
		Username: "admin",
		Email:    "admin@dochub.com",
		Password: "hash",
	})
	require.NoError(t, err)

	cfg := &config.Config{
		Wiki: config.WikiConfig{DefaultAuthorID: defaultAuthorID, SeedAdminPassword: "admin123"},
		Upload: config.UploadConfig{
			Dir:         t.TempDir(),
			MaxFileSize: 1024,
			MaxFiles:    3,
			PublicPath:  "/uploads",
		},
	}

	return &fixture{
		mock:     mock,
		repos:    repos,
		services: service.NewServices(repos, &mocks.MockHealthChecker{}, renderer, cfg, zerolog.Nop()),
	}
}

func (f *fixture) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Password: "hash"}
	require.NoError(t, f.repos.User.Create(context.Background(), u))
	return u
}

func (f *fixture) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := f.services.Category.Create(context.Background(), &models.CategoryRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) createArticle(t *testing.T, title string, tags ...string) *models.Article {
	t.Helper()
	a, err := f.services.Article.Create(context.Background(), &models.CreateArticleRequest{
		Title:   title,
		Content: "content of " + title,
		Tags:    tags,
	})
	require.NoError(t, err)
	return a
}

func (f *fixture) versions(t *testing.T, articleID int64) []*models.ArticleVersion {
	t.Helper()
	versions, err := f.repos.Version.ListByArticle(context.Background(), articleID)
	require.NoError(t, err)
	return versions
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(s string) *string { return &s }
