//go:build integration

// Run with a disposable PostgreSQL reachable through the DB_* variables:
//
//	DOCHUB_INTEGRATION=1 go test -tags integration ./internal/repository/...
package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/database"
	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/repository"
	"github.com/dochub-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const integrationAuthorID int64 = 1

func openTestDB(t *testing.T) *repository.Repositories {
	t.Helper()
	if os.Getenv("DOCHUB_INTEGRATION") == "" {
		t.Skip("DOCHUB_INTEGRATION not set")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	db, err := database.New(ctx, &cfg.Database, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations("../../migrations"))
	_, err = db.ExecContext(ctx, `TRUNCATE comments, article_versions, article_tags, tags, articles, categories, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	repos := repository.New(db)
	seeder := service.NewSeeder(repos, config.WikiConfig{DefaultAuthorID: integrationAuthorID, SeedAdminPassword: "admin123"}, zerolog.Nop())
	require.NoError(t, seeder.SeedDefaults(ctx))
	return repos
}

func TestPostgres_ConcurrentUpdatesKeepVersionsContiguous(t *testing.T) {
	repos := openTestDB(t)
	articles := service.NewArticleService(repos, nil, integrationAuthorID, zerolog.Nop())
	ctx := context.Background()

	article, err := articles.Create(ctx, &models.CreateArticleRequest{Title: "v0", Content: "c"})
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			title := fmt.Sprintf("v%d", i+1)
			if _, err := articles.Update(ctx, article.ID, &models.UpdateArticleRequest{Title: &title}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	versions, err := articles.ListVersions(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, versions, writers+1)
	for i, v := range versions {
		assert.Equal(t, writers+1-i, v.VersionNumber)
	}
}

func TestPostgres_TagsAreDerivedFromTheJoin(t *testing.T) {
	repos := openTestDB(t)
	articles := service.NewArticleService(repos, nil, integrationAuthorID, zerolog.Nop())
	ctx := context.Background()

	article, err := articles.Create(ctx, &models.CreateArticleRequest{
		Title: "t", Content: "c", Tags: []string{"zeta", "alpha", "zeta"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, article.Tags)

	tagID, err := repos.Tag.UpsertByName(ctx, "mid")
	require.NoError(t, err)
	require.NoError(t, repos.ArticleTag.Create(ctx, &models.ArticleTag{ArticleID: article.ID, TagID: tagID}))

	current, err := repos.Article.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, current.Tags)
	require.NotNil(t, current.User)
	assert.Equal(t, "admin", current.User.Username)

	v1, err := repos.Version.GetByNumber(ctx, article.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, v1)
	assert.Equal(t, []string{"alpha", "zeta"}, v1.Tags, "versions keep their snapshot")
}

func TestPostgres_TranslatesConstraintErrors(t *testing.T) {
	repos := openTestDB(t)
	ctx := context.Background()

	err := repos.Category.Create(ctx, &models.Category{Name: models.DefaultCategoryName})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	missing := int64(9999)
	err = repos.Article.Create(ctx, &models.Article{Title: "t", Content: "c", AuthorID: integrationAuthorID, CategoryID: &missing})
	assert.ErrorIs(t, err, repository.ErrForeignKey)

	got, err := repos.Article.GetByID(ctx, missing)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostgres_RollbackLeavesNoVersion(t *testing.T) {
	repos := openTestDB(t)
	articles := service.NewArticleService(repos, nil, integrationAuthorID, zerolog.Nop())
	ctx := context.Background()

	article, err := articles.Create(ctx, &models.CreateArticleRequest{Title: "t", Content: "c"})
	require.NoError(t, err)

	boom := fmt.Errorf("abort")
	err = repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		locked, err := tx.Article.GetForUpdate(ctx, article.ID)
		if err != nil {
			return err
		}
		if err := tx.Version.Create(ctx, &models.ArticleVersion{
			ArticleID: locked.ID, Title: locked.Title, Content: locked.Content,
			Tags: locked.Tags, Links: locked.Links, UserID: locked.AuthorID,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	versions, err := repos.Version.ListByArticle(ctx, article.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}
