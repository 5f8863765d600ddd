package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/pdf"
	"github.com/dochub-api/internal/service"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleService_CreateRecordsFirstVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.createCategory(t, "개발")

	article, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
		Title:      "  Go 메모 ",
		Content:    "# 제목",
		Tags:       []string{"go", " backend ", "go", ""},
		Links:      []models.Link{{Title: "Go", URL: "https://go.dev"}},
		CategoryID: int64Ptr(category.ID),
	})
	require.NoError(t, err)

	assert.Equal(t, "Go 메모", article.Title)
	assert.Equal(t, []string{"backend", "go"}, article.Tags)
	assert.Equal(t, defaultAuthorID, article.AuthorID)
	require.NotNil(t, article.Category)
	assert.Equal(t, "개발", article.Category.Name)
	require.NotNil(t, article.User)
	assert.Equal(t, "admin", article.User.Username)

	versions := f.versions(t, article.ID)
	require.Len(t, versions, 1)
	v1 := versions[0]
	assert.Equal(t, 1, v1.VersionNumber)
	assert.Equal(t, article.Title, v1.Title)
	assert.Equal(t, article.Content, v1.Content)
	assert.Equal(t, article.Tags, v1.Tags)
	assert.Equal(t, article.Links, v1.Links)
	assert.Equal(t, category.ID, *v1.CategoryID)
	assert.Equal(t, defaultAuthorID, v1.UserID)
}

func TestArticleService_CreateNormalizesReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.createUser(t, "writer")

	tests := []struct {
		name         string
		authorID     *int64
		categoryID   *int64
		wantAuthor   int64
		wantCategory bool
	}{
		{name: "no author uses default", wantAuthor: defaultAuthorID},
		{name: "existing author kept", authorID: int64Ptr(author.ID), wantAuthor: author.ID},
		{name: "unknown author falls back to default", authorID: int64Ptr(999), wantAuthor: defaultAuthorID},
		{name: "unknown category dropped", categoryID: int64Ptr(777), wantAuthor: defaultAuthorID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			article, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
				Title:      tt.name,
				Content:    "body",
				AuthorID:   tt.authorID,
				CategoryID: tt.categoryID,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantAuthor, article.AuthorID)
			assert.Equal(t, tt.wantCategory, article.CategoryID != nil)
		})
	}
}

func TestArticleService_CreateValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Article.Create(context.Background(), &models.CreateArticleRequest{Title: "  ", Content: "body"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = f.services.Article.Create(context.Background(), &models.CreateArticleRequest{
		Title:   "t",
		Content: "c",
		Tags:    []string{strings.Repeat("가", 51)},
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestArticleService_CreateRollsBackWhenVersionFails(t *testing.T) {
	f := newFixture(t)
	f.mock.Version.InsertError = errors.New("disk full")

	_, err := f.services.Article.Create(context.Background(), &models.CreateArticleRequest{
		Title:   "doomed",
		Content: "body",
		Tags:    []string{"orphan"},
	})
	require.Error(t, err)

	count, err := f.repos.Article.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	tags, err := f.repos.Tag.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestArticleService_UpdateSnapshotsPreviousState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	article := f.createArticle(t, "A", "one")

	tags := []string{"two"}
	updated, err := f.services.Article.Update(ctx, article.ID, &models.UpdateArticleRequest{
		Title: strPtr("B"),
		Tags:  &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Title)
	assert.Equal(t, article.Content, updated.Content)
	assert.Equal(t, []string{"two"}, updated.Tags)

	versions := f.versions(t, article.ID)
	require.Len(t, versions, 2)
	assert.Equal(t, 2, versions[0].VersionNumber)
	assert.Equal(t, "A", versions[0].Title)
	assert.Equal(t, []string{"one"}, versions[0].Tags)
}

func TestArticleService_UpdateCategoryTriState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.createCategory(t, "설계")

	article, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
		Title: "t", Content: "c", CategoryID: int64Ptr(category.ID),
	})
	require.NoError(t, err)

	var absent models.UpdateArticleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"t2"}`), &absent))
	updated, err := f.services.Article.Update(ctx, article.ID, &absent)
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID, "absent categoryId must leave the category alone")

	var unknown models.UpdateArticleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"categoryId":4242}`), &unknown))
	updated, err = f.services.Article.Update(ctx, article.ID, &unknown)
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)

	var set models.UpdateArticleRequest
	require.NoError(t, json.Unmarshal([]byte(fmt.Sprintf(`{"categoryId":%d}`, category.ID)), &set))
	updated, err = f.services.Article.Update(ctx, article.ID, &set)
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)

	var cleared models.UpdateArticleRequest
	require.NoError(t, json.Unmarshal([]byte(`{"categoryId":null}`), &cleared))
	updated, err = f.services.Article.Update(ctx, article.ID, &cleared)
	require.NoError(t, err)
	assert.Nil(t, updated.CategoryID)
	assert.Nil(t, updated.Category)
}

func TestArticleService_UpdateMissingLeavesNoVersion(t *testing.T) {
	f := newFixture(t)

	_, err := f.services.Article.Update(context.Background(), 404, &models.UpdateArticleRequest{Title: strPtr("x")})
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, f.versions(t, 404))
}

func TestArticleService_UpdateRollsBackSnapshotOnFailure(t *testing.T) {
	f := newFixture(t)
	article := f.createArticle(t, "A")
	f.mock.Article.UpdateError = errors.New("connection reset")

	_, err := f.services.Article.Update(context.Background(), article.ID, &models.UpdateArticleRequest{Title: strPtr("B")})
	require.Error(t, err)
	assert.Len(t, f.versions(t, article.ID), 1)
}

func TestArticleService_ConcurrentUpdatesGetContiguousVersions(t *testing.T) {
	f := newFixture(t)
	article := f.createArticle(t, "start")

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.services.Article.Update(context.Background(), article.ID, &models.UpdateArticleRequest{
				Title: strPtr(fmt.Sprintf("edit %d", i)),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	versions := f.versions(t, article.ID)
	require.Len(t, versions, writers+1)
	for i, v := range versions {
		assert.Equal(t, writers+1-i, v.VersionNumber)
	}
}

func TestArticleService_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	article := f.createArticle(t, "gone", "tmp")
	_, err := f.services.Comment.Create(ctx, article.ID, &models.CreateCommentRequest{Content: "hi", AuthorName: "kim"})
	require.NoError(t, err)

	require.NoError(t, f.services.Article.Delete(ctx, article.ID))

	_, err = f.services.Article.Get(ctx, article.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.Empty(t, f.versions(t, article.ID))
	links, err := f.services.ArticleTag.List(ctx, models.ArticleTagFilter{ArticleID: int64Ptr(article.ID)})
	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Empty(t, f.mock.Store.Comments)

	assert.ErrorIs(t, f.services.Article.Delete(ctx, article.ID), service.ErrNotFound)
}

func TestArticleService_ToggleFavoriteDoesNotVersion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	article := f.createArticle(t, "fav")

	toggled, err := f.services.Article.ToggleFavorite(ctx, article.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsFavorite)
	assert.True(t, toggled.UpdatedAt.After(article.UpdatedAt))

	toggled, err = f.services.Article.ToggleFavorite(ctx, article.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsFavorite)

	assert.Len(t, f.versions(t, article.ID), 1)

	_, err = f.services.Article.ToggleFavorite(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestArticleService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.createCategory(t, "운영")

	first := f.createArticle(t, "Deploy checklist", "ops")
	_, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
		Title: "Rollback", Content: "how to roll BACK", CategoryID: int64Ptr(category.ID), IsFavorite: true,
	})
	require.NoError(t, err)
	f.createArticle(t, "Lunch menu")

	all, err := f.services.Article.List(ctx, models.ArticleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Lunch menu", all[0].Title, "newest first")

	byTag, err := f.services.Article.List(ctx, models.ArticleFilter{Tag: " ops "})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, first.ID, byTag[0].ID)

	fav := true
	favorites, err := f.services.Article.List(ctx, models.ArticleFilter{Favorite: &fav})
	require.NoError(t, err)
	require.Len(t, favorites, 1)

	inCategory, err := f.services.Article.List(ctx, models.ArticleFilter{CategoryID: int64Ptr(category.ID)})
	require.NoError(t, err)
	require.Len(t, inCategory, 1)

	search, err := f.services.Article.List(ctx, models.ArticleFilter{Query: "back"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Rollback", search[0].Title)
}

func TestArticleService_Statistics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.createCategory(t, "개발")

	for i := 0; i < 3; i++ {
		_, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
			Title: fmt.Sprintf("dev %d", i), Content: "c", CategoryID: int64Ptr(category.ID), IsFavorite: i == 0,
		})
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		f.createArticle(t, fmt.Sprintf("misc %d", i))
	}

	// Age one article past the recent window.
	old := f.mock.Store.Articles[1]
	aged := *old
	aged.CreatedAt = time.Now().Add(-models.RecentWindow - time.Hour)
	f.mock.Store.Articles[1] = &aged

	stats, err := f.services.Article.Statistics(ctx)
	require.NoError(t, err)

	assert.Equal(t, 7, stats.TotalArticles)
	assert.Equal(t, 1, stats.FavoriteArticles)
	assert.Equal(t, 6, stats.RecentArticles)
	assert.Equal(t, []models.CategoryCount{
		{CategoryName: models.UncategorizedLabel, Count: 4},
		{CategoryName: "개발", Count: 3},
	}, stats.ArticlesByCategory)
	require.Len(t, stats.LatestArticles, models.LatestArticlesLimit)
	assert.Equal(t, "misc 3", stats.LatestArticles[0].Title)
	assert.Nil(t, stats.LatestArticles[0].Category)
}

func TestArticleService_RenderPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	category := f.createCategory(t, "문서")
	article, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
		Title: "회의록", Content: "**중요**", Tags: []string{"meeting"}, CategoryID: int64Ptr(category.ID),
	})
	require.NoError(t, err)

	export, err := f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, "회의록.pdf", export.Filename)
	assert.Equal(t, f.renderer.Data, export.Data)

	require.Len(t, f.renderer.Docs, 1)
	doc := f.renderer.Docs[0]
	assert.Equal(t, "admin", doc.Author)
	assert.Equal(t, "문서", doc.Category)
	assert.Equal(t, []string{"meeting"}, doc.Tags)

	_, err = f.services.Article.Update(ctx, article.ID, &models.UpdateArticleRequest{Content: strPtr("changed")})
	require.NoError(t, err)
	_, err = f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	require.Len(t, f.renderer.Docs, 2)
	assert.Equal(t, "changed", f.renderer.Docs[1].Content)

	_, err = f.services.Article.RenderPDF(ctx, 999)
	assert.ErrorIs(t, err, service.ErrNotFound)

	f.renderer.Err = pdf.ErrTimeout
	_, err = f.services.Article.RenderPDF(ctx, article.ID)
	assert.ErrorIs(t, err, pdf.ErrTimeout)
}

// htmlPrinter returns the page it was asked to print
type htmlPrinter struct {
	calls int
}

func (p *htmlPrinter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	p.calls++
	return []byte(html), nil
}

func TestArticleService_RenderPDFReflectsRelatedChanges(t *testing.T) {
	printer := &htmlPrinter{}
	renderer, err := pdf.NewRenderer(printer, 8, zerolog.Nop())
	require.NoError(t, err)
	f := newFixtureWithRenderer(t, renderer)
	ctx := context.Background()

	category := f.createCategory(t, "초안")
	article, err := f.services.Article.Create(ctx, &models.CreateArticleRequest{
		Title: "문서", Content: "본문", Tags: []string{"alpha"}, CategoryID: int64Ptr(category.ID),
	})
	require.NoError(t, err)

	export, err := f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, string(export.Data), `<span class="tag">alpha</span>`)

	export, err = f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, printer.calls, "unchanged article is served from cache")

	beta, err := f.services.Tag.Create(ctx, &models.TagRequest{Name: "beta"})
	require.NoError(t, err)
	_, err = f.services.ArticleTag.Link(ctx, &models.ArticleTagRequest{ArticleID: article.ID, TagID: beta.ID})
	require.NoError(t, err)

	export, err = f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, string(export.Data), `<span class="tag">beta</span>`)

	_, err = f.services.Tag.Update(ctx, beta.ID, &models.TagRequest{Name: "gamma"})
	require.NoError(t, err)
	export, err = f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, string(export.Data), `<span class="tag">gamma</span>`)
	assert.NotContains(t, string(export.Data), `<span class="tag">beta</span>`)

	_, err = f.services.Category.Update(ctx, category.ID, &models.CategoryRequest{Name: "확정"})
	require.NoError(t, err)
	export, err = f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, string(export.Data), "카테고리: 확정")

	require.NoError(t, f.services.Category.Delete(ctx, category.ID))
	export, err = f.services.Article.RenderPDF(ctx, article.ID)
	require.NoError(t, err)
	assert.Contains(t, string(export.Data), "카테고리: 미분류")
	assert.Equal(t, 5, printer.calls)
}
