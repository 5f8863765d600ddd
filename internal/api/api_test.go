package api_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dochub-api/internal/api"
	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/mocks"
	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/pdf"
	"github.com/dochub-api/internal/service"
	"github.com/dochub-api/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type testEnv struct {
	router   *gin.Engine
	mock     *mocks.MockRepositories
	renderer *mocks.MockPDFRenderer
	health   *mocks.MockHealthChecker
}

func setupTestRouter(t *testing.T, tweak ...func(*config.Config)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := validation.Register(); err != nil {
		t.Fatalf("Failed to register validators: %v", err)
	}

	mock := mocks.NewMockRepositories()
	repos := mock.Repositories()
	if _, err := repos.User.EnsureWithID(context.Background(), &models.User{
		ID: 1, Username: "admin", Email: "admin@dochub.com", Password: "hash",
	}); err != nil {
		t.Fatalf("Failed to seed admin: %v", err)
	}

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "3001", AllowedOrigins: "*"},
		Wiki:      config.WikiConfig{DefaultAuthorID: 1},
		Upload:    config.UploadConfig{Dir: t.TempDir(), MaxFileSize: 1 << 20, MaxFiles: 10, PublicPath: "/uploads"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
		Telemetry: config.TelemetryConfig{ServiceName: "dochub-api-test"},
	}
	for _, fn := range tweak {
		fn(cfg)
	}

	renderer := mocks.NewMockPDFRenderer()
	health := &mocks.MockHealthChecker{}
	log := zerolog.Nop()
	services := service.NewServices(repos, health, renderer, cfg, log)

	return &testEnv{
		router:   api.NewRouter(services, cfg, log),
		mock:     mock,
		renderer: renderer,
		health:   health,
	}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createArticle(t *testing.T, body map[string]interface{}) models.Article {
	t.Helper()
	w := e.do("POST", "/api/v1/articles", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var article models.Article
	if err := json.Unmarshal(w.Body.Bytes(), &article); err != nil {
		t.Fatalf("Failed to decode article: %v", err)
	}
	return article
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return response
}

func TestHealthEndpoint(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if response := decode(t, w); response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", response["status"])
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("Expected a request id header")
	}

	env.health.Pool = sql.DBStats{MaxOpenConnections: 25, OpenConnections: 3, InUse: 1, Idle: 2}
	w = env.do("GET", "/api/health", nil)
	pool, ok := decode(t, w)["pool"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected pool statistics, got %s", w.Body.String())
	}
	if pool["open"] != float64(3) || pool["inUse"] != float64(1) || pool["idle"] != float64(2) || pool["maxOpen"] != float64(25) {
		t.Errorf("Unexpected pool statistics: %v", pool)
	}

	env.health.Err = errors.New("connection refused")
	w = env.do("GET", "/api/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := setupTestRouter(t)
	env.do("GET", "/api/v1/articles", nil)

	w := env.do("GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "dochub_http_requests_total") {
		t.Error("Expected request counter in metrics output")
	}
}

func TestCreateArticle(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantField  string
	}{
		{
			name:       "valid article",
			body:       map[string]interface{}{"title": "Go", "content": "# Hello", "tags": []string{"go"}},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       map[string]interface{}{"content": "body"},
			wantStatus: http.StatusBadRequest,
			wantField:  "title",
		},
		{
			name:       "blank content",
			body:       map[string]interface{}{"title": "t", "content": "   "},
			wantStatus: http.StatusBadRequest,
			wantField:  "content",
		},
		{
			name:       "wrong type",
			body:       `{"title": 12, "content": "x"}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "title",
		},
		{
			name:       "malformed json",
			body:       `{"title": "t",`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/api/v1/articles", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantField == "" {
				return
			}
			response := decode(t, w)
			errs, ok := response["errors"].([]interface{})
			if !ok || len(errs) == 0 {
				t.Fatalf("Expected field errors, got %v", response)
			}
			if field := errs[0].(map[string]interface{})["field"]; field != tt.wantField {
				t.Errorf("Expected error on %q, got %v", tt.wantField, field)
			}
		})
	}
}

func TestArticleLifecycle(t *testing.T) {
	env := setupTestRouter(t)
	article := env.createArticle(t, map[string]interface{}{"title": "A", "content": "first", "authorId": 77})

	if article.AuthorID != 1 {
		t.Errorf("Expected unknown author to fall back to 1, got %d", article.AuthorID)
	}
	if article.User == nil || article.User.Username != "admin" {
		t.Errorf("Expected expanded User, got %+v", article.User)
	}

	path := fmt.Sprintf("/api/v1/articles/%d", article.ID)

	w := env.do("PUT", path, map[string]interface{}{"title": "B"})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do("GET", path+"/versions", nil)
	var versions []models.ArticleVersion
	json.Unmarshal(w.Body.Bytes(), &versions)
	if len(versions) != 2 || versions[0].VersionNumber != 2 || versions[0].Title != "A" {
		t.Fatalf("Unexpected versions: %+v", versions)
	}
	if !strings.Contains(w.Body.String(), `"version_number"`) {
		t.Error("Expected snake_case version fields")
	}

	w = env.do("GET", path+"/versions/1", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	w = env.do("POST", path+"/versions/1/restore", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["title"] != "A" {
		t.Errorf("Expected restored title A")
	}

	w = env.do("PATCH", path+"/favorite", nil)
	if w.Code != http.StatusOK || decode(t, w)["isFavorite"] != true {
		t.Errorf("Expected favorite toggle, got %d %s", w.Code, w.Body.String())
	}

	w = env.do("DELETE", path, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}

	w = env.do("GET", path, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if decode(t, w)["error"] != "Article not found" {
		t.Errorf("Unexpected error body: %s", w.Body.String())
	}
}

func TestLinksRequireURLOnCreateAndUpdate(t *testing.T) {
	env := setupTestRouter(t)
	article := env.createArticle(t, map[string]interface{}{"title": "t", "content": "c"})
	badLinks := []map[string]string{{"title": "no url"}}

	requests := []struct {
		method string
		path   string
		body   map[string]interface{}
	}{
		{"POST", "/api/v1/articles", map[string]interface{}{"title": "t", "content": "c", "links": badLinks}},
		{"PUT", fmt.Sprintf("/api/v1/articles/%d", article.ID), map[string]interface{}{"links": badLinks}},
	}

	for _, r := range requests {
		t.Run(r.method, func(t *testing.T) {
			w := env.do(r.method, r.path, r.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, got %d: %s", w.Code, w.Body.String())
			}
			errs, _ := decode(t, w)["errors"].([]interface{})
			if len(errs) != 1 || errs[0].(map[string]interface{})["field"] != "links[0].url" {
				t.Errorf("Expected links[0].url error, got %v", errs)
			}
		})
	}
}

func TestArticleNotFoundAndBadIDs(t *testing.T) {
	env := setupTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantStatus int
	}{
		{"get missing", "GET", "/api/v1/articles/42", nil, http.StatusNotFound},
		{"update missing", "PUT", "/api/v1/articles/42", map[string]interface{}{"title": "x"}, http.StatusNotFound},
		{"delete missing", "DELETE", "/api/v1/articles/42", nil, http.StatusNotFound},
		{"favorite missing", "PATCH", "/api/v1/articles/42/favorite", nil, http.StatusNotFound},
		{"versions of missing", "GET", "/api/v1/articles/42/versions", nil, http.StatusNotFound},
		{"restore missing", "POST", "/api/v1/articles/42/versions/1/restore", nil, http.StatusNotFound},
		{"non-numeric id", "GET", "/api/v1/articles/abc", nil, http.StatusBadRequest},
		{"non-numeric version", "GET", "/api/v1/articles/1/versions/latest", nil, http.StatusBadRequest},
		{"bad favorite filter", "GET", "/api/v1/articles?favorite=maybe", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(tt.method, tt.path, tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestStatisticsRoute(t *testing.T) {
	env := setupTestRouter(t)
	env.createArticle(t, map[string]interface{}{"title": "A", "content": "x", "isFavorite": true})

	w := env.do("GET", "/api/v1/articles/statistics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var stats models.Statistics
	json.Unmarshal(w.Body.Bytes(), &stats)
	if stats.TotalArticles != 1 || stats.FavoriteArticles != 1 || stats.RecentArticles != 1 {
		t.Errorf("Unexpected statistics: %+v", stats)
	}
	if len(stats.ArticlesByCategory) != 1 || stats.ArticlesByCategory[0].CategoryName != models.UncategorizedLabel {
		t.Errorf("Expected uncategorized bucket, got %+v", stats.ArticlesByCategory)
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	env := setupTestRouter(t)
	env.mock.Article.InsertError = errors.New("pq: relation does not exist")

	w := env.do("POST", "/api/v1/articles", map[string]interface{}{"title": "t", "content": "c"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "relation") {
		t.Errorf("Internal error leaked: %s", body)
	}
}

func TestExportPDF(t *testing.T) {
	env := setupTestRouter(t)
	article := env.createArticle(t, map[string]interface{}{"title": "회의록 1", "content": "**bold**"})
	path := fmt.Sprintf("/api/v1/articles/%d/pdf", article.ID)

	w := env.do("GET", path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %s", ct)
	}
	disposition := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(disposition, "attachment;") || !strings.Contains(disposition, "filename*=UTF-8''") {
		t.Errorf("Unexpected Content-Disposition: %s", disposition)
	}
	if !bytes.Equal(w.Body.Bytes(), env.renderer.Data) {
		t.Error("Expected rendered bytes in body")
	}

	env.renderer.Err = pdf.ErrTimeout
	w = env.do("GET", path, nil)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("Expected status 504, got %d", w.Code)
	}

	w = env.do("GET", "/api/v1/articles/999/pdf", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestPDFRateLimit(t *testing.T) {
	env := setupTestRouter(t, func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.01, Burst: 1}
	})
	article := env.createArticle(t, map[string]interface{}{"title": "t", "content": "c"})
	path := fmt.Sprintf("/api/v1/articles/%d/pdf", article.ID)

	if w := env.do("GET", path, nil); w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	w := env.do("GET", path, nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
}

func TestComments(t *testing.T) {
	env := setupTestRouter(t)
	article := env.createArticle(t, map[string]interface{}{"title": "t", "content": "c"})
	base := fmt.Sprintf("/api/v1/comments/article/%d", article.ID)

	w := env.do("POST", base, map[string]interface{}{"content": "  first  ", "authorName": " kim ", "authorEmail": ""})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	comment := decode(t, w)
	if comment["content"] != "first" || comment["authorName"] != "kim" || comment["authorEmail"] != nil {
		t.Errorf("Unexpected comment: %v", comment)
	}
	commentPath := fmt.Sprintf("/api/v1/comments/%v", comment["id"])

	// Body validation runs before the article lookup.
	w = env.do("POST", "/api/v1/comments/article/999", map[string]interface{}{"content": "x", "authorName": "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	w = env.do("POST", "/api/v1/comments/article/999", map[string]interface{}{"content": "x", "authorName": "kim"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	w = env.do("GET", base, nil)
	var comments []models.Comment
	json.Unmarshal(w.Body.Bytes(), &comments)
	if len(comments) != 1 {
		t.Errorf("Expected 1 comment, got %d", len(comments))
	}

	w = env.do("PUT", commentPath, map[string]interface{}{"content": "edited"})
	if w.Code != http.StatusOK || decode(t, w)["content"] != "edited" {
		t.Errorf("Expected edited comment, got %d %s", w.Code, w.Body.String())
	}

	if w = env.do("DELETE", commentPath, nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w = env.do("GET", commentPath, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCategoriesAndTags(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/categories", map[string]interface{}{"name": "개발"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if w = env.do("POST", "/api/v1/categories", map[string]interface{}{"name": "개발"}); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if w = env.do("POST", "/api/v1/categories", map[string]interface{}{"name": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	w = env.do("POST", "/api/v1/tags", map[string]interface{}{"name": "go"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", w.Code)
	}
	tagID := decode(t, w)["id"]

	w = env.do("PUT", fmt.Sprintf("/api/v1/tags/%v", tagID), map[string]interface{}{"name": "golang"})
	if w.Code != http.StatusOK || decode(t, w)["name"] != "golang" {
		t.Errorf("Expected renamed tag, got %d %s", w.Code, w.Body.String())
	}
	if w = env.do("DELETE", fmt.Sprintf("/api/v1/tags/%v", tagID), nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w = env.do("GET", "/api/v1/tags/999", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestArticleTags(t *testing.T) {
	env := setupTestRouter(t)
	article := env.createArticle(t, map[string]interface{}{"title": "t", "content": "c"})
	w := env.do("POST", "/api/v1/tags", map[string]interface{}{"name": "manual"})
	tagID := int64(decode(t, w)["id"].(float64))

	link := map[string]interface{}{"articleId": article.ID, "tagId": tagID}
	if w = env.do("POST", "/api/v1/article-tags", link); w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if w = env.do("POST", "/api/v1/article-tags", link); w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}

	w = env.do("GET", fmt.Sprintf("/api/v1/article-tags?articleId=%d", article.ID), nil)
	var links []models.ArticleTag
	json.Unmarshal(w.Body.Bytes(), &links)
	if len(links) != 1 {
		t.Errorf("Expected 1 link, got %d", len(links))
	}

	if w = env.do("DELETE", "/api/v1/article-tags", link); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w = env.do("DELETE", "/api/v1/article-tags", link); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
	if w = env.do("GET", "/api/v1/article-tags?tagId=zero", nil); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestUsers(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do("POST", "/api/v1/users", map[string]interface{}{
		"username": "writer", "email": "writer@example.com", "password": "secret123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "password") {
		t.Errorf("Password leaked: %s", w.Body.String())
	}

	w = env.do("POST", "/api/v1/users", map[string]interface{}{
		"username": "writer", "email": "writer2@example.com", "password": "secret123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}

	w = env.do("POST", "/api/v1/users", map[string]interface{}{
		"username": "w", "email": "bad", "password": "1",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
	if errs := decode(t, w)["errors"].([]interface{}); len(errs) != 3 {
		t.Errorf("Expected 3 field errors, got %d", len(errs))
	}

	w = env.do("GET", "/api/v1/users", nil)
	if strings.Contains(w.Body.String(), "password") || strings.Contains(w.Body.String(), "hash") {
		t.Errorf("Password leaked in list: %s", w.Body.String())
	}
}

func multipartRequest(t *testing.T, path, field string, files map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(content)
	}
	w.Close()

	req := httptest.NewRequest("POST", path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploads(t *testing.T) {
	env := setupTestRouter(t)
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, "/api/v1/uploads/image", "image", map[string][]byte{"logo.png": png}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	response := decode(t, w)
	filename, _ := response["filename"].(string)
	if response["originalName"] != "logo.png" || response["url"] != "/uploads/"+filename {
		t.Errorf("Unexpected upload response: %v", response)
	}

	// Stored files are served statically.
	if w = env.do("GET", "/uploads/"+filename, nil); w.Code != http.StatusOK {
		t.Errorf("Expected static file, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, "/api/v1/uploads/images", "images", map[string][]byte{
		"a.png": png, "b.png": png,
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if files := decode(t, w)["files"].([]interface{}); len(files) != 2 {
		t.Errorf("Expected 2 files, got %d", len(files))
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, "/api/v1/uploads/image", "image", map[string][]byte{"x.txt": []byte("hi")}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, multipartRequest(t, "/api/v1/uploads/image", "other", map[string][]byte{"a.png": png}))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 without an image field, got %d", w.Code)
	}

	if w = env.do("DELETE", "/api/v1/uploads/image/"+filename, nil); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w = env.do("DELETE", "/api/v1/uploads/image/"+filename, nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	env := setupTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/articles", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Errorf("Expected PATCH to be allowed, got %s", w.Header().Get("Access-Control-Allow-Methods"))
	}
}
