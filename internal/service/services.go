package service

import (
	"context"
	"database/sql"
	"mime/multipart"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/pdf"
	"github.com/dochub-api/internal/repository"
	"github.com/rs/zerolog"
)

// ArticleService defines article lifecycle, history and reporting operations
type ArticleService interface {
	Create(ctx context.Context, req *models.CreateArticleRequest) (*models.Article, error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	List(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	Update(ctx context.Context, id int64, req *models.UpdateArticleRequest) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
	ToggleFavorite(ctx context.Context, id int64) (*models.Article, error)
	Statistics(ctx context.Context) (*models.Statistics, error)
	ListVersions(ctx context.Context, id int64) ([]*models.ArticleVersion, error)
	GetVersion(ctx context.Context, id int64, versionNumber int) (*models.ArticleVersion, error)
	RestoreVersion(ctx context.Context, id int64, versionNumber int) (*models.Article, error)
	RenderPDF(ctx context.Context, id int64) (*PDFExport, error)
}

// CommentService defines comment operations
type CommentService interface {
	ListByArticle(ctx context.Context, articleID int64) ([]*models.Comment, error)
	Create(ctx context.Context, articleID int64, req *models.CreateCommentRequest) (*models.Comment, error)
	Get(ctx context.Context, id int64) (*models.Comment, error)
	Update(ctx context.Context, id int64, req *models.UpdateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryService defines category operations
type CategoryService interface {
	Create(ctx context.Context, req *models.CategoryRequest) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Update(ctx context.Context, id int64, req *models.CategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// TagService defines tag operations
type TagService interface {
	Create(ctx context.Context, req *models.TagRequest) (*models.Tag, error)
	List(ctx context.Context) ([]*models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
	Update(ctx context.Context, id int64, req *models.TagRequest) (*models.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// ArticleTagService defines operations on individual article/tag links
type ArticleTagService interface {
	Link(ctx context.Context, req *models.ArticleTagRequest) (*models.ArticleTag, error)
	Unlink(ctx context.Context, req *models.ArticleTagRequest) error
	List(ctx context.Context, filter models.ArticleTagFilter) ([]*models.ArticleTag, error)
	Get(ctx context.Context, id int64) (*models.ArticleTag, error)
}

// UserService defines user operations
type UserService interface {
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
}

// UploadService defines image storage operations
type UploadService interface {
	SaveImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadedFile, error)
	SaveImages(ctx context.Context, files []*multipart.FileHeader) ([]*models.UploadedFile, error)
	DeleteImage(ctx context.Context, filename string) error
	Dir() string
}

// Seeder creates the default author and category
type Seeder interface {
	SeedDefaults(ctx context.Context) error
}

// HealthChecker reports whether the store is reachable and how its pool is used
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
	Stats() sql.DBStats
}

// PDFRenderer renders a document to PDF
type PDFRenderer interface {
	Render(ctx context.Context, doc pdf.Document) ([]byte, error)
}

// Services holds all service interfaces
type Services struct {
	Article    ArticleService
	Comment    CommentService
	Category   CategoryService
	Tag        TagService
	ArticleTag ArticleTagService
	User       UserService
	Upload     UploadService
	Seeder     Seeder
	Health     HealthChecker
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, health HealthChecker, renderer PDFRenderer, cfg *config.Config, log zerolog.Logger) *Services {
	versions := NewVersionManager(cfg.Wiki.DefaultAuthorID, log)

	return &Services{
		Article:    newArticleService(repos, versions, renderer, cfg.Wiki.DefaultAuthorID, log),
		Comment:    newCommentService(repos, log),
		Category:   newCategoryService(repos, log),
		Tag:        newTagService(repos, log),
		ArticleTag: newArticleTagService(repos, log),
		User:       newUserService(repos, log),
		Upload:     newUploadService(cfg.Upload, log),
		Seeder:     newSeedService(repos, cfg.Wiki, log),
		Health:     health,
	}
}
