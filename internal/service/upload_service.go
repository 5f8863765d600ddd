package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/dochub-api/internal/config"
	"github.com/dochub-api/internal/models"
	"github.com/dochub-api/internal/telemetry"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// allowedImageTypes maps accepted extensions to their detected MIME type
var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

const maxBaseNameLength = 100

type uploadService struct {
	cfg config.UploadConfig
	now func() time.Time
	log zerolog.Logger
}

func newUploadService(cfg config.UploadConfig, log zerolog.Logger) *uploadService {
	return &uploadService{
		cfg: cfg,
		now: time.Now,
		log: log.With().Str("service", "upload").Logger(),
	}
}

// NewUploadService creates an upload service storing files under cfg.Dir
func NewUploadService(cfg config.UploadConfig, log zerolog.Logger) UploadService {
	return newUploadService(cfg, log)
}

func (s *uploadService) Dir() string {
	return s.cfg.Dir
}

// SaveImage validates and stores a single image
func (s *uploadService) SaveImage(ctx context.Context, file *multipart.FileHeader) (*models.UploadedFile, error) {
	if file == nil {
		return nil, invalid("image", "no file uploaded")
	}
	mimeType, err := s.check("image", file)
	if err != nil {
		return nil, err
	}
	return s.store(file, mimeType)
}

// SaveImages stores a batch of images. Every file is checked before any is
// written; a failed write removes the files already stored.
func (s *uploadService) SaveImages(ctx context.Context, files []*multipart.FileHeader) ([]*models.UploadedFile, error) {
	if len(files) == 0 {
		return nil, invalid("images", "no files uploaded")
	}
	if len(files) > s.cfg.MaxFiles {
		return nil, invalid("images", fmt.Sprintf("at most %d files can be uploaded at once", s.cfg.MaxFiles))
	}

	mimeTypes := make([]string, len(files))
	for i, fh := range files {
		mimeType, err := s.check("images", fh)
		if err != nil {
			return nil, err
		}
		mimeTypes[i] = mimeType
	}

	saved := make([]*models.UploadedFile, 0, len(files))
	for i, fh := range files {
		if err := ctx.Err(); err != nil {
			s.cleanup(saved)
			return nil, err
		}
		uploaded, err := s.store(fh, mimeTypes[i])
		if err != nil {
			s.cleanup(saved)
			return nil, err
		}
		saved = append(saved, uploaded)
	}
	return saved, nil
}

// DeleteImage removes a stored image by its generated name
func (s *uploadService) DeleteImage(ctx context.Context, filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return invalid("filename", "invalid filename")
	}

	err := os.Remove(filepath.Join(s.cfg.Dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return notFound("File")
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	s.log.Info().Str("filename", filename).Msg("Image deleted")
	return nil
}

// check enforces the size limit and that both the extension and the sniffed
// content are an allowed image type
func (s *uploadService) check(field string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.cfg.MaxFileSize {
		return "", invalid(field, fmt.Sprintf("%s exceeds the maximum size of %d bytes", fh.Filename, s.cfg.MaxFileSize))
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	want, ok := allowedImageTypes[ext]
	if !ok {
		return "", invalid(field, "only image files (jpeg, jpg, png, gif, webp) are allowed")
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	if !detected.Is(want) {
		return "", invalid(field, fmt.Sprintf("%s content does not match its extension", fh.Filename))
	}
	return want, nil
}

func (s *uploadService) store(fh *multipart.FileHeader, mimeType string) (*models.UploadedFile, error) {
	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name, dst, err := s.create(fh.Filename)
	if err != nil {
		return nil, err
	}

	written, err := io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(filepath.Join(s.cfg.Dir, name))
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	telemetry.UploadedBytes.Observe(float64(written))
	s.log.Info().Str("filename", name).Str("original_name", fh.Filename).Int64("size", written).Msg("Image stored")

	return &models.UploadedFile{
		Filename:     name,
		OriginalName: fh.Filename,
		Size:         written,
		MimeType:     mimeType,
		URL:          path.Join(s.cfg.PublicPath, name),
	}, nil
}

// create opens a new file named <unix millis>_<base><ext>. A random suffix
// is added when two uploads collide.
func (s *uploadService) create(original string) (string, *os.File, error) {
	ext := strings.ToLower(filepath.Ext(original))
	base := safeBaseName(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))
	name := fmt.Sprintf("%d_%s%s", s.now().UnixMilli(), base, ext)

	for attempt := 0; attempt < 3; attempt++ {
		f, err := os.OpenFile(filepath.Join(s.cfg.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return name, f, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", nil, fmt.Errorf("failed to create file: %w", err)
		}
		name = fmt.Sprintf("%d_%s_%s%s", s.now().UnixMilli(), base, uuid.NewString()[:8], ext)
	}
	return "", nil, errors.New("failed to allocate a unique filename")
}

func (s *uploadService) cleanup(files []*models.UploadedFile) {
	for _, f := range files {
		if err := os.Remove(filepath.Join(s.cfg.Dir, f.Filename)); err != nil {
			s.log.Warn().Err(err).Str("filename", f.Filename).Msg("Failed to remove partial upload")
		}
	}
}

func safeBaseName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			return r
		case unicode.IsSpace(r), r == '.':
			return '_'
		}
		return -1
	}, name)
	if r := []rune(name); len(r) > maxBaseNameLength {
		name = string(r[:maxBaseNameLength])
	}
	if name == "" {
		name = "image"
	}
	return name
}
