package pdf

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dochub-api/internal/telemetry"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

// Renderer produces PDFs and caches them by the content of the printed page
type Renderer struct {
	printer Printer
	cache   *lru.Cache[string, []byte]
	log     zerolog.Logger
}

// NewRenderer creates a renderer with an LRU cache of cacheSize entries
func NewRenderer(printer Printer, cacheSize int, log zerolog.Logger) (*Renderer, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, []byte](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create pdf cache: %w", err)
	}
	return &Renderer{
		printer: printer,
		cache:   cache,
		log:     log.With().Str("component", "pdf").Logger(),
	}, nil
}

// Render returns the PDF for doc
func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	html, err := RenderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render html: %w", err)
	}

	sum := sha256.Sum256([]byte(html))
	key := hex.EncodeToString(sum[:])
	if data, ok := r.cache.Get(key); ok {
		telemetry.PDFCacheHits.Inc()
		return data, nil
	}

	start := time.Now()
	data, err := r.printer.PrintPDF(ctx, html)
	elapsed := time.Since(start)
	if err != nil {
		telemetry.RecordPDFRender("error", elapsed.Seconds())
		r.log.Error().Err(err).Str("key", key).Dur("duration", elapsed).Msg("PDF render failed")
		return nil, err
	}
	telemetry.RecordPDFRender("ok", elapsed.Seconds())

	r.cache.Add(key, data)
	r.log.Debug().Str("key", key).Int("bytes", len(data)).Dur("duration", elapsed).Msg("PDF rendered")
	return data, nil
}
