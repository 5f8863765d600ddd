package pdf

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrTimeout is returned when the browser does not finish within the deadline
var ErrTimeout = errors.New("pdf render timed out")

// Printer turns an HTML page into PDF bytes
type Printer interface {
	PrintPDF(ctx context.Context, html string) ([]byte, error)
}

// A4 with 20mm margins, in inches
const (
	paperWidth  = 8.27
	paperHeight = 11.69
	marginInch  = 0.79
)

// ChromePrinter prints through headless Chrome. Each call gets its own
// browser tab bounded by the configured timeout.
type ChromePrinter struct {
	remoteURL string
	timeout   time.Duration
}

// NewChromePrinter creates a printer. An empty remoteURL launches a local
// Chrome per request; otherwise the DevTools endpoint at remoteURL is used.
func NewChromePrinter(remoteURL string, timeout time.Duration) *ChromePrinter {
	return &ChromePrinter{remoteURL: remoteURL, timeout: timeout}
}

func (p *ChromePrinter) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.remoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, p.remoteURL)
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	return chromedp.NewExecAllocator(ctx, opts...)
}

func (p *ChromePrinter) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	allocCtx, cancelAlloc := p.allocator(ctx)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(marginInch).
				WithMarginBottom(marginInch).
				WithMarginLeft(marginInch).
				WithMarginRight(marginInch).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("chrome print failed: %w", err)
	}
	return buf, nil
}
