// Package render fetches the outage page through headless Chromium, so
// the schedule markup the client-side app builds is present before
// parsing starts.
package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	// DefaultLaunchTimeout bounds a whole fetch, browser start included.
	DefaultLaunchTimeout = 3 * time.Minute

	// settleDelay gives the page's scripts time to finish populating the
	// schedule sections after the document is ready.
	settleDelay = 3 * time.Second

	// minDocumentSize guards against a browser that "succeeded" but
	// returned a blank document.
	minDocumentSize = 50
)

// Options configure a rendered-page fetch.
type Options struct {
	// ChromiumPath points at a specific Chromium binary. Empty lets
	// chromedp discover an installed browser itself.
	ChromiumPath string

	// LaunchTimeout bounds the entire fetch. Zero means
	// DefaultLaunchTimeout.
	LaunchTimeout time.Duration
}

// Renderer fetches fully rendered page markup.
type Renderer struct {
	opts Options
	log  *zap.Logger
}

// New returns a renderer with the given options.
func New(opts Options, log *zap.Logger) *Renderer {
	if opts.LaunchTimeout <= 0 {
		opts.LaunchTimeout = DefaultLaunchTimeout
	}
	return &Renderer{opts: opts, log: log}
}

// FetchHTML navigates headless Chromium to url, waits for the page to
// settle, and returns the rendered document markup.
//
// When the configured Chromium binary fails, the fetch is retried once
// without it so chromedp can fall back to its own browser discovery.
func (r *Renderer) FetchHTML(ctx context.Context, url string) (string, error) {
	markup, err := r.fetch(ctx, url, r.opts.ChromiumPath)
	if err != nil && r.opts.ChromiumPath != "" && ctx.Err() == nil {
		r.log.Warn("fetch with configured chromium binary failed, retrying with default discovery",
			zap.String("chromium_path", r.opts.ChromiumPath),
			zap.Error(err))
		markup, err = r.fetch(ctx, url, "")
	}
	if err != nil {
		return "", err
	}

	if len(strings.TrimSpace(markup)) < minDocumentSize {
		return "", fmt.Errorf("rendered page from %s is empty", url)
	}
	return markup, nil
}

func (r *Renderer) fetch(ctx context.Context, url, chromiumPath string) (string, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("no-zygote", true),
	)
	if chromiumPath != "" {
		opts = append(opts, chromedp.ExecPath(chromiumPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, r.opts.LaunchTimeout)
	defer cancelRun()

	r.log.Debug("rendering page", zap.String("url", url), zap.String("chromium_path", chromiumPath))

	var markup string
	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Extra delay so the schedule widget's own requests finish.
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	}
	if err := chromedp.Run(runCtx, tasks); err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return markup, nil
}
