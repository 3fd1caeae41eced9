// Package chrome manages headless Chrome sessions shared by the height
// measurer and the page rasterizer.
package chrome

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
)

// Options configures a headless session.
type Options struct {
	// ExecPath overrides the Chrome binary; empty uses chromedp's lookup
	// or the CHROME_PATH environment variable.
	ExecPath string
	// Timeout bounds the whole session.
	Timeout time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{Timeout: 120 * time.Second}
}

// Session is one live headless browser context.
type Session struct {
	Ctx     context.Context
	cancels []context.CancelFunc
}

// NewSession starts a headless Chrome browser. The caller must Close it.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-software-rasterizer", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("headless", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WSURLReadTimeout(60*time.Second),
	)
	if path := execPath(opts); path != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(path))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
	)

	// start the browser eagerly so a missing binary fails here, not on
	// the first real action
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		timeoutCancel()
		return nil, errors.Wrap(errors.ErrCodeChromeMissing, "start headless chrome", err)
	}

	return &Session{
		Ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel, timeoutCancel},
	}, nil
}

// Close tears the browser down.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Detect reports the Chrome binary that would be used, or an empty
// string when none is found. Used by the environment check command.
func Detect(configured string) string {
	if path := execPath(Options{ExecPath: configured}); path != "" {
		return path
	}
	for _, name := range []string{
		"google-chrome", "google-chrome-stable", "chromium", "chromium-browser",
		"headless-shell", "chrome",
	} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func execPath(opts Options) string {
	if opts.ExecPath != "" {
		return opts.ExecPath
	}
	return os.Getenv("CHROME_PATH")
}
