package export

import (
	"context"
	"fmt"
	"os"

	"github.com/chromedp/chromedp"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/pkg/errors"
)

// chromeRasterizer captures page elements with headless Chrome. The
// document is written to a temp file once and each page is screenshotted
// from the same browser session, at a moderate supersampling scale.
type chromeRasterizer struct {
	opts    chrome.Options
	session *chrome.Session
	tmpPath string
}

func newChromeRasterizer(opts chrome.Options) *chromeRasterizer {
	return &chromeRasterizer{opts: opts}
}

func (r *chromeRasterizer) Open(ctx context.Context, html string, pageCount int) error {
	tmp, err := os.CreateTemp("", "paperforge-export-*.html")
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "create temp file", err)
	}
	r.tmpPath = tmp.Name()
	if _, err := tmp.WriteString(html); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeExportFailed, "write temp file", err)
	}
	tmp.Close()

	session, err := chrome.NewSession(ctx, r.opts)
	if err != nil {
		return err
	}
	r.session = session

	// A4 at CSS resolution, supersampled for the downstream downsample
	err = chromedp.Run(session.Ctx,
		chromedp.EmulateViewport(794, 1123,
			chromedp.EmulateScale(consts.RasterScale)),
		chromedp.Navigate("file://"+r.tmpPath),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, "load export document", err)
	}
	return nil
}

func (r *chromeRasterizer) CapturePage(ctx context.Context, index int) ([]byte, error) {
	sel := fmt.Sprintf("body > div.page:nth-of-type(%d)", index+1)
	var shot []byte
	err := chromedp.Run(r.session.Ctx,
		chromedp.ScrollIntoView(sel, chromedp.ByQuery),
		chromedp.Screenshot(sel, &shot, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, err
	}
	return shot, nil
}

func (r *chromeRasterizer) Close() {
	if r.session != nil {
		r.session.Close()
	}
	if r.tmpPath != "" {
		os.Remove(r.tmpPath)
	}
}
