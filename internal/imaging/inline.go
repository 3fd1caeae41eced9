package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/paperforge/paperforge/pkg/errors"

	_ "image/gif"
	_ "image/jpeg"
)

// maxImageBytes caps one fetched resource. Question figures are small;
// anything larger is almost certainly a misconfigured URL.
const maxImageBytes = 32 << 20

// inlineStrategy fetches and converts an image on the calling goroutine.
// SVG resources are embedded as-is; raster resources are decoded and
// re-encoded as PNG so the output is always a browser-safe data URI.
type inlineStrategy struct {
	client *http.Client
}

func newInlineStrategy() *inlineStrategy {
	return &inlineStrategy{client: &http.Client{Timeout: fetchTimeout}}
}

func (s *inlineStrategy) Name() string { return "inline" }

func (s *inlineStrategy) Resolve(ctx context.Context, rawURL string) (string, error) {
	if strings.HasSuffix(strings.ToLower(strippedPath(rawURL)), ".svg") {
		return s.resolveSVG(ctx, rawURL)
	}
	return s.resolveRaster(ctx, rawURL)
}

// resolveSVG embeds the raw SVG text without rasterizing it, keeping
// vector fidelity at print resolution.
func (s *inlineStrategy) resolveSVG(ctx context.Context, rawURL string) (string, error) {
	body, err := s.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	encoded := base64.StdEncoding.EncodeToString(body)
	return "data:image/svg+xml;base64," + encoded, nil
}

func (s *inlineStrategy) resolveRaster(ctx context.Context, rawURL string) (string, error) {
	body, err := s.fetch(ctx, cacheBusted(rawURL))
	if err != nil {
		return "", err
	}

	kind := mimetype.Detect(body)
	var img image.Image
	switch {
	case kind.Is("image/svg+xml"):
		// extension lied; rasterize the vector content
		img, err = rasterizeSVG(body)
	case strings.HasPrefix(kind.String(), "image/"):
		img, _, err = image.Decode(bytes.NewReader(body))
	default:
		return "", errors.New(errors.ErrCodeImageDecode,
			fmt.Sprintf("unsupported content type %s for %s", kind.String(), rawURL))
	}
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeImageDecode, "decode "+rawURL, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", errors.Wrap(errors.ErrCodeImageDecode, "encode "+rawURL, err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (s *inlineStrategy) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageFetch, "build request", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageFetch, "fetch "+rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrCodeImageFetch,
			fmt.Sprintf("fetch %s: status %d", rawURL, resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeImageFetch, "read "+rawURL, err)
	}
	return body, nil
}

// rasterizeSVG renders SVG bytes at their intrinsic size.
func rasterizeSVG(data []byte) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		w, h = 512, 512
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return rgba, nil
}

// cacheBusted appends a timestamp query parameter so intermediate caches
// cannot serve a stale or header-stripped copy.
func cacheBusted(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	q.Set("pfcb", fmt.Sprintf("%d", time.Now().UnixNano()))
	u.RawQuery = q.Encode()
	return u.String()
}

// strippedPath returns the URL path without the query string, for
// extension checks.
func strippedPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
