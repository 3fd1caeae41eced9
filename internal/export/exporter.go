// Package export rasterizes rendered pages and assembles them into a
// multi-page PDF, with progress reporting and cooperative cancellation.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
	xdraw "golang.org/x/image/draw"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/internal/paperset"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

// ErrCancelled marks a user-initiated abort. It is never logged as a
// failure and never reaches user-facing error reporting as one.
var ErrCancelled = errors.New(errors.ErrCodeExportCancelled, "export cancelled")

// resetDelay is how long a terminal job state stays observable before
// the job returns to Idle.
const resetDelay = 2 * time.Second

// pageRasterizer captures page elements of an open document as PNGs.
type pageRasterizer interface {
	Open(ctx context.Context, html string, pageCount int) error
	CapturePage(ctx context.Context, index int) ([]byte, error)
	Close()
}

// rasterizerFactory builds a rasterizer per export run.
type rasterizerFactory func() pageRasterizer

// Exporter turns rendered documents into PDF files on disk.
type Exporter struct {
	outDir     string
	newRaster  rasterizerFactory
	metrics    *telemetry.Metrics
	resetAfter time.Duration
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithMetrics records export outcomes on the given metrics set.
func WithMetrics(m *telemetry.Metrics) ExporterOption {
	return func(e *Exporter) { e.metrics = m }
}

// WithRasterizerFactory swaps the capture backend. Used by tests.
func WithRasterizerFactory(f rasterizerFactory) ExporterOption {
	return func(e *Exporter) { e.newRaster = f }
}

// WithResetDelay shortens the Idle decay, for tests.
func WithResetDelay(d time.Duration) ExporterOption {
	return func(e *Exporter) { e.resetAfter = d }
}

// NewExporter creates an exporter writing PDFs into outDir. Chrome
// options apply to the default rasterizer.
func NewExporter(outDir string, chromeOpts chrome.Options, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		outDir:     outDir,
		resetAfter: resetDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.newRaster == nil {
		e.newRaster = func() pageRasterizer { return newChromeRasterizer(chromeOpts) }
	}
	return e
}

// Filename returns the output filename for a set number, `Paper.pdf`
// for a single-set paper and `Paper <letter>.pdf` otherwise.
func Filename(setNumber int) string {
	if setNumber < 0 {
		return consts.ExportBaseFilename + consts.ExportFileExtension
	}
	return fmt.Sprintf("%s %s%s",
		consts.ExportBaseFilename, paperset.SetLetter(setNumber), consts.ExportFileExtension)
}

// ExportToPDF walks the document's pages in strict order, rasterizes
// each and appends it to the PDF. On success the file lands in the
// output directory and job progress reads 100. Any rasterization error
// aborts the whole export with progress reset to 0; no partial file is
// ever written. All exit paths return the job to Idle after a short
// delay.
func (e *Exporter) ExportToPDF(ctx context.Context, doc render.Document, job *Job) (outPath string, err error) {
	start := time.Now()
	total := doc.PageCount
	if total == 0 {
		return "", errors.New(errors.ErrCodeExportNoPages, "document has no pages")
	}

	ctx, span := telemetry.StartSpan(ctx, "export.ExportToPDF",
		telemetry.WithJobAttributes(job.ID, doc.PaperID))
	defer span.End()

	job.setState(StateExporting)
	job.setProgress(0)
	if e.metrics != nil {
		e.metrics.RecordExportStarted(ctx, "pdf")
	}
	logger.Info("[Export] starting PDF export",
		zap.String("job_id", job.ID),
		zap.Int("pages", total),
		zap.Int("set_number", doc.SetNumber),
	)

	defer func() {
		status := "completed"
		switch {
		case err == nil:
			job.complete(outPath)
			telemetry.SetSpanOK(span)
		case errors.Is(err, ErrCancelled):
			status = "cancelled"
			job.setState(StateCancelled)
			job.setProgress(0)
			logger.Info("[Export] export cancelled",
				zap.String("job_id", job.ID))
		default:
			status = "failed"
			job.fail(err)
			telemetry.SetSpanError(span, err)
			logger.Error("[Export] export failed",
				zap.String("job_id", job.ID),
				zap.Error(err),
				zap.Duration("duration", time.Since(start)),
			)
		}
		if e.metrics != nil {
			e.metrics.RecordExportCompleted(ctx, status, int64(total), time.Since(start).Seconds())
		}
		time.AfterFunc(e.resetAfter, job.reset)
	}()

	raster := e.newRaster()
	if err = raster.Open(ctx, doc.HTML, total); err != nil {
		return "", err
	}
	defer raster.Close()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(true)

	for i := 0; i < total; i++ {
		// cancellation is checked only here: an in-flight capture always
		// completes before the stop takes effect
		if job.Cancelled() {
			return "", ErrCancelled
		}
		job.setProgress(int(math.Round(100 * float64(i+1) / float64(total))))

		var shot []byte
		pageCtx, pageSpan := telemetry.StartSpan(ctx, "export.capturePage",
			telemetry.WithPageAttributes(i, total))
		shot, err = raster.CapturePage(pageCtx, i)
		pageSpan.End()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeExportFailed,
				fmt.Sprintf("rasterize page %d", i+1), err)
		}

		var jpg []byte
		jpg, err = recompress(shot)
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeExportFailed,
				fmt.Sprintf("recompress page %d", i+1), err)
		}

		pdf.AddPage()
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name,
			gofpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(jpg))
		pdf.ImageOptions(name, 0, 0,
			consts.PageWidthMM, consts.PageHeightMM, false,
			gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")

		logger.Debug("[Export] page appended",
			zap.String("job_id", job.ID),
			zap.Int("page", i+1),
			zap.Int("total", total),
			zap.Int("jpeg_bytes", len(jpg)),
		)
	}

	job.setProgress(100)

	if err = os.MkdirAll(e.outDir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, "create output directory", err)
	}
	outPath = filepath.Join(e.outDir, Filename(doc.SetNumber))
	if err = pdf.OutputFileAndClose(outPath); err != nil {
		return "", errors.Wrap(errors.ErrCodeExportFailed, "write PDF", err)
	}

	logger.Info("[Export] PDF export completed",
		zap.String("job_id", job.ID),
		zap.String("path", outPath),
		zap.Int("pages", total),
		zap.Duration("duration", time.Since(start)),
	)
	return outPath, nil
}

// recompress downsamples a page screenshot to the fixed print target
// (1654x2339, about 200 DPI on A4) and re-encodes it as JPEG. The
// quality setting is a deliberate file-size trade-off.
func recompress(pngBytes []byte) ([]byte, error) {
	src, err := png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, consts.RasterWidthPx, consts.RasterHeightPx))
	// flatten any transparency onto opaque white before JPEG encoding
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: consts.RasterJPEGQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
