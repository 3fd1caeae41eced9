// Package measure reports real rendered block heights using headless
// Chrome. The pagination engine itself never touches a browser; it
// consumes the HeightMap this package produces.
package measure

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/chrome"
	"github.com/paperforge/paperforge/internal/layout"
	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
	"github.com/paperforge/paperforge/pkg/telemetry"
)

// pxPerMM converts CSS pixels (96 dpi) to millimeters.
const pxPerMM = 96.0 / 25.4

// collectProbesJS returns {probeID: heightPx} for every probe container.
const collectProbesJS = `(() => {
	const out = {};
	document.querySelectorAll('.probe').forEach(p => {
		out[p.dataset.probeId] = p.getBoundingClientRect().height;
	});
	return out;
})()`

// Engine measures block heights by rendering a probe document in Chrome.
type Engine struct {
	renderer *render.Renderer
	chrome   chrome.Options
	metrics  *telemetry.Metrics
}

// NewEngine creates a measuring engine. metrics may be nil.
func NewEngine(renderer *render.Renderer, opts chrome.Options, metrics *telemetry.Metrics) *Engine {
	return &Engine{renderer: renderer, chrome: opts, metrics: metrics}
}

// Heights renders one probe document containing every measurable block
// and reads the browser-reported heights back in a single pass. Blocks
// the browser did not report come back as 0 so layout degrades instead
// of failing.
func (e *Engine) Heights(ctx context.Context, paper *model.Paper, settings model.ExportSettings) (layout.HeightMap, error) {
	start := time.Now()
	heights := layout.HeightMap{
		Sections:  make(map[string]float64),
		Questions: make(map[string]float64),
	}

	doc := e.renderer.ProbeDocument(ctx, paper, settings)

	tmp, err := os.CreateTemp("", "paperforge-measure-*.html")
	if err != nil {
		return heights, errors.Wrap(errors.ErrCodeMeasureFailed, "create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)
	if _, err := tmp.WriteString(doc); err != nil {
		tmp.Close()
		return heights, errors.Wrap(errors.ErrCodeMeasureFailed, "write temp file", err)
	}
	tmp.Close()

	session, err := chrome.NewSession(ctx, e.chrome)
	if err != nil {
		return heights, err
	}
	defer session.Close()

	var raw map[string]float64
	err = chromedp.Run(session.Ctx,
		chromedp.Navigate("file://"+tmpPath),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(collectProbesJS, &raw),
	)
	if err != nil {
		return heights, errors.Wrap(errors.ErrCodeMeasureFailed, "measure probe document", err)
	}

	for id, px := range raw {
		mm := px / pxPerMM
		switch {
		case id == render.ProbeHeader:
			heights.Header = mm
		case id == render.ProbeInstructions:
			heights.Instructions = mm
		case strings.HasPrefix(id, render.ProbeSectionPrefix):
			heights.Sections[strings.TrimPrefix(id, render.ProbeSectionPrefix)] = mm
		case strings.HasPrefix(id, render.ProbeQuestionPrefix):
			heights.Questions[strings.TrimPrefix(id, render.ProbeQuestionPrefix)] = mm
		}
	}

	logger.Debug("measure pass completed",
		zap.String("paper_id", paper.ID),
		zap.Int("blocks", len(raw)),
		zap.Duration("duration", time.Since(start)),
	)
	if e.metrics != nil {
		e.metrics.RecordMeasurePass(ctx, len(raw), time.Since(start).Seconds())
	}
	return heights, nil
}

// StaticMeasurer is a browser-free layout.Measurer built on character
// counts and fixed per-element heights. It keeps layout usable when no
// Chrome binary is available; the estimates are coarse by nature.
type StaticMeasurer struct {
	// LineHeightMM is the assumed height of one rendered text line.
	LineHeightMM float64
	// CharsPerLine is the assumed column capacity in characters.
	CharsPerLine int
}

// NewStaticMeasurer returns an estimator tuned for a single-column A4
// page at the default font size.
func NewStaticMeasurer() *StaticMeasurer {
	return &StaticMeasurer{LineHeightMM: 6, CharsPerLine: 90}
}

// MeasureMM estimates a block height without rendering it.
func (m *StaticMeasurer) MeasureMM(b layout.MeasureBlock) float64 {
	switch b.Kind {
	case layout.MeasureHeader:
		return 30
	case layout.MeasureInstructions:
		return 60
	case layout.MeasureSectionHeader:
		return 10
	case layout.MeasureQuestion:
		if b.Question == nil {
			return m.LineHeightMM
		}
		return m.estimateQuestion(b.Question)
	}
	return 0
}

func (m *StaticMeasurer) estimateQuestion(q *model.Question) float64 {
	lines := m.estimateLines(q.Question.Content)
	for _, opt := range q.Options {
		lines += m.estimateLines(opt.Text.Content)
	}
	// 20mm flat charge per embedded image
	images := strings.Count(q.Question.Content, "<img")
	return float64(lines)*m.LineHeightMM + float64(images)*20
}

func (m *StaticMeasurer) estimateLines(html string) int {
	text := 0
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			text++
		}
	}
	lines := text/m.CharsPerLine + 1
	return lines
}
