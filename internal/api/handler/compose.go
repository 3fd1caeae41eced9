// Package handler provides HTTP handlers for the API.
// This file composes paginated documents from a paper and its settings.
package handler

import (
	"context"

	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/layout"
	"github.com/paperforge/paperforge/internal/measure"
	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/paperset"
	"github.com/paperforge/paperforge/internal/render"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/logger"
)

// HeightMeasurer measures the rendered heights of a paper's blocks.
// Implemented by measure.Engine; tests substitute a static measurer.
type HeightMeasurer interface {
	Heights(ctx context.Context, paper *model.Paper, settings model.ExportSettings) (layout.HeightMap, error)
}

// documentBuilder turns a paper plus settings into a renderable document:
// generate paper sets, measure block heights, paginate, render HTML.
type documentBuilder struct {
	renderer *render.Renderer
	measurer HeightMeasurer
}

func newDocumentBuilder(renderer *render.Renderer, measurer HeightMeasurer) *documentBuilder {
	return &documentBuilder{renderer: renderer, measurer: measurer}
}

// Build composes the document for one paper set. setIndex selects which set
// to render; out-of-range indexes are clamped. When the settings produce a
// single set, the document carries no set code.
func (b *documentBuilder) Build(ctx context.Context, paper *model.Paper, settings model.ExportSettings, setIndex int) (render.Document, error) {
	sets := paperset.MakeSets(paper.Sections, settings)
	if setIndex < 0 {
		setIndex = 0
	}
	if setIndex >= len(sets) {
		setIndex = len(sets) - 1
	}
	set := sets[setIndex]

	heights := b.heights(ctx, paper, settings)

	pages := layout.Layout(set.Sections, settings, heights)
	if len(pages) == 0 {
		return render.Document{}, errors.New(errors.ErrCodeLayoutEmpty, "paper produced no pages")
	}

	setNumber := set.SetNumber
	if len(sets) == 1 {
		setNumber = -1
	}
	return b.renderer.Document(ctx, paper, pages, settings, setNumber), nil
}

// heights measures block heights in a browser, falling back to static
// estimates when no browser is available. Pagination always proceeds.
func (b *documentBuilder) heights(ctx context.Context, paper *model.Paper, settings model.ExportSettings) layout.HeightMap {
	heights, err := b.measurer.Heights(ctx, paper, settings)
	if err != nil {
		logger.Warn("Browser measurement failed, using static estimates",
			zap.String("paper_id", paper.ID),
			zap.Error(err),
		)
		return layout.MeasureHeights(measure.NewStaticMeasurer(), paper.Sections, settings)
	}
	return heights
}
