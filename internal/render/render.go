// Package render projects laid-out pages into a printable HTML document.
// Rendering is a stateless projection: all layout decisions were already
// made by the pagination engine, render only emits markup and CSS.
package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"github.com/paperforge/paperforge/internal/content"
	"github.com/paperforge/paperforge/internal/layout"
	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/internal/paperset"
	"github.com/paperforge/paperforge/pkg/logger"
)

// ImageResolver turns a remote image URL into a self-contained data URI.
type ImageResolver interface {
	Resolve(ctx context.Context, url string) string
}

// Document is a fully rendered paper ready for rasterization.
type Document struct {
	HTML      string
	PaperID   string
	PageCount int
	SetNumber int // -1 for a single-set paper
}

// Renderer builds HTML documents from pages and settings.
type Renderer struct {
	md     goldmark.Markdown
	images ImageResolver
}

// NewRenderer creates a renderer. The resolver may be nil, in which case
// image URLs pass through untouched.
func NewRenderer(images ImageResolver) *Renderer {
	return &Renderer{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		images: images,
	}
}

// Document renders one paper (or one set of a multi-set paper) into a
// complete HTML document. setNumber is -1 when only one set exists; the
// set-code badge and letter are derived from it otherwise.
func (r *Renderer) Document(ctx context.Context, paper *model.Paper, pages []layout.Page, settings model.ExportSettings, setNumber int) Document {
	var body strings.Builder
	total := len(pages)
	// question numbers follow render position within each section, so a
	// shuffled set still reads 1, 2, 3, ...
	numbers := make(map[string]int)
	for i, page := range pages {
		body.WriteString(r.renderPage(ctx, paper, page, settings, setNumber, i+1, total, numbers))
	}

	doc := fmt.Sprintf(documentTemplate,
		html.EscapeString(paper.Title),
		baseFontSizePt(settings.FontSize),
		pagePaddingMM(settings.PagePadding),
		body.String(),
	)
	return Document{HTML: doc, PaperID: paper.ID, PageCount: total, SetNumber: setNumber}
}

func (r *Renderer) renderPage(ctx context.Context, paper *model.Paper, page layout.Page, settings model.ExportSettings, setNumber, number, total int, numbers map[string]int) string {
	var sb strings.Builder
	sb.WriteString(`<div class="page">`)

	if page.RoughRight {
		sb.WriteString(`<div class="page-body split"><div class="page-content">`)
	} else {
		sb.WriteString(`<div class="page-body"><div class="page-content">`)
	}

	for _, block := range page.Blocks {
		switch block.Kind {
		case layout.BlockHeader:
			sb.WriteString(r.renderHeader(ctx, paper, settings))
		case layout.BlockInstructions:
			sb.WriteString(r.renderInstructions(settings))
		case layout.BlockSectionHeader:
			sb.WriteString(r.renderSectionHeader(block.Section, settings))
		case layout.BlockQuestionGrid:
			sb.WriteString(r.renderQuestionGrid(ctx, block, settings, numbers))
		}
	}
	sb.WriteString(`</div>`) // page-content

	if page.RoughRight {
		sb.WriteString(`<div class="rough-work-right"><span>Rough Work</span></div>`)
	}
	sb.WriteString(`</div>`) // page-body

	if page.RoughWorkMM > 0 {
		sb.WriteString(fmt.Sprintf(
			`<div class="rough-work" style="height:%.0fmm"><span>Rough Work</span></div>`,
			page.RoughWorkMM))
	}

	if settings.IncludeQuestionSetCode && setNumber >= 0 {
		sb.WriteString(fmt.Sprintf(`<div class="set-code">Set %s</div>`,
			paperset.SetLetter(setNumber)))
	}

	if page.ShowNumber {
		sb.WriteString(fmt.Sprintf(`<div class="page-number pos-%s">%d / %d</div>`,
			page.NumberPos, number, total))
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

func (r *Renderer) renderHeader(ctx context.Context, paper *model.Paper, settings model.ExportSettings) string {
	h := settings.Header
	if !settings.ShowLetterhead || !h.Enabled {
		return fmt.Sprintf(`<div class="paper-title">%s</div>`, html.EscapeString(paper.Title))
	}

	var style strings.Builder
	if h.ShowBorder {
		style.WriteString("border:1px solid #000;")
	}
	if h.BackgroundColor != "" {
		style.WriteString("background:" + html.EscapeString(h.BackgroundColor) + ";")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="letterhead" style="%s">`, style.String()))
	if h.LogoURL != "" {
		sb.WriteString(fmt.Sprintf(`<img class="letterhead-logo" src="%s"/>`,
			html.EscapeString(r.resolveImage(ctx, h.LogoURL))))
	}
	sb.WriteString(`<div class="letterhead-zones">`)
	sb.WriteString(renderHeaderZone("left", h.Left))
	sb.WriteString(renderHeaderZone("center", h.Center))
	sb.WriteString(renderHeaderZone("right", h.Right))
	sb.WriteString(`</div></div>`)

	sb.WriteString(renderCustomFields(settings.CustomFields))
	return sb.String()
}

func renderHeaderZone(name string, zone model.HeaderZone) string {
	if !zone.Visible {
		return fmt.Sprintf(`<div class="zone zone-%s"></div>`, name)
	}
	weight := "normal"
	if zone.Bold {
		weight = "bold"
	}
	align := zone.Alignment
	if align == "" {
		align = name
	}
	size := zone.FontSize
	if size <= 0 {
		size = 12
	}
	return fmt.Sprintf(
		`<div class="zone zone-%s" style="font-size:%dpt;font-weight:%s;text-align:%s">%s</div>`,
		name, size, weight, align, html.EscapeString(zone.Content))
}

func renderCustomFields(fields []model.CustomField) string {
	var enabled []model.CustomField
	for _, f := range fields {
		if f.Enabled {
			enabled = append(enabled, f)
		}
	}
	if len(enabled) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div class="custom-fields">`)
	for _, f := range enabled {
		sb.WriteString(`<div class="custom-field">`)
		sb.WriteString(fmt.Sprintf(`<span class="field-label">%s:</span>`, html.EscapeString(f.Label)))
		switch f.Type {
		case model.CustomFieldBlocks:
			count := f.BlockCount
			if count <= 0 {
				count = 8
			}
			sb.WriteString(`<span class="field-blocks">`)
			for i := 0; i < count; i++ {
				sb.WriteString(`<span class="block"></span>`)
			}
			sb.WriteString(`</span>`)
		case model.CustomFieldInput:
			sb.WriteString(`<span class="field-input"></span>`)
		case model.CustomFieldCheckbox:
			sb.WriteString(`<span class="checkbox"></span>`)
		default:
			sb.WriteString(`<span class="field-blank"></span>`)
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// renderInstructions renders the first-page instructions from Markdown.
func (r *Renderer) renderInstructions(settings model.ExportSettings) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(settings.FirstPageInstructions), &buf); err != nil {
		logger.Warn("instructions markdown conversion failed", zap.Error(err))
		buf.Reset()
		buf.WriteString(html.EscapeString(settings.FirstPageInstructions))
	}
	return fmt.Sprintf(`<div class="instructions"><h2>Instructions</h2>%s</div>`, buf.String())
}

func (r *Renderer) renderSectionHeader(section *model.Section, settings model.ExportSettings) string {
	if section == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="section-header">`)
	sb.WriteString(fmt.Sprintf(`<span class="section-title">%s</span>`, html.EscapeString(section.Title)))

	var meta []string
	if settings.ShowSectionDuration && section.Duration > 0 {
		meta = append(meta, fmt.Sprintf("%d min", section.Duration))
	}
	if settings.ShowSectionMarks && section.TotalMarks > 0 {
		meta = append(meta, fmt.Sprintf("%.5g marks", section.TotalMarks))
	}
	if len(meta) > 0 {
		sb.WriteString(fmt.Sprintf(`<span class="section-meta">%s</span>`, strings.Join(meta, " | ")))
	}
	if settings.ShowSectionInstructions && section.Description != "" {
		sb.WriteString(fmt.Sprintf(`<div class="section-instructions">%s</div>`,
			html.EscapeString(section.Description)))
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func (r *Renderer) renderQuestionGrid(ctx context.Context, block layout.Block, settings model.ExportSettings, numbers map[string]int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<div class="question-grid cols-%d">`, len(block.Columns)))
	for _, col := range block.Columns {
		sb.WriteString(`<div class="question-column">`)
		for _, q := range col {
			numbers[block.SectionID]++
			sb.WriteString(r.renderQuestion(ctx, q, settings, numbers[block.SectionID]))
		}
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func (r *Renderer) renderQuestion(ctx context.Context, q model.Question, settings model.ExportSettings, number int) string {
	var sb strings.Builder
	sb.WriteString(`<div class="question">`)

	sb.WriteString(`<div class="question-head">`)
	sb.WriteString(fmt.Sprintf(`<span class="question-number">%d.</span>`, number))
	if settings.ShowAdaptiveMarks {
		if marks := q.TotalMark(); marks > 0 {
			sb.WriteString(fmt.Sprintf(`<span class="question-marks">[%.5g]</span>`, marks))
		}
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="question-body">`)
	sb.WriteString(r.renderRichText(ctx, q.Question.Content, settings))
	sb.WriteString(`</div>`)

	for i, opt := range q.Options {
		sb.WriteString(`<div class="option">`)
		box := `<span class="checkbox"></span>`
		label := fmt.Sprintf(`<span class="option-label">%s)</span>`, optionLetter(i))
		if settings.CheckboxesBeforeOptions {
			sb.WriteString(box + label)
		} else {
			sb.WriteString(label)
		}
		sb.WriteString(r.renderRichText(ctx, opt.Text.Content, settings))
		if !settings.CheckboxesBeforeOptions {
			sb.WriteString(box)
		}
		sb.WriteString(`</div>`)
	}

	if q.IsSubjective() {
		if spacing := settings.AnswerSpacing[q.QuestionID]; spacing > 0 {
			sb.WriteString(fmt.Sprintf(`<div class="answer-space" style="height:%.0fmm"></div>`, spacing))
		}
	}

	sb.WriteString(`</div>`)
	return sb.String()
}

// renderRichText converts extracted segments back into display markup,
// resolving image URLs and applying per-image size overrides.
func (r *Renderer) renderRichText(ctx context.Context, raw string, settings model.ExportSettings) string {
	var sb strings.Builder
	for _, seg := range content.Extract(raw) {
		switch seg.Kind {
		case content.SegmentText:
			sb.WriteString(`<span>` + html.EscapeString(seg.Payload) + `</span>`)
		case content.SegmentImage:
			src := r.resolveImage(ctx, seg.Payload)
			if size, ok := settings.ImageSizes[seg.Payload]; ok {
				sb.WriteString(fmt.Sprintf(`<img src="%s" style="width:%.0fmm;height:%.0fmm"/>`,
					html.EscapeString(src), size.Width, size.Height))
			} else {
				sb.WriteString(fmt.Sprintf(`<img src="%s"/>`, html.EscapeString(src)))
			}
		case content.SegmentFormula:
			sb.WriteString(seg.Payload)
		}
	}
	return sb.String()
}

func (r *Renderer) resolveImage(ctx context.Context, url string) string {
	if r.images == nil {
		return url
	}
	return r.images.Resolve(ctx, url)
}

func optionLetter(i int) string {
	return string(rune('a' + i%26))
}

func baseFontSizePt(size model.FontSize) int {
	switch size {
	case model.FontSizeSmall:
		return 9
	case model.FontSizeLarge:
		return 13
	default:
		return 11
	}
}

func pagePaddingMM(padding model.PagePadding) int {
	switch padding {
	case model.PagePaddingSmall:
		return 8
	case model.PagePaddingLarge:
		return 18
	default:
		return 12
	}
}
