package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/model"
)

// Probe IDs used by the height measurer. Section and question probes are
// suffixed with the element ID.
const (
	ProbeHeader        = "header"
	ProbeInstructions  = "instructions"
	ProbeSectionPrefix = "section:"
	ProbeQuestionPrefix = "question:"
)

// ProbeDocument renders every measurable block exactly once, each inside
// a marked container sized like its final slot, so a headless browser
// can report real rendered heights. Question probes are constrained to
// the width of one column at the configured column count.
func (r *Renderer) ProbeDocument(ctx context.Context, paper *model.Paper, settings model.ExportSettings) string {
	columns := settings.ColumnsPerPage
	if columns < 1 {
		columns = 1
	}
	if columns > 3 {
		columns = 3
	}
	padding := pagePaddingMM(settings.PagePadding)
	contentMM := consts.PageWidthMM - 2*float64(padding)
	// 6mm grid gap between columns, matching the document stylesheet
	columnMM := (contentMM - 6*float64(columns-1)) / float64(columns)

	var sb strings.Builder
	sb.WriteString(probe(ProbeHeader, contentMM, r.renderHeader(ctx, paper, settings)))
	if settings.ShowFirstPageInstructions {
		sb.WriteString(probe(ProbeInstructions, contentMM, r.renderInstructions(settings)))
	}
	for i := range paper.Sections {
		section := &paper.Sections[i]
		sb.WriteString(probe(ProbeSectionPrefix+section.ID, contentMM,
			r.renderSectionHeader(section, settings)))
		for _, q := range section.Questions {
			sb.WriteString(probe(ProbeQuestionPrefix+q.QuestionID, columnMM,
				r.renderQuestion(ctx, q, settings, q.QuestionOrder+1)))
		}
	}

	return fmt.Sprintf(documentTemplate,
		"measure",
		baseFontSizePt(settings.FontSize),
		padding,
		sb.String(),
	)
}

func probe(id string, widthMM float64, inner string) string {
	return fmt.Sprintf(`<div class="probe" data-probe-id="%s" style="width:%.2fmm">%s</div>`,
		id, widthMM, inner)
}
