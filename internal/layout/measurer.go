package layout

import (
	"github.com/paperforge/paperforge/internal/model"
)

// Measurer reports the rendered height of one block in millimeters.
// Implementations that cannot measure a block return 0 rather than
// failing; layout treats 0 as "unmeasured" and under-reserves.
type Measurer interface {
	MeasureMM(block MeasureBlock) float64
}

// MeasureBlockKind names what a MeasureBlock represents.
type MeasureBlockKind string

const (
	MeasureHeader        MeasureBlockKind = "header"
	MeasureInstructions  MeasureBlockKind = "instructions"
	MeasureSectionHeader MeasureBlockKind = "section_header"
	MeasureQuestion      MeasureBlockKind = "question"
)

// MeasureBlock identifies one block to measure. Exactly one of Section
// or Question is set for the corresponding kinds.
type MeasureBlock struct {
	Kind     MeasureBlockKind
	Section  *model.Section
	Question *model.Question
}

// MeasureHeights runs the measurer over every block the given sections
// can produce and assembles the HeightMap consumed by Layout. It is
// re-run whenever sections, font size or column count change, since any
// of those can alter rendered heights.
func MeasureHeights(m Measurer, sections []model.Section, settings model.ExportSettings) HeightMap {
	heights := HeightMap{
		Header:    m.MeasureMM(MeasureBlock{Kind: MeasureHeader}),
		Sections:  make(map[string]float64, len(sections)),
		Questions: make(map[string]float64),
	}
	if settings.ShowFirstPageInstructions {
		heights.Instructions = m.MeasureMM(MeasureBlock{Kind: MeasureInstructions})
	}
	for i := range sections {
		section := &sections[i]
		heights.Sections[section.ID] = m.MeasureMM(MeasureBlock{
			Kind:    MeasureSectionHeader,
			Section: section,
		})
		for j := range section.Questions {
			q := &section.Questions[j]
			heights.Questions[q.QuestionID] = m.MeasureMM(MeasureBlock{
				Kind:     MeasureQuestion,
				Question: q,
			})
		}
	}
	return heights
}
