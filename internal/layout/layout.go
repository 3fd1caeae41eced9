// Package layout packs sections of measured question blocks into
// fixed-height A4 pages. Layout is a pure function of its inputs: no
// I/O, no DOM, no shared state. Height measurement is injected through
// the Measurer interface so the engine runs headlessly in tests.
package layout

import (
	"github.com/paperforge/paperforge/consts"
	"github.com/paperforge/paperforge/internal/model"
)

// QuestionSpacingMM is the fixed vertical gap between stacked questions
// inside a column.
const QuestionSpacingMM = 5.0

// BlockKind discriminates the block types a page can carry.
type BlockKind string

const (
	BlockHeader        BlockKind = "header"
	BlockInstructions  BlockKind = "instructions"
	BlockSectionHeader BlockKind = "section_header"
	BlockQuestionGrid  BlockKind = "question_grid"
)

// Block is one vertically stacked unit on a page. For question grids the
// questions are distributed across Columns; other kinds span the full
// width.
type Block struct {
	Kind      BlockKind
	Section   *model.Section     // section header blocks
	Columns   [][]model.Question // question grid blocks
	HeightMM  float64
	SectionID string
}

// Page is one laid-out A4 page. Pages are rebuilt from scratch on every
// layout pass and never mutated in place.
type Page struct {
	Index       int
	Blocks      []Block
	RoughWorkMM float64 // bottom rough-work reservation, 0 when absent
	RoughRight  bool    // rough work occupies a right-hand strip instead
	ShowNumber  bool
	NumberPos   model.PageNumberPosition
}

// HeightMap carries the measured mm height of every block that can
// appear on a page. A missing entry reads as 0 so layout can never fail
// on incomplete measurements; it only under-reserves.
type HeightMap struct {
	Header       float64
	Instructions float64
	Sections     map[string]float64 // section ID -> header height
	Questions    map[string]float64 // question ID -> block height
}

// SectionMM returns the measured header height for a section, 0 when
// unmeasured.
func (h HeightMap) SectionMM(id string) float64 {
	return h.Sections[id]
}

// QuestionMM returns the measured height for a question, 0 when
// unmeasured.
func (h HeightMap) QuestionMM(id string) float64 {
	return h.Questions[id]
}

// Layout packs sections into pages under the configured column count and
// the A4 height budget. Every input question lands on exactly one page,
// exactly once, in section order.
func Layout(sections []model.Section, settings model.ExportSettings, heights HeightMap) []Page {
	columns := clampColumns(settings.ColumnsPerPage)
	budget := pageBudgetMM(settings)

	b := &builder{
		settings: settings,
		heights:  heights,
		columns:  columns,
		budget:   budget,
	}

	if settings.ShowFirstPageInstructions {
		b.emitInstructionsPage()
	}

	for i := range sections {
		b.placeSection(&sections[i])
	}
	b.flush()

	return b.pages
}

// pageBudgetMM is the usable content height: the A4 page minus fixed
// margins, minus the bottom rough-work reservation when enabled. A
// right-side rough-work strip narrows columns instead of the budget.
func pageBudgetMM(settings model.ExportSettings) float64 {
	budget := consts.PageHeightMM - consts.PageMarginTopMM - consts.PageMarginBottomMM
	if settings.RoughWork == model.RoughWorkBottom {
		budget -= settings.RoughWorkSize.HeightMM()
	}
	return budget
}

func clampColumns(n int) int {
	if n < 1 {
		return 1
	}
	if n > 3 {
		return 3
	}
	return n
}

// builder accumulates pages during one layout pass.
type builder struct {
	settings model.ExportSettings
	heights  HeightMap
	columns  int
	budget   float64

	pages []Page

	// current page under construction
	blocks      []Block
	usedMM      float64 // full-width blocks charged so far
	grid        [][]model.Question
	gridSection string
	colContent  []float64 // per-column question heights, spacing excluded
	colUsed     []float64 // per-column totals including spacing
	col         int
	headerDone  bool
}

func (b *builder) emitInstructionsPage() {
	b.blocks = append(b.blocks,
		Block{Kind: BlockHeader, HeightMM: b.heights.Header},
		Block{Kind: BlockInstructions, HeightMM: b.heights.Instructions},
	)
	b.headerDone = true
	b.pushPage()
}

func (b *builder) placeSection(section *model.Section) {
	// the general header rides on the first content page unless a
	// dedicated instructions page already carried it
	if !b.headerDone {
		b.charge(Block{Kind: BlockHeader, HeightMM: b.heights.Header})
		b.headerDone = true
	}
	b.charge(Block{
		Kind:      BlockSectionHeader,
		Section:   section,
		SectionID: section.ID,
		HeightMM:  b.heights.SectionMM(section.ID),
	})

	b.startGrid(section.ID)
	for i := range section.Questions {
		b.placeQuestion(section.Questions[i])
	}
	b.closeGrid()
}

// charge appends a full-width block, flushing to a new page first when
// it does not fit the remaining budget.
func (b *builder) charge(block Block) {
	if len(b.blocks) > 0 && b.usedMM+block.HeightMM > b.budget {
		b.pushPage()
	}
	b.blocks = append(b.blocks, block)
	b.usedMM += block.HeightMM
}

func (b *builder) startGrid(sectionID string) {
	b.gridSection = sectionID
	b.grid = make([][]model.Question, b.columns)
	b.colContent = make([]float64, b.columns)
	b.colUsed = make([]float64, b.columns)
	b.col = 0
}

// placeQuestion appends q to the current column when it fits, advances
// to the next column otherwise, and flushes the page when no column is
// left. An over-height question is still placed whole: a single question
// is never split across columns or pages, even when it overflows.
func (b *builder) placeQuestion(q model.Question) {
	h := b.questionHeightMM(q)
	remaining := b.budget - b.usedMM

	for {
		content := b.colContent[b.col]
		if content == 0 || content+h <= remaining {
			break
		}
		if b.col+1 < b.columns {
			b.col++
			continue
		}
		// no columns left on this page
		sectionID := b.gridSection
		b.closeGrid()
		b.pushPage()
		b.startGrid(sectionID)
		break
	}

	b.grid[b.col] = append(b.grid[b.col], q)
	if b.colContent[b.col] > 0 {
		b.colUsed[b.col] += QuestionSpacingMM
	}
	b.colContent[b.col] += h
	b.colUsed[b.col] += h
}

// questionHeightMM is the measured block height plus any configured
// answer spacing for subjective questions.
func (b *builder) questionHeightMM(q model.Question) float64 {
	h := b.heights.QuestionMM(q.QuestionID)
	if q.IsSubjective() {
		h += b.settings.AnswerSpacing[q.QuestionID]
	}
	return h
}

// closeGrid folds the accumulated columns into a grid block on the
// current page. Empty grids vanish.
func (b *builder) closeGrid() {
	if b.grid == nil {
		return
	}
	var tallest float64
	empty := true
	for i := range b.grid {
		if len(b.grid[i]) > 0 {
			empty = false
		}
		if b.colUsed[i] > tallest {
			tallest = b.colUsed[i]
		}
	}
	if !empty {
		b.blocks = append(b.blocks, Block{
			Kind:      BlockQuestionGrid,
			Columns:   b.grid,
			SectionID: b.gridSection,
			HeightMM:  tallest,
		})
		b.usedMM += tallest
	}
	b.grid = nil
	b.colContent = nil
	b.colUsed = nil
	b.col = 0
}

// pushPage finalizes the page under construction and resets the budget.
func (b *builder) pushPage() {
	page := Page{
		Index:      len(b.pages),
		Blocks:     b.blocks,
		ShowNumber: b.settings.ShowPageNumbers,
		NumberPos:  b.settings.PageNumberPosition,
	}
	switch b.settings.RoughWork {
	case model.RoughWorkBottom:
		page.RoughWorkMM = b.settings.RoughWorkSize.HeightMM()
	case model.RoughWorkRight:
		page.RoughRight = true
	}
	b.pages = append(b.pages, page)

	b.blocks = nil
	b.usedMM = 0
}

// flush emits any in-progress grid and page at the end of the pass.
func (b *builder) flush() {
	b.closeGrid()
	if len(b.blocks) > 0 {
		b.pushPage()
	}
}
