package model

// PagePadding controls the inner padding of a rendered page
type PagePadding string

// Page padding presets
const (
	PagePaddingSmall  PagePadding = "small"
	PagePaddingMedium PagePadding = "medium"
	PagePaddingLarge  PagePadding = "large"
)

// FontSize controls the base font size of the rendered document
type FontSize string

// Font size presets
const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// RoughWorkPlacement controls where rough-work space is reserved
type RoughWorkPlacement string

// Rough work placements
const (
	RoughWorkNone   RoughWorkPlacement = "none"
	RoughWorkBottom RoughWorkPlacement = "bottom"
	RoughWorkRight  RoughWorkPlacement = "right"
)

// RoughWorkSize controls the height of the reserved rough-work block
type RoughWorkSize string

// Rough work sizes
const (
	RoughWorkSmall  RoughWorkSize = "small"
	RoughWorkMedium RoughWorkSize = "medium"
	RoughWorkLarge  RoughWorkSize = "large"
)

// HeightMM returns the reserved height in millimeters for the size
func (s RoughWorkSize) HeightMM() float64 {
	switch s {
	case RoughWorkMedium:
		return 100
	case RoughWorkLarge:
		return 150
	default:
		return 50
	}
}

// PageNumberPosition controls where the page-number badge is placed
type PageNumberPosition string

// Page number positions
const (
	PageNumberLeft   PageNumberPosition = "left"
	PageNumberCenter PageNumberPosition = "center"
	PageNumberRight  PageNumberPosition = "right"
)

// CustomFieldType is the rendering style of an institute-defined header field
type CustomFieldType string

// Custom field types
const (
	CustomFieldBlank    CustomFieldType = "blank"
	CustomFieldBlocks   CustomFieldType = "blocks"
	CustomFieldInput    CustomFieldType = "input"
	CustomFieldCheckbox CustomFieldType = "checkbox"
)

// CustomField is an institute-defined header input (name, roll number, ...)
type CustomField struct {
	Label      string          `json:"label" yaml:"label"`
	Enabled    bool            `json:"enabled" yaml:"enabled"`
	Type       CustomFieldType `json:"type" yaml:"type"`
	BlockCount int             `json:"block_count,omitempty" yaml:"block_count,omitempty"`
}

// HeaderZone is one of the three independently styled header text zones
type HeaderZone struct {
	Visible   bool   `json:"visible" yaml:"visible"`
	Content   string `json:"content" yaml:"content"`
	FontSize  int    `json:"font_size" yaml:"font_size"` // points
	Bold      bool   `json:"bold" yaml:"bold"`
	Alignment string `json:"alignment" yaml:"alignment"` // left|center|right
}

// HeaderSettings configures the document header
type HeaderSettings struct {
	Enabled         bool       `json:"enabled" yaml:"enabled"`
	Left            HeaderZone `json:"left" yaml:"left"`
	Center          HeaderZone `json:"center" yaml:"center"`
	Right           HeaderZone `json:"right" yaml:"right"`
	LogoURL         string     `json:"logo_url,omitempty" yaml:"logo_url,omitempty"`
	ShowBorder      bool       `json:"show_border" yaml:"show_border"`
	BackgroundColor string     `json:"background_color,omitempty" yaml:"background_color,omitempty"`
}

// ImageSize is a per-image render size override in millimeters
type ImageSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// ExportSettings is the single configuration aggregate for document
// composition, layout, pagination, and multi-set generation.
type ExportSettings struct {
	// Document composition
	ShowLetterhead            bool   `json:"show_letterhead" yaml:"show_letterhead"`
	ShowFirstPageInstructions bool   `json:"show_first_page_instructions" yaml:"show_first_page_instructions"`
	FirstPageInstructions     string `json:"first_page_instructions" yaml:"first_page_instructions"` // Markdown
	ShowSectionInstructions   bool   `json:"show_section_instructions" yaml:"show_section_instructions"`
	ShowSectionDuration       bool   `json:"show_section_duration" yaml:"show_section_duration"`
	ShowSectionMarks          bool   `json:"show_section_marks" yaml:"show_section_marks"`
	ShowAdaptiveMarks         bool   `json:"show_adaptive_marks" yaml:"show_adaptive_marks"`
	CheckboxesBeforeOptions   bool   `json:"checkboxes_before_options" yaml:"checkboxes_before_options"`

	// Layout
	ColumnsPerPage int                `json:"columns_per_page" yaml:"columns_per_page"` // 1..3
	PagePadding    PagePadding        `json:"page_padding" yaml:"page_padding"`
	FontSize       FontSize           `json:"font_size" yaml:"font_size"`
	RoughWork      RoughWorkPlacement `json:"rough_work" yaml:"rough_work"`
	RoughWorkSize  RoughWorkSize      `json:"rough_work_size" yaml:"rough_work_size"`

	// Pagination features
	ShowPageNumbers    bool               `json:"show_page_numbers" yaml:"show_page_numbers"`
	PageNumberPosition PageNumberPosition `json:"page_number_position" yaml:"page_number_position"`

	// Multi-set generation
	QuestionPaperSets      int  `json:"question_paper_sets" yaml:"question_paper_sets"` // 1..3
	IncludeQuestionSetCode bool `json:"include_question_set_code" yaml:"include_question_set_code"`
	RandomizeQuestions     bool `json:"randomize_questions" yaml:"randomize_questions"`
	RandomizeOptions       bool `json:"randomize_options" yaml:"randomize_options"`

	// Custom header fields
	CustomFields []CustomField `json:"custom_fields" yaml:"custom_fields"`

	// Per-question answer spacing (question id -> millimeters)
	AnswerSpacing map[string]float64 `json:"answer_spacing" yaml:"answer_spacing"`

	// Per-image size overrides (image URL -> size)
	ImageSizes map[string]ImageSize `json:"image_sizes" yaml:"image_sizes"`

	// Header
	Header HeaderSettings `json:"header" yaml:"header"`
}

// DefaultExportSettings returns the settings used at application start
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		ShowLetterhead:          true,
		ShowSectionDuration:     true,
		ShowSectionMarks:        true,
		ColumnsPerPage:          1,
		PagePadding:             PagePaddingMedium,
		FontSize:                FontSizeMedium,
		RoughWork:               RoughWorkNone,
		RoughWorkSize:           RoughWorkSmall,
		ShowPageNumbers:         true,
		PageNumberPosition:      PageNumberCenter,
		QuestionPaperSets:       1,
		CustomFields:            defaultCustomFields(),
		AnswerSpacing:           map[string]float64{},
		ImageSizes:              map[string]ImageSize{},
		Header: HeaderSettings{
			Enabled: true,
			Center:  HeaderZone{Visible: true, FontSize: 16, Bold: true, Alignment: "center"},
			Left:    HeaderZone{FontSize: 11, Alignment: "left"},
			Right:   HeaderZone{FontSize: 11, Alignment: "right"},
		},
	}
}

func defaultCustomFields() []CustomField {
	return []CustomField{
		{Label: "Name", Enabled: true, Type: CustomFieldBlank},
		{Label: "Roll Number", Enabled: true, Type: CustomFieldBlocks, BlockCount: 10},
		{Label: "Date", Enabled: false, Type: CustomFieldBlank},
	}
}

// Clone returns a deep copy of the settings
func (s ExportSettings) Clone() ExportSettings {
	c := s
	if s.CustomFields != nil {
		c.CustomFields = make([]CustomField, len(s.CustomFields))
		copy(c.CustomFields, s.CustomFields)
	}
	if s.AnswerSpacing != nil {
		c.AnswerSpacing = make(map[string]float64, len(s.AnswerSpacing))
		for k, v := range s.AnswerSpacing {
			c.AnswerSpacing[k] = v
		}
	}
	if s.ImageSizes != nil {
		c.ImageSizes = make(map[string]ImageSize, len(s.ImageSizes))
		for k, v := range s.ImageSizes {
			c.ImageSizes[k] = v
		}
	}
	return c
}

// SettingsPatch is a partial ExportSettings update. Nil fields are left
// untouched by a merge; supplied fields overwrite as whole values.
type SettingsPatch struct {
	ShowLetterhead            *bool   `json:"show_letterhead,omitempty"`
	ShowFirstPageInstructions *bool   `json:"show_first_page_instructions,omitempty"`
	FirstPageInstructions     *string `json:"first_page_instructions,omitempty"`
	ShowSectionInstructions   *bool   `json:"show_section_instructions,omitempty"`
	ShowSectionDuration       *bool   `json:"show_section_duration,omitempty"`
	ShowSectionMarks          *bool   `json:"show_section_marks,omitempty"`
	ShowAdaptiveMarks         *bool   `json:"show_adaptive_marks,omitempty"`
	CheckboxesBeforeOptions   *bool   `json:"checkboxes_before_options,omitempty"`

	ColumnsPerPage *int                `json:"columns_per_page,omitempty"`
	PagePadding    *PagePadding        `json:"page_padding,omitempty"`
	FontSize       *FontSize           `json:"font_size,omitempty"`
	RoughWork      *RoughWorkPlacement `json:"rough_work,omitempty"`
	RoughWorkSize  *RoughWorkSize      `json:"rough_work_size,omitempty"`

	ShowPageNumbers    *bool               `json:"show_page_numbers,omitempty"`
	PageNumberPosition *PageNumberPosition `json:"page_number_position,omitempty"`

	QuestionPaperSets      *int  `json:"question_paper_sets,omitempty"`
	IncludeQuestionSetCode *bool `json:"include_question_set_code,omitempty"`
	RandomizeQuestions     *bool `json:"randomize_questions,omitempty"`
	RandomizeOptions       *bool `json:"randomize_options,omitempty"`

	CustomFields  []CustomField        `json:"custom_fields,omitempty"`
	AnswerSpacing map[string]float64   `json:"answer_spacing,omitempty"`
	ImageSizes    map[string]ImageSize `json:"image_sizes,omitempty"`

	Header *HeaderSettings `json:"header,omitempty"`
}
