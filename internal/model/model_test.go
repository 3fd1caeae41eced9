package model

import (
	"testing"
)

func TestQuestion_TotalMark(t *testing.T) {
	tests := []struct {
		name    string
		marking string
		want    float64
	}{
		{"valid payload", `{"data":{"totalMark":4}}`, 4},
		{"fractional", `{"data":{"totalMark":2.5}}`, 2.5},
		{"empty payload", ``, 0},
		{"malformed json", `{"data":`, 0},
		{"missing field", `{"data":{}}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Question{MarkingJSON: tt.marking}
			if got := q.TotalMark(); got != tt.want {
				t.Errorf("TotalMark() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuestion_IsSubjective(t *testing.T) {
	subjective := []QuestionType{
		QuestionTypeLongAnswer,
		QuestionTypeShortAnswer,
		QuestionTypeOneWord,
		QuestionTypeNumeric,
	}
	for _, qt := range subjective {
		q := Question{QuestionType: qt}
		if !q.IsSubjective() {
			t.Errorf("IsSubjective() = false for %s, want true", qt)
		}
	}

	objective := []QuestionType{
		QuestionTypeMCQSingle,
		QuestionTypeMCQMultiple,
		QuestionTypeTrueFalse,
	}
	for _, qt := range objective {
		q := Question{QuestionType: qt}
		if q.IsSubjective() {
			t.Errorf("IsSubjective() = true for %s, want false", qt)
		}
	}
}

func TestQuestion_Clone(t *testing.T) {
	q := Question{
		QuestionID: "q1",
		Question:   RichText{Content: "<p>What is 2+2?</p>"},
		Options: []Option{
			{Text: RichText{Content: "3"}},
			{Text: RichText{Content: "4"}},
		},
	}

	c := q.Clone()
	c.Options[0].Text.Content = "changed"

	if q.Options[0].Text.Content != "3" {
		t.Error("Clone() shares option storage with the original")
	}
}

func TestSection_Clone(t *testing.T) {
	s := Section{
		ID:    "s1",
		Title: "Physics",
		Questions: []Question{
			{QuestionID: "q1"},
			{QuestionID: "q2"},
			{QuestionID: "q3"},
		},
	}

	c := s.Clone()
	c.Questions[0], c.Questions[2] = c.Questions[2], c.Questions[0]

	if s.Questions[0].QuestionID != "q1" || s.Questions[2].QuestionID != "q3" {
		t.Error("Clone() reorder leaked into the original section")
	}
}

func TestPaper_Clone(t *testing.T) {
	p := Paper{
		ID:    "paper-1",
		Title: "Midterm",
		Sections: []Section{
			{ID: "s1", Questions: []Question{{QuestionID: "q1"}, {QuestionID: "q2"}}},
			{ID: "s2", Questions: []Question{{QuestionID: "q3"}}},
		},
	}

	c := p.Clone()
	c.Sections[0].Questions[0].QuestionID = "mutated"
	c.Sections[1].Title = "renamed"

	if p.Sections[0].Questions[0].QuestionID != "q1" {
		t.Error("Clone() shares question storage with the original")
	}
	if p.Sections[1].Title != "" {
		t.Error("Clone() shares section storage with the original")
	}
}

func TestPaper_Aggregates(t *testing.T) {
	p := Paper{
		Sections: []Section{
			{TotalMarks: 20, Duration: 30, Questions: make([]Question, 5)},
			{TotalMarks: 30, Duration: 45, Questions: make([]Question, 7)},
		},
	}

	if got := p.TotalMarks(); got != 50 {
		t.Errorf("TotalMarks() = %v, want 50", got)
	}
	if got := p.Duration(); got != 75 {
		t.Errorf("Duration() = %v, want 75", got)
	}
	if got := p.QuestionCount(); got != 12 {
		t.Errorf("QuestionCount() = %v, want 12", got)
	}
}

func TestRoughWorkSize_HeightMM(t *testing.T) {
	tests := []struct {
		size RoughWorkSize
		want float64
	}{
		{RoughWorkSmall, 50},
		{RoughWorkMedium, 100},
		{RoughWorkLarge, 150},
		{RoughWorkSize("unknown"), 50},
	}

	for _, tt := range tests {
		if got := tt.size.HeightMM(); got != tt.want {
			t.Errorf("HeightMM(%s) = %v, want %v", tt.size, got, tt.want)
		}
	}
}

func TestDefaultExportSettings(t *testing.T) {
	s := DefaultExportSettings()

	if s.ColumnsPerPage != 1 {
		t.Errorf("ColumnsPerPage = %d, want 1", s.ColumnsPerPage)
	}
	if s.QuestionPaperSets != 1 {
		t.Errorf("QuestionPaperSets = %d, want 1", s.QuestionPaperSets)
	}
	if s.AnswerSpacing == nil {
		t.Error("AnswerSpacing map should be initialized")
	}
	if s.ImageSizes == nil {
		t.Error("ImageSizes map should be initialized")
	}
	if len(s.CustomFields) == 0 {
		t.Error("CustomFields should have defaults")
	}
	if !s.Header.Enabled {
		t.Error("Header should be enabled by default")
	}
}

func TestExportSettings_Clone(t *testing.T) {
	s := DefaultExportSettings()
	s.AnswerSpacing["q1"] = 25

	c := s.Clone()
	c.AnswerSpacing["q1"] = 99
	c.CustomFields[0].Label = "changed"
	c.ImageSizes["u"] = ImageSize{Width: 10, Height: 10}

	if s.AnswerSpacing["q1"] != 25 {
		t.Error("Clone() shares the answer-spacing map")
	}
	if s.CustomFields[0].Label == "changed" {
		t.Error("Clone() shares the custom-field slice")
	}
	if _, ok := s.ImageSizes["u"]; ok {
		t.Error("Clone() shares the image-size map")
	}
}
