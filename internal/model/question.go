// Package model defines the data models for the application.
// Question and Section data is immutable once loaded; layout and export
// operate on value copies so randomized paper sets never share state.
package model

import (
	"encoding/json"
)

// QuestionType identifies the kind of a question
type QuestionType string

// Supported question types
const (
	QuestionTypeMCQSingle   QuestionType = "MCQ_SINGLE_CORRECT"
	QuestionTypeMCQMultiple QuestionType = "MCQ_MULTIPLE_CORRECT"
	QuestionTypeTrueFalse   QuestionType = "TRUE_FALSE"
	QuestionTypeLongAnswer  QuestionType = "LONG_ANSWER"
	QuestionTypeShortAnswer QuestionType = "SHORT_ANSWER"
	QuestionTypeOneWord     QuestionType = "ONE_WORD"
	QuestionTypeNumeric     QuestionType = "NUMERIC"
)

// RichText wraps an HTML content fragment
type RichText struct {
	Content string `json:"content"`
}

// Option is a single answer option of a question
type Option struct {
	Text RichText `json:"text"`
}

// Question is a single exam question as supplied by the question-data
// collaborator. MarkingJSON is kept verbatim; TotalMark parses it on demand.
type Question struct {
	QuestionID    string       `json:"question_id"`
	Question      RichText     `json:"question"`
	Options       []Option     `json:"options"`
	MarkingJSON   string       `json:"marking_json"`
	QuestionType  QuestionType `json:"question_type"`
	QuestionOrder int          `json:"question_order"`
}

// markingPayload mirrors the relevant part of the marking_json document
type markingPayload struct {
	Data struct {
		TotalMark float64 `json:"totalMark"`
	} `json:"data"`
}

// TotalMark extracts data.totalMark from the marking payload.
// Returns 0 when the payload is absent or malformed.
func (q *Question) TotalMark() float64 {
	if q.MarkingJSON == "" {
		return 0
	}
	var p markingPayload
	if err := json.Unmarshal([]byte(q.MarkingJSON), &p); err != nil {
		return 0
	}
	return p.Data.TotalMark
}

// IsSubjective reports whether the question expects a handwritten answer,
// which is what answer spacing applies to.
func (q *Question) IsSubjective() bool {
	switch q.QuestionType {
	case QuestionTypeLongAnswer, QuestionTypeShortAnswer, QuestionTypeOneWord, QuestionTypeNumeric:
		return true
	}
	return false
}

// Clone returns a deep copy of the question.
func (q Question) Clone() Question {
	c := q
	if q.Options != nil {
		c.Options = make([]Option, len(q.Options))
		copy(c.Options, q.Options)
	}
	return c
}
