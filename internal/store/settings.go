package store

import (
	"sync"

	"github.com/paperforge/paperforge/internal/model"
)

// SettingsStore holds the export configuration aggregate.
// Merge never removes keys: a patch is a shallow overwrite of supplied
// fields only. Concurrent writers are last-write-wins under the mutex.
type SettingsStore interface {
	// Get returns a deep copy of the current settings.
	Get() model.ExportSettings
	// Merge applies a partial update. Nil patch fields are ignored;
	// supplied fields (including slices and maps) replace as whole values.
	Merge(patch model.SettingsPatch) model.ExportSettings
	// Replace swaps the whole aggregate.
	Replace(settings model.ExportSettings)
	// Reset restores the defaults.
	Reset()
}

// settingsStore implements SettingsStore with a mutex-guarded value.
type settingsStore struct {
	mu       sync.RWMutex
	settings model.ExportSettings
}

// NewSettingsStore creates a settings store seeded with defaults.
func NewSettingsStore() SettingsStore {
	return &settingsStore{settings: model.DefaultExportSettings()}
}

func (s *settingsStore) Get() model.ExportSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

func (s *settingsStore) Replace(settings model.ExportSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings.Clone()
}

func (s *settingsStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = model.DefaultExportSettings()
}

func (s *settingsStore) Merge(patch model.SettingsPatch) model.ExportSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := &s.settings

	cur.ShowLetterhead = mergeBool(patch.ShowLetterhead, cur.ShowLetterhead)
	cur.ShowFirstPageInstructions = mergeBool(patch.ShowFirstPageInstructions, cur.ShowFirstPageInstructions)
	cur.FirstPageInstructions = mergeString(patch.FirstPageInstructions, cur.FirstPageInstructions)
	cur.ShowSectionInstructions = mergeBool(patch.ShowSectionInstructions, cur.ShowSectionInstructions)
	cur.ShowSectionDuration = mergeBool(patch.ShowSectionDuration, cur.ShowSectionDuration)
	cur.ShowSectionMarks = mergeBool(patch.ShowSectionMarks, cur.ShowSectionMarks)
	cur.ShowAdaptiveMarks = mergeBool(patch.ShowAdaptiveMarks, cur.ShowAdaptiveMarks)
	cur.CheckboxesBeforeOptions = mergeBool(patch.CheckboxesBeforeOptions, cur.CheckboxesBeforeOptions)

	cur.ColumnsPerPage = mergeInt(patch.ColumnsPerPage, cur.ColumnsPerPage)
	if patch.PagePadding != nil {
		cur.PagePadding = *patch.PagePadding
	}
	if patch.FontSize != nil {
		cur.FontSize = *patch.FontSize
	}
	if patch.RoughWork != nil {
		cur.RoughWork = *patch.RoughWork
	}
	if patch.RoughWorkSize != nil {
		cur.RoughWorkSize = *patch.RoughWorkSize
	}

	cur.ShowPageNumbers = mergeBool(patch.ShowPageNumbers, cur.ShowPageNumbers)
	if patch.PageNumberPosition != nil {
		cur.PageNumberPosition = *patch.PageNumberPosition
	}

	cur.QuestionPaperSets = mergeInt(patch.QuestionPaperSets, cur.QuestionPaperSets)
	cur.IncludeQuestionSetCode = mergeBool(patch.IncludeQuestionSetCode, cur.IncludeQuestionSetCode)
	cur.RandomizeQuestions = mergeBool(patch.RandomizeQuestions, cur.RandomizeQuestions)
	cur.RandomizeOptions = mergeBool(patch.RandomizeOptions, cur.RandomizeOptions)

	// Slices and maps replace wholesale when supplied
	if patch.CustomFields != nil {
		cur.CustomFields = make([]model.CustomField, len(patch.CustomFields))
		copy(cur.CustomFields, patch.CustomFields)
	}
	if patch.AnswerSpacing != nil {
		cur.AnswerSpacing = make(map[string]float64, len(patch.AnswerSpacing))
		for k, v := range patch.AnswerSpacing {
			cur.AnswerSpacing[k] = v
		}
	}
	if patch.ImageSizes != nil {
		cur.ImageSizes = make(map[string]model.ImageSize, len(patch.ImageSizes))
		for k, v := range patch.ImageSizes {
			cur.ImageSizes[k] = v
		}
	}

	if patch.Header != nil {
		cur.Header = *patch.Header
	}

	return cur.Clone()
}

// mergeBool returns *override when non-nil, otherwise base
func mergeBool(override *bool, base bool) bool {
	if override != nil {
		return *override
	}
	return base
}

// mergeInt returns *override when non-nil, otherwise base
func mergeInt(override *int, base int) int {
	if override != nil {
		return *override
	}
	return base
}

// mergeString returns *override when non-nil, otherwise base
func mergeString(override *string, base string) string {
	if override != nil {
		return *override
	}
	return base
}
