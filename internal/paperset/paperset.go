// Package paperset expands one section list into multiple independently
// orderable paper sets for multi-version exam printing.
package paperset

import (
	"math/rand"

	"github.com/paperforge/paperforge/internal/model"
)

const (
	minSets = 1
	maxSets = 3
)

// MakeSets produces clamp(settings.QuestionPaperSets, 1, 3) paper sets.
// With question randomization enabled each set carries an independently
// shuffled deep copy of every section; the input is never mutated and no
// slices are shared between sets. Option randomization permutes each
// question's option order per set.
func MakeSets(sections []model.Section, settings model.ExportSettings) []model.PaperSet {
	count := clampSets(settings.QuestionPaperSets)

	sets := make([]model.PaperSet, 0, count)
	for n := 0; n < count; n++ {
		cloned := make([]model.Section, len(sections))
		for i := range sections {
			cloned[i] = sections[i].Clone()
			if settings.RandomizeQuestions {
				shuffleQuestions(cloned[i].Questions)
			}
			if settings.RandomizeOptions {
				for j := range cloned[i].Questions {
					shuffleOptions(cloned[i].Questions[j].Options)
				}
			}
		}
		sets = append(sets, model.PaperSet{SetNumber: n, Sections: cloned})
	}
	return sets
}

// SetLetter maps a set number to its display letter: 0 is A, 1 is B and
// so on.
func SetLetter(setNumber int) string {
	if setNumber < 0 {
		setNumber = 0
	}
	var letters []byte
	for {
		letters = append([]byte{byte('A' + setNumber%26)}, letters...)
		setNumber = setNumber/26 - 1
		if setNumber < 0 {
			break
		}
	}
	return string(letters)
}

func clampSets(n int) int {
	if n < minSets {
		return minSets
	}
	if n > maxSets {
		return maxSets
	}
	return n
}

// shuffleQuestions is a uniform Fisher–Yates shuffle in place.
func shuffleQuestions(qs []model.Question) {
	rand.Shuffle(len(qs), func(i, j int) {
		qs[i], qs[j] = qs[j], qs[i]
	})
}

func shuffleOptions(opts []model.Option) {
	rand.Shuffle(len(opts), func(i, j int) {
		opts[i], opts[j] = opts[j], opts[i]
	})
}
