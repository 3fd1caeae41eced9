package store

import (
	"sort"
	"sync"

	"github.com/paperforge/paperforge/internal/model"
	"github.com/paperforge/paperforge/pkg/errors"
	"github.com/paperforge/paperforge/pkg/idgen"
)

// PaperStore keeps the papers loaded into the process, keyed by ID.
type PaperStore interface {
	// Put stores a paper, assigning an ID when it has none, and returns the ID.
	Put(paper model.Paper) string
	// Get returns a deep copy of the paper with the given ID.
	Get(id string) (model.Paper, error)
	// List returns deep copies of all papers ordered by title.
	List() []model.Paper
	// Delete removes a paper. Deleting an unknown ID is a no-op.
	Delete(id string)
}

type paperStore struct {
	mu     sync.RWMutex
	papers map[string]model.Paper
}

// NewPaperStore creates an empty in-memory paper store.
func NewPaperStore() PaperStore {
	return &paperStore{papers: make(map[string]model.Paper)}
}

func (s *paperStore) Put(paper model.Paper) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if paper.ID == "" {
		paper.ID = idgen.NewPaperID()
	}
	s.papers[paper.ID] = paper.Clone()
	return paper.ID
}

func (s *paperStore) Get(id string) (model.Paper, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paper, ok := s.papers[id]
	if !ok {
		return model.Paper{}, errors.ErrNotFound("paper " + id)
	}
	return paper.Clone(), nil
}

func (s *paperStore) List() []model.Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Paper, 0, len(s.papers))
	for _, p := range s.papers {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

func (s *paperStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.papers, id)
}
