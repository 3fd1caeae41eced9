// Package store provides in-memory state holders for the application.
// All state (settings, loaded papers) lives for the lifetime of the process;
// there is no durable persistence backend.
package store

// Store aggregates all state holders.
// It provides a single point of access for application state.
type Store interface {
	Settings() SettingsStore
	Papers() PaperStore
}

// memoryStore implements Store with in-memory holders.
type memoryStore struct {
	settingsStore SettingsStore
	paperStore    PaperStore
}

// NewStore creates a new Store instance.
func NewStore() Store {
	return &memoryStore{
		settingsStore: NewSettingsStore(),
		paperStore:    NewPaperStore(),
	}
}

func (s *memoryStore) Settings() SettingsStore {
	return s.settingsStore
}

func (s *memoryStore) Papers() PaperStore {
	return s.paperStore
}
