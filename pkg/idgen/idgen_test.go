// Package idgen provides ID generation utilities for the application.
// This file contains unit tests for the idgen package.
package idgen

import (
	"regexp"
	"sync"
	"testing"
)

// TestNewID tests the NewID function
func TestNewID(t *testing.T) {
	t.Run("returns non-empty ID", func(t *testing.T) {
		id := NewID()
		if id == "" {
			t.Error("NewID() returned empty string")
		}
	})

	t.Run("returns 20 character ID", func(t *testing.T) {
		id := NewID()
		if len(id) != 20 {
			t.Errorf("NewID() returned ID with length %d, want 20", len(id))
		}
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		ids := make(map[string]bool)
		for i := 0; i < 1000; i++ {
			id := NewID()
			if ids[id] {
				t.Errorf("NewID() generated duplicate ID: %s", id)
			}
			ids[id] = true
		}
	})

	t.Run("generates URL-safe IDs", func(t *testing.T) {
		// xid uses base32 encoding which is URL-safe (alphanumeric)
		urlSafe := regexp.MustCompile(`^[a-z0-9]+$`)
		for i := 0; i < 100; i++ {
			id := NewID()
			if !urlSafe.MatchString(id) {
				t.Errorf("NewID() returned non-URL-safe ID: %s", id)
			}
		}
	})

	t.Run("IDs are sortable by creation time", func(t *testing.T) {
		// Generate IDs in sequence and verify they are in lexicographic order
		var prevID string
		for i := 0; i < 100; i++ {
			id := NewID()
			if prevID != "" && id <= prevID {
				t.Errorf("NewID() generated non-sortable IDs: %s <= %s", id, prevID)
			}
			prevID = id
		}
	})

	t.Run("concurrent generation is safe", func(t *testing.T) {
		var wg sync.WaitGroup
		ids := make(chan string, 1000)

		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					ids <- NewID()
				}
			}()
		}

		wg.Wait()
		close(ids)

		seen := make(map[string]bool)
		for id := range ids {
			if seen[id] {
				t.Errorf("Concurrent NewID() generated duplicate ID: %s", id)
			}
			seen[id] = true
		}
	})
}

// TestNewJobID tests the NewJobID function
func TestNewJobID(t *testing.T) {
	t.Run("returns valid ID", func(t *testing.T) {
		id := NewJobID()
		if id == "" {
			t.Error("NewJobID() returned empty string")
		}
		if len(id) != 20 {
			t.Errorf("NewJobID() returned ID with length %d, want 20", len(id))
		}
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		ids := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewJobID()
			if ids[id] {
				t.Errorf("NewJobID() generated duplicate ID: %s", id)
			}
			ids[id] = true
		}
	})
}

// TestNewImageRequestID tests the NewImageRequestID function
func TestNewImageRequestID(t *testing.T) {
	t.Run("returns valid ID", func(t *testing.T) {
		id := NewImageRequestID()
		if id == "" {
			t.Error("NewImageRequestID() returned empty string")
		}
		if len(id) != 20 {
			t.Errorf("NewImageRequestID() returned ID with length %d, want 20", len(id))
		}
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		ids := make(map[string]bool)
		for i := 0; i < 100; i++ {
			id := NewImageRequestID()
			if ids[id] {
				t.Errorf("NewImageRequestID() generated duplicate ID: %s", id)
			}
			ids[id] = true
		}
	})
}

// TestNewPaperID tests the NewPaperID function
func TestNewPaperID(t *testing.T) {
	t.Run("returns valid ID", func(t *testing.T) {
		id := NewPaperID()
		if id == "" {
			t.Error("NewPaperID() returned empty string")
		}
		if len(id) != 20 {
			t.Errorf("NewPaperID() returned ID with length %d, want 20", len(id))
		}
	})
}
