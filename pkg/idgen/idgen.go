// Package idgen provides ID generation utilities for the application.
// It encapsulates the ID generation implementation, making it easy to change
// the underlying ID generation strategy in the future.
package idgen

import (
	"github.com/rs/xid"
)

// NewID generates a new globally unique, sortable identifier.
// Returns a 20-character string using xid format.
// The generated ID is:
// - Globally unique
// - Sortable by creation time
// - URL-safe (base32 encoded)
// - 20 characters long
func NewID() string {
	return xid.New().String()
}

// NewJobID generates a unique ID for export Job entities.
// Currently an alias for NewID, but can be customized in the future
// (e.g., adding a prefix like "job_" for better identification).
func NewJobID() string {
	return NewID()
}

// NewImageRequestID generates a unique ID used to correlate image resolution
// requests with worker responses. Currently an alias for NewID.
func NewImageRequestID() string {
	return NewID()
}

// NewPaperID generates a unique ID for loaded Paper entities.
// Currently an alias for NewID.
func NewPaperID() string {
	return NewID()
}

// NewRequestID generates a unique ID for HTTP request tracking.
// Currently an alias for NewID.
func NewRequestID() string {
	return NewID()
}
