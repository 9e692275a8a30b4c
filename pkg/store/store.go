// Package store archives composed banner documents.
//
// Every pipeline run can be recorded as a [Record]: the brief, the target
// resolution, the final document, and its validation outcome. Backends:
//   - file: JSON files under the user config directory, for CLI use
//   - mongo: a MongoDB collection, for the API server
//
// The document itself is stored as raw JSON bytes rather than a decoded
// structure, so archived documents round-trip byte-exact regardless of
// backend encoding rules.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors for archive operations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")
)

// Record is one archived composition run.
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	Brief      string          `json:"brief" bson:"brief"`
	Width      int             `json:"width" bson:"width"`
	Height     int             `json:"height" bson:"height"`
	Valid      bool            `json:"valid" bson:"valid"`
	Violations []string        `json:"violations,omitempty" bson:"violations,omitempty"`
	Document   json.RawMessage `json:"document" bson:"document"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
}

// NewRecord creates a record with a fresh ID and timestamp.
func NewRecord(brief string, width, height int, document []byte, valid bool, violations []string) *Record {
	return &Record{
		ID:         uuid.New().String(),
		Brief:      brief,
		Width:      width,
		Height:     height,
		Valid:      valid,
		Violations: violations,
		Document:   json.RawMessage(document),
		CreatedAt:  time.Now().UTC(),
	}
}

// Store is the interface for archive backends.
type Store interface {
	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores a record, replacing any existing record with the same ID.
	Put(ctx context.Context, rec *Record) error

	// List returns up to limit records, newest first. A limit of 0 means
	// no limit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Delete removes a record. Deleting a missing record is not an error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
