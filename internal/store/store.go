package store

import (
    "context"
    "errors"
)

// Store is the key-value collaborator that durably mirrors the board's trip
// list document. The board keeps the authoritative copy in memory; a Store
// only has to hand back the last document it accepted.
type Store interface {
    // Load returns the last saved document, or ErrAbsent if none was saved.
    Load(ctx context.Context) ([]byte, error)
    // Save replaces the saved document.
    Save(ctx context.Context, doc []byte) error
    // Ping checks the backend is reachable.
    Ping(ctx context.Context) error
    // Name identifies the backend in logs and /debug.
    Name() string
}

var ErrAbsent = errors.New("no saved document")
