package store

import (
	"context"
	"errors"
)

// DefaultBlobKey is the key the aggregate database blob lives under.
// It matches the key the original front end used, so a blob exported
// from the browser can be imported as-is.
const DefaultBlobKey = "seiso_marketing_db_v1"

// ErrNotFound is returned by Load when no blob has been saved yet.
var ErrNotFound = errors.New("store: blob not found")

// BlobStore persists the whole database as one opaque JSON blob under a
// single key. Save overwrites; Load returns ErrNotFound when absent.
type BlobStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}
