package domain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
)

// Store failure classes. Adapters wrap the underlying error with one of these.
var (
	ErrNotFound          = errors.New("document not found")
	ErrStoreReadFailure  = errors.New("store read failure")
	ErrStoreWriteFailure = errors.New("store write failure")
	ErrUploadFailure     = errors.New("upload failure")
)

// Fields is a schemaless document body
type Fields map[string]any

// Int reads a numeric field regardless of how the backend decoded it
func (f Fields) Int(name string) (int, bool) {
	switch v := f[name].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// String reads a string field, returning "" when it is absent or not a string
func (f Fields) String(name string) string {
	s, _ := f[name].(string)
	return s
}

// Merge copies every field of update over a copy of f
func (f Fields) Merge(update Fields) Fields {
	merged := make(Fields, len(f)+len(update))
	for k, v := range f {
		merged[k] = v
	}
	for k, v := range update {
		merged[k] = v
	}
	return merged
}

// Document is one stored record together with its key
type Document struct {
	Key    string
	Fields Fields
}

// DocumentStore defines the contract for the external document database
type DocumentStore interface {
	ListAll(ctx context.Context, collection string) ([]Document, error)
	// Get returns ErrNotFound when no record exists for key
	Get(ctx context.Context, collection, key string) (Fields, error)
	// Set replaces the record, or with merge only overwrites the given fields
	Set(ctx context.Context, collection, key string, fields Fields, merge bool) error
	// Delete is a no-op for a missing key
	Delete(ctx context.Context, collection, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// ObjectHandle identifies an uploaded blob
type ObjectHandle struct {
	Path        string
	Size        int64
	ContentType string
}

// ObjectStore defines the contract for the external blob storage
type ObjectStore interface {
	Upload(ctx context.Context, path string, data io.Reader, contentType string) (ObjectHandle, error)
	DownloadURL(ctx context.Context, handle ObjectHandle) (string, error)
}
