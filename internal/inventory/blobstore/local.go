package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// ErrObjectNotFound is returned when no blob was uploaded under a path
var ErrObjectNotFound = errors.New("object not found")

// Metadata describes one stored blob
type Metadata struct {
	Path        string    `json:"path"`
	Hash        string    `json:"hash"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// LocalStore keeps blobs as files under root and their metadata in badger.
// Download URLs point at baseURL, where FileHandler serves the blobs.
type LocalStore struct {
	root    string
	baseURL string
	db      *badger.DB
	mu      sync.RWMutex
}

func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	opts := badger.DefaultOptions(filepath.Join(root, "objects_badger"))
	opts.Logger = nil // Disable badger logging
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		db:      db,
	}, nil
}

func hashPath(path string) string {
	sum := sha256.Sum256([]byte(path))
	return hex.EncodeToString(sum[:])
}

// Upload writes data under path, replacing any previous blob at that path
func (s *LocalStore) Upload(ctx context.Context, path string, data io.Reader, contentType string) (domain.ObjectHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := hashPath(path)
	size, err := s.writeFile(hash, data)
	if err != nil {
		return domain.ObjectHandle{}, err
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	metadata := Metadata{
		Path:        path,
		Hash:        hash,
		Size:        size,
		ContentType: contentType,
		UploadedAt:  time.Now(),
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		return txn.Set([]byte(path), raw)
	})
	if err != nil {
		return domain.ObjectHandle{}, err
	}

	return domain.ObjectHandle{Path: path, Size: size, ContentType: contentType}, nil
}

// writeFile streams data into a temp file and renames it over the blob named
// hash only once every byte is flushed. A failed write leaves no partial file
// and keeps any previous blob.
func (s *LocalStore) writeFile(hash string, data io.Reader) (int64, error) {
	tmp, err := os.CreateTemp(s.root, hash+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	tmpPath := tmp.Name()

	size, err := io.Copy(tmp, data)
	if err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpPath, filepath.Join(s.root, hash)); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("failed to store file: %w", err)
	}
	return size, nil
}

// DownloadURL resolves the public URL of an uploaded blob
func (s *LocalStore) DownloadURL(ctx context.Context, handle domain.ObjectHandle) (string, error) {
	if _, err := s.Metadata(handle.Path); err != nil {
		return "", err
	}

	segments := strings.Split(handle.Path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return s.baseURL + "/" + strings.Join(segments, "/"), nil
}

// Metadata looks up the stored metadata for path
func (s *LocalStore) Metadata(path string) (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata(path)
}

func (s *LocalStore) metadata(path string) (*Metadata, error) {
	var metadata Metadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(path))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", ErrObjectNotFound, path)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &metadata)
		})
	})
	if err != nil {
		return nil, err
	}
	return &metadata, nil
}

// Open returns the blob stored under path together with its metadata
func (s *LocalStore) Open(path string) (*os.File, *Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metadata, err := s.metadata(path)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(filepath.Join(s.root, metadata.Hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, metadata, nil
}

// Close closes the metadata database
func (s *LocalStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
