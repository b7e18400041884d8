package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*FileStore)(nil)

const lockName = ".recipebook.lock"

// FileStore keeps each document as {dir}/{id}.json. Writers in this and
// other processes are serialized with a lock file in dir; files are
// replaced atomically so readers never see a partial document.
type FileStore struct {
	mu   sync.Mutex // flock does not exclude goroutines sharing one handle
	dir  string
	lock *flock.Flock
	log  *logger.Logger
}

// NewFileStore creates a store rooted at dir, creating the directory if
// needed.
func NewFileStore(dir string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return &FileStore{
		dir:  dir,
		lock: flock.New(filepath.Join(dir, lockName)),
		log:  log,
	}, nil
}

// Path returns the file a document ID is stored in.
func (s *FileStore) Path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes doc as indented JSON.
func (s *FileStore) Save(ctx context.Context, id string, doc any) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}

	data, err := Encode(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", id, err)
	}

	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.dir, "."+id+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", id, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", id, err)
	}
	if err := os.Rename(tmpName, s.Path(id)); err != nil {
		return fmt.Errorf("replacing %s: %w", id, err)
	}

	s.log.Debug("saved %s (%d bytes)", s.Path(id), len(data))
	return nil
}

// Load decodes the document stored under id.
func (s *FileStore) Load(ctx context.Context, id string, into any) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("reading %s: %w", id, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding %s: %w", id, err)
	}
	return nil
}

// Delete removes the document stored under id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}

	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.Path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("deleting %s: %w", id, err)
	}
	s.log.Debug("deleted %s", s.Path(id))
	return nil
}

func (s *FileStore) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()
	ok, err := s.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("locking store: %w", err)
	}
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("locking store: lock not acquired")
	}
	return func() {
		if err := s.lock.Unlock(); err != nil {
			s.log.Warn("unlocking store: %v", err)
		}
		s.mu.Unlock()
	}, nil
}

// Encode renders a document the way every recipebook file is written:
// two-space indentation and a trailing newline.
func Encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
