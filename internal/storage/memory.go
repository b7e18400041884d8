// Package storage provides recipe document store implementations.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory document store. Safe for concurrent access.
// Documents are kept as encoded JSON so callers never share state with it.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
	log  *logger.Logger
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		docs: make(map[string][]byte),
		log:  log,
	}
}

// Save encodes and stores a document. Overwrites if it already exists.
func (s *MemoryStore) Save(ctx context.Context, id string, doc any) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("saving document %s (%d bytes)", id, len(data))
	s.docs[id] = data
	return nil
}

// Load decodes the document stored under id into into.
func (s *MemoryStore) Load(ctx context.Context, id string, into any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.docs[id]
	if !ok {
		s.log.Debug("document not found: %s", id)
		return domain.ErrNotFound
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decoding %s: %w", id, err)
	}
	return nil
}

// Delete removes a document by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.docs, id)
	s.log.Debug("deleted document %s", id)
	return nil
}

// IDs returns the stored document IDs in sorted order.
func (s *MemoryStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.docs))
	for id := range s.docs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
