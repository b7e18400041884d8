// Package fetch provides document fetchers for the view models: one that
// reads a built site from disk and one that talks to an HTTP origin.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.Fetcher = (*DirFetcher)(nil)

// DirFetcher reads documents relative to a root directory.
type DirFetcher struct {
	root string
	log  *logger.Logger
}

// NewDirFetcher creates a fetcher rooted at dir.
func NewDirFetcher(dir string, log *logger.Logger) *DirFetcher {
	return &DirFetcher{root: dir, log: log}
}

// Fetch reads name (slash separated) below the root. Names that would
// leave the root are rejected.
func (f *DirFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetch, name, err)
	}

	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return nil, fmt.Errorf("%w: %s: path escapes root", domain.ErrFetch, name)
	}

	path := filepath.Join(f.root, rel)
	f.log.Debug("reading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetch, name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrFetch, name, err)
	}
	return data, nil
}
