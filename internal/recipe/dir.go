package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*DirSource)(nil)

// DirSource serves the cook documents of a built site, one {id}.json per
// recipe. Files are read on every call so rebuilds are picked up.
type DirSource struct {
	dir string
	log *logger.Logger
}

// NewDirSource creates a source over dir (usually dist/recipes).
func NewDirSource(dir string, log *logger.Logger) *DirSource {
	return &DirSource{dir: dir, log: log}
}

// List returns summaries of every document in the directory.
func (s *DirSource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}

	var out []domain.RecipeSummary
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := domain.IDFromFilename(e.Name())
		r, err := s.Get(ctx, id)
		if err != nil {
			s.log.Warn("skipping %s: %v", e.Name(), err)
			continue
		}
		out = append(out, r.Summary(id))
	}
	sortSummaries(out)
	s.log.Debug("listed %d recipes in %s", len(out), s.dir)
	return out, nil
}

// Get reads and decodes {id}.json.
func (s *DirSource) Get(ctx context.Context, id string) (*domain.CookRecipe, error) {
	if err := domain.ValidateID(id); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading recipe %s: %w", id, err)
	}

	var r domain.CookRecipe
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding recipe %s: %w", id, err)
	}
	return &r, nil
}

// Search returns recipes whose title, description or tags contain query.
func (s *DirSource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var out []domain.RecipeSummary
	for _, sum := range all {
		r := &domain.CookRecipe{Title: sum.Title, Description: sum.Description, Tags: sum.Tags}
		if matches(r, q) {
			out = append(out, sum)
		}
	}
	return out, nil
}
