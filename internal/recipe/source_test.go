package recipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/storage"
)

func TestMemorySourceList(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	recipes, err := src.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recipes) != 2 {
		t.Fatalf("expected 2 recipes, got %d", len(recipes))
	}
	if recipes[0].Title != "Chicken Alfredo" {
		t.Fatalf("expected sorted by title, got %q first", recipes[0].Title)
	}
}

func TestMemorySourceGet(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		id        string
		wantSteps int
		wantErr   error
	}{
		{"chicken_alfredo", 8, nil},
		{"vegetable_stir_fry", 5, nil},
		{"nonexistent", 0, domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r, err := src.Get(ctx, tt.id)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(r.Steps) != tt.wantSteps {
				t.Fatalf("expected %d steps, got %d", tt.wantSteps, len(r.Steps))
			}
		})
	}
}

func TestMemorySourceSearch(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log)
	ctx := context.Background()

	tests := []struct {
		query string
		count int
	}{
		{"chicken", 1},
		{"PASTA", 1},
		{"vegan", 1},
		{"screaming hot", 1},
		{"nonexistent-query-xyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := src.Search(ctx, tt.query)
			if err != nil {
				t.Fatalf("search: %v", err)
			}
			if len(results) != tt.count {
				t.Fatalf("query=%q: expected %d results, got %d", tt.query, tt.count, len(results))
			}
		})
	}
}

func TestMemorySourcePutUpdate(t *testing.T) {
	src := NewEmptyMemorySource(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	if err := src.Update(ctx, "toast", &domain.CookRecipe{Title: "Toast"}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound on update of missing recipe, got %v", err)
	}
	if err := src.Put(ctx, "toast", &domain.CookRecipe{Title: "Toast"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := src.Update(ctx, "toast", &domain.CookRecipe{Title: "Better Toast"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	r, err := src.Get(ctx, "toast")
	if err != nil || r.Title != "Better Toast" {
		t.Fatalf("unexpected get result %+v, %v", r, err)
	}
	if err := src.Put(ctx, "../x", &domain.CookRecipe{}); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestDirSource(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	ctx := context.Background()
	dir := t.TempDir()

	store, err := storage.NewFileStore(dir, log)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	mem := NewMemorySource(log)
	for _, id := range []string{"chicken_alfredo", "vegetable_stir_fry"} {
		r, _ := mem.Get(ctx, id)
		if err := store.Save(ctx, id, r); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewDirSource(dir, log)

	list, err := src.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 recipes (broken skipped), got %d", len(list))
	}
	if list[1].ID != "vegetable_stir_fry" {
		t.Fatalf("unexpected order %+v", list)
	}

	r, err := src.Get(ctx, "vegetable_stir_fry")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if r.TotalMinutes() != 35 {
		t.Fatalf("expected 35 planned minutes, got %d", r.TotalMinutes())
	}

	if _, err := src.Get(ctx, "missing"); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	found, err := src.Search(ctx, "asian")
	if err != nil || len(found) != 1 {
		t.Fatalf("expected 1 search result, got %d (%v)", len(found), err)
	}
}
