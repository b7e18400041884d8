package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/fetch"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/recipe"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setupProject(t *testing.T) Options {
	t.Helper()
	root := t.TempDir()
	opts := Options{
		RecipeDir:   filepath.Join(root, "recipes"),
		ClientDir:   filepath.Join(root, "client"),
		DistDir:     filepath.Join(root, "dist"),
		CookPrefix:  "recipes/",
		WriteDetail: true,
		Validate:    true,
	}
	for id, text := range recipe.Samples() {
		writeFile(t, filepath.Join(opts.RecipeDir, id+".txt"), text)
	}
	writeFile(t, filepath.Join(opts.RecipeDir, ".draft.txt"), "ignored")
	writeFile(t, filepath.Join(opts.ClientDir, "index.html"), "<html></html>")
	writeFile(t, filepath.Join(opts.ClientDir, "recipe.js"), "// js")
	writeFile(t, filepath.Join(opts.ClientDir, "nested", "skip.css"), "")
	return opts
}

func TestBuild(t *testing.T) {
	opts := setupProject(t)
	b := NewBuilder(logger.New(logger.LevelOff, nil))

	report, err := b.Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.AssetsCopied != 2 {
		t.Fatalf("expected 2 assets copied, got %d", report.AssetsCopied)
	}
	if len(report.Recipes) != 2 || report.Recipes[0].ID != "chicken_alfredo" {
		t.Fatalf("unexpected recipes %+v", report.Recipes)
	}

	for _, rel := range []string{
		"index.html",
		"recipe.js",
		"recipe_list.json",
		"recipes/chicken_alfredo.json",
		"recipes/vegetable_stir_fry.json",
		"chicken_alfredo.json",
		"vegetable_stir_fry.json",
	} {
		if _, err := os.Stat(filepath.Join(opts.DistDir, filepath.FromSlash(rel))); err != nil {
			t.Fatalf("expected %s in dist: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(opts.DistDir, "nested")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected nested client dir not copied, got %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(opts.DistDir, "recipe_list.json"))
	if err != nil {
		t.Fatal(err)
	}
	var list []domain.RecipeSummary
	if err := json.Unmarshal(raw, &list); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(list) != 2 || list[1].Title != "Vegetable Stir Fry" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestBuildOutputLoadsInViewModels(t *testing.T) {
	opts := setupProject(t)
	log := logger.New(logger.LevelOff, nil)
	if _, err := NewBuilder(log).Build(context.Background(), opts); err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx := context.Background()
	fetcher := fetch.NewDirFetcher(opts.DistDir, log)

	detail := viewmodel.NewRecipeViewModel("vegetable_stir_fry", fetcher)
	if err := detail.Load(ctx); err != nil {
		t.Fatalf("detail load: %v", err)
	}
	first, _ := detail.Steps.At(0)
	if first.Duration.Get() != "20" {
		t.Fatalf("expected first step duration 20, got %q", first.Duration.Get())
	}

	cook := viewmodel.NewCookViewModel("chicken_alfredo", fetcher)
	if err := cook.Load(ctx); err != nil {
		t.Fatalf("cook load: %v", err)
	}
	if _, total := cook.Progress(); total != 8 {
		t.Fatalf("expected 8 cook steps, got %d", total)
	}

	list := viewmodel.NewListViewModel(fetcher)
	if err := list.Load(ctx); err != nil {
		t.Fatalf("list load: %v", err)
	}
	sums, err := list.Summaries()
	if err != nil || len(sums) != 2 {
		t.Fatalf("unexpected summaries %v, %v", sums, err)
	}
}

func TestBuildReportsBadRecipe(t *testing.T) {
	opts := setupProject(t)
	writeFile(t, filepath.Join(opts.RecipeDir, "broken.txt"), "Soup\n\n@ whenever\nStir.\n")

	_, err := NewBuilder(logger.New(logger.LevelOff, nil)).Build(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "broken.txt") {
		t.Fatalf("expected error naming broken.txt, got %v", err)
	}
	if !errors.Is(err, domain.ErrMalformedRecipe) {
		t.Fatalf("expected ErrMalformedRecipe, got %v", err)
	}
}

func TestBuildPatternAndIDCollision(t *testing.T) {
	opts := setupProject(t)
	opts.Pattern = "chicken*"
	opts.WriteDetail = false

	report, err := NewBuilder(logger.New(logger.LevelOff, nil)).Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(report.Recipes) != 1 {
		t.Fatalf("expected 1 recipe, got %d", len(report.Recipes))
	}
	if _, err := os.Stat(filepath.Join(opts.DistDir, "chicken_alfredo.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no detail document, got %v", err)
	}

	opts.Pattern = ""
	writeFile(t, filepath.Join(opts.RecipeDir, "chicken_alfredo.md"), "Other\n")
	if _, err := NewBuilder(logger.New(logger.LevelOff, nil)).Build(context.Background(), opts); err == nil {
		t.Fatal("expected id collision error")
	}
}

func TestBuildMissingClientDir(t *testing.T) {
	opts := setupProject(t)
	opts.ClientDir = filepath.Join(t.TempDir(), "none")
	report, err := NewBuilder(logger.New(logger.LevelOff, nil)).Build(context.Background(), opts)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if report.AssetsCopied != 0 {
		t.Fatalf("expected no assets, got %d", report.AssetsCopied)
	}
}

func TestDetailDocument(t *testing.T) {
	d := DetailDocument(&domain.CookRecipe{
		Title: "Toast",
		Steps: []domain.CookStep{{OtherInputs: []string{"toaster"}, Instructions: "Toast.", Duration: 3}},
	})
	if d.Tags == nil || len(d.Steps) != 1 || d.Steps[0].Ingredients == nil || d.Steps[0].Duration != 3 {
		t.Fatalf("unexpected detail document %+v", d)
	}
}

func TestWatchRebuildsOnChange(t *testing.T) {
	opts := setupProject(t)
	b := NewBuilder(logger.New(logger.LevelOff, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan *Report, 4)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, opts, 20*time.Millisecond, func(r *Report, err error) {
			if err == nil {
				builds <- r
			}
		})
	}()

	// Give the watcher a moment to register before touching files.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(opts.RecipeDir, "toast.txt"), []byte("Toast\n\nToast the bread.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case r := <-builds:
		found := false
		for _, s := range r.Recipes {
			if s.ID == "toast" {
				found = true
			}
		}
		if !found {
			t.Fatalf("rebuild did not include new recipe: %+v", r.Recipes)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}
