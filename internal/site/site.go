// Package site builds the static recipe site: it copies the client assets
// into the dist directory and renders every recipe file into the JSON
// documents the pages fetch.
package site

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/recipe"
	"github.com/hammamikhairi/recipebook/internal/storage"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

// Options describes one build.
type Options struct {
	RecipeDir string
	ClientDir string
	DistDir   string

	// CookPrefix and DetailPrefix are the dist subdirectories for cook and
	// detail documents, e.g. "recipes/" and "".
	CookPrefix   string
	DetailPrefix string

	// WriteDetail also emits the detail document for every recipe.
	WriteDetail bool
	// Validate checks documents before they are written.
	Validate bool
	// Pattern selects recipe files by base name; empty means all.
	Pattern string
	// Workers bounds concurrent parsing; zero means 4.
	Workers int
}

// Report summarizes a build.
type Report struct {
	AssetsCopied int
	Recipes      []domain.RecipeSummary
}

// Builder renders recipe files into a site.
type Builder struct {
	log      *logger.Logger
	validate *validator.Validate
}

// NewBuilder creates a site builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type parsed struct {
	id  string
	doc *domain.CookRecipe
}

// Build performs a full build. A recipe that fails to parse or validate
// aborts the build with an error naming its file; assets copied before the
// failure are left in place.
func (b *Builder) Build(ctx context.Context, opts Options) (*Report, error) {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Pattern == "" {
		opts.Pattern = "*"
	}

	if err := os.MkdirAll(opts.DistDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dist directory: %w", err)
	}

	copied, err := b.copyAssets(opts.ClientDir, opts.DistDir)
	if err != nil {
		return nil, err
	}

	files, err := b.recipeFiles(opts.RecipeDir, opts.Pattern)
	if err != nil {
		return nil, err
	}

	docs, err := b.parseAll(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	cookStore, err := storage.NewFileStore(prefixDir(opts.DistDir, opts.CookPrefix), b.log)
	if err != nil {
		return nil, err
	}
	var detailStore *storage.FileStore
	if opts.WriteDetail {
		if detailStore, err = storage.NewFileStore(prefixDir(opts.DistDir, opts.DetailPrefix), b.log); err != nil {
			return nil, err
		}
	}

	report := &Report{AssetsCopied: copied}
	for _, p := range docs {
		if err := cookStore.Save(ctx, p.id, p.doc); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.id, err)
		}
		if detailStore != nil {
			if err := detailStore.Save(ctx, p.id, DetailDocument(p.doc)); err != nil {
				return nil, fmt.Errorf("writing detail %s: %w", p.id, err)
			}
		}
		report.Recipes = append(report.Recipes, p.doc.Summary(p.id))
	}

	sort.Slice(report.Recipes, func(i, j int) bool {
		if report.Recipes[i].Title != report.Recipes[j].Title {
			return report.Recipes[i].Title < report.Recipes[j].Title
		}
		return report.Recipes[i].ID < report.Recipes[j].ID
	})

	if err := writeList(filepath.Join(opts.DistDir, viewmodel.ListDocument), report.Recipes); err != nil {
		return nil, err
	}

	b.log.Info("built %d recipes, copied %d assets into %s", len(report.Recipes), copied, opts.DistDir)
	return report, nil
}

func (b *Builder) parseAll(ctx context.Context, files []string, opts Options) ([]parsed, error) {
	out := make([]parsed, len(files))
	seen := make(map[string]string, len(files))
	for i, path := range files {
		id := domain.IDFromFilename(path)
		if prev, ok := seen[id]; ok {
			return nil, fmt.Errorf("%s and %s both map to recipe id %q", prev, path, id)
		}
		seen[id] = path
		out[i].id = id
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := recipe.ParseFile(path)
			if err != nil {
				return err
			}
			if opts.Validate {
				if err := b.validate.Struct(doc); err != nil {
					return fmt.Errorf("%s: %w: %w", path, domain.ErrMalformedRecipe, err)
				}
			}
			b.log.Debug("parsed %s (%d steps)", path, len(doc.Steps))
			out[i].doc = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *Builder) recipeFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading recipe directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		ok, err := filepath.Match(pattern, e.Name())
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", pattern, err)
		}
		if ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// copyAssets copies the regular files directly inside src into dst. A
// missing src directory copies nothing.
func (b *Builder) copyAssets(src, dst string) (int, error) {
	if src == "" {
		return 0, nil
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.log.Warn("client directory %s does not exist, no assets copied", src)
			return 0, nil
		}
		return 0, fmt.Errorf("reading client directory: %w", err)
	}

	copied := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := copyFile(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}

func writeList(path string, summaries []domain.RecipeSummary) error {
	if summaries == nil {
		summaries = []domain.RecipeSummary{}
	}
	data, err := storage.Encode(summaries)
	if err != nil {
		return fmt.Errorf("encoding recipe list: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing recipe list: %w", err)
	}
	return nil
}

func prefixDir(dist, prefix string) string {
	return filepath.Join(dist, filepath.FromSlash(strings.TrimSuffix(prefix, "/")))
}

// DetailDocument projects a cook document onto the detail shape.
func DetailDocument(doc *domain.CookRecipe) domain.Recipe {
	tags := doc.Tags
	if tags == nil {
		tags = []string{}
	}
	steps := make([]domain.Step, 0, len(doc.Steps))
	for _, s := range doc.Steps {
		ingredients := s.Ingredients
		if ingredients == nil {
			ingredients = []string{}
		}
		steps = append(steps, domain.Step{
			Ingredients:  ingredients,
			Instructions: s.Instructions,
			Duration:     s.Duration,
		})
	}
	return domain.Recipe{
		Title:       doc.Title,
		Description: doc.Description,
		Tags:        tags,
		Steps:       steps,
	}
}
