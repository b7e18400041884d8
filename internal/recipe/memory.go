package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory. Safe for concurrent reads.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.CookRecipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source preloaded with the built-in
// sample recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := NewEmptyMemorySource(log)
	src.seed()
	return src
}

// NewEmptyMemorySource creates a recipe source with no recipes.
func NewEmptyMemorySource(log *logger.Logger) *MemorySource {
	return &MemorySource{
		recipes: make(map[string]*domain.CookRecipe),
		log:     log,
	}
}

// List returns summaries of all available recipes, sorted by title.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.log.Debug("listing all recipes, count=%d", len(s.recipes))

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for id, r := range s.recipes {
		out = append(out, r.Summary(id))
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a recipe by ID.
func (s *MemorySource) Get(ctx context.Context, id string) (*domain.CookRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Put adds or replaces a recipe.
func (s *MemorySource) Put(ctx context.Context, id string, recipe *domain.CookRecipe) error {
	if err := domain.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipes[id] = recipe
	s.log.Info("recipe stored: %s (%s)", recipe.Title, id)
	return nil
}

// Update replaces a recipe in the source. The recipe ID must already exist.
func (s *MemorySource) Update(ctx context.Context, id string, recipe *domain.CookRecipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return domain.ErrNotFound
	}
	s.recipes[id] = recipe
	s.log.Info("recipe updated: %s (%s)", recipe.Title, id)
	return nil
}

// Search returns recipes whose title, description or tags contain the
// query string, case-insensitively.
func (s *MemorySource) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(query)
	s.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for id, r := range s.recipes {
		if matches(r, q) {
			out = append(out, r.Summary(id))
		}
	}
	sortSummaries(out)
	return out, nil
}

func matches(r *domain.CookRecipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortSummaries(out []domain.RecipeSummary) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
}

// seed populates the source with the built-in samples.
func (s *MemorySource) seed() {
	for id, text := range Samples() {
		r, err := Parse(strings.NewReader(text))
		if err != nil {
			// Samples are compiled in; a failure here is a programming error.
			panic(fmt.Sprintf("sample %s: %v", id, err))
		}
		s.recipes[id] = r
	}
	s.log.Debug("seeded %d recipes", len(s.recipes))
}

// Samples returns the built-in sample recipes in the plain-text format,
// keyed by recipe ID.
func Samples() map[string]string {
	return map[string]string{
		"chicken_alfredo":    chickenAlfredo,
		"vegetable_stir_fry": vegetableStirFry,
	}
}

const chickenAlfredo = `Chicken Alfredo
Creamy spaghetti alfredo with pan-seared chicken. Rich, indulgent, and not from a jar.
tags: italian, pasta, chicken, comfort

+ large pot
@ 8
Bring a large pot of salted water to a boil for the pasta.
It should taste like the sea.

- 2 medium chicken breasts
- salt and black pepper
Season the chicken on both sides. Pound to even thickness
so the thin end does not dry out before the thick end is done.

- 1 tablespoon olive oil
+ skillet
@ 12
Sear the chicken about 6 minutes per side until golden and 165 F inside.
Set aside to rest.

- 250 grams spaghetti
@ 10
Cook the spaghetti until al dente. Reserve a cup of pasta water before draining.

- 3 tablespoons margarine
- 4 cloves garlic, minced
@ 1
Melt the margarine in the skillet and cook the garlic until fragrant.

- 1 cup creme fraiche
@ 3
Stir in the creme fraiche and simmer until it coats a spoon.

- 1 cup grated gruyere
+ reserved pasta water
Off the heat, stir in the gruyere until smooth. Loosen with pasta water.

+ rested chicken
Slice the chicken, toss the pasta in the sauce, and serve immediately.
`

const vegetableStirFry = `Vegetable Stir Fry
Fast, crunchy, and customizable. The key is a screaming hot pan.
tags: asian, vegetables, quick, vegan

- 1 cup rice
+ rice cooker
@ 0:20
Start the rice before you touch anything else.

- 1 large bell pepper
- 2 cups broccoli florets
- 1 medium carrot
- 1 cup snap peas
- 3 cloves garlic
- 1 tablespoon grated ginger
@ 10
Prep every vegetable before the pan goes on.

- 2 tablespoons soy sauce
- 1 tablespoon sesame oil
- 1 teaspoon cornstarch
Mix the sauce with 2 tablespoons of water.

- 2 tablespoons vegetable oil
+ wok
@ 4
Heat the wok until it smokes. Stir-fry broccoli and carrot for 2 minutes,
then peppers and snap peas for 2 more.

@ 1
Add garlic and ginger, then the sauce. Toss until glossy and serve over rice.
`
