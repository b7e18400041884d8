package viewmodel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/observable"
)

// RecipeViewModel holds a full editable recipe.
type RecipeViewModel struct {
	ID          string
	Title       *observable.Value[string]
	Description *observable.Value[string]
	Tags        *observable.List[string]
	Steps       *observable.List[*StepViewModel]

	fetcher domain.Fetcher
	prefix  string
	log     *logger.Logger
}

// NewRecipeViewModel creates an empty view model for recipe id. Call Load
// to populate it.
func NewRecipeViewModel(id string, fetcher domain.Fetcher, opts ...Option) *RecipeViewModel {
	o := buildOptions(DetailPrefix, opts)
	return &RecipeViewModel{
		ID:          id,
		Title:       observable.NewValue(""),
		Description: observable.NewValue(""),
		Tags:        observable.NewList[string](),
		Steps:       observable.NewList[*StepViewModel](),
		fetcher:     fetcher,
		prefix:      o.prefix,
		log:         o.log,
	}
}

// DocumentName is the name Load fetches, e.g. "chili.json".
func (vm *RecipeViewModel) DocumentName() string {
	return documentName(vm.prefix, vm.ID)
}

// Load fetches the recipe document and accepts it. On failure the view
// model is left as it was.
func (vm *RecipeViewModel) Load(ctx context.Context) error {
	if err := domain.ValidateID(vm.ID); err != nil {
		return fmt.Errorf("loading recipe %q: %w", vm.ID, err)
	}

	data, err := vm.fetcher.Fetch(ctx, vm.DocumentName())
	if err != nil {
		return fmt.Errorf("loading recipe %s: %w", vm.ID, err)
	}

	var doc domain.Recipe
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding recipe %s: %w", vm.ID, err)
	}

	vm.AcceptData(doc)
	vm.log.Debug("loaded recipe %s (%d steps)", vm.ID, len(doc.Steps))
	return nil
}

// AcceptData overwrites every field from doc. The steps collection is
// replaced, never merged.
func (vm *RecipeViewModel) AcceptData(doc domain.Recipe) {
	steps := make([]*StepViewModel, 0, len(doc.Steps))
	for _, s := range doc.Steps {
		steps = append(steps, newStepFromDocument(s))
	}

	vm.Title.Set(doc.Title)
	vm.Description.Set(doc.Description)
	vm.Tags.Replace(doc.Tags)
	vm.Steps.Replace(steps)
}

// ToJSON returns the recipe in the shape the server stores.
func (vm *RecipeViewModel) ToJSON() domain.Recipe {
	tags := vm.Tags.Items()
	if tags == nil {
		tags = []string{}
	}
	steps := vm.Steps.Items()
	out := make([]domain.Step, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.ToJSON())
	}
	return domain.Recipe{
		Title:       vm.Title.Get(),
		Description: vm.Description.Get(),
		Tags:        tags,
		Steps:       out,
	}
}

// Validate checks every step duration and reports all failures.
func (vm *RecipeViewModel) Validate() error {
	var errs []error
	for i, s := range vm.Steps.Items() {
		if err := s.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

// Save validates the recipe and writes it to store under its ID.
func (vm *RecipeViewModel) Save(ctx context.Context, store domain.DocumentStore) error {
	if err := vm.Validate(); err != nil {
		return fmt.Errorf("validating recipe %s: %w", vm.ID, err)
	}
	if err := store.Save(ctx, vm.ID, vm.ToJSON()); err != nil {
		return fmt.Errorf("saving recipe %s: %w", vm.ID, err)
	}
	vm.log.Info("saved recipe %s", vm.ID)
	return nil
}

// AddStep appends an empty step.
func (vm *RecipeViewModel) AddStep() {
	vm.Steps.Push(NewStepViewModel(nil, "", ""))
}

// RemoveStep deletes the step at index.
func (vm *RecipeViewModel) RemoveStep(index int) error {
	if err := vm.Steps.RemoveAt(index); err != nil {
		return fmt.Errorf("removing step: %w", err)
	}
	return nil
}

// TotalMinutes sums the step durations as they would be stored.
func (vm *RecipeViewModel) TotalMinutes() int {
	total := 0
	for _, s := range vm.Steps.Items() {
		total += s.minutes()
	}
	return total
}
