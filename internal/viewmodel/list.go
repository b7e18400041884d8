package viewmodel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/observable"
)

// ListViewModel exposes the list of all recipes. The document is kept
// verbatim; its entries are opaque to this layer.
type ListViewModel struct {
	Recipes *observable.Value[json.RawMessage]

	fetcher domain.Fetcher
	log     *logger.Logger
}

// NewListViewModel creates an empty list view model.
func NewListViewModel(fetcher domain.Fetcher, opts ...Option) *ListViewModel {
	o := buildOptions("", opts)
	return &ListViewModel{
		Recipes: observable.NewValue(json.RawMessage(nil)),
		fetcher: fetcher,
		log:     o.log,
	}
}

// Load fetches recipe_list.json and accepts it.
func (vm *ListViewModel) Load(ctx context.Context) error {
	data, err := vm.fetcher.Fetch(ctx, ListDocument)
	if err != nil {
		return fmt.Errorf("loading recipe list: %w", err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("decoding recipe list: invalid JSON")
	}
	vm.AcceptData(data)
	return nil
}

// AcceptData replaces the list document.
func (vm *ListViewModel) AcceptData(raw json.RawMessage) {
	vm.Recipes.Set(append(json.RawMessage(nil), raw...))
}

// Summaries decodes the list document for renderers that need fields.
func (vm *ListViewModel) Summaries() ([]domain.RecipeSummary, error) {
	raw := vm.Recipes.Get()
	if len(raw) == 0 {
		return nil, nil
	}
	var out []domain.RecipeSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding recipe list: %w", err)
	}
	return out, nil
}
