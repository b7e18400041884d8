package domain

import "context"

// Fetcher retrieves a named document such as "chili.json" or
// "recipe_list.json". Implementations can read from a directory or an
// HTTP origin.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// RecipeSource provides recipes. Implementations can be in-memory or
// backed by a directory of built documents.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*CookRecipe, error)
	Search(ctx context.Context, query string) ([]RecipeSummary, error)
}

// DocumentStore persists wire documents by recipe ID. It is the target of
// the view models' save action.
type DocumentStore interface {
	Save(ctx context.Context, id string, doc any) error
	Load(ctx context.Context, id string, into any) error
	Delete(ctx context.Context, id string) error
}
