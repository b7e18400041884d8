// Package domain defines the core types and interfaces for recipebook.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"path/filepath"
	"strings"
)

// Recipe is the recipe detail document served as {id}.json.
type Recipe struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Steps       []Step   `json:"steps" validate:"dive"`
}

// Step is one instruction unit of a Recipe. Duration is whole minutes,
// below 6000 so it can be shown as "HH:MM".
type Step struct {
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	Duration     int      `json:"duration" validate:"gte=0,lt=6000"`
}

// CookRecipe is the cooking-mode document served as recipes/{id}.json.
// The site builder emits this shape; Description, Tags and step durations
// are carried when the source file declares them, so the same file also
// decodes as a Recipe.
type CookRecipe struct {
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Steps       []CookStep `json:"steps" validate:"dive"`
}

// CookStep is one step of a CookRecipe.
type CookStep struct {
	Ingredients  []string `json:"ingredients"`
	OtherInputs  []string `json:"other_inputs"`
	Instructions string   `json:"instructions"`
	Duration     int      `json:"duration,omitempty" validate:"gte=0,lt=6000"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Summary builds the list entry for a cook document stored under id.
func (r *CookRecipe) Summary(id string) RecipeSummary {
	return RecipeSummary{
		ID:          id,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
	}
}

// TotalMinutes sums the declared step durations.
func (r *CookRecipe) TotalMinutes() int {
	total := 0
	for _, s := range r.Steps {
		total += s.Duration
	}
	return total
}

// ValidateID rejects IDs that are empty or could escape a document
// directory.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" || id == "." || id == ".." {
		return ErrInvalidID
	}
	if strings.ContainsAny(id, `/\`) || filepath.Base(id) != id {
		return ErrInvalidID
	}
	return nil
}

// IDFromFilename derives a recipe ID from a file name by dropping its
// extension: "beef_chili.txt" becomes "beef_chili".
func IDFromFilename(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
