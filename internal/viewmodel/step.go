// Package viewmodel mediates between fetched recipe documents and
// renderers. Fields are observable containers; a renderer subscribes to
// the ones it draws and redraws when they change.
package viewmodel

import (
	"fmt"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/observable"
)

// StepViewModel is one editable step of a recipe. Duration holds the
// display form ("1:30", "45").
type StepViewModel struct {
	Ingredients  *observable.List[string]
	Instructions *observable.Value[string]
	Duration     *observable.Value[string]
}

// NewStepViewModel creates a step from its ingredients, instructions and
// display duration.
func NewStepViewModel(ingredients []string, instructions, dur string) *StepViewModel {
	return &StepViewModel{
		Ingredients:  observable.NewList(ingredients...),
		Instructions: observable.NewValue(instructions),
		Duration:     observable.NewValue(dur),
	}
}

// newStepFromDocument converts a wire step, formatting its minutes.
func newStepFromDocument(s domain.Step) *StepViewModel {
	return NewStepViewModel(s.Ingredients, s.Instructions, duration.FromMinutes(s.Duration))
}

// AddIngredient appends an ingredient with empty text.
func (s *StepViewModel) AddIngredient() {
	s.Ingredients.Push("")
}

// RemoveIngredient deletes the ingredient at index. An out-of-range index
// returns domain.ErrIndexOutOfRange and changes nothing.
func (s *StepViewModel) RemoveIngredient(index int) error {
	if err := s.Ingredients.RemoveAt(index); err != nil {
		return fmt.Errorf("removing ingredient: %w", err)
	}
	return nil
}

// SetIngredient replaces the text of the ingredient at index.
func (s *StepViewModel) SetIngredient(index int, text string) error {
	if err := s.Ingredients.Update(index, text); err != nil {
		return fmt.Errorf("editing ingredient: %w", err)
	}
	return nil
}

// Validate reports a duration that would be stored as zero minutes
// because it does not parse. An empty duration is allowed.
func (s *StepViewModel) Validate() error {
	d := s.Duration.Get()
	if d == "" {
		return nil
	}
	if _, err := duration.ParseMinutes(d); err != nil {
		return err
	}
	return nil
}

// minutes converts the duration field the way Validate reads it. A value
// that does not parse counts as zero.
func (s *StepViewModel) minutes() int {
	m, _ := duration.ParseMinutes(s.Duration.Get())
	return m
}

// ToJSON returns the step in the shape the server stores.
func (s *StepViewModel) ToJSON() domain.Step {
	ingredients := s.Ingredients.Items()
	if ingredients == nil {
		ingredients = []string{}
	}
	return domain.Step{
		Ingredients:  ingredients,
		Instructions: s.Instructions.Get(),
		Duration:     s.minutes(),
	}
}
