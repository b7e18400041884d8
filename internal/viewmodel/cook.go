package viewmodel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/observable"
)

// CookStepViewModel is one step while cooking. Completion state is kept
// only in memory.
type CookStepViewModel struct {
	Ingredients  *observable.List[string]
	OtherInputs  *observable.List[string]
	Instructions *observable.Value[string]
	IsCompleted  *observable.Value[bool]
	CompletedAt  *observable.Value[time.Time]

	// PlannedMinutes is the duration declared by the recipe, 0 if none.
	PlannedMinutes int
}

// NewCookStepViewModel creates an incomplete cooking step.
func NewCookStepViewModel(ingredients, otherInputs []string, instructions string) *CookStepViewModel {
	return &CookStepViewModel{
		Ingredients:  observable.NewList(ingredients...),
		OtherInputs:  observable.NewList(otherInputs...),
		Instructions: observable.NewValue(instructions),
		IsCompleted:  observable.NewValue(false),
		CompletedAt:  observable.NewValue(time.Time{}),
	}
}

// CookViewModel tracks a recipe being cooked: which steps are done and
// when each one finished relative to the start of the run.
type CookViewModel struct {
	ID        string
	RunID     string
	Title     *observable.Value[string]
	Steps     *observable.List[*CookStepViewModel]
	StartTime *observable.Value[time.Time]

	fetcher domain.Fetcher
	prefix  string
	log     *logger.Logger
	now     func() time.Time
}

// NewCookViewModel creates an empty cooking view model for recipe id.
func NewCookViewModel(id string, fetcher domain.Fetcher, opts ...Option) *CookViewModel {
	o := buildOptions(CookPrefix, opts)
	return &CookViewModel{
		ID:        id,
		RunID:     uuid.NewString(),
		Title:     observable.NewValue(""),
		Steps:     observable.NewList[*CookStepViewModel](),
		StartTime: observable.NewValue(time.Time{}),
		fetcher:   fetcher,
		prefix:    o.prefix,
		log:       o.log,
		now:       time.Now,
	}
}

// SetClock replaces the time source. Intended for tests and replays.
func (vm *CookViewModel) SetClock(now func() time.Time) {
	vm.now = now
}

// DocumentName is the name Load fetches, e.g. "recipes/chili.json".
func (vm *CookViewModel) DocumentName() string {
	return documentName(vm.prefix, vm.ID)
}

// Load fetches the cook document and accepts it.
func (vm *CookViewModel) Load(ctx context.Context) error {
	if err := domain.ValidateID(vm.ID); err != nil {
		return fmt.Errorf("loading recipe %q: %w", vm.ID, err)
	}

	data, err := vm.fetcher.Fetch(ctx, vm.DocumentName())
	if err != nil {
		return fmt.Errorf("loading recipe %s: %w", vm.ID, err)
	}

	var doc domain.CookRecipe
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding recipe %s: %w", vm.ID, err)
	}

	vm.AcceptData(doc)
	vm.log.Debug("cook run %s: loaded %s (%d steps)", vm.RunID, vm.ID, len(doc.Steps))
	return nil
}

// AcceptData overwrites the title and replaces the steps. Completion
// state of previous steps is discarded; the start time is kept.
func (vm *CookViewModel) AcceptData(doc domain.CookRecipe) {
	steps := make([]*CookStepViewModel, 0, len(doc.Steps))
	for _, s := range doc.Steps {
		step := NewCookStepViewModel(s.Ingredients, s.OtherInputs, s.Instructions)
		step.PlannedMinutes = s.Duration
		steps = append(steps, step)
	}

	vm.Title.Set(doc.Title)
	vm.Steps.Replace(steps)
}

// Start marks the beginning of the run. Calling it again has no effect.
func (vm *CookViewModel) Start() time.Time {
	if st := vm.StartTime.Get(); !st.IsZero() {
		return st
	}
	st := vm.now()
	vm.StartTime.Set(st)
	vm.log.Info("cook run %s: started %s", vm.RunID, vm.ID)
	return st
}

// Complete marks the step at index done at the current time. The run is
// started if it was not already. Completing a done step keeps its
// original time.
func (vm *CookViewModel) Complete(index int) error {
	step, err := vm.step(index)
	if err != nil {
		return err
	}
	if step.IsCompleted.Get() {
		return nil
	}
	vm.Start()
	step.CompletedAt.Set(vm.now())
	step.IsCompleted.Set(true)
	vm.log.Debug("cook run %s: step %d done", vm.RunID, index+1)
	return nil
}

// Uncomplete clears the completion of the step at index.
func (vm *CookViewModel) Uncomplete(index int) error {
	step, err := vm.step(index)
	if err != nil {
		return err
	}
	step.IsCompleted.Set(false)
	step.CompletedAt.Set(time.Time{})
	return nil
}

// Toggle flips the completion of the step at index.
func (vm *CookViewModel) Toggle(index int) error {
	step, err := vm.step(index)
	if err != nil {
		return err
	}
	if step.IsCompleted.Get() {
		return vm.Uncomplete(index)
	}
	return vm.Complete(index)
}

// StopTimes returns, per step, the time from the start of the run to the
// step's completion. Steps not yet completed report zero.
func (vm *CookViewModel) StopTimes() []time.Duration {
	start := vm.StartTime.Get()
	steps := vm.Steps.Items()
	out := make([]time.Duration, len(steps))
	for i, s := range steps {
		if !s.IsCompleted.Get() || start.IsZero() {
			continue
		}
		out[i] = nonNegative(s.CompletedAt.Get().Sub(start))
	}
	return out
}

// StepElapsed returns how long the step at index took: the time between
// the latest earlier stop (or the start of the run) and its completion.
// An incomplete step reports zero.
func (vm *CookViewModel) StepElapsed(index int) (time.Duration, error) {
	steps := vm.Steps.Items()
	if index < 0 || index >= len(steps) {
		return 0, fmt.Errorf("step %d of %d: %w", index, len(steps), domain.ErrIndexOutOfRange)
	}
	step := steps[index]
	if !step.IsCompleted.Get() {
		return 0, nil
	}

	previous := vm.StartTime.Get()
	for _, s := range steps[:index] {
		if !s.IsCompleted.Get() {
			continue
		}
		if at := s.CompletedAt.Get(); at.After(previous) {
			previous = at
		}
	}
	return nonNegative(step.CompletedAt.Get().Sub(previous)), nil
}

// PlannedStopMinutes returns the cumulative planned minutes at the end of
// each step, from the durations declared in the recipe.
func (vm *CookViewModel) PlannedStopMinutes() []int {
	steps := vm.Steps.Items()
	out := make([]int, len(steps))
	total := 0
	for i, s := range steps {
		total += s.PlannedMinutes
		out[i] = total
	}
	return out
}

// Elapsed returns the time since the run started, or zero before Start.
func (vm *CookViewModel) Elapsed() time.Duration {
	start := vm.StartTime.Get()
	if start.IsZero() {
		return 0
	}
	return nonNegative(vm.now().Sub(start))
}

// Progress returns how many steps are done out of the total.
func (vm *CookViewModel) Progress() (done, total int) {
	steps := vm.Steps.Items()
	for _, s := range steps {
		if s.IsCompleted.Get() {
			done++
		}
	}
	return done, len(steps)
}

// Completed reports whether every step is done. A recipe without steps is
// never complete.
func (vm *CookViewModel) Completed() bool {
	done, total := vm.Progress()
	return total > 0 && done == total
}

func (vm *CookViewModel) step(index int) (*CookStepViewModel, error) {
	step, err := vm.Steps.At(index)
	if err != nil {
		return nil, fmt.Errorf("cook step: %w", err)
	}
	return step, nil
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
