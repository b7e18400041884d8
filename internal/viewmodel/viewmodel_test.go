package viewmodel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/logger"
	"github.com/hammamikhairi/recipebook/internal/storage"
)

// mapFetcher serves documents from memory.
type mapFetcher map[string]string

func (m mapFetcher) Fetch(ctx context.Context, name string) ([]byte, error) {
	doc, ok := m[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return []byte(doc), nil
}

const chiliDetail = `{
  "title": "Beef Chili",
  "description": "Slow and smoky.",
  "tags": ["stew", "beef"],
  "steps": [
    {"ingredients": ["1 lb beef", "1 onion"], "instructions": "Brown the beef.", "duration": 15},
    {"ingredients": ["2 cans beans"], "instructions": "Simmer.", "duration": 90}
  ]
}`

const chiliCook = `{
  "title": "Beef Chili",
  "steps": [
    {"ingredients": ["1 lb beef"], "other_inputs": ["dutch oven"], "instructions": "Brown the beef.", "duration": 15},
    {"ingredients": ["2 cans beans"], "other_inputs": [], "instructions": "Simmer.", "duration": 90},
    {"ingredients": [], "other_inputs": ["bowls"], "instructions": "Serve."}
  ]
}`

func TestStepAddRemoveIngredient(t *testing.T) {
	step := NewStepViewModel(nil, "Boil water.", "10")

	step.AddIngredient()
	if step.Ingredients.Len() != 1 {
		t.Fatalf("expected 1 ingredient, got %d", step.Ingredients.Len())
	}
	if got, _ := step.Ingredients.At(0); got != "" {
		t.Fatalf("expected empty ingredient text, got %q", got)
	}

	if err := step.RemoveIngredient(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if step.Ingredients.Len() != 0 {
		t.Fatalf("expected 0 ingredients, got %d", step.Ingredients.Len())
	}

	if err := step.RemoveIngredient(3); !errors.Is(err, domain.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestStepToJSON(t *testing.T) {
	step := NewStepViewModel([]string{"salt"}, "Season.", "1:30")
	if err := step.SetIngredient(0, "sea salt"); err != nil {
		t.Fatalf("set ingredient: %v", err)
	}

	got := step.ToJSON()
	if got.Duration != 90 {
		t.Fatalf("expected 90 minutes, got %d", got.Duration)
	}
	if len(got.Ingredients) != 1 || got.Ingredients[0] != "sea salt" {
		t.Fatalf("unexpected ingredients %v", got.Ingredients)
	}
	if got.Instructions != "Season." {
		t.Fatalf("unexpected instructions %q", got.Instructions)
	}

	empty := NewStepViewModel(nil, "", "").ToJSON()
	if empty.Ingredients == nil {
		t.Fatal("expected non-nil ingredient slice for JSON output")
	}
}

func TestStepValidate(t *testing.T) {
	if err := NewStepViewModel(nil, "", "soon").Validate(); !errors.Is(err, duration.ErrMalformedDuration) {
		t.Fatalf("expected ErrMalformedDuration, got %v", err)
	}
	if err := NewStepViewModel(nil, "", "").Validate(); err != nil {
		t.Fatalf("empty duration should be valid, got %v", err)
	}

	padded := NewStepViewModel(nil, "", " 1:05 ")
	if err := padded.Validate(); err != nil {
		t.Fatalf("padded duration should be valid, got %v", err)
	}
	if got := padded.ToJSON().Duration; got != 65 {
		t.Fatalf("padded duration stored as %d, want 65", got)
	}
}

func TestRecipeLoad(t *testing.T) {
	vm := NewRecipeViewModel("chili", mapFetcher{"chili.json": chiliDetail})

	titles := 0
	vm.Title.Subscribe(func(string) { titles++ })

	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if vm.Title.Get() != "Beef Chili" {
		t.Fatalf("unexpected title %q", vm.Title.Get())
	}
	if titles != 1 {
		t.Fatalf("expected title subscriber called once, got %d", titles)
	}
	if vm.Tags.Len() != 2 {
		t.Fatalf("expected 2 tags, got %d", vm.Tags.Len())
	}

	steps := vm.Steps.Items()
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Duration.Get() != "15" || steps[1].Duration.Get() != "1:30" {
		t.Fatalf("unexpected durations %q, %q", steps[0].Duration.Get(), steps[1].Duration.Get())
	}
	if vm.TotalMinutes() != 105 {
		t.Fatalf("expected 105 total minutes, got %d", vm.TotalMinutes())
	}
}

func TestRecipeLoadErrorsLeaveState(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		fetcher mapFetcher
	}{
		{"missing document", "chili", mapFetcher{}},
		{"bad json", "chili", mapFetcher{"chili.json": "{"}},
		{"invalid id", "../chili", mapFetcher{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewRecipeViewModel(tt.id, tt.fetcher)
			vm.Title.Set("unchanged")
			if err := vm.Load(context.Background()); err == nil {
				t.Fatal("expected error, got nil")
			}
			if vm.Title.Get() != "unchanged" {
				t.Fatalf("title changed on failed load: %q", vm.Title.Get())
			}
		})
	}
}

func TestAcceptDataReplacesSteps(t *testing.T) {
	vm := NewRecipeViewModel("x", mapFetcher{})

	vm.AcceptData(domain.Recipe{Title: "A", Steps: []domain.Step{{}, {}, {}}})
	vm.AcceptData(domain.Recipe{Title: "B", Steps: []domain.Step{{Duration: 65}}})

	if vm.Steps.Len() != 1 {
		t.Fatalf("expected steps replaced (1), got %d", vm.Steps.Len())
	}
	step, _ := vm.Steps.At(0)
	if step.Duration.Get() != "1:05" {
		t.Fatalf("expected 1:05, got %q", step.Duration.Get())
	}
}

func TestRecipeSave(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(logger.New(logger.LevelOff, nil))
	vm := NewRecipeViewModel("chili", mapFetcher{"chili.json": chiliDetail})
	if err := vm.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	vm.AddStep()
	last, _ := vm.Steps.At(2)
	last.Duration.Set("later")
	if err := vm.Save(ctx, store); !errors.Is(err, duration.ErrMalformedDuration) {
		t.Fatalf("expected malformed duration on save, got %v", err)
	}

	if err := vm.RemoveStep(2); err != nil {
		t.Fatalf("remove step: %v", err)
	}
	if err := vm.Save(ctx, store); err != nil {
		t.Fatalf("save: %v", err)
	}

	var saved domain.Recipe
	if err := store.Load(ctx, "chili", &saved); err != nil {
		t.Fatalf("load saved: %v", err)
	}
	if saved.Title != "Beef Chili" || len(saved.Steps) != 2 || saved.Steps[1].Duration != 90 {
		t.Fatalf("unexpected saved recipe %+v", saved)
	}
}

// fakeClock advances by hand.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time           { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func loadedCook(t *testing.T) (*CookViewModel, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 2, 18, 0, 0, 0, time.UTC)}
	vm := NewCookViewModel("chili", mapFetcher{"recipes/chili.json": chiliCook})
	vm.SetClock(clock.now)
	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return vm, clock
}

func TestCookLoad(t *testing.T) {
	vm, _ := loadedCook(t)
	if vm.DocumentName() != "recipes/chili.json" {
		t.Fatalf("unexpected document name %q", vm.DocumentName())
	}
	if vm.RunID == "" {
		t.Fatal("expected run ID")
	}
	steps := vm.Steps.Items()
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].OtherInputs.Len() != 1 || steps[0].IsCompleted.Get() {
		t.Fatalf("unexpected first step state")
	}
	planned := vm.PlannedStopMinutes()
	if planned[0] != 15 || planned[1] != 105 || planned[2] != 105 {
		t.Fatalf("unexpected planned stops %v", planned)
	}
}

func TestCookCumulativeStopTimes(t *testing.T) {
	vm, clock := loadedCook(t)

	vm.Start()
	clock.advance(20 * time.Minute)
	if err := vm.Complete(0); err != nil {
		t.Fatalf("complete 0: %v", err)
	}
	clock.advance(95 * time.Minute)
	if err := vm.Complete(1); err != nil {
		t.Fatalf("complete 1: %v", err)
	}

	stops := vm.StopTimes()
	want := []time.Duration{20 * time.Minute, 115 * time.Minute, 0}
	for i := range want {
		if stops[i] != want[i] {
			t.Fatalf("stop %d: expected %s, got %s", i, want[i], stops[i])
		}
	}

	elapsed, err := vm.StepElapsed(1)
	if err != nil {
		t.Fatalf("step elapsed: %v", err)
	}
	if elapsed != 95*time.Minute {
		t.Fatalf("expected step 2 to take 95m, got %s", elapsed)
	}

	done, total := vm.Progress()
	if done != 2 || total != 3 || vm.Completed() {
		t.Fatalf("unexpected progress %d/%d completed=%v", done, total, vm.Completed())
	}

	clock.advance(time.Minute)
	if err := vm.Toggle(2); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !vm.Completed() {
		t.Fatal("expected all steps completed")
	}
	if vm.Elapsed() != 116*time.Minute {
		t.Fatalf("expected 116m elapsed, got %s", vm.Elapsed())
	}
}

func TestCookCompleteStartsRun(t *testing.T) {
	vm, clock := loadedCook(t)
	if vm.Elapsed() != 0 {
		t.Fatal("expected zero elapsed before start")
	}
	if err := vm.Complete(1); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !vm.StartTime.Get().Equal(clock.now()) {
		t.Fatal("expected completion to start the run")
	}

	// Re-completing keeps the original time.
	clock.advance(5 * time.Minute)
	if err := vm.Complete(1); err != nil {
		t.Fatalf("complete again: %v", err)
	}
	if vm.StopTimes()[1] != 0 {
		t.Fatalf("expected original stop time, got %s", vm.StopTimes()[1])
	}
}

func TestCookUncompleteAndBounds(t *testing.T) {
	vm, _ := loadedCook(t)
	if err := vm.Toggle(0); err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if err := vm.Toggle(0); err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	step, _ := vm.Steps.At(0)
	if step.IsCompleted.Get() || !step.CompletedAt.Get().IsZero() {
		t.Fatal("expected step cleared after second toggle")
	}

	for _, idx := range []int{-1, 3} {
		if err := vm.Complete(idx); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Fatalf("Complete(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
		if _, err := vm.StepElapsed(idx); !errors.Is(err, domain.ErrIndexOutOfRange) {
			t.Fatalf("StepElapsed(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestListLoad(t *testing.T) {
	doc := `[{"id":"chili","title":"Beef Chili","extra":true}]`
	vm := NewListViewModel(mapFetcher{ListDocument: doc})
	if err := vm.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(vm.Recipes.Get()) != doc {
		t.Fatalf("expected document passed through unmodified, got %s", vm.Recipes.Get())
	}

	summaries, err := vm.Summaries()
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "chili" {
		t.Fatalf("unexpected summaries %+v", summaries)
	}

	bad := NewListViewModel(mapFetcher{ListDocument: "nope"})
	if err := bad.Load(context.Background()); err == nil {
		t.Fatal("expected error for invalid list document")
	}
}
