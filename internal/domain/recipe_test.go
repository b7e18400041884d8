package domain

import (
	"errors"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"beef_chili", false},
		{"pancakes-2", false},
		{"", true},
		{"  ", true},
		{"..", true},
		{"../etc/passwd", true},
		{`a\b`, true},
	}
	for _, tt := range tests {
		err := ValidateID(tt.id)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidID) {
				t.Fatalf("ValidateID(%q): expected ErrInvalidID, got %v", tt.id, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ValidateID(%q): unexpected error %v", tt.id, err)
		}
	}
}

func TestIDFromFilename(t *testing.T) {
	tests := map[string]string{
		"beef_chili.txt":       "beef_chili",
		"recipes/pancakes.rcp": "pancakes",
		"noext":                "noext",
	}
	for in, want := range tests {
		if got := IDFromFilename(in); got != want {
			t.Fatalf("IDFromFilename(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestCookRecipeSummaryAndTotal(t *testing.T) {
	r := &CookRecipe{
		Title: "Chili",
		Tags:  []string{"stew"},
		Steps: []CookStep{{Duration: 15}, {Duration: 0}, {Duration: 90}},
	}
	s := r.Summary("chili")
	if s.ID != "chili" || s.Title != "Chili" || len(s.Tags) != 1 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if got := r.TotalMinutes(); got != 105 {
		t.Fatalf("expected 105 minutes, got %d", got)
	}
}
