package display

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

// RenderRecipe renders a loaded recipe view model for the terminal.
func RenderRecipe(vm *viewmodel.RecipeViewModel) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(vm.Title.Get()))
	b.WriteByte('\n')
	if desc := vm.Description.Get(); desc != "" {
		b.WriteString(primaryStyle.Render(desc))
		b.WriteByte('\n')
	}
	if tags := vm.Tags.Items(); len(tags) > 0 {
		rendered := make([]string, len(tags))
		for i, t := range tags {
			rendered[i] = tagStyle.Render(t)
		}
		b.WriteString(strings.Join(rendered, " "))
		b.WriteByte('\n')
	}

	steps := vm.Steps.Items()
	for i, s := range steps {
		b.WriteByte('\n')
		header := fmt.Sprintf("Step %d/%d", i+1, len(steps))
		if d := s.Duration.Get(); d != "" && d != "0" {
			header += " (" + d + ")"
		}
		b.WriteString(stepStyle.Render("  " + header))
		b.WriteByte('\n')
		for _, ing := range s.Ingredients.Items() {
			b.WriteString(secondaryStyle.Render("    - " + ing))
			b.WriteByte('\n')
		}
		if text := s.Instructions.Get(); text != "" {
			b.WriteString(primaryStyle.Render("    " + text))
			b.WriteByte('\n')
		}
	}

	if total := vm.TotalMinutes(); total > 0 {
		b.WriteByte('\n')
		b.WriteString(labelStyle.Render("  total: ") + timerRunStyle.Render(duration.FromMinutes(total)))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderError renders an error line.
func RenderError(err error) string {
	return urgentStyle.Render("  " + err.Error())
}
