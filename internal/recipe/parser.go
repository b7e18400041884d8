// Package recipe parses plain-text recipe files and provides recipe
// source implementations.
//
// A recipe file is a sequence of paragraphs separated by blank lines. The
// first paragraph is the header: its first line is the title, an optional
// "tags:" line lists comma-separated tags, and any other lines form the
// description. Every following paragraph is one step:
//
//	- 1 lb ground beef      ingredient
//	+ dutch oven            other input (equipment, leftovers, ...)
//	@ 1:30                  duration, H:MM or minutes
//	Brown the beef.         instructions; lines are joined with spaces
package recipe

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/duration"
)

type line struct {
	num  int
	text string
}

// paragraphs splits input into runs of non-blank, trimmed lines.
func paragraphs(r io.Reader) ([][]line, error) {
	var (
		out     [][]line
		current []line
		num     int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		num++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			if len(current) > 0 {
				out = append(out, current)
				current = nil
			}
			continue
		}
		current = append(current, line{num: num, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading recipe: %w", err)
	}
	if len(current) > 0 {
		out = append(out, current)
	}
	return out, nil
}

// Parse reads a recipe in the plain-text format.
func Parse(r io.Reader) (*domain.CookRecipe, error) {
	paras, err := paragraphs(r)
	if err != nil {
		return nil, err
	}
	if len(paras) == 0 {
		return nil, fmt.Errorf("%w: missing title", domain.ErrMalformedRecipe)
	}

	rec := &domain.CookRecipe{Steps: []domain.CookStep{}}
	parseHeader(paras[0], rec)

	for _, para := range paras[1:] {
		step, err := parseStep(para)
		if err != nil {
			return nil, err
		}
		rec.Steps = append(rec.Steps, step)
	}
	return rec, nil
}

// ParseFile parses the recipe file at path.
func ParseFile(path string) (*domain.CookRecipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recipe: %w", err)
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

func parseHeader(para []line, rec *domain.CookRecipe) {
	rec.Title = para[0].text

	var desc []string
	for _, l := range para[1:] {
		if value, ok := cutPrefixFold(l.text, "tags:"); ok {
			for _, tag := range strings.Split(value, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					rec.Tags = append(rec.Tags, tag)
				}
			}
			continue
		}
		desc = append(desc, l.text)
	}
	rec.Description = strings.Join(desc, " ")
}

func parseStep(para []line) (domain.CookStep, error) {
	step := domain.CookStep{
		Ingredients: []string{},
		OtherInputs: []string{},
	}

	var instructions []string
	for _, l := range para {
		switch {
		case strings.HasPrefix(l.text, "-"):
			step.Ingredients = append(step.Ingredients, strings.TrimLeft(l.text, "- "))
		case strings.HasPrefix(l.text, "+"):
			step.OtherInputs = append(step.OtherInputs, strings.TrimLeft(l.text, "+ "))
		case strings.HasPrefix(l.text, "@"):
			m, err := duration.ParseMinutes(strings.TrimSpace(l.text[1:]))
			if err != nil {
				return step, fmt.Errorf("%w: line %d: %w", domain.ErrMalformedRecipe, l.num, err)
			}
			step.Duration = m
		default:
			instructions = append(instructions, l.text)
		}
	}
	step.Instructions = strings.Join(instructions, " ")
	return step, nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(s[len(prefix):]), true
}

// Format renders a recipe back into the plain-text format. Steps with no
// content are dropped, since they have no paragraph to occupy.
func Format(rec *domain.CookRecipe) string {
	var b strings.Builder
	b.WriteString(rec.Title)
	b.WriteByte('\n')
	if rec.Description != "" {
		b.WriteString(rec.Description)
		b.WriteByte('\n')
	}
	if len(rec.Tags) > 0 {
		b.WriteString("tags: ")
		b.WriteString(strings.Join(rec.Tags, ", "))
		b.WriteByte('\n')
	}

	for _, s := range rec.Steps {
		b.WriteByte('\n')
		for _, ing := range s.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}
		for _, in := range s.OtherInputs {
			fmt.Fprintf(&b, "+ %s\n", in)
		}
		if s.Duration > 0 {
			fmt.Fprintf(&b, "@ %s\n", duration.FromMinutes(s.Duration))
		}
		if s.Instructions != "" {
			b.WriteString(s.Instructions)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
