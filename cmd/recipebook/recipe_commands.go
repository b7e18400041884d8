package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/recipebook/internal/display"
	"github.com/hammamikhairi/recipebook/internal/domain"
	"github.com/hammamikhairi/recipebook/internal/recipe"
	"github.com/hammamikhairi/recipebook/internal/urlutil"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the recipes of the built site",
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := viewmodel.NewListViewModel(ctx.fetcher(), viewmodel.WithLogger(ctx.logger()))
			if err := vm.Load(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				fmt.Fprintln(out, string(vm.Recipes.Get()))
				return nil
			}

			summaries, err := vm.Summaries()
			if err != nil {
				return err
			}
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No recipes")
				return nil
			}
			fmt.Fprintln(out, summaryTable(summaries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the list document unmodified")
	return cmd
}

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search built recipes by title, description or tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := recipe.NewDirSource(ctx.config.RecipeOutputDir(), ctx.logger().Named("recipes"))
			found, err := src.Search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintln(out, "No matches")
				return nil
			}
			fmt.Fprintln(out, summaryTable(found))
			return nil
		},
	}
}

func summaryTable(summaries []domain.RecipeSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.ID,
			s.Title,
			strings.Join(s.Tags, ", "),
			urlutil.PageURL("recipe", s.ID),
		})
	}
	return renderTable([]string{"ID", "Title", "Tags", "Page"}, rows, nil)
}

// recipeID accepts a bare id or a page address carrying ?id=.
func recipeID(arg string) (string, error) {
	if !strings.Contains(arg, "?") {
		return arg, nil
	}
	id, ok := urlutil.QueryParam(arg, "id")
	if !ok || id == "" {
		return "", fmt.Errorf("no id parameter in %q", arg)
	}
	return id, nil
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id|page-url>",
		Short: "Show one recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := recipeID(args[0])
			if err != nil {
				return err
			}

			cfg := ctx.config
			log := ctx.logger()
			fetcher := ctx.fetcher()
			detail := viewmodel.NewRecipeViewModel(id, fetcher,
				viewmodel.WithPathPrefix(cfg.Site.DetailPrefix), viewmodel.WithLogger(log))
			cook := viewmodel.NewCookViewModel(id, fetcher,
				viewmodel.WithPathPrefix(cfg.Site.CookPrefix), viewmodel.WithLogger(log))

			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { return detail.Load(gctx) })
			g.Go(func() error { return cook.Load(gctx) })
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				data, err := json.MarshalIndent(detail.ToJSON(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprint(out, display.RenderRecipe(detail))
			if equipment := otherInputs(cook); len(equipment) > 0 {
				fmt.Fprintf(out, "\n  you will need: %s\n", strings.Join(equipment, ", "))
			}
			fmt.Fprintf(out, "\n  %s\n  %s\n",
				urlutil.RecipeURL(cfg.Site.RecipeAPI, id),
				urlutil.PageURL("cook", id))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the recipe document")
	return cmd
}

// otherInputs collects the distinct non-ingredient inputs of every step,
// in order of first use.
func otherInputs(vm *viewmodel.CookViewModel) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range vm.Steps.Items() {
		for _, in := range s.OtherInputs.Items() {
			if !seen[in] {
				seen[in] = true
				out = append(out, in)
			}
		}
	}
	return out
}
