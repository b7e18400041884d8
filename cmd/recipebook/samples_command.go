package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/recipe"
)

func newSamplesCommand(ctx *commandContext) *cobra.Command {
	var write bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "samples",
		Short: "List the built-in sample recipes, or write them to the recipe directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if write {
				return writeSamples(cmd, ctx.config.Paths.RecipeDir, overwrite)
			}

			src := recipe.NewMemorySource(ctx.logger().Named("samples"))
			summaries, err := src.List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				r, err := src.Get(cmd.Context(), s.ID)
				if err != nil {
					return err
				}
				rows = append(rows, []string{s.ID, s.Title, strconv.Itoa(len(r.Steps)), duration.FromMinutes(r.TotalMinutes())})
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Title", "Steps", "Time"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the samples as {id}.txt into the recipe directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files when writing")
	return cmd
}

func writeSamples(cmd *cobra.Command, dir string, overwrite bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create recipe directory: %w", err)
	}
	out := cmd.OutOrStdout()
	for id, text := range recipe.Samples() {
		target := filepath.Join(dir, id+".txt")
		if !overwrite {
			if _, err := os.Stat(target); err == nil {
				fmt.Fprintf(out, "Skipped %s (exists)\n", target)
				continue
			}
		}
		if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
			return fmt.Errorf("write sample %s: %w", id, err)
		}
		fmt.Fprintf(out, "Wrote %s\n", target)
	}
	return nil
}
