package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/site"
)

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var watch bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render recipe files and client assets into the dist directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			builder := site.NewBuilder(ctx.logger().Named("site"))
			opts := site.Options{
				RecipeDir:    cfg.Paths.RecipeDir,
				ClientDir:    cfg.Paths.ClientDir,
				DistDir:      cfg.Paths.DistDir,
				CookPrefix:   cfg.Site.CookPrefix,
				DetailPrefix: cfg.Site.DetailPrefix,
				WriteDetail:  cfg.Site.WriteDetail,
				Validate:     cfg.Site.ValidateDocs,
				Pattern:      cfg.Site.RecipePattern,
				Workers:      workers,
			}

			out := cmd.OutOrStdout()
			report, err := builder.Build(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Built %d recipes and copied %d assets into %s\n",
				len(report.Recipes), report.AssetsCopied, cfg.Paths.DistDir)
			if !watch {
				return nil
			}

			fmt.Fprintln(out, "Watching for changes (ctrl+c to stop)")
			return builder.Watch(cmd.Context(), opts, site.DefaultDebounce, func(r *site.Report, err error) {
				if err != nil {
					fmt.Fprintf(out, "Rebuild failed: %v\n", err)
					return
				}
				fmt.Fprintf(out, "Rebuilt %d recipes\n", len(r.Recipes))
			})
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Recipe files parsed concurrently (default 4)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Rebuild whenever a recipe or client file changes")
	return cmd
}
