package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/display"
	"github.com/hammamikhairi/recipebook/internal/duration"
	"github.com/hammamikhairi/recipebook/internal/viewmodel"
)

func newCookCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cook <id|page-url>",
		Short: "Cook a recipe step by step with running times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return errors.New("cook mode needs an interactive terminal")
			}
			id, err := recipeID(args[0])
			if err != nil {
				return err
			}

			vm := viewmodel.NewCookViewModel(id, ctx.fetcher(),
				viewmodel.WithPathPrefix(ctx.config.Site.CookPrefix),
				viewmodel.WithLogger(ctx.interactiveLogger().Named("cook")))
			if err := vm.Load(cmd.Context()); err != nil {
				return err
			}

			if err := display.NewCookUI(vm).Run(); err != nil {
				return fmt.Errorf("cook mode: %w", err)
			}

			if done, _ := vm.Progress(); done > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cookSummary(vm))
			}
			return nil
		},
	}
}

// cookSummary tabulates planned against actual cumulative stop times.
func cookSummary(vm *viewmodel.CookViewModel) string {
	steps := vm.Steps.Items()
	stops := vm.StopTimes()
	planned := vm.PlannedStopMinutes()

	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		plan := "-"
		if s.PlannedMinutes > 0 {
			plan = duration.FromMinutes(planned[i])
		}
		actual := "-"
		took := "-"
		if s.IsCompleted.Get() {
			actual = duration.Format(stops[i])
			if d, err := vm.StepElapsed(i); err == nil {
				took = d.Round(time.Second).String()
			}
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), s.Instructions.Get(), plan, actual, took})
	}
	return renderTable([]string{"#", "Step", "Planned", "Actual", "Took"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight})
}
