package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/duration"
)

func newTimeCommand() *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "time <minutes|H:MM>",
		Short: "Convert between minutes and the H:MM recipe notation",
		Example: `  recipebook time 75      # 1:15
  recipebook time 1:15    # 75`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := strings.TrimSpace(args[0])
			out := cmd.OutOrStdout()

			if !strings.Contains(arg, ":") {
				if m, err := strconv.Atoi(arg); err == nil {
					fmt.Fprintln(out, duration.FromMinutes(m))
					return nil
				}
			}

			if lenient {
				fmt.Fprintln(out, duration.ToMinutes(arg))
				return nil
			}
			m, err := duration.ParseMinutes(arg)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, m)
			return nil
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "Print 0 for unparseable input instead of failing")
	return cmd
}
