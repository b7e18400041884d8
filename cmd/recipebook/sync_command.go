package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/neocities"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var deleteOrphans bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload the dist directory to neocities",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			key, err := cfg.NeocitiesKey()
			if err != nil {
				return err
			}

			log := ctx.logger().Named("neocities")
			client := neocities.NewClient(cfg.Neocities.Endpoint, key,
				time.Duration(cfg.Neocities.Timeout)*time.Second, log)
			syncer := neocities.NewSyncer(client, log)

			report, err := syncer.Sync(cmd.Context(), cfg.Paths.DistDir, cfg.Neocities.RemoteDir, neocities.SyncOptions{
				Delete: deleteOrphans || cfg.Neocities.Delete,
				DryRun: dryRun,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "Uploaded"
			if report.DryRun {
				verb = "Would upload"
			}
			fmt.Fprintf(out, "%s %d files (%s)\n", verb, len(report.Pushed), humanize.Bytes(uint64(report.Bytes)))
			if len(report.Deleted) > 0 {
				fmt.Fprintf(out, "Deleted %d remote files\n", len(report.Deleted))
			}
			if len(report.Orphaned) > 0 {
				fmt.Fprintf(out, "%d remote files have no local copy (use --delete to remove them)\n", len(report.Orphaned))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would change without touching the remote site")
	cmd.Flags().BoolVar(&deleteOrphans, "delete", false, "Delete remote files that no longer exist locally")
	return cmd
}
