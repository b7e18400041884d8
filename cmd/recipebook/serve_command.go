package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebook/internal/fetch"
	"github.com/hammamikhairi/recipebook/internal/server"
	"github.com/hammamikhairi/recipebook/internal/storage"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string
	var allowWrites bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dist directory and the recipe API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			log := ctx.logger().Named("server")

			store, err := storage.NewFileStore(cfg.DetailOutputDir(), log)
			if err != nil {
				return err
			}
			fetcher := fetch.NewDirFetcher(cfg.Paths.DistDir, log)

			srv := server.New(server.Options{
				DistDir:        cfg.Paths.DistDir,
				AllowedOrigins: cfg.Server.AllowedOrigins,
				ReadTimeout:    time.Duration(cfg.Server.ReadTimeout) * time.Second,
				DetailPrefix:   cfg.Site.DetailPrefix,
				AllowWrites:    allowWrites || cfg.Server.AllowWrites,
			}, fetcher, store, log)

			if bind == "" {
				bind = cfg.Server.Bind
			}
			return srv.ListenAndServe(cmd.Context(), bind)
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&allowWrites, "allow-writes", false, "Accept PUT /api/recipes/{id}")
	return cmd
}
