package main

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/spacesedan/sentimap/internal/cache"
	"github.com/spacesedan/sentimap/internal/monitoring"
	"github.com/spacesedan/sentimap/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Port = servePort
		}

		d := buildDeps(cmd.Context(), cfg)
		defer d.Close()

		srv, err := server.New(d.Loader, d.Atlas)
		if err != nil {
			return err
		}

		var healthy atomic.Bool
		srv.Health = &healthy
		go monitoring.MonitorBackendHealth(cmd.Context(), d.Loader.API.Ping, &healthy, monitoring.HEALTHCHECK_TIMER)
		if mem, ok := d.Loader.Cache.Store.(*cache.MemoryStore); ok {
			go monitoring.SweepExpired(cmd.Context(), mem, monitoring.SWEEP_TIMER)
		}
		go monitoring.SweepExpired(cmd.Context(), srv.Sessions, monitoring.SWEEP_TIMER)

		slog.Info("[Main] Starting dashboard",
			slog.String("env", cfg.Env),
			slog.String("api", cfg.APIBaseURL),
			slog.Bool("valkey", cfg.ValkeyEnabled()),
			slog.Bool("reddit", cfg.RedditEnabled()))
		return srv.Run(cmd.Context(), fmt.Sprintf(":%d", cfg.Port))
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override PORT")
}
