package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/sentimap/config"
	"github.com/spacesedan/sentimap/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sentimap",
	Short: "Reddit sentiment dashboard for U.S. states and colleges",
	Long: `sentimap renders a choropleth of per-state sentiment for a keyword and
year, with word clouds, emotion breakdowns and matching Reddit posts for each
state or college.

Configuration is read from config/envs/.env.<APP_ENV> and the environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}
		config.LoadEnv(env)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		logging.InitLogger(cfg.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd, mapCmd, reportCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
