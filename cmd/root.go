package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/studynotes-backend/internal/app"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "studynotes",
	Short: "Study notes backend",
	Long: `studynotes serves the study notes API: users register, create topics,
and generate AI-written notes for them.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file (default ./config.yaml if present)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp loads configuration and wires the application. The caller owns Close.
func newApp(ctx context.Context, mutate func(*app.Config)) (*app.App, error) {
	cfg, err := app.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(cfg)
	}
	return app.New(ctx, cfg)
}
