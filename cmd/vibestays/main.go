package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vibestays/internal/infra/config"
	"vibestays/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:          "vibestays",
		Short:        "Vibe Stays catalog, reviews and inquiries backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "optional config file (yaml, json, toml or .env)")

	load := func() (config.Config, error) {
		return config.Load(configPath)
	}
	root.AddCommand(
		newServeCommand(load),
		newImportCommand(load),
		newAdminCommand(load),
		newConsumeCommand(load),
	)
	return root
}

type configLoader func() (config.Config, error)

func loadWithLogger(load configLoader) (config.Config, error) {
	cfg, err := load()
	if err != nil {
		obs.NewLogger(os.Getenv("VIBESTAYS_ENV")).Error("configuration invalid", "error", err)
	}
	return cfg, err
}
