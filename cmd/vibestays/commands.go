package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	authsvc "vibestays/internal/app/services/auth"
	"vibestays/internal/infra/config"
	"vibestays/internal/infra/obs"
)

func newImportCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "import <fixtures.json>",
		Short: "Upsert listings from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadWithLogger(load)
			if err != nil {
				return err
			}
			logger := obs.NewLogger(cfg.Env)
			app, err := buildApplication(cmd.Context(), cfg, logger, obs.NewMetrics())
			if err != nil {
				return err
			}
			defer app.close(logger)

			res, err := app.importFixtures(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.drain(logger)
			fmt.Fprintf(cmd.OutOrStdout(), "created %d, updated %d, skipped %d\n", res.Created, res.Updated, len(res.Skipped))
			for _, id := range res.Skipped {
				fmt.Fprintf(cmd.OutOrStdout(), "  skipped %s\n", id)
			}
			return nil
		},
	}
}

func newAdminCommand(load configLoader) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin panel users",
	}
	var email, name, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadWithLogger(load)
			if err != nil {
				return err
			}
			if cfg.StorageDriver == config.DriverMemory {
				return errors.New("admin create needs a persistent storage driver")
			}
			logger := obs.NewLogger(cfg.Env)
			app, err := buildApplication(cmd.Context(), cfg, logger, obs.NewMetrics())
			if err != nil {
				return err
			}
			defer app.close(logger)

			user, err := app.auth.CreateAdmin(cmd.Context(), authsvc.CreateAdminParams{Email: email, Name: name, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "login email")
	create.Flags().StringVar(&name, "name", "Admin", "display name")
	create.Flags().StringVar(&password, "password", "", "password, at least 8 characters")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")
	admin.AddCommand(create)
	return admin
}

func newConsumeCommand(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Invalidate the catalog cache from listing and review events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadWithLogger(load)
			if err != nil {
				return err
			}
			if len(cfg.KafkaBrokers) == 0 || cfg.RedisAddr == "" {
				return errors.New("consume needs VIBESTAYS_KAFKA_BROKERS and VIBESTAYS_REDIS_ADDR")
			}
			logger := obs.NewLogger(cfg.Env)
			app, err := buildApplication(cmd.Context(), cfg, logger, obs.NewMetrics())
			if err != nil {
				return err
			}
			defer app.close(logger)

			if err := app.runCatalogConsumer(cmd.Context()); err != nil && cmd.Context().Err() == nil {
				return err
			}
			return nil
		},
	}
}
