package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/config"
	"max.ks1230/split-expenses-bot/internal/logger"
)

const serviceName = "split-expenses-bot"

var configPath string

func main() {
	defer logger.Sync()

	root := &cobra.Command{
		Use:   "bot",
		Short: "Telegram bot that records shared expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBot(cmd.Context())
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to the YAML config (default $"+config.ConfigFileEnv+" or "+config.DefaultConfigFile+")")

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply the SQL ledger migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print who owes how much",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd.Context(), cmd)
		},
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig() (*config.Service, error) {
	path := config.Path(configPath)
	logger.Info("loading config", zap.String("path", path))
	return config.New(path)
}
