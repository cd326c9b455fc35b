package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/config"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/ledger"
)

func runMigrate(ctx context.Context) error {
	conf, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to init config")
	}
	if conf.Ledger().Backend() != config.LedgerSQL {
		return errors.Errorf("ledger backend is %q, nothing to migrate", conf.Ledger().Backend())
	}

	db, err := openSQL(ctx, conf)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("sql ledger is up to date", zap.String("driver", conf.SQL().Driver()))
	return nil
}

func runStatus(ctx context.Context, cmd *cobra.Command) error {
	conf, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to init config")
	}

	d := &dependencies{}
	defer d.close()
	backend, err := newLedger(ctx, conf, d)
	if err != nil {
		return err
	}

	return printStatus(ctx, cmd, backend)
}

func printStatus(ctx context.Context, cmd *cobra.Command, backend ledgerBackend) error {
	_, err := fmt.Fprintln(cmd.OutOrStdout(), ledger.NewRecorder(backend, nil).Status(ctx).Text)
	return err
}
