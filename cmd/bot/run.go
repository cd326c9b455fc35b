package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"max.ks1230/split-expenses-bot/internal/clients/tg"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/entry"
	"max.ks1230/split-expenses-bot/internal/model/extract"
	"max.ks1230/split-expenses-bot/internal/model/ledger"
	"max.ks1230/split-expenses-bot/internal/model/messages"
	"max.ks1230/split-expenses-bot/internal/tracing"
)

const shutdownTimeout = 5 * time.Second

func runBot(ctx context.Context) error {
	logger.Info("Bot init - start")

	conf, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to init config")
	}

	closer, err := tracing.Init(serviceName)
	if err != nil {
		return err
	}
	defer closer.Close()

	client, err := tg.New(conf.Telegram())
	if err != nil {
		return errors.Wrap(err, "failed to init client")
	}
	if err = client.RegisterCommands(); err != nil {
		logger.Warn("failed to register bot commands", zap.Error(err))
	}

	deps, err := newDependencies(ctx, conf)
	if err != nil {
		return err
	}
	defer deps.close()

	catalog := conf.Catalog()
	loc := conf.App().Location()
	now := func() time.Time { return time.Now().In(loc) }

	recorder := ledger.NewRecorder(deps.ledger, deps.publisher)
	machine := entry.NewMachine(catalog, recorder, now)

	var ai assistant
	if deps.extractor != nil {
		ai = extract.NewAdapter(catalog, deps.extractor, recorder, now)
	}

	msgService := messages.NewService(client, deps.drafts, machine, ai, recorder, conf.Telegram())

	logger.Info("Bot init - end")

	g, ctx := errgroup.WithContext(ctx)
	metrics := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.App().MetricsPort()),
		Handler:           metricsHandler(),
		ReadHeaderTimeout: shutdownTimeout,
	}

	g.Go(func() error {
		client.ListenUpdates(ctx, msgService)
		return nil
	})
	g.Go(func() error {
		logger.Info("serving metrics", zap.String("addr", metrics.Addr))
		if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "metrics server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return metrics.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}
