package main

import (
	"context"

	"github.com/pkg/errors"
	"max.ks1230/split-expenses-bot/internal/clients/amqp"
	"max.ks1230/split-expenses-bot/internal/clients/cache"
	"max.ks1230/split-expenses-bot/internal/clients/gemini"
	"max.ks1230/split-expenses-bot/internal/clients/gsheet"
	"max.ks1230/split-expenses-bot/internal/clients/kafka"
	"max.ks1230/split-expenses-bot/internal/config"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/model/chat"
	"max.ks1230/split-expenses-bot/internal/model/entry"
	"max.ks1230/split-expenses-bot/internal/model/extract"
	"max.ks1230/split-expenses-bot/internal/model/storage"
)

type ledgerBackend interface {
	Submit(ctx context.Context, tx expense.Transaction) (expense.DebtReport, error)
	Debtor(ctx context.Context) (expense.DebtReport, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, key string, body []byte) error
}

type draftStorage interface {
	GetDraft(ctx context.Context, id entry.ConversationID) (entry.Draft, bool, error)
	SaveDraft(ctx context.Context, id entry.ConversationID, draft entry.Draft) error
	DeleteDraft(ctx context.Context, id entry.ConversationID) error
}

type extractor interface {
	Extract(ctx context.Context, schema extract.Schema, systemPrompt, payerName, description string) (extract.Result, error)
}

type assistant interface {
	Run(ctx context.Context, payerName, description string) chat.Reply
}

// dependencies are the pluggable backends picked by the config. Optional
// ones stay nil interfaces when disabled.
type dependencies struct {
	ledger    ledgerBackend
	drafts    draftStorage
	publisher eventPublisher
	extractor extractor
	closers   []func()
}

func (d *dependencies) close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

func newDependencies(ctx context.Context, conf *config.Service) (*dependencies, error) {
	d := &dependencies{}

	var err error
	d.ledger, err = newLedger(ctx, conf, d)
	if err != nil {
		d.close()
		return nil, err
	}

	switch conf.Drafts().Backend() {
	case config.DraftsMemcached:
		mc, err := cache.NewMemcache(conf.Memcached(), conf.Drafts().Expiration())
		if err != nil {
			d.close()
			return nil, errors.Wrap(err, "failed to init memcached")
		}
		d.drafts = mc
	default:
		d.drafts = storage.NewInMemStorage()
	}

	switch conf.Events().Backend() {
	case config.EventsKafka:
		producer, err := kafka.NewProducer(conf.Kafka())
		if err != nil {
			d.close()
			return nil, errors.Wrap(err, "failed to init kafka producer")
		}
		d.publisher = producer
		d.closers = append(d.closers, producer.Close)
	case config.EventsAMQP:
		publisher, err := amqp.NewPublisher(conf.AMQP())
		if err != nil {
			d.close()
			return nil, errors.Wrap(err, "failed to init amqp publisher")
		}
		d.publisher = publisher
		d.closers = append(d.closers, publisher.Close)
	}

	if conf.Gemini().Enabled() {
		client, err := gemini.New(ctx, conf.Gemini())
		if err != nil {
			d.close()
			return nil, errors.Wrap(err, "failed to init gemini")
		}
		d.extractor = client
		d.closers = append(d.closers, client.Close)
	}

	return d, nil
}

func newLedger(ctx context.Context, conf *config.Service, d *dependencies) (ledgerBackend, error) {
	if conf.Ledger().Backend() == config.LedgerSQL {
		db, err := openSQL(ctx, conf)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() { _ = db.Close() })
		return db, nil
	}

	sheet, err := gsheet.New(ctx, conf.GSheet(), conf.Catalog())
	if err != nil {
		return nil, errors.Wrap(err, "failed to init google sheets")
	}
	return sheet, nil
}

// openSQL connects to the SQL ledger and brings its schema up to date.
func openSQL(ctx context.Context, conf *config.Service) (*storage.SQLStorage, error) {
	db, err := storage.NewSQLStorage(conf.SQL(), conf.Catalog())
	if err != nil {
		return nil, errors.Wrap(err, "failed to init sql ledger")
	}
	if err = db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to migrate sql ledger")
	}
	return db, nil
}
