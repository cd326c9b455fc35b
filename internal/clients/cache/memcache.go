package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/entry"
)

const keyPrefix = "draft:"

type config interface {
	Hosts() []string
}

// DraftCache keeps drafts in memcached so several bot replicas share them.
// Items expire after the configured TTL; an expired draft reads as missing.
type DraftCache struct {
	client     *memcache.Client
	expiration int32
}

func NewMemcache(config config, ttl time.Duration) (*DraftCache, error) {
	logger.Info("memcached hosts", zap.Strings("hosts", config.Hosts()))
	mc := memcache.New(config.Hosts()...)
	return &DraftCache{client: mc, expiration: int32(ttl.Seconds())}, mc.Ping()
}

func formatKey(id entry.ConversationID) string {
	return keyPrefix + id.String()
}

func (mc *DraftCache) GetDraft(_ context.Context, id entry.ConversationID) (entry.Draft, bool, error) {
	item, err := mc.client.Get(formatKey(id))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return entry.Draft{}, false, nil
	}
	if err != nil {
		return entry.Draft{}, false, errors.Wrap(err, "get draft from cache")
	}

	var draft entry.Draft
	if err = json.Unmarshal(item.Value, &draft); err != nil {
		return entry.Draft{}, false, errors.Wrap(err, "decode draft")
	}
	return draft, true, nil
}

func (mc *DraftCache) SaveDraft(_ context.Context, id entry.ConversationID, draft entry.Draft) error {
	logger.Debug("cache draft", zap.String("conversation", id.String()), zap.String("state", string(draft.State)))

	value, err := json.Marshal(draft)
	if err != nil {
		return errors.Wrap(err, "encode draft")
	}
	err = mc.client.Set(&memcache.Item{
		Key:        formatKey(id),
		Value:      value,
		Expiration: mc.expiration,
	})
	return errors.Wrap(err, "save draft to cache")
}

func (mc *DraftCache) DeleteDraft(_ context.Context, id entry.ConversationID) error {
	err := mc.client.Delete(formatKey(id))
	if err != nil && !errors.Is(err, memcache.ErrCacheMiss) {
		return errors.Wrap(err, "delete draft from cache")
	}
	return nil
}
