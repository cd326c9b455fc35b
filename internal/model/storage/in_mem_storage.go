package storage

import (
	"context"
	"sync"

	"max.ks1230/split-expenses-bot/internal/model/entry"
)

// InMemStorage keeps drafts in process memory; they are lost on restart.
type InMemStorage struct {
	mu     sync.Mutex
	drafts map[entry.ConversationID]entry.Draft
}

func NewInMemStorage() *InMemStorage {
	return &InMemStorage{
		drafts: make(map[entry.ConversationID]entry.Draft),
	}
}

func (s *InMemStorage) GetDraft(_ context.Context, id entry.ConversationID) (entry.Draft, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	return d, ok, nil
}

func (s *InMemStorage) SaveDraft(_ context.Context, id entry.ConversationID, draft entry.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[id] = draft
	return nil
}

func (s *InMemStorage) DeleteDraft(_ context.Context, id entry.ConversationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, id)
	return nil
}
