package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
)

// EntityStore keeps every family in one map keyed by entity.Key. Payloads
// are copied on the way in and out so callers never share buffers.
type EntityStore struct {
	mu    sync.RWMutex
	items map[entity.Key][]byte
}

func NewEntityStore() *EntityStore {
	return &EntityStore{items: make(map[entity.Key][]byte)}
}

func (s *EntityStore) Get(_ context.Context, key entity.Key) ([]byte, bool, error) {
	if err := key.Validate(); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	payload, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	return clonePayload(payload), true, nil
}

func (s *EntityStore) Apply(_ context.Context, changes entity.ChangeSet) error {
	for _, record := range changes.Upserts {
		if err := record.Key.Validate(); err != nil {
			return fmt.Errorf("upsert %s: %w", record.Key, err)
		}
	}
	for _, key := range changes.Deletes {
		if err := key.Validate(); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range changes.Upserts {
		s.items[record.Key] = clonePayload(record.Payload)
	}
	for _, key := range changes.Deletes {
		delete(s.items, key)
	}
	return nil
}

// Keys lists the stored ids of one family in lexical order.
func (s *EntityStore) Keys(family entity.Family) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0)
	for key := range s.items {
		if key.Family == family {
			out = append(out, key.ID)
		}
	}
	sort.Strings(out)
	return out
}

func (s *EntityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func clonePayload(payload []byte) []byte {
	return append([]byte(nil), payload...)
}

func (s *EntityStore) Ping(context.Context) error {
	return nil
}
