package cache

import (
	"context"
	"time"

	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	basecache "github.com/riskibarqy/hockey-indexer/internal/platform/cache"
)

// EntityStore is a write-through read cache in front of another store. Misses
// are cached too, so repeated lookups of unknown ids stay off the database.
type EntityStore struct {
	next  entity.Repository
	cache *basecache.Store[cachedRecord]
}

type cachedRecord struct {
	payload []byte
	exists  bool
}

func NewEntityStore(next entity.Repository, ttl time.Duration) *EntityStore {
	return &EntityStore{next: next, cache: basecache.NewStore[cachedRecord](ttl)}
}

func (s *EntityStore) Get(ctx context.Context, key entity.Key) ([]byte, bool, error) {
	if err := key.Validate(); err != nil {
		return nil, false, err
	}

	cached, err := s.cache.GetOrLoad(ctx, key.String(), func(ctx context.Context) (cachedRecord, error) {
		payload, exists, err := s.next.Get(ctx, key)
		if err != nil {
			return cachedRecord{}, err
		}
		return cachedRecord{payload: append([]byte(nil), payload...), exists: exists}, nil
	})
	if err != nil {
		return nil, false, err
	}
	if !cached.exists {
		return nil, false, nil
	}
	return append([]byte(nil), cached.payload...), true, nil
}

func (s *EntityStore) Apply(ctx context.Context, changes entity.ChangeSet) error {
	if err := s.next.Apply(ctx, changes); err != nil {
		// the backing store may have rolled back or not; forget what we knew
		s.forget(changes)
		return err
	}

	for _, record := range changes.Upserts {
		s.cache.Set(record.Key.String(), cachedRecord{payload: append([]byte(nil), record.Payload...), exists: true})
	}
	for _, key := range changes.Deletes {
		s.cache.Set(key.String(), cachedRecord{})
	}
	return nil
}

func (s *EntityStore) Ping(ctx context.Context) error {
	if pinger, ok := s.next.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

func (s *EntityStore) forget(changes entity.ChangeSet) {
	for _, record := range changes.Upserts {
		s.cache.Delete(record.Key.String())
	}
	for _, key := range changes.Deletes {
		s.cache.Delete(key.String())
	}
}
