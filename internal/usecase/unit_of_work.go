package usecase

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
)

// sorted keys keep encoded payloads byte-stable across runs
var entityCodec = sonic.ConfigStd

// UnitOfWork stages the reads and writes of one handler invocation. Reads
// see staged writes first; nothing reaches the store until Commit.
type UnitOfWork struct {
	store  entity.Repository
	staged map[entity.Key]stagedRecord
	order  []entity.Key
}

type stagedRecord struct {
	payload []byte
	deleted bool
}

func NewUnitOfWork(store entity.Repository) *UnitOfWork {
	return &UnitOfWork{
		store:  store,
		staged: make(map[entity.Key]stagedRecord),
	}
}

// ChangeSet returns the staged writes in first-touch order.
func (u *UnitOfWork) ChangeSet() entity.ChangeSet {
	var changes entity.ChangeSet
	for _, key := range u.order {
		record := u.staged[key]
		if record.deleted {
			changes.Deletes = append(changes.Deletes, key)
			continue
		}
		changes.Upserts = append(changes.Upserts, entity.Record{Key: key, Payload: record.payload})
	}
	return changes
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	changes := u.ChangeSet()
	if changes.Empty() {
		return nil
	}
	if err := u.store.Apply(ctx, changes); err != nil {
		return fmt.Errorf("apply change set upserts=%d deletes=%d: %w: %w", len(changes.Upserts), len(changes.Deletes), ErrDependencyUnavailable, err)
	}
	u.staged = make(map[entity.Key]stagedRecord)
	u.order = nil
	return nil
}

func (u *UnitOfWork) read(ctx context.Context, key entity.Key) ([]byte, bool, error) {
	if record, ok := u.staged[key]; ok {
		if record.deleted {
			return nil, false, nil
		}
		return record.payload, true, nil
	}

	payload, ok, err := u.store.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w: %w", key, ErrDependencyUnavailable, err)
	}
	return payload, ok, nil
}

func (u *UnitOfWork) stage(key entity.Key, record stagedRecord) {
	if _, ok := u.staged[key]; !ok {
		u.order = append(u.order, key)
	}
	u.staged[key] = record
}

func (u *UnitOfWork) put(family entity.Family, id string, value any) error {
	key := entity.Key{Family: family, ID: id}
	if err := key.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	payload, err := entityCodec.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	u.stage(key, stagedRecord{payload: payload})
	return nil
}

func (u *UnitOfWork) remove(family entity.Family, id string) {
	u.stage(entity.Key{Family: family, ID: id}, stagedRecord{deleted: true})
}

func (u *UnitOfWork) exists(ctx context.Context, family entity.Family, id string) (bool, error) {
	_, ok, err := u.read(ctx, entity.Key{Family: family, ID: id})
	return ok, err
}

// load decodes one entity; ok is false when it does not exist.
func load[T any](ctx context.Context, u *UnitOfWork, family entity.Family, id string) (T, bool, error) {
	var out T
	key := entity.Key{Family: family, ID: id}
	if err := key.Validate(); err != nil {
		return out, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	payload, ok, err := u.read(ctx, key)
	if err != nil || !ok {
		return out, false, err
	}
	if err := entityCodec.Unmarshal(payload, &out); err != nil {
		return out, false, fmt.Errorf("decode %s: %w: %w", key, ErrDependencyUnavailable, err)
	}
	return out, true, nil
}

// require is load for entities that must already exist.
func require[T any](ctx context.Context, u *UnitOfWork, family entity.Family, id string) (T, error) {
	out, ok, err := load[T](ctx, u, family, id)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, fmt.Errorf("%w: %s %q", ErrNotFound, family, id)
	}
	return out, nil
}
