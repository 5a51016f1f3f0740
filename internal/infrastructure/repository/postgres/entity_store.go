package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	qb "github.com/riskibarqy/hockey-indexer/internal/platform/querybuilder"
)

// rows per INSERT statement; three params each keeps well below the
// 65535 bind parameter limit.
const upsertBatchSize = 1000

// EntityStore persists each family in its own table (see db/migrations).
type EntityStore struct {
	db *sqlx.DB
}

func NewEntityStore(db *sqlx.DB) *EntityStore {
	return &EntityStore{db: db}
}

func (s *EntityStore) Get(ctx context.Context, key entity.Key) ([]byte, bool, error) {
	if err := key.Validate(); err != nil {
		return nil, false, err
	}

	query, args, err := qb.Select("id", "payload").
		From(string(key.Family)).
		Where(qb.Eq("id", key.ID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, false, fmt.Errorf("build get %s query: %w", key.Family, err)
	}

	var row entityTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return row.Payload, true, nil
}

// Apply writes the whole change set in one transaction. Rows whose payload
// hash is unchanged keep their updated_at.
func (s *EntityStore) Apply(ctx context.Context, changes entity.ChangeSet) error {
	if changes.Empty() {
		return nil
	}

	upserts, upsertOrder, err := groupUpserts(changes.Upserts)
	if err != nil {
		return err
	}
	deletes, deleteOrder, err := groupDeletes(changes.Deletes)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx apply change set: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, family := range upsertOrder {
		if err := upsertFamily(ctx, tx, family, upserts[family]); err != nil {
			return err
		}
	}
	for _, family := range deleteOrder {
		if err := deleteFamily(ctx, tx, family, deletes[family]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit change set tx: %w", err)
	}
	return nil
}

func (s *EntityStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping entity store: %w", err)
	}
	return nil
}

func upsertFamily(ctx context.Context, tx *sqlx.Tx, family entity.Family, rows []any) error {
	suffix := fmt.Sprintf(`ON CONFLICT (id) DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    updated_at = NOW()
WHERE %s.payload_hash IS DISTINCT FROM EXCLUDED.payload_hash`, family)

	for start := 0; start < len(rows); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(rows))
		query, args, err := qb.InsertModels(string(family), rows[start:end], suffix)
		if err != nil {
			return fmt.Errorf("build upsert %s query: %w", family, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert %s rows=%d: %w", family, end-start, err)
		}
	}
	return nil
}

func deleteFamily(ctx context.Context, tx *sqlx.Tx, family entity.Family, ids []any) error {
	query, args, err := qb.DeleteFrom(string(family)).
		Where(qb.In("id", ids)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete %s query: %w", family, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s rows=%d: %w", family, len(ids), err)
	}
	return nil
}

// groupUpserts buckets records by family in first-seen order. A key staged
// twice keeps its last payload; Postgres rejects a statement touching the
// same conflict key twice.
func groupUpserts(records []entity.Record) (map[entity.Family][]any, []entity.Family, error) {
	latest := make(map[entity.Key]int, len(records))
	for i, record := range records {
		if err := record.Key.Validate(); err != nil {
			return nil, nil, fmt.Errorf("upsert %s: %w", record.Key, err)
		}
		latest[record.Key] = i
	}

	out := make(map[entity.Family][]any)
	order := make([]entity.Family, 0)
	for i, record := range records {
		if latest[record.Key] != i {
			continue
		}
		if _, ok := out[record.Key.Family]; !ok {
			order = append(order, record.Key.Family)
		}
		out[record.Key.Family] = append(out[record.Key.Family], newEntityInsertModel(record.Key.ID, record.Payload))
	}
	return out, order, nil
}

func groupDeletes(keys []entity.Key) (map[entity.Family][]any, []entity.Family, error) {
	seen := make(map[entity.Key]struct{}, len(keys))
	out := make(map[entity.Family][]any)
	order := make([]entity.Family, 0)
	for _, key := range keys {
		if err := key.Validate(); err != nil {
			return nil, nil, fmt.Errorf("delete %s: %w", key, err)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := out[key.Family]; !ok {
			order = append(order, key.Family)
		}
		out[key.Family] = append(out[key.Family], key.ID)
	}
	return out, order, nil
}
