package memory

import (
	"context"
	"testing"

	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
)

func TestEntityStore_ApplyAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewEntityStore()

	user := entity.Key{Family: entity.FamilyUser, ID: "alice.near"}
	request := entity.Key{Family: entity.FamilyAccountWithDeposit, ID: "alice.near|bob.near"}
	payload := []byte(`{"id":"alice.near"}`)

	err := store.Apply(ctx, entity.ChangeSet{Upserts: []entity.Record{
		{Key: user, Payload: payload},
		{Key: request, Payload: []byte(`{}`)},
	}})
	if err != nil {
		t.Fatalf("apply upserts: %v", err)
	}

	payload[2] = 'X'
	got, ok, err := store.Get(ctx, user)
	if err != nil || !ok {
		t.Fatalf("expected stored user, ok=%v err=%v", ok, err)
	}
	if string(got) != `{"id":"alice.near"}` {
		t.Fatalf("store must copy payloads, got %s", got)
	}

	got[0] = '['
	again, _, _ := store.Get(ctx, user)
	if again[0] != '{' {
		t.Fatalf("returned payload must not alias the stored buffer")
	}

	if err := store.Apply(ctx, entity.ChangeSet{Deletes: []entity.Key{request}}); err != nil {
		t.Fatalf("apply delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, request); ok {
		t.Fatalf("expected request to be deleted")
	}
	if keys := store.Keys(entity.FamilyUser); len(keys) != 1 || keys[0] != "alice.near" {
		t.Fatalf("unexpected user keys: %v", keys)
	}
}

func TestEntityStore_RejectsInvalidKeysWithoutWriting(t *testing.T) {
	ctx := context.Background()
	store := NewEntityStore()

	err := store.Apply(ctx, entity.ChangeSet{Upserts: []entity.Record{
		{Key: entity.Key{Family: entity.FamilyUser, ID: "alice.near"}, Payload: []byte(`{}`)},
		{Key: entity.Key{Family: "planets", ID: "mars"}, Payload: []byte(`{}`)},
	}})
	if err == nil {
		t.Fatalf("expected unknown family error")
	}
	if store.Len() != 0 {
		t.Fatalf("a rejected change set must not be partially applied")
	}

	if _, _, err := store.Get(ctx, entity.Key{Family: entity.FamilyGame}); err == nil {
		t.Fatalf("expected empty id error")
	}
}
