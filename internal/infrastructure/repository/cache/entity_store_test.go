package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	entitymock "github.com/riskibarqy/hockey-indexer/internal/mocks/domain/entity"
	"github.com/stretchr/testify/mock"
)

func TestEntityStore_Get_LoadsOnceIncludingMisses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := entitymock.NewRepository(t)
	store := NewEntityStore(next, time.Minute)

	game := entity.Key{Family: entity.FamilyGame, ID: "7"}
	missing := entity.Key{Family: entity.FamilyGame, ID: "8"}
	next.On("Get", mock.Anything, game).Return([]byte(`{"id":"7"}`), true, nil).Once()
	next.On("Get", mock.Anything, missing).Return(nil, false, nil).Once()

	for i := 0; i < 3; i++ {
		payload, ok, err := store.Get(ctx, game)
		if err != nil || !ok || string(payload) != `{"id":"7"}` {
			t.Fatalf("unexpected get: payload=%s ok=%v err=%v", payload, ok, err)
		}
		if _, ok, err := store.Get(ctx, missing); err != nil || ok {
			t.Fatalf("expected cached miss, ok=%v err=%v", ok, err)
		}
	}
}

func TestEntityStore_Apply_WritesThrough(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := entitymock.NewRepository(t)
	store := NewEntityStore(next, time.Minute)

	user := entity.Key{Family: entity.FamilyUser, ID: "alice.near"}
	request := entity.Key{Family: entity.FamilyAccountWithDeposit, ID: "alice.near|bob.near"}
	changes := entity.ChangeSet{
		Upserts: []entity.Record{{Key: user, Payload: []byte(`{"id":"alice.near"}`)}},
		Deletes: []entity.Key{request},
	}
	next.On("Apply", mock.Anything, changes).Return(nil).Once()

	if err := store.Apply(ctx, changes); err != nil {
		t.Fatalf("apply: %v", err)
	}

	payload, ok, err := store.Get(ctx, user)
	if err != nil || !ok || string(payload) != `{"id":"alice.near"}` {
		t.Fatalf("expected written-through user, payload=%s ok=%v err=%v", payload, ok, err)
	}
	if _, ok, err := store.Get(ctx, request); err != nil || ok {
		t.Fatalf("expected deleted request to read as missing, ok=%v err=%v", ok, err)
	}
}

func TestEntityStore_Apply_FailureInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := entitymock.NewRepository(t)
	store := NewEntityStore(next, time.Minute)

	user := entity.Key{Family: entity.FamilyUser, ID: "alice.near"}
	next.On("Get", mock.Anything, user).Return([]byte(`{"v":1}`), true, nil).Twice()

	if _, _, err := store.Get(ctx, user); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	boom := errors.New("connection reset")
	changes := entity.ChangeSet{Upserts: []entity.Record{{Key: user, Payload: []byte(`{"v":2}`)}}}
	next.On("Apply", mock.Anything, changes).Return(boom).Once()

	if err := store.Apply(ctx, changes); !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}

	payload, _, err := store.Get(ctx, user)
	if err != nil || string(payload) != `{"v":1}` {
		t.Fatalf("expected reload from backing store, payload=%s err=%v", payload, err)
	}
}
