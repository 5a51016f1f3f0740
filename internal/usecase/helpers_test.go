package usecase

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/external/gamecontract/gamecontracttest"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/domain/receipt"
	"github.com/riskibarqy/hockey-indexer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
)

const (
	alice = "alice.near"
	bob   = "bob.near"
	carol = "carol.near"
)

type testEnv struct {
	store      *memory.EntityStore
	accounts   *AccountService
	social     *SocialService
	matches    *MatchService
	dispatcher *Dispatcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithStore(t, memory.NewEntityStore())
}

func newTestEnvWithStore(t *testing.T, store *memory.EntityStore) *testEnv {
	t.Helper()

	accounts := NewAccountService(store)
	social := NewSocialService(store)
	matches := NewMatchService(store, NewRosterEngine())
	return &testEnv{
		store:      store,
		accounts:   accounts,
		social:     social,
		matches:    matches,
		dispatcher: NewDispatcher(accounts, social, matches, gamecontract.NewDecoder(), logging.NewNop()),
	}
}

func (e *testEnv) register(t *testing.T, accountIDs ...string) {
	t.Helper()
	for _, accountID := range accountIDs {
		if err := e.accounts.Register(t.Context(), accountID); err != nil {
			t.Fatalf("register %s: %v", accountID, err)
		}
	}
}

// process runs rc and fails unless every action ends with want.
func (e *testEnv) process(t *testing.T, rc receipt.Receipt, want ActionStatus) Report {
	t.Helper()
	report := e.dispatcher.Process(t.Context(), rc)
	for _, action := range report.Actions {
		if action.Status != want {
			t.Fatalf("receipt %s action %d (%s): status %s (%s %s), want %s",
				rc.ID, action.Index, action.Method, action.Status, action.Class, action.Reason, want)
		}
	}
	return report
}

func (e *testEnv) startMatch(t *testing.T, gameID int64, account1, account2, stake string) {
	t.Helper()
	e.process(t, matchStartReceipt("start-"+account1+"-"+account2, account1, gamecontracttest.MatchStart(gameID, account1, account2, stake)), ActionApplied)
}

func mustGet[T any](t *testing.T, store entity.Repository, family entity.Family, id string) T {
	t.Helper()

	var out T
	payload, ok, err := store.Get(t.Context(), entity.Key{Family: family, ID: id})
	if err != nil {
		t.Fatalf("get %s %s: %v", family, id, err)
	}
	if !ok {
		t.Fatalf("expected %s %s to exist", family, id)
	}
	if err := sonic.Unmarshal(payload, &out); err != nil {
		t.Fatalf("decode %s %s: %v", family, id, err)
	}
	return out
}

func mustNotExist(t *testing.T, store entity.Repository, family entity.Family, id string) {
	t.Helper()

	_, ok, err := store.Get(t.Context(), entity.Key{Family: family, ID: id})
	if err != nil {
		t.Fatalf("get %s %s: %v", family, id, err)
	}
	if ok {
		t.Fatalf("expected %s %s to be absent", family, id)
	}
}

// snapshot returns every stored payload keyed by family and id.
func snapshot(t *testing.T, store *memory.EntityStore) map[string]string {
	t.Helper()

	out := make(map[string]string)
	for _, family := range entity.Families() {
		for _, id := range store.Keys(family) {
			key := entity.Key{Family: family, ID: id}
			payload, _, err := store.Get(t.Context(), key)
			if err != nil {
				t.Fatalf("get %s: %v", key, err)
			}
			out[key.String()] = string(payload)
		}
	}
	return out
}

func callReceipt(receiptID, signerID, method string, args any, deposit string) receipt.Receipt {
	action := receipt.Action{
		Kind:       receipt.ActionFunctionCall,
		MethodName: method,
		Deposit:    decimal.Zero,
	}
	if args != nil {
		action.Args = gamecontracttest.MustBytes(args)
	}
	if deposit != "" {
		action.Deposit = decimal.RequireFromString(deposit)
	}
	return receipt.Receipt{
		ID:         receiptID,
		ReceiverID: "game.near",
		SignerID:   signerID,
		Actions:    []receipt.Action{action},
		Outcome:    receipt.Outcome{Status: receipt.StatusSuccessValue, Value: []byte("null")},
	}
}

func friendReceipt(receiptID, signerID, method, friendID string) receipt.Receipt {
	return callReceipt(receiptID, signerID, method, gamecontracttest.Object{"friend_id": friendID}, "")
}

func matchStartReceipt(receiptID, signerID string, value any) receipt.Receipt {
	rc := callReceipt(receiptID, signerID, "on_get_team", gamecontracttest.Object{}, "")
	rc.Outcome.Value = gamecontracttest.MustBytes(value)
	return rc
}

func eventReceipt(receiptID string, gameID int64, value any, logs ...string) receipt.Receipt {
	rc := callReceipt(receiptID, "game.near", "generate_event", gamecontracttest.Object{"game_id": gameID}, "")
	rc.Outcome.Value = gamecontracttest.MustBytes(value)
	rc.Outcome.Logs = logs
	return rc
}

func numbered(event gamecontracttest.Object, number int) gamecontracttest.Object {
	event["event_number"] = number
	return event
}

func mustDecimal(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return value
}
