package feed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/domain/receipt"
	"github.com/riskibarqy/hockey-indexer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
	"github.com/riskibarqy/hockey-indexer/internal/usecase"
)

type recordingProcessor struct {
	ids []string
}

func (p *recordingProcessor) Process(_ context.Context, rc receipt.Receipt) usecase.Report {
	p.ids = append(p.ids, rc.ID)
	return usecase.Report{
		ReceiptID: rc.ID,
		Actions:   []usecase.ActionResult{{Index: 0, Status: usecase.ActionApplied}},
	}
}

const registerLine = `{"id":"%s","receiver_id":"game.near","signer_id":"%s","actions":[{"kind":"function_call","method_name":"register_account","args":"e30=","deposit":"0"}],"outcome":{"status":"success_value","value":"bnVsbA=="}}`

func registerReceipt(id, signer string) string {
	return strings.Replace(strings.Replace(registerLine, "%s", id, 1), "%s", signer, 1)
}

func TestConsume_ProcessesInOrderAndSkipsMalformed(t *testing.T) {
	processor := &recordingProcessor{}
	reader := NewReader(processor, logging.NewNop())

	src := strings.Join([]string{
		registerReceipt("rc-1", "alice.near"),
		"",
		`{"id":`,
		`{"id":"rc-x","outcome":{"status":"success_value"}}`,
		registerReceipt("rc-2", "bob.near"),
	}, "\n")

	stats, err := reader.Consume(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if strings.Join(processor.ids, ",") != "rc-1,rc-2" {
		t.Fatalf("unexpected processing order: %v", processor.ids)
	}
	if stats.Lines != 5 || stats.Receipts != 2 || stats.Malformed != 2 || stats.Applied != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestConsume_RejectsUnknownEnumsPerLine(t *testing.T) {
	cases := map[string]string{
		"misspelled status": strings.Replace(registerReceipt("rc-1", "alice.near"), `"success_value"`, `"succes_value"`, 1),
		"missing status":    strings.Replace(registerReceipt("rc-1", "alice.near"), `"status":"success_value",`, "", 1),
		"unknown kind":      strings.Replace(registerReceipt("rc-1", "alice.near"), `"function_call"`, `"stake"`, 1),
		"missing method":    strings.Replace(registerReceipt("rc-1", "alice.near"), `"method_name":"register_account",`, "", 1),
	}

	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			processor := &recordingProcessor{}
			stats, err := NewReader(processor, logging.NewNop()).Consume(t.Context(), strings.NewReader(line))
			if err != nil {
				t.Fatalf("consume: %v", err)
			}
			if stats.Malformed != 1 || stats.Receipts != 0 || len(processor.ids) != 0 {
				t.Fatalf("expected a malformed line, got %+v", stats)
			}
		})
	}
}

func TestConsume_StopsOnCancelledContext(t *testing.T) {
	processor := &recordingProcessor{}
	reader := NewReader(processor, logging.NewNop())

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := reader.Consume(ctx, strings.NewReader(registerReceipt("rc-1", "alice.near")))
	if err == nil {
		t.Fatalf("expected context error")
	}
	if len(processor.ids) != 0 {
		t.Fatalf("cancelled consume must not process receipts")
	}
}

func TestConsume_MaterializesThroughDispatcher(t *testing.T) {
	store := memory.NewEntityStore()
	accounts := usecase.NewAccountService(store)
	social := usecase.NewSocialService(store)
	matches := usecase.NewMatchService(store, usecase.NewRosterEngine())
	dispatcher := usecase.NewDispatcher(accounts, social, matches, gamecontract.NewDecoder(), logging.NewNop())

	src := strings.Join([]string{
		registerReceipt("rc-1", "alice.near"),
		registerReceipt("rc-2", "alice.near"),
		registerReceipt("rc-3", "bob.near"),
	}, "\n")

	stats, err := NewReader(dispatcher, logging.NewNop()).Consume(t.Context(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if stats.Applied != 2 || stats.Skipped != 1 || stats.Rejected != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	users := store.Keys(entity.FamilyUser)
	if strings.Join(users, ",") != "alice.near,bob.near" {
		t.Fatalf("unexpected users: %v", users)
	}
}

func TestOpen(t *testing.T) {
	if _, err := Open(" "); err == nil {
		t.Fatalf("expected error for empty path")
	}

	stdin, err := Open(StdinPath)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	if stdin != os.Stdin {
		t.Fatalf("expected standard input for %q", StdinPath)
	}

	path := filepath.Join(t.TempDir(), "receipts.jsonl")
	if err := os.WriteFile(path, []byte(registerReceipt("rc-1", "alice.near")+"\n"), 0o600); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	file, err := Open(path)
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	defer file.Close()

	processor := &recordingProcessor{}
	if _, err := NewReader(processor, logging.NewNop()).Consume(t.Context(), file); err != nil {
		t.Fatalf("consume file: %v", err)
	}
	if len(processor.ids) != 1 {
		t.Fatalf("expected one receipt, got %v", processor.ids)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.jsonl")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
