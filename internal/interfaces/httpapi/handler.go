package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hockey-indexer/internal/domain/receipt"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
	"github.com/riskibarqy/hockey-indexer/internal/usecase"
)

const defaultMaxBodyBytes = 1 << 20

// ReceiptProcessor applies one receipt and reports per-action outcomes.
type ReceiptProcessor interface {
	Process(ctx context.Context, rc receipt.Receipt) usecase.Report
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	processor    ReceiptProcessor
	health       HealthChecker
	logger       *logging.Logger
	validator    *validator.Validate
	maxBodyBytes int64
}

func NewHandler(processor ReceiptProcessor, health HealthChecker, logger *logging.Logger, maxBodyBytes int) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	limit := int64(maxBodyBytes)
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}

	return &Handler{
		processor:    processor,
		health:       health,
		logger:       logger,
		validator:    validator.New(),
		maxBodyBytes: limit,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.health != nil {
		if err := h.health.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "health check failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: store ping: %v", usecase.ErrDependencyUnavailable, err))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) IngestReceipt(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestReceipt")
	defer span.End()

	body := http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("read receipt body: %w", err))
		return
	}

	var req receiptRequest
	decoder := sonic.ConfigDefault.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	rc, err := req.toReceipt()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	report := h.processor.Process(ctx, rc)
	h.logger.DebugContext(ctx, "receipt ingested",
		"receipt_id", report.ReceiptID,
		"applied", report.Count(usecase.ActionApplied),
		"skipped", report.Count(usecase.ActionSkipped),
		"rejected", report.Count(usecase.ActionRejected),
	)

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// receiptRequest mirrors the ledger RPC shape: args and value are base64.
type receiptRequest struct {
	ID            string          `json:"id" validate:"required"`
	PredecessorID string          `json:"predecessor_id"`
	ReceiverID    string          `json:"receiver_id"`
	SignerID      string          `json:"signer_id" validate:"required"`
	BlockHeight   uint64          `json:"block_height"`
	Actions       []actionRequest `json:"actions" validate:"dive"`
	Outcome       outcomeRequest  `json:"outcome"`
}

type actionRequest struct {
	Kind       string `json:"kind" validate:"required,oneof=function_call transfer other"`
	MethodName string `json:"method_name" validate:"required_if=Kind function_call"`
	Args       []byte `json:"args"`
	Deposit    string `json:"deposit" validate:"omitempty,number"`
}

type outcomeRequest struct {
	Status string   `json:"status" validate:"required,oneof=success_value success_receipt failure unknown"`
	Value  []byte   `json:"value"`
	Logs   []string `json:"logs"`
}

func (req receiptRequest) toReceipt() (receipt.Receipt, error) {
	actions := make([]receipt.Action, 0, len(req.Actions))
	for i, item := range req.Actions {
		deposit := decimal.Zero
		if raw := strings.TrimSpace(item.Deposit); raw != "" {
			parsed, err := decimal.NewFromString(raw)
			if err != nil {
				return receipt.Receipt{}, fmt.Errorf("%w: action %d deposit: %v", usecase.ErrInvalidInput, i, err)
			}
			deposit = parsed
		}
		actions = append(actions, receipt.Action{
			Kind:       receipt.ActionKind(item.Kind),
			MethodName: strings.TrimSpace(item.MethodName),
			Args:       item.Args,
			Deposit:    deposit,
		})
	}

	return receipt.Receipt{
		ID:            strings.TrimSpace(req.ID),
		PredecessorID: strings.TrimSpace(req.PredecessorID),
		ReceiverID:    strings.TrimSpace(req.ReceiverID),
		SignerID:      strings.TrimSpace(req.SignerID),
		BlockHeight:   req.BlockHeight,
		Actions:       actions,
		Outcome: receipt.Outcome{
			Status: receipt.OutcomeStatus(req.Outcome.Status),
			Value:  req.Outcome.Value,
			Logs:   req.Outcome.Logs,
		},
	}, nil
}
