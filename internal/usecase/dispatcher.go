package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/internal/domain/receipt"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
)

type ActionStatus string

const (
	ActionApplied  ActionStatus = "applied"
	ActionSkipped  ActionStatus = "skipped"
	ActionRejected ActionStatus = "rejected"
)

// ActionResult is the outcome of one receipt action.
type ActionResult struct {
	Index  int          `json:"index"`
	Method string       `json:"method"`
	Status ActionStatus `json:"status"`
	Class  Class        `json:"class,omitempty"`
	Reason string       `json:"reason,omitempty"`
}

// Report lists one result per action of a processed receipt.
type Report struct {
	ReceiptID string         `json:"receipt_id"`
	Actions   []ActionResult `json:"actions"`
}

func (r Report) Count(status ActionStatus) int {
	n := 0
	for _, action := range r.Actions {
		if action.Status == status {
			n++
		}
	}
	return n
}

// Dispatcher routes receipt actions to the handler of their method. Process
// calls are serialized so receipts apply one at a time in arrival order.
type Dispatcher struct {
	mu         sync.Mutex
	accounts   *AccountService
	social     *SocialService
	matches    *MatchService
	decoder    *gamecontract.Decoder
	logger     *logging.Logger
	contractID string
}

func NewDispatcher(
	accounts *AccountService,
	social *SocialService,
	matches *MatchService,
	decoder *gamecontract.Decoder,
	logger *logging.Logger,
) *Dispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		accounts: accounts,
		social:   social,
		matches:  matches,
		decoder:  decoder,
		logger:   logger,
	}
}

// SetContractAccountID limits processing to receipts addressed to accountID.
// An empty id accepts every receiver.
func (d *Dispatcher) SetContractAccountID(accountID string) {
	d.contractID = strings.TrimSpace(accountID)
}

// Process applies every action of rc. Rejections are reported and logged,
// never returned: the caller moves on to the next receipt.
func (d *Dispatcher) Process(ctx context.Context, rc receipt.Receipt) Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, span := startReceiptSpan(ctx, rc.ID, rc.SignerID, len(rc.Actions))
	var spanErr error
	defer func() { finishSpan(span, spanErr) }()

	report := Report{
		ReceiptID: rc.ID,
		Actions:   make([]ActionResult, 0, len(rc.Actions)),
	}

	skipAll := ""
	switch {
	case d.contractID != "" && rc.ReceiverID != d.contractID:
		skipAll = fmt.Sprintf("receiver %q is not the game contract", rc.ReceiverID)
	case rc.Outcome.Failed():
		skipAll = "receipt outcome failed"
	}

	for i, action := range rc.Actions {
		result := ActionResult{Index: i, Method: action.MethodName}
		switch {
		case skipAll != "":
			result.Status = ActionSkipped
			result.Reason = skipAll
		case action.Kind != receipt.ActionFunctionCall:
			result.Status = ActionSkipped
			result.Reason = fmt.Sprintf("%s action", action.Kind)
		default:
			err := d.dispatch(ctx, rc, action)
			switch {
			case err == nil:
				result.Status = ActionApplied
			case isNoChange(err):
				result.Status = ActionSkipped
				result.Reason = err.Error()
			default:
				result.Status = ActionRejected
				result.Class = Classify(err)
				result.Reason = err.Error()
				if spanErr == nil {
					spanErr = err
				}
				d.report(ctx, rc, action, result.Class, err)
			}
		}
		report.Actions = append(report.Actions, result)
	}

	if rc.Outcome.Failed() && len(rc.Actions) > 0 {
		d.logger.InfoContext(ctx, "skipped failed receipt",
			"receipt_id", rc.ID,
			"signer_id", rc.SignerID,
			"actions", len(rc.Actions),
		)
	}
	return report
}

func (d *Dispatcher) dispatch(ctx context.Context, rc receipt.Receipt, action receipt.Action) error {
	if strings.TrimSpace(rc.SignerID) == "" {
		return fmt.Errorf("%w: signer id is required", ErrInvalidInput)
	}

	switch method := receipt.ParseMethod(action.MethodName); method {
	case receipt.MethodRegisterAccount:
		return d.accounts.Register(ctx, rc.SignerID)

	case receipt.MethodMakeUnavailable:
		return d.accounts.MakeUnavailable(ctx, rc.SignerID)

	case receipt.MethodOnGetTeam:
		value, err := returnValue(rc, method)
		if err != nil {
			return err
		}
		if gamecontract.IsSentinel(value) {
			return d.accounts.MarkAvailable(ctx, rc.SignerID, action.Deposit)
		}
		start, err := d.decoder.DecodeMatchStart(value)
		if err != nil {
			return fmt.Errorf("decode %s value: %w", method, err)
		}
		return d.matches.StartMatch(ctx, start)

	case receipt.MethodGenerateEvent:
		args, err := d.decoder.DecodeGameArgs(action.Args)
		if err != nil {
			return fmt.Errorf("decode %s args: %w", method, err)
		}
		value, err := returnValue(rc, method)
		if err != nil {
			return err
		}
		payload, err := d.decoder.DecodeEvent(value)
		if err != nil {
			return fmt.Errorf("decode %s value: %w", method, err)
		}
		return d.matches.ApplyEvent(ctx, ApplyEventInput{
			GameID:    args.GameID,
			ReceiptID: rc.ID,
			Payload:   payload,
			Logs:      rc.Outcome.Logs,
		})

	case receipt.MethodSendFriendRequest,
		receipt.MethodAcceptFriendRequest,
		receipt.MethodDeclineFriendRequest,
		receipt.MethodSendRequestPlay,
		receipt.MethodAcceptRequestPlay,
		receipt.MethodDeclineRequestPlay,
		receipt.MethodRemoveFriend:
		args, err := d.decoder.DecodeFriendArgs(action.Args)
		if err != nil {
			return fmt.Errorf("decode %s args: %w", method, err)
		}
		return d.dispatchSocial(ctx, method, rc.SignerID, args.FriendID, action)

	case receipt.MethodSetTeamLogo:
		args, err := d.decoder.DecodeTeamLogoArgs(action.Args)
		if err != nil {
			return fmt.Errorf("decode %s args: %w", method, err)
		}
		return d.accounts.SetTeamLogo(ctx, rc.SignerID, args)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMethod, action.MethodName)
	}
}

func (d *Dispatcher) dispatchSocial(ctx context.Context, method receipt.Method, signerID, friendID string, action receipt.Action) error {
	switch method {
	case receipt.MethodSendFriendRequest:
		return d.social.SendFriendRequest(ctx, signerID, friendID)
	case receipt.MethodAcceptFriendRequest:
		return d.social.AcceptFriendRequest(ctx, signerID, friendID)
	case receipt.MethodDeclineFriendRequest:
		return d.social.DeclineFriendRequest(ctx, signerID, friendID)
	case receipt.MethodSendRequestPlay:
		return d.social.SendRequestPlay(ctx, signerID, friendID, action.Deposit)
	case receipt.MethodAcceptRequestPlay:
		return d.social.AcceptRequestPlay(ctx, signerID, friendID)
	case receipt.MethodDeclineRequestPlay:
		return d.social.DeclineRequestPlay(ctx, signerID, friendID)
	case receipt.MethodRemoveFriend:
		return d.social.RemoveFriend(ctx, signerID, friendID)
	default:
		return fmt.Errorf("%w: %s is not a social method", ErrUnknownMethod, method)
	}
}

func (d *Dispatcher) report(ctx context.Context, rc receipt.Receipt, action receipt.Action, class Class, err error) {
	args := []any{
		"receipt_id", rc.ID,
		"method", action.MethodName,
		"signer_id", rc.SignerID,
		"class", string(class),
		"error", err,
	}
	if class == ClassStore {
		d.logger.ErrorContext(ctx, "receipt action failed", args...)
		return
	}
	d.logger.WarnContext(ctx, "receipt action rejected", args...)
}

func returnValue(rc receipt.Receipt, method receipt.Method) ([]byte, error) {
	if rc.Outcome.Status != receipt.StatusSuccessValue {
		return nil, fmt.Errorf("%w: %s outcome is %q, expected a return value", ErrInvalidInput, method, rc.Outcome.Status)
	}
	return rc.Outcome.Value, nil
}
