package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/internal/domain/account"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/platform/id"
)

type AccountService struct {
	store entity.Repository
}

func NewAccountService(store entity.Repository) *AccountService {
	return &AccountService{store: store}
}

// Register creates the signer's user with zero statistics. Registering an
// existing account changes nothing.
func (s *AccountService) Register(ctx context.Context, accountID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Register")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	uow := NewUnitOfWork(s.store)
	user, created, err := getOrCreateUser(ctx, uow, accountID)
	if err != nil {
		return fmt.Errorf("register account %s: %w", accountID, err)
	}
	if !created {
		return fmt.Errorf("%w: account %s already registered", ErrNoChange, accountID)
	}
	if err := putUser(uow, user); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// MakeUnavailable takes a registered user out of matchmaking and releases its deposit.
func (s *AccountService) MakeUnavailable(ctx context.Context, accountID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.MakeUnavailable")
	defer span.End()

	uow := NewUnitOfWork(s.store)
	user, err := requireUser(ctx, uow, accountID)
	if err != nil {
		return fmt.Errorf("make unavailable: %w", err)
	}
	if !user.IsAvailable && user.Deposit.IsZero() {
		return fmt.Errorf("%w: account %s already unavailable", ErrNoChange, accountID)
	}

	user.IsAvailable = false
	user.Deposit = decimal.Zero
	if err := putUser(uow, user); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// MarkAvailable handles an on_get_team call that returned a placeholder
// instead of a match: the signer waits for an opponent with its deposit escrowed.
func (s *AccountService) MarkAvailable(ctx context.Context, accountID string, deposit decimal.Decimal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.MarkAvailable")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}
	if deposit.IsNegative() {
		return fmt.Errorf("%w: negative deposit %s", ErrInvalidInput, deposit)
	}

	uow := NewUnitOfWork(s.store)
	user, _, err := getOrCreateUser(ctx, uow, accountID)
	if err != nil {
		return fmt.Errorf("mark available %s: %w", accountID, err)
	}
	user.Deposit = deposit
	user.IsAvailable = true
	if err := putUser(uow, user); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func (s *AccountService) SetTeamLogo(ctx context.Context, accountID string, args gamecontract.TeamLogoArgs) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.SetTeamLogo")
	defer span.End()

	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	logo := account.TeamLogo{
		ID:                     id.TeamLogo(accountID),
		FormName:               args.FormName,
		PatternName:            args.PatternName,
		FirstLayerColorNumber:  args.FirstLayerColorNumber,
		SecondLayerColorNumber: args.SecondLayerColorNumber,
	}

	uow := NewUnitOfWork(s.store)
	current, exists, err := load[account.TeamLogo](ctx, uow, entity.FamilyTeamLogo, logo.ID)
	if err != nil {
		return fmt.Errorf("set team logo %s: %w", accountID, err)
	}
	if exists && current == logo {
		return fmt.Errorf("%w: team logo of %s unchanged", ErrNoChange, accountID)
	}
	if err := uow.put(entity.FamilyTeamLogo, logo.ID, logo); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
