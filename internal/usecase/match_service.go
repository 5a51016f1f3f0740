package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hockey-indexer/external/gamecontract"
	"github.com/riskibarqy/hockey-indexer/internal/domain/account"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/domain/match"
	"github.com/riskibarqy/hockey-indexer/internal/domain/roster"
	"github.com/riskibarqy/hockey-indexer/internal/platform/id"
)

type ApplyEventInput struct {
	GameID    int64
	ReceiptID string
	Payload   gamecontract.EventPayload
	Logs      []string
}

// MatchService drives a game from creation through its event log to settlement.
type MatchService struct {
	store  entity.Repository
	roster *RosterEngine
}

func NewMatchService(store entity.Repository, rosterEngine *RosterEngine) *MatchService {
	return &MatchService{
		store:  store,
		roster: rosterEngine,
	}
}

// StartMatch creates the game and both sides. Both participants leave
// matchmaking and lose every pending friend and play request.
func (s *MatchService) StartMatch(ctx context.Context, start gamecontract.MatchStart) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.StartMatch")
	defer span.End()

	gameID := id.Game(start.GameID)
	accounts := [2]string{start.Sides[0].AccountID, start.Sides[1].AccountID}
	if accounts[0] == "" || accounts[1] == "" {
		return fmt.Errorf("%w: both account ids are required", ErrInvalidInput)
	}
	if accounts[0] == accounts[1] {
		return fmt.Errorf("%w: account %s cannot play itself", ErrInvalidInput, accounts[0])
	}
	if start.Stake.IsNegative() {
		return fmt.Errorf("%w: negative stake %s", ErrInvalidInput, start.Stake)
	}

	uow := NewUnitOfWork(s.store)
	exists, err := uow.exists(ctx, entity.FamilyGame, gameID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: game %s already started", ErrNoChange, gameID)
	}

	for _, accountID := range accounts {
		user, _, err := getOrCreateUser(ctx, uow, accountID)
		if err != nil {
			return fmt.Errorf("start match %s: %w", gameID, err)
		}
		if err := clearPendingRequests(ctx, uow, &user); err != nil {
			return fmt.Errorf("clear pending requests of %s: %w", accountID, err)
		}
		user.Games = account.Add(user.Games, gameID)
		user.IsAvailable = false
		user.Deposit = decimal.Zero
		if err := putUser(uow, user); err != nil {
			return err
		}
	}

	var infos [2]match.UserInGameInfo
	for i, slot := range []int{id.Slot1, id.Slot2} {
		info, err := s.roster.UpsertSide(ctx, uow, gameID, slot, accounts[i], start.Sides[i])
		if err != nil {
			return fmt.Errorf("start match %s side %d: %w", gameID, slot, err)
		}
		infos[i] = info
	}

	game := match.Game{
		ID:       gameID,
		User1:    infos[0].ID,
		User2:    infos[1].ID,
		Stake:    start.Stake,
		Reward:   decimal.Zero,
		Events:   []string{},
		Receipts: []string{},
	}
	if err := uow.put(entity.FamilyGame, gameID, game); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// ApplyEvent appends one generated event. The event number comes from the
// payload when present, otherwise from the current log length. A receipt
// that already produced an event of the game is a replay and changes nothing.
func (s *MatchService) ApplyEvent(ctx context.Context, input ApplyEventInput) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ApplyEvent")
	defer span.End()

	gameID := id.Game(input.GameID)
	uow := NewUnitOfWork(s.store)
	game, err := require[match.Game](ctx, uow, entity.FamilyGame, gameID)
	if err != nil {
		return err
	}

	switch input.Payload.Kind {
	case gamecontract.EventNone:
		return fmt.Errorf("%w: no event generated for game %s", ErrNoChange, gameID)
	case gamecontract.EventStop:
		return s.checkStop(ctx, uow, game)
	case gamecontract.EventStep:
	default:
		return fmt.Errorf("%w: unknown event kind %d", ErrInvalidInput, input.Payload.Kind)
	}

	step := input.Payload.Step
	number, err := nextEventNumber(game, step, input.ReceiptID)
	if err != nil {
		return err
	}
	if game.Finished {
		return fmt.Errorf("%w: game %s is finished", ErrInvalidTransition, gameID)
	}

	var infos [2]match.UserInGameInfo
	for i, slot := range []int{id.Slot1, id.Slot2} {
		info, err := s.roster.UpsertSide(ctx, uow, gameID, slot, "", step.Sides[i])
		if err != nil {
			return fmt.Errorf("apply event %s side %d: %w", gameID, slot, err)
		}
		infos[i] = info
	}

	event := match.Event{
		ID:                   id.Event(gameID, number),
		GameID:               gameID,
		EventNumber:          number,
		ReceiptID:            input.ReceiptID,
		Actions:              make([]string, 0, len(step.Actions)),
		Tags:                 make([]string, 0, len(step.Actions)),
		ZoneNumber:           step.ZoneNumber,
		Time:                 step.Time,
		EventGenerationDelay: step.EventGenerationDelay,
		User1:                infos[0].ID,
		User2:                infos[1].ID,
	}
	if step.PlayerWithPuck != nil {
		playerID := id.FieldPlayer(*step.PlayerWithPuck, gameID)
		event.PlayerWithPuck = &playerID
	}
	for _, action := range step.Actions {
		event.Actions = append(event.Actions, action.Canonical)
		event.Tags = append(event.Tags, action.Tag)
	}
	if err := uow.put(entity.FamilyEvent, event.ID, event); err != nil {
		return err
	}
	game.Events = append(game.Events, event.ID)
	if input.ReceiptID != "" {
		game.Receipts = append(game.Receipts, input.ReceiptID)
	}

	if event.HasTag(match.TagGoal) {
		if err := s.attributeGoal(ctx, uow, event, infos); err != nil {
			return err
		}
	}
	if event.HasTag(match.TagGameFinished) {
		if err := s.finish(ctx, uow, &game, infos, input.Logs); err != nil {
			return err
		}
	}

	if err := uow.put(entity.FamilyGame, game.ID, game); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

func nextEventNumber(game match.Game, step gamecontract.Event, receiptID string) (int, error) {
	if game.HasReceipt(receiptID) {
		return 0, fmt.Errorf("%w: receipt %s already applied to game %s", ErrNoChange, receiptID, game.ID)
	}

	next := len(game.Events)
	if step.EventNumber == nil {
		return next, nil
	}
	number := *step.EventNumber
	switch {
	case number < 0:
		return 0, fmt.Errorf("%w: negative event number %d", ErrInvalidInput, number)
	case number < next:
		return 0, fmt.Errorf("%w: event %d of game %s already applied", ErrNoChange, number, game.ID)
	case number > next:
		return 0, fmt.Errorf("%w: game %s expects event %d, got %d", ErrInvalidTransition, game.ID, next, number)
	}
	return number, nil
}

// checkStop accepts a stop signal only after the finishing event.
func (s *MatchService) checkStop(ctx context.Context, uow *UnitOfWork, game match.Game) error {
	lastID, ok := game.LastEventID()
	if !ok {
		return fmt.Errorf("%w: stop for game %s without events", ErrInvalidTransition, game.ID)
	}
	last, err := require[match.Event](ctx, uow, entity.FamilyEvent, lastID)
	if err != nil {
		return err
	}
	if !last.HasTag(match.TagGameFinished) {
		return fmt.Errorf("%w: stop for game %s before it finished", ErrInvalidTransition, game.ID)
	}
	return fmt.Errorf("%w: game %s already stopped", ErrNoChange, game.ID)
}

// attributeGoal credits a goal to the side owning the puck holder.
func (s *MatchService) attributeGoal(ctx context.Context, uow *UnitOfWork, event match.Event, infos [2]match.UserInGameInfo) error {
	if event.PlayerWithPuck == nil {
		return fmt.Errorf("%w: goal in event %s without a puck holder", ErrInvalidInput, event.ID)
	}
	player, err := require[roster.FieldPlayer](ctx, uow, entity.FamilyFieldPlayer, *event.PlayerWithPuck)
	if err != nil {
		return fmt.Errorf("goal scorer: %w", err)
	}

	switch player.UserInGameInfoID {
	case infos[0].ID:
		return creditGoal(ctx, uow, infos[0].UserID, infos[1].UserID)
	case infos[1].ID:
		return creditGoal(ctx, uow, infos[1].UserID, infos[0].UserID)
	default:
		return fmt.Errorf("%w: scorer %s plays for neither side of game %s", ErrInvalidInput, player.ID, event.GameID)
	}
}

// finish settles the game from the finish log. A game is finished at most once.
func (s *MatchService) finish(ctx context.Context, uow *UnitOfWork, game *match.Game, infos [2]match.UserInGameInfo, logs []string) error {
	entry, ok := gamecontract.FindFinishLog(logs)
	if !ok {
		return fmt.Errorf("%w: game %s finished without a finish log", ErrInvalidTransition, game.ID)
	}
	if entry.Reward.IsNegative() {
		return fmt.Errorf("%w: negative reward %s", ErrInvalidInput, entry.Reward)
	}

	var winnerIndex int
	var winner, loser string
	switch entry.WinnerID {
	case infos[0].UserID:
		winnerIndex, winner, loser = 1, infos[0].UserID, infos[1].UserID
	case infos[1].UserID:
		winnerIndex, winner, loser = 2, infos[1].UserID, infos[0].UserID
	default:
		return fmt.Errorf("%w: winner %q did not play game %s", ErrInvalidInput, entry.WinnerID, game.ID)
	}

	if err := settle(ctx, uow, winner, loser, entry.Reward); err != nil {
		return fmt.Errorf("settle game %s: %w", game.ID, err)
	}
	game.WinnerIndex = winnerIndex
	game.Reward = entry.Reward
	game.Finished = true
	return nil
}

// clearPendingRequests empties every pending list of user and removes the
// matching entries on the other side. Counterparts that no longer exist are skipped.
func clearPendingRequests(ctx context.Context, uow *UnitOfWork, user *account.User) error {
	for _, other := range user.SentFriendRequests {
		if err := updateCounterpart(ctx, uow, user.ID, other, func(u *account.User) {
			u.FriendRequestsReceived = account.Remove(u.FriendRequestsReceived, user.ID)
		}); err != nil {
			return err
		}
	}
	for _, other := range user.FriendRequestsReceived {
		if err := updateCounterpart(ctx, uow, user.ID, other, func(u *account.User) {
			u.SentFriendRequests = account.Remove(u.SentFriendRequests, user.ID)
		}); err != nil {
			return err
		}
	}
	for _, escrowID := range user.SentRequestsPlay {
		if escrowID == "" {
			continue
		}
		uow.remove(entity.FamilyAccountWithDeposit, escrowID)
		if _, to, ok := id.SplitPlayRequest(escrowID); ok {
			if err := updateCounterpart(ctx, uow, user.ID, to, func(u *account.User) {
				u.RequestsPlayReceived = account.Remove(u.RequestsPlayReceived, escrowID)
			}); err != nil {
				return err
			}
		}
	}
	for _, escrowID := range user.RequestsPlayReceived {
		if escrowID == "" {
			continue
		}
		uow.remove(entity.FamilyAccountWithDeposit, escrowID)
		if from, _, ok := id.SplitPlayRequest(escrowID); ok {
			if err := updateCounterpart(ctx, uow, user.ID, from, func(u *account.User) {
				u.SentRequestsPlay = account.Remove(u.SentRequestsPlay, escrowID)
			}); err != nil {
				return err
			}
		}
	}

	user.SentFriendRequests = []string{}
	user.FriendRequestsReceived = []string{}
	user.SentRequestsPlay = []string{}
	user.RequestsPlayReceived = []string{}
	return nil
}

func updateCounterpart(ctx context.Context, uow *UnitOfWork, selfID, otherID string, fn func(*account.User)) error {
	if otherID == "" || otherID == selfID {
		return nil
	}
	other, exists, err := load[account.User](ctx, uow, entity.FamilyUser, otherID)
	if err != nil || !exists {
		return err
	}
	fn(&other)
	return putUser(uow, other)
}
