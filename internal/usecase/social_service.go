package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hockey-indexer/internal/domain/account"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/platform/id"
)

// SocialService keeps the friend and play request relations symmetric
// across both users. Every operation checks both sides before mutating either.
type SocialService struct {
	store entity.Repository
}

func NewSocialService(store entity.Repository) *SocialService {
	return &SocialService{store: store}
}

func (s *SocialService) SendFriendRequest(ctx context.Context, accountID, friendID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.SendFriendRequest")
	defer span.End()

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, sender, recipient *account.User) error {
		if account.Contains(sender.Friends, recipient.ID) || account.Contains(recipient.Friends, sender.ID) {
			return fmt.Errorf("%w: %s and %s are already friends", ErrInvalidTransition, sender.ID, recipient.ID)
		}
		if friendRequestPending(*sender, *recipient) || friendRequestPending(*recipient, *sender) {
			return fmt.Errorf("%w: friend request between %s and %s already pending", ErrInvalidTransition, sender.ID, recipient.ID)
		}

		sender.SentFriendRequests = account.Add(sender.SentFriendRequests, recipient.ID)
		recipient.FriendRequestsReceived = account.Add(recipient.FriendRequestsReceived, sender.ID)
		return nil
	})
}

// AcceptFriendRequest is signed by the recipient; friendID sent the request.
func (s *SocialService) AcceptFriendRequest(ctx context.Context, accountID, friendID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.AcceptFriendRequest")
	defer span.End()

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, recipient, sender *account.User) error {
		if !friendRequestPending(*sender, *recipient) {
			return fmt.Errorf("%w: no friend request from %s to %s", ErrInvalidTransition, sender.ID, recipient.ID)
		}

		sender.SentFriendRequests = account.Remove(sender.SentFriendRequests, recipient.ID)
		recipient.FriendRequestsReceived = account.Remove(recipient.FriendRequestsReceived, sender.ID)
		sender.Friends = account.Add(sender.Friends, recipient.ID)
		recipient.Friends = account.Add(recipient.Friends, sender.ID)
		return nil
	})
}

// DeclineFriendRequest refuses an incoming request or rescinds an outgoing one.
func (s *SocialService) DeclineFriendRequest(ctx context.Context, accountID, friendID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.DeclineFriendRequest")
	defer span.End()

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, actor, friend *account.User) error {
		switch {
		case friendRequestPending(*friend, *actor):
			friend.SentFriendRequests = account.Remove(friend.SentFriendRequests, actor.ID)
			actor.FriendRequestsReceived = account.Remove(actor.FriendRequestsReceived, friend.ID)
		case friendRequestPending(*actor, *friend):
			actor.SentFriendRequests = account.Remove(actor.SentFriendRequests, friend.ID)
			friend.FriendRequestsReceived = account.Remove(friend.FriendRequestsReceived, actor.ID)
		default:
			return fmt.Errorf("%w: no friend request between %s and %s", ErrInvalidTransition, actor.ID, friend.ID)
		}
		return nil
	})
}

func (s *SocialService) RemoveFriend(ctx context.Context, accountID, friendID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.RemoveFriend")
	defer span.End()

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, actor, friend *account.User) error {
		if !account.Contains(actor.Friends, friend.ID) || !account.Contains(friend.Friends, actor.ID) {
			return fmt.Errorf("%w: %s and %s are not friends", ErrInvalidTransition, actor.ID, friend.ID)
		}
		actor.Friends = account.Remove(actor.Friends, friend.ID)
		friend.Friends = account.Remove(friend.Friends, actor.ID)
		return nil
	})
}

// SendRequestPlay escrows deposit until the request is accepted or declined.
func (s *SocialService) SendRequestPlay(ctx context.Context, accountID, friendID string, deposit decimal.Decimal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.SendRequestPlay")
	defer span.End()

	if deposit.IsNegative() {
		return fmt.Errorf("%w: negative deposit %s", ErrInvalidInput, deposit)
	}

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, sender, recipient *account.User) error {
		for _, pair := range [][2]*account.User{{sender, recipient}, {recipient, sender}} {
			escrowID := id.PlayRequest(pair[0].ID, pair[1].ID)
			if account.Contains(pair[0].SentRequestsPlay, escrowID) || account.Contains(pair[1].RequestsPlayReceived, escrowID) {
				return fmt.Errorf("%w: play request %s already pending", ErrInvalidTransition, escrowID)
			}
			exists, err := uow.exists(ctx, entity.FamilyAccountWithDeposit, escrowID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: escrow %s already exists", ErrInvalidTransition, escrowID)
			}
		}

		escrow := account.PlayRequest{
			ID:      id.PlayRequest(sender.ID, recipient.ID),
			From:    sender.ID,
			To:      recipient.ID,
			Deposit: deposit,
		}
		if err := uow.put(entity.FamilyAccountWithDeposit, escrow.ID, escrow); err != nil {
			return err
		}
		sender.SentRequestsPlay = account.Add(sender.SentRequestsPlay, escrow.ID)
		recipient.RequestsPlayReceived = account.Add(recipient.RequestsPlayReceived, escrow.ID)
		return nil
	})
}

// AcceptRequestPlay is signed by the recipient. Accepting one's own request is rejected.
func (s *SocialService) AcceptRequestPlay(ctx context.Context, accountID, friendID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.AcceptRequestPlay")
	defer span.End()

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, actor, friend *account.User) error {
		if playRequestPending(*actor, *friend) && !playRequestPending(*friend, *actor) {
			return fmt.Errorf("%w: %s cannot accept its own play request", ErrInvalidTransition, actor.ID)
		}
		return releasePlayRequest(ctx, uow, friend, actor)
	})
}

// DeclineRequestPlay refuses an incoming request or cancels an outgoing one.
func (s *SocialService) DeclineRequestPlay(ctx context.Context, accountID, friendID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.SocialService.DeclineRequestPlay")
	defer span.End()

	return s.run(ctx, accountID, friendID, func(uow *UnitOfWork, actor, friend *account.User) error {
		if playRequestPending(*friend, *actor) {
			return releasePlayRequest(ctx, uow, friend, actor)
		}
		return releasePlayRequest(ctx, uow, actor, friend)
	})
}

// run loads both users, applies fn and commits both.
func (s *SocialService) run(ctx context.Context, accountID, friendID string, fn func(uow *UnitOfWork, actor, friend *account.User) error) error {
	accountID = strings.TrimSpace(accountID)
	friendID = strings.TrimSpace(friendID)
	if accountID == "" || friendID == "" {
		return fmt.Errorf("%w: account id and friend id are required", ErrInvalidInput)
	}
	if accountID == friendID {
		return fmt.Errorf("%w: %s cannot target itself", ErrInvalidInput, accountID)
	}

	uow := NewUnitOfWork(s.store)
	actor, err := requireUser(ctx, uow, accountID)
	if err != nil {
		return err
	}
	friend, err := requireUser(ctx, uow, friendID)
	if err != nil {
		return err
	}

	if err := fn(uow, &actor, &friend); err != nil {
		return err
	}
	if err := putUser(uow, actor); err != nil {
		return err
	}
	if err := putUser(uow, friend); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// releasePlayRequest deletes the escrow of the request from sender to
// recipient and clears it from both pending lists.
func releasePlayRequest(ctx context.Context, uow *UnitOfWork, sender, recipient *account.User) error {
	escrowID := id.PlayRequest(sender.ID, recipient.ID)
	if !playRequestPending(*sender, *recipient) {
		return fmt.Errorf("%w: no play request %s", ErrInvalidTransition, escrowID)
	}
	exists, err := uow.exists(ctx, entity.FamilyAccountWithDeposit, escrowID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: escrow %s", ErrNotFound, escrowID)
	}

	uow.remove(entity.FamilyAccountWithDeposit, escrowID)
	sender.SentRequestsPlay = account.Remove(sender.SentRequestsPlay, escrowID)
	recipient.RequestsPlayReceived = account.Remove(recipient.RequestsPlayReceived, escrowID)
	return nil
}

func friendRequestPending(sender, recipient account.User) bool {
	return account.Contains(sender.SentFriendRequests, recipient.ID) &&
		account.Contains(recipient.FriendRequestsReceived, sender.ID)
}

func playRequestPending(sender, recipient account.User) bool {
	escrowID := id.PlayRequest(sender.ID, recipient.ID)
	return account.Contains(sender.SentRequestsPlay, escrowID) &&
		account.Contains(recipient.RequestsPlayReceived, escrowID)
}
