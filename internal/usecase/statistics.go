package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/hockey-indexer/internal/domain/account"
	"github.com/riskibarqy/hockey-indexer/internal/domain/entity"
	"github.com/riskibarqy/hockey-indexer/internal/platform/id"
)

// getOrCreateUser returns the stored user, or a fresh one together with its
// zero statistics. created reports whether anything new was staged.
func getOrCreateUser(ctx context.Context, uow *UnitOfWork, accountID string) (account.User, bool, error) {
	user, exists, err := load[account.User](ctx, uow, entity.FamilyUser, accountID)
	if err != nil {
		return account.User{}, false, err
	}
	if !exists {
		user = account.NewUser(accountID)
	}

	statisticsID := user.StatisticsID
	if statisticsID == "" {
		statisticsID = id.Statistics(accountID)
		user.StatisticsID = statisticsID
	}
	statsExists, err := uow.exists(ctx, entity.FamilyUserStatistics, statisticsID)
	if err != nil {
		return account.User{}, false, err
	}
	if !statsExists {
		if err := uow.put(entity.FamilyUserStatistics, statisticsID, account.NewStatistics(statisticsID)); err != nil {
			return account.User{}, false, err
		}
	}
	return user, !exists || !statsExists, nil
}

func requireUser(ctx context.Context, uow *UnitOfWork, accountID string) (account.User, error) {
	return require[account.User](ctx, uow, entity.FamilyUser, accountID)
}

func putUser(uow *UnitOfWork, user account.User) error {
	return uow.put(entity.FamilyUser, user.ID, user)
}

// updateStatistics applies fn to the statistics of accountID.
func updateStatistics(ctx context.Context, uow *UnitOfWork, accountID string, fn func(*account.Statistics)) error {
	user, err := requireUser(ctx, uow, accountID)
	if err != nil {
		return err
	}
	stats, err := require[account.Statistics](ctx, uow, entity.FamilyUserStatistics, user.StatisticsID)
	if err != nil {
		return fmt.Errorf("statistics of %s: %w", accountID, err)
	}
	fn(&stats)
	return uow.put(entity.FamilyUserStatistics, stats.ID, stats)
}

func creditGoal(ctx context.Context, uow *UnitOfWork, scorer, conceder string) error {
	if err := updateStatistics(ctx, uow, scorer, func(s *account.Statistics) { s.TotalGoals++ }); err != nil {
		return err
	}
	return updateStatistics(ctx, uow, conceder, func(s *account.Statistics) { s.TotalMisses++ })
}

// settle credits one finished match. The caller guarantees it runs once per game.
func settle(ctx context.Context, uow *UnitOfWork, winner, loser string, reward decimal.Decimal) error {
	if err := updateStatistics(ctx, uow, winner, func(s *account.Statistics) {
		s.Victories++
		s.TotalReward = s.TotalReward.Add(reward)
	}); err != nil {
		return err
	}
	return updateStatistics(ctx, uow, loser, func(s *account.Statistics) {
		s.Losses++
		s.TotalLoss = s.TotalLoss.Add(reward)
	})
}
