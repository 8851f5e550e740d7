package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

type BalanceTransactionService struct {
	uow      uow.UOW
	blRepo   BalanceTransactionRepository
	userRepo UserRepository
}

func NewBalanceTransactionService(u uow.UOW) (*BalanceTransactionService, error) {
	rName := uow.RepositoryName(repoargs.BalanceTransactionRepoName)
	blRepo, blRepoErr := uow.GetRepositoryAs[BalanceTransactionRepository](u, rName)
	if blRepoErr != nil {
		return nil, blRepoErr
	}
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &BalanceTransactionService{
		uow:      u,
		blRepo:   blRepo,
		userRepo: userRepo,
	}, nil
}

// BalanceSummary текущий баланс юзера вместе с показателями надежности.
type BalanceSummary struct {
	Current                decimal.Decimal
	TotalDeals             int64
	CompletedDeals         int64
	ReliabilityCoefficient float64
	ReliabilityRank        domain.ReliabilityRank
}

// GetUserBalance возвращает сводку баланса юзера. Текущий баланс считается по журналу
// проводок как дебет минус кредит.
func (b *BalanceTransactionService) GetUserBalance(
	ctx context.Context,
	userID int64,
) (*BalanceSummary, error) {
	user, userErr := b.userRepo.GetByID(ctx, userID)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	balance, balanceErr := b.blRepo.GetUserBalance(ctx, userID)
	if balanceErr != nil {
		return nil, balanceErr //nolint:wrapcheck
	}
	coefficient := user.ReliabilityCoefficient()
	return &BalanceSummary{
		Current:                balance.DebitAmount.Sub(balance.CreditAmount),
		TotalDeals:             user.TotalDeals,
		CompletedDeals:         user.CompletedDeals,
		ReliabilityCoefficient: coefficient,
		ReliabilityRank:        domain.RankForCoefficient(coefficient),
	}, nil
}

// GetByUserID возвращает проводки юзера, новые первыми.
func (b *BalanceTransactionService) GetByUserID(
	ctx context.Context,
	userID int64,
) ([]domain.BalanceTransaction, error) {
	transactions, err := b.blRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return transactions, nil
}
