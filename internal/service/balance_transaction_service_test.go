package service

import (
	"testing"
	"time"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/internal/service/mocks"
	"github.com/fsdevblog/groph-duel/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-duel/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type BalanceTransactionServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockBlRepo   *mocks.MockBalanceTransactionRepository
	mockUserRepo *mocks.MockUserRepository
	service      *BalanceTransactionService
}

func TestBalanceTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(BalanceTransactionServiceTestSuite))
}

func (s *BalanceTransactionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockBlRepo = mocks.NewMockBalanceTransactionRepository(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)

	// Настроить возврат репозиториев в сервисе при инициализации
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.BalanceTransactionRepoName)).
		Return(s.mockBlRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	var err error
	s.service, err = NewBalanceTransactionService(s.mockUOW)
	s.Require().NoError(err)
}

func (s *BalanceTransactionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *BalanceTransactionServiceTestSuite) TestGetUserBalance() {
	var userID int64 = 123

	debitAmount := decimal.NewFromInt(150) // всего зачислений
	creditAmount := decimal.NewFromInt(20) // заблокировано в ставках

	user := domain.User{
		ID:             userID,
		Username:       "test",
		TotalDeals:     10,
		CompletedDeals: 8,
	}

	s.mockUserRepo.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(&user, nil)

	s.mockBlRepo.EXPECT().
		GetUserBalance(gomock.Any(), userID).
		Return(&repoargs.BalanceAggregation{
			DebitAmount:  debitAmount,
			CreditAmount: creditAmount,
		}, nil)

	balance, err := s.service.GetUserBalance(s.T().Context(), userID)
	s.Require().NoError(err)

	// убеждаемся что баланс и надежность возвращаются верные.
	s.Equal(debitAmount.Sub(creditAmount), balance.Current)
	s.Equal(user.TotalDeals, balance.TotalDeals)
	s.Equal(user.CompletedDeals, balance.CompletedDeals)
	s.InDelta(0.8, balance.ReliabilityCoefficient, 0.0001)
	s.Equal(domain.RankReliable, balance.ReliabilityRank)
}

func (s *BalanceTransactionServiceTestSuite) TestGetUserBalance_NoHistory() {
	var userID int64 = 7

	// Юзер без сделок считается полностью надежным.
	s.mockUserRepo.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(&domain.User{ID: userID, Username: "fresh"}, nil)

	s.mockBlRepo.EXPECT().
		GetUserBalance(gomock.Any(), userID).
		Return(&repoargs.BalanceAggregation{
			DebitAmount:  decimal.NewFromInt(500),
			CreditAmount: decimal.NewFromInt(0),
		}, nil)

	balance, err := s.service.GetUserBalance(s.T().Context(), userID)
	s.Require().NoError(err)

	s.True(balance.Current.Equal(decimal.NewFromInt(500)))
	s.InDelta(1.0, balance.ReliabilityCoefficient, 0.0001)
	s.Equal(domain.RankTrusted, balance.ReliabilityRank)
}

func (s *BalanceTransactionServiceTestSuite) TestGetByUserID() {
	var userID int64 = 123
	var emptyUserID int64 = 321

	orderID := int64(1)
	matchID := int64(2)

	transactions := []domain.BalanceTransaction{
		{
			ID:        1,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
			UserID:    userID,
			Direction: domain.DirectionCredit,
			Kind:      domain.TransactionStakeLock,
			Amount:    decimal.NewFromInt(20),
			OrderID:   &orderID,
		},
		{
			ID:        2,
			CreatedAt: time.Now().Add(-time.Hour),
			UpdatedAt: time.Now(),
			UserID:    userID,
			Direction: domain.DirectionDebit,
			Kind:      domain.TransactionPayout,
			Amount:    decimal.NewFromInt(40),
			MatchID:   &matchID,
		},
	}

	s.mockBlRepo.EXPECT().
		GetByUserID(gomock.Any(), userID).
		Return(transactions, nil)

	s.mockBlRepo.EXPECT().
		GetByUserID(gomock.Any(), emptyUserID).
		Return([]domain.BalanceTransaction{}, nil)

	cases := []struct {
		name      string
		userID    int64
		wantEmpty bool
	}{
		{name: "ok", userID: userID},
		{name: "empty result", userID: emptyUserID, wantEmpty: true},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			result, err := s.service.GetByUserID(s.T().Context(), t.userID)

			s.Require().NoError(err)
			if t.wantEmpty {
				s.Require().Empty(result)
			} else {
				s.Require().Len(result, 2)
				s.Equal(domain.TransactionStakeLock, result[0].Kind)
				s.Equal(domain.TransactionPayout, result[1].Kind)
			}
		})
	}
}
