package payout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type PayoutTestSuite struct {
	suite.Suite
	stakePerGame decimal.Decimal
}

func TestPayoutSuite(t *testing.T) {
	suite.Run(t, new(PayoutTestSuite))
}

func (s *PayoutTestSuite) SetupTest() {
	s.stakePerGame = decimal.NewFromInt(25)
}

// sumFor суммирует все проводки стороны side.
func sumFor(settlement *Settlement, side domain.MatchSide) decimal.Decimal {
	total := decimal.Zero
	for _, posting := range settlement.Postings {
		if posting.Side == side {
			total = total.Add(posting.Amount)
		}
	}
	return total
}

// totalDisposed суммирует проводки всех сторон: в любом исходе должен быть расход
// ровно двух полных ставок.
func totalDisposed(settlement *Settlement) decimal.Decimal {
	return sumFor(settlement, domain.SideA).Add(sumFor(settlement, domain.SideB))
}

func (s *PayoutTestSuite) TestSettleWinner() {
	cases := []struct {
		name       string
		score      Score
		wantWinner domain.MatchSide
	}{
		{
			name:       "player a takes more wins",
			score:      Score{WinsA: 3, WinsB: 1, GamesPlayed: 4, GamesPlanned: 4},
			wantWinner: domain.SideA,
		}, {
			name:       "player b takes more wins",
			score:      Score{WinsA: 1, WinsB: 2, Draws: 1, GamesPlayed: 4, GamesPlanned: 4},
			wantWinner: domain.SideB,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			settlement, err := Settle(t.score, s.stakePerGame)
			s.Require().NoError(err)

			stakeTotal := s.stakePerGame.Mul(decimal.NewFromInt(int64(t.score.GamesPlanned)))

			s.True(settlement.HasWinner)
			s.Equal(t.wantWinner, settlement.Winner)

			// Победителю возвращается своя ставка и достается полная ставка соперника.
			s.True(sumFor(settlement, t.wantWinner).Equal(stakeTotal.Mul(decimal.NewFromInt(2))))
			s.True(sumFor(settlement, t.wantWinner.Opponent()).IsZero())
			s.True(totalDisposed(settlement).Equal(stakeTotal.Mul(decimal.NewFromInt(2))))

			kinds := make(map[domain.TransactionKind]decimal.Decimal)
			for _, posting := range settlement.Postings {
				s.Equal(domain.DirectionDebit, posting.Direction)
				kinds[posting.Kind] = posting.Amount
			}
			s.True(kinds[domain.TransactionRefund].Equal(stakeTotal))
			s.True(kinds[domain.TransactionPayout].Equal(stakeTotal))
		})
	}
}

func (s *PayoutTestSuite) TestSettleEqualWinsRefundsBoth() {
	score := Score{WinsA: 2, WinsB: 2, Draws: 1, GamesPlayed: 5, GamesPlanned: 5}

	settlement, err := Settle(score, s.stakePerGame)
	s.Require().NoError(err)

	stakeTotal := s.stakePerGame.Mul(decimal.NewFromInt(5))

	s.False(settlement.HasWinner)
	s.True(sumFor(settlement, domain.SideA).Equal(stakeTotal))
	s.True(sumFor(settlement, domain.SideB).Equal(stakeTotal))
	for _, posting := range settlement.Postings {
		s.Equal(domain.TransactionRefund, posting.Kind)
	}
}

func (s *PayoutTestSuite) TestSettleBelowMinGames() {
	score := Score{WinsA: 1, GamesPlayed: 1, GamesPlanned: 4}

	_, err := Settle(score, s.stakePerGame)
	s.Require().ErrorIs(err, ErrSeriesNotSettleable)
}

func (s *PayoutTestSuite) TestSettleEarlyForfeit() {
	const gamesPlanned int16 = 6
	stakeTotal := s.stakePerGame.Mul(decimal.NewFromInt(int64(gamesPlanned)))

	settlement := SettleEarlyForfeit(s.stakePerGame, gamesPlanned, domain.SideA)

	s.True(settlement.HasWinner)
	s.Equal(domain.SideB, settlement.Winner)

	// Соперник нарушителя получает ровно две полные ставки, нарушитель ничего.
	s.True(sumFor(settlement, domain.SideB).Equal(stakeTotal.Mul(decimal.NewFromInt(2))))
	s.True(sumFor(settlement, domain.SideA).IsZero())
}

func (s *PayoutTestSuite) TestSettleMutualForfeit() {
	const gamesPlanned int16 = 3
	stakeTotal := s.stakePerGame.Mul(decimal.NewFromInt(int64(gamesPlanned)))

	settlement := SettleMutualForfeit(s.stakePerGame, gamesPlanned)

	s.False(settlement.HasWinner)
	s.True(sumFor(settlement, domain.SideA).Equal(stakeTotal))
	s.True(sumFor(settlement, domain.SideB).Equal(stakeTotal))
	s.True(totalDisposed(settlement).Equal(stakeTotal.Mul(decimal.NewFromInt(2))))
}
