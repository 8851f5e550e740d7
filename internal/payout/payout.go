// Package payout вычисляет расход заблокированных ставок по окончании серии.
// Пакет чистый: на входе счет серии, на выходе список проводок для леджера.
// Каждая заблокированная ставка попадает ровно в одну проводку ровно одного расчета.
package payout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

// MinGamesRequired минимальное кол-во сыгранных игр для обычного расчета серии.
const MinGamesRequired int16 = 2

var ErrSeriesNotSettleable = errors.New("[payout] not enough completed games to settle")

// Score счет серии на момент расчета.
type Score struct {
	WinsA        int16
	WinsB        int16
	Draws        int16
	GamesPlayed  int16
	GamesPlanned int16
}

// Posting одна проводка расчета: кому, в каком направлении и какого типа.
type Posting struct {
	Side      domain.MatchSide
	Direction domain.DirectionType
	Kind      domain.TransactionKind
	Amount    decimal.Decimal
}

// Settlement итог расчета серии.
type Settlement struct {
	Winner    domain.MatchSide
	HasWinner bool
	Postings  []Posting
}

// Settle рассчитывает серию, завершившуюся обычным образом (сыграно не меньше
// MinGamesRequired игр). Победитель со строго большим числом побед получает обратно
// свою ставку и полную ставку соперника. При равном числе побед обе ставки возвращаются
// владельцам; ничьи внутри серии на расчет не влияют.
//
// Вызов с GamesPlayed меньше MinGamesRequired является ошибкой программиста: ранние
// завершения рассчитываются через SettleEarlyForfeit и SettleMutualForfeit.
func Settle(score Score, stakePerGame decimal.Decimal) (*Settlement, error) {
	if score.GamesPlayed < MinGamesRequired {
		return nil, fmt.Errorf("%w: played %d of %d", ErrSeriesNotSettleable, score.GamesPlayed, MinGamesRequired)
	}

	stakeTotal := stakeTotal(stakePerGame, score.GamesPlanned)

	switch {
	case score.WinsA > score.WinsB:
		return winnerSettlement(domain.SideA, stakeTotal), nil
	case score.WinsB > score.WinsA:
		return winnerSettlement(domain.SideB, stakeTotal), nil
	default:
		return &Settlement{
			Postings: []Posting{
				refund(domain.SideA, stakeTotal),
				refund(domain.SideB, stakeTotal),
			},
		}, nil
	}
}

// SettleEarlyForfeit рассчитывает серию, прерванную форфейтом одного игрока до того,
// как сыграно MinGamesRequired игр: соперник получает обе полные ставки, нарушитель ничего.
func SettleEarlyForfeit(stakePerGame decimal.Decimal, gamesPlanned int16, forfeiter domain.MatchSide) *Settlement {
	opponent := forfeiter.Opponent()
	total := stakeTotal(stakePerGame, gamesPlanned)

	return &Settlement{
		Winner:    opponent,
		HasWinner: true,
		Postings: []Posting{
			refund(opponent, total),
			{
				Side:      opponent,
				Direction: domain.DirectionDebit,
				Kind:      domain.TransactionForfeitTransfer,
				Amount:    total,
			},
		},
	}
}

// SettleMutualForfeit рассчитывает серию, в которой дедлайн пропустили оба игрока:
// обе ставки возвращаются владельцам, победителя нет.
func SettleMutualForfeit(stakePerGame decimal.Decimal, gamesPlanned int16) *Settlement {
	total := stakeTotal(stakePerGame, gamesPlanned)
	return &Settlement{
		Postings: []Posting{
			refund(domain.SideA, total),
			refund(domain.SideB, total),
		},
	}
}

func winnerSettlement(winner domain.MatchSide, stakeTotal decimal.Decimal) *Settlement {
	return &Settlement{
		Winner:    winner,
		HasWinner: true,
		Postings: []Posting{
			refund(winner, stakeTotal),
			{
				Side:      winner,
				Direction: domain.DirectionDebit,
				Kind:      domain.TransactionPayout,
				Amount:    stakeTotal,
			},
		},
	}
}

func refund(side domain.MatchSide, amount decimal.Decimal) Posting {
	return Posting{
		Side:      side,
		Direction: domain.DirectionDebit,
		Kind:      domain.TransactionRefund,
		Amount:    amount,
	}
}

func stakeTotal(stakePerGame decimal.Decimal, gamesPlanned int16) decimal.Decimal {
	return stakePerGame.Mul(decimal.NewFromInt(int64(gamesPlanned)))
}
