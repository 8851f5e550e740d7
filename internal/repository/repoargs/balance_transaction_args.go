package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type BalanceTransactionCreate struct {
	UserID    int64
	Direction domain.DirectionType
	Kind      domain.TransactionKind
	Amount    decimal.Decimal
	OrderID   *int64
	MatchID   *int64
}
