package repoargs

import "github.com/shopspring/decimal"

type CreateUser struct {
	Username string
	Password string
}

type BalanceAggregation struct {
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal
}

// ApplyDealEvent аргументы обновления счётчиков надёжности игрока.
// TotalDelta и CompletedDelta прибавляются к total_deals и completed_deals
// соответственно.
type ApplyDealEvent struct {
	UserID         int64
	TotalDelta     int16
	CompletedDelta int16
}
