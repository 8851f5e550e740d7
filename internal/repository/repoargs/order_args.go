package repoargs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type CreateOrder struct {
	PublicID     uuid.UUID
	UserID       int64
	ChipType     domain.ChipType
	StakePerGame decimal.Decimal
	GamesPlanned int16
}

// MarkWaitingConfirm аргументы захвата открытой заявки оппонентом.
type MarkWaitingConfirm struct {
	OrderID              int64
	OpponentID           int64
	ConfirmationDeadline time.Time
}

// OpenOrderListItem строка листинга открытых заявок вместе с данными
// о надёжности создателя.
type OpenOrderListItem struct {
	Order               domain.Order
	OwnerUsername       string
	OwnerTotalDeals     int32
	OwnerCompletedDeals int32
}
