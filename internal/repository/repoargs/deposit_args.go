package repoargs

import (
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type CreateDepositTicket struct {
	UserID int64
	Code   string
}

// DepositTicketResolution итог сверки тикета с биржей.
type DepositTicketResolution struct {
	TicketID int64
	Status   domain.DepositStatusType
	Amount   decimal.Decimal
}

type DepositBatchQueryRow func(i int, t *domain.DepositTicket, err error)
