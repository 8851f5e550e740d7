package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-duel/internal/domain"

	"net/http"
)

type BalanceHandler struct {
	svs BalanceServicer
}

func NewBalanceHandler(svs BalanceServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	Current                float64                `json:"current"`
	TotalDeals             int64                  `json:"totalDeals"`
	CompletedDeals         int64                  `json:"completedDeals"`
	ReliabilityCoefficient float64                `json:"reliabilityCoefficient"`
	ReliabilityRank        domain.ReliabilityRank `json:"reliabilityRank"`
}

// Index GET RouteGroup + BalanceRoute. Баланс и надежность текущего юзера.
func (b *BalanceHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := b.svs.GetUserBalance(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Current:                balance.Current.InexactFloat64(),
		TotalDeals:             balance.TotalDeals,
		CompletedDeals:         balance.CompletedDeals,
		ReliabilityCoefficient: balance.ReliabilityCoefficient,
		ReliabilityRank:        balance.ReliabilityRank,
	})
}

type TransactionResponseItem struct {
	Direction domain.DirectionType   `json:"direction"`
	Kind      domain.TransactionKind `json:"kind"`
	Amount    float64                `json:"amount"`
	OrderID   *int64                 `json:"orderId,omitempty"`
	MatchID   *int64                 `json:"matchId,omitempty"`
	CreatedAt string                 `json:"createdAt"`
}

// Transactions GET RouteGroup + TransactionsRoute. Журнал проводок текущего юзера,
// новые первыми.
func (b *BalanceHandler) Transactions(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	transactions, err := b.svs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	if len(transactions) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	response := make([]TransactionResponseItem, len(transactions))
	for i, transaction := range transactions {
		response[i] = TransactionResponseItem{
			Direction: transaction.Direction,
			Kind:      transaction.Kind,
			Amount:    transaction.Amount.InexactFloat64(),
			OrderID:   transaction.OrderID,
			MatchID:   transaction.MatchID,
			CreatedAt: transaction.CreatedAt.Format(time.RFC3339),
		}
	}

	c.JSON(http.StatusOK, response)
}
