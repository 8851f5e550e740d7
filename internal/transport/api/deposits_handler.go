package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

type DepositsHandler struct {
	depositSvs DepositServicer
}

func NewDepositsHandler(depositSvs DepositServicer) *DepositsHandler {
	return &DepositsHandler{
		depositSvs: depositSvs,
	}
}

type DepositCreateParams struct {
	// Код выдает биржа фишек, длина ограничена полем code в БД.
	Code string `binding:"required,min=1,max_bytes=255" json:"code"`
}

type DepositResponse struct {
	Code      string                   `json:"code"`
	Status    domain.DepositStatusType `json:"status"`
	Amount    float64                  `json:"amount"`
	CreatedAt time.Time                `json:"createdAt"`
}

func depositResponseFrom(ticket *domain.DepositTicket) DepositResponse {
	return DepositResponse{
		Code:      ticket.Code,
		Status:    ticket.Status,
		Amount:    ticket.Amount.InexactFloat64(),
		CreatedAt: ticket.CreatedAt,
	}
}

// Create POST RouteGroup + DepositsRoute. Регистрирует код пополнения: зачисление придет
// позже, после подтверждения биржей.
func (d *DepositsHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params DepositCreateParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		var valErrs validator.ValidationErrors
		if errors.As(bindErr, &valErrs) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": valErrs})
			return
		}
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).
			SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	ticket, createErr := d.depositSvs.CreateTicket(reqCtx, currentUserID, params.Code)
	if createErr != nil {
		var duplicateErr *domain.DuplicateTicketError

		if errors.As(createErr, &duplicateErr) {
			// В зависимости от принадлежности тикета текущему юзеру, возвращаем тот или иной
			// http статус.
			var statusCode = http.StatusConflict
			if duplicateErr.Ticket.UserID == currentUserID {
				statusCode = http.StatusOK
			}
			c.AbortWithStatus(statusCode)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"deposit": depositResponseFrom(ticket)})
}

// Index GET RouteGroup + DepositsRoute. Тикеты пополнения текущего юзера, новые первыми.
func (d *DepositsHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	tickets, err := d.depositSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(tickets) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]DepositResponse, len(tickets))
	for i := range tickets {
		response[i] = depositResponseFrom(&tickets[i])
	}

	c.JSON(http.StatusOK, response)
}
