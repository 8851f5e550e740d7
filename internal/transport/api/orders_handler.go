package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/service"
)

const (
	// lobbyPageSize ограничивает выдачу лобби: открытых заявок может быть много.
	lobbyPageSize = 50
)

type OrdersHandler struct {
	orderSvs OrderServicer
	matchSvs MatchServicer
}

func NewOrdersHandler(orderSvs OrderServicer, matchSvs MatchServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
		matchSvs: matchSvs,
	}
}

type OrderResponse struct {
	PublicID             uuid.UUID              `json:"id"`
	CreatedAt            time.Time              `json:"createdAt"`
	ChipType             domain.ChipType        `json:"chip"`
	StakePerGame         float64                `json:"stakePerGame"`
	GamesPlanned         int16                  `json:"gamesPlanned"`
	StakeTotal           float64                `json:"stakeTotal"`
	Status               domain.OrderStatusType `json:"status"`
	ConfirmationDeadline *time.Time             `json:"confirmationDeadline,omitempty"`
}

func orderResponseFrom(order *domain.Order) OrderResponse {
	return OrderResponse{
		PublicID:             order.PublicID,
		CreatedAt:            order.CreatedAt,
		ChipType:             order.ChipType,
		StakePerGame:         order.StakePerGame.InexactFloat64(),
		GamesPlanned:         order.GamesPlanned,
		StakeTotal:           order.StakeTotal().InexactFloat64(),
		Status:               order.Status,
		ConfirmationDeadline: order.ConfirmationDeadline,
	}
}

type OrderCreateParams struct {
	ChipType     string `binding:"required"          json:"chip"`
	GamesPlanned int16  `binding:"required,min=2,max=10" json:"gamesPlanned"`
}

// Create POST RouteGroup + OrdersRoute. Создает заявку на дуэль: ставка-фишка на серию
// блокируется сразу.
func (o *OrdersHandler) Create(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params OrderCreateParams
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

	order, createErr := o.orderSvs.Create(reqCtx, service.CreateOrderArgs{
		UserID:       currentUserID,
		ChipType:     domain.ChipType(params.ChipType),
		GamesPlanned: params.GamesPlanned,
	})
	if createErr != nil {
		switch {
		case errors.Is(createErr, domain.ErrUnknownChipType),
			errors.Is(createErr, domain.ErrGamesPlannedOutRange):
			c.AbortWithStatus(http.StatusUnprocessableEntity)
		case errors.Is(createErr, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		case errors.Is(createErr, domain.ErrReliabilityTooLow):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("reliability rank too low")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, createErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order": orderResponseFrom(order)})
}

type LobbyItemResponse struct {
	Order            OrderResponse          `json:"order"`
	OwnerUsername    string                 `json:"ownerUsername"`
	OwnerReliability float64                `json:"ownerReliability"`
	OwnerRank        domain.ReliabilityRank `json:"ownerRank"`
}

// Lobby GET RouteGroup + OrdersRoute. Открытые заявки других игроков вместе с надежностью
// создателей.
func (o *OrdersHandler) Lobby(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	items, err := o.orderSvs.ListOpen(reqCtx, currentUserID, lobbyPageSize)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(items) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]LobbyItemResponse, len(items))
	for i, item := range items {
		coefficient := domain.ReliabilityCoefficient(
			int64(item.OwnerCompletedDeals), int64(item.OwnerTotalDeals))
		response[i] = LobbyItemResponse{
			Order:            orderResponseFrom(&item.Order),
			OwnerUsername:    item.OwnerUsername,
			OwnerReliability: coefficient,
			OwnerRank:        domain.RankForCoefficient(coefficient),
		}
	}

	c.JSON(http.StatusOK, response)
}

// Index GET RouteGroup + UserOrdersRoute. Заявки текущего юзера, где он создатель либо
// соперник.
func (o *OrdersHandler) Index(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()
	orders, err := o.orderSvs.GetByUserID(reqCtx, currentUserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = orderResponseFrom(&orders[i])
	}

	c.JSON(http.StatusOK, response)
}

// Join POST RouteGroup + OrderJoinRoute. Записывает текущего юзера соперником в открытую
// заявку, блокируя его ставку.
func (o *OrdersHandler) Join(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	publicID, ok := parsePublicID(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, joinErr := o.orderSvs.Join(reqCtx, publicID, currentUserID)
	if joinErr != nil {
		switch {
		case errors.Is(joinErr, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(joinErr, domain.ErrSelfJoin),
			errors.Is(joinErr, domain.ErrOrderNotAvailable):
			c.AbortWithStatus(http.StatusConflict)
		case errors.Is(joinErr, domain.ErrNotEnoughBalance):
			c.AbortWithStatus(http.StatusPaymentRequired)
		case errors.Is(joinErr, domain.ErrReliabilityTooLow):
			_ = c.AbortWithError(http.StatusForbidden, errors.New("reliability rank too low")).
				SetType(gin.ErrorTypePublic)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, joinErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": orderResponseFrom(order)})
}

// Confirm POST RouteGroup + OrderConfirmRoute. Создатель подтверждает найденного соперника:
// создается матч и запускается первый раунд.
func (o *OrdersHandler) Confirm(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	publicID, ok := parsePublicID(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	match, confirmErr := o.orderSvs.Confirm(reqCtx, publicID, currentUserID)
	if confirmErr != nil {
		switch {
		case errors.Is(confirmErr, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(confirmErr, domain.ErrOwnerConflict):
			c.AbortWithStatus(http.StatusForbidden)
		case errors.Is(confirmErr, domain.ErrConfirmationExpired),
			errors.Is(confirmErr, domain.ErrOrderNotAvailable):
			c.AbortWithStatus(http.StatusConflict)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, confirmErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	// Ошибка запуска не откатывает подтверждение: незапущенные серии дозапускает фоновый
	// процесс.
	if _, startErr := o.matchSvs.StartSeries(reqCtx, publicID); startErr != nil {
		_ = c.Error(startErr).SetType(gin.ErrorTypePrivate)
	}

	c.JSON(http.StatusOK, gin.H{"match": gin.H{"id": match.PublicID}})
}

// Cancel POST RouteGroup + OrderCancelRoute. Создатель снимает открытую заявку,
// заблокированная ставка возвращается.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	publicID, ok := parsePublicID(c)
	if !ok {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, cancelErr := o.orderSvs.Cancel(reqCtx, publicID, currentUserID)
	if cancelErr != nil {
		switch {
		case errors.Is(cancelErr, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(cancelErr, domain.ErrOwnerConflict):
			c.AbortWithStatus(http.StatusForbidden)
		case errors.Is(cancelErr, domain.ErrOrderNotAvailable):
			c.AbortWithStatus(http.StatusConflict)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, cancelErr).
				SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": orderResponseFrom(order)})
}
