package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-duel/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup        = "/api"
	RegisterRoute     = "/user/register"
	LoginRoute        = "/user/login"
	BalanceRoute      = "/user/balance"
	TransactionsRoute = "/user/transactions"
	UserOrdersRoute   = "/user/orders"
	UserMatchesRoute  = "/user/matches"
	TelegramRoute     = "/user/telegram"
	OrdersRoute       = "/orders"
	OrderJoinRoute    = "/orders/:publicID/join"
	OrderConfirmRoute = "/orders/:publicID/confirm"
	OrderCancelRoute  = "/orders/:publicID/cancel"
	MatchRoute        = "/matches/:publicID"
	MatchNumberRoute  = "/matches/:publicID/rounds/:index/number"
	DepositsRoute     = "/deposits"
	VerifyRoute       = "/verify"
)

type RouterArgs struct {
	Logger         *logrus.Logger
	UserService    UserServicer
	OrderService   OrderServicer
	MatchService   MatchServicer
	BlService      BalanceServicer
	DepositService DepositServicer
	JWTSecretKey   []byte
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil && args.Logger != nil {
		args.Logger.WithError(err).Error("Binding validators")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService, args.MatchService)
	matchesHandler := NewMatchesHandler(args.MatchService)
	balanceHandler := NewBalanceHandler(args.BlService)
	depositsHandler := NewDepositsHandler(args.DepositService)
	verifyHandler := NewVerifyHandler()

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	// Проверка честности доступна без авторизации: исход может перепроверить кто угодно.
	api.POST(VerifyRoute, verifyHandler.Verify)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrdersRoute, ordersHandler.Lobby)
	api.POST(OrderJoinRoute, ordersHandler.Join)
	api.POST(OrderConfirmRoute, ordersHandler.Confirm)
	api.POST(OrderCancelRoute, ordersHandler.Cancel)
	api.GET(UserOrdersRoute, ordersHandler.Index)

	api.GET(MatchRoute, matchesHandler.Show)
	api.POST(MatchNumberRoute, matchesHandler.SubmitNumber)
	api.GET(UserMatchesRoute, matchesHandler.Index)

	api.GET(BalanceRoute, balanceHandler.Index)
	api.GET(TransactionsRoute, balanceHandler.Transactions)

	api.POST(DepositsRoute, depositsHandler.Create)
	api.GET(DepositsRoute, depositsHandler.Index)

	api.POST(TelegramRoute, authHandler.LinkTelegram)
	return r
}
