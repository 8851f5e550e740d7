package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// Notifier принимает события для доставки игрокам. Постановка в очередь не блокирует:
// при переполнении событие отбрасывается.
type Notifier interface {
	Enqueue(n domain.Notification)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
	GetForUpdate(ctx context.Context, userID int64) (*domain.User, error)
	AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) (*domain.User, error)
	ApplyDealEvent(ctx context.Context, args repoargs.ApplyDealEvent) (*domain.User, error)
	SetTelegramChatID(ctx context.Context, userID int64, chatID int64) (*domain.User, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order repoargs.CreateOrder) (*domain.Order, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Order, error)
	GetForUpdate(ctx context.Context, orderID int64) (*domain.Order, error)
	ListOpen(ctx context.Context, exceptUserID int64, limit int32) ([]repoargs.OpenOrderListItem, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	MarkWaitingConfirm(ctx context.Context, args repoargs.MarkWaitingConfirm) (*domain.Order, error)
	CASStatus(ctx context.Context, orderID int64, from, to domain.OrderStatusType) (*domain.Order, error)
	ListConfirmationExpired(ctx context.Context, limit int32) ([]domain.Order, error)
	RecycleConfirm(ctx context.Context, orderID int64) (*domain.Order, error)
	ExpireConfirm(ctx context.Context, orderID int64) (*domain.Order, error)
}

type MatchRepository interface {
	CreateMatch(ctx context.Context, match repoargs.CreateMatch) (*domain.Match, error)
	FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Match, error)
	GetByID(ctx context.Context, matchID int64) (*domain.Match, error)
	FindByOrderID(ctx context.Context, orderID int64) (*domain.Match, error)
	GetForUpdate(ctx context.Context, matchID int64) (*domain.Match, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Match, error)
	IncrementScore(ctx context.Context, matchID int64, delta repoargs.ScoreDelta) (*domain.Match, error)
	FinishMatch(ctx context.Context, args repoargs.FinishMatch) (*domain.Match, error)
	ListUnstarted(ctx context.Context, limit int32) ([]domain.Match, error)
}

type RoundRepository interface {
	CreateRound(ctx context.Context, round repoargs.CreateRound) (*domain.Round, error)
	GetByID(ctx context.Context, roundID int64) (*domain.Round, error)
	FindCurrent(ctx context.Context, matchID int64) (*domain.Round, error)
	GetByMatchID(ctx context.Context, matchID int64) ([]domain.Round, error)
	SetPlayerNumber(ctx context.Context, args repoargs.SetPlayerNumber) (*domain.Round, error)
	FinishRound(ctx context.Context, args repoargs.FinishRound) (*domain.Round, error)
	ForfeitRound(ctx context.Context, args repoargs.ForfeitRound) (*domain.Round, error)
	CloseMutualForfeit(ctx context.Context, roundID int64) (*domain.Round, error)
	ListExpired(ctx context.Context, limit int32) ([]domain.Round, error)
}

type BalanceTransactionRepository interface {
	Create(ctx context.Context, transaction repoargs.BalanceTransactionCreate) (*domain.BalanceTransaction, error)
	BatchCreate(
		ctx context.Context,
		transactions []repoargs.BalanceTransactionCreate,
		fn repoargs.BatchExecQueryRow,
	)
	GetUserBalance(ctx context.Context, userID int64) (*repoargs.BalanceAggregation, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.BalanceTransaction, error)
}

type DepositTicketRepository interface {
	Create(ctx context.Context, ticket repoargs.CreateDepositTicket) (*domain.DepositTicket, error)
	FindByCode(ctx context.Context, code string) (*domain.DepositTicket, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.DepositTicket, error)
	GetForMonitoring(ctx context.Context, limit uint) ([]domain.DepositTicket, error)
	BatchResolve(
		ctx context.Context,
		resolutions []repoargs.DepositTicketResolution,
		fn repoargs.DepositBatchQueryRow,
	)
	IncrementErrAttempts(ctx context.Context, ticketIDs []int64) error
}
