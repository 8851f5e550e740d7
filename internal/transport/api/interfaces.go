package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, string, error)
	LinkTelegram(ctx context.Context, userID int64, chatID int64) (*domain.User, error)
}

type OrderServicer interface {
	Create(ctx context.Context, args service.CreateOrderArgs) (*domain.Order, error)
	ListOpen(ctx context.Context, exceptUserID int64, limit int32) ([]repoargs.OpenOrderListItem, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
	Join(ctx context.Context, orderPublicID uuid.UUID, joinerID int64) (*domain.Order, error)
	Confirm(ctx context.Context, orderPublicID uuid.UUID, userID int64) (*domain.Match, error)
	Cancel(ctx context.Context, orderPublicID uuid.UUID, userID int64) (*domain.Order, error)
}

type MatchServicer interface {
	StartSeries(ctx context.Context, orderPublicID uuid.UUID) (*domain.Match, error)
	SubmitNumber(
		ctx context.Context,
		matchPublicID uuid.UUID,
		roundIndex int16,
		userID int64,
		number int32,
	) (*domain.Round, domain.MatchSide, error)
	GetByPublicID(ctx context.Context, matchPublicID uuid.UUID, userID int64) (*service.MatchDetail, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Match, error)
}

type BalanceServicer interface {
	GetUserBalance(ctx context.Context, userID int64) (*service.BalanceSummary, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.BalanceTransaction, error)
}

type DepositServicer interface {
	CreateTicket(ctx context.Context, userID int64, code string) (*domain.DepositTicket, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.DepositTicket, error)
}
