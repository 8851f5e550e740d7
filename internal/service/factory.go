package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/fair"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

type AppServices struct {
	UserService    *UserService
	OrderService   *OrderService
	MatchService   *MatchService
	BlService      *BalanceTransactionService
	DepositService *DepositService
}

type FactoryArgs struct {
	Hasher        PasswordHasher
	Notifier      Notifier
	FairEngine    *fair.Engine
	JWTSecret     []byte
	WelcomeBonus  decimal.Decimal
	ConfirmWindow time.Duration
	SubmitWindow  time.Duration
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.Hasher, args.JWTSecret, args.WelcomeBonus)

	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork, args.Notifier, args.ConfirmWindow)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	matchService, matchServiceErr := NewMatchService(unitOfWork, args.FairEngine, args.Notifier, args.SubmitWindow)
	if matchServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", matchServiceErr.Error())
	}

	blService, blServiceErr := NewBalanceTransactionService(unitOfWork)
	if blServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", blServiceErr.Error())
	}

	depositService, depositServiceErr := NewDepositService(unitOfWork, args.Notifier)
	if depositServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", depositServiceErr.Error())
	}

	return &AppServices{
		UserService:    userService,
		OrderService:   orderService,
		MatchService:   matchService,
		BlService:      blService,
		DepositService: depositService,
	}, nil
}
