package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

// serializableTxOptions применяется ко всем транзакциям, двигающим балансы.
var serializableTxOptions = pgx.TxOptions{IsoLevel: pgx.Serializable}

type OrderService struct {
	uow           uow.UOW
	orderRepo     OrderRepository
	notifier      Notifier
	confirmWindow time.Duration
}

func NewOrderService(u uow.UOW, notifier Notifier, confirmWindow time.Duration) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:           u,
		orderRepo:     orderRepo,
		notifier:      notifier,
		confirmWindow: confirmWindow,
	}, nil
}

type CreateOrderArgs struct {
	UserID       int64
	ChipType     domain.ChipType
	GamesPlanned int16
}

// Create создает заявку на дуэль со ставкой-фишкой на заданное число игр.
//
// Алгоритм работы:
//  1. Проверяет номинал фишки и число игр серии.
//  2. В транзакции блокирует строку юзера, проверяет надежность и достаточность баланса.
//  3. Списывает полную ставку серии, пишет проводку STAKE_LOCK и вставляет заявку в статусе OPEN.
//
// Возвращает domain.ErrUnknownChipType, domain.ErrGamesPlannedOutRange,
// domain.ErrReliabilityTooLow либо domain.ErrNotEnoughBalance при отказе.
func (o *OrderService) Create(ctx context.Context, args CreateOrderArgs) (*domain.Order, error) {
	stakePerGame, chipOk := args.ChipType.Value()
	if !chipOk {
		return nil, fmt.Errorf("creating order: %w", domain.ErrUnknownChipType)
	}
	if args.GamesPlanned < domain.MinGamesPlanned || args.GamesPlanned > domain.MaxGamesPlanned {
		return nil, fmt.Errorf("creating order: %w", domain.ErrGamesPlannedOutRange)
	}
	stakeTotal := stakePerGame.Mul(decimal.NewFromInt(int64(args.GamesPlanned)))

	var order *domain.Order
	txErr := o.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		if err := lockStake(c, userRepo, args.UserID, stakeTotal); err != nil {
			return err
		}

		var createErr error
		order, createErr = orderRepo.CreateOrder(c, repoargs.CreateOrder{
			PublicID:     uuid.New(),
			UserID:       args.UserID,
			ChipType:     args.ChipType,
			StakePerGame: stakePerGame,
			GamesPlanned: args.GamesPlanned,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		// Проводка ссылается на заявку, поэтому пишется после вставки.
		return createStakeLockTransaction(c, tx, args.UserID, stakeTotal, order.ID)
	})

	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}
	return order, nil
}

// Join захватывает чужую открытую заявку. Ставка оппонента списывается в той же транзакции,
// что и захват: проигравший гонку за заявку не теряет ни копейки, его транзакция
// откатывается целиком.
//
// Возвращает domain.ErrSelfJoin, domain.ErrReliabilityTooLow, domain.ErrNotEnoughBalance
// либо domain.ErrOrderNotAvailable, если заявка уже занята или закрыта.
func (o *OrderService) Join(ctx context.Context, orderPublicID uuid.UUID, joinerID int64) (*domain.Order, error) {
	var order *domain.Order
	var creatorID int64

	txErr := o.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		existing, findErr := orderRepo.FindByPublicID(c, orderPublicID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if existing.UserID == joinerID {
			return domain.ErrSelfJoin
		}
		if existing.Status != domain.OrderStatusOpen {
			return domain.ErrOrderNotAvailable
		}
		creatorID = existing.UserID

		stakeTotal := existing.StakeTotal()
		if err := lockStake(c, userRepo, joinerID, stakeTotal); err != nil {
			return err
		}
		if err := createStakeLockTransaction(c, tx, joinerID, stakeTotal, existing.ID); err != nil {
			return err
		}

		var markErr error
		order, markErr = orderRepo.MarkWaitingConfirm(c, repoargs.MarkWaitingConfirm{
			OrderID:              existing.ID,
			OpponentID:           joinerID,
			ConfirmationDeadline: time.Now().Add(o.confirmWindow),
		})
		if markErr != nil {
			// Гонка за заявку: кто-то успел раньше.
			return domain.ErrOrderNotAvailable
		}
		return nil
	})

	if txErr != nil {
		return nil, fmt.Errorf("joining order: %w", txErr)
	}

	o.notifier.Enqueue(domain.Notification{
		UserID:  creatorID,
		Kind:    domain.NotifyOpponentFound,
		Message: fmt.Sprintf("Opponent found for order %s, confirm within %s", order.PublicID, o.confirmWindow),
	})
	return order, nil
}

// Confirm подтверждает найденного оппонента и создает матч. Подтвердить может только
// создатель заявки (domain.ErrOwnerConflict) и только до дедлайна
// (domain.ErrConfirmationExpired): просроченные заявки обрабатывает фоновая уборка.
func (o *OrderService) Confirm(ctx context.Context, orderPublicID uuid.UUID, userID int64) (*domain.Match, error) {
	var match *domain.Match

	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		matchRepo, matchRepoErr := uow.GetAs[MatchRepository](tx, uow.RepositoryName(repoargs.MatchRepoName))
		if matchRepoErr != nil {
			return matchRepoErr //nolint:wrapcheck
		}

		order, findErr := orderRepo.FindByPublicID(c, orderPublicID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if order.UserID != userID {
			return domain.ErrOwnerConflict
		}
		if order.Status != domain.OrderStatusWaitingCreatorConfirm || order.OpponentID == nil {
			return domain.ErrOrderNotAvailable
		}
		if order.ConfirmationDeadline != nil && time.Now().After(*order.ConfirmationDeadline) {
			return domain.ErrConfirmationExpired
		}

		if _, casErr := orderRepo.CASStatus(c, order.ID,
			domain.OrderStatusWaitingCreatorConfirm, domain.OrderStatusMatched); casErr != nil {
			return domain.ErrOrderNotAvailable
		}

		var createErr error
		match, createErr = matchRepo.CreateMatch(c, repoargs.CreateMatch{
			PublicID:     uuid.New(),
			OrderID:      order.ID,
			PlayerAID:    order.UserID,
			PlayerBID:    *order.OpponentID,
			StakePerGame: order.StakePerGame,
			GamesPlanned: order.GamesPlanned,
		})
		return createErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("confirming order: %w", txErr)
	}
	return match, nil
}

// Cancel снимает собственную открытую заявку и возвращает ставку. Заявка в любом другом
// статусе не снимается: domain.ErrOrderNotAvailable.
func (o *OrderService) Cancel(ctx context.Context, orderPublicID uuid.UUID, userID int64) (*domain.Order, error) {
	var order *domain.Order

	txErr := o.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		existing, findErr := orderRepo.FindByPublicID(c, orderPublicID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if existing.UserID != userID {
			return domain.ErrOwnerConflict
		}

		var casErr error
		order, casErr = orderRepo.CASStatus(c, existing.ID, domain.OrderStatusOpen, domain.OrderStatusCancelled)
		if casErr != nil {
			return domain.ErrOrderNotAvailable
		}

		return refundStake(c, tx, userRepo, userID, order.StakeTotal(), &order.ID, nil)
	})

	if txErr != nil {
		return nil, fmt.Errorf("cancelling order: %w", txErr)
	}
	return order, nil
}

// ListOpen возвращает открытые заявки других игроков вместе с данными о надежности создателей.
func (o *OrderService) ListOpen(ctx context.Context, exceptUserID int64, limit int32) ([]repoargs.OpenOrderListItem, error) {
	items, err := o.orderRepo.ListOpen(ctx, exceptUserID, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return items, nil
}

// GetByUserID возвращает заявки, в которых юзер участвует, новые первыми.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// SweepConfirmations обрабатывает заявки с истекшим дедлайном подтверждения: ставка оппонента
// возвращается, создателю засчитывается пропуск подтверждения. Первый пропуск возвращает
// заявку в пул OPEN, второй закрывает ее навсегда с возвратом ставки создателя.
// Возвращает число обработанных заявок.
func (o *OrderService) SweepConfirmations(ctx context.Context, limit int32) (int, error) {
	var processed int
	var notifications []domain.Notification

	txErr := o.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		expired, listErr := orderRepo.ListConfirmationExpired(c, limit)
		if listErr != nil {
			return listErr //nolint:wrapcheck
		}

		for _, order := range expired {
			ns, sweepErr := o.sweepConfirmation(c, tx, userRepo, orderRepo, order)
			if sweepErr != nil {
				return sweepErr
			}
			notifications = append(notifications, ns...)
			processed++
		}
		return nil
	})

	if txErr != nil {
		return 0, fmt.Errorf("sweeping confirmations: %w", txErr)
	}

	for _, n := range notifications {
		o.notifier.Enqueue(n)
	}
	return processed, nil
}

// sweepConfirmation обрабатывает одну просроченную заявку внутри транзакции уборки.
func (o *OrderService) sweepConfirmation(
	ctx context.Context,
	tx uow.TX,
	userRepo UserRepository,
	orderRepo OrderRepository,
	order domain.Order,
) ([]domain.Notification, error) {
	if order.OpponentID == nil {
		return nil, fmt.Errorf("sweeping order %d: %w: no opponent on waiting order", order.ID, domain.ErrUnknown)
	}
	opponentID := *order.OpponentID
	stakeTotal := order.StakeTotal()

	if err := refundStake(ctx, tx, userRepo, opponentID, stakeTotal, &order.ID, nil); err != nil {
		return nil, err
	}

	// Пропуск подтверждения бьет по надежности создателя.
	if _, dealErr := userRepo.ApplyDealEvent(ctx, repoargs.ApplyDealEvent{
		UserID:     order.UserID,
		TotalDelta: 1,
	}); dealErr != nil {
		return nil, dealErr //nolint:wrapcheck
	}

	if order.MissedConfirms == 0 {
		recycled, recycleErr := orderRepo.RecycleConfirm(ctx, order.ID)
		if recycleErr != nil {
			return nil, recycleErr //nolint:wrapcheck
		}
		return []domain.Notification{{
			UserID:  recycled.UserID,
			Kind:    domain.NotifyOrderRecycled,
			Message: fmt.Sprintf("Order %s returned to the pool after a missed confirmation", recycled.PublicID),
		}}, nil
	}

	expired, expireErr := orderRepo.ExpireConfirm(ctx, order.ID)
	if expireErr != nil {
		return nil, expireErr //nolint:wrapcheck
	}
	if err := refundStake(ctx, tx, userRepo, expired.UserID, stakeTotal, &expired.ID, nil); err != nil {
		return nil, err
	}
	return []domain.Notification{{
		UserID:  expired.UserID,
		Kind:    domain.NotifyOrderExpired,
		Message: fmt.Sprintf("Order %s expired after repeated missed confirmations, stake refunded", expired.PublicID),
	}}, nil
}

// lockStake блокирует строку юзера, проверяет надежность и баланс, затем списывает ставку.
// Ненадежный юзер с историей сделок к новым дуэлям не допускается.
func lockStake(
	ctx context.Context,
	userRepo UserRepository,
	userID int64,
	stakeTotal decimal.Decimal,
) error {
	user, lockErr := userRepo.GetForUpdate(ctx, userID)
	if lockErr != nil {
		return lockErr //nolint:wrapcheck
	}

	rank := domain.RankForCoefficient(user.ReliabilityCoefficient())
	if rank == domain.RankUnreliable && user.TotalDeals > 0 {
		return domain.ErrReliabilityTooLow
	}

	if user.Balance.LessThan(stakeTotal) {
		return domain.ErrNotEnoughBalance
	}

	if _, adjErr := userRepo.AdjustBalance(ctx, userID, stakeTotal.Neg()); adjErr != nil {
		return adjErr //nolint:wrapcheck
	}
	return nil
}

// createStakeLockTransaction пишет кредитовую проводку STAKE_LOCK по заявке.
func createStakeLockTransaction(ctx context.Context, tx uow.TX, userID int64, amount decimal.Decimal, orderID int64) error {
	blRepo, blRepoErr := uow.GetAs[BalanceTransactionRepository](tx, uow.RepositoryName(repoargs.BalanceTransactionRepoName))
	if blRepoErr != nil {
		return blRepoErr //nolint:wrapcheck
	}
	_, err := blRepo.Create(ctx, repoargs.BalanceTransactionCreate{
		UserID:    userID,
		Direction: domain.DirectionCredit,
		Kind:      domain.TransactionStakeLock,
		Amount:    amount,
		OrderID:   &orderID,
	})
	return err //nolint:wrapcheck
}

// refundStake возвращает ставку на баланс вместе с дебетовой проводкой REFUND.
func refundStake(
	ctx context.Context,
	tx uow.TX,
	userRepo UserRepository,
	userID int64,
	amount decimal.Decimal,
	orderID *int64,
	matchID *int64,
) error {
	if _, adjErr := userRepo.AdjustBalance(ctx, userID, amount); adjErr != nil {
		return adjErr //nolint:wrapcheck
	}

	blRepo, blRepoErr := uow.GetAs[BalanceTransactionRepository](tx, uow.RepositoryName(repoargs.BalanceTransactionRepoName))
	if blRepoErr != nil {
		return blRepoErr //nolint:wrapcheck
	}
	_, err := blRepo.Create(ctx, repoargs.BalanceTransactionCreate{
		UserID:    userID,
		Direction: domain.DirectionDebit,
		Kind:      domain.TransactionRefund,
		Amount:    amount,
		OrderID:   orderID,
		MatchID:   matchID,
	})
	return err //nolint:wrapcheck
}
