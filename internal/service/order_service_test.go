package service

import (
	"context"
	"testing"
	"time"

	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/internal/service/mocks"

	"github.com/fsdevblog/groph-duel/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-duel/pkg/uow/mocks"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	mockUOW         *uowmocks.MockUOW
	mockTX          *uowmocks.MockTX
	mockUserRepo    *mocks.MockUserRepository
	mockOrderRepo   *mocks.MockOrderRepository
	mockMatchRepo   *mocks.MockMatchRepository
	mockBalanceRepo *mocks.MockBalanceTransactionRepository
	mockNotifier    *mocks.MockNotifier
	confirmWindow   time.Duration
	orderService    *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockOrderRepo = mocks.NewMockOrderRepository(s.mockCtrl)
	s.mockMatchRepo = mocks.NewMockMatchRepository(s.mockCtrl)
	s.mockBalanceRepo = mocks.NewMockBalanceTransactionRepository(s.mockCtrl)
	s.mockNotifier = mocks.NewMockNotifier(s.mockCtrl)

	s.confirmWindow = 2 * time.Minute

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()

	// Инициализация сервиса.
	orderService, servErr := NewOrderService(s.mockUOW, s.mockNotifier, s.confirmWindow)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectIsolatedTx настраивает прокидывание mockTX во все сериализуемые транзакции.
func (s *OrderServiceTestSuite) expectIsolatedTx() {
	s.mockUOW.EXPECT().
		DoIsolated(gomock.Any(), serializableTxOptions, gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ pgx.TxOptions, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()
}

func (s *OrderServiceTestSuite) TestCreate() {
	var richUserID int64 = 1
	var poorUserID int64 = 2
	var unreliableUserID int64 = 3

	richUser := domain.User{ID: richUserID, Balance: decimal.NewFromInt(100)}
	poorUser := domain.User{ID: poorUserID, Balance: decimal.NewFromInt(10)}
	unreliableUser := domain.User{
		ID:             unreliableUserID,
		Balance:        decimal.NewFromInt(1000),
		TotalDeals:     10,
		CompletedDeals: 1,
	}

	// HEART x4 игры = 40 поинтов полной ставки.
	stakeTotal := decimal.NewFromInt(40)

	createdOrder := domain.Order{
		ID:           1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		PublicID:     uuid.New(),
		UserID:       richUserID,
		ChipType:     domain.ChipHeart,
		StakePerGame: decimal.NewFromInt(10),
		GamesPlanned: 4,
		Status:       domain.OrderStatusOpen,
	}

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.BalanceTransactionRepoName)).
		Return(s.mockBalanceRepo, nil)

	// Мок блокировки строки юзера.
	s.mockUserRepo.EXPECT().GetForUpdate(gomock.Any(), richUserID).Return(&richUser, nil)
	s.mockUserRepo.EXPECT().GetForUpdate(gomock.Any(), poorUserID).Return(&poorUser, nil)
	s.mockUserRepo.EXPECT().GetForUpdate(gomock.Any(), unreliableUserID).Return(&unreliableUser, nil)

	// Списание ставки происходит только в успешном кейсе.
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), richUserID, stakeTotal.Neg()).
		Return(&richUser, nil)

	// Мок вставки заявки: public id генерируется внутри сервиса.
	s.mockOrderRepo.EXPECT().
		CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateOrder) (*domain.Order, error) {
			s.NotEqual(uuid.Nil, args.PublicID)
			s.Equal(richUserID, args.UserID)
			s.Equal(domain.ChipHeart, args.ChipType)
			s.True(args.StakePerGame.Equal(decimal.NewFromInt(10)))
			s.Equal(int16(4), args.GamesPlanned)
			return &createdOrder, nil
		})

	// Мок проводки STAKE_LOCK.
	s.mockBalanceRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr repoargs.BalanceTransactionCreate) (*domain.BalanceTransaction, error) {
			s.Equal(richUserID, tr.UserID)
			s.Equal(domain.DirectionCredit, tr.Direction)
			s.Equal(domain.TransactionStakeLock, tr.Kind)
			s.True(tr.Amount.Equal(stakeTotal))
			s.Require().NotNil(tr.OrderID)
			s.Equal(createdOrder.ID, *tr.OrderID)
			return &domain.BalanceTransaction{ID: 1}, nil
		})

	s.expectIsolatedTx()

	cases := []struct {
		name    string
		args    CreateOrderArgs
		wantErr error
	}{
		{
			name: "ok",
			args: CreateOrderArgs{UserID: richUserID, ChipType: domain.ChipHeart, GamesPlanned: 4},
		},
		{
			name:    "unknown chip",
			args:    CreateOrderArgs{UserID: richUserID, ChipType: "DIAMOND", GamesPlanned: 4},
			wantErr: domain.ErrUnknownChipType,
		},
		{
			name:    "games planned below range",
			args:    CreateOrderArgs{UserID: richUserID, ChipType: domain.ChipHeart, GamesPlanned: 1},
			wantErr: domain.ErrGamesPlannedOutRange,
		},
		{
			name:    "not enough balance",
			args:    CreateOrderArgs{UserID: poorUserID, ChipType: domain.ChipHeart, GamesPlanned: 4},
			wantErr: domain.ErrNotEnoughBalance,
		},
		{
			name:    "reliability too low",
			args:    CreateOrderArgs{UserID: unreliableUserID, ChipType: domain.ChipHeart, GamesPlanned: 4},
			wantErr: domain.ErrReliabilityTooLow,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			order, err := s.orderService.Create(s.T().Context(), t.args)

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(&createdOrder, order)
		})
	}
}

func (s *OrderServiceTestSuite) TestJoin() {
	var creatorID int64 = 10
	var joinerID int64 = 2

	openOrder := domain.Order{
		ID:           1,
		PublicID:     uuid.New(),
		UserID:       creatorID,
		ChipType:     domain.ChipSmile,
		StakePerGame: decimal.NewFromInt(5),
		GamesPlanned: 2,
		Status:       domain.OrderStatusOpen,
	}
	takenOrder := domain.Order{
		ID:           2,
		PublicID:     uuid.New(),
		UserID:       creatorID,
		ChipType:     domain.ChipSmile,
		StakePerGame: decimal.NewFromInt(5),
		GamesPlanned: 2,
		Status:       domain.OrderStatusWaitingCreatorConfirm,
	}

	joiner := domain.User{ID: joinerID, Balance: decimal.NewFromInt(50)}
	stakeTotal := openOrder.StakeTotal()

	waitingOrder := openOrder
	waitingOrder.Status = domain.OrderStatusWaitingCreatorConfirm
	waitingOrder.OpponentID = &joinerID

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.BalanceTransactionRepoName)).
		Return(s.mockBalanceRepo, nil)

	// Мок поиска заявок.
	s.mockOrderRepo.EXPECT().
		FindByPublicID(gomock.Any(), openOrder.PublicID).
		Return(&openOrder, nil).Times(2) // успешный кейс и self join
	s.mockOrderRepo.EXPECT().
		FindByPublicID(gomock.Any(), takenOrder.PublicID).
		Return(&takenOrder, nil)

	// Ставка оппонента списывается в той же транзакции, что и захват.
	s.mockUserRepo.EXPECT().GetForUpdate(gomock.Any(), joinerID).Return(&joiner, nil)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), joinerID, stakeTotal.Neg()).
		Return(&joiner, nil)
	s.mockBalanceRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&domain.BalanceTransaction{ID: 1}, nil)

	// Мок захвата заявки.
	s.mockOrderRepo.EXPECT().
		MarkWaitingConfirm(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.MarkWaitingConfirm) (*domain.Order, error) {
			s.Equal(openOrder.ID, args.OrderID)
			s.Equal(joinerID, args.OpponentID)
			s.WithinDuration(time.Now().Add(s.confirmWindow), args.ConfirmationDeadline, time.Second)
			return &waitingOrder, nil
		})

	// Создатель получает уведомление о найденном оппоненте.
	s.mockNotifier.EXPECT().
		Enqueue(gomock.Any()).
		Do(func(n domain.Notification) {
			s.Equal(creatorID, n.UserID)
			s.Equal(domain.NotifyOpponentFound, n.Kind)
		})

	s.expectIsolatedTx()

	cases := []struct {
		name     string
		publicID uuid.UUID
		joinerID int64
		wantErr  error
	}{
		{name: "ok", publicID: openOrder.PublicID, joinerID: joinerID},
		{name: "self join", publicID: openOrder.PublicID, joinerID: creatorID, wantErr: domain.ErrSelfJoin},
		{name: "order not open", publicID: takenOrder.PublicID, joinerID: joinerID, wantErr: domain.ErrOrderNotAvailable},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			order, err := s.orderService.Join(s.T().Context(), t.publicID, t.joinerID)

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(&waitingOrder, order)
		})
	}
}

func (s *OrderServiceTestSuite) TestConfirm() {
	var creatorID int64 = 10
	var opponentID int64 = 2
	var strangerID int64 = 99

	futureDeadline := time.Now().Add(time.Minute)
	pastDeadline := time.Now().Add(-time.Minute)

	waitingOrder := domain.Order{
		ID:                   1,
		PublicID:             uuid.New(),
		UserID:               creatorID,
		ChipType:             domain.ChipFire,
		StakePerGame:         decimal.NewFromInt(25),
		GamesPlanned:         3,
		Status:               domain.OrderStatusWaitingCreatorConfirm,
		OpponentID:           &opponentID,
		ConfirmationDeadline: &futureDeadline,
	}
	expiredOrder := waitingOrder
	expiredOrder.ID = 2
	expiredOrder.PublicID = uuid.New()
	expiredOrder.ConfirmationDeadline = &pastDeadline

	matchedOrder := waitingOrder
	matchedOrder.Status = domain.OrderStatusMatched

	createdMatch := domain.Match{
		ID:           1,
		PublicID:     uuid.New(),
		OrderID:      waitingOrder.ID,
		PlayerAID:    creatorID,
		PlayerBID:    opponentID,
		StakePerGame: waitingOrder.StakePerGame,
		GamesPlanned: waitingOrder.GamesPlanned,
		Status:       domain.MatchStatusInProgress,
	}

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.MatchRepoName)).
		Return(s.mockMatchRepo, nil).AnyTimes()

	// Мок поиска заявок.
	s.mockOrderRepo.EXPECT().
		FindByPublicID(gomock.Any(), waitingOrder.PublicID).
		Return(&waitingOrder, nil).Times(2) // успешный кейс и чужая заявка
	s.mockOrderRepo.EXPECT().
		FindByPublicID(gomock.Any(), expiredOrder.PublicID).
		Return(&expiredOrder, nil)

	// Смена статуса и создание матча в успешном кейсе.
	s.mockOrderRepo.EXPECT().
		CASStatus(gomock.Any(), waitingOrder.ID, domain.OrderStatusWaitingCreatorConfirm, domain.OrderStatusMatched).
		Return(&matchedOrder, nil)
	s.mockMatchRepo.EXPECT().
		CreateMatch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.CreateMatch) (*domain.Match, error) {
			s.NotEqual(uuid.Nil, args.PublicID)
			s.Equal(waitingOrder.ID, args.OrderID)
			s.Equal(creatorID, args.PlayerAID)
			s.Equal(opponentID, args.PlayerBID)
			s.Equal(waitingOrder.GamesPlanned, args.GamesPlanned)
			return &createdMatch, nil
		})

	// Мок uow.
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	cases := []struct {
		name     string
		publicID uuid.UUID
		userID   int64
		wantErr  error
	}{
		{name: "ok", publicID: waitingOrder.PublicID, userID: creatorID},
		{name: "not an owner", publicID: waitingOrder.PublicID, userID: strangerID, wantErr: domain.ErrOwnerConflict},
		{name: "deadline passed", publicID: expiredOrder.PublicID, userID: creatorID, wantErr: domain.ErrConfirmationExpired},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			match, err := s.orderService.Confirm(s.T().Context(), t.publicID, t.userID)

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(&createdMatch, match)
		})
	}
}

func (s *OrderServiceTestSuite) TestCancel() {
	var creatorID int64 = 10

	openOrder := domain.Order{
		ID:           1,
		PublicID:     uuid.New(),
		UserID:       creatorID,
		ChipType:     domain.ChipRing,
		StakePerGame: decimal.NewFromInt(50),
		GamesPlanned: 2,
		Status:       domain.OrderStatusOpen,
	}
	cancelledOrder := openOrder
	cancelledOrder.Status = domain.OrderStatusCancelled

	stakeTotal := openOrder.StakeTotal()

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.BalanceTransactionRepoName)).
		Return(s.mockBalanceRepo, nil)

	s.mockOrderRepo.EXPECT().
		FindByPublicID(gomock.Any(), openOrder.PublicID).
		Return(&openOrder, nil).Times(2) // успешный кейс и чужая заявка
	s.mockOrderRepo.EXPECT().
		CASStatus(gomock.Any(), openOrder.ID, domain.OrderStatusOpen, domain.OrderStatusCancelled).
		Return(&cancelledOrder, nil)

	// Возврат ставки: баланс и дебетовая проводка REFUND.
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), creatorID, stakeTotal).
		Return(&domain.User{ID: creatorID, Balance: decimal.NewFromInt(100)}, nil)
	s.mockBalanceRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tr repoargs.BalanceTransactionCreate) (*domain.BalanceTransaction, error) {
			s.Equal(domain.DirectionDebit, tr.Direction)
			s.Equal(domain.TransactionRefund, tr.Kind)
			s.True(tr.Amount.Equal(stakeTotal))
			return &domain.BalanceTransaction{ID: 1}, nil
		})

	s.expectIsolatedTx()

	cases := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{name: "ok", userID: creatorID},
		{name: "not an owner", userID: 99, wantErr: domain.ErrOwnerConflict},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			order, err := s.orderService.Cancel(s.T().Context(), openOrder.PublicID, t.userID)

			if t.wantErr != nil {
				s.Require().ErrorIs(err, t.wantErr)
				return
			}
			s.Require().NoError(err)
			s.Equal(&cancelledOrder, order)
		})
	}
}

func (s *OrderServiceTestSuite) TestGetByUserID() {
	var userID int64 = 1
	var emptyUserID int64 = 2

	orders := []domain.Order{
		{
			ID:           1,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			PublicID:     uuid.New(),
			UserID:       userID,
			ChipType:     domain.ChipSmile,
			StakePerGame: decimal.NewFromInt(5),
			GamesPlanned: 2,
			Status:       domain.OrderStatusOpen,
		},
		{
			ID:           2,
			CreatedAt:    time.Now().Add(-time.Hour),
			UpdatedAt:    time.Now(),
			PublicID:     uuid.New(),
			UserID:       userID,
			ChipType:     domain.ChipHeart,
			StakePerGame: decimal.NewFromInt(10),
			GamesPlanned: 4,
			Status:       domain.OrderStatusCompleted,
		},
	}

	s.mockOrderRepo.EXPECT().
		GetByUserID(gomock.Any(), userID).
		Return(orders, nil)

	s.mockOrderRepo.EXPECT().
		GetByUserID(gomock.Any(), emptyUserID).
		Return([]domain.Order{}, nil)

	cases := []struct {
		name      string
		userID    int64
		wantEmpty bool
	}{
		{
			name:   "ok",
			userID: userID,
		},
		{
			name:      "empty result",
			userID:    emptyUserID,
			wantEmpty: true,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			result, err := s.orderService.GetByUserID(s.T().Context(), t.userID)

			s.Require().NoError(err)
			if t.wantEmpty {
				s.Require().Empty(result)
			} else {
				s.Require().Len(result, 2)
				s.Equal(userID, result[0].UserID)
				s.Equal(userID, result[1].UserID)
			}
		})
	}
}

func (s *OrderServiceTestSuite) TestSweepConfirmations() {
	var firstMissCreatorID int64 = 1
	var secondMissCreatorID int64 = 2
	var opponentID int64 = 3

	// Заявка с первым пропуском возвращается в пул, со вторым закрывается навсегда.
	firstMissOrder := domain.Order{
		ID:           1,
		PublicID:     uuid.New(),
		UserID:       firstMissCreatorID,
		ChipType:     domain.ChipSmile,
		StakePerGame: decimal.NewFromInt(5),
		GamesPlanned: 2,
		Status:       domain.OrderStatusWaitingCreatorConfirm,
		OpponentID:   &opponentID,
	}
	secondMissOrder := domain.Order{
		ID:             2,
		PublicID:       uuid.New(),
		UserID:         secondMissCreatorID,
		ChipType:       domain.ChipSmile,
		StakePerGame:   decimal.NewFromInt(5),
		GamesPlanned:   2,
		Status:         domain.OrderStatusWaitingCreatorConfirm,
		OpponentID:     &opponentID,
		MissedConfirms: 1,
	}

	recycledOrder := firstMissOrder
	recycledOrder.Status = domain.OrderStatusOpen
	recycledOrder.OpponentID = nil
	recycledOrder.MissedConfirms = 1

	expiredOrder := secondMissOrder
	expiredOrder.Status = domain.OrderStatusExpired

	stakeTotal := firstMissOrder.StakeTotal()

	// Мок транзакции uow.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.BalanceTransactionRepoName)).
		Return(s.mockBalanceRepo, nil).AnyTimes()

	s.mockOrderRepo.EXPECT().
		ListConfirmationExpired(gomock.Any(), int32(100)).
		Return([]domain.Order{firstMissOrder, secondMissOrder}, nil)

	// Оппоненту возвращается ставка по обеим заявкам, создателю второй - его собственная.
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), opponentID, stakeTotal).
		Return(&domain.User{ID: opponentID}, nil).Times(2)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), secondMissCreatorID, stakeTotal).
		Return(&domain.User{ID: secondMissCreatorID}, nil)
	s.mockBalanceRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&domain.BalanceTransaction{ID: 1}, nil).Times(3)

	// Пропуск подтверждения засчитывается каждому создателю.
	s.mockUserRepo.EXPECT().
		ApplyDealEvent(gomock.Any(), repoargs.ApplyDealEvent{UserID: firstMissCreatorID, TotalDelta: 1}).
		Return(&domain.User{ID: firstMissCreatorID}, nil)
	s.mockUserRepo.EXPECT().
		ApplyDealEvent(gomock.Any(), repoargs.ApplyDealEvent{UserID: secondMissCreatorID, TotalDelta: 1}).
		Return(&domain.User{ID: secondMissCreatorID}, nil)

	s.mockOrderRepo.EXPECT().
		RecycleConfirm(gomock.Any(), firstMissOrder.ID).
		Return(&recycledOrder, nil)
	s.mockOrderRepo.EXPECT().
		ExpireConfirm(gomock.Any(), secondMissOrder.ID).
		Return(&expiredOrder, nil)

	// Уведомления уходят только после коммита транзакции.
	var kinds []domain.NotificationKind
	s.mockNotifier.EXPECT().
		Enqueue(gomock.Any()).
		Do(func(n domain.Notification) {
			kinds = append(kinds, n.Kind)
		}).Times(2)

	s.expectIsolatedTx()

	processed, err := s.orderService.SweepConfirmations(s.T().Context(), 100)

	s.Require().NoError(err)
	s.Equal(2, processed)
	s.Equal([]domain.NotificationKind{domain.NotifyOrderRecycled, domain.NotifyOrderExpired}, kinds)
}
