package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/logger"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/internal/service"
	"github.com/fsdevblog/groph-duel/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-duel/internal/transport/api/testutils"
	"github.com/fsdevblog/groph-duel/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	mockMatchService *mocks.MockMatchServicer
	jwtSecret        []byte
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(s.mockCtrl)
	s.mockMatchService = mocks.NewMockMatchServicer(s.mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout, "error"),
		OrderService: s.mockOrderService,
		MatchService: s.mockMatchService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// authToken генерирует jwt юзера для заголовка Authorization.
func (s *OrderHandlerTestSuite) authToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *OrderHandlerTestSuite) TestCreateOrder() {
	var richUserID int64 = 1
	var poorUserID int64 = 2
	var riskyUserID int64 = 3

	validPayload := []byte(`{"chip":"HEART","gamesPlanned":4}`)
	unknownChipPayload := []byte(`{"chip":"DIAMOND","gamesPlanned":4}`)
	tooFewGamesPayload := []byte(`{"chip":"HEART","gamesPlanned":1}`)

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

	// Моки
	// Валидный запрос
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), service.CreateOrderArgs{
			UserID:       richUserID,
			ChipType:     domain.ChipHeart,
			GamesPlanned: 4,
		}).
		Return(&createdOrder, nil)
	// Фишки такого номинала не существует.
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), service.CreateOrderArgs{
			UserID:       richUserID,
			ChipType:     domain.ChipType("DIAMOND"),
			GamesPlanned: 4,
		}).
		Return(nil, domain.ErrUnknownChipType)
	// Баланса юзера не хватает на ставку за всю серию.
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), service.CreateOrderArgs{
			UserID:       poorUserID,
			ChipType:     domain.ChipHeart,
			GamesPlanned: 4,
		}).
		Return(nil, domain.ErrNotEnoughBalance)
	// Ранг надежности юзера слишком низкий для создания заявок.
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), service.CreateOrderArgs{
			UserID:       riskyUserID,
			ChipType:     domain.ChipHeart,
			GamesPlanned: 4,
		}).
		Return(nil, domain.ErrReliabilityTooLow)

	cases := []struct {
		name       string
		payload    []byte
		userID     int64
		noAuth     bool
		wantStatus int
	}{
		{
			name:       "all ok",
			payload:    validPayload,
			userID:     richUserID,
			wantStatus: http.StatusCreated,
		}, {
			name:       "unknown chip",
			payload:    unknownChipPayload,
			userID:     richUserID,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			// Валидация binding отсекает запрос до сервиса.
			name:       "games planned below minimum",
			payload:    tooFewGamesPayload,
			userID:     richUserID,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "not enough balance",
			payload:    validPayload,
			userID:     poorUserID,
			wantStatus: http.StatusPaymentRequired,
		}, {
			name:       "reliability too low",
			payload:    validPayload,
			userID:     riskyUserID,
			wantStatus: http.StatusForbidden,
		}, {
			name:       "not authorized",
			payload:    validPayload,
			noAuth:     true,
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "bad request",
			payload:    []byte(""),
			userID:     richUserID,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + OrdersRoute,
				Body:   bytes.NewReader(t.payload),
			}
			reqOpts := []func(*testutils.RequestOptions){
				testutils.WithHeader("Content-Type", "application/json; charset=utf-8"),
			}
			if !t.noAuth {
				authHeader := fmt.Sprintf("Bearer %s", s.authToken(t.userID))
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", authHeader))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *OrderHandlerTestSuite) TestLobby() {
	var userID int64 = 1
	var emptyLobbyUserID int64 = 2

	items := []repoargs.OpenOrderListItem{
		{
			Order: domain.Order{
				ID:           2,
				PublicID:     uuid.New(),
				UserID:       3,
				ChipType:     domain.ChipSmile,
				StakePerGame: decimal.NewFromInt(5),
				GamesPlanned: 2,
				Status:       domain.OrderStatusOpen,
			},
			OwnerUsername:       "bob",
			OwnerTotalDeals:     10,
			OwnerCompletedDeals: 9,
		},
	}

	s.mockOrderService.EXPECT().
		ListOpen(gomock.Any(), userID, int32(lobbyPageSize)).
		Return(items, nil)
	s.mockOrderService.EXPECT().
		ListOpen(gomock.Any(), emptyLobbyUserID, int32(lobbyPageSize)).
		Return([]repoargs.OpenOrderListItem{}, nil)

	s.Run("ok", func() {
		args := testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + OrdersRoute,
		}
		authHeader := fmt.Sprintf("Bearer %s", s.authToken(userID))
		res, err := testutils.MakeRequest(args, testutils.WithHeader("Authorization", authHeader))
		defer func() {
			closeErr := res.Body.Close()
			s.Require().NoError(closeErr)
		}()

		s.Require().NoError(err)
		s.Require().Equal(http.StatusOK, res.StatusCode)

		var response []LobbyItemResponse
		s.Require().NoError(json.NewDecoder(res.Body).Decode(&response))
		s.Require().Len(response, 1)
		s.Equal("bob", response[0].OwnerUsername)
		s.Equal(domain.RankTrusted, response[0].OwnerRank)
		s.InDelta(0.9, response[0].OwnerReliability, 0.0001)
	})

	s.Run("empty lobby", func() {
		args := testutils.RequestArgs{
			Router: s.router,
			Method: http.MethodGet,
			URL:    RouteGroup + OrdersRoute,
		}
		authHeader := fmt.Sprintf("Bearer %s", s.authToken(emptyLobbyUserID))
		res, err := testutils.MakeRequest(args, testutils.WithHeader("Authorization", authHeader))
		defer func() {
			closeErr := res.Body.Close()
			s.Require().NoError(closeErr)
		}()

		s.Require().NoError(err)
		s.Equal(http.StatusNoContent, res.StatusCode)
	})
}

func (s *OrderHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	var noOrdersUserID int64 = 2

	orders := []domain.Order{
		{
			ID:           1,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
			PublicID:     uuid.New(),
			UserID:       userID,
			ChipType:     domain.ChipFire,
			StakePerGame: decimal.NewFromInt(25),
			GamesPlanned: 2,
			Status:       domain.OrderStatusCompleted,
		},
	}
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), userID).Return(orders, nil)
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), noOrdersUserID).Return([]domain.Order{}, nil)

	cases := []struct {
		name       string
		userID     int64
		noAuth     bool
		wantStatus int
	}{
		{
			name:       "all ok",
			userID:     userID,
			wantStatus: http.StatusOK,
		}, {
			name:       "not authorized",
			noAuth:     true,
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "no orders",
			userID:     noOrdersUserID,
			wantStatus: http.StatusNoContent,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodGet,
				URL:    RouteGroup + UserOrdersRoute,
			}
			var reqOpts []func(*testutils.RequestOptions)
			if !t.noAuth {
				authHeader := fmt.Sprintf("Bearer %s", s.authToken(t.userID))
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", authHeader))
			}
			res, err := testutils.MakeRequest(args, reqOpts...)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *OrderHandlerTestSuite) TestJoin() {
	var joinerID int64 = 1

	openOrderID := uuid.New()
	missingOrderID := uuid.New()
	ownOrderID := uuid.New()
	takenOrderID := uuid.New()
	expensiveOrderID := uuid.New()

	joinedOrder := domain.Order{
		ID:           1,
		PublicID:     openOrderID,
		UserID:       2,
		ChipType:     domain.ChipHeart,
		StakePerGame: decimal.NewFromInt(10),
		GamesPlanned: 2,
		Status:       domain.OrderStatusWaitingCreatorConfirm,
		OpponentID:   &joinerID,
	}

	s.mockOrderService.EXPECT().
		Join(gomock.Any(), openOrderID, joinerID).
		Return(&joinedOrder, nil)
	s.mockOrderService.EXPECT().
		Join(gomock.Any(), missingOrderID, joinerID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockOrderService.EXPECT().
		Join(gomock.Any(), ownOrderID, joinerID).
		Return(nil, domain.ErrSelfJoin)
	s.mockOrderService.EXPECT().
		Join(gomock.Any(), takenOrderID, joinerID).
		Return(nil, domain.ErrOrderNotAvailable)
	s.mockOrderService.EXPECT().
		Join(gomock.Any(), expensiveOrderID, joinerID).
		Return(nil, domain.ErrNotEnoughBalance)

	cases := []struct {
		name       string
		publicID   string
		wantStatus int
	}{
		{
			name:       "all ok",
			publicID:   openOrderID.String(),
			wantStatus: http.StatusOK,
		}, {
			name:       "order not found",
			publicID:   missingOrderID.String(),
			wantStatus: http.StatusNotFound,
		}, {
			name:       "self join",
			publicID:   ownOrderID.String(),
			wantStatus: http.StatusConflict,
		}, {
			name:       "order already taken",
			publicID:   takenOrderID.String(),
			wantStatus: http.StatusConflict,
		}, {
			name:       "not enough balance",
			publicID:   expensiveOrderID.String(),
			wantStatus: http.StatusPaymentRequired,
		}, {
			// Невалидный uuid отсекается до сервиса.
			name:       "malformed public id",
			publicID:   "not-a-uuid",
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    fmt.Sprintf("%s/orders/%s/join", RouteGroup, t.publicID),
			}
			authHeader := fmt.Sprintf("Bearer %s", s.authToken(joinerID))
			res, err := testutils.MakeRequest(args, testutils.WithHeader("Authorization", authHeader))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *OrderHandlerTestSuite) TestConfirm() {
	var creatorID int64 = 1

	confirmedOrderID := uuid.New()
	repairableOrderID := uuid.New()
	foreignOrderID := uuid.New()
	expiredOrderID := uuid.New()

	match := domain.Match{
		ID:       1,
		PublicID: uuid.New(),
		OrderID:  1,
	}

	s.mockOrderService.EXPECT().
		Confirm(gomock.Any(), confirmedOrderID, creatorID).
		Return(&match, nil)
	s.mockMatchService.EXPECT().
		StartSeries(gomock.Any(), confirmedOrderID).
		Return(&match, nil)

	// Ошибка запуска серии не портит подтверждение: дозапуск висит на фоновом процессе.
	s.mockOrderService.EXPECT().
		Confirm(gomock.Any(), repairableOrderID, creatorID).
		Return(&match, nil)
	s.mockMatchService.EXPECT().
		StartSeries(gomock.Any(), repairableOrderID).
		Return(nil, domain.ErrUnknown)

	s.mockOrderService.EXPECT().
		Confirm(gomock.Any(), foreignOrderID, creatorID).
		Return(nil, domain.ErrOwnerConflict)
	s.mockOrderService.EXPECT().
		Confirm(gomock.Any(), expiredOrderID, creatorID).
		Return(nil, domain.ErrConfirmationExpired)

	cases := []struct {
		name       string
		publicID   uuid.UUID
		wantStatus int
	}{
		{
			name:       "all ok",
			publicID:   confirmedOrderID,
			wantStatus: http.StatusOK,
		}, {
			name:       "series start failed",
			publicID:   repairableOrderID,
			wantStatus: http.StatusOK,
		}, {
			name:       "not an owner",
			publicID:   foreignOrderID,
			wantStatus: http.StatusForbidden,
		}, {
			name:       "confirmation expired",
			publicID:   expiredOrderID,
			wantStatus: http.StatusConflict,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    fmt.Sprintf("%s/orders/%s/confirm", RouteGroup, t.publicID),
			}
			authHeader := fmt.Sprintf("Bearer %s", s.authToken(creatorID))
			res, err := testutils.MakeRequest(args, testutils.WithHeader("Authorization", authHeader))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}

func (s *OrderHandlerTestSuite) TestCancel() {
	var creatorID int64 = 1

	openOrderID := uuid.New()
	foreignOrderID := uuid.New()
	matchedOrderID := uuid.New()

	cancelledOrder := domain.Order{
		ID:           1,
		PublicID:     openOrderID,
		UserID:       creatorID,
		ChipType:     domain.ChipRing,
		StakePerGame: decimal.NewFromInt(50),
		GamesPlanned: 2,
		Status:       domain.OrderStatusCancelled,
	}

	s.mockOrderService.EXPECT().
		Cancel(gomock.Any(), openOrderID, creatorID).
		Return(&cancelledOrder, nil)
	s.mockOrderService.EXPECT().
		Cancel(gomock.Any(), foreignOrderID, creatorID).
		Return(nil, domain.ErrOwnerConflict)
	// Заявку с найденным соперником снять уже нельзя.
	s.mockOrderService.EXPECT().
		Cancel(gomock.Any(), matchedOrderID, creatorID).
		Return(nil, domain.ErrOrderNotAvailable)

	cases := []struct {
		name       string
		publicID   uuid.UUID
		wantStatus int
	}{
		{
			name:       "all ok",
			publicID:   openOrderID,
			wantStatus: http.StatusOK,
		}, {
			name:       "not an owner",
			publicID:   foreignOrderID,
			wantStatus: http.StatusForbidden,
		}, {
			name:       "opponent already found",
			publicID:   matchedOrderID,
			wantStatus: http.StatusConflict,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    fmt.Sprintf("%s/orders/%s/cancel", RouteGroup, t.publicID),
			}
			authHeader := fmt.Sprintf("Bearer %s", s.authToken(creatorID))
			res, err := testutils.MakeRequest(args, testutils.WithHeader("Authorization", authHeader))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
		})
	}
}
