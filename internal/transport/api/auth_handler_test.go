package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/logger"
	"github.com/fsdevblog/groph-duel/internal/service"
	"github.com/fsdevblog/groph-duel/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-duel/internal/transport/api/testutils"
	"github.com/fsdevblog/groph-duel/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	mockCtrl        *gomock.Controller
	router          *gin.Engine
	mockUserService *mocks.MockUserServicer
	jwtSecret       []byte
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())

	s.mockUserService = mocks.NewMockUserServicer(s.mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout, "error"),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *AuthHandlerTestSuite) TestRegister() {
	jwtTokenStr, jwtErr := tokens.GenerateUserJWT(1, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	argsOk := service.RegisterUserArgs{Username: "test", Password: "password"}
	argsDup := service.RegisterUserArgs{Username: "duplicate", Password: "password"}
	argsEmptyUsername := service.RegisterUserArgs{Username: "", Password: "password"}
	argsShortPassword := service.RegisterUserArgs{Username: "test", Password: "12345"}

	s.mockUserService.EXPECT().Register(gomock.Any(), argsOk).Return(&domain.User{ID: 1}, jwtTokenStr, nil)
	s.mockUserService.EXPECT().Register(gomock.Any(), argsDup).Return(nil, "", domain.ErrDuplicateKey)
	s.mockUserService.EXPECT().Register(gomock.Any(), argsEmptyUsername).Times(0)
	s.mockUserService.EXPECT().Register(gomock.Any(), argsShortPassword).Times(0)

	cases := []struct {
		name        string
		args        *UserRegisterParams
		jwtTokenStr *string
		wantStatus  int
	}{
		{
			name:       "user created",
			args:       &UserRegisterParams{Username: argsOk.Username, Password: argsOk.Password},
			wantStatus: http.StatusOK,
		}, {
			name:        "user already logged in",
			args:        &UserRegisterParams{Username: argsOk.Username, Password: argsOk.Password},
			wantStatus:  http.StatusUnauthorized,
			jwtTokenStr: &jwtTokenStr,
		}, {
			name:       "duplicate username",
			args:       &UserRegisterParams{Username: argsDup.Username, Password: argsDup.Password},
			wantStatus: http.StatusConflict,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			name: "empty username",
			args: &UserRegisterParams{
				Username: argsEmptyUsername.Username,
				Password: argsEmptyUsername.Password,
			},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name: "short password",
			args: &UserRegisterParams{
				Username: argsShortPassword.Username,
				Password: argsShortPassword.Password,
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				var marshalErr error
				payload, marshalErr = json.Marshal(t.args)
				s.Require().NoError(marshalErr)
			}

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(payload),
			}

			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtTokenStr != nil {
				v := fmt.Sprintf("Bearer %s", *t.jwtTokenStr)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", v))
			}

			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				s.Equal("Bearer "+jwtTokenStr, res.Header.Get("Authorization"))
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	jwtTokenStr, jwtErr := tokens.GenerateUserJWT(1, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	argsOk := service.LoginUserArgs{Username: "test", Password: "password"}
	argsWrongUsername := service.LoginUserArgs{Username: "wrong", Password: "password"}
	argsWrongPass := service.LoginUserArgs{Username: "test", Password: "wrong pass"}

	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsOk).
		Return(&domain.User{ID: 1, Username: argsOk.Username}, jwtTokenStr, nil)
	// Сервис не различает неизвестный юзернейм и неверный пароль.
	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsWrongUsername).
		Return(nil, "", domain.ErrPasswordMissMatch)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), argsWrongPass).
		Return(nil, "", domain.ErrPasswordMissMatch)

	cases := []struct {
		name        string
		args        *UserLoginParams
		jwtTokenStr *string
		wantStatus  int
	}{
		{
			name:       "ok",
			args:       &UserLoginParams{Username: argsOk.Username, Password: argsOk.Password},
			wantStatus: http.StatusOK,
		}, {
			name:        "already logged in",
			args:        &UserLoginParams{Username: argsOk.Username, Password: argsOk.Password},
			wantStatus:  http.StatusUnauthorized,
			jwtTokenStr: &jwtTokenStr,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "wrong username",
			args:       &UserLoginParams{Username: argsWrongUsername.Username, Password: argsWrongUsername.Password},
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "wrong password",
			args:       &UserLoginParams{Username: argsWrongPass.Username, Password: argsWrongPass.Password},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				var marshalErr error
				payload, marshalErr = json.Marshal(t.args)
				s.Require().NoError(marshalErr)
			}

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(payload),
			}

			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtTokenStr != nil {
				v := fmt.Sprintf("Bearer %s", *t.jwtTokenStr)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", v))
			}

			res, err := testutils.MakeRequest(args, reqOpts...)

			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK && t.jwtTokenStr == nil {
				s.Equal("Bearer "+jwtTokenStr, res.Header.Get("Authorization"))

				var body struct {
					User UserResponse `json:"user"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(int64(1), body.User.ID)
				s.Equal(argsOk.Username, body.User.Username)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLinkTelegram() {
	var userID int64 = 1
	var chatID int64 = 777

	s.mockUserService.EXPECT().
		LinkTelegram(gomock.Any(), userID, chatID).
		Return(&domain.User{ID: userID, TelegramChatID: &chatID}, nil)

	cases := []struct {
		name       string
		payload    string
		withToken  bool
		wantStatus int
	}{
		{
			name:       "ok",
			payload:    fmt.Sprintf(`{"chat_id":%d}`, chatID),
			withToken:  true,
			wantStatus: http.StatusOK,
		}, {
			name:       "no token",
			payload:    fmt.Sprintf(`{"chat_id":%d}`, chatID),
			wantStatus: http.StatusUnauthorized,
		}, {
			// binding required не пропускает нулевой chat_id.
			name:       "zero chat id",
			payload:    `{"chat_id":0}`,
			withToken:  true,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "empty body",
			payload:    "",
			withToken:  true,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + TelegramRoute,
				Body:   bytes.NewReader([]byte(t.payload)),
			}

			var reqOpts []func(*testutils.RequestOptions)
			if t.withToken {
				token, tokenErr := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
				s.Require().NoError(tokenErr)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", "Bearer "+token))
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
