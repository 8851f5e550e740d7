package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/internal/transport/api/tokens"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const JWTTokenExpire = 1 * time.Hour

type UserService struct {
	uow            uow.UOW
	userRepo       UserRepository
	hasher         PasswordHasher
	jwtTokenSecret []byte
	welcomeBonus   decimal.Decimal
}

func NewUserService(u uow.UOW, hasher PasswordHasher, jwtTokenSecret []byte, welcomeBonus decimal.Decimal) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:            u,
		userRepo:       userRepo,
		hasher:         hasher,
		jwtTokenSecret: jwtTokenSecret,
		welcomeBonus:   welcomeBonus,
	}, nil
}

type RegisterUserArgs struct {
	Username string
	Password string
}

// Register создает юзера в базе данных и начисляет приветственный бонус, если он настроен.
// После успешного создания генерирует jwt token. Возвращает 3 значения:
// созданный юзер, токен и ошибку. Занятый юзернейм возвращает domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, string, error) {
	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, "", fmt.Errorf("registering user: %s", hashErr.Error())
	}
	var user *domain.User
	var token string
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var userErr, tokenErr error
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Username: args.Username,
			Password: password,
		})
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		if user, userErr = s.grantWelcomeBonus(c, tx, userRepo, user); userErr != nil {
			return userErr
		}

		token, tokenErr = tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
		if tokenErr != nil {
			return tokenErr //nolint:wrapcheck
		}
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("registering user: %w", txErr)
	}
	return user, token, nil
}

// grantWelcomeBonus зачисляет приветственный бонус новому юзеру вместе с проводкой в журнале.
// При нулевом бонусе ничего не делает.
func (s *UserService) grantWelcomeBonus(
	ctx context.Context,
	tx uow.TX,
	userRepo UserRepository,
	user *domain.User,
) (*domain.User, error) {
	if !s.welcomeBonus.IsPositive() {
		return user, nil
	}

	updated, adjErr := userRepo.AdjustBalance(ctx, user.ID, s.welcomeBonus)
	if adjErr != nil {
		return nil, adjErr //nolint:wrapcheck
	}

	blRepo, blRepoErr := uow.GetAs[BalanceTransactionRepository](tx, uow.RepositoryName(repoargs.BalanceTransactionRepoName))
	if blRepoErr != nil {
		return nil, blRepoErr //nolint:wrapcheck
	}
	if _, trErr := blRepo.Create(ctx, repoargs.BalanceTransactionCreate{
		UserID:    user.ID,
		Direction: domain.DirectionDebit,
		Kind:      domain.TransactionWelcomeBonus,
		Amount:    s.welcomeBonus,
	}); trErr != nil {
		return nil, trErr //nolint:wrapcheck
	}
	return updated, nil
}

type LoginUserArgs struct {
	Username string
	Password string
}

// Login проверяет пару юзернейм/пароль и выдает jwt token. Неизвестный юзернейм и неверный
// пароль неразличимы: в обоих случаях возвращается domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, string, error) {
	user, findErr := s.userRepo.FindUserByUsername(ctx, args.Username)
	if findErr != nil {
		return nil, "", fmt.Errorf("logging in user: %w", domain.ErrPasswordMissMatch)
	}

	if !s.hasher.ComparePassword(args.Password, user.Password) {
		return nil, "", fmt.Errorf("logging in user: %w", domain.ErrPasswordMissMatch)
	}

	token, tokenErr := tokens.GenerateUserJWT(user.ID, JWTTokenExpire, s.jwtTokenSecret)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("logging in user: %s", tokenErr.Error())
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}

// LinkTelegram привязывает телеграм чат юзера для доставки уведомлений.
func (s *UserService) LinkTelegram(ctx context.Context, userID int64, chatID int64) (*domain.User, error) {
	user, err := s.userRepo.SetTelegramChatID(ctx, userID, chatID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return user, nil
}
