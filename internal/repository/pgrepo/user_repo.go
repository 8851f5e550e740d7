package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const userColumns = `id, created_at, updated_at, username, encrypted_password, balance,
	total_deals, completed_deals, telegram_chat_id`

const (
	userCreateQuery = `INSERT INTO users (username, encrypted_password)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	userFindByUsernameQuery = `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	userGetByIDQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	userGetForUpdateQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	userAdjustBalanceQuery = `UPDATE users
		SET balance = balance + $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	userApplyDealEventQuery = `UPDATE users
		SET total_deals = total_deals + $2, completed_deals = completed_deals + $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	userSetTelegramChatIDQuery = `UPDATE users
		SET telegram_chat_id = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns
)

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(conn uow.DBTX) *UserRepository {
	return &UserRepository{db: conn}
}

// CreateUser создает юзера в базе данных. В случае конфликта юзернейма возвращает ошибку domain.ErrDuplicateKey,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) CreateUser(ctx context.Context, user repoargs.CreateUser) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userCreateQuery, user.Username, user.Password)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user")
	}
	return dbUser, nil
}

// FindUserByUsername ищет юзера по его юзернейму. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена,
// во всех других случаях - domain.ErrUnknown.
func (u *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userFindByUsernameQuery, username)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username %s", username)
	}
	return dbUser, nil
}

// GetByID ищет юзера по ID. Возвращает ошибку domain.ErrRecordNotFound если запись не найдена.
func (u *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userGetByIDQuery, userID)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "getting user by ID %d", userID)
	}
	return dbUser, nil
}

// GetForUpdate читает юзера с блокировкой строки до конца транзакции.
// Вызывается перед любым изменением баланса.
func (u *UserRepository) GetForUpdate(ctx context.Context, userID int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userGetForUpdateQuery, userID)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "locking user by ID %d", userID)
	}
	return dbUser, nil
}

// AdjustBalance прибавляет delta к балансу юзера. Для списания delta передается отрицательной.
// Уход баланса в минус блокируется ограничением на уровне базы.
func (u *UserRepository) AdjustBalance(ctx context.Context, userID int64, delta decimal.Decimal) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userAdjustBalanceQuery, userID, delta)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "adjusting balance of user %d", userID)
	}
	return dbUser, nil
}

// ApplyDealEvent обновляет счетчики надежности юзера.
func (u *UserRepository) ApplyDealEvent(ctx context.Context, args repoargs.ApplyDealEvent) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userApplyDealEventQuery, args.UserID, args.TotalDelta, args.CompletedDelta)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "applying deal event to user %d", args.UserID)
	}
	return dbUser, nil
}

// SetTelegramChatID привязывает телеграм чат к юзеру для уведомлений.
func (u *UserRepository) SetTelegramChatID(ctx context.Context, userID int64, chatID int64) (*domain.User, error) {
	row := u.db.QueryRow(ctx, userSetTelegramChatIDQuery, userID, chatID)
	dbUser, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "linking telegram chat to user %d", userID)
	}
	return dbUser, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.Username,
		&u.Password,
		&u.Balance,
		&u.TotalDeals,
		&u.CompletedDeals,
		&u.TelegramChatID,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &u, nil
}
