package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const orderColumns = `id, created_at, updated_at, public_id, user_id, chip_type, stake_per_game,
	games_planned, status, opponent_id, confirmation_deadline, missed_confirms`

const (
	orderCreateQuery = `INSERT INTO orders (public_id, user_id, chip_type, stake_per_game, games_planned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + orderColumns

	orderFindByPublicIDQuery = `SELECT ` + orderColumns + ` FROM orders WHERE public_id = $1`

	orderGetForUpdateQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`

	orderListOpenQuery = `SELECT o.id, o.created_at, o.updated_at, o.public_id, o.user_id, o.chip_type,
			o.stake_per_game, o.games_planned, o.status, o.opponent_id, o.confirmation_deadline,
			o.missed_confirms, u.username, u.total_deals, u.completed_deals
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.status = 'OPEN' AND o.user_id <> $1
		ORDER BY o.created_at DESC
		LIMIT $2`

	orderListByUserQuery = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 OR opponent_id = $1
		ORDER BY created_at DESC`

	orderMarkWaitingConfirmQuery = `UPDATE orders
		SET status = 'WAITING_CREATOR_CONFIRM', opponent_id = $2, confirmation_deadline = $3, updated_at = now()
		WHERE id = $1 AND status = 'OPEN'
		RETURNING ` + orderColumns

	orderCASStatusQuery = `UPDATE orders
		SET status = $3, updated_at = now()
		WHERE id = $1 AND status = $2
		RETURNING ` + orderColumns

	orderListConfirmationExpiredQuery = `SELECT ` + orderColumns + ` FROM orders
		WHERE status = 'WAITING_CREATOR_CONFIRM' AND confirmation_deadline < now()
		ORDER BY confirmation_deadline
		LIMIT $1
		FOR UPDATE SKIP LOCKED`

	orderRecycleConfirmQuery = `UPDATE orders
		SET status = 'OPEN', opponent_id = NULL, confirmation_deadline = NULL,
			missed_confirms = missed_confirms + 1, updated_at = now()
		WHERE id = $1 AND status = 'WAITING_CREATOR_CONFIRM' AND confirmation_deadline < now()
		RETURNING ` + orderColumns

	orderExpireConfirmQuery = `UPDATE orders
		SET status = 'EXPIRED', confirmation_deadline = NULL,
			missed_confirms = missed_confirms + 1, updated_at = now()
		WHERE id = $1 AND status = 'WAITING_CREATOR_CONFIRM' AND confirmation_deadline < now()
		RETURNING ` + orderColumns
)

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(conn uow.DBTX) *OrderRepository {
	return &OrderRepository{db: conn}
}

// CreateOrder создает заявку на дуэль в статусе OPEN. В случае коллизии публичного ID
// возвращает ошибку domain.ErrDuplicateKey.
func (o *OrderRepository) CreateOrder(ctx context.Context, order repoargs.CreateOrder) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderCreateQuery,
		order.PublicID, order.UserID, order.ChipType, order.StakePerGame, order.GamesPlanned)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order")
	}
	return dbOrder, nil
}

// FindByPublicID ищет заявку по публичному ID. Возвращает ошибку domain.ErrRecordNotFound
// если запись не найдена.
func (o *OrderRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderFindByPublicIDQuery, publicID)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by public ID %s", publicID)
	}
	return dbOrder, nil
}

// GetForUpdate читает заявку с блокировкой строки до конца транзакции.
func (o *OrderRepository) GetForUpdate(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderGetForUpdateQuery, orderID)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "locking order by ID %d", orderID)
	}
	return dbOrder, nil
}

// ListOpen возвращает открытые заявки чужих игроков вместе со счетчиками надежности создателя,
// новые первыми.
func (o *OrderRepository) ListOpen(ctx context.Context, exceptUserID int64, limit int32) ([]repoargs.OpenOrderListItem, error) {
	rows, err := o.db.Query(ctx, orderListOpenQuery, exceptUserID, limit)
	if err != nil {
		return nil, convertErr(err, "listing open orders")
	}
	defer rows.Close()

	var items []repoargs.OpenOrderListItem
	for rows.Next() {
		var item repoargs.OpenOrderListItem
		ord := &item.Order
		scanErr := rows.Scan(
			&ord.ID, &ord.CreatedAt, &ord.UpdatedAt, &ord.PublicID, &ord.UserID, &ord.ChipType,
			&ord.StakePerGame, &ord.GamesPlanned, &ord.Status, &ord.OpponentID, &ord.ConfirmationDeadline,
			&ord.MissedConfirms, &item.OwnerUsername, &item.OwnerTotalDeals, &item.OwnerCompletedDeals,
		)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning open order")
		}
		items = append(items, item)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing open orders")
	}
	return items, nil
}

// GetByUserID возвращает заявки, в которых юзер участвует как создатель или оппонент,
// новые первыми.
func (o *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx, orderListByUserQuery, userID)
	if err != nil {
		return nil, convertErr(err, "listing orders of user %d", userID)
	}
	defer rows.Close()
	return collectOrders(rows, "listing orders of user %d", userID)
}

// MarkWaitingConfirm атомарно захватывает открытую заявку оппонентом и переводит ее в
// WAITING_CREATOR_CONFIRM. Если заявка уже не в статусе OPEN, возвращает domain.ErrRecordNotFound:
// гонку выигрывает ровно один оппонент.
func (o *OrderRepository) MarkWaitingConfirm(ctx context.Context, args repoargs.MarkWaitingConfirm) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderMarkWaitingConfirmQuery, args.OrderID, args.OpponentID, args.ConfirmationDeadline)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "capturing order %d by opponent %d", args.OrderID, args.OpponentID)
	}
	return dbOrder, nil
}

// CASStatus переводит заявку из статуса from в статус to. Если текущий статус не совпадает с from,
// возвращает domain.ErrRecordNotFound.
func (o *OrderRepository) CASStatus(ctx context.Context, orderID int64, from, to domain.OrderStatusType) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderCASStatusQuery, orderID, from, to)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "moving order %d from %s to %s", orderID, from, to)
	}
	return dbOrder, nil
}

// ListConfirmationExpired возвращает заявки с истекшим дедлайном подтверждения, блокируя строки.
// Уже заблокированные другим процессом строки пропускаются.
func (o *OrderRepository) ListConfirmationExpired(ctx context.Context, limit int32) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx, orderListConfirmationExpiredQuery, limit)
	if err != nil {
		return nil, convertErr(err, "listing confirmation expired orders")
	}
	defer rows.Close()
	return collectOrders(rows, "listing confirmation expired orders")
}

// RecycleConfirm возвращает просроченную заявку в пул OPEN после первого пропуска подтверждения.
// Оппонент и дедлайн сбрасываются, счетчик пропусков растет.
func (o *OrderRepository) RecycleConfirm(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderRecycleConfirmQuery, orderID)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "recycling order %d", orderID)
	}
	return dbOrder, nil
}

// ExpireConfirm окончательно закрывает заявку после повторного пропуска подтверждения.
func (o *OrderRepository) ExpireConfirm(ctx context.Context, orderID int64) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, orderExpireConfirmQuery, orderID)
	dbOrder, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "expiring order %d", orderID)
	}
	return dbOrder, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.CreatedAt,
		&o.UpdatedAt,
		&o.PublicID,
		&o.UserID,
		&o.ChipType,
		&o.StakePerGame,
		&o.GamesPlanned,
		&o.Status,
		&o.OpponentID,
		&o.ConfirmationDeadline,
		&o.MissedConfirms,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &o, nil
}

func collectOrders(rows pgx.Rows, errFormat string, errArgs ...any) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		dbOrder, err := scanOrder(rows)
		if err != nil {
			return nil, convertErr(err, errFormat, errArgs...)
		}
		orders = append(orders, *dbOrder)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, errFormat, errArgs...)
	}
	return orders, nil
}
