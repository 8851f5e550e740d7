package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const balanceTransColumns = `id, created_at, updated_at, user_id, direction, kind, amount, order_id, match_id`

const (
	balanceTransCreateQuery = `INSERT INTO balance_transactions (user_id, direction, kind, amount, order_id, match_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + balanceTransColumns

	balanceTransSumQuery = `SELECT direction, COALESCE(SUM(amount), 0) FROM balance_transactions
		WHERE user_id = $1
		GROUP BY direction`

	balanceTransGetByUserQuery = `SELECT ` + balanceTransColumns + ` FROM balance_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
)

type BalanceTransRepository struct {
	db uow.DBTX
}

func NewBalanceTransactionRepository(conn uow.DBTX) *BalanceTransRepository {
	return &BalanceTransRepository{db: conn}
}

// Create добавляет проводку в журнал. Журнал только пополняется, проводки никогда
// не изменяются и не удаляются.
func (b *BalanceTransRepository) Create(
	ctx context.Context,
	transaction repoargs.BalanceTransactionCreate,
) (*domain.BalanceTransaction, error) {
	row := b.db.QueryRow(ctx, balanceTransCreateQuery,
		transaction.UserID, transaction.Direction, transaction.Kind,
		transaction.Amount, transaction.OrderID, transaction.MatchID)
	dbTrans, err := scanBalanceTransaction(row)
	if err != nil {
		return nil, convertErr(err, "creating balance transaction")
	}
	return dbTrans, nil
}

// BatchCreate добавляет пачку проводок одним обращением к базе. Коллбек fn вызывается
// для каждой проводки с ошибкой ее выполнения.
func (b *BalanceTransRepository) BatchCreate(
	ctx context.Context,
	transactions []repoargs.BalanceTransactionCreate,
	fn repoargs.BatchExecQueryRow,
) {
	batch := new(pgx.Batch)
	for _, transaction := range transactions {
		batch.Queue(balanceTransCreateQuery,
			transaction.UserID, transaction.Direction, transaction.Kind,
			transaction.Amount, transaction.OrderID, transaction.MatchID)
	}

	results := b.db.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	for i := range transactions {
		_, err := results.Exec()
		fn(i, convertErr(err, "creating balance transaction"))
	}
}

// GetUserBalance агрегирует журнал юзера по направлениям. Текущий баланс это
// дебет минус кредит.
func (b *BalanceTransRepository) GetUserBalance(ctx context.Context, userID int64) (*repoargs.BalanceAggregation, error) {
	rows, err := b.db.Query(ctx, balanceTransSumQuery, userID)
	if err != nil {
		return nil, convertErr(err, "getting balance sum by userID %d", userID)
	}
	defer rows.Close()

	var sum = new(repoargs.BalanceAggregation)
	for rows.Next() {
		var direction domain.DirectionType
		var amount decimal.Decimal
		if scanErr := rows.Scan(&direction, &amount); scanErr != nil {
			return nil, convertErr(scanErr, "getting balance sum by userID %d", userID)
		}
		if direction == domain.DirectionCredit {
			sum.CreditAmount = amount
		} else {
			sum.DebitAmount = amount
		}
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "getting balance sum by userID %d", userID)
	}
	return sum, nil
}

// GetByUserID возвращает проводки юзера, новые первыми.
func (b *BalanceTransRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.BalanceTransaction, error) {
	rows, err := b.db.Query(ctx, balanceTransGetByUserQuery, userID)
	if err != nil {
		return nil, convertErr(err, "balance transactions of user %d", userID)
	}
	defer rows.Close()

	var transactions []domain.BalanceTransaction
	for rows.Next() {
		dbTrans, scanErr := scanBalanceTransaction(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "balance transactions of user %d", userID)
		}
		transactions = append(transactions, *dbTrans)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "balance transactions of user %d", userID)
	}
	return transactions, nil
}

func scanBalanceTransaction(row pgx.Row) (*domain.BalanceTransaction, error) {
	var t domain.BalanceTransaction
	err := row.Scan(
		&t.ID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.UserID,
		&t.Direction,
		&t.Kind,
		&t.Amount,
		&t.OrderID,
		&t.MatchID,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &t, nil
}
