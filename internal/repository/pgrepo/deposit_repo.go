package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const depositColumns = `id, created_at, updated_at, user_id, code, status, amount, attempts`

const (
	depositCreateQuery = `INSERT INTO deposit_tickets (user_id, code)
		VALUES ($1, $2)
		RETURNING ` + depositColumns

	depositFindByCodeQuery = `SELECT ` + depositColumns + ` FROM deposit_tickets WHERE code = $1`

	depositGetByUserQuery = `SELECT ` + depositColumns + ` FROM deposit_tickets
		WHERE user_id = $1
		ORDER BY created_at DESC`

	depositGetForMonitoringQuery = `UPDATE deposit_tickets
		SET status = 'PROCESSING', updated_at = now()
		WHERE id IN (
			SELECT id FROM deposit_tickets
			WHERE status IN ('NEW', 'PROCESSING')
			ORDER BY updated_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + depositColumns

	depositResolveQuery = `UPDATE deposit_tickets
		SET status = $2, amount = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + depositColumns

	depositIncrementAttemptsQuery = `UPDATE deposit_tickets
		SET attempts = attempts + 1, updated_at = now()
		WHERE id = ANY($1)`
)

type DepositTicketRepository struct {
	db uow.DBTX
}

func NewDepositTicketRepository(conn uow.DBTX) *DepositTicketRepository {
	return &DepositTicketRepository{db: conn}
}

// Create регистрирует тикет на сверку пополнения. Повторная регистрация кода возвращает
// domain.ErrDuplicateKey.
func (d *DepositTicketRepository) Create(ctx context.Context, ticket repoargs.CreateDepositTicket) (*domain.DepositTicket, error) {
	row := d.db.QueryRow(ctx, depositCreateQuery, ticket.UserID, ticket.Code)
	dbTicket, err := scanDepositTicket(row)
	if err != nil {
		return nil, convertErr(err, "creating deposit ticket with code `%s`", ticket.Code)
	}
	return dbTicket, nil
}

// FindByCode ищет тикет по коду пополнения. Возвращает domain.ErrRecordNotFound
// если запись не найдена.
func (d *DepositTicketRepository) FindByCode(ctx context.Context, code string) (*domain.DepositTicket, error) {
	row := d.db.QueryRow(ctx, depositFindByCodeQuery, code)
	dbTicket, err := scanDepositTicket(row)
	if err != nil {
		return nil, convertErr(err, "finding deposit ticket by code `%s`", code)
	}
	return dbTicket, nil
}

// GetByUserID возвращает тикеты юзера, новые первыми.
func (d *DepositTicketRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.DepositTicket, error) {
	rows, err := d.db.Query(ctx, depositGetByUserQuery, userID)
	if err != nil {
		return nil, convertErr(err, "getting deposit tickets by userID `%d`", userID)
	}
	defer rows.Close()
	return collectDepositTickets(rows, "getting deposit tickets by userID `%d`", userID)
}

// GetForMonitoring захватывает пачку незавершенных тикетов для сверки с биржей и помечает их
// PROCESSING. Тикеты, уже захваченные другим процессом, пропускаются.
func (d *DepositTicketRepository) GetForMonitoring(ctx context.Context, limit uint) ([]domain.DepositTicket, error) {
	safeLimit, safeLimitErr := safeConvertUintToInt32(limit)
	if safeLimitErr != nil {
		return nil, convertErr(safeLimitErr, "converting limit to int32")
	}

	rows, err := d.db.Query(ctx, depositGetForMonitoringQuery, safeLimit)
	if err != nil {
		return nil, convertErr(err, "getting deposit tickets for monitoring")
	}
	defer rows.Close()
	return collectDepositTickets(rows, "getting deposit tickets for monitoring")
}

// BatchResolve записывает итоги сверки пачкой. Коллбек fn вызывается для каждого тикета
// с обновленной записью и ошибкой выполнения.
func (d *DepositTicketRepository) BatchResolve(
	ctx context.Context,
	resolutions []repoargs.DepositTicketResolution,
	fn repoargs.DepositBatchQueryRow,
) {
	batch := new(pgx.Batch)
	for _, resolution := range resolutions {
		batch.Queue(depositResolveQuery, resolution.TicketID, resolution.Status, resolution.Amount)
	}

	results := d.db.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	for i, resolution := range resolutions {
		dbTicket, err := scanDepositTicket(results.QueryRow())
		fn(i, dbTicket, convertErr(err, "resolving deposit ticket with id %d", resolution.TicketID))
	}
}

// IncrementErrAttempts увеличивает счетчик неудачных сверок у тикетов.
func (d *DepositTicketRepository) IncrementErrAttempts(ctx context.Context, ticketIDs []int64) error {
	if _, err := d.db.Exec(ctx, depositIncrementAttemptsQuery, ticketIDs); err != nil {
		return convertErr(err, "incrementing err attempts for deposit tickets with ids `%v`", ticketIDs)
	}
	return nil
}

func scanDepositTicket(row pgx.Row) (*domain.DepositTicket, error) {
	var t domain.DepositTicket
	err := row.Scan(
		&t.ID,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.UserID,
		&t.Code,
		&t.Status,
		&t.Amount,
		&t.Attempts,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &t, nil
}

func collectDepositTickets(rows pgx.Rows, errFormat string, errArgs ...any) ([]domain.DepositTicket, error) {
	var tickets []domain.DepositTicket
	for rows.Next() {
		dbTicket, err := scanDepositTicket(rows)
		if err != nil {
			return nil, convertErr(err, errFormat, errArgs...)
		}
		tickets = append(tickets, *dbTicket)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, errFormat, errArgs...)
	}
	return tickets, nil
}
