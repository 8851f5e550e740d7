package pgrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const roundColumns = `id, created_at, updated_at, match_id, round_index, deadline,
	player_a_number, player_b_number, status, winner_id, is_draw, seed_slice,
	random_number, time_slot, forfeited_by`

const (
	roundCreateQuery = `INSERT INTO rounds (match_id, round_index, deadline)
		VALUES ($1, $2, $3)
		RETURNING ` + roundColumns

	roundFindCurrentQuery = `SELECT ` + roundColumns + ` FROM rounds
		WHERE match_id = $1
		ORDER BY round_index DESC
		LIMIT 1`

	roundGetByIDQuery = `SELECT ` + roundColumns + ` FROM rounds WHERE id = $1`

	roundGetByMatchIDQuery = `SELECT ` + roundColumns + ` FROM rounds
		WHERE match_id = $1
		ORDER BY round_index`

	roundSetPlayerANumberQuery = `UPDATE rounds
		SET player_a_number = $2, updated_at = now()
		WHERE id = $1 AND status = 'AWAITING_NUMBERS' AND player_a_number IS NULL AND deadline > now()
		RETURNING ` + roundColumns

	roundSetPlayerBNumberQuery = `UPDATE rounds
		SET player_b_number = $2, updated_at = now()
		WHERE id = $1 AND status = 'AWAITING_NUMBERS' AND player_b_number IS NULL AND deadline > now()
		RETURNING ` + roundColumns

	roundFinishQuery = `UPDATE rounds
		SET status = 'FINISHED', winner_id = $2, is_draw = $3, seed_slice = $4,
			random_number = $5, time_slot = $6, updated_at = now()
		WHERE id = $1 AND status = 'AWAITING_NUMBERS'
		RETURNING ` + roundColumns

	roundForfeitQuery = `UPDATE rounds
		SET status = 'FORFEITED', winner_id = $2, forfeited_by = $3, updated_at = now()
		WHERE id = $1 AND status = 'AWAITING_NUMBERS' AND deadline < now()
		RETURNING ` + roundColumns

	roundCloseMutualForfeitQuery = `UPDATE rounds
		SET status = 'FORFEITED', updated_at = now()
		WHERE id = $1 AND status = 'AWAITING_NUMBERS' AND deadline < now()
		RETURNING ` + roundColumns

	roundListExpiredQuery = `SELECT ` + roundColumns + ` FROM rounds
		WHERE status = 'AWAITING_NUMBERS' AND deadline < now()
		ORDER BY deadline
		LIMIT $1`
)

type RoundRepository struct {
	db uow.DBTX
}

func NewRoundRepository(conn uow.DBTX) *RoundRepository {
	return &RoundRepository{db: conn}
}

// CreateRound вставляет раунд серии в статусе AWAITING_NUMBERS. Повторная вставка того же
// индекса в матче возвращает domain.ErrDuplicateKey.
func (r *RoundRepository) CreateRound(ctx context.Context, round repoargs.CreateRound) (*domain.Round, error) {
	row := r.db.QueryRow(ctx, roundCreateQuery, round.MatchID, round.RoundIndex, round.Deadline)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "creating round %d of match %d", round.RoundIndex, round.MatchID)
	}
	return dbRound, nil
}

func (r *RoundRepository) GetByID(ctx context.Context, roundID int64) (*domain.Round, error) {
	row := r.db.QueryRow(ctx, roundGetByIDQuery, roundID)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "getting round by ID %d", roundID)
	}
	return dbRound, nil
}

// FindCurrent возвращает последний по индексу раунд матча. Возвращает domain.ErrRecordNotFound
// если раундов еще нет.
func (r *RoundRepository) FindCurrent(ctx context.Context, matchID int64) (*domain.Round, error) {
	row := r.db.QueryRow(ctx, roundFindCurrentQuery, matchID)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "finding current round of match %d", matchID)
	}
	return dbRound, nil
}

// GetByMatchID возвращает все раунды матча в порядке следования.
func (r *RoundRepository) GetByMatchID(ctx context.Context, matchID int64) ([]domain.Round, error) {
	rows, err := r.db.Query(ctx, roundGetByMatchIDQuery, matchID)
	if err != nil {
		return nil, convertErr(err, "listing rounds of match %d", matchID)
	}
	defer rows.Close()

	var rounds []domain.Round
	for rows.Next() {
		dbRound, scanErr := scanRound(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing rounds of match %d", matchID)
		}
		rounds = append(rounds, *dbRound)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing rounds of match %d", matchID)
	}
	return rounds, nil
}

// SetPlayerNumber фиксирует число стороны в раунде. Обновление срабатывает только пока
// раунд ждет числа, дедлайн не истек и сторона еще не отправляла число. Иначе возвращает
// domain.ErrRecordNotFound, а причину отказа выясняет сервисный слой.
func (r *RoundRepository) SetPlayerNumber(ctx context.Context, args repoargs.SetPlayerNumber) (*domain.Round, error) {
	var query string
	switch args.Side {
	case domain.SideA:
		query = roundSetPlayerANumberQuery
	case domain.SideB:
		query = roundSetPlayerBNumberQuery
	default:
		return nil, fmt.Errorf("[repository/setting number in round %d] %w: unknown side %q",
			args.RoundID, domain.ErrUnknown, args.Side)
	}

	row := r.db.QueryRow(ctx, query, args.RoundID, args.Number)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "setting number of side %s in round %d", args.Side, args.RoundID)
	}
	return dbRound, nil
}

// FinishRound закрывает раунд результатом генератора. Для уже закрытого раунда возвращает
// domain.ErrRecordNotFound: результат записывается ровно один раз.
func (r *RoundRepository) FinishRound(ctx context.Context, args repoargs.FinishRound) (*domain.Round, error) {
	row := r.db.QueryRow(ctx, roundFinishQuery,
		args.RoundID, args.WinnerID, args.IsDraw, args.SeedSlice, args.RandomNumber, args.TimeSlot)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "finishing round %d", args.RoundID)
	}
	return dbRound, nil
}

// ForfeitRound закрывает просроченный раунд поражением промолчавшей стороны. Генератор
// для таких раундов не вызывается, seed_slice остается пустым.
func (r *RoundRepository) ForfeitRound(ctx context.Context, args repoargs.ForfeitRound) (*domain.Round, error) {
	row := r.db.QueryRow(ctx, roundForfeitQuery, args.RoundID, args.WinnerID, args.ForfeitedBy)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "forfeiting round %d", args.RoundID)
	}
	return dbRound, nil
}

// CloseMutualForfeit закрывает просроченный раунд, в котором промолчали обе стороны.
func (r *RoundRepository) CloseMutualForfeit(ctx context.Context, roundID int64) (*domain.Round, error) {
	row := r.db.QueryRow(ctx, roundCloseMutualForfeitQuery, roundID)
	dbRound, err := scanRound(row)
	if err != nil {
		return nil, convertErr(err, "closing round %d as mutual forfeit", roundID)
	}
	return dbRound, nil
}

// ListExpired возвращает раунды с истекшим дедлайном. Строки не блокируются: обработчик
// сперва берет блокировку матча и перепроверяет состояние раунда атомарным обновлением.
func (r *RoundRepository) ListExpired(ctx context.Context, limit int32) ([]domain.Round, error) {
	rows, err := r.db.Query(ctx, roundListExpiredQuery, limit)
	if err != nil {
		return nil, convertErr(err, "listing expired rounds")
	}
	defer rows.Close()

	var rounds []domain.Round
	for rows.Next() {
		dbRound, scanErr := scanRound(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "listing expired rounds")
		}
		rounds = append(rounds, *dbRound)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "listing expired rounds")
	}
	return rounds, nil
}

func scanRound(row pgx.Row) (*domain.Round, error) {
	var r domain.Round
	err := row.Scan(
		&r.ID,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.MatchID,
		&r.RoundIndex,
		&r.Deadline,
		&r.PlayerANumber,
		&r.PlayerBNumber,
		&r.Status,
		&r.WinnerID,
		&r.IsDraw,
		&r.SeedSlice,
		&r.RandomNumber,
		&r.TimeSlot,
		&r.ForfeitedBy,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &r, nil
}
