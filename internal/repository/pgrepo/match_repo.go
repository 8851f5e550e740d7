package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

const matchColumns = `id, created_at, updated_at, public_id, order_id, player_a_id, player_b_id,
	stake_per_game, games_planned, games_played, wins_a, wins_b, draws, status, winner_id, finish_reason`

const (
	matchCreateQuery = `INSERT INTO matches (public_id, order_id, player_a_id, player_b_id, stake_per_game, games_planned)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + matchColumns

	matchFindByPublicIDQuery = `SELECT ` + matchColumns + ` FROM matches WHERE public_id = $1`

	matchGetByIDQuery = `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	matchFindByOrderIDQuery = `SELECT ` + matchColumns + ` FROM matches WHERE order_id = $1`

	matchGetForUpdateQuery = `SELECT ` + matchColumns + ` FROM matches WHERE id = $1 FOR UPDATE`

	matchGetByUserQuery = `SELECT ` + matchColumns + ` FROM matches
		WHERE player_a_id = $1 OR player_b_id = $1
		ORDER BY created_at DESC`

	matchIncrementScoreQuery = `UPDATE matches
		SET games_played = games_played + 1, wins_a = wins_a + $2, wins_b = wins_b + $3,
			draws = draws + $4, updated_at = now()
		WHERE id = $1 AND status = 'IN_PROGRESS'
		RETURNING ` + matchColumns

	matchFinishQuery = `UPDATE matches
		SET status = 'COMPLETED', winner_id = $2, finish_reason = $3, updated_at = now()
		WHERE id = $1 AND status = 'IN_PROGRESS'
		RETURNING ` + matchColumns

	matchListUnstartedQuery = `SELECT m.id, m.created_at, m.updated_at, m.public_id, m.order_id,
			m.player_a_id, m.player_b_id, m.stake_per_game, m.games_planned, m.games_played,
			m.wins_a, m.wins_b, m.draws, m.status, m.winner_id, m.finish_reason
		FROM matches m
		JOIN orders o ON o.id = m.order_id
		WHERE o.status = 'MATCHED'
		ORDER BY m.created_at
		LIMIT $1
		FOR UPDATE OF m SKIP LOCKED`
)

type MatchRepository struct {
	db uow.DBTX
}

func NewMatchRepository(conn uow.DBTX) *MatchRepository {
	return &MatchRepository{db: conn}
}

// CreateMatch создает матч для подтвержденной заявки. Повторное создание для той же заявки
// возвращает domain.ErrDuplicateKey.
func (m *MatchRepository) CreateMatch(ctx context.Context, match repoargs.CreateMatch) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchCreateQuery,
		match.PublicID, match.OrderID, match.PlayerAID, match.PlayerBID, match.StakePerGame, match.GamesPlanned)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "creating match for order %d", match.OrderID)
	}
	return dbMatch, nil
}

// FindByPublicID ищет матч по публичному ID. Возвращает ошибку domain.ErrRecordNotFound
// если запись не найдена.
func (m *MatchRepository) FindByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchFindByPublicIDQuery, publicID)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "finding match by public ID %s", publicID)
	}
	return dbMatch, nil
}

func (m *MatchRepository) GetByID(ctx context.Context, matchID int64) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchGetByIDQuery, matchID)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "getting match by ID %d", matchID)
	}
	return dbMatch, nil
}

// FindByOrderID ищет матч подтвержденной заявки. Возвращает domain.ErrRecordNotFound
// если матч еще не создан.
func (m *MatchRepository) FindByOrderID(ctx context.Context, orderID int64) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchFindByOrderIDQuery, orderID)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "finding match by order ID %d", orderID)
	}
	return dbMatch, nil
}

// GetForUpdate читает матч с блокировкой строки до конца транзакции. Блокировка делает
// транзакцию, увидевшую оба числа раунда, единственным резолвером.
func (m *MatchRepository) GetForUpdate(ctx context.Context, matchID int64) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchGetForUpdateQuery, matchID)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "locking match by ID %d", matchID)
	}
	return dbMatch, nil
}

// GetByUserID возвращает матчи юзера, новые первыми.
func (m *MatchRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Match, error) {
	rows, err := m.db.Query(ctx, matchGetByUserQuery, userID)
	if err != nil {
		return nil, convertErr(err, "listing matches of user %d", userID)
	}
	defer rows.Close()
	return collectMatches(rows, "listing matches of user %d", userID)
}

// IncrementScore накатывает результат завершенного раунда на счет серии.
// Для завершенного матча возвращает domain.ErrRecordNotFound.
func (m *MatchRepository) IncrementScore(ctx context.Context, matchID int64, delta repoargs.ScoreDelta) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchIncrementScoreQuery, matchID, delta.WinsA, delta.WinsB, delta.Draws)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "incrementing score of match %d", matchID)
	}
	return dbMatch, nil
}

// FinishMatch переводит матч из IN_PROGRESS в COMPLETED с итогом серии. Если матч уже
// завершен, возвращает domain.ErrRecordNotFound: финализация отрабатывает ровно один раз.
func (m *MatchRepository) FinishMatch(ctx context.Context, args repoargs.FinishMatch) (*domain.Match, error) {
	row := m.db.QueryRow(ctx, matchFinishQuery, args.MatchID, args.WinnerID, args.FinishReason)
	dbMatch, err := scanMatch(row)
	if err != nil {
		return nil, convertErr(err, "finishing match %d", args.MatchID)
	}
	return dbMatch, nil
}

// ListUnstarted возвращает матчи, для которых серия так и не стартовала: заявка осталась
// в MATCHED. Такое возможно при падении процесса между подтверждением и стартом.
func (m *MatchRepository) ListUnstarted(ctx context.Context, limit int32) ([]domain.Match, error) {
	rows, err := m.db.Query(ctx, matchListUnstartedQuery, limit)
	if err != nil {
		return nil, convertErr(err, "listing unstarted matches")
	}
	defer rows.Close()
	return collectMatches(rows, "listing unstarted matches")
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	err := row.Scan(
		&m.ID,
		&m.CreatedAt,
		&m.UpdatedAt,
		&m.PublicID,
		&m.OrderID,
		&m.PlayerAID,
		&m.PlayerBID,
		&m.StakePerGame,
		&m.GamesPlanned,
		&m.GamesPlayed,
		&m.WinsA,
		&m.WinsB,
		&m.Draws,
		&m.Status,
		&m.WinnerID,
		&m.FinishReason,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &m, nil
}

func collectMatches(rows pgx.Rows, errFormat string, errArgs ...any) ([]domain.Match, error) {
	var matches []domain.Match
	for rows.Next() {
		dbMatch, err := scanMatch(rows)
		if err != nil {
			return nil, convertErr(err, errFormat, errArgs...)
		}
		matches = append(matches, *dbMatch)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, errFormat, errArgs...)
	}
	return matches, nil
}
