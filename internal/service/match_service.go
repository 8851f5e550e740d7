package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/fair"
	"github.com/fsdevblog/groph-duel/internal/payout"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

type MatchService struct {
	uow          uow.UOW
	matchRepo    MatchRepository
	roundRepo    RoundRepository
	userRepo     UserRepository
	fairEngine   *fair.Engine
	notifier     Notifier
	submitWindow time.Duration
}

func NewMatchService(
	u uow.UOW,
	fairEngine *fair.Engine,
	notifier Notifier,
	submitWindow time.Duration,
) (*MatchService, error) {
	matchRepo, matchRepoErr := uow.GetRepositoryAs[MatchRepository](u, uow.RepositoryName(repoargs.MatchRepoName))
	if matchRepoErr != nil {
		return nil, matchRepoErr
	}
	roundRepo, roundRepoErr := uow.GetRepositoryAs[RoundRepository](u, uow.RepositoryName(repoargs.RoundRepoName))
	if roundRepoErr != nil {
		return nil, roundRepoErr
	}
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &MatchService{
		uow:          u,
		matchRepo:    matchRepo,
		roundRepo:    roundRepo,
		userRepo:     userRepo,
		fairEngine:   fairEngine,
		notifier:     notifier,
		submitWindow: submitWindow,
	}, nil
}

// matchTxRepos собирает репозитории, нужные транзакциям оркестратора.
type matchTxRepos struct {
	users   UserRepository
	orders  OrderRepository
	matches MatchRepository
	rounds  RoundRepository
	ledger  BalanceTransactionRepository
}

func matchReposFromTX(tx uow.TX) (*matchTxRepos, error) {
	users, usersErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if usersErr != nil {
		return nil, usersErr //nolint:wrapcheck
	}
	orders, ordersErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
	if ordersErr != nil {
		return nil, ordersErr //nolint:wrapcheck
	}
	matches, matchesErr := uow.GetAs[MatchRepository](tx, uow.RepositoryName(repoargs.MatchRepoName))
	if matchesErr != nil {
		return nil, matchesErr //nolint:wrapcheck
	}
	rounds, roundsErr := uow.GetAs[RoundRepository](tx, uow.RepositoryName(repoargs.RoundRepoName))
	if roundsErr != nil {
		return nil, roundsErr //nolint:wrapcheck
	}
	ledger, ledgerErr := uow.GetAs[BalanceTransactionRepository](tx, uow.RepositoryName(repoargs.BalanceTransactionRepoName))
	if ledgerErr != nil {
		return nil, ledgerErr //nolint:wrapcheck
	}
	return &matchTxRepos{users: users, orders: orders, matches: matches, rounds: rounds, ledger: ledger}, nil
}

// StartSeries запускает серию подтвержденной заявки: заявка переводится в IN_PROGRESS
// и вставляется первый раунд с дедлайном отправки числа. Повторный запуск возвращает
// domain.ErrOrderNotAvailable.
func (s *MatchService) StartSeries(ctx context.Context, orderPublicID uuid.UUID) (*domain.Match, error) {
	var match *domain.Match

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repos, reposErr := matchReposFromTX(tx)
		if reposErr != nil {
			return reposErr
		}

		order, findErr := repos.orders.FindByPublicID(c, orderPublicID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}

		var matchErr error
		match, matchErr = repos.matches.FindByOrderID(c, order.ID)
		if matchErr != nil {
			return matchErr //nolint:wrapcheck
		}

		if _, casErr := repos.orders.CASStatus(c, order.ID,
			domain.OrderStatusMatched, domain.OrderStatusInProgress); casErr != nil {
			return domain.ErrOrderNotAvailable
		}

		_, roundErr := repos.rounds.CreateRound(c, repoargs.CreateRound{
			MatchID:    match.ID,
			RoundIndex: 1,
			Deadline:   time.Now().Add(s.submitWindow),
		})
		return roundErr //nolint:wrapcheck
	})

	if txErr != nil {
		return nil, fmt.Errorf("starting series: %w", txErr)
	}

	for _, n := range matchStartedNotifications(match) {
		s.notifier.Enqueue(n)
	}
	return match, nil
}

// SubmitNumber фиксирует число игрока в раунде roundIndex. Когда транзакция видит оба числа,
// она же и разыгрывает раунд: генератор вызывается ровно один раз, исход сохраняется как
// авторитетный, затем вставляется следующий раунд либо серия закрывается расчетом.
// Вторым значением возвращается сторона отправителя в матче.
//
// Возвращает domain.ErrNumberOutRange, domain.ErrNotParticipant, domain.ErrMatchFinished,
// domain.ErrRoundMismatch, domain.ErrAlreadySubmitted либо domain.ErrRoundExpired при отказе.
func (s *MatchService) SubmitNumber(
	ctx context.Context,
	matchPublicID uuid.UUID,
	roundIndex int16,
	userID int64,
	number int32,
) (*domain.Round, domain.MatchSide, error) {
	if number < 0 || number > fair.MaxPlayerNumber {
		return nil, "", fmt.Errorf("submitting number: %w", domain.ErrNumberOutRange)
	}

	var round *domain.Round
	var side domain.MatchSide
	var notifications []domain.Notification

	txErr := s.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		repos, reposErr := matchReposFromTX(tx)
		if reposErr != nil {
			return reposErr
		}

		found, findErr := repos.matches.FindByPublicID(c, matchPublicID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		var isParticipant bool
		side, isParticipant = found.SideOf(userID)
		if !isParticipant {
			return domain.ErrNotParticipant
		}

		// Блокировка строки матча делает эту транзакцию единственным резолвером раунда.
		match, lockErr := repos.matches.GetForUpdate(c, found.ID)
		if lockErr != nil {
			return lockErr //nolint:wrapcheck
		}
		if match.Status != domain.MatchStatusInProgress {
			return domain.ErrMatchFinished
		}

		current, currentErr := repos.rounds.FindCurrent(c, match.ID)
		if currentErr != nil {
			return currentErr //nolint:wrapcheck
		}
		if current.RoundIndex != roundIndex {
			// Клиент целился в раунд, который уже разыгран или еще не открыт.
			return domain.ErrRoundMismatch
		}
		if current.NumberOf(side) != nil {
			return domain.ErrAlreadySubmitted
		}
		if time.Now().After(current.Deadline) {
			return domain.ErrRoundExpired
		}

		updated, setErr := repos.rounds.SetPlayerNumber(c, repoargs.SetPlayerNumber{
			RoundID: current.ID,
			Side:    side,
			Number:  number,
		})
		if setErr != nil {
			// Под блокировкой матча обновлению может помешать только истекший дедлайн.
			return domain.ErrRoundExpired
		}

		if updated.PlayerANumber == nil || updated.PlayerBNumber == nil {
			round = updated
			return nil
		}

		resolved, ns, resolveErr := s.resolveRound(c, repos, match, updated)
		if resolveErr != nil {
			return resolveErr
		}
		round = resolved
		notifications = ns
		return nil
	})

	if txErr != nil {
		return nil, "", fmt.Errorf("submitting number: %w", txErr)
	}

	for _, n := range notifications {
		s.notifier.Enqueue(n)
	}
	return round, side, nil
}

// resolveRound разыгрывает раунд с обоими числами: вычисляет исход, записывает его,
// накатывает счет серии и либо открывает следующий раунд, либо закрывает серию расчетом.
func (s *MatchService) resolveRound(
	ctx context.Context,
	repos *matchTxRepos,
	match *domain.Match,
	round *domain.Round,
) (*domain.Round, []domain.Notification, error) {
	playerA, aErr := repos.users.GetByID(ctx, match.PlayerAID)
	if aErr != nil {
		return nil, nil, aErr //nolint:wrapcheck
	}
	playerB, bErr := repos.users.GetByID(ctx, match.PlayerBID)
	if bErr != nil {
		return nil, nil, bErr //nolint:wrapcheck
	}

	timeSlot := fair.TimeSlot(time.Now())
	outcome, outcomeErr := s.fairEngine.DetermineWinner(
		match.PublicID.String(),
		int(round.RoundIndex),
		timeSlot,
		fair.Pick{PlayerID: playerA.Username, Number: *round.PlayerANumber},
		fair.Pick{PlayerID: playerB.Username, Number: *round.PlayerBNumber},
	)
	if outcomeErr != nil {
		return nil, nil, outcomeErr //nolint:wrapcheck
	}

	var winnerID *int64
	var delta repoargs.ScoreDelta
	switch outcome.WinnerIndex {
	case fair.WinnerA:
		winnerID = &match.PlayerAID
		delta.WinsA = 1
	case fair.WinnerB:
		winnerID = &match.PlayerBID
		delta.WinsB = 1
	default:
		delta.Draws = 1
	}

	finished, finishErr := repos.rounds.FinishRound(ctx, repoargs.FinishRound{
		RoundID:      round.ID,
		WinnerID:     winnerID,
		IsDraw:       outcome.IsDraw,
		SeedSlice:    outcome.SeedSlice,
		RandomNumber: outcome.RandomNumber,
		TimeSlot:     timeSlot,
	})
	if finishErr != nil {
		return nil, nil, finishErr //nolint:wrapcheck
	}

	updatedMatch, scoreErr := repos.matches.IncrementScore(ctx, match.ID, delta)
	if scoreErr != nil {
		return nil, nil, scoreErr //nolint:wrapcheck
	}

	notifications := roundResultNotifications(updatedMatch, finished)

	if updatedMatch.GamesPlayed < updatedMatch.GamesPlanned {
		_, nextErr := repos.rounds.CreateRound(ctx, repoargs.CreateRound{
			MatchID:    match.ID,
			RoundIndex: round.RoundIndex + 1,
			Deadline:   time.Now().Add(s.submitWindow),
		})
		if nextErr != nil {
			return nil, nil, nextErr //nolint:wrapcheck
		}
		return finished, notifications, nil
	}

	settlement, settleErr := payout.Settle(scoreOf(updatedMatch), updatedMatch.StakePerGame)
	if settleErr != nil {
		return nil, nil, settleErr //nolint:wrapcheck
	}
	ns, finalizeErr := s.finalizeSeries(ctx, repos, updatedMatch, finalizeArgs{
		settlement: settlement,
		reason:     domain.FinishReasonPlayedOut,
		dealEvents: bothCompletedEvents(updatedMatch),
	})
	if finalizeErr != nil {
		return nil, nil, finalizeErr
	}
	return finished, append(notifications, ns...), nil
}

// SweepRounds обрабатывает раунды с истекшим дедлайном. Промолчавшая сторона проигрывает
// раунд, а до минимума сыгранных игр теряет и всю серию. Обоюдное молчание завершает серию:
// до минимума оба получают ставки назад, после минимума серия рассчитывается по набранному
// счету. Возвращает число обработанных раундов.
func (s *MatchService) SweepRounds(ctx context.Context, limit int32) (int, error) {
	var processed int
	var notifications []domain.Notification

	txErr := s.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		repos, reposErr := matchReposFromTX(tx)
		if reposErr != nil {
			return reposErr
		}

		expired, listErr := repos.rounds.ListExpired(c, limit)
		if listErr != nil {
			return listErr //nolint:wrapcheck
		}

		for i := range expired {
			ns, sweepErr := s.sweepRound(c, repos, &expired[i])
			if sweepErr != nil {
				return sweepErr
			}
			if ns == nil {
				continue
			}
			notifications = append(notifications, ns...)
			processed++
		}
		return nil
	})

	if txErr != nil {
		return 0, fmt.Errorf("sweeping rounds: %w", txErr)
	}

	for _, n := range notifications {
		s.notifier.Enqueue(n)
	}
	return processed, nil
}

// sweepRound обрабатывает один просроченный раунд под блокировкой матча. Возвращает nil
// уведомления без ошибки, если раунд уже разыгран или матч закрыт конкурентной транзакцией.
func (s *MatchService) sweepRound(
	ctx context.Context,
	repos *matchTxRepos,
	stale *domain.Round,
) ([]domain.Notification, error) {
	match, lockErr := repos.matches.GetForUpdate(ctx, stale.MatchID)
	if lockErr != nil {
		return nil, lockErr //nolint:wrapcheck
	}
	if match.Status != domain.MatchStatusInProgress {
		return nil, nil
	}

	round, roundErr := repos.rounds.GetByID(ctx, stale.ID)
	if roundErr != nil {
		return nil, roundErr //nolint:wrapcheck
	}
	if round.Status != domain.RoundStatusAwaitingNumbers || time.Now().Before(round.Deadline) {
		return nil, nil
	}

	aSubmitted := round.PlayerANumber != nil
	bSubmitted := round.PlayerBNumber != nil

	switch {
	case aSubmitted && bSubmitted:
		// Оба числа на месте: раундом владеет резолвер отправки.
		return nil, nil
	case !aSubmitted && !bSubmitted:
		return s.sweepMutualMiss(ctx, repos, match, round)
	case aSubmitted:
		return s.sweepOneSidedMiss(ctx, repos, match, round, domain.SideA)
	default:
		return s.sweepOneSidedMiss(ctx, repos, match, round, domain.SideB)
	}
}

// sweepOneSidedMiss закрывает раунд, в котором число отправила одна сторона present.
func (s *MatchService) sweepOneSidedMiss(
	ctx context.Context,
	repos *matchTxRepos,
	match *domain.Match,
	round *domain.Round,
	present domain.MatchSide,
) ([]domain.Notification, error) {
	presentID := match.PlayerID(present)
	silentSide := present.Opponent()
	silentID := match.PlayerID(silentSide)

	forfeited, forfeitErr := repos.rounds.ForfeitRound(ctx, repoargs.ForfeitRound{
		RoundID:     round.ID,
		WinnerID:    presentID,
		ForfeitedBy: silentID,
	})
	if forfeitErr != nil {
		return nil, forfeitErr //nolint:wrapcheck
	}

	if match.GamesPlayed < payout.MinGamesRequired {
		// Сход с дистанции до минимума игр отдает сопернику обе ставки.
		return s.finalizeSeries(ctx, repos, match, finalizeArgs{
			settlement: payout.SettleEarlyForfeit(match.StakePerGame, match.GamesPlanned, silentSide),
			reason:     domain.FinishReasonEarlyForfeit,
			winnerID:   &presentID,
			dealEvents: []repoargs.ApplyDealEvent{
				{UserID: silentID, TotalDelta: 1},
				{UserID: presentID, TotalDelta: 1, CompletedDelta: 1},
			},
		})
	}

	var delta repoargs.ScoreDelta
	if present == domain.SideA {
		delta.WinsA = 1
	} else {
		delta.WinsB = 1
	}
	updatedMatch, scoreErr := repos.matches.IncrementScore(ctx, match.ID, delta)
	if scoreErr != nil {
		return nil, scoreErr //nolint:wrapcheck
	}

	notifications := roundResultNotifications(updatedMatch, forfeited)

	if updatedMatch.GamesPlayed < updatedMatch.GamesPlanned {
		_, nextErr := repos.rounds.CreateRound(ctx, repoargs.CreateRound{
			MatchID:    match.ID,
			RoundIndex: round.RoundIndex + 1,
			Deadline:   time.Now().Add(s.submitWindow),
		})
		if nextErr != nil {
			return nil, nextErr //nolint:wrapcheck
		}
		// Серия продолжается, финальных уведомлений еще нет.
		return notifications, nil
	}

	settlement, settleErr := payout.Settle(scoreOf(updatedMatch), updatedMatch.StakePerGame)
	if settleErr != nil {
		return nil, settleErr //nolint:wrapcheck
	}
	ns, finalizeErr := s.finalizeSeries(ctx, repos, updatedMatch, finalizeArgs{
		settlement: settlement,
		reason:     domain.FinishReasonPlayedOut,
		dealEvents: bothCompletedEvents(updatedMatch),
	})
	if finalizeErr != nil {
		return nil, finalizeErr
	}
	return append(notifications, ns...), nil
}

// sweepMutualMiss закрывает раунд, в котором промолчали обе стороны. Серия при этом
// завершается в любом случае.
func (s *MatchService) sweepMutualMiss(
	ctx context.Context,
	repos *matchTxRepos,
	match *domain.Match,
	round *domain.Round,
) ([]domain.Notification, error) {
	if _, closeErr := repos.rounds.CloseMutualForfeit(ctx, round.ID); closeErr != nil {
		return nil, closeErr //nolint:wrapcheck
	}

	if match.GamesPlayed < payout.MinGamesRequired {
		return s.finalizeSeries(ctx, repos, match, finalizeArgs{
			settlement: payout.SettleMutualForfeit(match.StakePerGame, match.GamesPlanned),
			reason:     domain.FinishReasonMutualForfeit,
			dealEvents: []repoargs.ApplyDealEvent{
				{UserID: match.PlayerAID, TotalDelta: 1},
				{UserID: match.PlayerBID, TotalDelta: 1},
			},
		})
	}

	// Минимум сыгран: серия рассчитывается по набранному счету.
	settlement, settleErr := payout.Settle(scoreOf(match), match.StakePerGame)
	if settleErr != nil {
		return nil, settleErr //nolint:wrapcheck
	}
	var winnerID *int64
	if settlement.HasWinner {
		id := match.PlayerID(settlement.Winner)
		winnerID = &id
	}
	return s.finalizeSeries(ctx, repos, match, finalizeArgs{
		settlement: settlement,
		reason:     domain.FinishReasonMutualForfeit,
		winnerID:   winnerID,
		dealEvents: bothCompletedEvents(match),
	})
}

type finalizeArgs struct {
	settlement *payout.Settlement
	reason     domain.FinishReasonType
	winnerID   *int64
	dealEvents []repoargs.ApplyDealEvent
}

// finalizeSeries закрывает серию: применяет проводки расчета, фиксирует итог матча,
// закрывает заявку и обновляет счетчики надежности игроков. Каждая заблокированная ставка
// попадает ровно в один расчет: повторную финализацию отсекает CAS статуса матча.
func (s *MatchService) finalizeSeries(
	ctx context.Context,
	repos *matchTxRepos,
	match *domain.Match,
	args finalizeArgs,
) ([]domain.Notification, error) {
	winnerID := args.winnerID
	if winnerID == nil && args.settlement.HasWinner {
		id := match.PlayerID(args.settlement.Winner)
		winnerID = &id
	}

	finished, finishErr := repos.matches.FinishMatch(ctx, repoargs.FinishMatch{
		MatchID:      match.ID,
		WinnerID:     winnerID,
		FinishReason: args.reason,
	})
	if finishErr != nil {
		return nil, finishErr //nolint:wrapcheck
	}

	if _, casErr := repos.orders.CASStatus(ctx, match.OrderID,
		domain.OrderStatusInProgress, domain.OrderStatusCompleted); casErr != nil {
		return nil, casErr //nolint:wrapcheck
	}

	if err := s.applySettlement(ctx, repos, finished, args.settlement); err != nil {
		return nil, err
	}

	for _, event := range args.dealEvents {
		if _, dealErr := repos.users.ApplyDealEvent(ctx, event); dealErr != nil {
			return nil, dealErr //nolint:wrapcheck
		}
	}

	return matchFinishedNotifications(finished, winnerID), nil
}

// applySettlement зачисляет проводки расчета на балансы и в журнал.
func (s *MatchService) applySettlement(
	ctx context.Context,
	repos *matchTxRepos,
	match *domain.Match,
	settlement *payout.Settlement,
) error {
	var transDTO = make([]repoargs.BalanceTransactionCreate, 0, len(settlement.Postings))
	for _, posting := range settlement.Postings {
		userID := match.PlayerID(posting.Side)
		if _, adjErr := repos.users.AdjustBalance(ctx, userID, posting.Amount); adjErr != nil {
			return adjErr //nolint:wrapcheck
		}
		transDTO = append(transDTO, repoargs.BalanceTransactionCreate{
			UserID:    userID,
			Direction: posting.Direction,
			Kind:      posting.Kind,
			Amount:    posting.Amount,
			MatchID:   &match.ID,
		})
	}

	// lastErr хранит последнюю ошибку батча, объединять их нет смысла.
	var lastErr error
	repos.ledger.BatchCreate(ctx, transDTO, func(_ int, err error) {
		if err != nil {
			lastErr = err
		}
	})
	return lastErr
}

// RepairUnstarted дозапускает серии, у которых подтверждение прошло, а первый раунд так
// и не появился. Возвращает число дозапущенных серий.
func (s *MatchService) RepairUnstarted(ctx context.Context, limit int32) (int, error) {
	var processed int
	var notifications []domain.Notification

	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repos, reposErr := matchReposFromTX(tx)
		if reposErr != nil {
			return reposErr
		}

		unstarted, listErr := repos.matches.ListUnstarted(c, limit)
		if listErr != nil {
			return listErr //nolint:wrapcheck
		}

		for _, match := range unstarted {
			if _, casErr := repos.orders.CASStatus(c, match.OrderID,
				domain.OrderStatusMatched, domain.OrderStatusInProgress); casErr != nil {
				continue
			}
			if _, roundErr := repos.rounds.CreateRound(c, repoargs.CreateRound{
				MatchID:    match.ID,
				RoundIndex: 1,
				Deadline:   time.Now().Add(s.submitWindow),
			}); roundErr != nil {
				return roundErr //nolint:wrapcheck
			}
			notifications = append(notifications, matchStartedNotifications(&match)...)
			processed++
		}
		return nil
	})

	if txErr != nil {
		return 0, fmt.Errorf("repairing unstarted matches: %w", txErr)
	}

	for _, n := range notifications {
		s.notifier.Enqueue(n)
	}
	return processed, nil
}

// MatchDetail матч вместе с раундами и именами игроков.
type MatchDetail struct {
	Match       domain.Match
	Rounds      []domain.Round
	PlayerAName string
	PlayerBName string
}

// GetByPublicID возвращает матч с раундами. Доступен только участникам:
// domain.ErrNotParticipant для остальных.
func (s *MatchService) GetByPublicID(ctx context.Context, matchPublicID uuid.UUID, userID int64) (*MatchDetail, error) {
	match, findErr := s.matchRepo.FindByPublicID(ctx, matchPublicID)
	if findErr != nil {
		return nil, findErr //nolint:wrapcheck
	}
	if _, isParticipant := match.SideOf(userID); !isParticipant {
		return nil, domain.ErrNotParticipant
	}

	rounds, roundsErr := s.roundRepo.GetByMatchID(ctx, match.ID)
	if roundsErr != nil {
		return nil, roundsErr //nolint:wrapcheck
	}

	playerA, aErr := s.userRepo.GetByID(ctx, match.PlayerAID)
	if aErr != nil {
		return nil, aErr //nolint:wrapcheck
	}
	playerB, bErr := s.userRepo.GetByID(ctx, match.PlayerBID)
	if bErr != nil {
		return nil, bErr //nolint:wrapcheck
	}

	return &MatchDetail{
		Match:       *match,
		Rounds:      rounds,
		PlayerAName: playerA.Username,
		PlayerBName: playerB.Username,
	}, nil
}

// GetByUserID возвращает матчи юзера, новые первыми.
func (s *MatchService) GetByUserID(ctx context.Context, userID int64) ([]domain.Match, error) {
	matches, err := s.matchRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return matches, nil
}

func scoreOf(m *domain.Match) payout.Score {
	return payout.Score{
		WinsA:        m.WinsA,
		WinsB:        m.WinsB,
		Draws:        m.Draws,
		GamesPlayed:  m.GamesPlayed,
		GamesPlanned: m.GamesPlanned,
	}
}

func bothCompletedEvents(m *domain.Match) []repoargs.ApplyDealEvent {
	return []repoargs.ApplyDealEvent{
		{UserID: m.PlayerAID, TotalDelta: 1, CompletedDelta: 1},
		{UserID: m.PlayerBID, TotalDelta: 1, CompletedDelta: 1},
	}
}

// matchStartedNotifications зовет обоих игроков загадывать число первого раунда.
func matchStartedNotifications(match *domain.Match) []domain.Notification {
	message := fmt.Sprintf("Match %s started: round 1 awaits your number", match.PublicID)
	return []domain.Notification{
		{UserID: match.PlayerAID, Kind: domain.NotifyMatchStarted, Message: message},
		{UserID: match.PlayerBID, Kind: domain.NotifyMatchStarted, Message: message},
	}
}

// roundResultNotifications сообщает обоим игрокам исход раунда и текущий счет. Следующий
// раунд открывается в той же транзакции, поэтому это же сообщение зовет загадывать дальше.
func roundResultNotifications(match *domain.Match, round *domain.Round) []domain.Notification {
	outcomeFor := func(userID int64) string {
		if round.ForfeitedBy != nil {
			if *round.ForfeitedBy == userID {
				return "you missed the deadline"
			}
			return "opponent missed the deadline"
		}
		if round.WinnerID == nil {
			return "draw"
		}
		if *round.WinnerID == userID {
			return "you won"
		}
		return "you lost"
	}
	messageFor := func(userID int64) string {
		return fmt.Sprintf("Round %d of match %s: %s (score %d:%d)",
			round.RoundIndex, match.PublicID, outcomeFor(userID), match.WinsA, match.WinsB)
	}
	return []domain.Notification{
		{UserID: match.PlayerAID, Kind: domain.NotifyRoundResult, Message: messageFor(match.PlayerAID)},
		{UserID: match.PlayerBID, Kind: domain.NotifyRoundResult, Message: messageFor(match.PlayerBID)},
	}
}

func matchFinishedNotifications(match *domain.Match, winnerID *int64) []domain.Notification {
	outcomeFor := func(userID int64) string {
		if winnerID == nil {
			return "draw, stakes refunded"
		}
		if *winnerID == userID {
			return "you won"
		}
		return "you lost"
	}
	return []domain.Notification{
		{
			UserID:  match.PlayerAID,
			Kind:    domain.NotifyMatchFinished,
			Message: fmt.Sprintf("Match %s finished: %s", match.PublicID, outcomeFor(match.PlayerAID)),
		},
		{
			UserID:  match.PlayerBID,
			Kind:    domain.NotifyMatchFinished,
			Message: fmt.Sprintf("Match %s finished: %s", match.PublicID, outcomeFor(match.PlayerBID)),
		},
	}
}
