package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fsdevblog/groph-duel/internal/domain"
	"github.com/fsdevblog/groph-duel/internal/repository/repoargs"
	"github.com/fsdevblog/groph-duel/pkg/uow"
)

type DepositService struct {
	uow         uow.UOW
	depositRepo DepositTicketRepository
	notifier    Notifier
}

func NewDepositService(u uow.UOW, notifier Notifier) (*DepositService, error) {
	rName := uow.RepositoryName(repoargs.DepositTicketRepoName)
	depositRepo, err := uow.GetRepositoryAs[DepositTicketRepository](u, rName)
	if err != nil {
		return nil, err
	}
	return &DepositService{
		uow:         u,
		depositRepo: depositRepo,
		notifier:    notifier,
	}, nil
}

// CreateTicket регистрирует код пополнения за юзером. Возвращает 2 значения, созданный тикет
// и ошибку. Если код уже зарегистрирован, вернется ошибка *domain.DuplicateTicketError
// с существующим тикетом, во всех других случаях - domain.ErrUnknown.
func (d *DepositService) CreateTicket(ctx context.Context, userID int64, code string) (*domain.DepositTicket, error) {
	ticket, createErr := d.depositRepo.Create(ctx, repoargs.CreateDepositTicket{
		UserID: userID,
		Code:   code,
	})
	if createErr != nil {
		// Если код присутствует в БД. Получаем тикет и передаем в domain.DuplicateTicketError.
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			existingTicket, existingTicketErr := d.depositRepo.FindByCode(ctx, code)
			if existingTicketErr != nil {
				return nil, fmt.Errorf("creating deposit ticket: %w", existingTicketErr)
			}
			return nil, domain.NewDuplicateTicketError(existingTicket)
		}

		return nil, fmt.Errorf("creating deposit ticket: %w", createErr)
	}

	return ticket, nil
}

// GetByUserID возвращает тикеты пополнения юзера отсортированные по дате создания по убыванию.
func (d *DepositService) GetByUserID(ctx context.Context, userID int64) ([]domain.DepositTicket, error) {
	tickets, err := d.depositRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return tickets, nil
}

// TicketsForMonitoring возвращает тикеты подлежащие опросу биржи фишек.
func (d *DepositService) TicketsForMonitoring(ctx context.Context, limit uint) ([]domain.DepositTicket, error) {
	tickets, err := d.depositRepo.GetForMonitoring(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return tickets, nil
}

type ResolveTicketArgs struct {
	Error    error
	TicketID int64
	Status   domain.DepositStatusType
	Amount   decimal.Decimal
}

type resolveTicketData struct {
	TicketID int64
	Status   domain.DepositStatusType
	Amount   decimal.Decimal
}

// ResolveTickets обновляет тикеты пополнения ответами биржи и зачисляет фишки.
//
// Параметры:
//   - ctx: контекст для управления жизненным циклом
//   - updates: срез структур для обновления тикетов.
//
// Алгоритм работы:
//  1. Обновляет статусы и суммы тикетов в базе данных
//  2. Для тикетов со статусом CREDITED увеличивает баланс юзера и пишет проводку в журнал.
//  3. Тикеты с ошибками опроса помечает, увеличивая счетчик неудачных попыток.
func (d *DepositService) ResolveTickets(ctx context.Context, updates []ResolveTicketArgs) error {
	var notifications []domain.Notification

	txErr := d.uow.DoIsolated(ctx, serializableTxOptions, func(c context.Context, tx uow.TX) error {
		successData, failureIDs := d.splitSuccessFailureUpdates(updates)

		ns, resolveErr := d.resolveSuccessTickets(c, tx, successData)
		if resolveErr != nil {
			return resolveErr //nolint:wrapcheck
		}
		notifications = ns

		if err := d.incrementErrAttempts(c, tx, failureIDs); err != nil {
			return err //nolint:wrapcheck
		}

		return nil
	})

	if txErr != nil {
		return fmt.Errorf("resolving deposit tickets: %w", txErr)
	}

	for _, n := range notifications {
		d.notifier.Enqueue(n)
	}
	return nil
}

func (d *DepositService) incrementErrAttempts(ctx context.Context, tx uow.TX, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	repo, repoErr := uow.GetAs[DepositTicketRepository](tx, uow.RepositoryName(repoargs.DepositTicketRepoName))
	if repoErr != nil {
		return repoErr
	}
	return repo.IncrementErrAttempts(ctx, ids) //nolint:wrapcheck
}

func (d *DepositService) resolveSuccessTickets(
	ctx context.Context,
	tx uow.TX,
	data []resolveTicketData,
) ([]domain.Notification, error) {
	if len(data) == 0 {
		return nil, nil
	}
	tickets, resolveErr := d.resolveTicketsBatch(ctx, tx, data)
	if resolveErr != nil {
		return nil, resolveErr
	}

	return d.creditTickets(ctx, tx, tickets)
}

// splitSuccessFailureUpdates разбивает срез структур на 2 логические части. Одну для обновления
// в репозитории а вторую - срез id, которые нужно пометить как ошибочные.
func (d *DepositService) splitSuccessFailureUpdates(updates []ResolveTicketArgs) ([]resolveTicketData, []int64) {
	var successData = make([]resolveTicketData, 0, len(updates))
	var failureIDs = make([]int64, 0, len(updates))
	for _, update := range updates {
		if update.Error == nil {
			successData = append(successData, resolveTicketData{
				TicketID: update.TicketID,
				Status:   update.Status,
				Amount:   update.Amount,
			})
		} else {
			failureIDs = append(failureIDs, update.TicketID)
		}
	}
	return successData, failureIDs
}

// creditTickets зачисляет фишки по тикетам со статусом CREDITED: баланс юзера увеличивается,
// в журнал пишется дебетовая проводка. Тикет зачисляется единожды: в обработку попадают только
// статусы NEW и PROCESSING, а CREDITED терминален.
//
// Возвращает уведомления о зачислении и ошибку. Если при батч запросе произошло несколько
// ошибок, вернется последняя ошибка.
func (d *DepositService) creditTickets(
	ctx context.Context,
	tx uow.TX,
	tickets []domain.DepositTicket,
) ([]domain.Notification, error) {
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}

	var notifications = make([]domain.Notification, 0, len(tickets))
	var transDTO = make([]repoargs.BalanceTransactionCreate, 0, len(tickets))
	for _, ticket := range tickets {
		if ticket.Status != domain.DepositStatusCredited {
			continue
		}
		if _, adjErr := userRepo.AdjustBalance(ctx, ticket.UserID, ticket.Amount); adjErr != nil {
			return nil, adjErr //nolint:wrapcheck
		}
		transDTO = append(transDTO, repoargs.BalanceTransactionCreate{
			UserID:    ticket.UserID,
			Direction: domain.DirectionDebit,
			Kind:      domain.TransactionDeposit,
			Amount:    ticket.Amount,
		})
		notifications = append(notifications, domain.Notification{
			UserID:  ticket.UserID,
			Kind:    domain.NotifyDepositCredited,
			Message: fmt.Sprintf("Deposit %s credited: %s chips", ticket.Code, ticket.Amount),
		})
	}
	if len(transDTO) == 0 {
		// если зачислений нет, выходим.
		return nil, nil
	}

	balanceRepo, balanceRepoErr :=
		uow.GetAs[BalanceTransactionRepository](tx, uow.RepositoryName(repoargs.BalanceTransactionRepoName))

	if balanceRepoErr != nil {
		return nil, balanceRepoErr //nolint:wrapcheck
	}

	var balanceTransactionErr error

	balanceRepo.BatchCreate(ctx, transDTO, func(_ int, err error) {
		if err != nil {
			balanceTransactionErr = err
		}
	})
	if balanceTransactionErr != nil {
		return nil, balanceTransactionErr
	}
	return notifications, nil
}

// resolveTicketsBatch вспомогательный метод, выполняющий батч запрос на обновление тикетов
// данными биржи.
func (d *DepositService) resolveTicketsBatch(
	ctx context.Context,
	tx uow.TX,
	updates []resolveTicketData,
) ([]domain.DepositTicket, error) {
	repo, repoErr := uow.GetAs[DepositTicketRepository](tx, uow.RepositoryName(repoargs.DepositTicketRepoName))
	if repoErr != nil {
		return nil, repoErr //nolint:wrapcheck
	}

	var tickets = make([]domain.DepositTicket, len(updates))

	var repoArgs = make([]repoargs.DepositTicketResolution, len(updates))
	for i, update := range updates {
		repoArgs[i] = repoargs.DepositTicketResolution{
			TicketID: update.TicketID,
			Status:   update.Status,
			Amount:   update.Amount,
		}
	}
	// resolveErr будет хранить последнюю ошибку результата батч обновления.
	var resolveErr error
	repo.BatchResolve(ctx, repoArgs, func(i int, dbTicket *domain.DepositTicket, err error) {
		if err != nil {
			resolveErr = err
			return
		}
		tickets[i] = *dbTicket
	})
	return tickets, resolveErr
}
