// Package exchange сверяет депозитные тикеты с внешней биржей фишек и зачисляет
// подтвержденные пополнения.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fsdevblog/groph-duel/internal/service"
	"github.com/fsdevblog/groph-duel/internal/transport/exchange/client"
	"github.com/shopspring/decimal"

	"github.com/sirupsen/logrus"

	"time"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

const (
	defaultServiceTimeout         = 3 * time.Second
	defaultAPITimeout             = 10 * time.Second
	defaultLimitPerIteration uint = 100
	defaultExchangeWorkers   uint = 10
)

// Processor опрашивает биржу по незакрытым тикетам и передает вердикты в сервисный слой.
type Processor struct {
	client            Client
	svs               Servicer
	l                 *logrus.Entry
	limitPerIteration uint
	exchangeWorkers   uint
}

// New создает новый экземпляр процессора сверки депозитов.
func New(svs Servicer, apiBaseURL string, l *logrus.Logger) *Processor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "exchange",
		"module":    "processor",
	})

	return &Processor{
		svs:               svs,
		client:            client.New(apiBaseURL),
		l:                 loggerEntry,
		limitPerIteration: defaultLimitPerIteration,
		exchangeWorkers:   defaultExchangeWorkers,
	}
}

// SetLimitPerIteration устанавливает кол-во тикетов, обрабатываемых в одной итерации обработчика.
func (p *Processor) SetLimitPerIteration(limit uint) *Processor {
	p.limitPerIteration = limit
	return p
}

// SetExchangeWorkers устанавливает кол-во воркеров опрашивающих биржу.
func (p *Processor) SetExchangeWorkers(workers uint) *Processor {
	p.exchangeWorkers = workers
	return p
}

// SetClient подменяет HTTP клиент биржи. Нужен тестам.
func (p *Processor) SetClient(c Client) *Processor {
	p.client = c
	return p
}

// Run запускает сверку тикетов в бесконечном цикле до отмены контекста.
//
// Алгоритм работы:
//  1. В каждой итерации цикла, запрашивает через сервисный слой пачку тикетов для сверки.
//     Объем пачки лимитируется через SetLimitPerIteration.
//  2. Для каждой итерации создаются N воркеров (кол-во настраивается через SetExchangeWorkers)
//     которые, в свою очередь, делают запросы на API биржи.
//  3. Вердикты биржи отправляются через сервисный слой: подтвержденные тикеты зачисляются,
//     отклоненные закрываются, ошибки опроса увеличивают счетчик попыток.
func (p *Processor) Run(ctx context.Context) {
	p.l.WithFields(logrus.Fields{
		"limitPerIteration": p.limitPerIteration,
		"exchangeWorkers":   p.exchangeWorkers,
	}).Info("Starting")

	for {
		select {
		case <-ctx.Done():
			p.l.Info("Got stop signal, exiting...")
			return
		default:
			if err := p.process(ctx); err != nil {
				if !errors.Is(err, ErrNoTickets) {
					p.l.WithError(err).Error("process error")
				}
				time.Sleep(time.Second) // небольшая пауза чтоб не заддосить БД.
			}
		}
	}
}

// process выполняет цикл сверки: получение пачки тикетов, опрос биржи и применение вердиктов.
// Возвращает ошибку в случае проблем или ErrNoTickets если сверять нечего.
func (p *Processor) process(ctx context.Context) error {
	tickets, ticketsErr := p.produce(ctx)

	if ticketsErr != nil {
		return fmt.Errorf("process: %w", ticketsErr)
	}

	results := p.runWorkers(ctx, tickets)
	if len(results) == 0 {
		return nil
	}

	var resolveArgs = make([]service.ResolveTicketArgs, 0, len(results))
	for _, result := range results {
		if result.Error != nil {
			resolveArgs = append(resolveArgs, service.ResolveTicketArgs{
				Error:    result.Error,
				TicketID: result.Ticket.ID,
			})
			continue
		}
		// PENDING не вердикт: тикет остается в PROCESSING и попадет в следующую пачку.
		if result.Status == client.StatusPending {
			continue
		}
		resolveArgs = append(resolveArgs, service.ResolveTicketArgs{
			TicketID: result.Ticket.ID,
			Status:   depositStatusOf(result.Status),
			Amount:   result.Amount,
		})
	}
	if len(resolveArgs) == 0 {
		return nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	if resolveErr := p.svs.ResolveTickets(reqCtx, resolveArgs); resolveErr != nil {
		return fmt.Errorf("process: %s", resolveErr.Error())
	}

	return nil
}

// depositStatusOf переводит вердикт биржи в статус тикета. Неизвестный бирже код закрывает
// тикет так же, как явно отклоненный.
func depositStatusOf(status client.StatusType) domain.DepositStatusType {
	if status == client.StatusConfirmed {
		return domain.DepositStatusCredited
	}
	return domain.DepositStatusInvalid
}

// workerResult представляет результат опроса биржи по одному тикету.
type workerResult struct {
	WorkerID uint
	Ticket   *domain.DepositTicket
	Error    error
	Status   client.StatusType
	Amount   decimal.Decimal
}

// runWorkers запускает параллельных воркеров для опроса биржи и ожидает конца их работы.
// Реализует паттерн fan-out/fan-in для параллельной обработки запросов.
func (p *Processor) runWorkers(ctx context.Context, tickets []domain.DepositTicket) []workerResult {
	var taskCh = make(chan *domain.DepositTicket, len(tickets))

	for _, ticket := range tickets {
		taskCh <- &ticket
	}
	close(taskCh)

	wg := new(sync.WaitGroup)
	wg.Add(int(p.exchangeWorkers)) // nolint:gosec

	var resultCh = make(chan *workerResult, len(tickets))

	for i := range p.exchangeWorkers {
		go p.worker(ctx, wg, i+1, taskCh, resultCh)
	}
	wg.Wait()

	close(resultCh)

	var results = make([]workerResult, 0, len(tickets))
	for result := range resultCh {
		l := p.l.WithFields(logrus.Fields{
			"worker":   result.WorkerID,
			"ticketID": result.Ticket.ID,
			"attempt":  result.Ticket.Attempts + 1,
		})
		if result.Error != nil {
			l.WithError(result.Error).Error("get ticket status")
			results = append(results, workerResult{
				Ticket: result.Ticket,
				Error:  result.Error,
			})
		} else {
			l.WithFields(logrus.Fields{"status": result.Status, "amount": result.Amount}).Info("Success")
			results = append(results, workerResult{
				Ticket: result.Ticket,
				Status: result.Status,
				Amount: result.Amount,
				Error:  nil,
			})
		}
	}
	return results
}

// worker обрабатывает тикеты из канала, опрашивает биржу и отправляет результаты.
func (p *Processor) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	workerID uint,
	taskCh <-chan *domain.DepositTicket,
	resultCh chan<- *workerResult,
) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-taskCh:
			if !ok {
				return
			}
			resultCh <- p.processWorkerTask(ctx, workerID, task)
		}
	}
}

// processWorkerTask делает запрос на API биржи, в случае получения ошибки 429, ждет N секунд
// указанные в заголовке ответа.
func (p *Processor) processWorkerTask(
	ctx context.Context,
	workerID uint,
	task *domain.DepositTicket,
) *workerResult {
	for {
		reqCtx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
		resp, err := p.client.TicketStatus(reqCtx, task.Code)
		cancel()

		// Проверяем ошибку на TooManyRequestError для повторной попытки
		if err != nil {
			result := workerResult{
				WorkerID: workerID,
				Ticket:   task,
			}
			var tooManyReq *client.TooManyRequestError
			if errors.As(err, &tooManyReq) {
				// Проверяем отмену контекста перед спячкой
				select {
				case <-ctx.Done():
					result.Error = ctx.Err()
					return &result
				case <-time.After(tooManyReq.RetryAfter):
					// После паузы делаем повторную попытку
					continue
				}
			} else {
				result.Error = err
				return &result
			}
		}

		return &workerResult{
			WorkerID: workerID,
			Ticket:   task,
			Status:   resp.Status,
			Amount:   resp.Amount,
		}
	}
}

// produce получает пачку тикетов для сверки с биржей.
// Возвращает ErrNoTickets, если тикеты отсутствуют.
func (p *Processor) produce(ctx context.Context) ([]domain.DepositTicket, error) {
	produceCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	tickets, ticketsErr := p.svs.TicketsForMonitoring(produceCtx, p.limitPerIteration)
	if ticketsErr != nil {
		return nil, fmt.Errorf("produce: %w", ticketsErr)
	}

	if len(tickets) == 0 {
		return nil, ErrNoTickets
	}
	return tickets, nil
}
