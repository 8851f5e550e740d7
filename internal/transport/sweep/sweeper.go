// Package sweep владеет всеми дедлайнами движка. Один координатор периодически
// обрабатывает просроченные подтверждения, незапущенные серии и молчаливые раунды,
// поэтому таймеры на каждую сущность не нужны.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"
)

const (
	defaultPhaseTimeout       = 3 * time.Second
	defaultBatchLimit   int32 = 100
)

// Sweeper прогоняет обработчики дедлайнов по расписанию. Все обработчики идемпотентны,
// повторный тик по уже обработанной сущности ничего не меняет.
type Sweeper struct {
	orders     OrderSweeper
	matches    MatchSweeper
	l          *logrus.Entry
	interval   time.Duration
	batchLimit int32
}

func New(orders OrderSweeper, matches MatchSweeper, interval time.Duration, l *logrus.Logger) *Sweeper {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "sweep",
		"module":    "sweeper",
	})

	return &Sweeper{
		orders:     orders,
		matches:    matches,
		l:          loggerEntry,
		interval:   interval,
		batchLimit: defaultBatchLimit,
	}
}

// SetBatchLimit устанавливает кол-во сущностей, обрабатываемых одной фазой тика.
func (s *Sweeper) SetBatchLimit(limit int32) *Sweeper {
	s.batchLimit = limit
	return s
}

// Run запускает планировщик и блокируется до отмены контекста. Интервал тиков размазан
// вокруг номинала, чтобы несколько экземпляров сервиса не просыпались синхронно; singleton
// режим не дает тикам одного экземпляра накладываться друг на друга.
func (s *Sweeper) Run(ctx context.Context) error {
	scheduler, schedErr := gocron.NewScheduler()
	if schedErr != nil {
		return fmt.Errorf("sweep run: %s", schedErr.Error())
	}

	quarter := s.interval / 4 //nolint:mnd
	_, jobErr := scheduler.NewJob(
		gocron.DurationRandomJob(s.interval-quarter, s.interval+quarter),
		gocron.NewTask(func() { s.tick(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if jobErr != nil {
		return fmt.Errorf("sweep run: %s", jobErr.Error())
	}

	scheduler.Start()
	s.l.WithFields(logrus.Fields{
		"interval":   s.interval.String(),
		"batchLimit": s.batchLimit,
	}).Info("Starting")

	<-ctx.Done()
	s.l.Info("Got stop signal, exiting...")
	if shutdownErr := scheduler.Shutdown(); shutdownErr != nil {
		return fmt.Errorf("sweep shutdown: %s", shutdownErr.Error())
	}
	return nil
}

// tick прогоняет фазы в фиксированном порядке: сначала просроченные подтверждения
// возвращают или закрывают заявки, затем дозапускаются застрявшие серии, и только
// потом разбираются молчаливые раунды.
func (s *Sweeper) tick(ctx context.Context) {
	s.phase(ctx, "confirmations", s.orders.SweepConfirmations)
	s.phase(ctx, "unstarted matches", s.matches.RepairUnstarted)
	s.phase(ctx, "rounds", s.matches.SweepRounds)
}

func (s *Sweeper) phase(
	ctx context.Context,
	name string,
	fn func(context.Context, int32) (int, error),
) {
	reqCtx, cancel := context.WithTimeout(ctx, defaultPhaseTimeout)
	defer cancel()

	processed, err := fn(reqCtx, s.batchLimit)
	if err != nil {
		s.l.WithError(err).Errorf("sweeping %s", name)
		return
	}
	if processed > 0 {
		s.l.WithField("processed", processed).Infof("Swept %s", name)
	}
}
