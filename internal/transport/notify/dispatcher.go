// Package notify доставляет игрокам события движка. Доставка fire-and-forget:
// игровой поток никогда не ждет ни очередь, ни внешние каналы.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

const defaultQueueSize = 256

// Sink единичный канал доставки уведомления.
type Sink interface {
	Deliver(ctx context.Context, n domain.Notification) error
}

// Dispatcher принимает уведомления в буферизированную очередь и раздает их синкам
// одним потребителем. Переполненная очередь отбрасывает событие с предупреждением:
// уведомления вторичны к игровому циклу.
type Dispatcher struct {
	l     *logrus.Entry
	queue chan domain.Notification
	sinks []Sink
}

func New(l *logrus.Logger, sinks ...Sink) *Dispatcher {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "notify",
		"module":    "dispatcher",
	})

	return &Dispatcher{
		l:     loggerEntry,
		queue: make(chan domain.Notification, defaultQueueSize),
		sinks: sinks,
	}
}

// SetQueueSize устанавливает емкость очереди. Вызывать до Run.
func (d *Dispatcher) SetQueueSize(size uint) *Dispatcher {
	d.queue = make(chan domain.Notification, size)
	return d
}

// Enqueue ставит уведомление в очередь не блокируясь.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	select {
	case d.queue <- n:
	default:
		d.l.WithFields(logrus.Fields{
			"userID": n.UserID,
			"kind":   n.Kind,
		}).Warn("queue is full, dropping notification")
	}
}

// Run разбирает очередь до отмены контекста. Ошибка синка логируется и не мешает
// ни остальным синкам, ни следующим уведомлениям.
func (d *Dispatcher) Run(ctx context.Context) {
	d.l.WithField("sinks", len(d.sinks)).Info("Starting")

	for {
		select {
		case <-ctx.Done():
			d.l.Info("Got stop signal, exiting...")
			return
		case n := <-d.queue:
			d.deliver(ctx, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	for _, sink := range d.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			d.l.WithError(err).WithFields(logrus.Fields{
				"userID": n.UserID,
				"kind":   n.Kind,
			}).Warn("notification delivery failed")
		}
	}
}
