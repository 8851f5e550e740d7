package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-duel/internal/domain"
)

// LogSink пишет уведомления в лог. Всегда включен: даже без внешних каналов
// события движка остаются видимыми оператору.
type LogSink struct {
	l *logrus.Entry
}

func NewLogSink(l *logrus.Logger) *LogSink {
	return &LogSink{
		l: l.WithFields(logrus.Fields{
			"component": "notify",
			"module":    "log_sink",
		}),
	}
}

func (s *LogSink) Deliver(_ context.Context, n domain.Notification) error {
	s.l.WithFields(logrus.Fields{
		"userID": n.UserID,
		"kind":   n.Kind,
	}).Info(n.Message)
	return nil
}

// ChatResolver отдает юзера с привязанным telegram чатом.
type ChatResolver interface {
	GetByID(ctx context.Context, userID int64) (*domain.User, error)
}

// TelegramSink шлет уведомления в telegram чат юзера. Юзеры без привязанного чата
// молча пропускаются.
type TelegramSink struct {
	bot   *tgbotapi.BotAPI
	users ChatResolver
}

func NewTelegramSink(token string, users ChatResolver) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %s", err.Error())
	}
	return &TelegramSink{bot: bot, users: users}, nil
}

func (s *TelegramSink) Deliver(ctx context.Context, n domain.Notification) error {
	user, userErr := s.users.GetByID(ctx, n.UserID)
	if userErr != nil {
		return fmt.Errorf("resolving chat for user %d: %w", n.UserID, userErr)
	}
	if user.TelegramChatID == nil {
		return nil
	}

	msg := tgbotapi.NewMessage(*user.TelegramChatID, n.Message)
	if _, sendErr := s.bot.Send(msg); sendErr != nil {
		return fmt.Errorf("sending telegram message to user %d: %s", n.UserID, sendErr.Error())
	}
	return nil
}
