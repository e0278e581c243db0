package error_notificator

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notificator interface {
	// Notify — отправляет сообщение об ошибке админам
	Notify(ctx context.Context, source string, err error, details string) error
}

// Sender — часть *tgbotapi.BotAPI, нужная для отправки.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}
