package error_notificator

import (
	"context"
	"errors"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Infra struct {
	bot    Sender
	admins []int64
	log    *logger.ZapLogger
}

// NewInfra: bot может быть nil (например, API запущен без токена бота) —
// тогда ошибки только пишутся в лог.
func NewInfra(bot Sender, admins []int64, log *logger.ZapLogger) *Infra {
	return &Infra{bot: bot, admins: admins, log: log}
}

func (i *Infra) Notify(ctx context.Context, source string, err error, details string) error {
	i.log.Log(logger.LogEntry{
		Level:   "error",
		Message: fmt.Sprintf("[error_notificator] %s: %s", source, details),
		Service: source,
		Error:   err,
	})

	if i.bot == nil || len(i.admins) == 0 {
		return nil
	}

	text := fmt.Sprintf(
		"❗ Ошибка в ассистенте (%s)\n\nОшибка: %v\n\nДетали: %s",
		source,
		err,
		details,
	)

	var errs []error
	for _, chatID := range i.admins {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.DisableWebPagePreview = true

		if _, sendErr := i.bot.Send(msg); sendErr != nil {
			i.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: fmt.Sprintf("[error_notificator] send fail to %d", chatID),
				Service: source,
				Error:   sendErr,
			})
			errs = append(errs, sendErr)
		}
	}

	return errors.Join(errs...)
}
