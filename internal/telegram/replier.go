package telegram

import (
	"context"

	"github.com/Vovarama1992/kpd_assistant/internal/error_notificator"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Replier interface {
	Reply(ctx context.Context, chatID int64, replyTo int, text string, markdown bool) error
}

type botReplier struct {
	bot error_notificator.Sender
}

func NewReplier(bot error_notificator.Sender) Replier {
	return &botReplier{bot: bot}
}

func (r *botReplier) Reply(_ context.Context, chatID int64, replyTo int, text string, markdown bool) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	msg.DisableWebPagePreview = true
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdownV2
	}

	_, err := r.bot.Send(msg)
	return err
}
