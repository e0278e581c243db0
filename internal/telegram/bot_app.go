package telegram

import (
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/error_notificator"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type BotApp struct {
	bot        *tgbotapi.BotAPI
	replier    Replier
	dispatcher *Dispatcher
	log        *logger.ZapLogger
}

func NewBotApp(
	bot *tgbotapi.BotAPI,
	answerer Answerer,
	notifier error_notificator.Notificator,
	log *logger.ZapLogger,
) *BotApp {
	replier := NewReplier(bot)
	return &BotApp{
		bot:        bot,
		replier:    replier,
		dispatcher: NewDispatcher(answerer, replier, notifier, log),
		log:        log,
	}
}

func (app *BotApp) Dispatcher() *Dispatcher {
	return app.dispatcher
}
