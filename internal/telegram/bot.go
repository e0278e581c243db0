package telegram

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run — главный цикл получения апдейтов. Возвращается после отмены ctx,
// дождавшись ответов, которые уже в работе.
func (app *BotApp) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := app.bot.GetUpdatesChan(u)
	app.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "[bot_loop] started username=@" + app.bot.Self.UserName,
		Service: "bot",
	})

	for {
		select {
		case <-ctx.Done():
			app.bot.StopReceivingUpdates()
			app.dispatcher.Wait()
			app.log.Log(logger.LogEntry{Level: "info", Message: "[bot_loop] stopped", Service: "bot"})
			return

		case update, ok := <-updates:
			if !ok {
				app.dispatcher.Wait()
				return
			}
			if update.Message == nil {
				continue
			}
			app.handleMessage(ctx, update.Message)
		}
	}
}

func (app *BotApp) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil || msg.From == nil || !msg.Chat.IsPrivate() {
		return
	}

	app.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[bot_touch] fromTG=%d messageID=%d", msg.From.ID, msg.MessageID),
		Service: "bot",
	})

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			app.send(ctx, msg, MsgInformation)
			return
		}
	}

	if msg.Text == "" {
		app.send(ctx, msg, MsgNonText)
		return
	}

	app.handleText(ctx, msg)
}

func (app *BotApp) send(ctx context.Context, msg *tgbotapi.Message, text string) {
	if err := app.replier.Reply(ctx, msg.Chat.ID, msg.MessageID, text, false); err != nil {
		app.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: fmt.Sprintf("[bot] send fail chatID=%d", msg.Chat.ID),
			Service: "bot",
			Error:   err,
		})
	}
}
