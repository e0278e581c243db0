package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/Vovarama1992/kpd_assistant/internal/error_notificator"
	"github.com/Vovarama1992/kpd_assistant/internal/telegram"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

func newBotCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot (long polling)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, flags)
			if err != nil {
				return err
			}
			defer a.sync()

			if err := a.cfg.RequireBot(); err != nil {
				return err
			}

			bot, err := tgbotapi.NewBotAPI(a.cfg.BotToken)
			if err != nil {
				return fmt.Errorf("init telegram bot: %w", err)
			}

			errService := error_notificator.NewService(error_notificator.NewInfra(bot, a.cfg.AdminChatIDs, a.zl))

			telegram.NewBotApp(bot, a.assistant, errService, a.zl).Run(ctx)
			return nil
		},
	}
}
