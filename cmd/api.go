package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/delivery"
	"github.com/Vovarama1992/kpd_assistant/internal/error_notificator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newAPICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Serve POST /process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := bootstrap(ctx, flags)
			if err != nil {
				return err
			}
			defer a.sync()

			if err := a.cfg.RequireAPI(); err != nil {
				return err
			}

			return runAPI(ctx, a)
		},
	}
}

func runAPI(ctx context.Context, a *app) error {
	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var sender error_notificator.Sender
	if a.cfg.BotToken != "" {
		bot, err := tgbotapi.NewBotAPI(a.cfg.BotToken)
		if err != nil {
			a.zl.Log(logger.LogEntry{
				Level:   "warn",
				Message: "admin notifications disabled: bot init failed",
				Service: "api",
				Error:   err,
			})
		} else {
			sender = bot
		}
	}
	errService := error_notificator.NewService(error_notificator.NewInfra(sender, a.cfg.AdminChatIDs, a.zl))

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-API-Key", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}))

	delivery.RegisterRoutes(r, delivery.NewProcessHandler(a.assistant, errService, a.zl), a.cfg.APIKey)

	// =========================================================================
	// START SERVER
	// =========================================================================

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "listening at " + srv.Addr,
			Service: "api",
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	a.zl.Log(logger.LogEntry{Level: "info", Message: "shutting down", Service: "api"})
	return srv.Shutdown(shutdownCtx)
}
