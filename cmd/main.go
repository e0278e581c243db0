package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/ai"
	"github.com/Vovarama1992/kpd_assistant/internal/assistant"
	"github.com/Vovarama1992/kpd_assistant/internal/config"
	"github.com/Vovarama1992/kpd_assistant/internal/faq"
	"github.com/Vovarama1992/kpd_assistant/internal/logging"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configDir string
	envFile   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "kpd_assistant",
		Short:         "FAQ assistant: HTTP API and Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configDir, "config", "", "directory with project.json")
	root.PersistentFlags().StringVar(&flags.envFile, "env", ".env", "dotenv file")

	root.AddCommand(
		newAPICmd(flags),
		newBotCmd(flags),
	)
	return root
}

// app — то, что нужно обоим фронтам.
type app struct {
	cfg       *config.Config
	zl        *logger.ZapLogger
	assistant *assistant.Service
	sync      func()
}

func bootstrap(ctx context.Context, flags *rootFlags) (*app, error) {
	cfg, err := config.Load(ctx, config.Options{
		ConfigDir: flags.configDir,
		EnvFile:   flags.envFile,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger := logging.New(cfg)
	zl := logger.NewZapLogger(baseLogger.Sugar())

	src, err := faq.NewSource(cfg)
	if err != nil {
		return nil, err
	}
	store, err := faq.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load faq: %w", err)
	}

	matcher, err := ai.NewMatcher(cfg, zl)
	if err != nil {
		return nil, err
	}

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("faq loaded source=%s entries=%d llm=%s", cfg.FAQSource, store.Len(), cfg.LLMProvider),
		Service: "kpd_assistant",
	})

	return &app{
		cfg:       cfg,
		zl:        zl,
		assistant: assistant.NewService(store, matcher, zl),
		sync:      func() { _ = baseLogger.Sync() },
	}, nil
}
