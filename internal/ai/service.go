package ai

import (
	"fmt"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/config"
)

// NewMatcher выбирает клиента по LLM_PROVIDER.
func NewMatcher(cfg *config.Config, log *logger.ZapLogger) (Matcher, error) {
	switch cfg.LLMProvider {
	case "", config.ProviderYandex:
		return NewYandexClient(cfg, log), nil
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg, log), nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
}
