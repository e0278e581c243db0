package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/ai"
	"github.com/Vovarama1992/kpd_assistant/internal/answer"
	"github.com/Vovarama1992/kpd_assistant/internal/faq"
	"github.com/Vovarama1992/kpd_assistant/internal/prompts"
)

// Service — общий конвейер для API и бота:
// промпт → LLM → поиск ответа в FAQ.
type Service struct {
	store    *faq.Store
	matcher  ai.Matcher
	resolver *answer.Resolver
	log      *logger.ZapLogger
}

func NewService(store *faq.Store, matcher ai.Matcher, log *logger.ZapLogger) *Service {
	return &Service{
		store:    store,
		matcher:  matcher,
		resolver: answer.NewResolver(store, log),
		log:      log,
	}
}

// Answer возвращает ошибку только при непредвиденном сбое (паника внутри конвейера).
// Сбой LLM — это обычный fallback-ответ.
func (s *Service) Answer(ctx context.Context, question string) (res answer.Resolved, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("assistant: panic: %v", r)
		}
	}()

	if strings.TrimSpace(question) == "" {
		return answer.Fallback(), nil
	}

	start := time.Now()

	prompt := prompts.Build(question, s.store.Questions())
	m := s.matcher.Match(ctx, prompt)
	res = s.resolver.Resolve(m)

	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: fmt.Sprintf("[assistant] done in %.1fs matched=%v", time.Since(start).Seconds(), res.Matched),
		Service: "assistant",
	})

	return res, nil
}
