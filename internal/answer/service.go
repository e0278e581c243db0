package answer

import (
	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/kpd_assistant/internal/ai"
	"github.com/Vovarama1992/kpd_assistant/internal/faq"
)

const FallbackText = "Благодарим за ваш вопрос! " +
	"К сожалению, я не нашел подходящего ответа на ваш вопрос. " +
	"Пожалуйста, напишите подробнее о вашей проблеме на почту " +
	"mail@kpd.ru, и наши специалисты обязательно вам помогут."

// Resolved — ответ, не привязанный к каналу доставки.
type Resolved struct {
	Body        string
	FollowUpURL *string
	Matched     bool
}

func Fallback() Resolved {
	return Resolved{Body: FallbackText}
}

type Lookuper interface {
	Lookup(question string) (faq.Entry, bool)
}

type Resolver struct {
	store Lookuper
	log   *logger.ZapLogger
}

func NewResolver(store Lookuper, log *logger.ZapLogger) *Resolver {
	return &Resolver{store: store, log: log}
}

func (r *Resolver) Resolve(m ai.Match) Resolved {
	if !m.Found {
		return Fallback()
	}

	entry, ok := r.store.Lookup(m.Question)
	if !ok {
		// модель вернула вопрос, которого нет в списке
		r.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "[resolver] llm returned unknown question: " + m.Question,
			Service: "answer",
		})
		return Fallback()
	}

	return Resolved{
		Body:        entry.Answer,
		FollowUpURL: entry.URL,
		Matched:     true,
	}
}
