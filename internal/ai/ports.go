package ai

import (
	"context"
	"strings"

	"github.com/Vovarama1992/kpd_assistant/internal/prompts"
)

// Match — результат выбора вопроса моделью: либо вопрос из списка, либо "нет ответа".
type Match struct {
	Question string
	Found    bool
}

func Matched(question string) Match {
	return Match{Question: question, Found: true}
}

func NoMatch() Match {
	return Match{}
}

// Matcher не возвращает ошибок: любой сбой внешнего сервиса превращается в NoMatch.
type Matcher interface {
	Match(ctx context.Context, prompt string) Match
}

// parseReply обрезает только пробелы. Вариации вроде "Нет ответа." уходят
// дальше как вопрос, не найдутся в FAQ и получат тот же fallback.
func parseReply(text string) Match {
	t := strings.TrimSpace(text)
	if t == "" || t == prompts.NoAnswerToken {
		return NoMatch()
	}
	return Matched(t)
}
