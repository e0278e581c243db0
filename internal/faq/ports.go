package faq

import (
	"context"
	"errors"
)

var (
	ErrEmptyQuestion     = errors.New("faq: empty question text")
	ErrDuplicateQuestion = errors.New("faq: duplicate question text")

	// ErrBackslash: MarkdownV2 требует экранировать "\", а форматтер его не трогает,
	// поэтому такой ответ Telegram не примет.
	ErrBackslash = errors.New("faq: backslash in answer text")
)

type Entry struct {
	ID       string  `json:"id"`
	Question string  `json:"question"`
	Answer   string  `json:"answer"`
	URL      *string `json:"url,omitempty"`
}

// Source — откуда берутся записи FAQ. Читается один раз при старте.
type Source interface {
	Load(ctx context.Context) ([]Entry, error)
}
