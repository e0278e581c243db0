package faq

import (
	"context"
	"fmt"
	"strings"
)

// Store неизменяем после создания, конкурентное чтение безопасно.
type Store struct {
	entries    []Entry
	questions  []string
	byQuestion map[string]int
}

func NewStore(entries []Entry) (*Store, error) {
	s := &Store{
		entries:    make([]Entry, 0, len(entries)),
		questions:  make([]string, 0, len(entries)),
		byQuestion: make(map[string]int, len(entries)),
	}

	for _, e := range entries {
		if strings.TrimSpace(e.Question) == "" {
			return nil, fmt.Errorf("entry %q: %w", e.ID, ErrEmptyQuestion)
		}
		if _, dup := s.byQuestion[e.Question]; dup {
			return nil, fmt.Errorf("entry %q: %w: %q", e.ID, ErrDuplicateQuestion, e.Question)
		}
		if strings.Contains(e.Answer, `\`) {
			return nil, fmt.Errorf("entry %q: %w", e.ID, ErrBackslash)
		}
		if e.URL != nil && strings.TrimSpace(*e.URL) == "" {
			e.URL = nil
		}

		s.byQuestion[e.Question] = len(s.entries)
		s.entries = append(s.entries, e)
		s.questions = append(s.questions, e.Question)
	}

	return s, nil
}

func Load(ctx context.Context, src Source) (*Store, error) {
	entries, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load faq: %w", err)
	}
	return NewStore(entries)
}

// Lookup ищет запись по точному тексту вопроса.
func (s *Store) Lookup(question string) (Entry, bool) {
	i, ok := s.byQuestion[question]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Questions возвращает вопросы в порядке загрузки. Порядок попадает в промпт,
// поэтому он не меняется за время жизни процесса.
func (s *Store) Questions() []string {
	out := make([]string, len(s.questions))
	copy(out, s.questions)
	return out
}

func (s *Store) Len() int {
	return len(s.entries)
}
