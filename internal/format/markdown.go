package format

import (
	"strings"

	"github.com/Vovarama1992/kpd_assistant/internal/answer"
)

// reserved — символы, которые MarkdownV2 требует экранировать.
// Обратного слэша здесь нет: ответы с ним отсекает faq.NewStore при загрузке.
const reserved = "_*[]()~`>#+-=|{}.!"

const (
	linkText = "инструкция"
	footer   = "\n───────────\n" +
		"Помог ли этот ответ? Если нет — пожалуйста, " +
		"напишите на mail@kpd.ru. " +
		"Ваши вопросы помогают нам становиться лучше!"
)

func EscapeMarkdownV2(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if strings.ContainsRune(reserved, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Markdown готовит ответ для Telegram (parse_mode=MarkdownV2).
// Ссылка вставляется как есть, без экранирования.
func Markdown(r answer.Resolved) string {
	var b strings.Builder

	b.WriteString(EscapeMarkdownV2(r.Body))
	if r.FollowUpURL != nil {
		b.WriteString("\n\n" + moreInfo + "[" + linkText + "](" + *r.FollowUpURL + ")")
	}
	if r.Matched {
		b.WriteString(EscapeMarkdownV2(footer))
	}

	return b.String()
}
