package prompts

import "strings"

// NoAnswerToken — ответ модели, когда подходящего вопроса нет.
const NoAnswerToken = "нет ответа"

const header = `Ты — ассистент службы поддержки. Тебе дан вопрос пользователя и список вопросов из базы знаний.
Найди в списке вопрос, который по смыслу лучше всего совпадает с вопросом пользователя.
В ответе напиши только этот вопрос дословно, так же как он записан в списке, без кавычек, нумерации и пояснений.
Если ни один вопрос из списка не подходит, ответь ровно: ` + NoAnswerToken

// Build собирает промпт для выбора вопроса из базы знаний.
func Build(userQuestion string, known []string) string {
	var b strings.Builder

	b.WriteString(header)
	b.WriteString("\n\nВопрос пользователя:\n")
	b.WriteString(userQuestion)
	b.WriteString("\n\nВопросы из базы знаний:\n")
	for _, q := range known {
		b.WriteString("- ")
		b.WriteString(q)
		b.WriteString("\n")
	}

	return b.String()
}
