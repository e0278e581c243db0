package format

import "github.com/Vovarama1992/kpd_assistant/internal/answer"

const moreInfo = "Более подробно: "

// Plain — ответ для HTTP API, без разметки.
func Plain(r answer.Resolved) string {
	if r.FollowUpURL == nil {
		return r.Body
	}
	return r.Body + "\n\n" + moreInfo + *r.FollowUpURL
}
