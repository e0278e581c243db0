package delivery

import (
	"net/http"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, h *ProcessHandler, apiKey string) {
	r.Use(RequestIDMiddleware)

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	// --- protected ---
	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			APIKeyMiddleware(apiKey),
		)

		pr.Post("/process", h.Process)
	})
}
