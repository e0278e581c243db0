package delivery

import (
	"crypto/subtle"
	"net/http"
)

const apiKeyHeader = "X-API-Key"

// APIKeyMiddleware пропускает запрос только с заголовком X-API-Key, равным key.
func APIKeyMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(apiKeyHeader)
			if key == "" || got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				writeError(w, http.StatusUnauthorized, "Invalid or missing API Key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
