// auth.go — аутентификация по статическому bearer-токену.
// Единый общий секрет (API_KEY), сравнение за константное время.
// Публичные endpoints (/, /health, /file, /serve, /metrics) — без аутентификации.
package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/pixelfy/storage-service/internal/api/errors"
)

// APIKeyAuth — middleware проверки статического bearer-токена.
type APIKeyAuth struct {
	apiKey []byte
	logger *slog.Logger
}

// NewAPIKeyAuth создаёт middleware аутентификации по общему секрету.
func NewAPIKeyAuth(apiKey string, logger *slog.Logger) *APIKeyAuth {
	return &APIKeyAuth{
		apiKey: []byte(apiKey),
		logger: logger.With(slog.String("component", "api_key_auth")),
	}
}

// Middleware возвращает HTTP middleware, извлекающий Bearer token из
// заголовка Authorization и сравнивающий его с секретом за константное
// время. Отсутствующий или неверный токен → 401.
func (a *APIKeyAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apierrors.Unauthorized(w, "Отсутствует заголовок Authorization")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				apierrors.Unauthorized(w, "Неверный формат Authorization: ожидается Bearer <token>")
				return
			}

			token := parts[1]
			if token == "" {
				apierrors.Unauthorized(w, "Пустой Bearer token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), a.apiKey) != 1 {
				a.logger.Debug("Неверный API-ключ",
					slog.String("remote_addr", r.RemoteAddr),
					slog.String("path", r.URL.Path),
				)
				apierrors.Unauthorized(w, "Невалидный API-ключ")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
