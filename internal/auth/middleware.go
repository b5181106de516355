package auth

import (
	"net/http"
	"strings"

	"QrestAPI/internal/logger"
)

// RequireBearer оборачивает обработчик проверкой Authorization: Bearer.
// Валидные клеймы кладутся в контекст запроса (ClaimsFromContext).
func RequireBearer(v *JWTValidator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			http.Error(w, "Missing bearer token", http.StatusUnauthorized)
			return
		}

		claims, err := v.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.Warn("jwt_rejected", map[string]any{
				"path":  r.URL.Path,
				"error": err.Error(),
			})
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims)))
	}
}
