package router

import (
	"net/http"

	"QrestAPI/internal/auth"
	"QrestAPI/internal/config"
	"QrestAPI/internal/handler"
	"QrestAPI/internal/logger"
)

// InitRoutes инициализирует маршруты для API
func InitRoutes(cfg *config.Config) error {
	chain := func(h http.HandlerFunc) http.HandlerFunc { return h }

	if cfg.Auth.Enabled {
		validator, err := auth.NewJWTValidator(cfg.Auth.JWT)
		if err != nil {
			return err
		}
		chain = func(h http.HandlerFunc) http.HandlerFunc {
			return auth.RequireBearer(validator, h)
		}
	}

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return withCORS(cfg.CORS.AllowOrigin, cfg.CORS.AllowCredentials, withLogging(chain(h)))
	}

	http.HandleFunc("/api/index", wrap(handler.Index(cfg)))
	http.HandleFunc("/api/count", wrap(handler.Count(cfg)))
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		fields := map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": sw.status,
		}
		switch {
		case sw.status >= 500:
			logger.Error("response", fields)
		case sw.status >= 400:
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	}
}
