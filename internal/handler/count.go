package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"QrestAPI/internal/config"
	"QrestAPI/internal/filter"
	"QrestAPI/internal/logger"
	"QrestAPI/internal/schema"
	"QrestAPI/internal/store"
)

// Count возвращает обработчик GET /api/count: количество строк сущности
// под тем же фильтром, что и /api/index. Сортировка и пагинация на
// результат не влияют и игнорируются.
func Count(cfg *config.Config) http.HandlerFunc {
	dialect := filter.ParseDialect(cfg.Dialect)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			logger.Warn("method_not_allowed", map[string]any{
				"endpoint": "/api/count",
				"method":   r.Method,
			})
			http.Error(w, "Only GET allowed", http.StatusMethodNotAllowed)
			return
		}

		qp := r.URL.Query()
		modelName := qp.Get("model")
		entity, ok := schema.Registry[modelName]
		if !ok {
			http.Error(w, fmt.Sprintf("Model %s not found", modelName), http.StatusNotFound)
			return
		}

		compiled := filter.Compile(entity, filter.Params{
			Filter: qp.Get("filter"),
		}, dialect)

		total, err := store.FetchCount(r.Context(), entity, compiled, dialect)
		if err != nil {
			logger.Error("count_failed", map[string]any{
				"endpoint": "/api/count",
				"model":    modelName,
				"error":    err.Error(),
			})
			http.Error(w, "Failed to count rows", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]uint64{"count": total}); err != nil {
			logger.Error("write_response_failed", map[string]any{
				"endpoint": "/api/count",
				"error":    err.Error(),
			})
		}
	}
}
