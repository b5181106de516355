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

// Index возвращает обработчик GET /api/index: страница строк сущности
// по параметрам filter/sort/range из query string.
//
// Параметры:
//
//	model   — имя сущности из реестра (обязательный)
//	filter  — объектный литерал, ключи field / field_suffix / relation.field,
//	          служебный ключ "q" — фраза полнотекстового поиска
//	sort    — ["field","ASC"], либо пара _sort/_order
//	range   — [start,end], либо пара page/per_page
//
// Невалидные части параметров молча отбрасываются (fail-open), сам запрос
// не ошибается из-за кривого фильтра. Итоговый срез описывается заголовком
// Content-Range: "{resource} {start}-{end}/{total}".
func Index(cfg *config.Config) http.HandlerFunc {
	dialect := filter.ParseDialect(cfg.Dialect)
	defaultLimit := uint64(0)
	if cfg.Pagination.DefaultPerPage > 0 {
		defaultLimit = uint64(cfg.Pagination.DefaultPerPage)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			logger.Warn("method_not_allowed", map[string]any{
				"endpoint": "/api/index",
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
			Filter:       qp.Get("filter"),
			Sort:         qp.Get("sort"),
			SortField:    qp.Get("_sort"),
			SortOrder:    qp.Get("_order"),
			Range:        qp.Get("range"),
			Page:         qp.Get("page"),
			PerPage:      qp.Get("per_page"),
			DefaultLimit: defaultLimit,
		}, dialect)

		total, err := store.FetchCount(r.Context(), entity, compiled, dialect)
		if err != nil {
			logger.Error("count_failed", map[string]any{
				"endpoint": "/api/index",
				"model":    modelName,
				"error":    err.Error(),
			})
			http.Error(w, "Failed to count rows", http.StatusInternalServerError)
			return
		}

		items, err := store.FetchIndex(r.Context(), entity, compiled, dialect)
		if err != nil {
			logger.Error("index_failed", map[string]any{
				"endpoint": "/api/index",
				"model":    modelName,
				"error":    err.Error(),
			})
			http.Error(w, "Failed to fetch rows", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Total-Count", fmt.Sprintf("%d", total))
		w.Header().Set("Content-Range", filter.ContentRange(entity.Table, compiled.Window, len(items), total))
		if err := json.NewEncoder(w).Encode(items); err != nil {
			logger.Error("write_response_failed", map[string]any{
				"endpoint": "/api/index",
				"error":    err.Error(),
			})
		}
	}
}
