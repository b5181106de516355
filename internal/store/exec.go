package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"QrestAPI/internal/db"
	"QrestAPI/internal/filter"
	"QrestAPI/internal/logger"
	"QrestAPI/internal/schema"
)

// FetchIndex выполняет скомпилированный запрос и возвращает страницу
// строк в виде плоских map-ов колонка → значение.
func FetchIndex(ctx context.Context, e *schema.Entity, c filter.Compiled, d filter.Dialect) ([]map[string]any, error) {
	sb, err := BuildIndexQuery(e, c, d)
	if err != nil {
		return nil, err
	}
	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("render index SQL: %w", err)
	}
	logger.Debug("index_sql", map[string]any{"sql": sqlStr, "args": args})

	rows, err := db.Pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	items := make([]map[string]any, 0, c.Window.Limit)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		item := make(map[string]any, len(fields))
		for i, fd := range fields {
			item[fd.Name] = values[i]
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}

// FetchCount выполняет COUNT-запрос через кэш (память процесса + Redis).
func FetchCount(ctx context.Context, e *schema.Entity, c filter.Compiled, d filter.Dialect) (uint64, error) {
	sb, err := BuildCountQuery(e, c, d)
	if err != nil {
		return 0, err
	}
	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return 0, fmt.Errorf("render count SQL: %w", err)
	}

	key, err := countCacheKey(e.Name, sqlStr, args)
	if err != nil {
		return 0, err
	}
	return CachedCount(ctx, key, func(ctx context.Context) (uint64, error) {
		logger.Debug("count_sql", map[string]any{"sql": sqlStr, "args": args})
		var count int64
		if err := db.Pool.QueryRow(ctx, sqlStr, args...).Scan(&count); err != nil {
			return 0, fmt.Errorf("query count: %w", err)
		}
		if count < 0 {
			count = 0
		}
		return uint64(count), nil
	})
}

// countCacheKey — стабильный ключ из отрендеренного запроса и аргументов.
func countCacheKey(entity, sqlStr string, args []any) (string, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal count args: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(entity))
	h.Write([]byte{0})
	h.Write([]byte(sqlStr))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}
