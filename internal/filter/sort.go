package filter

import (
	"encoding/json"
	"strings"

	"QrestAPI/internal/logger"
	"QrestAPI/internal/schema"
)

// Direction направления сортировки.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// SortKey — единственный активный ключ сортировки запроса.
// Expr составлен только из alias-а и имени колонки из whitelist-а.
type SortKey struct {
	Expr      string // "main.id", "vehicles.make"
	Direction Direction
	Relation  string // "" для прямых полей
}

// OrderBy возвращает выражение для ORDER BY.
func (k SortKey) OrderBy() string {
	return k.Expr + " " + k.Direction.String()
}

// ResolveSort разрешает сортировку из одной из двух принимаемых форм:
// JSON-массива ["field","DESC"] либо пары отдельных параметров
// field/order. Любой сбой разрешения — неизвестное поле, кривая форма,
// больше одной точки в пути — это откат на сортировку по умолчанию
// (первичный ключ по возрастанию), не ошибка.
func ResolveSort(entity *schema.Entity, raw, fieldParam, orderParam string) SortKey {
	fallback := SortKey{Expr: "main." + entity.GetPrimaryKey(), Direction: Asc}

	field, order := fieldParam, orderParam
	if raw = strings.TrimSpace(raw); raw != "" {
		var pair []string
		if err := json.Unmarshal([]byte(raw), &pair); err != nil || len(pair) == 0 || len(pair) > 2 {
			logger.Debug("sort_unparsable", map[string]any{"entity": entity.Name, "sort": raw})
			return fallback
		}
		field = pair[0]
		order = ""
		if len(pair) == 2 {
			order = pair[1]
		}
	}

	if field == "" {
		return fallback
	}
	fd, relation, ok := entity.ResolveSort(field)
	if !ok {
		logger.Debug("sort_field_dropped", map[string]any{"entity": entity.Name, "field": field})
		return fallback
	}
	alias := "main"
	if relation != "" {
		alias = relation
	}
	return SortKey{
		Expr:      alias + "." + fd.Name,
		Direction: parseDirection(order),
		Relation:  relation,
	}
}

// parseDirection: регистронезависимо; всё нераспознанное — ASC.
func parseDirection(s string) Direction {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return Desc
	}
	return Asc
}
