package store

import (
	"fmt"

	"github.com/Masterminds/squirrel"

	"QrestAPI/internal/filter"
	"QrestAPI/internal/schema"
)

// BuildIndexQuery собирает SELECT для /index эндпоинта из результата
// компиляции: колонки main, LEFT JOIN-ы только для связей, на которые
// реально ссылаются условие/сортировка/поиск, ORDER BY и окно выборки.
func BuildIndexQuery(e *schema.Entity, c filter.Compiled, d filter.Dialect) (squirrel.SelectBuilder, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(d.PlaceholderFormat())

	// 1. FROM
	sb = sb.From(fmt.Sprintf("%s AS main", e.Table))

	// 2. JOIN-ы по затронутым связям
	hasDistinct, err := applyJoins(&sb, e, c.Relations)
	if err != nil {
		return sb, err
	}

	// 3. Колонки: отдаём плоскую строку main; связи в ответ не попадают
	if hasDistinct {
		sb = sb.Distinct()
	}
	sb = sb.Columns("main.*")
	if hasDistinct && c.Sort.Relation != "" {
		// SELECT DISTINCT требует сортировочную колонку в списке выборки
		sb = sb.Column(c.Sort.Expr)
	}

	// 4. WHERE
	if c.Condition != nil {
		sb = sb.Where(c.Condition)
	}

	// 5. ORDER BY + окно
	sb = sb.OrderBy(c.Sort.OrderBy())
	sb = sb.Limit(c.Window.Limit)
	if c.Window.Offset > 0 {
		sb = sb.Offset(c.Window.Offset)
	}

	return sb, nil
}

// BuildCountQuery собирает COUNT-запрос с теми же JOIN-ами и WHERE.
func BuildCountQuery(e *schema.Entity, c filter.Compiled, d filter.Dialect) (squirrel.SelectBuilder, error) {
	sb := squirrel.SelectBuilder{}.PlaceholderFormat(d.PlaceholderFormat())
	sb = sb.From(fmt.Sprintf("%s AS main", e.Table))

	hasDistinct, err := applyJoins(&sb, e, c.Relations)
	if err != nil {
		return sb, err
	}
	if hasDistinct {
		// to-many join размножает строки; считаем уникальные ключи main
		sb = sb.Columns(fmt.Sprintf("COUNT(DISTINCT main.%s)", e.GetPrimaryKey()))
	} else {
		sb = sb.Columns("COUNT(*)")
	}

	if c.Condition != nil {
		sb = sb.Where(c.Condition)
	}
	return sb, nil
}

// applyJoins добавляет LEFT JOIN для каждой затронутой связи.
// Alias join-а — имя связи; обе стороны ON берутся из whitelist-а.
func applyJoins(sb *squirrel.SelectBuilder, e *schema.Entity, relations []string) (hasDistinct bool, err error) {
	for _, name := range relations {
		rel := e.GetRelation(name)
		if rel == nil {
			// компилятор ссылается только на whitelist-связи; сюда
			// попадаем лишь при рассинхроне конфигурации
			return false, fmt.Errorf("unknown relation %q for entity %s", name, e.Name)
		}
		var on string
		if rel.Type == "belongs_to" {
			on = fmt.Sprintf("%s.%s = main.%s", name, rel.JoinPK(), rel.FK)
		} else {
			on = fmt.Sprintf("%s.%s = main.%s", name, rel.FK, e.GetPrimaryKey())
		}
		*sb = sb.LeftJoin(fmt.Sprintf("%s AS %s ON %s", rel.Table, name, on))
		if rel.ToMany() {
			hasDistinct = true
		}
	}
	return hasDistinct, nil
}
