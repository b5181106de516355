package filter

import (
	"strings"

	"github.com/Masterminds/squirrel"

	"QrestAPI/internal/schema"
)

// trigramThreshold — порог similarity() для pg_trgm; 0.3 — дефолт расширения.
const trigramThreshold = "0.3"

// EscapeLike экранирует спецсимволы LIKE-шаблона. Порядок замен важен:
// сначала сам escape-символ, потом wildcards.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// BuildCondition собирает AND-дерево условий из привязанных клауз плюс,
// отдельно, полнотекстовое условие из фразы поиска. Пустой результат
// (nil) значит "без ограничений" — валидный и частый случай.
//
// Все значения уходят параметрами; в текст SQL попадают только колонки
// из whitelist-а.
func BuildCondition(entity *schema.Entity, bound []BoundClause, search string, d Dialect) squirrel.Sqlizer {
	var and squirrel.And

	for _, bc := range bound {
		if expr := clauseExpr(bc, d); expr != nil {
			and = append(and, expr)
		}
	}

	if search != "" {
		if expr := searchExpr(entity, search, d); expr != nil {
			and = append(and, expr)
		}
	}

	if len(and) == 0 {
		return nil
	}
	return and
}

func clauseExpr(bc BoundClause, d Dialect) squirrel.Sqlizer {
	switch bc.Op {
	case OpEq:
		return squirrel.Eq{bc.Column: bc.Value}
	case OpNeq:
		return squirrel.NotEq{bc.Column: bc.Value}
	case OpGt:
		return squirrel.Gt{bc.Column: bc.Value}
	case OpGte:
		return squirrel.GtOrEq{bc.Column: bc.Value}
	case OpLt:
		return squirrel.Lt{bc.Column: bc.Value}
	case OpLte:
		return squirrel.LtOrEq{bc.Column: bc.Value}
	case OpIn:
		return squirrel.Eq{bc.Column: bc.Values} // slice ⇒ IN (...)
	case OpIsNull:
		return squirrel.Eq{bc.Column: nil}
	case OpIsNotNull:
		return squirrel.NotEq{bc.Column: nil}
	case OpLike:
		s, _ := bc.Value.(string)
		pattern := "%" + EscapeLike(s) + "%"
		return squirrel.Expr(bc.Column+" "+d.likeKeyword()+" ? ESCAPE '\\'", pattern)
	}
	return nil
}

// searchExpr строит условие полнотекстового поиска: вся фраза как один
// литерал (без токенизации), подстрочное совпадение по конкатенации всех
// searchable-колонок; на Postgres дополнительно OR по триграммной близости.
func searchExpr(entity *schema.Entity, phrase string, d Dialect) squirrel.Sqlizer {
	cols := entity.SearchColumns()
	if len(cols) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(cols))
	for _, c := range cols {
		quoted = append(quoted, c.Alias+"."+d.QuoteIdent(c.Column))
	}
	concat := "concat_ws(' ', " + strings.Join(quoted, ", ") + ")"
	pattern := "%" + EscapeLike(phrase) + "%"

	substring := squirrel.Expr(concat+" "+d.likeKeyword()+" ? ESCAPE '\\'", pattern)
	if !d.SupportsTrigram() {
		return substring
	}
	return squirrel.Or{
		substring,
		squirrel.Expr("similarity("+concat+", ?) > "+trigramThreshold, phrase),
	}
}
