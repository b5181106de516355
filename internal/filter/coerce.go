package filter

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"QrestAPI/internal/logger"
	"QrestAPI/internal/schema"
)

// BoundClause — клауза, прошедшая whitelist и приведение типов.
// Column всегда составлен из alias-а ("main" или имя связи) и имени колонки
// из whitelist-а — пользовательский ввод в него не попадает.
type BoundClause struct {
	Field    *schema.FieldDescriptor
	Relation string // "" для прямых полей
	Column   string // "main.priority", "vehicles.make"
	Op       Operator
	Value    any   // скаляр после приведения
	Values   []any // для OpIn
}

// BindClauses проверяет каждую клаузу по whitelist-у и приводит значение
// к объявленному типу поля. Любой сбой отбрасывает только эту клаузу;
// остальные обрабатываются независимо (fail-open per clause).
func BindClauses(entity *schema.Entity, clauses []ParsedClause) []BoundClause {
	var bound []BoundClause
	for _, c := range clauses {
		bc, ok := bindClause(entity, c)
		if !ok {
			logger.Debug("filter_clause_dropped", map[string]any{
				"entity": entity.Name,
				"field":  c.FieldPath,
				"op":     c.Op.String(),
			})
			continue
		}
		bound = append(bound, bc)
	}
	return bound
}

func bindClause(entity *schema.Entity, c ParsedClause) (BoundClause, bool) {
	// 1. Разрешение пути по whitelist-у
	fd, relation, ok := entity.ResolveFilter(c.FieldPath)
	if !ok {
		return BoundClause{}, false
	}
	alias := "main"
	if relation != "" {
		alias = relation
	}
	bc := BoundClause{
		Field:    fd,
		Relation: relation,
		Column:   alias + "." + fd.Name,
		Op:       c.Op,
	}

	// 2. IS NULL / IS NOT NULL значений не несут
	if c.Op == OpIsNull || c.Op == OpIsNotNull {
		return bc, true
	}

	// 3. Совместимость оператора и типа: порядковые операторы только
	// для упорядоченных типов
	if c.Op.ordering() && !fd.Kind.Ordered() {
		return BoundClause{}, false
	}

	// 4. Приведение значения
	if c.Op == OpIn {
		vals := coerceArray(fd, c.Value.Arr)
		if len(vals) == 0 {
			// пустое (или целиком невалидное) множество — это условие
			// "никогда не совпадает"; молчаливый match-all был бы хуже
			return BoundClause{}, false
		}
		bc.Values = vals
		return bc, true
	}

	v, ok := coerceScalar(fd, c.Value)
	if !ok {
		return BoundClause{}, false
	}
	bc.Value = v

	// 5. Бессуффиксное сравнение substring_match-строки — это Like
	if c.Op == OpEq && !c.HasSuffix && fd.Kind == schema.KindText && fd.SubstringMatch {
		bc.Op = OpLike
	}
	return bc, true
}

// coerceArray приводит элементы массива независимо; невалидные элементы
// пропускаются — membership-тест работает по валидному подмножеству.
func coerceArray(fd *schema.FieldDescriptor, arr []Value) []any {
	vals := make([]any, 0, len(arr))
	for _, item := range arr {
		if v, ok := coerceScalar(fd, item); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

func coerceScalar(fd *schema.FieldDescriptor, v Value) (any, bool) {
	switch fd.Kind {
	case schema.KindText:
		if v.Kind == ValueString {
			return v.Str, true
		}

	case schema.KindInteger:
		switch v.Kind {
		case ValueNumber:
			// дробное число для int-поля — это type mismatch
			if n, err := v.Num.Int64(); err == nil {
				return n, true
			}
		case ValueString:
			if n, err := strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64); err == nil {
				return n, true
			}
		}

	case schema.KindFloat:
		switch v.Kind {
		case ValueNumber:
			if f, err := v.Num.Float64(); err == nil {
				return f, true
			}
		case ValueString:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64); err == nil {
				return f, true
			}
		}

	case schema.KindBoolean:
		switch v.Kind {
		case ValueBool:
			return v.Bool, true
		case ValueString:
			if strings.EqualFold(v.Str, "true") {
				return true, true
			}
			if strings.EqualFold(v.Str, "false") {
				return false, true
			}
		}

	case schema.KindUUID:
		// только каноническая 36-символьная форма с дефисами
		if v.Kind == ValueString && len(v.Str) == 36 {
			if u, err := uuid.Parse(v.Str); err == nil {
				return u.String(), true
			}
		}

	case schema.KindEnum:
		if v.Kind == ValueString {
			return matchEnumVariant(fd, v.Str)
		}

	case schema.KindTemporal:
		if v.Kind == ValueString {
			return parseTemporal(v.Str)
		}
	}
	return nil, false
}

// matchEnumVariant сравнивает метку со списком вариантов и возвращает
// каноническое написание, чтобы в параметры запроса уходил вариант из
// whitelist-а, а не пользовательский регистр.
func matchEnumVariant(fd *schema.FieldDescriptor, label string) (any, bool) {
	for _, variant := range fd.Variants {
		if fd.CaseSensitiveEnum {
			if variant == label {
				return variant, true
			}
		} else if strings.EqualFold(variant, label) {
			return variant, true
		}
	}
	return nil, false
}

var temporalLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

func parseTemporal(s string) (any, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range temporalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return nil, false
}
