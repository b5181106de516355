package filter

import (
	"encoding/json"
	"sort"
	"strings"

	"QrestAPI/internal/logger"
)

// SearchKey — служебный ключ фильтра с фразой полнотекстового поиска.
// В клаузы не попадает, уходит отдельным путём в Condition Builder.
const SearchKey = "q"

// ParsedClause — одна кандидатная клауза фильтра до проверки по whitelist-у.
type ParsedClause struct {
	FieldPath string // "field" или "relation.column"
	Op        Operator
	HasSuffix bool // оператор задан суффиксом ключа, а не выведен из значения
	Value     Value
}

// ParseFilter разбирает сырое выражение фильтра (объектный литерал JSON)
// в плоский список клауз плюс фразу поиска из ключа "q".
//
// Политика fail-open: невалидное выражение целиком — это пустой список,
// а не ошибка; запрос продолжается без фильтра. Отдельные кривые ключи
// отбрасываются независимо друг от друга.
func ParseFilter(raw string) (clauses []ParsedClause, search string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ""
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		logger.Debug("filter_unparsable", map[string]any{"error": err.Error()})
		return nil, ""
	}

	// map в Go не упорядочен; сортируем ключи, чтобы порядок клауз
	// (и, значит, порядок плейсхолдеров в SQL) был детерминирован
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := valueOf(obj[key])

		if key == SearchKey {
			if val.Kind == ValueString {
				search = val.Str
			}
			continue
		}
		if val.Kind == ValueInvalid {
			logger.Debug("filter_value_dropped", map[string]any{"key": key})
			continue
		}

		clause, ok := parseClause(key, val)
		if !ok {
			logger.Debug("filter_key_dropped", map[string]any{"key": key})
			continue
		}
		clauses = append(clauses, clause)
	}
	return clauses, search
}

func parseClause(key string, val Value) (ParsedClause, bool) {
	fieldPath := key
	op := OpEq
	hasSuffix := false

	for _, s := range operatorSuffixes {
		if strings.HasSuffix(key, s.suffix) && len(key) > len(s.suffix) {
			fieldPath = strings.TrimSuffix(key, s.suffix)
			op = s.op
			hasSuffix = true
			break
		}
	}

	// relation.column — ровно один уровень вложенности
	if strings.Count(fieldPath, ".") > 1 {
		return ParsedClause{}, false
	}
	if fieldPath == "" || strings.HasPrefix(fieldPath, ".") || strings.HasSuffix(fieldPath, ".") {
		return ParsedClause{}, false
	}

	// Вывод оператора из формы значения
	switch val.Kind {
	case ValueArray:
		// массив — это membership-тест; явный суффикс допускаем только _eq
		if hasSuffix && op != OpEq {
			return ParsedClause{}, false
		}
		op = OpIn
	case ValueNull:
		switch op {
		case OpEq:
			op = OpIsNull
		case OpNeq:
			op = OpIsNotNull
		default:
			// null с порядковым оператором смысла не имеет
			return ParsedClause{}, false
		}
	}

	return ParsedClause{FieldPath: fieldPath, Op: op, HasSuffix: hasSuffix, Value: val}, true
}
