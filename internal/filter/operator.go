package filter

// Operator — оператор сравнения одной клаузы фильтра.
type Operator int

const (
	OpEq Operator = iota
	OpNeq
	OpGt
	OpGte
	OpLt
	OpLte
	OpIn
	OpIsNull
	OpIsNotNull
	OpLike // подстрочное сравнение, только для substring_match-полей
)

func (op Operator) String() string {
	switch op {
	case OpEq:
		return "eq"
	case OpNeq:
		return "neq"
	case OpGt:
		return "gt"
	case OpGte:
		return "gte"
	case OpLt:
		return "lt"
	case OpLte:
		return "lte"
	case OpIn:
		return "in"
	case OpIsNull:
		return "is_null"
	case OpIsNotNull:
		return "is_not_null"
	case OpLike:
		return "like"
	}
	return "unknown"
}

// ordering отмечает операторы, требующие упорядоченного типа поля.
func (op Operator) ordering() bool {
	switch op {
	case OpGt, OpGte, OpLt, OpLte:
		return true
	}
	return false
}

// Суффиксы ключей фильтра. Порядок важен: более длинные раньше,
// чтобы "_gte" не распознался как "_gt" плюс хвост.
var operatorSuffixes = []struct {
	suffix string
	op     Operator
}{
	{"_gte", OpGte},
	{"_lte", OpLte},
	{"_neq", OpNeq},
	{"_gt", OpGt},
	{"_lt", OpLt},
	{"_eq", OpEq},
}
