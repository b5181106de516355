package filter

import "encoding/json"

// ValueKind — тег для Value.
type ValueKind int

const (
	ValueInvalid ValueKind = iota // вложенный объект и прочее непредставимое
	ValueNull
	ValueBool
	ValueNumber
	ValueString
	ValueArray
)

// Value — слабо типизированное значение из выражения фильтра.
// Парсер не интерпретирует значения; вся типизация происходит позже,
// в стадии привязки к whitelist-у (coerce.go).
type Value struct {
	Kind ValueKind
	Bool bool
	Num  json.Number
	Str  string
	Arr  []Value
}

// valueOf классифицирует значение, полученное из json-декодера с UseNumber.
func valueOf(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Value{Kind: ValueNull}
	case bool:
		return Value{Kind: ValueBool, Bool: v}
	case json.Number:
		return Value{Kind: ValueNumber, Num: v}
	case string:
		return Value{Kind: ValueString, Str: v}
	case []any:
		arr := make([]Value, 0, len(v))
		for _, item := range v {
			arr = append(arr, valueOf(item))
		}
		return Value{Kind: ValueArray, Arr: arr}
	default:
		// вложенный объект и прочая экзотика фильтром быть не может
		return Value{Kind: ValueInvalid}
	}
}
