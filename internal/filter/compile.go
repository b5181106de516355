package filter

import (
	"sort"

	"github.com/Masterminds/squirrel"

	"QrestAPI/internal/schema"
)

// Params — сырой параметрический срез запроса, как он пришёл из URL.
// Всё опционально; компилятор никогда не возвращает ошибку — невалидный
// вход деградирует к "без фильтра" / "сортировка по умолчанию" /
// "окно по умолчанию".
type Params struct {
	Filter    string // объектный литерал: {"status":"active","priority_gte":5,"q":"..."}
	Sort      string // JSON-массив: ["field","DESC"]
	SortField string // альтернатива Sort: отдельные параметры
	SortOrder string
	Range     string // JSON-массив: [start,end]
	Page      string // альтернатива Range: page/per_page
	PerPage   string

	DefaultLimit uint64 // 0 ⇒ FallbackLimit
}

// Compiled — результат компиляции одного запроса. Владелец — обработчик
// этого запроса; между запросами ничего не разделяется.
type Compiled struct {
	Condition squirrel.Sqlizer // nil ⇒ без ограничений
	Sort      SortKey
	Window    Window
	Search    string   // фраза из "q" (для логов)
	Relations []string // связи, на которые ссылаются условие/сортировка/поиск
}

// Compile прогоняет параметры через парсер, привязку к whitelist-у и
// построитель условий. Чистая функция: читает только неизменяемый
// whitelist, безопасна для конкурентного вызова.
func Compile(entity *schema.Entity, p Params, d Dialect) Compiled {
	clauses, search := ParseFilter(p.Filter)
	bound := BindClauses(entity, clauses)

	c := Compiled{
		Condition: BuildCondition(entity, bound, search, d),
		Sort:      ResolveSort(entity, p.Sort, p.SortField, p.SortOrder),
		Window:    ResolveWindow(p.Range, p.Page, p.PerPage, p.DefaultLimit),
		Search:    search,
	}

	relations := map[string]bool{}
	for _, bc := range bound {
		if bc.Relation != "" {
			relations[bc.Relation] = true
		}
	}
	if c.Sort.Relation != "" {
		relations[c.Sort.Relation] = true
	}
	if search != "" {
		for _, col := range entity.SearchColumns() {
			if col.Relation != "" {
				relations[col.Relation] = true
			}
		}
	}
	c.Relations = make([]string, 0, len(relations))
	for name := range relations {
		c.Relations = append(c.Relations, name)
	}
	sort.Strings(c.Relations)

	return c
}
