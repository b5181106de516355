package filter

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Жёсткие пределы окна выборки. Любая комбинация входных значений,
// включая максимальные представимые числа, кламптся к этим границам —
// это защита от resource exhaustion, а не ошибка запроса.
const (
	MaxLimit      uint64 = 1000
	MaxOffset     uint64 = 1_000_000
	FallbackLimit uint64 = 10
)

// Window — неизменяемое после вычисления окно пагинации.
type Window struct {
	Offset uint64
	Limit  uint64
}

// ResolveWindow вычисляет окно из одной из двух принимаемых форм:
// rangeRaw — JSON-массив [start,end] (включительно, с нуля), либо пара
// page/perPage (страницы с единицы). Невалидный или отсутствующий вход
// в обеих формах — окно по умолчанию {0, defaultLimit}.
func ResolveWindow(rangeRaw, pageRaw, perPageRaw string, defaultLimit uint64) Window {
	if defaultLimit == 0 {
		defaultLimit = FallbackLimit
	}
	defaultLimit = min64(defaultLimit, MaxLimit)

	if w, ok := windowFromRange(rangeRaw); ok {
		return w
	}
	if w, ok := windowFromPage(pageRaw, perPageRaw); ok {
		return w
	}
	return Window{Offset: 0, Limit: defaultLimit}
}

func windowFromRange(raw string) (Window, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Window{}, false
	}
	var pair []uint64
	if err := json.Unmarshal([]byte(raw), &pair); err != nil || len(pair) != 2 {
		return Window{}, false
	}
	start, end := pair[0], pair[1]
	// limit = end - start + 1, с клампом в ноль: end < start — пустое окно
	var limit uint64
	if end >= start {
		limit = satAdd(end-start, 1)
	}
	return Window{
		Offset: min64(start, MaxOffset),
		Limit:  min64(limit, MaxLimit),
	}, true
}

func windowFromPage(pageRaw, perPageRaw string) (Window, bool) {
	pageRaw = strings.TrimSpace(pageRaw)
	perPageRaw = strings.TrimSpace(perPageRaw)
	if pageRaw == "" && perPageRaw == "" {
		return Window{}, false
	}
	page, err := strconv.ParseUint(pageRaw, 10, 64)
	if err != nil {
		page = 1
	}
	perPage, err := strconv.ParseUint(perPageRaw, 10, 64)
	if err != nil {
		return Window{}, false
	}
	// offset = (page-1) * perPage, оба шага сатурированные
	offset := satMul(satSub(page, 1), perPage)
	return Window{
		Offset: min64(offset, MaxOffset),
		Limit:  min64(perPage, MaxLimit),
	}, true
}

// ContentRange форматирует значение заголовка диапазона:
// "{resource} {start}-{end}/{total}". Имя ресурса фильтруется до
// печатаемого ASCII — управляющие символы в заголовок не попадают.
func ContentRange(resource string, w Window, returned int, total uint64) string {
	start := w.Offset
	end := start
	if returned > 0 {
		end = satAdd(start, uint64(returned)-1)
	}
	return fmt.Sprintf("%s %d-%d/%d", sanitizeResource(resource), start, end, total)
}

func sanitizeResource(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 && r <= 0x7e {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// --- сатурированная арифметика на uint64 ---

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func satMul(a, b uint64) uint64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxUint64/b {
		return math.MaxUint64
	}
	return a * b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
