package filter

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// Dialect — целевая СУБД. Влияет только на форму плейсхолдеров,
// квотирование идентификаторов и возможности полнотекстового поиска;
// вся остальная логика компилятора от диалекта не зависит.
type Dialect int

const (
	Postgres Dialect = iota
	MySQL
	SQLite
)

func ParseDialect(s string) Dialect {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mysql", "mariadb":
		return MySQL
	case "sqlite", "sqlite3":
		return SQLite
	default:
		return Postgres
	}
}

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case SQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

func (d Dialect) PlaceholderFormat() squirrel.PlaceholderFormat {
	if d == Postgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

// QuoteIdent квотирует имя колонки по правилам диалекта. Идентификаторы
// приходят только из whitelist-а, но квотирование всё равно дублирует
// защиту и сохраняет регистр.
func (d Dialect) QuoteIdent(name string) string {
	if d == MySQL {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// SupportsTrigram: similarity() из pg_trgm есть только в Postgres.
func (d Dialect) SupportsTrigram() bool {
	return d == Postgres
}

// likeKeyword: на Postgres LIKE чувствителен к регистру, подстрочный
// поиск делаем через ILIKE; на MySQL/SQLite регистронезависимость даёт
// коллация по умолчанию.
func (d Dialect) likeKeyword() string {
	if d == Postgres {
		return "ILIKE"
	}
	return "LIKE"
}
