package repository

import (
	"strconv"
	"strings"
)

// Dialect SQL 方言：查询统一使用 ? 占位符，postgres 系驱动执行前改写为 $N
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectFor 根据 database/sql 驱动名选择方言
func DialectFor(driverName string) Dialect {
	if driverName == "sqlite" || driverName == "sqlite3" {
		return DialectSQLite
	}
	return DialectPostgres
}

// Rebind 把 ? 改写为 $1, $2, ...（单引号字符串内的 ? 不处理）
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
