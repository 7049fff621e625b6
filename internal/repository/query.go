package repository

import (
	"strings"

	"gorm.io/gorm"
)

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// matchAny ORs a case-insensitive substring match over columns. Empty terms
// leave the query untouched.
func matchAny(query *gorm.DB, term string, columns ...string) *gorm.DB {
	if strings.TrimSpace(term) == "" || len(columns) == 0 {
		return query
	}
	pattern := searchPattern(term)
	clauses := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// page applies offset/limit and the newest-first ordering every listing uses
func page(query *gorm.DB, table string, offset, limit int) *gorm.DB {
	return query.
		Offset(offset).
		Limit(limit).
		Order(table + ".created_at DESC").
		Order(table + ".id DESC")
}
