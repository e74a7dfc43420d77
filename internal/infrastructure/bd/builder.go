package db

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// ApplyEq добавляет условие col = val для каждого заданного фильтра.
// Пустые строки и nil-указатели пропускаются: фильтр не задан.
func ApplyEq(builder sq.SelectBuilder, filters map[string]interface{}) sq.SelectBuilder {
	for col, val := range filters {
		switch v := val.(type) {
		case nil:
			continue
		case string:
			if strings.TrimSpace(v) == "" {
				continue
			}
			builder = builder.Where(sq.Eq{col: strings.TrimSpace(v)})
		case *uint64:
			if v == nil {
				continue
			}
			builder = builder.Where(sq.Eq{col: *v})
		default:
			builder = builder.Where(sq.Eq{col: v})
		}
	}
	return builder
}

// ApplySearch - ILIKE по любому из столбцов.
func ApplySearch(builder sq.SelectBuilder, term string, columns ...string) sq.SelectBuilder {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return builder
	}
	pattern := "%" + escapeLike(term) + "%"

	conditions := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		conditions = append(conditions, sq.Expr(fmt.Sprintf("%s ILIKE ?", col), pattern))
	}
	return builder.Where(conditions)
}

func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
