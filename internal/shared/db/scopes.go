// Package db provides gorm scopes and transaction helpers shared by repositories.
package db

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DateRange restricts column to [from, to]. Zero bounds are ignored.
//
//	db.Model(&models.CourseDailyMetricsModel{}).Scopes(db.DateRange("date_for", from, to))
func DateRange(column string, from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if !from.IsZero() {
			tx = tx.Where(column+" >= ?", from)
		}
		if !to.IsZero() {
			tx = tx.Where(column+" <= ?", to)
		}
		return tx
	}
}

// Window restricts column to the half open interval [from, to).
func Window(column string, from, to time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(column+" >= ? AND "+column+" < ?", from, to)
	}
}

// Paginate applies limit and offset. A non-positive limit disables paging.
func Paginate(limit, offset int) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return tx
		}
		return tx.Limit(limit).Offset(offset)
	}
}

// Search matches term case-insensitively against any of columns. LIKE
// wildcards in term are escaped with '!' so the term matches literally.
func Search(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return tx
		}
		like := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			clauses = append(clauses, "LOWER("+col+") LIKE ? ESCAPE '!'")
			args = append(args, like)
		}
		return tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// OrderBy translates a "field" or "-field" ordering into an ORDER BY using
// the allowed map from API field names to columns. Unknown fields fall back
// to fallback, which must itself be a key of allowed. Rows that tie on the
// sort column are ordered by tiebreak ascending so that paging is stable.
func OrderBy(ordering, fallback string, allowed map[string]string, tiebreak string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		field, desc := strings.TrimPrefix(ordering, "-"), strings.HasPrefix(ordering, "-")
		column, ok := allowed[field]
		if !ok {
			field, desc = strings.TrimPrefix(fallback, "-"), strings.HasPrefix(fallback, "-")
			column, ok = allowed[field]
		}
		if ok {
			if desc {
				tx = tx.Order(column + " DESC")
			} else {
				tx = tx.Order(column)
			}
		}
		if tiebreak != "" && tiebreak != column {
			tx = tx.Order(tiebreak)
		}
		return tx
	}
}
