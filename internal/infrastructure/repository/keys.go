package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/figures-analytics/figures/internal/domain/metrics"
)

// courseKey returns the stored form of a course id argument. Entities
// canonicalize the id on construction, so lookups must do the same or a
// padded id would miss its own row. Ids that do not parse are only trimmed.
func courseKey(courseID string) string {
	key, err := metrics.ParseCourseKey(courseID)
	if err != nil {
		return strings.TrimSpace(courseID)
	}
	return key.String()
}

func courseKeys(courseIDs []string) []string {
	keys := make([]string, len(courseIDs))
	for i, id := range courseIDs {
		keys[i] = courseKey(id)
	}
	return keys
}

// insertIfAbsent inserts model unless a row with the same unique key already
// exists, and reports whether a row was written. A conflict is not an error,
// which keeps an enclosing Postgres transaction usable for the re-read.
func insertIfAbsent(tx *gorm.DB, model interface{}) (bool, error) {
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
