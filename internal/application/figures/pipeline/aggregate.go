package pipeline

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// averageProgress is the mean progress over enrolled learners. Learners
// without a grade snapshot count as zero. Nil when nobody is enrolled.
func averageProgress(enrollments []*platform.CourseEnrollment, grades []*metrics.LearnerCourseGradeMetrics) *decimal.Decimal {
	if len(enrollments) == 0 {
		return nil
	}

	progress := make(map[uint]float64, len(grades))
	for _, g := range grades {
		progress[g.UserID()] = g.ProgressPercent()
	}

	var sum float64
	for _, e := range enrollments {
		sum += progress[e.UserID]
	}
	return metrics.ProgressFromFloat(sum / float64(len(enrollments)))
}

// averageDaysToComplete is the rounded mean of whole days between enrollment
// and certificate. Certificates without a matching enrollment are skipped.
func averageDaysToComplete(enrollments []*platform.CourseEnrollment, certs []*platform.GeneratedCertificate) *int {
	enrolled := make(map[uint]*platform.CourseEnrollment, len(enrollments))
	for _, e := range enrollments {
		enrolled[e.UserID] = e
	}

	total, n := 0, 0
	for _, cert := range certs {
		e, ok := enrolled[cert.UserID]
		if !ok {
			continue
		}
		days := biztime.DaysBetween(e.Created, cert.CreatedDate)
		if days < 0 {
			days = 0
		}
		total += days
		n++
	}
	if n == 0 {
		return nil
	}
	avg := int(math.Round(float64(total) / float64(n)))
	return &avg
}
