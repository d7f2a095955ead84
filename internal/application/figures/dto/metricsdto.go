package dto

import (
	"time"

	"github.com/figures-analytics/figures/internal/domain/metrics"
)

type SiteDailyMetricsDTO struct {
	ID                        uint   `json:"id"`
	Created                   string `json:"created"`
	Modified                  string `json:"modified"`
	Site                      uint   `json:"site"`
	DateFor                   string `json:"date_for"`
	CumulativeActiveUserCount *int   `json:"cumulative_active_user_count"`
	TodaysActiveUserCount     *int   `json:"todays_active_user_count"`
	TotalUserCount            int    `json:"total_user_count"`
	CourseCount               int    `json:"course_count"`
	TotalEnrollmentCount      int    `json:"total_enrollment_count"`
	MAU                       *int   `json:"mau"`
}

type CourseDailyMetricsDTO struct {
	ID                    uint    `json:"id"`
	Created               string  `json:"created"`
	Modified              string  `json:"modified"`
	Site                  uint    `json:"site"`
	DateFor               string  `json:"date_for"`
	CourseID              string  `json:"course_id"`
	EnrollmentCount       int     `json:"enrollment_count"`
	ActiveLearnersToday   int     `json:"active_learners_today"`
	AverageProgress       *string `json:"average_progress"`
	AverageDaysToComplete *int    `json:"average_days_to_complete"`
	NumLearnersCompleted  int     `json:"num_learners_completed"`
}

type SiteMauMetricsDTO struct {
	DateFor string `json:"date_for"`
	MAU     int    `json:"mau"`
	Domain  string `json:"domain"`
}

type CourseMauMetricsDTO struct {
	DateFor  string `json:"date_for"`
	MAU      int    `json:"mau"`
	Domain   string `json:"domain"`
	CourseID string `json:"course_id"`
}

// SiteMauLiveMetricsDTO is computed from activity on request, never stored.
type SiteMauLiveMetricsDTO struct {
	MonthFor string `json:"month_for"`
	Count    int64  `json:"count"`
	Domain   string `json:"domain"`
}

type CourseMauLiveMetricsDTO struct {
	MonthFor string `json:"month_for"`
	Count    int64  `json:"count"`
	CourseID string `json:"course_id"`
	Domain   string `json:"domain"`
}

func ToSiteDailyMetricsDTO(m *metrics.SiteDailyMetrics) *SiteDailyMetricsDTO {
	if m == nil {
		return nil
	}
	return &SiteDailyMetricsDTO{
		ID:                        m.ID(),
		Created:                   formatDateTime(m.CreatedAt()),
		Modified:                  formatDateTime(m.UpdatedAt()),
		Site:                      m.SiteID(),
		DateFor:                   formatDate(m.DateFor()),
		CumulativeActiveUserCount: m.CumulativeActiveUserCount(),
		TodaysActiveUserCount:     m.TodaysActiveUserCount(),
		TotalUserCount:            m.TotalUserCount(),
		CourseCount:               m.CourseCount(),
		TotalEnrollmentCount:      m.TotalEnrollmentCount(),
		MAU:                       m.MAU(),
	}
}

// ToSiteDailyMetricsDTOList never returns nil so empty pages render [].
func ToSiteDailyMetricsDTOList(items []*metrics.SiteDailyMetrics) []*SiteDailyMetricsDTO {
	dtos := make([]*SiteDailyMetricsDTO, 0, len(items))
	for _, item := range items {
		if item != nil {
			dtos = append(dtos, ToSiteDailyMetricsDTO(item))
		}
	}
	return dtos
}

func ToCourseDailyMetricsDTO(m *metrics.CourseDailyMetrics) *CourseDailyMetricsDTO {
	if m == nil {
		return nil
	}
	return &CourseDailyMetricsDTO{
		ID:                    m.ID(),
		Created:               formatDateTime(m.CreatedAt()),
		Modified:              formatDateTime(m.UpdatedAt()),
		Site:                  m.SiteID(),
		DateFor:               formatDate(m.DateFor()),
		CourseID:              m.CourseID(),
		EnrollmentCount:       m.EnrollmentCount(),
		ActiveLearnersToday:   m.ActiveLearnersToday(),
		AverageProgress:       formatProgress(m.AverageProgress()),
		AverageDaysToComplete: m.AverageDaysToComplete(),
		NumLearnersCompleted:  m.NumLearnersCompleted(),
	}
}

func ToCourseDailyMetricsDTOList(items []*metrics.CourseDailyMetrics) []*CourseDailyMetricsDTO {
	dtos := make([]*CourseDailyMetricsDTO, 0, len(items))
	for _, item := range items {
		if item != nil {
			dtos = append(dtos, ToCourseDailyMetricsDTO(item))
		}
	}
	return dtos
}

func ToSiteMauMetricsDTO(m *metrics.SiteMauMetrics, domain string) *SiteMauMetricsDTO {
	return &SiteMauMetricsDTO{
		DateFor: formatDate(m.DateFor()),
		MAU:     m.MAU(),
		Domain:  domain,
	}
}

func ToCourseMauMetricsDTO(m *metrics.CourseMauMetrics, domain string) *CourseMauMetricsDTO {
	return &CourseMauMetricsDTO{
		DateFor:  formatDate(m.DateFor()),
		MAU:      m.MAU(),
		Domain:   domain,
		CourseID: m.CourseID(),
	}
}

func NewSiteMauLiveMetricsDTO(monthFor time.Time, count int64, domain string) *SiteMauLiveMetricsDTO {
	return &SiteMauLiveMetricsDTO{
		MonthFor: formatDate(monthFor),
		Count:    count,
		Domain:   domain,
	}
}

func NewCourseMauLiveMetricsDTO(monthFor time.Time, count int64, courseID, domain string) *CourseMauLiveMetricsDTO {
	return &CourseMauLiveMetricsDTO{
		MonthFor: formatDate(monthFor),
		Count:    count,
		CourseID: courseID,
		Domain:   domain,
	}
}
