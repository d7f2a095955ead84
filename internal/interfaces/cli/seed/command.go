package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/figures-analytics/figures/internal/application/figures/usecases"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/database"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/seeds"
	"github.com/figures-analytics/figures/internal/infrastructure/repository"
	"github.com/figures-analytics/figures/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/figures-analytics/figures/internal/interfaces/http"
)

var (
	opts bootstrap.Options
	file string
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load platform data and metrics from a fixtures file",
		Long: `Load sites, users, courses, enrollments and activity from a YAML fixtures file,
then store the grade snapshots and daily metrics it lists. Existing rows are kept.`,
		RunE: runSeed,
	}

	cmd.Flags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.Flags().StringVarP(&file, "file", "f", "configs/fixtures.example.yaml", "Fixtures file")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	fixtures, err := seeds.LoadFixtures(file)
	if err != nil {
		return err
	}

	cfg, log, err := bootstrap.Init(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	platformResult, err := seeds.SeedPlatform(ctx, database.Get(), fixtures, log)
	if err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	metricsResult, err := SeedMetrics(ctx, fixtures, Writers{
		Grades:      repository.NewLearnerGradeRepository(database.Get(), log),
		SiteDaily:   container.SiteMetricsWriter(),
		CourseDaily: container.CourseMetricsWriter(),
	})
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), platformResult, metricsResult)
	return nil
}

type gradeWriter interface {
	GetOrCreate(ctx context.Context, siteID, userID uint, courseID string, dateFor time.Time, defaults metrics.GradeCounts) (*metrics.LearnerCourseGradeMetrics, bool, error)
}

type siteDailyWriter interface {
	Execute(ctx context.Context, cmd usecases.SiteDailyMetricsCommand) (*usecases.SiteDailyMetricsResult, error)
}

type courseDailyWriter interface {
	Execute(ctx context.Context, cmd usecases.CourseDailyMetricsCommand) (*usecases.CourseDailyMetricsResult, error)
}

// Writers store the metrics part of a fixtures file.
type Writers struct {
	Grades      gradeWriter
	SiteDaily   siteDailyWriter
	CourseDaily courseDailyWriter
}

// MetricsSeedResult counts the records created. Records that already
// existed are not counted.
type MetricsSeedResult struct {
	Grades      int
	SiteDaily   int
	CourseDaily int
}

// SeedMetrics stores the grade snapshots and daily metrics of f using
// get-or-create, so reloading a file changes nothing.
func SeedMetrics(ctx context.Context, f *seeds.Fixtures, w Writers) (*MetricsSeedResult, error) {
	result := &MetricsSeedResult{}

	for i, g := range f.Grades {
		_, created, err := w.Grades.GetOrCreate(ctx, g.SiteID, g.UserID, g.CourseID, g.DateFor.Time, metrics.GradeCounts{
			PointsPossible:   g.PointsPossible,
			PointsEarned:     g.PointsEarned,
			SectionsWorked:   g.SectionsWorked,
			SectionsPossible: g.SectionsPossible,
		})
		if err != nil {
			return nil, fmt.Errorf("grades[%d]: %w", i, err)
		}
		if created {
			result.Grades++
		}
	}

	for i, m := range f.SiteDailyMetrics {
		res, err := w.SiteDaily.Execute(ctx, usecases.SiteDailyMetricsCommand{
			SiteID:  m.SiteID,
			DateFor: m.DateFor.Time,
			Counts: metrics.SiteDailyCounts{
				CumulativeActiveUserCount: m.CumulativeActiveUserCount,
				TodaysActiveUserCount:     m.TodaysActiveUserCount,
				TotalUserCount:            m.TotalUserCount,
				CourseCount:               m.CourseCount,
				TotalEnrollmentCount:      m.TotalEnrollmentCount,
				MAU:                       m.MAU,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("site_daily_metrics[%d]: %w", i, err)
		}
		if res.Created {
			result.SiteDaily++
		}
	}

	for i, m := range f.CourseDailyMetrics {
		counts := metrics.CourseDailyCounts{
			EnrollmentCount:       m.EnrollmentCount,
			ActiveLearnersToday:   m.ActiveLearnersToday,
			AverageDaysToComplete: m.AverageDaysToComplete,
			NumLearnersCompleted:  m.NumLearnersCompleted,
		}
		if m.AverageProgress != nil {
			counts.AverageProgress = metrics.ProgressFromFloat(*m.AverageProgress)
		}
		res, err := w.CourseDaily.Execute(ctx, usecases.CourseDailyMetricsCommand{
			SiteID:   m.SiteID,
			CourseID: m.CourseID,
			DateFor:  m.DateFor.Time,
			Counts:   counts,
		})
		if err != nil {
			return nil, fmt.Errorf("course_daily_metrics[%d]: %w", i, err)
		}
		if res.Created {
			result.CourseDaily++
		}
	}

	return result, nil
}

func printSummary(out io.Writer, p *seeds.PlatformSeedResult, m *MetricsSeedResult) {
	fmt.Fprintf(out, "\nSeed Summary:\n")
	fmt.Fprintf(out, "  Sites:                %d\n", p.Sites)
	fmt.Fprintf(out, "  Users:                %d\n", p.Users)
	fmt.Fprintf(out, "  Courses:              %d\n", p.Courses)
	fmt.Fprintf(out, "  Enrollments:          %d\n", p.Enrollments)
	fmt.Fprintf(out, "  Access roles:         %d\n", p.AccessRoles)
	fmt.Fprintf(out, "  Certificates:         %d\n", p.Certificates)
	fmt.Fprintf(out, "  Activity:             %d\n", p.Activity)
	fmt.Fprintf(out, "  Grade snapshots:      %d\n", m.Grades)
	fmt.Fprintf(out, "  Site daily metrics:   %d\n", m.SiteDaily)
	fmt.Fprintf(out, "  Course daily metrics: %d\n", m.CourseDaily)
}
