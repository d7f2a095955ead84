package pipeline

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	figurespipeline "github.com/figures-analytics/figures/internal/application/figures/pipeline"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/database"
	"github.com/figures-analytics/figures/internal/infrastructure/repository"
	"github.com/figures-analytics/figures/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/figures-analytics/figures/internal/interfaces/http"
	"github.com/figures-analytics/figures/internal/shared/biztime"
)

var (
	opts   bootstrap.Options
	date   string
	domain string
	force  bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Daily metrics pipeline",
	}

	cmd.PersistentFlags().StringVarP(&opts.Env, "env", "e", "development", "Environment (development, test, production)")
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Enable debug logging")

	run := &cobra.Command{
		Use:   "run",
		Short: "Compute and store daily metrics",
		Long: `Compute the site and course daily metrics and monthly active users for one day.
Records that already exist are kept unless --force is given.`,
		RunE: runPipeline,
	}
	run.Flags().StringVarP(&date, "date", "d", "", "Day to measure as YYYY-MM-DD (default: yesterday)")
	run.Flags().StringVarP(&domain, "site", "s", "", "Only run for the site with this domain")
	run.Flags().BoolVarP(&force, "force", "f", false, "Recompute records that already exist")

	cmd.AddCommand(run)
	return cmd
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap.Init(opts)
	if err != nil {
		return err
	}
	defer database.Close()

	day, err := ParseDate(date, biztime.NowUTC())
	if err != nil {
		return err
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sites := repository.NewSiteRepository(database.Get(), log)
	return Run(ctx, container.Pipeline(), sites, day, domain, force, cmd.OutOrStdout())
}

// ParseDate reads a YYYY-MM-DD day. An empty value means the business day
// before now.
func ParseDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return biztime.DateOf(now).AddDate(0, 0, -1), nil
	}
	t, err := biztime.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date: %w", err)
	}
	return t, nil
}

type siteRunner interface {
	RunAllSites(ctx context.Context, date time.Time) error
	RunSite(ctx context.Context, site *platform.Site, date time.Time, force bool) (*figurespipeline.SiteResult, error)
}

type siteSource interface {
	GetByDomain(ctx context.Context, domain string) (*platform.Site, error)
	List(ctx context.Context) ([]*platform.Site, error)
}

// Run runs the pipeline for one site when domain is set, otherwise for all
// of them. A forced run visits every site and stops at the first failure.
func Run(ctx context.Context, p siteRunner, sites siteSource, day time.Time, domain string, force bool, out io.Writer) error {
	if domain != "" {
		site, err := sites.GetByDomain(ctx, domain)
		if err != nil {
			return fmt.Errorf("failed to look up site %s: %w", domain, err)
		}
		if site == nil {
			return fmt.Errorf("site %s not found", domain)
		}
		return runOne(ctx, p, site, day, force, out)
	}

	if !force {
		if err := p.RunAllSites(ctx, day); err != nil {
			return err
		}
		fmt.Fprintf(out, "pipeline finished for %s\n", biztime.FormatDate(day))
		return nil
	}

	all, err := sites.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sites: %w", err)
	}
	for _, site := range all {
		if err := runOne(ctx, p, site, day, true, out); err != nil {
			return err
		}
	}
	return nil
}

func runOne(ctx context.Context, p siteRunner, site *platform.Site, day time.Time, force bool, out io.Writer) error {
	res, err := p.RunSite(ctx, site, day, force)
	if err != nil {
		return fmt.Errorf("pipeline failed for %s: %w", site.Domain, err)
	}
	fmt.Fprintf(out, "%s %s: site created=%t, courses=%d, courses created=%d\n",
		site.Domain, biztime.FormatDate(res.DateFor), res.SiteCreated, len(res.Courses), res.CoursesCreated)
	return nil
}
