package statistics

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// unknownKey labels entities with no status or type in the grouped
// counts.
const unknownKey = "Unknown"

// upcomingWindow is how far ahead UpcomingProjects looks.
const upcomingWindow = 14 * 24 * time.Hour

// Summary aggregates portfolio-wide figures.
type Summary struct {
	TotalProjects     int            `json:"total_projects"`
	StatusCounts      map[string]int `json:"status_counts"`
	EarliestStartDate *time.Time     `json:"earliest_start_date,omitempty"`
	LatestFinishDate  *time.Time     `json:"latest_finish_date,omitempty"`
}

// Service computes portfolio statistics over all projects. Per-project
// provider failures are logged and skipped.
type Service struct {
	data   provider.DataProvider
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock used for overdue/upcoming checks.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new statistics service.
func NewService(data provider.DataProvider, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{data: data, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProjectCountByStatus groups projects by status.
func (s *Service) ProjectCountByStatus(ctx context.Context) (map[string]int, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	counts := map[string]int{}
	for _, p := range projects {
		counts[orUnknown(p.Status)]++
	}
	return counts, nil
}

// ActivityCountByType counts activities across all projects, grouped by
// activity type.
func (s *Service) ActivityCountByType(ctx context.Context) (map[string]int, error) {
	return s.countActivities(ctx, func(a schedule.Activity) string { return a.Type })
}

// ActivityCountByStatus counts activities across all projects, grouped
// by status.
func (s *Service) ActivityCountByStatus(ctx context.Context) (map[string]int, error) {
	return s.countActivities(ctx, func(a schedule.Activity) string { return a.Status })
}

func (s *Service) countActivities(ctx context.Context, key func(schedule.Activity) string) (map[string]int, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	counts := map[string]int{}
	for _, p := range projects {
		activities, err := s.data.GetActivitiesForProject(ctx, p.ObjectID)
		if err != nil {
			s.logger.Error("could not get activities for project",
				"project", p.Name, "error", err)
			continue
		}
		for _, a := range activities {
			counts[orUnknown(key(a))]++
		}
	}
	return counts, nil
}

// OverdueProjects lists projects past their finish date that are not
// completed.
func (s *Service) OverdueProjects(ctx context.Context) ([]schedule.Project, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	now := s.now()
	overdue := []schedule.Project{}
	for _, p := range projects {
		if p.FinishDate != nil && p.FinishDate.Before(now) && p.Status != schedule.StatusCompleted {
			overdue = append(overdue, p)
		}
	}
	return overdue, nil
}

// UpcomingProjects lists projects starting within the next two weeks.
func (s *Service) UpcomingProjects(ctx context.Context) ([]schedule.Project, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	now := s.now()
	horizon := now.Add(upcomingWindow)
	upcoming := []schedule.Project{}
	for _, p := range projects {
		if p.StartDate != nil && p.StartDate.After(now) && p.StartDate.Before(horizon) {
			upcoming = append(upcoming, p)
		}
	}
	return upcoming, nil
}

// ProjectsTimelineByMonth counts projects by start month ("YYYY-MM").
func (s *Service) ProjectsTimelineByMonth(ctx context.Context) (map[string]int, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	counts := map[string]int{}
	for _, p := range projects {
		if p.StartDate == nil {
			continue
		}
		counts[fmt.Sprintf("%d-%02d", p.StartDate.Year(), int(p.StartDate.Month()))]++
	}
	return counts, nil
}

// ProjectActivityCount pairs a project name with its activity count.
type ProjectActivityCount struct {
	ProjectName   string `json:"project_name"`
	ActivityCount int    `json:"activity_count"`
}

// ProjectsWithMostActivities returns up to limit projects ordered by
// activity count, largest first.
func (s *Service) ProjectsWithMostActivities(ctx context.Context, limit int) ([]ProjectActivityCount, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	counts := make([]ProjectActivityCount, 0, len(projects))
	for _, p := range projects {
		activities, err := s.data.GetActivitiesForProject(ctx, p.ObjectID)
		if err != nil {
			s.logger.Error("could not get activities for project",
				"project", p.Name, "error", err)
			continue
		}
		counts = append(counts, ProjectActivityCount{ProjectName: p.Name, ActivityCount: len(activities)})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].ActivityCount > counts[j].ActivityCount
	})
	if limit > 0 && limit < len(counts) {
		counts = counts[:limit]
	}
	return counts, nil
}

// TotalDurationByProject sums defined activity durations (hours) per
// project name.
func (s *Service) TotalDurationByProject(ctx context.Context) (map[string]float64, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	durations := make(map[string]float64, len(projects))
	for _, p := range projects {
		activities, err := s.data.GetActivitiesForProject(ctx, p.ObjectID)
		if err != nil {
			s.logger.Error("could not get activities for project",
				"project", p.Name, "error", err)
			continue
		}
		var total float64
		for _, a := range activities {
			if d := a.DurationHours(); d != nil {
				total += *d
			}
		}
		durations[p.Name] = total
	}
	return durations, nil
}

// PortfolioSummary returns aggregate portfolio statistics.
func (s *Service) PortfolioSummary(ctx context.Context) (*Summary, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	summary := &Summary{
		TotalProjects: len(projects),
		StatusCounts:  map[string]int{},
	}
	for _, p := range projects {
		summary.StatusCounts[orUnknown(p.Status)]++
		if p.StartDate != nil {
			if summary.EarliestStartDate == nil || p.StartDate.Before(*summary.EarliestStartDate) {
				start := *p.StartDate
				summary.EarliestStartDate = &start
			}
		}
		if p.FinishDate != nil {
			if summary.LatestFinishDate == nil || p.FinishDate.After(*summary.LatestFinishDate) {
				finish := *p.FinishDate
				summary.LatestFinishDate = &finish
			}
		}
	}
	return summary, nil
}

func orUnknown(v string) string {
	if v == "" {
		return unknownKey
	}
	return v
}
