package resources

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// overallocatedThreshold is the allocation percentage above which a
// resource counts as overallocated.
const overallocatedThreshold = 100.0

// Service aggregates resource utilization and cost views across the
// portfolio.
type Service struct {
	data   provider.DataProvider
	logger *slog.Logger
}

// NewService creates a new resource analytics service.
func NewService(data provider.DataProvider, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{data: data, logger: logger}
}

// UtilizationByMonth distributes each assignment's planned units evenly
// over the calendar months it spans ("YYYY-MM" keys), accumulated per
// resource name. Assignments missing a resource name, planned start,
// planned finish or planned units are skipped. A project whose
// assignments cannot be fetched is logged and skipped.
func (s *Service) UtilizationByMonth(ctx context.Context) (map[string]map[string]float64, error) {
	resources, err := s.data.GetAllResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting resources: %w", err)
	}
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	utilization := make(map[string]map[string]float64, len(resources))
	for _, r := range resources {
		utilization[r.Name] = map[string]float64{}
	}

	for _, proj := range projects {
		assignments, err := s.data.GetResourceAssignmentsForProject(ctx, proj.ObjectID)
		if err != nil {
			s.logger.Error("could not get assignments for project",
				"project", proj.Name, "error", err)
			continue
		}
		accumulate(assignments, utilization)
	}

	return utilization, nil
}

func accumulate(assignments []schedule.ResourceAssignment, utilization map[string]map[string]float64) {
	for _, a := range assignments {
		if a.ResourceName == "" || a.PlannedStartDate == nil || a.PlannedFinishDate == nil || a.PlannedUnits == nil {
			continue
		}

		monthly, ok := utilization[a.ResourceName]
		if !ok {
			monthly = map[string]float64{}
			utilization[a.ResourceName] = monthly
		}

		months := monthsBetween(*a.PlannedStartDate, *a.PlannedFinishDate)
		if len(months) == 0 {
			continue
		}
		unitsPerMonth := *a.PlannedUnits / float64(len(months))
		for _, m := range months {
			monthly[m] += unitsPerMonth
		}
	}
}

// monthsBetween lists the "YYYY-MM" months touched by [start, end]
// inclusive.
func monthsBetween(start, end time.Time) []string {
	var months []string
	cursor := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
	for !cursor.After(last) {
		months = append(months, fmt.Sprintf("%d-%02d", cursor.Year(), int(cursor.Month())))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return months
}

// OverallocatedResources returns the resources whose pre-computed
// allocation percentage exceeds 100.
func (s *Service) OverallocatedResources(ctx context.Context) (map[string]float64, error) {
	allocation, err := s.data.CalculateResourceAllocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting resource allocation: %w", err)
	}

	overallocated := map[string]float64{}
	for name, pct := range allocation {
		if pct > overallocatedThreshold {
			overallocated[name] = pct
		}
	}
	return overallocated, nil
}

// CostsByProject sums planned assignment cost per resource name for
// every project. Projects whose assignments cannot be fetched are
// logged and omitted.
func (s *Service) CostsByProject(ctx context.Context) (map[string]map[string]float64, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	result := make(map[string]map[string]float64, len(projects))
	for _, proj := range projects {
		assignments, err := s.data.GetResourceAssignmentsForProject(ctx, proj.ObjectID)
		if err != nil {
			s.logger.Error("could not calculate resource costs for project",
				"project", proj.Name, "error", err)
			continue
		}

		costs := map[string]float64{}
		for _, a := range assignments {
			if a.ResourceName == "" || a.PlannedCost == nil {
				continue
			}
			costs[a.ResourceName] += *a.PlannedCost
		}
		result[proj.Name] = costs
	}

	return result, nil
}
