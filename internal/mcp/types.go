package mcp

import (
	"strconv"
	"time"

	"github.com/rpggio/p6risk/internal/domain/montecarlo"
	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/domain/statistics"
)

type RunScheduleRiskAnalysisParams struct {
	ProjectID        string `json:"project_id"`
	Iterations       int    `json:"iterations,omitempty"`
	ConfidenceLevels []int  `json:"confidence_levels,omitempty"`
}

type ProjectParams struct {
	ProjectID string `json:"project_id"`
}

type EmptyParams struct{}

// ScheduleRiskAnalysisResult is the tool-facing summary of a simulation
// run. Confidence maps are keyed by the confidence level as a string
// ("80", "90"); the raw distributions stay server-side.
type ScheduleRiskAnalysisResult struct {
	RunID       string `json:"run_id"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Iterations  int    `json:"iterations"`

	MeanCompletionDate    time.Time            `json:"mean_completion_date"`
	DateConfidence        map[string]time.Time `json:"date_confidence"`
	EarliestCompletion    time.Time            `json:"earliest_completion_date"`
	LatestCompletion      time.Time            `json:"latest_completion_date"`
	CompletionStdDevHours float64              `json:"completion_std_dev_hours"`

	MeanTotalCost  float64            `json:"mean_total_cost"`
	CostConfidence map[string]float64 `json:"cost_confidence"`
	MinTotalCost   float64            `json:"min_total_cost"`
	MaxTotalCost   float64            `json:"max_total_cost"`
	CostStdDev     float64            `json:"cost_std_dev"`
}

func newScheduleRiskAnalysisResult(sim *montecarlo.SimulationResult) *ScheduleRiskAnalysisResult {
	result := &ScheduleRiskAnalysisResult{
		RunID:                 sim.RunID,
		ProjectID:             sim.ProjectID,
		ProjectName:           sim.ProjectName,
		Iterations:            sim.Iterations,
		MeanCompletionDate:    sim.MeanCompletionDate,
		DateConfidence:        make(map[string]time.Time, len(sim.DateConfidence)),
		CompletionStdDevHours: sim.CompletionStdDev.Hours(),
		MeanTotalCost:         sim.MeanTotalCost,
		CostConfidence:        make(map[string]float64, len(sim.CostConfidence)),
		CostStdDev:            sim.CostStdDev,
	}
	for level, date := range sim.DateConfidence {
		result.DateConfidence[strconv.Itoa(level)] = date
	}
	for level, cost := range sim.CostConfidence {
		result.CostConfidence[strconv.Itoa(level)] = cost
	}
	// Distributions are sorted ascending
	if n := len(sim.CompletionDates); n > 0 {
		result.EarliestCompletion = sim.CompletionDates[0]
		result.LatestCompletion = sim.CompletionDates[n-1]
	}
	if n := len(sim.TotalCosts); n > 0 {
		result.MinTotalCost = sim.TotalCosts[0]
		result.MaxTotalCost = sim.TotalCosts[n-1]
	}
	return result
}

type EVMMetricsResult struct {
	ProjectID string             `json:"project_id"`
	Metrics   map[string]float64 `json:"metrics"`
}

type CriticalPathResult struct {
	ProjectID  string              `json:"project_id"`
	Activities []schedule.Activity `json:"critical_path_activities"`
}

type ActivityFloatResult struct {
	ProjectID string `json:"project_id"`
	// FloatHours maps activity ID to total float in hours.
	FloatHours map[string]float64 `json:"float_hours"`
}

type ResourceUtilizationResult struct {
	// Utilization maps resource name to "YYYY-MM" month to planned units.
	Utilization map[string]map[string]float64 `json:"utilization"`
}

type OverallocatedResourcesResult struct {
	// Resources maps resource name to allocation percentage above 100.
	Resources map[string]float64 `json:"overallocated_resources"`
}

type ResourceCostsResult struct {
	// Costs maps project name to resource name to planned cost.
	Costs map[string]map[string]float64 `json:"costs_by_project"`
}

type PortfolioHealthResult struct {
	// Scores maps project name to overall health score.
	Scores map[string]float64 `json:"health_scores"`
}

type ListProjectsResult struct {
	Projects []schedule.Project `json:"projects"`
}

type PortfolioStatisticsResult struct {
	ProjectCountByStatus   map[string]int                    `json:"project_count_by_status"`
	ActivityCountByType    map[string]int                    `json:"activity_count_by_type"`
	ActivityCountByStatus  map[string]int                    `json:"activity_count_by_status"`
	OverdueProjects        []schedule.Project                `json:"overdue_projects"`
	UpcomingProjects       []schedule.Project                `json:"upcoming_projects"`
	TimelineByMonth        map[string]int                    `json:"projects_timeline_by_month"`
	MostActiveProjects     []statistics.ProjectActivityCount `json:"most_active_projects"`
	TotalDurationByProject map[string]float64                `json:"total_duration_hours_by_project"`
	Summary                *statistics.Summary               `json:"summary"`
}
