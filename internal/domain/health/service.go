package health

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/rpggio/p6risk/internal/domain/evm"
	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// overallocationPoints is the fixed overallocation sub-term of the
// resource score. It is a stand-in: per-resource allocation checks are
// not part of this scorer yet.
const overallocationPoints = 10.0

// Score is a composite 0-100 project health assessment; each component
// contributes 0-25.
type Score struct {
	ProjectID      string             `json:"project_id"`
	ProjectName    string             `json:"project_name"`
	Overall        float64            `json:"overall_health"`
	Schedule       float64            `json:"schedule_health"`
	Cost           float64            `json:"cost_health"`
	Resource       float64            `json:"resource_health"`
	Risk           float64            `json:"risk_health"`
	EVM            map[string]float64 `json:"evm_metrics"`
	Interpretation string             `json:"interpretation"`
}

// EVMService supplies earned-value metrics for the cost and schedule
// components.
type EVMService interface {
	Metrics(ctx context.Context, projectObjectID string) (map[string]float64, error)
}

// Service scores project health from schedule, cost, resource and risk
// signals.
type Service struct {
	data   provider.DataProvider
	evm    EVMService
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock used for on-time and behind-schedule
// checks.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new project health service.
func NewService(data provider.DataProvider, evmSvc EVMService, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{data: data, evm: evmSvc, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ProjectHealth computes the composite score for one project.
func (s *Service) ProjectHealth(ctx context.Context, projectObjectID string) (*Score, error) {
	proj, err := s.data.GetProjectByID(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}
	metrics, err := s.evm.Metrics(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting EVM metrics: %w", err)
	}

	scores := &Score{
		ProjectID:   projectObjectID,
		ProjectName: proj.Name,
		Schedule:    s.scheduleHealth(activities, metrics),
		Cost:        costHealth(metrics),
		Risk:        s.riskHealth(activities),
		EVM:         metrics,
	}

	resource, err := s.resourceHealth(ctx, projectObjectID)
	if err != nil {
		return nil, err
	}
	scores.Resource = resource

	scores.Overall = scores.Schedule + scores.Cost + scores.Resource + scores.Risk
	scores.Interpretation = Interpret(scores.Overall)

	return scores, nil
}

// scheduleHealth: SPI up to 10, completion ratio up to 10, on-time
// ratio up to 5.
func (s *Service) scheduleHealth(activities []schedule.Activity, metrics map[string]float64) float64 {
	var spiScore float64
	if spi, ok := metrics[evm.KeySPI]; ok {
		spiScore = math.Min(10, spi*10)
	}

	var completionScore, onTimeScore float64
	if len(activities) > 0 {
		now := s.now()
		completed, onTime := 0, 0
		for _, a := range activities {
			if a.Status == schedule.StatusCompleted {
				completed++
			}
			if a.FinishDate == nil || a.FinishDate.After(now) || a.Status == schedule.StatusCompleted {
				onTime++
			}
		}
		completionScore = float64(completed) / float64(len(activities)) * 10
		onTimeScore = float64(onTime) / float64(len(activities)) * 5
	}

	return spiScore + completionScore + onTimeScore
}

// costHealth: CPI up to 15, VAC-to-BAC ratio up to 10.
func costHealth(metrics map[string]float64) float64 {
	var cpiScore float64
	if cpi, ok := metrics[evm.KeyCPI]; ok {
		cpiScore = math.Min(15, cpi*15)
	}

	var vacScore float64
	vac, hasVAC := metrics[evm.KeyVAC]
	bac, hasBAC := metrics[evm.KeyBAC]
	if hasVAC && hasBAC && bac > 0 {
		vacScore = math.Max(0, math.Min(10, 10*(1+vac/bac)))
	}

	return cpiScore + vacScore
}

// resourceHealth: full points when the project has no assignments;
// otherwise the share of assignments with booked actuals (up to 15)
// plus the fixed overallocation term.
func (s *Service) resourceHealth(ctx context.Context, projectObjectID string) (float64, error) {
	assignments, err := s.data.GetResourceAssignmentsForProject(ctx, projectObjectID)
	if err != nil {
		return 0, fmt.Errorf("getting resource assignments: %w", err)
	}
	if len(assignments) == 0 {
		return 25, nil
	}

	withActuals := 0
	for _, a := range assignments {
		if a.ActualUnits != nil && *a.ActualUnits > 0 {
			withActuals++
		}
	}
	actualsScore := float64(withActuals) / float64(len(assignments)) * 15

	return actualsScore + overallocationPoints, nil
}

// riskHealth: penalizes activities past their finish date without
// completion (up to 15) and activities missing dates (up to 10). Zero
// activities means zero risk points.
func (s *Service) riskHealth(activities []schedule.Activity) float64 {
	if len(activities) == 0 {
		return 0
	}

	now := s.now()
	behind, missingDates := 0, 0
	for _, a := range activities {
		if a.FinishDate != nil && a.FinishDate.Before(now) && a.Status != schedule.StatusCompleted {
			behind++
		}
		if a.StartDate == nil || a.FinishDate == nil {
			missingDates++
		}
	}

	total := float64(len(activities))
	behindScore := (1 - float64(behind)/total) * 15
	missingScore := (1 - float64(missingDates)/total) * 10

	return behindScore + missingScore
}

// Interpret maps an overall score to its textual band.
func Interpret(score float64) string {
	switch {
	case score >= 90:
		return "Excellent - Project is on track with minimal issues"
	case score >= 75:
		return "Good - Project is generally on track with some minor issues"
	case score >= 60:
		return "Moderate - Project has significant issues that need attention"
	case score >= 40:
		return "Poor - Project has critical issues requiring immediate intervention"
	default:
		return "Critical - Project is severely off track and needs major corrective action"
	}
}

// AllProjectsHealth scores every project and returns name → overall
// score. A project that fails to score is logged and omitted; the batch
// never aborts.
func (s *Service) AllProjectsHealth(ctx context.Context) (map[string]float64, error) {
	projects, err := s.data.GetAllProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting projects: %w", err)
	}

	scores := make(map[string]float64, len(projects))
	for _, proj := range projects {
		score, err := s.ProjectHealth(ctx, proj.ObjectID)
		if err != nil {
			s.logger.Error("could not calculate health for project",
				"project", proj.Name, "error", err)
			continue
		}
		scores[proj.Name] = score.Overall
	}

	return scores, nil
}
