package montecarlo

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// Triangular distribution spread around the planned duration.
const (
	optimisticFactor  = 0.8
	pessimisticFactor = 1.3
)

// In-progress activities are assumed half done for forecasting.
const inProgressWeight = 0.5

// Rand is the sampling source. *rand.Rand satisfies it; tests inject a
// seeded one.
type Rand interface {
	Float64() float64
}

// Service runs Monte Carlo schedule/cost risk simulations and
// progress-based forecasts. It is stateless across calls; each analysis
// pulls a fresh snapshot from the provider.
type Service struct {
	data   provider.DataProvider
	logger *slog.Logger
	rng    Rand
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithRand replaces the pseudorandom source.
func WithRand(rng Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithNow overrides the clock used when a project carries no dates.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new simulation service.
func NewService(data provider.DataProvider, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		data:   data,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// durationModel holds triangular distribution parameters for one activity.
type durationModel struct {
	optimistic  float64
	mostLikely  float64
	pessimistic float64
}

// PerformScheduleRiskAnalysis samples per-activity durations across the
// given number of iterations and returns completion-date and total-cost
// distributions with confidence bands. Fails with ErrNoScheduleData when
// the project has no activities.
func (s *Service) PerformScheduleRiskAnalysis(ctx context.Context, projectObjectID string, iterations int, confidenceLevels []int) (*SimulationResult, error) {
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be positive, got %d", ErrInvalidInput, iterations)
	}

	proj, err := s.data.GetProjectByID(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}
	if len(activities) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoScheduleData, projectObjectID)
	}

	s.logger.Info("starting schedule risk analysis",
		"project", projectObjectID, "activities", len(activities), "iterations", iterations)

	models := buildDurationModels(activities)
	plannedCosts := s.plannedCostByActivity(ctx, activities)
	startDate := s.simulationStart(proj)

	completionDates := make([]time.Time, 0, iterations)
	totalCosts := make([]float64, 0, iterations)

	for i := 0; i < iterations; i++ {
		date, cost := s.runIteration(startDate, activities, models, plannedCosts)
		completionDates = append(completionDates, date)
		totalCosts = append(totalCosts, cost)
	}

	sort.Slice(completionDates, func(i, j int) bool {
		return completionDates[i].Before(completionDates[j])
	})
	slices.Sort(totalCosts)

	dateConfidence := make(map[int]time.Time, len(confidenceLevels))
	costConfidence := make(map[int]float64, len(confidenceLevels))
	for _, c := range confidenceLevels {
		idx := confidenceIndex(iterations, c)
		dateConfidence[c] = completionDates[idx]
		costConfidence[c] = totalCosts[idx]
	}

	result := &SimulationResult{
		RunID:              uuid.NewString(),
		ProjectID:          projectObjectID,
		ProjectName:        proj.Name,
		Iterations:         iterations,
		MeanCompletionDate: meanDate(completionDates),
		DateConfidence:     dateConfidence,
		CompletionDates:    completionDates,
		CompletionStdDev:   dateStdDev(completionDates),
		MeanTotalCost:      mean(totalCosts),
		CostConfidence:     costConfidence,
		TotalCosts:         totalCosts,
		CostStdDev:         stdDev(totalCosts),
	}

	s.logger.Info("completed schedule risk analysis",
		"project", projectObjectID, "run_id", result.RunID,
		"mean_completion", result.MeanCompletionDate, "mean_cost", result.MeanTotalCost)

	return result, nil
}

// runIteration draws one sample per modeled activity and returns the
// simulated completion date and total cost.
func (s *Service) runIteration(startDate time.Time, activities []schedule.Activity, models map[string]durationModel, plannedCosts map[string]float64) (time.Time, float64) {
	var totalDuration, totalCost float64
	for _, a := range activities {
		model, ok := models[a.ObjectID]
		if !ok {
			continue
		}
		sampled := sampleTriangular(s.rng, model.optimistic, model.mostLikely, model.pessimistic)
		totalDuration += sampled
		totalCost += plannedCosts[a.ObjectID] * (sampled / model.mostLikely)
	}

	completion := startDate.Add(time.Duration(math.Ceil(totalDuration)) * time.Hour)
	return completion, totalCost
}

// buildDurationModels creates triangular models for activities with a
// positive defined duration; the rest contribute nothing to the
// simulated totals.
func buildDurationModels(activities []schedule.Activity) map[string]durationModel {
	models := make(map[string]durationModel, len(activities))
	for _, a := range activities {
		d := a.DurationHours()
		if d == nil || *d <= 0 {
			continue
		}
		models[a.ObjectID] = durationModel{
			optimistic:  *d * optimisticFactor,
			mostLikely:  *d,
			pessimistic: *d * pessimisticFactor,
		}
	}
	return models
}

// plannedCostByActivity sums planned assignment cost per activity. A
// failed lookup is logged and that activity contributes zero cost; it
// never aborts the analysis.
func (s *Service) plannedCostByActivity(ctx context.Context, activities []schedule.Activity) map[string]float64 {
	costs := make(map[string]float64, len(activities))
	for _, a := range activities {
		assignments, err := s.data.GetResourceAssignmentsForActivity(ctx, a.ObjectID)
		if err != nil {
			s.logger.Warn("could not get resource assignments for activity",
				"activity", a.ObjectID, "error", err)
			continue
		}
		costs[a.ObjectID] = schedule.RollupAssignments(assignments).PlannedCost
	}
	return costs
}

// simulationStart picks the anchor for simulated completion dates: the
// project start, falling back to the data date, then the clock.
func (s *Service) simulationStart(proj *schedule.Project) time.Time {
	if proj.StartDate != nil {
		return *proj.StartDate
	}
	if proj.DataDate != nil {
		return *proj.DataDate
	}
	return s.now()
}

// sampleTriangular draws from a triangular(min, mode, max) distribution
// by inverse CDF.
func sampleTriangular(rng Rand, min, mode, max float64) float64 {
	u := rng.Float64()
	f := (mode - min) / (max - min)
	if u < f {
		return min + math.Sqrt(u*(max-min)*(mode-min))
	}
	return max - math.Sqrt((1-u)*(max-min)*(max-mode))
}

// confidenceIndex maps a confidence percentage to a sorted-slice index:
// ceil(n*c/100)-1, clamped to [0, n-1]. Higher confidence never selects
// an earlier element.
func confidenceIndex(n, confidence int) int {
	idx := int(math.Ceil(float64(n)*float64(confidence)/100.0)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}

// ForecastCompletion extrapolates the completion date from activity
// progress: remaining duration scaled by a status-weighted SPI, added as
// days to the project data date.
func (s *Service) ForecastCompletion(ctx context.Context, projectObjectID string) (*CompletionForecast, error) {
	proj, err := s.data.GetProjectByID(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}

	spi := scheduleSPI(activities)
	remaining := remainingDuration(activities)

	adjusted := remaining
	if spi > 0 {
		adjusted = remaining / spi
	} else if remaining > 0 {
		s.logger.Warn("SPI is zero, forecasting with unadjusted remaining duration",
			"project", projectObjectID)
	}

	dataDate := s.now()
	if proj.DataDate != nil {
		dataDate = *proj.DataDate
	}

	forecast := &CompletionForecast{
		ProjectID:              projectObjectID,
		ProjectName:            proj.Name,
		SPI:                    spi,
		RemainingDuration:      remaining,
		AdjustedRemaining:      adjusted,
		DataDate:               dataDate,
		ForecastCompletionDate: dataDate.AddDate(0, 0, int(math.Ceil(adjusted))),
		OptimisticForecast:     dataDate.AddDate(0, 0, int(math.Ceil(adjusted*0.8))),
		PessimisticForecast:    dataDate.AddDate(0, 0, int(math.Ceil(adjusted*1.2))),
	}

	s.logger.Info("completion forecast",
		"project", proj.Name, "forecast", forecast.ForecastCompletionDate, "spi", spi)

	return forecast, nil
}

// ForecastBudget extrapolates estimate-at-completion from assignment
// progress. Confidence bands scale CPI by 0.9/0.85/0.8 for 80/90/95%.
func (s *Service) ForecastBudget(ctx context.Context, projectObjectID string) (*BudgetForecast, error) {
	proj, err := s.data.GetProjectByID(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}

	var assignments []schedule.ResourceAssignment
	for _, a := range activities {
		list, err := s.data.GetResourceAssignmentsForActivity(ctx, a.ObjectID)
		if err != nil {
			s.logger.Warn("could not get resource assignments for activity",
				"activity", a.ObjectID, "error", err)
			continue
		}
		assignments = append(assignments, list...)
	}

	cpi := costCPI(assignments)
	rollup := schedule.RollupAssignments(assignments)
	eac := rollup.ActualCost + rollup.RemainingCost/cpi

	forecast := &BudgetForecast{
		ProjectID:     projectObjectID,
		ProjectName:   proj.Name,
		CPI:           cpi,
		PlannedCost:   rollup.PlannedCost,
		ActualCost:    rollup.ActualCost,
		RemainingCost: rollup.RemainingCost,
		EAC:           eac,
		EAC80:         rollup.ActualCost + rollup.RemainingCost/(cpi*0.9),
		EAC90:         rollup.ActualCost + rollup.RemainingCost/(cpi*0.85),
		EAC95:         rollup.ActualCost + rollup.RemainingCost/(cpi*0.8),
		Variance:      rollup.PlannedCost - eac,
	}

	s.logger.Info("budget forecast", "project", proj.Name, "eac", eac, "cpi", cpi)

	return forecast, nil
}

// scheduleSPI weights earned duration by status: full for completed,
// half for in progress. Defaults to 1.0 when nothing is planned.
func scheduleSPI(activities []schedule.Activity) float64 {
	var planned, earned float64
	for _, a := range activities {
		d := a.DurationHours()
		if d == nil || *d <= 0 {
			continue
		}
		planned += *d
		switch a.Status {
		case schedule.StatusCompleted:
			earned += *d
		case schedule.StatusInProgress:
			earned += *d * inProgressWeight
		}
	}
	if planned > 0 {
		return earned / planned
	}
	return 1.0
}

// remainingDuration sums unfinished work: full duration for not-started
// activities, half for in-progress ones.
func remainingDuration(activities []schedule.Activity) float64 {
	var remaining float64
	for _, a := range activities {
		if a.Status == schedule.StatusCompleted {
			continue
		}
		d := a.DurationHours()
		if d == nil {
			continue
		}
		if a.Status == schedule.StatusInProgress {
			remaining += *d * inProgressWeight
		} else {
			remaining += *d
		}
	}
	return remaining
}

// costCPI is earned value over actual cost, where per-assignment earned
// value is planned cost scaled by capped units progress. Defaults to 1.0
// when no actual cost has been booked.
func costCPI(assignments []schedule.ResourceAssignment) float64 {
	var actualCost, earnedValue float64
	for _, a := range assignments {
		if a.ActualCost != nil {
			actualCost += *a.ActualCost
		}
		if a.PlannedCost != nil && a.ActualUnits != nil && a.PlannedUnits != nil && *a.PlannedUnits > 0 {
			progress := math.Min(*a.ActualUnits / *a.PlannedUnits, 1.0)
			earnedValue += *a.PlannedCost * progress
		}
	}
	if actualCost > 0 {
		return earnedValue / actualCost
	}
	return 1.0
}

// meanDate averages millisecond timestamps.
func meanDate(dates []time.Time) time.Time {
	var sum int64
	for _, d := range dates {
		sum += d.UnixMilli()
	}
	return time.UnixMilli(sum / int64(len(dates))).UTC()
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation (divide by N).
func stdDev(values []float64) float64 {
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		diff := v - m
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// dateStdDev is the population standard deviation of millisecond
// timestamps, expressed as a duration.
func dateStdDev(dates []time.Time) time.Duration {
	millis := make([]float64, len(dates))
	for i, d := range dates {
		millis[i] = float64(d.UnixMilli())
	}
	return time.Duration(stdDev(millis)) * time.Millisecond
}
