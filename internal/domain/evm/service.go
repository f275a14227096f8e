package evm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// Metric keys present in the result map. BAC, PV, AC and EV are always
// present; the derived indices appear only when their denominators are
// positive.
const (
	KeyBAC = "BAC"
	KeyPV  = "PV"
	KeyAC  = "AC"
	KeyEV  = "EV"
	KeySPI = "SPI"
	KeySV  = "SV"
	KeyCPI = "CPI"
	KeyCV  = "CV"
	KeyEAC = "EAC"
	KeyETC = "ETC"
	KeyVAC = "VAC"
)

// Service computes earned-value metrics for a project.
type Service struct {
	data   provider.DataProvider
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithNow overrides the clock used for the planned-value elapsed
// fraction. Tests use this to pin "today".
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new earned-value service.
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

// Metrics calculates EVM metrics for a project. Division by zero never
// surfaces as an error: a derived metric whose preconditions fail is
// simply absent from the map.
func (s *Service) Metrics(ctx context.Context, projectObjectID string) (map[string]float64, error) {
	proj, err := s.data.GetProjectByID(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}
	assignments, err := s.data.GetResourceAssignmentsForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting resource assignments: %w", err)
	}

	rollup := schedule.RollupAssignments(assignments)
	bac := rollup.PlannedCost
	ac := rollup.ActualCost
	pv := bac * s.elapsedFraction(proj)
	ev := earnedValue(activities, bac)

	metrics := map[string]float64{
		KeyBAC: bac,
		KeyPV:  pv,
		KeyAC:  ac,
		KeyEV:  ev,
	}

	if pv > 0 {
		metrics[KeySPI] = ev / pv
		metrics[KeySV] = ev - pv
	}
	if ac > 0 {
		metrics[KeyCPI] = ev / ac
		metrics[KeyCV] = ev - ac
	}
	if ac > 0 && pv > 0 {
		cpi := ev / ac
		eac := bac / cpi
		metrics[KeyEAC] = eac
		metrics[KeyETC] = (bac - ev) / cpi
		metrics[KeyVAC] = bac - eac
	}

	s.logger.Debug("calculated EVM metrics",
		"project", projectObjectID, "bac", bac, "pv", pv, "ac", ac, "ev", ev)

	return metrics, nil
}

// elapsedFraction returns how far through its planned window the project
// is, clamped to [0, 1]. Missing dates or a non-positive window yield 0.
func (s *Service) elapsedFraction(proj *schedule.Project) float64 {
	if proj.StartDate == nil || proj.FinishDate == nil {
		return 0
	}
	total := proj.FinishDate.Sub(*proj.StartDate)
	if total <= 0 {
		return 0
	}
	elapsed := s.now().Sub(*proj.StartDate)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= total {
		return 1
	}
	return float64(elapsed) / float64(total)
}

// earnedValue scales BAC by the fraction of completed activities.
func earnedValue(activities []schedule.Activity, bac float64) float64 {
	if len(activities) == 0 {
		return 0
	}
	completed := 0
	for _, a := range activities {
		if a.Status == schedule.StatusCompleted {
			completed++
		}
	}
	return bac * float64(completed) / float64(len(activities))
}
