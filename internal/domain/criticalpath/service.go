package criticalpath

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// maxFloatHours bounds the placeholder float values.
const maxFloatHours = 40.0

// Rand is the subset of math/rand the float placeholder draws from.
type Rand interface {
	Float64() float64
}

// Service approximates critical-path analysis for a project. The P6
// export carries no predecessor/successor links, so this is a duration
// ranking, not CPM network analysis: the top quartile of activities by
// duration is treated as critical.
type Service struct {
	data   provider.DataProvider
	logger *slog.Logger
	rng    Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand overrides the generator behind ActivityFloat. Tests seed it.
func WithRand(rng Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// NewService creates a new critical path service.
func NewService(data provider.DataProvider, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		data:   data,
		logger: logger,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IdentifyCriticalPath returns the top quartile of activities by
// duration, longest first. At least one activity is returned when any
// activity has a defined duration; ties keep retrieval order.
func (s *Service) IdentifyCriticalPath(ctx context.Context, projectObjectID string) ([]schedule.Activity, error) {
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}

	withDuration := make([]schedule.Activity, 0, len(activities))
	for _, a := range activities {
		if a.DurationHours() != nil {
			withDuration = append(withDuration, a)
		}
	}
	if len(withDuration) == 0 {
		return []schedule.Activity{}, nil
	}

	sort.SliceStable(withDuration, func(i, j int) bool {
		return *withDuration[i].DurationHours() > *withDuration[j].DurationHours()
	})

	criticalCount := len(withDuration) / 4
	if criticalCount < 1 {
		criticalCount = 1
	}

	s.logger.Debug("identified critical set",
		"project", projectObjectID, "candidates", len(withDuration), "critical", criticalCount)

	return withDuration[:criticalCount], nil
}

// ActivityFloat returns float hours per activity ID. The values are a
// stand-in drawn uniformly from [0, maxFloatHours); real ES/EF/LS/LF
// float needs relationship data the export does not include. The
// generator is injectable so callers can make the output reproducible.
func (s *Service) ActivityFloat(ctx context.Context, projectObjectID string) (map[string]float64, error) {
	activities, err := s.data.GetActivitiesForProject(ctx, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("getting activities: %w", err)
	}

	floats := make(map[string]float64, len(activities))
	for _, a := range activities {
		floats[a.ID] = s.rng.Float64() * maxFloatHours
	}
	return floats, nil
}
