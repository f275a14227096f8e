package provider

import (
	"context"

	"github.com/rpggio/p6risk/internal/domain/schedule"
)

// DataProvider supplies P6 schedule snapshots to the analytics engine.
// Implementations own retrieval, caching and retry concerns; the engine
// only reads. All methods return fresh value snapshots the engine never
// mutates.
type DataProvider interface {
	GetProjectByID(ctx context.Context, projectObjectID string) (*schedule.Project, error)
	GetAllProjects(ctx context.Context) ([]schedule.Project, error)
	GetActivitiesForProject(ctx context.Context, projectObjectID string) ([]schedule.Activity, error)
	GetResourceAssignmentsForActivity(ctx context.Context, activityObjectID string) ([]schedule.ResourceAssignment, error)
	GetResourceAssignmentsForProject(ctx context.Context, projectObjectID string) ([]schedule.ResourceAssignment, error)
	GetAllResources(ctx context.Context) ([]schedule.Resource, error)

	// CalculateResourceAllocation returns the pre-computed allocation
	// percentage per resource name. The engine consumes it as-is.
	CalculateResourceAllocation(ctx context.Context) (map[string]float64, error)
}
