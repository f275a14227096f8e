package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

func timeRef(t time.Time) *time.Time { return &t }
func floatRef(f float64) *float64    { return &f }

func testSnapshot() provider.Snapshot {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	dataDate := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	return provider.Snapshot{
		Projects: []schedule.Project{
			{
				ObjectID:   "1001",
				ID:         "PRJ-A",
				Name:       "Terminal Expansion",
				Status:     "Active",
				StartDate:  timeRef(start),
				FinishDate: timeRef(finish),
				DataDate:   timeRef(dataDate),
			},
			{
				ObjectID: "1002",
				ID:       "PRJ-B",
				Name:     "Runway Resurfacing",
			},
		},
		Activities: []schedule.Activity{
			{
				ObjectID:             "2001",
				ID:                   "A100",
				Name:                 "Mobilize",
				ProjectObjectID:      "1001",
				StartDate:            timeRef(start),
				FinishDate:           timeRef(start.Add(40 * time.Hour)),
				Status:               schedule.StatusCompleted,
				Type:                 "Task Dependent",
				PlannedDurationHours: floatRef(40),
			},
			{
				ObjectID:        "2002",
				ID:              "A110",
				Name:            "Excavation",
				ProjectObjectID: "1001",
				Status:          schedule.StatusInProgress,
			},
		},
		Assignments: []schedule.ResourceAssignment{
			{
				ObjectID:         "3001",
				ActivityObjectID: "2001",
				ProjectObjectID:  "1001",
				ResourceName:     "Crane Crew",
				PlannedUnits:     floatRef(80),
				ActualUnits:      floatRef(80),
				PlannedCost:      floatRef(12000),
				ActualCost:       floatRef(11500),
				PlannedStartDate: timeRef(start),
			},
			{
				ObjectID:         "3002",
				ActivityObjectID: "2002",
				ProjectObjectID:  "1001",
				ResourceName:     "Excavator",
				PlannedUnits:     floatRef(160),
			},
		},
		Resources: []schedule.Resource{
			{
				ObjectID:     "4001",
				ID:           "R1",
				Name:         "Crane Crew",
				ResourceType: "Labor",
				PricePerUnit: floatRef(150),
				IsActive:     true,
			},
		},
		Allocation: map[string]float64{
			"Crane Crew": 110,
			"Excavator":  45,
		},
	}
}

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	db := NewTestDB(t)
	require.NoError(t, db.ImportSnapshot(context.Background(), testSnapshot()))
	return NewProvider(db)
}

func TestGetProjectByID(t *testing.T) {
	p := newTestProvider(t)

	proj, err := p.GetProjectByID(context.Background(), "1001")
	require.NoError(t, err)
	require.Equal(t, "Terminal Expansion", proj.Name)
	require.Equal(t, "PRJ-A", proj.ID)
	require.Equal(t, "Active", proj.Status)
	require.NotNil(t, proj.StartDate)
	require.True(t, proj.StartDate.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, proj.DataDate)
}

func TestGetProjectByIDNotFound(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.GetProjectByID(context.Background(), "9999")
	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestGetAllProjects(t *testing.T) {
	p := newTestProvider(t)

	projects, err := p.GetAllProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	require.Equal(t, "1001", projects[0].ObjectID)
	require.Equal(t, "1002", projects[1].ObjectID)

	// Missing dates come back nil, not zero
	require.Nil(t, projects[1].StartDate)
	require.Empty(t, projects[1].Status)
}

func TestGetActivitiesForProject(t *testing.T) {
	p := newTestProvider(t)

	activities, err := p.GetActivitiesForProject(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, activities, 2)

	// Import order is preserved
	require.Equal(t, "2001", activities[0].ObjectID)
	require.Equal(t, "2002", activities[1].ObjectID)

	require.Equal(t, schedule.StatusCompleted, activities[0].Status)
	require.NotNil(t, activities[0].PlannedDurationHours)
	require.Equal(t, 40.0, *activities[0].PlannedDurationHours)
	require.Nil(t, activities[1].PlannedDurationHours)
	require.Nil(t, activities[1].StartDate)
}

func TestGetActivitiesForProjectEmpty(t *testing.T) {
	p := newTestProvider(t)

	activities, err := p.GetActivitiesForProject(context.Background(), "1002")
	require.NoError(t, err)
	require.Empty(t, activities)
}

func TestGetResourceAssignmentsForActivity(t *testing.T) {
	p := newTestProvider(t)

	assignments, err := p.GetResourceAssignmentsForActivity(context.Background(), "2001")
	require.NoError(t, err)
	require.Len(t, assignments, 1)

	a := assignments[0]
	require.Equal(t, "Crane Crew", a.ResourceName)
	require.Equal(t, 80.0, *a.PlannedUnits)
	require.Equal(t, 11500.0, *a.ActualCost)
	require.Nil(t, a.RemainingCost)
	require.NotNil(t, a.PlannedStartDate)
	require.Nil(t, a.ActualFinishDate)
}

func TestGetResourceAssignmentsForProject(t *testing.T) {
	p := newTestProvider(t)

	assignments, err := p.GetResourceAssignmentsForProject(context.Background(), "1001")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	require.Equal(t, "3001", assignments[0].ObjectID)
	require.Equal(t, "3002", assignments[1].ObjectID)
}

func TestGetAllResources(t *testing.T) {
	p := newTestProvider(t)

	resources, err := p.GetAllResources(context.Background())
	require.NoError(t, err)
	require.Len(t, resources, 1)
	require.Equal(t, "Crane Crew", resources[0].Name)
	require.Equal(t, 150.0, *resources[0].PricePerUnit)
	require.True(t, resources[0].IsActive)
}

func TestCalculateResourceAllocation(t *testing.T) {
	p := newTestProvider(t)

	allocation, err := p.CalculateResourceAllocation(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]float64{
		"Crane Crew": 110,
		"Excavator":  45,
	}, allocation)
}

func TestImportSnapshotReplaces(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.ImportSnapshot(ctx, testSnapshot()))

	// A second import fully replaces the first
	replacement := provider.Snapshot{
		Projects: []schedule.Project{
			{ObjectID: "5001", ID: "PRJ-C", Name: "Fuel Farm"},
		},
	}
	require.NoError(t, db.ImportSnapshot(ctx, replacement))

	p := NewProvider(db)
	projects, err := p.GetAllProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "5001", projects[0].ObjectID)

	allocation, err := p.CalculateResourceAllocation(ctx)
	require.NoError(t, err)
	require.Empty(t, allocation)
}
