package resources_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpggio/p6risk/internal/domain/resources"
	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider/mocks"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(v float64) *float64 { return &v }

func TestUtilizationByMonth_SingleMonth(t *testing.T) {
	assignments := []schedule.ResourceAssignment{
		{
			ResourceName:      "Alice",
			PlannedUnits:      floatPtr(120),
			PlannedStartDate:  timePtr(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)),
			PlannedFinishDate: timePtr(time.Date(2024, 3, 28, 0, 0, 0, 0, time.UTC)),
		},
	}

	data := &mocks.DataProvider{}
	data.On("GetAllResources", context.Background()).
		Return([]schedule.Resource{{ObjectID: "R1", Name: "Alice"}}, nil)
	data.On("GetAllProjects", context.Background()).
		Return([]schedule.Project{{ObjectID: "P1", Name: "Plant"}}, nil)
	data.On("GetResourceAssignmentsForProject", context.Background(), "P1").Return(assignments, nil)

	svc := resources.NewService(data, nil)
	utilization, err := svc.UtilizationByMonth(context.Background())
	require.NoError(t, err)

	require.Len(t, utilization["Alice"], 1)
	require.InDelta(t, 120.0, utilization["Alice"]["2024-03"], 1e-9)
}

func TestUtilizationByMonth_SpreadAcrossThreeMonths(t *testing.T) {
	assignments := []schedule.ResourceAssignment{
		{
			ResourceName:      "Bob",
			PlannedUnits:      floatPtr(90),
			PlannedStartDate:  timePtr(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)),
			PlannedFinishDate: timePtr(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
		},
		// Missing planned units: skipped entirely.
		{
			ResourceName:      "Bob",
			PlannedStartDate:  timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			PlannedFinishDate: timePtr(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
		},
		// Missing resource name: skipped.
		{
			PlannedUnits:      floatPtr(40),
			PlannedStartDate:  timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
			PlannedFinishDate: timePtr(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)),
		},
	}

	data := &mocks.DataProvider{}
	data.On("GetAllResources", context.Background()).
		Return([]schedule.Resource{{ObjectID: "R2", Name: "Bob"}}, nil)
	data.On("GetAllProjects", context.Background()).
		Return([]schedule.Project{{ObjectID: "P1", Name: "Plant"}}, nil)
	data.On("GetResourceAssignmentsForProject", context.Background(), "P1").Return(assignments, nil)

	svc := resources.NewService(data, nil)
	utilization, err := svc.UtilizationByMonth(context.Background())
	require.NoError(t, err)

	bob := utilization["Bob"]
	require.Len(t, bob, 3)
	require.InDelta(t, 30.0, bob["2024-01"], 1e-9)
	require.InDelta(t, 30.0, bob["2024-02"], 1e-9)
	require.InDelta(t, 30.0, bob["2024-03"], 1e-9)
}

func TestUtilizationByMonth_ProjectFailureSkipped(t *testing.T) {
	data := &mocks.DataProvider{}
	data.On("GetAllResources", context.Background()).
		Return([]schedule.Resource{{ObjectID: "R1", Name: "Alice"}}, nil)
	data.On("GetAllProjects", context.Background()).
		Return([]schedule.Project{
			{ObjectID: "P1", Name: "Broken"},
			{ObjectID: "P2", Name: "Fine"},
		}, nil)
	data.On("GetResourceAssignmentsForProject", context.Background(), "P1").
		Return(nil, errors.New("upstream error"))
	data.On("GetResourceAssignmentsForProject", context.Background(), "P2").
		Return([]schedule.ResourceAssignment{
			{
				ResourceName:      "Alice",
				PlannedUnits:      floatPtr(10),
				PlannedStartDate:  timePtr(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
				PlannedFinishDate: timePtr(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)),
			},
		}, nil)

	svc := resources.NewService(data, nil)
	utilization, err := svc.UtilizationByMonth(context.Background())
	require.NoError(t, err)
	require.InDelta(t, 10.0, utilization["Alice"]["2024-05"], 1e-9)
}

func TestOverallocatedResources(t *testing.T) {
	data := &mocks.DataProvider{}
	data.On("CalculateResourceAllocation", context.Background()).
		Return(map[string]float64{
			"Alice": 140,
			"Bob":   100,
			"Carol": 60,
			"Dave":  100.5,
		}, nil)

	svc := resources.NewService(data, nil)
	overallocated, err := svc.OverallocatedResources(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"Alice": 140, "Dave": 100.5}, overallocated)
}

func TestCostsByProject(t *testing.T) {
	data := &mocks.DataProvider{}
	data.On("GetAllProjects", context.Background()).
		Return([]schedule.Project{{ObjectID: "P1", Name: "Plant"}}, nil)
	data.On("GetResourceAssignmentsForProject", context.Background(), "P1").
		Return([]schedule.ResourceAssignment{
			{ResourceName: "Alice", PlannedCost: floatPtr(500)},
			{ResourceName: "Alice", PlannedCost: floatPtr(250)},
			{ResourceName: "Bob", PlannedCost: floatPtr(100)},
			{ResourceName: "Bob"},        // no cost, ignored
			{PlannedCost: floatPtr(999)}, // no name, ignored
		}, nil)

	svc := resources.NewService(data, nil)
	costs, err := svc.CostsByProject(context.Background())
	require.NoError(t, err)
	require.Equal(t, map[string]float64{"Alice": 750, "Bob": 100}, costs["Plant"])
}
