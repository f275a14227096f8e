package evm_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/p6risk/internal/domain/evm"
	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
	"github.com/rpggio/p6risk/internal/provider/mocks"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(v float64) *float64 { return &v }

func fixedNow(t time.Time) evm.Option {
	return evm.WithNow(func() time.Time { return t })
}

func setupProvider(t *testing.T, proj *schedule.Project, activities []schedule.Activity, assignments []schedule.ResourceAssignment) *mocks.DataProvider {
	t.Helper()
	data := &mocks.DataProvider{}
	data.On("GetProjectByID", context.Background(), proj.ObjectID).Return(proj, nil)
	data.On("GetActivitiesForProject", context.Background(), proj.ObjectID).Return(activities, nil)
	data.On("GetResourceAssignmentsForProject", context.Background(), proj.ObjectID).Return(assignments, nil)
	return data
}

func TestMetrics_MidProject(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	proj := &schedule.Project{ObjectID: "P1", Name: "Plant", StartDate: timePtr(start), FinishDate: timePtr(finish)}

	activities := []schedule.Activity{
		{ObjectID: "A1", Status: schedule.StatusCompleted},
		{ObjectID: "A2", Status: schedule.StatusInProgress},
	}
	assignments := []schedule.ResourceAssignment{
		{PlannedCost: floatPtr(600), ActualCost: floatPtr(200)},
		{PlannedCost: floatPtr(400), ActualCost: floatPtr(100)},
	}

	// Exactly half way through the project window.
	halfway := start.Add(finish.Sub(start) / 2)
	svc := evm.NewService(setupProvider(t, proj, activities, assignments), nil, fixedNow(halfway))

	metrics, err := svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)

	require.Equal(t, 1000.0, metrics[evm.KeyBAC])
	require.InDelta(t, 500.0, metrics[evm.KeyPV], 1e-9)
	require.Equal(t, 300.0, metrics[evm.KeyAC])
	require.Equal(t, 500.0, metrics[evm.KeyEV]) // 1 of 2 completed

	require.InDelta(t, 1.0, metrics[evm.KeySPI], 1e-9)
	require.InDelta(t, 0.0, metrics[evm.KeySV], 1e-9)
	require.InDelta(t, 500.0/300.0, metrics[evm.KeyCPI], 1e-9)
	require.InDelta(t, 200.0, metrics[evm.KeyCV], 1e-9)
	require.InDelta(t, 1000.0/(500.0/300.0), metrics[evm.KeyEAC], 1e-9)
	require.InDelta(t, 500.0/(500.0/300.0), metrics[evm.KeyETC], 1e-9)
	require.InDelta(t, 1000.0-1000.0/(500.0/300.0), metrics[evm.KeyVAC], 1e-9)
}

func TestMetrics_DerivedOmittedWhenPVZero(t *testing.T) {
	// No project dates: PV = 0, so SPI/SV and the EAC family are absent.
	proj := &schedule.Project{ObjectID: "P1", Name: "Undated"}
	activities := []schedule.Activity{{ObjectID: "A1", Status: schedule.StatusCompleted}}
	assignments := []schedule.ResourceAssignment{{PlannedCost: floatPtr(100), ActualCost: floatPtr(50)}}

	svc := evm.NewService(setupProvider(t, proj, activities, assignments), nil)
	metrics, err := svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)

	require.Equal(t, 0.0, metrics[evm.KeyPV])
	require.NotContains(t, metrics, evm.KeySPI)
	require.NotContains(t, metrics, evm.KeySV)
	require.NotContains(t, metrics, evm.KeyEAC)
	require.NotContains(t, metrics, evm.KeyETC)
	require.NotContains(t, metrics, evm.KeyVAC)
	require.Contains(t, metrics, evm.KeyCPI)
	require.Contains(t, metrics, evm.KeyCV)
}

func TestMetrics_DerivedOmittedWhenACZero(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	proj := &schedule.Project{ObjectID: "P1", StartDate: timePtr(start), FinishDate: timePtr(finish)}
	activities := []schedule.Activity{{ObjectID: "A1", Status: schedule.StatusCompleted}}
	assignments := []schedule.ResourceAssignment{{PlannedCost: floatPtr(100)}}

	svc := evm.NewService(setupProvider(t, proj, activities, assignments), nil,
		fixedNow(start.AddDate(0, 6, 0)))
	metrics, err := svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)

	require.NotContains(t, metrics, evm.KeyCPI)
	require.NotContains(t, metrics, evm.KeyCV)
	require.NotContains(t, metrics, evm.KeyEAC)
	require.Contains(t, metrics, evm.KeySPI)
}

func TestMetrics_ZeroBAC(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	proj := &schedule.Project{ObjectID: "P1", StartDate: timePtr(start), FinishDate: timePtr(finish)}
	activities := []schedule.Activity{{ObjectID: "A1", Status: schedule.StatusCompleted}}

	svc := evm.NewService(setupProvider(t, proj, activities, nil), nil,
		fixedNow(start.AddDate(0, 6, 0)))
	metrics, err := svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)

	require.Equal(t, 0.0, metrics[evm.KeyBAC])
	require.Equal(t, 0.0, metrics[evm.KeyPV])
	require.Equal(t, 0.0, metrics[evm.KeyEV])
}

func TestMetrics_ElapsedFractionClamped(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	proj := &schedule.Project{ObjectID: "P1", StartDate: timePtr(start), FinishDate: timePtr(finish)}
	assignments := []schedule.ResourceAssignment{{PlannedCost: floatPtr(100)}}

	// Long after the finish date: PV caps at BAC.
	svc := evm.NewService(setupProvider(t, proj, nil, assignments), nil,
		fixedNow(finish.AddDate(1, 0, 0)))
	metrics, err := svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)
	require.Equal(t, 100.0, metrics[evm.KeyPV])

	// Before the start date: PV is 0, not negative.
	svc = evm.NewService(setupProvider(t, proj, nil, assignments), nil,
		fixedNow(start.AddDate(0, 0, -10)))
	metrics, err = svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)
	require.Equal(t, 0.0, metrics[evm.KeyPV])
}

func TestMetrics_InvertedProjectWindow(t *testing.T) {
	// Finish before start must be tolerated: PV degrades to 0.
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	proj := &schedule.Project{ObjectID: "P1", StartDate: timePtr(start), FinishDate: timePtr(finish)}

	svc := evm.NewService(setupProvider(t, proj, nil, nil), nil)
	metrics, err := svc.Metrics(context.Background(), "P1")
	require.NoError(t, err)
	require.Equal(t, 0.0, metrics[evm.KeyPV])
}

func TestMetrics_ProjectNotFound(t *testing.T) {
	data := &mocks.DataProvider{}
	data.On("GetProjectByID", context.Background(), "missing").
		Return((*schedule.Project)(nil), provider.ErrNotFound)

	svc := evm.NewService(data, nil)
	_, err := svc.Metrics(context.Background(), "missing")
	require.ErrorIs(t, err, provider.ErrNotFound)
}
