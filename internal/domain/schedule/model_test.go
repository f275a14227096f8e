package schedule_test

import (
	"testing"
	"time"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(v float64) *float64 { return &v }

func TestDurationHours_ExplicitWins(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	act := schedule.Activity{
		PlannedDurationHours: floatPtr(80),
		StartDate:            timePtr(start),
		FinishDate:           timePtr(start.Add(24 * time.Hour)),
	}

	d := act.DurationHours()
	require.NotNil(t, d)
	require.Equal(t, 80.0, *d)
}

func TestDurationHours_ComputedFromDates(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	act := schedule.Activity{
		StartDate:  timePtr(start),
		FinishDate: timePtr(start.Add(36 * time.Hour)),
	}

	d := act.DurationHours()
	require.NotNil(t, d)
	require.Equal(t, 36.0, *d)
}

func TestDurationHours_NonNegativeWhenFinishAfterStart(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	act := schedule.Activity{
		StartDate:  timePtr(start),
		FinishDate: timePtr(start),
	}

	d := act.DurationHours()
	require.NotNil(t, d)
	require.GreaterOrEqual(t, *d, 0.0)
}

func TestDurationHours_UndefinedWithoutDates(t *testing.T) {
	act := schedule.Activity{Name: "no dates"}
	require.Nil(t, act.DurationHours())
}

func TestRollupAssignments_AbsentFieldsAreZero(t *testing.T) {
	assignments := []schedule.ResourceAssignment{
		{
			PlannedCost:  floatPtr(1000),
			ActualCost:   floatPtr(400),
			PlannedUnits: floatPtr(80),
		},
		{
			PlannedCost:    floatPtr(500),
			RemainingCost:  floatPtr(300),
			ActualUnits:    floatPtr(20),
			RemainingUnits: floatPtr(10),
		},
		{}, // all fields absent
	}

	r := schedule.RollupAssignments(assignments)
	require.Equal(t, 1500.0, r.PlannedCost)
	require.Equal(t, 400.0, r.ActualCost)
	require.Equal(t, 300.0, r.RemainingCost)
	require.Equal(t, 80.0, r.PlannedUnits)
	require.Equal(t, 20.0, r.ActualUnits)
	require.Equal(t, 10.0, r.RemainingUnits)
}

func TestRollupAssignments_Empty(t *testing.T) {
	require.Zero(t, schedule.RollupAssignments(nil))
}
