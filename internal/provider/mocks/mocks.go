package mocks

import (
	"context"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/stretchr/testify/mock"
)

// DataProvider is a mock for provider.DataProvider.
type DataProvider struct {
	mock.Mock
}

func (m *DataProvider) GetProjectByID(ctx context.Context, projectObjectID string) (*schedule.Project, error) {
	args := m.Called(ctx, projectObjectID)
	if proj, ok := args.Get(0).(*schedule.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DataProvider) GetAllProjects(ctx context.Context) ([]schedule.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]schedule.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DataProvider) GetActivitiesForProject(ctx context.Context, projectObjectID string) ([]schedule.Activity, error) {
	args := m.Called(ctx, projectObjectID)
	if list, ok := args.Get(0).([]schedule.Activity); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DataProvider) GetResourceAssignmentsForActivity(ctx context.Context, activityObjectID string) ([]schedule.ResourceAssignment, error) {
	args := m.Called(ctx, activityObjectID)
	if list, ok := args.Get(0).([]schedule.ResourceAssignment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DataProvider) GetResourceAssignmentsForProject(ctx context.Context, projectObjectID string) ([]schedule.ResourceAssignment, error) {
	args := m.Called(ctx, projectObjectID)
	if list, ok := args.Get(0).([]schedule.ResourceAssignment); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DataProvider) GetAllResources(ctx context.Context) ([]schedule.Resource, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]schedule.Resource); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DataProvider) CalculateResourceAllocation(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if alloc, ok := args.Get(0).(map[string]float64); ok {
		return alloc, args.Error(1)
	}
	return nil, args.Error(1)
}
