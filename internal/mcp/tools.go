package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/p6risk/internal/domain/health"
	"github.com/rpggio/p6risk/internal/domain/montecarlo"
)

// registerTools registers all analysis tools on the server.
func registerTools(server *sdkmcp.Server, svcs Services, defaultIterations int) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_schedule_risk_analysis",
		Description: "Run a Monte Carlo schedule risk analysis for a project, producing completion date and cost distributions with confidence levels",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params RunScheduleRiskAnalysisParams) (*sdkmcp.CallToolResult, *ScheduleRiskAnalysisResult, error) {
		iterations := params.Iterations
		if iterations == 0 {
			iterations = defaultIterations
		}
		sim, err := svcs.MonteCarlo.PerformScheduleRiskAnalysis(ctx, params.ProjectID, iterations, params.ConfidenceLevels)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, newScheduleRiskAnalysisResult(sim), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "forecast_completion",
		Description: "Forecast a project's completion date from its current schedule performance index (SPI)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectParams) (*sdkmcp.CallToolResult, *montecarlo.CompletionForecast, error) {
		forecast, err := svcs.MonteCarlo.ForecastCompletion(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, forecast, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "forecast_budget",
		Description: "Forecast a project's estimate at completion (EAC) from its current cost performance index (CPI)",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectParams) (*sdkmcp.CallToolResult, *montecarlo.BudgetForecast, error) {
		forecast, err := svcs.MonteCarlo.ForecastBudget(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, forecast, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_evm_metrics",
		Description: "Get earned value management metrics (BAC, PV, EV, AC, SPI, CPI, EAC, ETC, VAC) for a project; metrics that cannot be computed are omitted",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectParams) (*sdkmcp.CallToolResult, *EVMMetricsResult, error) {
		metrics, err := svcs.EVM.Metrics(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &EVMMetricsResult{ProjectID: params.ProjectID, Metrics: metrics}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_critical_path",
		Description: "Get the longest-duration activities that drive a project's finish date",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectParams) (*sdkmcp.CallToolResult, *CriticalPathResult, error) {
		activities, err := svcs.CriticalPath.IdentifyCriticalPath(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &CriticalPathResult{ProjectID: params.ProjectID, Activities: activities}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_activity_float",
		Description: "Get estimated total float in hours per activity for a project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectParams) (*sdkmcp.CallToolResult, *ActivityFloatResult, error) {
		floats, err := svcs.CriticalPath.ActivityFloat(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &ActivityFloatResult{ProjectID: params.ProjectID, FloatHours: floats}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_resource_utilization",
		Description: "Get planned units per resource per month across all projects",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, *ResourceUtilizationResult, error) {
		utilization, err := svcs.Resources.UtilizationByMonth(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &ResourceUtilizationResult{Utilization: utilization}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_overallocated_resources",
		Description: "Get resources whose allocation exceeds 100 percent",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, *OverallocatedResourcesResult, error) {
		resources, err := svcs.Resources.OverallocatedResources(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &OverallocatedResourcesResult{Resources: resources}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_resource_costs_by_project",
		Description: "Get planned cost per resource broken down by project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, *ResourceCostsResult, error) {
		costs, err := svcs.Resources.CostsByProject(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &ResourceCostsResult{Costs: costs}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project_health",
		Description: "Get a composite 0-100 health score for a project with schedule, cost, resource and risk components",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params ProjectParams) (*sdkmcp.CallToolResult, *health.Score, error) {
		score, err := svcs.Health.ProjectHealth(ctx, params.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, score, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_portfolio_health",
		Description: "Get the overall health score for every project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, *PortfolioHealthResult, error) {
		scores, err := svcs.Health.AllProjectsHealth(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &PortfolioHealthResult{Scores: scores}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_portfolio_statistics",
		Description: "Get portfolio-wide statistics: project and activity counts, overdue and upcoming projects, timeline, and duration totals",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, *PortfolioStatisticsResult, error) {
		result, err := buildPortfolioStatistics(ctx, svcs.Statistics)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, result, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects in the snapshot",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, params EmptyParams) (*sdkmcp.CallToolResult, *ListProjectsResult, error) {
		projects, err := svcs.Projects.GetAllProjects(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return nil, &ListProjectsResult{Projects: projects}, nil
	})
}

const mostActiveProjectsLimit = 5

func buildPortfolioStatistics(ctx context.Context, stats StatisticsService) (*PortfolioStatisticsResult, error) {
	result := &PortfolioStatisticsResult{}
	var err error

	if result.ProjectCountByStatus, err = stats.ProjectCountByStatus(ctx); err != nil {
		return nil, err
	}
	if result.ActivityCountByType, err = stats.ActivityCountByType(ctx); err != nil {
		return nil, err
	}
	if result.ActivityCountByStatus, err = stats.ActivityCountByStatus(ctx); err != nil {
		return nil, err
	}
	if result.OverdueProjects, err = stats.OverdueProjects(ctx); err != nil {
		return nil, err
	}
	if result.UpcomingProjects, err = stats.UpcomingProjects(ctx); err != nil {
		return nil, err
	}
	if result.TimelineByMonth, err = stats.ProjectsTimelineByMonth(ctx); err != nil {
		return nil, err
	}
	if result.MostActiveProjects, err = stats.ProjectsWithMostActivities(ctx, mostActiveProjectsLimit); err != nil {
		return nil, err
	}
	if result.TotalDurationByProject, err = stats.TotalDurationByProject(ctx); err != nil {
		return nil, err
	}
	if result.Summary, err = stats.PortfolioSummary(ctx); err != nil {
		return nil, err
	}
	return result, nil
}
