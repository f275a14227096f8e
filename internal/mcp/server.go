package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/p6risk/internal/domain/health"
	"github.com/rpggio/p6risk/internal/domain/montecarlo"
	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/domain/statistics"
)

const serverInstructions = `p6risk exposes schedule analytics over a Primavera P6 data snapshot.

Core concepts:
- Project/Activity/ResourceAssignment/Resource mirror the P6 export; object IDs are the stable keys.
- Schedule risk analysis is a Monte Carlo simulation over triangular activity duration distributions.
- EVM metrics (PV, EV, AC, SPI, CPI, EAC...) follow standard earned value management definitions.

Typical workflow:
1) Orient: call list_projects, then get_portfolio_statistics or get_portfolio_health for the big picture.
2) Drill in: get_evm_metrics, get_critical_path and get_project_health for one project.
3) Forecast: run_schedule_risk_analysis for the full completion/cost distribution,
   or forecast_completion / forecast_budget for quick SPI/CPI extrapolations.
4) Resources: get_resource_utilization, get_overallocated_resources and
   get_resource_costs_by_project work portfolio-wide.

Metrics that cannot be computed from the data (e.g. SPI with zero planned value)
are omitted from results rather than reported as zero.`

// MonteCarloService defines simulation and forecasting operations needed by MCP.
type MonteCarloService interface {
	PerformScheduleRiskAnalysis(ctx context.Context, projectObjectID string, iterations int, confidenceLevels []int) (*montecarlo.SimulationResult, error)
	ForecastCompletion(ctx context.Context, projectObjectID string) (*montecarlo.CompletionForecast, error)
	ForecastBudget(ctx context.Context, projectObjectID string) (*montecarlo.BudgetForecast, error)
}

// EVMService defines earned value operations needed by MCP.
type EVMService interface {
	Metrics(ctx context.Context, projectObjectID string) (map[string]float64, error)
}

// CriticalPathService defines critical path operations needed by MCP.
type CriticalPathService interface {
	IdentifyCriticalPath(ctx context.Context, projectObjectID string) ([]schedule.Activity, error)
	ActivityFloat(ctx context.Context, projectObjectID string) (map[string]float64, error)
}

// ResourceService defines resource analysis operations needed by MCP.
type ResourceService interface {
	UtilizationByMonth(ctx context.Context) (map[string]map[string]float64, error)
	OverallocatedResources(ctx context.Context) (map[string]float64, error)
	CostsByProject(ctx context.Context) (map[string]map[string]float64, error)
}

// HealthService defines project health operations needed by MCP.
type HealthService interface {
	ProjectHealth(ctx context.Context, projectObjectID string) (*health.Score, error)
	AllProjectsHealth(ctx context.Context) (map[string]float64, error)
}

// StatisticsService defines portfolio statistics operations needed by MCP.
type StatisticsService interface {
	ProjectCountByStatus(ctx context.Context) (map[string]int, error)
	ActivityCountByType(ctx context.Context) (map[string]int, error)
	ActivityCountByStatus(ctx context.Context) (map[string]int, error)
	OverdueProjects(ctx context.Context) ([]schedule.Project, error)
	UpcomingProjects(ctx context.Context) ([]schedule.Project, error)
	ProjectsTimelineByMonth(ctx context.Context) (map[string]int, error)
	ProjectsWithMostActivities(ctx context.Context, limit int) ([]statistics.ProjectActivityCount, error)
	TotalDurationByProject(ctx context.Context) (map[string]float64, error)
	PortfolioSummary(ctx context.Context) (*statistics.Summary, error)
}

// ProjectService defines project lookup operations needed by MCP.
type ProjectService interface {
	GetAllProjects(ctx context.Context) ([]schedule.Project, error)
	GetProjectByID(ctx context.Context, projectObjectID string) (*schedule.Project, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects     ProjectService
	MonteCarlo   MonteCarloService
	EVM          EVMService
	CriticalPath CriticalPathService
	Resources    ResourceService
	Health       HealthService
	Statistics   StatisticsService
}

// Config contains server configuration.
type Config struct {
	Services          Services
	DefaultIterations int
	Logger            *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "p6risk",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services, cfg.DefaultIterations)

	return server
}
