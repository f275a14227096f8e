package montecarlo

import "time"

// SimulationResult holds the outcome of one schedule risk analysis run.
// Both distributions are sorted ascending and have exactly Iterations
// elements.
type SimulationResult struct {
	RunID       string `json:"run_id"`
	ProjectID   string `json:"project_id"`
	ProjectName string `json:"project_name"`
	Iterations  int    `json:"iterations"`

	MeanCompletionDate time.Time         `json:"mean_completion_date"`
	DateConfidence     map[int]time.Time `json:"date_confidence"`
	CompletionDates    []time.Time       `json:"completion_dates"`
	CompletionStdDev   time.Duration     `json:"completion_std_dev"`

	MeanTotalCost  float64         `json:"mean_total_cost"`
	CostConfidence map[int]float64 `json:"cost_confidence"`
	TotalCosts     []float64       `json:"total_costs"`
	CostStdDev     float64         `json:"cost_std_dev"`
}

// CompletionForecast extrapolates a finish date from current progress,
// with optimistic and pessimistic bands at ±20% of the SPI-adjusted
// remaining duration.
type CompletionForecast struct {
	ProjectID              string    `json:"project_id"`
	ProjectName            string    `json:"project_name"`
	SPI                    float64   `json:"spi"`
	RemainingDuration      float64   `json:"remaining_duration"`
	AdjustedRemaining      float64   `json:"adjusted_remaining_duration"`
	DataDate               time.Time `json:"data_date"`
	ForecastCompletionDate time.Time `json:"forecast_completion_date"`
	OptimisticForecast     time.Time `json:"optimistic_forecast"`
	PessimisticForecast    time.Time `json:"pessimistic_forecast"`
}

// BudgetForecast extrapolates estimate-at-completion from assignment
// progress. The banded EACs scale CPI by fixed multipliers, not a
// simulation.
type BudgetForecast struct {
	ProjectID     string  `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	CPI           float64 `json:"cpi"`
	PlannedCost   float64 `json:"planned_cost"`
	ActualCost    float64 `json:"actual_cost"`
	RemainingCost float64 `json:"remaining_cost"`
	EAC           float64 `json:"eac"`
	EAC80         float64 `json:"eac80"`
	EAC90         float64 `json:"eac90"`
	EAC95         float64 `json:"eac95"`
	Variance      float64 `json:"variance"`
}
