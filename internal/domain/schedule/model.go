package schedule

import "time"

// Project is a P6 project snapshot. Dates are pointers because the
// export routinely omits them; FinishDate is not guaranteed to be after
// StartDate.
type Project struct {
	ID          string     `json:"id"`
	ObjectID    string     `json:"object_id"`
	Name        string     `json:"name"`
	Status      string     `json:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	FinishDate  *time.Time `json:"finish_date,omitempty"`
	DataDate    *time.Time `json:"data_date,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Activity is a single schedule activity within a project.
type Activity struct {
	ID              string     `json:"id"`
	ObjectID        string     `json:"object_id"`
	Name            string     `json:"name"`
	ProjectID       string     `json:"project_id,omitempty"`
	ProjectObjectID string     `json:"project_object_id"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	FinishDate      *time.Time `json:"finish_date,omitempty"`
	Status          string     `json:"status,omitempty"`
	Type            string     `json:"type,omitempty"`
	WBSObjectID     string     `json:"wbs_object_id,omitempty"`
	WBSName         string     `json:"wbs_name,omitempty"`

	// PlannedDurationHours is the explicit duration from the export,
	// when the export carries one. Use DurationHours, which falls back
	// to the start/finish span.
	PlannedDurationHours *float64 `json:"planned_duration_hours,omitempty"`
}

// Activity status values as P6 reports them.
const (
	StatusCompleted  = "Completed"
	StatusInProgress = "In Progress"
	StatusNotStarted = "Not Started"
)

// DurationHours returns the activity duration in hours: the explicit
// planned duration when present, otherwise the span between start and
// finish. Returns nil when neither is available; callers must treat nil
// as "no duration", not zero.
func (a *Activity) DurationHours() *float64 {
	if a.PlannedDurationHours != nil {
		return a.PlannedDurationHours
	}
	if a.StartDate != nil && a.FinishDate != nil {
		hours := a.FinishDate.Sub(*a.StartDate).Hours()
		return &hours
	}
	return nil
}

// ResourceAssignment links a resource to an activity with planned and
// actual units/costs. All numeric fields are optional in the export.
type ResourceAssignment struct {
	ObjectID          string     `json:"object_id"`
	ActivityID        string     `json:"activity_id,omitempty"`
	ActivityObjectID  string     `json:"activity_object_id"`
	ProjectObjectID   string     `json:"project_object_id,omitempty"`
	ResourceID        string     `json:"resource_id,omitempty"`
	ResourceObjectID  string     `json:"resource_object_id,omitempty"`
	ResourceName      string     `json:"resource_name,omitempty"`
	PlannedUnits      *float64   `json:"planned_units,omitempty"`
	ActualUnits       *float64   `json:"actual_units,omitempty"`
	RemainingUnits    *float64   `json:"remaining_units,omitempty"`
	PlannedCost       *float64   `json:"planned_cost,omitempty"`
	ActualCost        *float64   `json:"actual_cost,omitempty"`
	RemainingCost     *float64   `json:"remaining_cost,omitempty"`
	PlannedStartDate  *time.Time `json:"planned_start_date,omitempty"`
	PlannedFinishDate *time.Time `json:"planned_finish_date,omitempty"`
	ActualStartDate   *time.Time `json:"actual_start_date,omitempty"`
	ActualFinishDate  *time.Time `json:"actual_finish_date,omitempty"`
}

// Resource is a P6 resource (person, role or material).
type Resource struct {
	ObjectID        string   `json:"object_id"`
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ResourceType    string   `json:"resource_type,omitempty"`
	EmailAddress    string   `json:"email_address,omitempty"`
	PhoneNumber     string   `json:"phone_number,omitempty"`
	PricePerUnit    *float64 `json:"price_per_unit,omitempty"`
	MaxUnitsPerTime *float64 `json:"max_units_per_time,omitempty"`
	Status          string   `json:"status,omitempty"`
	IsActive        bool     `json:"is_active,omitempty"`
}

// Rollup aggregates cost and unit totals over a set of assignments.
type Rollup struct {
	PlannedCost    float64 `json:"planned_cost"`
	ActualCost     float64 `json:"actual_cost"`
	RemainingCost  float64 `json:"remaining_cost"`
	PlannedUnits   float64 `json:"planned_units"`
	ActualUnits    float64 `json:"actual_units"`
	RemainingUnits float64 `json:"remaining_units"`
}

// RollupAssignments sums cost and unit fields across assignments,
// treating absent fields as zero. It never fails; missing data simply
// does not contribute.
func RollupAssignments(assignments []ResourceAssignment) Rollup {
	var r Rollup
	for _, a := range assignments {
		r.PlannedCost += floatOrZero(a.PlannedCost)
		r.ActualCost += floatOrZero(a.ActualCost)
		r.RemainingCost += floatOrZero(a.RemainingCost)
		r.PlannedUnits += floatOrZero(a.PlannedUnits)
		r.ActualUnits += floatOrZero(a.ActualUnits)
		r.RemainingUnits += floatOrZero(a.RemainingUnits)
	}
	return r
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
