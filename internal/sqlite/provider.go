package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/p6risk/internal/domain/schedule"
	"github.com/rpggio/p6risk/internal/provider"
)

// Provider implements provider.DataProvider over an imported P6
// snapshot.
type Provider struct {
	db *DB
}

// NewProvider creates a new snapshot-backed provider
func NewProvider(db *DB) *Provider {
	return &Provider{db: db}
}

const projectColumns = `object_id, id, name, status, start_date, finish_date, data_date, description`

// GetProjectByID retrieves a project by object ID
func (p *Provider) GetProjectByID(ctx context.Context, projectObjectID string) (*schedule.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE object_id = ?`

	proj, err := scanProject(p.db.QueryRowContext(ctx, query, projectObjectID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return proj, nil
}

// GetAllProjects returns every project in the snapshot
func (p *Provider) GetAllProjects(ctx context.Context) ([]schedule.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY rowid`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []schedule.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// GetActivitiesForProject returns a project's activities in export
// retrieval order.
func (p *Provider) GetActivitiesForProject(ctx context.Context, projectObjectID string) ([]schedule.Activity, error) {
	query := `
		SELECT object_id, id, name, project_id, project_object_id,
		       start_date, finish_date, status, type,
		       wbs_object_id, wbs_name, planned_duration_hours
		FROM activities
		WHERE project_object_id = ?
		ORDER BY rowid
	`

	rows, err := p.db.QueryContext(ctx, query, projectObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var activities []schedule.Activity
	for rows.Next() {
		var (
			act           schedule.Activity
			projectID     sql.NullString
			start, finish sql.NullTime
			status, typ   sql.NullString
			wbsID, wbs    sql.NullString
			duration      sql.NullFloat64
		)
		err := rows.Scan(
			&act.ObjectID, &act.ID, &act.Name, &projectID, &act.ProjectObjectID,
			&start, &finish, &status, &typ, &wbsID, &wbs, &duration,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		act.ProjectID = projectID.String
		act.StartDate = timePtr(start)
		act.FinishDate = timePtr(finish)
		act.Status = status.String
		act.Type = typ.String
		act.WBSObjectID = wbsID.String
		act.WBSName = wbs.String
		act.PlannedDurationHours = floatPtr(duration)
		activities = append(activities, act)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}
	return activities, nil
}

const assignmentColumns = `object_id, activity_id, activity_object_id, project_object_id,
	resource_id, resource_object_id, resource_name,
	planned_units, actual_units, remaining_units,
	planned_cost, actual_cost, remaining_cost,
	planned_start_date, planned_finish_date, actual_start_date, actual_finish_date`

// GetResourceAssignmentsForActivity returns assignments for one activity
func (p *Provider) GetResourceAssignmentsForActivity(ctx context.Context, activityObjectID string) ([]schedule.ResourceAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM resource_assignments WHERE activity_object_id = ? ORDER BY rowid`
	return p.queryAssignments(ctx, query, activityObjectID)
}

// GetResourceAssignmentsForProject returns assignments for one project
func (p *Provider) GetResourceAssignmentsForProject(ctx context.Context, projectObjectID string) ([]schedule.ResourceAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM resource_assignments WHERE project_object_id = ? ORDER BY rowid`
	return p.queryAssignments(ctx, query, projectObjectID)
}

func (p *Provider) queryAssignments(ctx context.Context, query string, arg string) ([]schedule.ResourceAssignment, error) {
	rows, err := p.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource assignments: %w", err)
	}
	defer rows.Close()

	var assignments []schedule.ResourceAssignment
	for rows.Next() {
		var (
			a                                schedule.ResourceAssignment
			activityID, projectID            sql.NullString
			resourceID, resourceOID, resName sql.NullString
			pUnits, aUnits, rUnits           sql.NullFloat64
			pCost, aCost, rCost              sql.NullFloat64
			pStart, pFinish, aStart, aFinish sql.NullTime
		)
		err := rows.Scan(
			&a.ObjectID, &activityID, &a.ActivityObjectID, &projectID,
			&resourceID, &resourceOID, &resName,
			&pUnits, &aUnits, &rUnits,
			&pCost, &aCost, &rCost,
			&pStart, &pFinish, &aStart, &aFinish,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource assignment: %w", err)
		}
		a.ActivityID = activityID.String
		a.ProjectObjectID = projectID.String
		a.ResourceID = resourceID.String
		a.ResourceObjectID = resourceOID.String
		a.ResourceName = resName.String
		a.PlannedUnits = floatPtr(pUnits)
		a.ActualUnits = floatPtr(aUnits)
		a.RemainingUnits = floatPtr(rUnits)
		a.PlannedCost = floatPtr(pCost)
		a.ActualCost = floatPtr(aCost)
		a.RemainingCost = floatPtr(rCost)
		a.PlannedStartDate = timePtr(pStart)
		a.PlannedFinishDate = timePtr(pFinish)
		a.ActualStartDate = timePtr(aStart)
		a.ActualFinishDate = timePtr(aFinish)
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource assignment rows: %w", err)
	}
	return assignments, nil
}

// GetAllResources returns every resource in the snapshot
func (p *Provider) GetAllResources(ctx context.Context) ([]schedule.Resource, error) {
	query := `
		SELECT object_id, id, name, resource_type, email_address, phone_number,
		       price_per_unit, max_units_per_time, status, is_active
		FROM resources
		ORDER BY rowid
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	var resources []schedule.Resource
	for rows.Next() {
		var (
			r                    schedule.Resource
			id, typ              sql.NullString
			email, phone, status sql.NullString
			price, maxUnits      sql.NullFloat64
		)
		err := rows.Scan(
			&r.ObjectID, &id, &r.Name, &typ, &email, &phone,
			&price, &maxUnits, &status, &r.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		r.ID = id.String
		r.ResourceType = typ.String
		r.EmailAddress = email.String
		r.PhoneNumber = phone.String
		r.Status = status.String
		r.PricePerUnit = floatPtr(price)
		r.MaxUnitsPerTime = floatPtr(maxUnits)
		resources = append(resources, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource rows: %w", err)
	}
	return resources, nil
}

// CalculateResourceAllocation returns the imported allocation
// percentages per resource name.
func (p *Provider) CalculateResourceAllocation(ctx context.Context) (map[string]float64, error) {
	rows, err := p.db.QueryContext(ctx, `SELECT resource_name, allocation_pct FROM resource_allocation`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource allocation: %w", err)
	}
	defer rows.Close()

	allocation := map[string]float64{}
	for rows.Next() {
		var name string
		var pct float64
		if err := rows.Scan(&name, &pct); err != nil {
			return nil, fmt.Errorf("failed to scan resource allocation: %w", err)
		}
		allocation[name] = pct
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating resource allocation rows: %w", err)
	}
	return allocation, nil
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*schedule.Project, error) {
	var (
		proj                schedule.Project
		status, description sql.NullString
		start, finish, asOf sql.NullTime
	)
	err := row.Scan(
		&proj.ObjectID, &proj.ID, &proj.Name, &status,
		&start, &finish, &asOf, &description,
	)
	if err != nil {
		return nil, err
	}
	proj.Status = status.String
	proj.Description = description.String
	proj.StartDate = timePtr(start)
	proj.FinishDate = timePtr(finish)
	proj.DataDate = timePtr(asOf)
	return &proj, nil
}
