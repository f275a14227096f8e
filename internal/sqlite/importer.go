package sqlite

import (
	"context"
	"fmt"

	"github.com/rpggio/p6risk/internal/provider"
)

// ImportSnapshot replaces the stored snapshot with the given one. The
// import runs in a single transaction so readers never see a partial
// snapshot.
func (db *DB) ImportSnapshot(ctx context.Context, snap provider.Snapshot) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Dependents first so foreign keys stay satisfied
	for _, table := range []string{"resource_allocation", "resource_assignments", "activities", "resources", "projects"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, p := range snap.Projects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (object_id, id, name, status, start_date, finish_date, data_date, description)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ObjectID, p.ID, p.Name, p.Status, p.StartDate, p.FinishDate, p.DataDate, p.Description)
		if err != nil {
			return fmt.Errorf("failed to insert project %s: %w", p.ObjectID, err)
		}
	}

	for _, a := range snap.Activities {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (object_id, id, name, project_id, project_object_id,
				start_date, finish_date, status, type,
				wbs_object_id, wbs_name, planned_duration_hours)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, a.ObjectID, a.ID, a.Name, a.ProjectID, a.ProjectObjectID,
			a.StartDate, a.FinishDate, a.Status, a.Type,
			a.WBSObjectID, a.WBSName, a.PlannedDurationHours)
		if err != nil {
			return fmt.Errorf("failed to insert activity %s: %w", a.ObjectID, err)
		}
	}

	for _, ra := range snap.Assignments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO resource_assignments (object_id, activity_id, activity_object_id, project_object_id,
				resource_id, resource_object_id, resource_name,
				planned_units, actual_units, remaining_units,
				planned_cost, actual_cost, remaining_cost,
				planned_start_date, planned_finish_date, actual_start_date, actual_finish_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ra.ObjectID, ra.ActivityID, ra.ActivityObjectID, ra.ProjectObjectID,
			ra.ResourceID, ra.ResourceObjectID, ra.ResourceName,
			ra.PlannedUnits, ra.ActualUnits, ra.RemainingUnits,
			ra.PlannedCost, ra.ActualCost, ra.RemainingCost,
			ra.PlannedStartDate, ra.PlannedFinishDate, ra.ActualStartDate, ra.ActualFinishDate)
		if err != nil {
			return fmt.Errorf("failed to insert resource assignment %s: %w", ra.ObjectID, err)
		}
	}

	for _, r := range snap.Resources {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO resources (object_id, id, name, resource_type, email_address, phone_number,
				price_per_unit, max_units_per_time, status, is_active)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ObjectID, r.ID, r.Name, r.ResourceType, r.EmailAddress, r.PhoneNumber,
			r.PricePerUnit, r.MaxUnitsPerTime, r.Status, r.IsActive)
		if err != nil {
			return fmt.Errorf("failed to insert resource %s: %w", r.ObjectID, err)
		}
	}

	for name, pct := range snap.Allocation {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO resource_allocation (resource_name, allocation_pct) VALUES (?, ?)
		`, name, pct)
		if err != nil {
			return fmt.Errorf("failed to insert allocation for %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot import: %w", err)
	}
	return nil
}
