package provider

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rpggio/p6risk/internal/domain/schedule"
)

// Snapshot is a complete P6 data export: everything a DataProvider
// implementation needs to serve the engine for one analysis run.
type Snapshot struct {
	Projects    []schedule.Project            `json:"projects"`
	Activities  []schedule.Activity           `json:"activities"`
	Assignments []schedule.ResourceAssignment `json:"resource_assignments"`
	Resources   []schedule.Resource           `json:"resources"`

	// Allocation holds the allocation percentage per resource name,
	// pre-computed by the exporting system.
	Allocation map[string]float64 `json:"resource_allocation,omitempty"`
}

// LoadSnapshot reads a snapshot from a JSON export file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	return &snap, nil
}
