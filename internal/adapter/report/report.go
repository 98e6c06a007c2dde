// Package report writes the final result set of a run to a JSON file.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bnema/recode/internal/domain"
)

// Report is the on-disk shape: the run summary plus every item result.
type Report struct {
	Run     domain.RunSummary  `json:"run"`
	Results []domain.JobResult `json:"results"`
}

// Write marshals the report and lands it atomically: write to a sibling
// temp file, then rename over the destination.
func Write(path string, sum domain.RunSummary, results []domain.JobResult) error {
	data, err := json.MarshalIndent(Report{Run: sum, Results: results}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Read loads a previously written report.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse report %q: %w", path, err)
	}
	return &r, nil
}
