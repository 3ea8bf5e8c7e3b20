package render

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// AppliedLimits echoes the traversal limits a run was started with.
// Zero means the rank was unlimited.
type AppliedLimits struct {
	MaxPaths          int `json:"max_paths"`
	MaxModulesPerPath int `json:"max_modules_per_path"`
	MaxUnitsPerModule int `json:"max_units_per_module"`
}

// RunSummary is the report written alongside the tree at the end of a run.
type RunSummary struct {
	CourseTitle      string        `json:"course_title"`
	CourseURL        string        `json:"course_url"`
	ScrapedAt        string        `json:"scraped_at"`
	LearningPaths    int           `json:"learning_paths_count"`
	TotalModules     int           `json:"total_modules"`
	TotalUnits       int           `json:"total_units"`
	ContentExtracted bool          `json:"content_extracted"`
	LimitsApplied    AppliedLimits `json:"limits_applied"`
	FilesCreated     []string      `json:"files_created"`
}

// Summary renders the run summary for a completed tree. files lists the
// artifact names (not paths) written by this run.
func Summary(tree *core.CourseTree, limits AppliedLimits, contentExtracted bool, startedAt time.Time, files []string) ([]byte, error) {
	s := RunSummary{
		CourseTitle:      tree.Title,
		CourseURL:        tree.URL,
		ScrapedAt:        startedAt.UTC().Format(time.RFC3339),
		LearningPaths:    len(tree.LearningPaths),
		TotalModules:     tree.ModuleCount(),
		TotalUnits:       tree.UnitCount(),
		ContentExtracted: contentExtracted,
		LimitsApplied:    limits,
		FilesCreated:     files,
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling summary: %w", err)
	}
	return data, nil
}
