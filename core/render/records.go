// Package render serializes the completed course tree into its output
// artifacts: the persisted tree, the flattened training record stream,
// the run summary, and the optional outline PDF. External consumers only
// ever see these flattened forms; the nested tree exists to support
// resume/merge.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// TrainingRecord is one flattened JSONL line: a unit's content plus its
// ancestry titles, self-contained for downstream training pipelines.
type TrainingRecord struct {
	CourseTitle  string             `json:"course_title"`
	LearningPath string             `json:"learning_path"`
	ModuleTitle  string             `json:"module_title"`
	UnitTitle    string             `json:"unit_title"`
	UnitURL      string             `json:"unit_url"`
	Content      string             `json:"content"`
	Markdown     string             `json:"markdown,omitempty"`
	Headings     []core.Heading     `json:"headings"`
	CodeBlocks   []string           `json:"code_blocks"`
	Images       []core.ImageRecord `json:"images"`
	ScrapedAt    string             `json:"scraped_at"`
}

// Tree marshals the course tree into its persisted JSON form.
func Tree(tree *core.CourseTree) ([]byte, error) {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling course tree: %w", err)
	}
	return data, nil
}

// Records renders one JSON line per unit with non-empty content, in tree
// traversal order. now supplies the scraped_at timestamp; injecting it
// keeps identical trees rendering to identical bytes.
func Records(tree *core.CourseTree, now func() time.Time) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, p := range tree.LearningPaths {
		for _, m := range p.Modules {
			for _, u := range m.Units {
				if u.Content.IsEmpty() {
					continue
				}
				rec := TrainingRecord{
					CourseTitle:  tree.Title,
					LearningPath: p.Title,
					ModuleTitle:  m.Title,
					UnitTitle:    u.Title,
					UnitURL:      u.URL,
					Content:      u.Content.Text,
					Markdown:     u.Content.Markdown,
					Headings:     u.Content.Headings,
					CodeBlocks:   u.Content.CodeBlocks,
					Images:       u.Content.Images,
					ScrapedAt:    now().UTC().Format(time.RFC3339),
				}
				if err := enc.Encode(rec); err != nil {
					return nil, fmt.Errorf("encoding record for %q: %w", u.Title, err)
				}
			}
		}
	}

	return buf.Bytes(), nil
}
