// Package crawl — resume/merge engine.
// Reconciles a freshly discovered tree with the content of a previously
// persisted one.
package crawl

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/output"
)

// Matcher decides whether two titles refer to the same entity when
// merging a prior tree. The default is exact, case-sensitive equality,
// kept for compatibility with previously persisted trees: a title edit
// therefore breaks resume for that subtree. A URL-derived key would be
// more robust; swap in a different Matcher to change the strategy.
type Matcher func(a, b string) bool

// ExactTitle is the compatibility matcher.
func ExactTitle(a, b string) bool { return a == b }

// LoadPriorTree reads the persisted course tree for slug from dir.
// Missing or corrupt files degrade to no resume; they are never fatal.
func LoadPriorTree(dir, slug string, logger *zap.Logger) *core.CourseTree {
	name := filepath.Join(dir, output.TreeFile(slug))

	data, err := os.ReadFile(name)
	if err != nil {
		return nil
	}

	var tree core.CourseTree
	if err := json.Unmarshal(data, &tree); err != nil {
		logger.Warn("ignoring corrupt prior tree", zap.String("file", name), zap.Error(err))
		return nil
	}

	logger.Info("resuming from prior run", zap.String("file", name))
	return &tree
}

// FindReusableContent returns the previously extracted content for the
// unit identified by the path/module/unit title triple, or nil when the
// unit was never extracted. Units whose prior content is empty (a failed
// or skipped fetch) count as not-yet-done and are re-attempted. The prior
// tree is only ever read, never mutated.
func FindReusableContent(prior *core.CourseTree, match Matcher, pathTitle, moduleTitle, unitTitle string) *core.ContentBlock {
	if prior == nil {
		return nil
	}
	if match == nil {
		match = ExactTitle
	}

	for _, p := range prior.LearningPaths {
		if !match(p.Title, pathTitle) {
			continue
		}
		for _, m := range p.Modules {
			if !match(m.Title, moduleTitle) {
				continue
			}
			for _, u := range m.Units {
				if match(u.Title, unitTitle) && !u.Content.IsEmpty() {
					return u.Content
				}
			}
		}
	}
	return nil
}
