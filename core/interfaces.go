// Package core defines the shared data model for the coursepipe pipeline.
// The tree mirrors the structure of a Microsoft Learn course:
// Course → Learning Path → Module → Unit.
package core

import "context"

// FetchResult holds the raw HTML and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Fetcher retrieves raw HTML from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// CourseTree is the root of the extracted course structure. The JSON shape
// is the persisted tree format that later runs resume from, so field tags
// must stay stable across versions.
type CourseTree struct {
	URL           string          `json:"url"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	LearningPaths []*LearningPath `json:"learning_paths"`
}

// ModuleCount returns the number of modules across all learning paths.
func (t *CourseTree) ModuleCount() int {
	n := 0
	for _, p := range t.LearningPaths {
		n += len(p.Modules)
	}
	return n
}

// UnitCount returns the number of units across all modules.
func (t *CourseTree) UnitCount() int {
	n := 0
	for _, p := range t.LearningPaths {
		for _, m := range p.Modules {
			n += len(m.Units)
		}
	}
	return n
}

// LearningPath is one path within a course. UID is the data-learn-uid the
// path was discovered under; it is only used to reconstruct the canonical
// path URL.
type LearningPath struct {
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	UID     string    `json:"learn_uid"`
	Modules []*Module `json:"modules"`
}

// Module is one module within a learning path. Units are kept sorted by
// their order key.
type Module struct {
	Title              string   `json:"title"`
	URL                string   `json:"url"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learning_objectives"`
	Prerequisites      []string `json:"prerequisites"`
	Units              []*Unit  `json:"units"`
}

// Unit is one page of course content. Content is nil until the unit has
// been extracted (or reused from a prior run).
type Unit struct {
	Order   int           `json:"number"`
	Title   string        `json:"title"`
	URL     string        `json:"url"`
	Href    string        `json:"href"`
	Content *ContentBlock `json:"content,omitempty"`
}

// Heading is a single heading found in unit content.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// LinkRecord is an outbound link found in unit content. URL is the raw
// href as written in the page, not resolved.
type LinkRecord struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ImageType classifies what an image depicts, inferred from its filename
// and alt text.
type ImageType string

const (
	ImageDiagram      ImageType = "diagram"
	ImageScreenshot   ImageType = "screenshot"
	ImageChart        ImageType = "chart"
	ImageCodeExample  ImageType = "code_example"
	ImageIcon         ImageType = "icon"
	ImageIllustration ImageType = "illustration"
)

// ImageContext captures the text surrounding an image in document order.
type ImageContext struct {
	PrecedingHeading string `json:"preceding_heading"`
	FigureCaption    string `json:"figure_caption"`
	FollowingText    string `json:"following_text"`
}

// ImageRecord is the metadata for one image; the image itself is never
// downloaded.
type ImageRecord struct {
	Src         string       `json:"src"`
	AbsoluteURL string       `json:"absolute_url"`
	AltText     string       `json:"alt_text"`
	Title       string       `json:"title"`
	Filename    string       `json:"filename"`
	Type        ImageType    `json:"image_type"`
	Context     ImageContext `json:"context"`
}

// ContentBlock holds the structured content extracted from one unit page.
type ContentBlock struct {
	Text       string        `json:"text"`
	Markdown   string        `json:"markdown,omitempty"`
	Headings   []Heading     `json:"headings"`
	CodeBlocks []string      `json:"code_blocks"`
	Images     []ImageRecord `json:"images"`
	Links      []LinkRecord  `json:"links"`
}

// IsEmpty reports whether the block carries no extracted text. Units with
// empty blocks (failed or skipped fetches) count as not-yet-done and are
// re-attempted on resume.
func (c *ContentBlock) IsEmpty() bool {
	return c == nil || c.Text == ""
}
