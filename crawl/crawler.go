// Package crawl builds the course tree. The traversal runs serially and
// depth-first over four ranks — course → learning paths → modules → units —
// with a politeness delay between consecutive fetches. Failures below the
// course rank skip the affected subtree; only the course rank is fatal.
package crawl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/classify"
	"github.com/gaurav-prasanna/coursepipe/core/extract"
	"github.com/gaurav-prasanna/coursepipe/core/order"
	"github.com/gaurav-prasanna/coursepipe/core/output"
)

// ErrNoData reports that the course rank failed: either the course page
// could not be fetched or it yielded no learning paths. Callers surface
// this as a completion state distinct from both success and usage errors.
var ErrNoData = errors.New("no data extracted")

// DefaultDelay is the minimum spacing between consecutive fetches.
const DefaultDelay = 500 * time.Millisecond

// Limits caps how much of the course is traversed at each rank. Zero
// means unlimited. Limits truncate the discovered sequence; they never
// stop discovery early.
type Limits struct {
	MaxPaths          int
	MaxModulesPerPath int
	MaxUnitsPerModule int
}

// Options configure a Crawler.
type Options struct {
	// ExtractContent toggles unit content extraction; when false the
	// crawl produces structure only.
	ExtractContent bool
	Limits         Limits
	// Delay is the politeness delay between fetches.
	Delay time.Duration
	// Sleep enforces Delay. Defaults to time.Sleep; tests inject a
	// recorder so the delay is checkable without wall-clock waits.
	Sleep func(time.Duration)
	// ResumeDir, when non-empty, is where the prior tree for this course
	// is looked up once the course title is known.
	ResumeDir string
	// Prior overrides ResumeDir with an already loaded tree.
	Prior *core.CourseTree
	// Matcher is the merge identity strategy. Defaults to ExactTitle.
	Matcher Matcher
}

// Crawler drives the four-rank traversal.
type Crawler struct {
	fetcher core.Fetcher
	logger  *zap.Logger
	opts    Options
	prior   *core.CourseTree
	fetched bool
}

// New creates a Crawler.
func New(fetcher core.Fetcher, logger *zap.Logger, opts Options) *Crawler {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	if opts.Matcher == nil {
		opts.Matcher = ExactTitle
	}
	return &Crawler{
		fetcher: fetcher,
		logger:  logger,
		opts:    opts,
		prior:   opts.Prior,
	}
}

// Run crawls the course at courseURL and returns the completed tree.
// It fails only when the course rank yields nothing; every lower-rank
// failure is logged and contained.
func (c *Crawler) Run(ctx context.Context, courseURL string) (*core.CourseTree, error) {
	doc, err := c.fetchDoc(ctx, courseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: course page: %v", ErrNoData, err)
	}

	tree := &core.CourseTree{URL: courseURL, Title: pageTitle(doc)}
	for _, ref := range classify.CollectPathLinks(doc) {
		tree.LearningPaths = append(tree.LearningPaths, &core.LearningPath{
			Title: ref.Title,
			URL:   ref.URL,
			UID:   ref.UID,
		})
	}
	if len(tree.LearningPaths) == 0 {
		return nil, fmt.Errorf("%w: no learning paths found at %s", ErrNoData, courseURL)
	}

	c.logger.Info("course discovered",
		zap.String("title", tree.Title),
		zap.Int("learning_paths", len(tree.LearningPaths)))

	// Resume is keyed on course identity (the title slug), not the URL,
	// so it can only be resolved after the course page is parsed.
	if c.prior == nil && c.opts.ResumeDir != "" {
		c.prior = LoadPriorTree(c.opts.ResumeDir, output.Slug(tree.Title), c.logger)
	}

	tree.LearningPaths = truncate(tree.LearningPaths, c.opts.Limits.MaxPaths)
	for _, p := range tree.LearningPaths {
		if err := c.crawlPath(ctx, p); err != nil {
			c.logger.Warn("skipping learning path",
				zap.String("path", p.Title), zap.Error(err))
		}
	}

	return tree, nil
}

func (c *Crawler) crawlPath(ctx context.Context, p *core.LearningPath) error {
	doc, err := c.fetchDoc(ctx, p.URL)
	if err != nil {
		return err
	}

	// The page's own title supersedes the one generated from the UID slug.
	if t := pageTitle(doc); t != "" {
		p.Title = t
	}

	refs := classify.CollectModuleLinks(doc, p.URL)
	c.logger.Info("modules discovered",
		zap.String("path", p.Title), zap.Int("count", len(refs)))

	refs = truncate(refs, c.opts.Limits.MaxModulesPerPath)
	for _, ref := range refs {
		m := &core.Module{Title: ref.Title, URL: ref.URL}
		if err := c.crawlModule(ctx, m, p.Title); err != nil {
			c.logger.Warn("skipping module",
				zap.String("module", m.Title), zap.Error(err))
			continue
		}
		p.Modules = append(p.Modules, m)
	}

	return nil
}

func (c *Crawler) crawlModule(ctx context.Context, m *core.Module, pathTitle string) error {
	doc, err := c.fetchDoc(ctx, m.URL)
	if err != nil {
		return err
	}

	if t := pageTitle(doc); t != "" {
		m.Title = t
	}
	if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		m.Description = strings.TrimSpace(desc)
	}

	refs := classify.CollectUnitLinks(doc, m.URL)
	units := make([]*core.Unit, 0, len(refs))
	for _, ref := range refs {
		units = append(units, &core.Unit{
			Order: order.Key(ref.URL, ref.Title),
			Title: ref.Title,
			URL:   ref.URL,
			Href:  ref.Href,
		})
	}
	order.Sort(units)
	m.Units = truncate(units, c.opts.Limits.MaxUnitsPerModule)

	c.logger.Info("units discovered",
		zap.String("module", m.Title), zap.Int("count", len(m.Units)))

	for _, u := range m.Units {
		c.crawlUnit(ctx, u, pathTitle, m.Title)
	}

	return nil
}

// crawlUnit fills in unit content: reused from the prior tree when the
// title triple matches, freshly extracted otherwise. A unit-rank fetch
// failure leaves an empty block so the unit is retried on the next run.
func (c *Crawler) crawlUnit(ctx context.Context, u *core.Unit, pathTitle, moduleTitle string) {
	if prior := FindReusableContent(c.prior, c.opts.Matcher, pathTitle, moduleTitle, u.Title); prior != nil {
		c.logger.Debug("reusing prior content", zap.String("unit", u.Title))
		u.Content = prior
		return
	}

	if !c.opts.ExtractContent {
		return
	}

	res, err := c.fetch(ctx, u.URL)
	if err != nil {
		c.logger.Warn("unit fetch failed",
			zap.String("unit", u.Title), zap.Error(err))
		u.Content = &core.ContentBlock{}
		return
	}

	block := extract.Unit(res.HTML, u.URL)
	u.Content = &block
}

// fetch wraps the fetcher with the politeness delay: every fetch after
// the first waits out the configured spacing first.
func (c *Crawler) fetch(ctx context.Context, url string) (*core.FetchResult, error) {
	if c.fetched && c.opts.Delay > 0 {
		c.opts.Sleep(c.opts.Delay)
	}
	c.fetched = true

	c.logger.Debug("fetching", zap.String("url", url))
	return c.fetcher.Fetch(ctx, url)
}

func (c *Crawler) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	res, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

func pageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("h1").First().Text())
}

func truncate[T any](s []T, max int) []T {
	if max > 0 && len(s) > max {
		return s[:max]
	}
	return s
}
