package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/crawl"
)

const (
	courseURL = "https://learn.microsoft.com/en-us/training/courses/az-900t00"

	conceptsPathURL = "https://learn.microsoft.com/en-us/training/paths/describe-cloud-concepts/"
	computeModURL   = "https://learn.microsoft.com/en-us/training/modules/cloud-compute/"
	storageModURL   = "https://learn.microsoft.com/en-us/training/modules/cloud-storage/"
	scalingModURL   = "https://learn.microsoft.com/en-us/training/modules/cloud-scaling/"
)

// fakeFetcher serves canned pages and records every fetch.
type fakeFetcher struct {
	pages map[string]string
	fail  map[string]bool
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*core.FetchResult, error) {
	f.calls = append(f.calls, url)
	if f.fail[url] {
		return nil, errors.New("connection refused")
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("no page for %s", url)
	}
	return &core.FetchResult{URL: url, StatusCode: 200, HTML: html}, nil
}

func (f *fakeFetcher) fetchedURL(url string) bool {
	for _, c := range f.calls {
		if c == url {
			return true
		}
	}
	return false
}

func unitPage(title string) string {
	return fmt.Sprintf(`<html><body><main><h1>%s</h1><p>Body text for %s.</p></main></body></html>`, title, title)
}

func modulePage(title string, unitHrefs ...string) string {
	page := fmt.Sprintf(`<html><body><main><h1>%s</h1>`, title)
	for i, href := range unitHrefs {
		page += fmt.Sprintf(`<a href="%s">Unit link %d</a>`, href, i+1)
	}
	return page + `</main></body></html>`
}

// newSite builds a minimal course: one learning path with two modules of
// three units each.
func newSite() *fakeFetcher {
	f := &fakeFetcher{pages: map[string]string{}, fail: map[string]bool{}}

	f.pages[courseURL] = `<html><body><main><h1>Azure Fundamentals</h1>
		<article data-learn-uid="learn.wwl.describe-cloud-concepts"></article>
	</main></body></html>`

	f.pages[conceptsPathURL] = `<html><body><main><h1>Describe cloud concepts</h1>
		<a href="../../modules/cloud-compute/">Cloud compute</a>
		<a href="../../modules/cloud-storage/">Cloud storage</a>
	</main></body></html>`

	for modURL, title := range map[string]string{
		computeModURL: "Cloud compute",
		storageModURL: "Cloud storage",
	} {
		f.pages[modURL] = modulePage(title, "2-scale", "1-introduction", "3-summary")
		f.pages[modURL+"2-scale"] = unitPage("Scale")
		f.pages[modURL+"1-introduction"] = unitPage("Introduction")
		f.pages[modURL+"3-summary"] = unitPage("Summary")
	}

	return f
}

func newCrawler(f *fakeFetcher, opts crawl.Options) *crawl.Crawler {
	return crawl.New(f, zap.NewNop(), opts)
}

func unitTitles(m *core.Module) []string {
	var titles []string
	for _, u := range m.Units {
		titles = append(titles, u.Title)
	}
	return titles
}

func TestRunBuildsTree(t *testing.T) {
	f := newSite()
	c := newCrawler(f, crawl.Options{ExtractContent: true})

	tree, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	assert.Equal(t, "Azure Fundamentals", tree.Title)
	require.Len(t, tree.LearningPaths, 1)

	p := tree.LearningPaths[0]
	assert.Equal(t, "Describe cloud concepts", p.Title, "page title supersedes the slug-derived one")
	require.Len(t, p.Modules, 2)

	for _, m := range p.Modules {
		assert.Equal(t, []string{"Unit link 2", "Unit link 1", "Unit link 3"}, unitTitles(m),
			"units sorted by the number in their href, not discovery order")
		for _, u := range m.Units {
			require.NotNil(t, u.Content)
			assert.False(t, u.Content.IsEmpty())
		}
	}
}

func TestRunWithoutContentSkipsUnitFetches(t *testing.T) {
	f := newSite()
	c := newCrawler(f, crawl.Options{ExtractContent: false})

	tree, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	for _, u := range tree.LearningPaths[0].Modules[0].Units {
		assert.Nil(t, u.Content)
	}
	assert.False(t, f.fetchedURL(computeModURL+"1-introduction"))
}

func TestModuleLimitTruncates(t *testing.T) {
	f := newSite()
	f.pages[conceptsPathURL] = `<html><body><main><h1>Describe cloud concepts</h1>
		<a href="../../modules/m1/">M1</a>
		<a href="../../modules/m2/">M2</a>
		<a href="../../modules/m3/">M3</a>
		<a href="../../modules/m4/">M4</a>
		<a href="../../modules/m5/">M5</a>
	</main></body></html>`
	for i := 1; i <= 5; i++ {
		f.pages[fmt.Sprintf("https://learn.microsoft.com/en-us/training/modules/m%d/", i)] = modulePage(fmt.Sprintf("M%d", i))
	}

	c := newCrawler(f, crawl.Options{Limits: crawl.Limits{MaxModulesPerPath: 2}})
	tree, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	modules := tree.LearningPaths[0].Modules
	require.Len(t, modules, 2)
	assert.Equal(t, "M1", modules[0].Title)
	assert.Equal(t, "M2", modules[1].Title)
	assert.False(t, f.fetchedURL("https://learn.microsoft.com/en-us/training/modules/m3/"))
}

func TestModuleFailureContainment(t *testing.T) {
	f := newSite()
	f.pages[conceptsPathURL] = `<html><body><main><h1>Describe cloud concepts</h1>
		<a href="../../modules/cloud-compute/">Cloud compute</a>
		<a href="../../modules/cloud-scaling/">Cloud scaling</a>
		<a href="../../modules/cloud-storage/">Cloud storage</a>
	</main></body></html>`
	f.fail[scalingModURL] = true

	c := newCrawler(f, crawl.Options{ExtractContent: true})
	tree, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	modules := tree.LearningPaths[0].Modules
	require.Len(t, modules, 2, "the failed module leaves no partial entry")
	assert.Equal(t, "Cloud compute", modules[0].Title)
	assert.Equal(t, "Cloud storage", modules[1].Title)
	for _, m := range modules {
		assert.Len(t, m.Units, 3)
	}
}

func TestUnitFailureYieldsEmptyContent(t *testing.T) {
	f := newSite()
	f.fail[computeModURL+"2-scale"] = true

	c := newCrawler(f, crawl.Options{ExtractContent: true})
	tree, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	m := tree.LearningPaths[0].Modules[0]
	require.Equal(t, "Cloud compute", m.Title)

	for _, u := range m.Units {
		require.NotNil(t, u.Content)
		if u.Href == "2-scale" {
			assert.True(t, u.Content.IsEmpty(), "failed unit keeps an empty block for retry")
		} else {
			assert.False(t, u.Content.IsEmpty())
		}
	}
}

func TestCourseFailureAbortsRun(t *testing.T) {
	f := newSite()
	f.fail[courseURL] = true

	c := newCrawler(f, crawl.Options{})
	_, err := c.Run(context.Background(), courseURL)
	assert.ErrorIs(t, err, crawl.ErrNoData)
}

func TestCourseWithoutPathsAbortsRun(t *testing.T) {
	f := newSite()
	f.pages[courseURL] = `<html><body><main><h1>Azure Fundamentals</h1></main></body></html>`

	c := newCrawler(f, crawl.Options{})
	_, err := c.Run(context.Background(), courseURL)
	assert.ErrorIs(t, err, crawl.ErrNoData)
}

func TestPolitenessDelay(t *testing.T) {
	f := newSite()

	var sleeps []time.Duration
	c := newCrawler(f, crawl.Options{
		ExtractContent: true,
		Delay:          250 * time.Millisecond,
		Sleep:          func(d time.Duration) { sleeps = append(sleeps, d) },
	})

	_, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	require.NotEmpty(t, f.calls)
	assert.Len(t, sleeps, len(f.calls)-1, "every fetch after the first waits once")
	for _, d := range sleeps {
		assert.Equal(t, 250*time.Millisecond, d)
	}
}

func TestResumeReusesPriorContent(t *testing.T) {
	prior := &core.CourseTree{
		Title: "Azure Fundamentals",
		LearningPaths: []*core.LearningPath{{
			Title: "Describe cloud concepts",
			Modules: []*core.Module{{
				Title: "Cloud compute",
				Units: []*core.Unit{
					{Title: "Unit link 1", Content: &core.ContentBlock{Text: "cached scale text"}},
					{Title: "Unit link 2", Content: &core.ContentBlock{}},
				},
			}},
		}},
	}

	f := newSite()
	c := newCrawler(f, crawl.Options{ExtractContent: true, Prior: prior})

	tree, err := c.Run(context.Background(), courseURL)
	require.NoError(t, err)

	m := tree.LearningPaths[0].Modules[0]
	require.Equal(t, "Cloud compute", m.Title)

	// "Unit link 1" is the anchor for href 2-scale, "Unit link 2" for
	// href 1-introduction (see modulePage).
	var scale, intro *core.Unit
	for _, u := range m.Units {
		switch u.Title {
		case "Unit link 1":
			scale = u
		case "Unit link 2":
			intro = u
		}
	}
	require.NotNil(t, scale)
	require.NotNil(t, intro)

	assert.Equal(t, "cached scale text", scale.Content.Text)
	assert.False(t, f.fetchedURL(computeModURL+"2-scale"), "reused units are not re-fetched")

	// The prior unit had an empty block (failed last run): re-attempted.
	assert.True(t, f.fetchedURL(computeModURL+"1-introduction"))
	assert.Contains(t, intro.Content.Text, "Body text")
}
