// Package classify decides what a link on a course page points at: a
// learning path, a module, or a unit. All classifiers are total functions
// over noisy real-world markup; a non-match is a nil result, never an error.
package classify

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// SiteRoot is the canonical origin all relative course links resolve
	// under.
	SiteRoot = "https://learn.microsoft.com"

	pathUIDPrefix = "learn."
	pathURLPrefix = SiteRoot + "/en-us/training/paths/"
	moduleKeyword = "modules"
)

// unitKeywords mark hrefs that denote a unit page even without a numeric
// prefix.
var unitKeywords = []string{"introduction", "summary", "assessment", "exercise"}

// numberedSegmentRe matches unit slugs like "2-provision-resources";
// ordinals above 19 do not occur in practice.
var numberedSegmentRe = regexp.MustCompile(`^(1[0-9]|[1-9])-`)

// PathRef is a recognized learning-path link.
type PathRef struct {
	Title string
	URL   string
	UID   string
}

// LinkRef is a recognized module or unit link. Href keeps the original
// attribute value; URL is absolute.
type LinkRef struct {
	Title string
	URL   string
	Href  string
}

// PathLink converts a data-learn-uid attribute value into a learning-path
// reference. UIDs look like "learn.wwl.explore-azure-machine-learning";
// the final dot segment is the path slug, from which both the canonical
// URL and a placeholder title are derived. There is no href fallback:
// links without the attribute are ignored.
func PathLink(uid string) *PathRef {
	if !strings.HasPrefix(uid, pathUIDPrefix) {
		return nil
	}
	parts := strings.Split(uid, ".")
	slug := parts[len(parts)-1]
	if slug == "" {
		return nil
	}
	return &PathRef{
		Title: titleFromSlug(slug),
		URL:   pathURLPrefix + slug + "/",
		UID:   uid,
	}
}

// CollectPathLinks returns every learning path referenced by the course
// page, in document order.
func CollectPathLinks(doc *goquery.Document) []*PathRef {
	var refs []*PathRef
	doc.Find("article[data-learn-uid]").Each(func(_ int, s *goquery.Selection) {
		uid, _ := s.Attr("data-learn-uid")
		if ref := PathLink(uid); ref != nil {
			refs = append(refs, ref)
		}
	})
	return refs
}

// ModuleLink classifies an anchor as a module reference. Module links are
// recognized by the "modules" keyword in the href; the inconsistent
// relative forms used across path pages are normalized to the canonical
// absolute URL, always ending with a trailing slash.
func ModuleLink(href, text, pageURL string) *LinkRef {
	if href == "" || text == "" || !strings.Contains(href, moduleKeyword) {
		return nil
	}

	var moduleURL string
	switch {
	case strings.HasPrefix(href, "../../modules/"):
		moduleURL = SiteRoot + "/en-us/training/modules/" + strings.TrimPrefix(href, "../../modules/")
	case strings.HasPrefix(href, "/modules/"):
		moduleURL = SiteRoot + "/en-us/training" + href
	case strings.HasPrefix(href, "/training/modules/"):
		moduleURL = SiteRoot + href
	default:
		moduleURL = resolve(pageURL, href)
	}
	if moduleURL == "" {
		return nil
	}
	if !strings.HasSuffix(moduleURL, "/") {
		moduleURL += "/"
	}

	return &LinkRef{Title: text, URL: moduleURL, Href: href}
}

// CollectModuleLinks returns the modules linked from a path page,
// deduplicated by resolved URL. The first anchor pointing at a URL wins;
// later duplicates are dropped even when their visible text differs.
func CollectModuleLinks(doc *goquery.Document, pageURL string) []*LinkRef {
	seen := newDedup()
	var refs []*LinkRef
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref := ModuleLink(href, strings.TrimSpace(s.Text()), pageURL)
		if ref != nil && seen.Add(ref.URL) {
			refs = append(refs, ref)
		}
	})
	return refs
}

// UnitLink classifies an anchor as a unit reference. A unit link either
// contains one of the unit keywords in its href (and has visible text),
// or its last path segment starts with a 1-19 ordinal.
func UnitLink(href, text, pageURL string) *LinkRef {
	if href == "" {
		return nil
	}

	match := false
	if text != "" {
		for _, kw := range unitKeywords {
			if strings.Contains(href, kw) {
				match = true
				break
			}
		}
	}
	if !match && !numberedSegment(href) {
		return nil
	}

	unitURL := resolve(pageURL, href)
	if unitURL == "" {
		return nil
	}
	return &LinkRef{Title: text, URL: unitURL, Href: href}
}

// CollectUnitLinks returns the units linked from a module page,
// deduplicated by resolved URL, in document order. Sorting is the
// ordering engine's concern, not the classifier's.
func CollectUnitLinks(doc *goquery.Document, pageURL string) []*LinkRef {
	seen := newDedup()
	var refs []*LinkRef
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref := UnitLink(href, strings.TrimSpace(s.Text()), pageURL)
		if ref != nil && seen.Add(ref.URL) {
			refs = append(refs, ref)
		}
	})
	return refs
}

// numberedSegment reports whether the last path segment of href starts
// with a 1-19 ordinal, e.g. "2-provision-resources".
func numberedSegment(href string) bool {
	seg := strings.TrimSuffix(href, "/")
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	return numberedSegmentRe.MatchString(seg)
}

// titleFromSlug turns "explore-azure-machine-learning" into
// "Explore Azure Machine Learning".
func titleFromSlug(slug string) string {
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// resolve resolves href against base, returning "" on unparseable input.
func resolve(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}
