package extract

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/classify"
)

const (
	// localePrefix replaces the "../../" prefix of relative image sources.
	localePrefix = "/en-us/"

	minContextLen = 10
	maxContextLen = 200
)

// imageCategory pairs an image type with the substrings that signal it.
// Source keywords are checked first; alt keywords only when no source
// keyword matched.
type imageCategory struct {
	imageType core.ImageType
	srcWords  []string
	altWords  []string
}

var imageCategories = []imageCategory{
	{core.ImageDiagram,
		[]string{"diagram", "architecture", "flowchart", "workflow"},
		[]string{"diagram", "architecture", "flowchart", "workflow", "hierarchy"}},
	{core.ImageScreenshot,
		[]string{"screenshot", "screen", "ui", "interface"},
		[]string{"screenshot", "screen", "interface", "portal", "page", "window"}},
	{core.ImageChart,
		[]string{"chart", "graph", "plot"},
		[]string{"chart", "graph", "plot", "visualization"}},
	{core.ImageCodeExample,
		[]string{"code", "snippet", "example"},
		[]string{"code", "snippet", "example", "syntax"}},
	{core.ImageIcon,
		[]string{"icon", "logo", "badge"},
		[]string{"icon", "logo", "badge", "button"}},
}

// ClassifyImage decides what an image depicts from its source path and
// alt text. The source is authoritative; alt text is consulted only when
// the source gives no signal. First matching category wins.
func ClassifyImage(src, alt string) core.ImageType {
	srcLower := strings.ToLower(src)
	for _, cat := range imageCategories {
		if containsAny(srcLower, cat.srcWords) {
			return cat.imageType
		}
	}

	altLower := strings.ToLower(alt)
	for _, cat := range imageCategories {
		if containsAny(altLower, cat.altWords) {
			return cat.imageType
		}
	}

	return core.ImageIllustration
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// extractImages records metadata for every image in the content region
// that has a non-empty source.
func extractImages(content *goquery.Selection, unitURL string) []core.ImageRecord {
	var images []core.ImageRecord
	content.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if src == "" {
			return
		}
		alt, _ := s.Attr("alt")
		title, _ := s.Attr("title")

		abs := resolveImageURL(src, unitURL)
		images = append(images, core.ImageRecord{
			Src:         src,
			AbsoluteURL: abs,
			AltText:     alt,
			Title:       title,
			Filename:    imageFilename(abs),
			Type:        ClassifyImage(src, alt),
			Context:     imageContext(s),
		})
	})
	return images
}

// resolveImageURL turns the inconsistent image source forms into an
// absolute URL: "../../wwl-azure/..." maps under the site's locale root,
// "/media/..." under the site root, and anything else relative resolves
// against the unit URL.
func resolveImageURL(src, unitURL string) string {
	switch {
	case strings.HasPrefix(src, "../../"):
		return classify.SiteRoot + localePrefix + strings.TrimPrefix(src, "../../")
	case strings.HasPrefix(src, "/"):
		return classify.SiteRoot + src
	case strings.HasPrefix(src, "http"):
		return src
	}

	base, err := url.Parse(unitURL)
	if err != nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return base.ResolveReference(ref).String()
}

// imageFilename returns the basename of the resolved URL with any query
// string stripped.
func imageFilename(absURL string) string {
	name := path.Base(absURL)
	if i := strings.Index(name, "?"); i >= 0 {
		name = name[:i]
	}
	return name
}

// imageContext captures the text surrounding an image: the nearest
// preceding heading, the enclosing figure's caption, and the next
// paragraph (only when meaningful, capped at maxContextLen).
func imageContext(s *goquery.Selection) core.ImageContext {
	ctx := core.ImageContext{}
	if len(s.Nodes) == 0 {
		return ctx
	}
	node := s.Nodes[0]

	for n := prevNode(node); n != nil; n = prevNode(n) {
		if n.Type == html.ElementNode && headingLevel(n.Data) > 0 {
			ctx.PrecedingHeading = strings.TrimSpace(rawText(n))
			break
		}
	}

	if fig := s.Closest("figure"); fig.Length() > 0 {
		ctx.FigureCaption = strings.TrimSpace(fig.Find("figcaption").First().Text())
	}

	for n := nextNode(node); n != nil; n = nextNode(n) {
		if n.Type == html.ElementNode && n.Data == "p" {
			text := strings.TrimSpace(rawText(n))
			if len(text) > minContextLen {
				if len(text) > maxContextLen {
					text = text[:maxContextLen]
				}
				ctx.FollowingText = text
			}
			break
		}
	}

	return ctx
}

// prevNode steps one node backwards in document order.
func prevNode(n *html.Node) *html.Node {
	if n.PrevSibling != nil {
		n = n.PrevSibling
		for n.LastChild != nil {
			n = n.LastChild
		}
		return n
	}
	return n.Parent
}

// nextNode steps one node forwards in document order.
func nextNode(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

// rawText concatenates every text node under n.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
