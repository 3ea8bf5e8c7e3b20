// Package extract turns a fetched unit page into a ContentBlock.
// It isolates the primary content region (<main>, then <article>, then
// the whole document) after stripping noise elements, and pulls out the
// flattened text, headings, code blocks, image metadata, and links.
package extract

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// noiseSelectors are removed before extraction; they carry page chrome,
// not course content.
var noiseSelectors = []string{"script", "style", "nav", "footer", "header"}

// minCodeLen filters out inline code spans too short to be meaningful.
const minCodeLen = 10

// Unit extracts structured content from a unit page. It is a pure
// transform and never fails: unparseable markup yields an empty block,
// which callers treat as not-yet-done.
func Unit(htmlText, unitURL string) core.ContentBlock {
	var block core.ContentBlock

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlText))
	if err != nil {
		return block
	}

	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	content := contentRegion(doc)

	block.Text = flattenText(content)
	block.Markdown = contentMarkdown(content)

	content.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		block.Headings = append(block.Headings, core.Heading{
			Level: headingLevel(goquery.NodeName(s)),
			Text:  strings.TrimSpace(s.Text()),
		})
	})

	content.Find("code, pre").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if len(text) > minCodeLen {
			block.CodeBlocks = append(block.CodeBlocks, text)
		}
	})

	block.Images = extractImages(content, unitURL)

	content.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		text := strings.TrimSpace(s.Text())
		if href != "" && text != "" {
			block.Links = append(block.Links, core.LinkRecord{URL: href, Text: text})
		}
	})

	return block
}

// contentRegion picks the primary content container.
func contentRegion(doc *goquery.Document) *goquery.Selection {
	for _, tag := range []string{"main", "article"} {
		if sel := doc.Find(tag); sel.Length() > 0 {
			return sel.First()
		}
	}
	return doc.Selection
}

// flattenText joins every non-empty trimmed text node with a newline,
// which keeps block boundaries visible in the flat text.
func flattenText(sel *goquery.Selection) string {
	var parts []string
	for _, node := range sel.Nodes {
		collectText(node, &parts)
	}
	return strings.Join(parts, "\n")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// contentMarkdown converts the content region to Markdown. Conversion
// failures degrade to an empty string; the flat text remains the
// authoritative content field.
func contentMarkdown(sel *goquery.Selection) string {
	frag, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(frag)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(md)
}

// headingLevel maps "h1".."h6" to 1..6.
func headingLevel(name string) int {
	if len(name) == 2 && name[0] == 'h' {
		if n := int(name[1] - '0'); n >= 1 && n <= 6 {
			return n
		}
	}
	return 0
}
