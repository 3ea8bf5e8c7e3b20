// Package order assigns a deterministic sort key to discovered units.
// The key is a heuristic over URL and title hints, not a guarantee of
// document truth: two unhinted units legitimately tie at the middle value.
package order

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gaurav-prasanna/coursepipe/core"
)

// DefaultKey is the undifferentiated middle for units with no hint.
const DefaultKey = 500

var (
	urlNumberRe   = regexp.MustCompile(`/(\d+)-`)
	titleNumberRe = regexp.MustCompile(`^(\d+)[.\s]`)
)

// keywordOrder maps common unit kinds to their conventional position.
// Checked in order, first match wins. Both hyphenated and spaced forms of
// "knowledge check" occur in the wild.
var keywordOrder = []struct {
	keyword string
	key     int
}{
	{"introduction", 1},
	{"exercise", 900},
	{"assessment", 998},
	{"knowledge-check", 998},
	{"knowledge check", 998},
	{"summary", 999},
}

// Key derives the sort key for a unit. Precedence: a "/<n>-" segment in
// the URL, then a leading "<n>." or "<n> " token in the title, then the
// keyword table over the lower-cased title, then DefaultKey.
func Key(unitURL, title string) int {
	if m := urlNumberRe.FindStringSubmatch(unitURL); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if m := titleNumberRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	lower := strings.ToLower(title)
	for _, kw := range keywordOrder {
		if strings.Contains(lower, kw.keyword) {
			return kw.key
		}
	}
	return DefaultKey
}

// Sort orders units ascending by key. The sort is stable: ties keep
// discovery order.
func Sort(units []*core.Unit) {
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].Order < units[j].Order
	})
}
