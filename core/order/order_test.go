package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gaurav-prasanna/coursepipe/core"
	"github.com/gaurav-prasanna/coursepipe/core/order"
)

func TestKeyFromURL(t *testing.T) {
	assert.Equal(t, 2, order.Key("https://learn.microsoft.com/en-us/training/modules/m/2-provision/", "Provision"))
	assert.Equal(t, 12, order.Key("https://learn.microsoft.com/en-us/training/modules/m/12-cleanup/", ""))
}

func TestKeyURLBeatsTitle(t *testing.T) {
	assert.Equal(t, 2, order.Key(".../2-provision/", "9. Provision"))
}

func TestKeyFromTitle(t *testing.T) {
	assert.Equal(t, 3, order.Key("https://example.com/provision", "3. Provision resources"))
	assert.Equal(t, 7, order.Key("", "7 Deploy the workspace"))
}

func TestKeyKeywordFallback(t *testing.T) {
	cases := map[string]int{
		"Introduction":      1,
		"Exercise - Create": 900,
		"Module assessment": 998,
		"Knowledge check":   998,
		"knowledge-check":   998,
		"Summary":           999,
	}
	for title, want := range cases {
		assert.Equal(t, want, order.Key("https://example.com/unit", title), "title %q", title)
	}
}

func TestKeyDefault(t *testing.T) {
	assert.Equal(t, order.DefaultKey, order.Key("https://example.com/unit", "Deploy resources"))
}

func TestSortOrdersByKey(t *testing.T) {
	units := []*core.Unit{
		{Order: order.Key(".../2-provision/", "Provision"), Title: "Provision"},
		{Order: order.Key(".../1-introduction/", "Introduction"), Title: "Introduction"},
		{Order: order.Key(".../3-summary/", "Summary"), Title: "Summary"},
	}

	order.Sort(units)

	var titles []string
	for _, u := range units {
		titles = append(titles, u.Title)
	}
	assert.Equal(t, []string{"Introduction", "Provision", "Summary"}, titles)
}

func TestSortStableOnTies(t *testing.T) {
	units := []*core.Unit{
		{Order: order.DefaultKey, Title: "First discovered"},
		{Order: order.DefaultKey, Title: "Second discovered"},
		{Order: 1, Title: "Introduction"},
	}

	order.Sort(units)

	assert.Equal(t, "Introduction", units[0].Title)
	assert.Equal(t, "First discovered", units[1].Title)
	assert.Equal(t, "Second discovered", units[2].Title)
}
