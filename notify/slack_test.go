package notify

import (
	"strings"
	"testing"

	"apartment-hunter/models"
)

func TestFormatListing(t *testing.T) {
	l := &models.Listing{
		URL:      "https://seattle.craigslist.org/see/apa/6048573625.html",
		Title:    "Sunny 1BR",
		Price:    1850,
		Areas:    []string{"Capitol Hill"},
		Keywords: []string{"parking", "gym"},
		Image:    "https://images.craigslist.org/abc_600x450.jpg",
		POIs: []models.ResolvedPOI{
			{Name: "QFC", Duration: models.Measurement{Text: "10 min", Value: 600}},
			{Name: "office", Duration: models.Measurement{Text: "25 min", Value: 1500}},
		},
	}

	msg := FormatListing(l)
	lines := strings.Split(msg, "\n")

	if lines[0] != "Capitol Hill | $1850 | <https://seattle.craigslist.org/see/apa/6048573625.html|Sunny 1BR>" {
		t.Errorf("headline = %q", lines[0])
	}
	if lines[1] != "* 10 min walk to QFC" {
		t.Errorf("poi line = %q", lines[1])
	}
	if lines[2] != "* 25 min walk to office" {
		t.Errorf("poi line = %q", lines[2])
	}
	if lines[3] != "keywords: parking, gym" {
		t.Errorf("keywords line = %q", lines[3])
	}
	if lines[4] != l.Image {
		t.Errorf("image line = %q", lines[4])
	}
}

func TestFormatListingMinimal(t *testing.T) {
	l := &models.Listing{
		URL:   "https://seattle.craigslist.org/see/apa/1.html",
		Title: "Studio",
		Areas: []string{"Eastlake"},
	}

	msg := FormatListing(l)
	if strings.Contains(msg, "keywords:") {
		t.Errorf("empty keyword list rendered: %q", msg)
	}
	if len(strings.Split(msg, "\n")) != 1 {
		t.Errorf("minimal listing should be a single line: %q", msg)
	}
}
