package services

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// priceRegexp captures the first numeric value in a price string.
var priceRegexp = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParsePrice extracts a numeric monthly price from raw listing price text
// such as "$1,850" or "$900/mo". Unparseable text yields 0 rather than an
// error; a zero price is never used for filtering, only display.
func ParsePrice(raw string) float64 {
	cleaned := strings.ReplaceAll(raw, ",", "")
	match := priceRegexp.FindString(cleaned)
	if match == "" {
		return 0
	}

	price, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return price
}

// NormalizeText strips leading/trailing whitespace and collapses internal
// whitespace runs to single spaces.
func NormalizeText(s string) string {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

// NormalizeHood trims the decoration Craigslist puts around the
// neighborhood string, e.g. "(Capitol Hill)" → "Capitol Hill".
func NormalizeHood(s string) string {
	return NormalizeText(strings.Trim(strings.TrimSpace(s), "()"))
}
