package models

import "time"

// Coordinate is a latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lon float64
}

// RawListing holds the fields scraped from a search-result row, before the
// detail page has been fetched. Listings without a neighborhood string are
// dropped before any enrichment.
type RawListing struct {
	ClID      int64 // Craigslist posting id, unique and stable
	URL       string
	Title     string
	RawPrice  string
	Hood      string // free-text neighborhood string, e.g. "Capitol Hill"
	PostedAt  time.Time
	ScrapedAt time.Time
}

// ListingDetail holds the fields only present on a posting's detail page.
// Every field is optional; many postings carry no geotag or body.
type ListingDetail struct {
	Geotag      *Coordinate
	Body        string
	ImageURLs   []string
	AvailableOn *time.Time
}

// Measurement is a single distance or duration reading from the distance
// provider. A Value of exactly 0 means the provider could not compute a
// route and must never be read as "zero distance".
type Measurement struct {
	Text  string  `json:"text"`
	Value float64 `json:"value"`
}

// ResolvedPOI is one point of interest that passed its definition's
// distance/duration threshold for a particular listing.
type ResolvedPOI struct {
	Name     string      `json:"name"`
	Distance Measurement `json:"distance"`
	Duration Measurement `json:"duration"`
	Location Coordinate  `json:"location"`
}

// Listing is the enriched record archived in PostgreSQL, one row per
// Craigslist id. Rows are written exactly once and never updated.
type Listing struct {
	ID          int64
	ClID        int64
	URL         string
	Title       string
	Price       float64 // 0 when the price text was unparseable
	Hood        string
	Lat         float64
	Lon         float64
	Areas       []string // matched area names, configuration order
	POIs        []ResolvedPOI
	HasAllPOIs  bool // every configured POI definition yielded a match
	Keywords    []string
	KeywordsOK  bool // every required keyword group matched
	Image       string
	AvailableOn *time.Time
	PostedAt    time.Time
	CreatedAt   time.Time
	Admitted    bool
}

// PassReport summarizes a single scrape pass over the feed.
type PassReport struct {
	Scraped       int
	SkippedSeen   int
	SkippedNoHood int
	Archived      int
	Admitted      int
	ByArea        map[string]int
	AveragePrice  float64
}
