package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Box is a named rectangular geofence. SW and NE are [lat, lon] pairs
// giving the southwest and northeast corners. Configuration order matters:
// the name-fallback path of the classifier takes the first match.
type Box struct {
	Name string    `yaml:"name"`
	SW   []float64 `yaml:"sw"`
	NE   []float64 `yaml:"ne"`
}

// POIDefinition describes one proximity criterion. It is exactly one of two
// variants: a place category ("find the nearest grocery store") or a fixed
// named location. At most one of MaxDistance (meters) and MaxDuration
// (seconds) may be set; with neither set any measurable match passes.
type POIDefinition struct {
	Category    string    `yaml:"category"`
	Name        string    `yaml:"name"`
	Location    []float64 `yaml:"location"`
	MaxDistance *float64  `yaml:"max_distance"`
	MaxDuration *float64  `yaml:"max_duration"`
}

// IsCategory reports whether the definition is the place-category variant.
func (p *POIDefinition) IsCategory() bool { return p.Category != "" }

// IsFixed reports whether the definition is the fixed-location variant.
func (p *POIDefinition) IsFixed() bool { return len(p.Location) > 0 }

// Label returns the name used in logs and notifications.
func (p *POIDefinition) Label() string {
	if p.IsCategory() {
		return p.Category
	}
	return p.Name
}

// KeywordGroup names a set of synonyms matched case-insensitively against
// the listing body. A required group that never matches blocks admission.
type KeywordGroup struct {
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms"`
	Required bool     `yaml:"required"`
}

// Criteria is the static search configuration, loaded once at startup.
type Criteria struct {
	MinPrice int  `yaml:"min_price"`
	MaxPrice int  `yaml:"max_price"`
	PetsOK   bool `yaml:"pets_ok"`

	Site           string   `yaml:"site"`
	Areas          []string `yaml:"areas"`
	HousingSection string   `yaml:"housing_section"`

	Boxes         []Box           `yaml:"boxes"`
	Neighborhoods []string        `yaml:"neighborhoods"`
	POIs          []POIDefinition `yaml:"points_of_interest"`
	Keywords      []KeywordGroup  `yaml:"keywords"`

	// LatestAvailability is a YYYY-MM-DD cutoff; empty means no cutoff.
	LatestAvailability string `yaml:"latest_availability"`

	SleepIntervalMinutes int    `yaml:"sleep_interval_minutes"`
	SlackChannel         string `yaml:"slack_channel"`

	cutoff *time.Time
}

// Cutoff returns the parsed availability cutoff, or nil when none is set.
func (c *Criteria) Cutoff() *time.Time { return c.cutoff }

// LoadCriteria reads and validates the YAML criteria file. Any shape error
// is fatal by contract: a half-understood criterion must not silently relax
// the search.
func LoadCriteria(path string) (*Criteria, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("criteria: read %q: %w", path, err)
	}
	return ParseCriteria(raw)
}

// ParseCriteria parses and validates raw YAML criteria.
func ParseCriteria(raw []byte) (*Criteria, error) {
	c := &Criteria{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("criteria: parse: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if c.LatestAvailability != "" {
		t, err := time.Parse("2006-01-02", c.LatestAvailability)
		if err != nil {
			return nil, fmt.Errorf("criteria: latest_availability %q: %w", c.LatestAvailability, err)
		}
		c.cutoff = &t
	}
	return c, nil
}

func (c *Criteria) validate() error {
	if c.Site == "" {
		return fmt.Errorf("criteria: site must be set")
	}
	if len(c.Areas) == 0 {
		return fmt.Errorf("criteria: at least one search area must be set")
	}
	if c.HousingSection == "" {
		c.HousingSection = "apa"
	}
	if c.SleepIntervalMinutes <= 0 {
		c.SleepIntervalMinutes = 20
	}

	for i, b := range c.Boxes {
		if b.Name == "" {
			return fmt.Errorf("criteria: box %d has no name", i)
		}
		if len(b.SW) != 2 || len(b.NE) != 2 {
			return fmt.Errorf("criteria: box %q corners must be [lat, lon] pairs", b.Name)
		}
	}

	for i, p := range c.POIs {
		if err := validatePOI(i, p); err != nil {
			return err
		}
	}

	for i, k := range c.Keywords {
		if k.Name == "" {
			return fmt.Errorf("criteria: keyword group %d has no name", i)
		}
		if len(k.Synonyms) == 0 {
			return fmt.Errorf("criteria: keyword group %q has no synonyms", k.Name)
		}
	}

	return nil
}

func validatePOI(i int, p POIDefinition) error {
	switch {
	case p.IsCategory() && p.IsFixed():
		return fmt.Errorf("criteria: poi %d (%q) sets both category and location", i, p.Label())
	case !p.IsCategory() && !p.IsFixed():
		return fmt.Errorf("criteria: poi %d sets neither category nor location", i)
	case p.IsFixed() && p.Name == "":
		return fmt.Errorf("criteria: poi %d has a location but no name", i)
	case p.IsFixed() && len(p.Location) != 2:
		return fmt.Errorf("criteria: poi %q location must be a [lat, lon] pair", p.Name)
	case p.MaxDistance != nil && p.MaxDuration != nil:
		return fmt.Errorf("criteria: poi %q sets both max_distance and max_duration", p.Label())
	}
	return nil
}
