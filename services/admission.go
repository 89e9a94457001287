package services

import (
	"time"

	"apartment-hunter/models"
)

// AdmissionGate makes the final pass/fail decision for an enriched listing.
// It is a pure function of the listing and the configured cutoff: running it
// twice on the same listing always yields the same answer.
type AdmissionGate struct {
	cutoff *time.Time
}

// NewAdmissionGate creates a gate with an optional availability cutoff.
func NewAdmissionGate(cutoff *time.Time) *AdmissionGate {
	return &AdmissionGate{cutoff: cutoff}
}

// Decide admits a listing iff it landed in at least one area, every POI
// definition was satisfied, every required keyword group matched, and its
// availability date (when known) does not fall after the cutoff. A missing
// availability date never blocks admission.
func (g *AdmissionGate) Decide(l *models.Listing) bool {
	if len(l.Areas) == 0 {
		return false
	}
	if !l.HasAllPOIs {
		return false
	}
	if !l.KeywordsOK {
		return false
	}
	if g.cutoff != nil && l.AvailableOn != nil && l.AvailableOn.After(*g.cutoff) {
		return false
	}
	return true
}
