package storage

import (
	"errors"

	"apartment-hunter/models"
)

// ErrDuplicateListing is returned by Archive when the Craigslist id has
// already been archived. Callers treat it as a benign race between passes.
var ErrDuplicateListing = errors.New("storage: listing already archived")

// ArchiveStore is the durable dedup and audit record of processed listings.
type ArchiveStore interface {
	// HasSeen reports whether the Craigslist id has been archived.
	HasSeen(clID int64) (bool, error)

	// Archive inserts the enriched listing exactly once. A second insert
	// for the same Craigslist id fails with ErrDuplicateListing.
	Archive(listing *models.Listing) error

	// FetchAll returns every archived listing, oldest first.
	FetchAll() ([]*models.Listing, error)

	Close() error
}

// AuditWriter appends archived listings to a secondary audit sink.
type AuditWriter interface {
	WriteListing(listing *models.Listing) error
	Close() error
}
