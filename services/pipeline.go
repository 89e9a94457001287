package services

import (
	"context"
	"errors"
	"time"

	"apartment-hunter/models"
	"apartment-hunter/notify"
	"apartment-hunter/storage"
	"apartment-hunter/utils"
)

// Feed produces listing summaries and, on demand, a posting's detail page.
type Feed interface {
	Search(ctx context.Context) ([]*models.RawListing, error)
	Detail(ctx context.Context, postingURL string) (*models.ListingDetail, error)
}

// Pipeline runs one full pass: feed → dedup check → enrichment → admission
// → archive → notification. Every collaborator is injected so tests can
// substitute fakes.
type Pipeline struct {
	feed     Feed
	store    storage.ArchiveStore
	audit    storage.AuditWriter // optional
	geofence *Geofence
	resolver *POIResolver
	keywords *KeywordExtractor
	gate     *AdmissionGate
	notifier notify.Notifier
	report   *ReportService
	logger   *utils.Logger
}

// NewPipeline wires together a pipeline from its collaborators. audit may
// be nil to disable the CSV audit trail.
func NewPipeline(
	feed Feed,
	store storage.ArchiveStore,
	audit storage.AuditWriter,
	geofence *Geofence,
	resolver *POIResolver,
	keywords *KeywordExtractor,
	gate *AdmissionGate,
	notifier notify.Notifier,
	logger *utils.Logger,
) *Pipeline {
	return &Pipeline{
		feed:     feed,
		store:    store,
		audit:    audit,
		geofence: geofence,
		resolver: resolver,
		keywords: keywords,
		gate:     gate,
		notifier: notifier,
		report:   NewReportService(logger),
		logger:   logger,
	}
}

// Run processes one pass over the feed. Listing-scoped failures are logged
// and never abort the pass; only a completely empty feed is an error.
func (p *Pipeline) Run(ctx context.Context) (*models.PassReport, error) {
	raw, err := p.feed.Search(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.PassReport{Scraped: len(raw)}
	var archived []*models.Listing

	for _, r := range raw {
		listing, outcome := p.processOne(ctx, r)
		switch outcome {
		case outcomeNoHood:
			report.SkippedNoHood++
		case outcomeSeen:
			report.SkippedSeen++
		case outcomeArchived:
			report.Archived++
			archived = append(archived, listing)
			if listing.Admitted {
				report.Admitted++
			}
		}
	}

	p.report.Summarize(report, archived)
	p.report.Print(report)
	return report, nil
}

type outcome int

const (
	outcomeSkipped outcome = iota // transient error or duplicate race
	outcomeNoHood
	outcomeSeen
	outcomeArchived
)

// processOne takes a single listing from summary to archived record. The
// dedup check runs before the detail fetch so already-seen postings never
// cost provider calls.
func (p *Pipeline) processOne(ctx context.Context, raw *models.RawListing) (*models.Listing, outcome) {
	hood := NormalizeHood(raw.Hood)
	if hood == "" {
		// Without a neighborhood string the listing cannot be classified;
		// treat it like an already-seen posting and leave nothing behind.
		p.logger.Debug("[pipeline] Listing %d has no neighborhood — skipping", raw.ClID)
		return nil, outcomeNoHood
	}

	seen, err := p.store.HasSeen(raw.ClID)
	if err != nil {
		p.logger.Error("[pipeline] Listing %d: dedup check failed: %v", raw.ClID, err)
		return nil, outcomeSkipped
	}
	if seen {
		return nil, outcomeSeen
	}

	detail, err := p.feed.Detail(ctx, raw.URL)
	if err != nil {
		// Transient feed-item error: not persisted, a later pass retries.
		p.logger.Warn("[pipeline] Listing %d: detail fetch failed: %v", raw.ClID, err)
		return nil, outcomeSkipped
	}

	listing := p.enrich(ctx, raw, hood, detail)
	listing.Admitted = p.gate.Decide(listing)

	if err := p.store.Archive(listing); err != nil {
		if errors.Is(err, storage.ErrDuplicateListing) {
			// Benign race: another pass committed this id between our
			// HasSeen check and the insert. It owns the notification.
			p.logger.Info("[pipeline] Listing %d archived by a concurrent pass", raw.ClID)
			return nil, outcomeSeen
		}
		p.logger.Error("[pipeline] Listing %d: archive failed: %v", raw.ClID, err)
		return nil, outcomeSkipped
	}

	if p.audit != nil {
		if err := p.audit.WriteListing(listing); err != nil {
			p.logger.Warn("[pipeline] Listing %d: audit write failed: %v", raw.ClID, err)
		}
	}

	if listing.Admitted {
		if err := p.notifier.Notify(listing); err != nil {
			// Logged, not retried; the archive entry stands either way.
			p.logger.Error("[pipeline] Listing %d: notification failed: %v", raw.ClID, err)
		}
	}

	return listing, outcomeArchived
}

// enrich derives the geographic, proximity and keyword annotations for one
// listing.
func (p *Pipeline) enrich(ctx context.Context, raw *models.RawListing, hood string, detail *models.ListingDetail) *models.Listing {
	listing := &models.Listing{
		ClID:        raw.ClID,
		URL:         raw.URL,
		Title:       NormalizeText(raw.Title),
		Price:       ParsePrice(raw.RawPrice),
		Hood:        hood,
		AvailableOn: detail.AvailableOn,
		PostedAt:    raw.PostedAt,
		CreatedAt:   time.Now(),
	}

	listing.Areas = p.geofence.Classify(detail.Geotag, hood)

	var satisfied int
	if detail.Geotag != nil {
		listing.Lat = detail.Geotag.Lat
		listing.Lon = detail.Geotag.Lon
		listing.POIs, satisfied = p.resolver.Resolve(ctx, raw.ClID, *detail.Geotag)
	}
	listing.HasAllPOIs = satisfied == p.resolver.Total()

	listing.Keywords, listing.KeywordsOK = p.keywords.Extract(detail.Body)

	if len(detail.ImageURLs) > 0 {
		listing.Image = detail.ImageURLs[0]
	}

	return listing
}
