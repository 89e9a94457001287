// Package craigslist scrapes the Craigslist housing feed. Search pages give
// the listing summaries; the geotag, body text, availability date and
// images only exist on each posting's detail page, which is fetched lazily
// so already-archived postings cost a single search-row parse and nothing
// more.
package craigslist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"apartment-hunter/config"
	"apartment-hunter/models"
	"apartment-hunter/utils"
)

const (
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	requestTimeout = 30 * time.Second
	searchDateFmt  = "2006-01-02 15:04"
)

// Scraper fetches and parses Craigslist search and detail pages.
type Scraper struct {
	criteria *config.Criteria
	logger   *utils.Logger
	client   *http.Client
	pool     *utils.WorkerPool
	seen     *utils.IDSet
	retry    *utils.RetryConfig

	mu       sync.Mutex
	listings []*models.RawListing
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, criteria *config.Criteria, logger *utils.Logger) *Scraper {
	return &Scraper{
		criteria: criteria,
		logger:   logger,
		client:   &http.Client{Timeout: requestTimeout},
		pool:     utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		seen:     utils.NewIDSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// Search fetches the search-results page for every configured area
// subdirectory and returns the parsed listing summaries, newest first per
// page. A failing area is logged and skipped; the remaining areas still
// contribute their results.
func (s *Scraper) Search(ctx context.Context) ([]*models.RawListing, error) {
	s.mu.Lock()
	s.listings = nil
	s.mu.Unlock()
	s.seen = utils.NewIDSet()

	for _, area := range s.criteria.Areas {
		area := area
		s.pool.Submit(func() {
			pageURL := s.searchURL(area)
			s.logger.Debug("[craigslist] Fetching %s", pageURL)

			listings, err := s.fetchSearchPage(ctx, pageURL)
			if err != nil {
				s.logger.Error("[craigslist] Area %q failed: %v", area, err)
				return
			}

			s.mu.Lock()
			for _, l := range listings {
				if s.seen.Add(l.ClID) {
					s.listings = append(s.listings, l)
				}
			}
			s.mu.Unlock()

			s.logger.Info("[craigslist] Area %q — %d listings", area, len(listings))
		})
	}
	s.pool.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listings) == 0 {
		return nil, fmt.Errorf("craigslist: no listings from any of %d areas", len(s.criteria.Areas))
	}
	return s.listings, nil
}

// Detail fetches and parses a posting's detail page.
func (s *Scraper) Detail(ctx context.Context, postingURL string) (*models.ListingDetail, error) {
	var detail *models.ListingDetail
	err := s.retry.Do("detail-page", func() error {
		body, err := s.get(ctx, postingURL)
		if err != nil {
			return err
		}
		defer body.Close()

		detail, err = ParseDetailPage(body)
		return err
	})
	return detail, err
}

func (s *Scraper) searchURL(area string) string {
	q := url.Values{}
	q.Set("sort", "date")
	q.Set("min_price", strconv.Itoa(s.criteria.MinPrice))
	q.Set("max_price", strconv.Itoa(s.criteria.MaxPrice))
	if s.criteria.PetsOK {
		q.Set("pets_cat", "1")
	}
	return fmt.Sprintf("https://%s.craigslist.org/search/%s/%s?%s",
		s.criteria.Site, area, s.criteria.HousingSection, q.Encode())
}

func (s *Scraper) fetchSearchPage(ctx context.Context, pageURL string) ([]*models.RawListing, error) {
	var listings []*models.RawListing
	err := s.retry.Do("search-page", func() error {
		body, err := s.get(ctx, pageURL)
		if err != nil {
			return err
		}
		defer body.Close()

		listings, err = s.parseSearchPage(body)
		return err
	})
	return listings, err
}

func (s *Scraper) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("craigslist: new request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("craigslist: get %s: %w", rawURL, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("craigslist: get %s: status %d", rawURL, resp.StatusCode)
	}
	return resp.Body, nil
}

// parseSearchPage extracts listing summaries from a search-results page.
// Malformed rows are skipped individually so one odd posting cannot abort
// the page.
func (s *Scraper) parseSearchPage(r io.Reader) ([]*models.RawListing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("craigslist: parse search html: %w", err)
	}

	now := time.Now()
	var listings []*models.RawListing

	doc.Find("li.result-row").Each(func(_ int, row *goquery.Selection) {
		listing, rowErr := parseSearchRow(row, now)
		if rowErr != nil {
			s.logger.Debug("[craigslist] Skipping row: %v", rowErr)
			return
		}
		listings = append(listings, listing)
	})

	return listings, nil
}

func parseSearchRow(row *goquery.Selection, scrapedAt time.Time) (*models.RawListing, error) {
	pid, ok := row.Attr("data-pid")
	if !ok {
		return nil, fmt.Errorf("row has no data-pid")
	}
	clID, err := strconv.ParseInt(pid, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad data-pid %q: %w", pid, err)
	}

	title := row.Find("a.result-title")
	href, ok := title.Attr("href")
	if !ok || title.Text() == "" {
		return nil, fmt.Errorf("row %d has no title link", clID)
	}

	listing := &models.RawListing{
		ClID:      clID,
		URL:       href,
		Title:     strings.TrimSpace(title.Text()),
		RawPrice:  strings.TrimSpace(row.Find("span.result-price").First().Text()),
		Hood:      strings.TrimSpace(row.Find("span.result-hood").First().Text()),
		ScrapedAt: scrapedAt,
	}

	if dt, ok := row.Find("time.result-date").Attr("datetime"); ok {
		if posted, err := time.ParseInLocation(searchDateFmt, dt, time.Local); err == nil {
			listing.PostedAt = posted
		}
	}

	return listing, nil
}

// ParseDetailPage extracts the optional detail fields from a posting page.
// Every field may legitimately be absent; only unreadable HTML is an error.
func ParseDetailPage(r io.Reader) (*models.ListingDetail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("craigslist: parse detail html: %w", err)
	}

	detail := &models.ListingDetail{}

	if mapDiv := doc.Find("#map"); mapDiv.Length() > 0 {
		latStr, latOK := mapDiv.Attr("data-latitude")
		lonStr, lonOK := mapDiv.Attr("data-longitude")
		if latOK && lonOK {
			lat, latErr := strconv.ParseFloat(latStr, 64)
			lon, lonErr := strconv.ParseFloat(lonStr, 64)
			if latErr == nil && lonErr == nil {
				detail.Geotag = &models.Coordinate{Lat: lat, Lon: lon}
			}
		}
	}

	if body := doc.Find("#postingbody"); body.Length() > 0 {
		text := body.Text()
		text = strings.ReplaceAll(text, "QR Code Link to This Post", "")
		detail.Body = strings.TrimSpace(text)
	}

	doc.Find("#thumbs a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok {
			detail.ImageURLs = append(detail.ImageURLs, href)
		}
	})
	if len(detail.ImageURLs) == 0 {
		doc.Find(".gallery .slide img").Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok {
				detail.ImageURLs = append(detail.ImageURLs, src)
			}
		})
	}

	if date, ok := doc.Find("span.property_date").Attr("data-date"); ok {
		if available, err := time.Parse("2006-01-02", date); err == nil {
			detail.AvailableOn = &available
		}
	}

	return detail, nil
}
