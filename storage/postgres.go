package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"apartment-hunter/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// PostgresStore archives enriched listings in PostgreSQL. The unique
// constraint on cl_id is the dedup guarantee: concurrent passes may both
// observe an unseen id, but only one insert can commit.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

// NewPostgresStoreWithDB wraps an existing database handle; used by tests.
func NewPostgresStoreWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id           SERIAL PRIMARY KEY,
			cl_id        BIGINT        UNIQUE NOT NULL,
			url          TEXT          NOT NULL,
			title        TEXT          NOT NULL DEFAULT '',
			price        NUMERIC(10,2) NOT NULL DEFAULT 0,
			hood         TEXT          NOT NULL DEFAULT '',
			lat          DOUBLE PRECISION NOT NULL DEFAULT 0,
			lon          DOUBLE PRECISION NOT NULL DEFAULT 0,
			areas        TEXT          NOT NULL DEFAULT '',
			pois         JSONB         NOT NULL DEFAULT '[]',
			has_all_pois BOOLEAN       NOT NULL DEFAULT FALSE,
			keywords     TEXT          NOT NULL DEFAULT '',
			keywords_ok  BOOLEAN       NOT NULL DEFAULT FALSE,
			image        TEXT          NOT NULL DEFAULT '',
			available_on DATE,
			posted_at    TIMESTAMPTZ,
			admitted     BOOLEAN       NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_admitted ON listings(admitted);
		CREATE INDEX IF NOT EXISTS idx_listings_areas    ON listings(areas);
	`)
	return err
}

// HasSeen reports whether the Craigslist id has already been archived.
func (s *PostgresStore) HasSeen(clID int64) (bool, error) {
	var seen bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM listings WHERE cl_id = $1)", clID,
	).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("postgres: has seen %d: %w", clID, err)
	}
	return seen, nil
}

// Archive inserts the listing. A unique violation on cl_id surfaces as
// ErrDuplicateListing so the caller can treat it as a benign race.
func (s *PostgresStore) Archive(l *models.Listing) error {
	pois, err := json.Marshal(l.POIs)
	if err != nil {
		return fmt.Errorf("postgres: marshal pois for %d: %w", l.ClID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO listings
			(cl_id, url, title, price, hood, lat, lon, areas, pois,
			 has_all_pois, keywords, keywords_ok, image, available_on,
			 posted_at, admitted)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
	`,
		l.ClID, l.URL, l.Title, l.Price, l.Hood, l.Lat, l.Lon,
		joinList(l.Areas), pois, l.HasAllPOIs, joinList(l.Keywords),
		l.KeywordsOK, l.Image, l.AvailableOn, l.PostedAt, l.Admitted,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return fmt.Errorf("archive %d: %w", l.ClID, ErrDuplicateListing)
		}
		return fmt.Errorf("postgres: archive %d: %w", l.ClID, err)
	}
	return nil
}

// FetchAll retrieves every archived listing, oldest first.
func (s *PostgresStore) FetchAll() ([]*models.Listing, error) {
	rows, err := s.db.Query(`
		SELECT id, cl_id, url, title, price, hood, lat, lon, areas, pois,
		       has_all_pois, keywords, keywords_ok, image, available_on,
		       posted_at, admitted, created_at
		FROM listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		var areas, keywords string
		var pois []byte
		var postedAt sql.NullTime

		if err := rows.Scan(
			&l.ID, &l.ClID, &l.URL, &l.Title, &l.Price, &l.Hood,
			&l.Lat, &l.Lon, &areas, &pois, &l.HasAllPOIs, &keywords,
			&l.KeywordsOK, &l.Image, &l.AvailableOn, &postedAt,
			&l.Admitted, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}

		l.Areas = splitList(areas)
		l.Keywords = splitList(keywords)
		if postedAt.Valid {
			l.PostedAt = postedAt.Time
		}
		if err := json.Unmarshal(pois, &l.POIs); err != nil {
			return nil, fmt.Errorf("postgres: unmarshal pois for %d: %w", l.ClID, err)
		}

		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// joinList serializes a string set at the persistence boundary.
func joinList(items []string) string {
	return strings.Join(items, ", ")
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ", ")
}
