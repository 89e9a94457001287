package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"apartment-hunter/models"
)

func testListing() *models.Listing {
	available := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return &models.Listing{
		ClID:     6048573625,
		URL:      "https://seattle.craigslist.org/see/apa/6048573625.html",
		Title:    "Sunny 1BR",
		Price:    1850,
		Hood:     "Capitol Hill",
		Lat:      47.61,
		Lon:      -122.32,
		Areas:    []string{"Capitol Hill"},
		Keywords: []string{"parking"},
		POIs: []models.ResolvedPOI{{
			Name:     "QFC",
			Distance: models.Measurement{Text: "0.5 mi", Value: 800},
			Duration: models.Measurement{Text: "10 min", Value: 600},
			Location: models.Coordinate{Lat: 47.612, Lon: -122.321},
		}},
		HasAllPOIs:  true,
		KeywordsOK:  true,
		AvailableOn: &available,
		PostedAt:    time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Admitted:    true,
	}
}

func TestPostgresStoreHasSeen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStoreWithDB(db)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int64(6048573625)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	seen, err := store.HasSeen(6048573625)
	if err != nil {
		t.Fatalf("HasSeen() error = %v", err)
	}
	if !seen {
		t.Errorf("HasSeen() = false; want true")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStoreArchive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStoreWithDB(db)

	mock.ExpectExec("INSERT INTO listings").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Archive(testListing()); err != nil {
		t.Errorf("Archive() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresStoreArchiveDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStoreWithDB(db)

	mock.ExpectExec("INSERT INTO listings").
		WillReturnError(&pq.Error{Code: "23505"})

	archiveErr := store.Archive(testListing())
	if !errors.Is(archiveErr, ErrDuplicateListing) {
		t.Errorf("Archive() error = %v; want ErrDuplicateListing", archiveErr)
	}
}

func TestPostgresStoreArchiveOtherErrorIsNotDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewPostgresStoreWithDB(db)

	mock.ExpectExec("INSERT INTO listings").
		WillReturnError(&pq.Error{Code: "53300"}) // too_many_connections

	archiveErr := store.Archive(testListing())
	if archiveErr == nil || errors.Is(archiveErr, ErrDuplicateListing) {
		t.Errorf("Archive() error = %v; want a non-duplicate failure", archiveErr)
	}
}

func TestJoinAndSplitList(t *testing.T) {
	tests := []struct {
		items []string
	}{
		{[]string{"Capitol Hill", "First Hill"}},
		{[]string{"gym"}},
		{nil},
	}

	for _, tt := range tests {
		got := splitList(joinList(tt.items))
		if len(got) != len(tt.items) {
			t.Errorf("round trip of %v = %v", tt.items, got)
			continue
		}
		for i := range got {
			if got[i] != tt.items[i] {
				t.Errorf("round trip of %v = %v", tt.items, got)
			}
		}
	}
}
