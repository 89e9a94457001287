package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"apartment-hunter/models"
)

// CSVWriter appends archived listings to a CSV audit file, one row per
// listing as it is processed. It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter opens (or creates) the CSV audit file at the given path,
// writing the header row only when the file is new. Intermediate
// directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	info, statErr := os.Stat(path)
	fresh := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("csv: open file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write([]string{
			"cl_id", "url", "title", "price", "hood", "areas",
			"keywords", "has_all_pois", "admitted", "available_on", "posted_at",
		}); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("csv: write header: %w", err)
		}
		w.Flush()
	}

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteListing appends one archived listing to the audit file.
func (c *CSVWriter) WriteListing(l *models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	availableOn := ""
	if l.AvailableOn != nil {
		availableOn = l.AvailableOn.Format("2006-01-02")
	}

	row := []string{
		strconv.FormatInt(l.ClID, 10),
		l.URL,
		l.Title,
		fmt.Sprintf("%.2f", l.Price),
		l.Hood,
		strings.Join(l.Areas, "; "),
		strings.Join(l.Keywords, "; "),
		strconv.FormatBool(l.HasAllPOIs),
		strconv.FormatBool(l.Admitted),
		availableOn,
		l.PostedAt.Format(time.RFC3339),
	}
	if err := c.writer.Write(row); err != nil {
		return fmt.Errorf("csv: write row: %w", err)
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
