package main

import (
	"context"
	"time"

	"apartment-hunter/config"
	"apartment-hunter/geocode"
	"apartment-hunter/notify"
	"apartment-hunter/scraper/craigslist"
	"apartment-hunter/services"
	"apartment-hunter/storage"
	"apartment-hunter/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if cfg.SlackToken == "" {
		logger.Fatal("SLACK_TOKEN must be set")
	}
	if cfg.GoogleMapsToken == "" {
		logger.Fatal("GOOGLE_MAPS_TOKEN must be set")
	}

	criteria, err := config.LoadCriteria(cfg.CriteriaPath)
	if err != nil {
		logger.Fatal("Invalid criteria: %v", err)
	}

	logger.Info("=== Apartment Hunter starting ===")
	logger.Info("Criteria — site: %s | areas: %v | boxes: %d | POIs: %d | keyword groups: %d",
		criteria.Site, criteria.Areas, len(criteria.Boxes), len(criteria.POIs), len(criteria.Keywords))

	store, err := storage.NewPostgresStore(cfg.DSN())
	if err != nil {
		logger.Fatal("Failed to connect to PostgreSQL: %v", err)
	}
	defer store.Close()

	var audit storage.AuditWriter
	if cfg.CSVAuditPath != "" {
		csvWriter, err := storage.NewCSVWriter(cfg.CSVAuditPath)
		if err != nil {
			logger.Fatal("Failed to open CSV audit file: %v", err)
		}
		defer csvWriter.Close()
		audit = csvWriter
	}

	provider, err := geocode.NewGoogleClient(cfg.GoogleMapsToken)
	if err != nil {
		logger.Fatal("Failed to create Google Maps client: %v", err)
	}

	pipeline := services.NewPipeline(
		craigslist.New(cfg, criteria, logger),
		store,
		audit,
		services.NewGeofence(criteria.Boxes, criteria.Neighborhoods),
		services.NewPOIResolver(provider, criteria.POIs, logger),
		services.NewKeywordExtractor(criteria.Keywords),
		services.NewAdmissionGate(criteria.Cutoff()),
		notify.NewSlackNotifier(cfg.SlackToken, criteria.SlackChannel),
		logger,
	)

	interval := time.Duration(criteria.SleepIntervalMinutes) * time.Minute
	for {
		logger.Info("Starting scrape cycle")
		if _, err := pipeline.Run(context.Background()); err != nil {
			logger.Error("Scrape cycle failed: %v", err)
		} else {
			logger.Info("Scrape cycle finished")
		}
		time.Sleep(interval)
	}
}
