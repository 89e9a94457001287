package services

import (
	"math"
	"sort"

	"apartment-hunter/models"
	"apartment-hunter/utils"
)

// ReportService summarizes a pass over the feed for the logs.
type ReportService struct {
	logger *utils.Logger
}

// NewReportService creates a ReportService with the given logger.
func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Summarize fills in the aggregate fields of a report from the listings
// archived during the pass.
func (s *ReportService) Summarize(report *models.PassReport, archived []*models.Listing) {
	report.ByArea = make(map[string]int)

	var priced int
	var total float64
	for _, l := range archived {
		for _, area := range l.Areas {
			report.ByArea[area]++
		}
		if l.Price > 0 {
			priced++
			total += l.Price
		}
	}

	if priced > 0 {
		report.AveragePrice = round2(total / float64(priced))
	}
}

// Print logs the pass summary.
func (s *ReportService) Print(report *models.PassReport) {
	s.logger.Info("[report] Pass done — scraped %d | already seen %d | no neighborhood %d | archived %d | admitted %d",
		report.Scraped, report.SkippedSeen, report.SkippedNoHood, report.Archived, report.Admitted)

	if report.AveragePrice > 0 {
		s.logger.Info("[report] Average price of archived listings: $%.2f", report.AveragePrice)
	}

	areas := make([]string, 0, len(report.ByArea))
	for area := range report.ByArea {
		areas = append(areas, area)
	}
	sort.Strings(areas)
	for _, area := range areas {
		s.logger.Info("[report]   %-20s %d", area, report.ByArea[area])
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
