package parse

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"tidbyt.dev/bustimes/model"
)

// The upstream markup is not a stable contract, so both the stop name
// and the departure rows are looked up through several fallbacks.
var (
	stopNameSelectors = []string{
		"h1",
		".stop-name",
		"[data-stop-name]",
		".breadcrumbs li:last-child",
		"title",
	}

	departureRowSelector = "tbody tr, .departures-table tr, .timetable tr"
)

// Page titles and headings containing this are site chrome, not a stop
// name.
const siteName = "bustimes.org"

var (
	whitespaceRegexp     = regexp.MustCompile(`\s+`)
	stopPrefixRegexp     = regexp.MustCompile(`(?i)^Stop\s+`)
	departuresSuffRegexp = regexp.MustCompile(`(?i)\s+departures$`)
)

// Parses a departures page into a DeparturesResponse.
//
// Rows lacking a service number or destination are dropped. Rows that
// blow up while being parsed are logged and skipped. Departures keep
// document order. LastUpdated is set from when.
func ParseDepartures(
	logger *slog.Logger,
	html string,
	stopCode string,
	when time.Time,
) (*model.DeparturesResponse, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	departures := []model.Departure{}
	doc.Find(departureRowSelector).Each(func(i int, row *goquery.Selection) {
		departure, ok, err := parseRowSafely(row)
		if err != nil {
			logger.Warn("failed to parse departure row", "stop_code", stopCode, "row", i, "error", err)
			return
		}
		if ok {
			departures = append(departures, departure)
		}
	})

	return &model.DeparturesResponse{
		Departures:  departures,
		StopName:    extractStopName(doc),
		StopCode:    stopCode,
		LastUpdated: model.Timestamp(when),
	}, nil
}

func extractStopName(doc *goquery.Document) string {
	for _, selector := range stopNameSelectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}

		text := strings.TrimSpace(el.Text())
		if text == "" {
			text = strings.TrimSpace(el.AttrOr("data-stop-name", ""))
		}
		if text == "" {
			text = strings.TrimSpace(el.AttrOr("content", ""))
		}
		if text == "" || strings.Contains(text, siteName) {
			continue
		}

		return cleanStopName(text)
	}

	return model.UnknownStopName
}

func cleanStopName(name string) string {
	name = collapseWhitespace(name)
	name = stopPrefixRegexp.ReplaceAllString(name, "")
	name = departuresSuffRegexp.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// Markup is third party and goquery walks arbitrary trees; a panic on
// a single row must not take down the whole board.
func parseRowSafely(row *goquery.Selection) (departure model.Departure, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	departure, ok = parseRow(row)
	return departure, ok, nil
}

// Rows have either 3 cells (service, destination, scheduled) or 4
// (service, destination, scheduled, expected).
func parseRow(row *goquery.Selection) (model.Departure, bool) {
	cells := row.Find("td, th")
	if cells.Length() < 3 {
		return model.Departure{}, false
	}

	serviceNumber := cellText(cells.Eq(0))
	if serviceNumber == "" {
		return model.Departure{}, false
	}

	destination := destinationText(cells.Eq(1))
	if destination == "" {
		return model.Departure{}, false
	}

	scheduled := cellText(cells.Eq(2))

	expected := ""
	if cells.Length() >= 4 {
		expected = cellText(cells.Eq(3))
	}

	return model.Departure{
		ServiceNumber: serviceNumber,
		Destination:   destination,
		ScheduledTime: NormalizeTime(scheduled),
		ExpectedTime:  NormalizeTime(expected),
	}, true
}

// Prefers the text of an embedded link, falling back to the whole cell.
func cellText(cell *goquery.Selection) string {
	if link := cell.Find("a").First(); link.Length() > 0 {
		if text := link.Text(); text != "" {
			return strings.TrimSpace(text)
		}
	}
	return strings.TrimSpace(cell.Text())
}

// The destination cell may carry a nested .vehicle element (fleet
// number, livery) which is not part of the destination.
func destinationText(cell *goquery.Selection) string {
	text := cell.Text()
	if vehicle := cell.Find(".vehicle").First(); vehicle.Length() > 0 {
		if vehicleText := vehicle.Text(); vehicleText != "" {
			text = strings.Replace(text, vehicleText, "", 1)
		}
	}
	return strings.TrimSpace(collapseWhitespace(text))
}

func collapseWhitespace(s string) string {
	return whitespaceRegexp.ReplaceAllString(s, " ")
}
