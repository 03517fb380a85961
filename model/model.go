package model

import (
	"time"
)

// Holds all external facing types and constants.

const UnknownStopName = "Unknown Stop"

// Location is a [longitude, latitude] pair, in that order.
type Location [2]float64

func (l Location) Lon() float64 { return l[0] }
func (l Location) Lat() float64 { return l[1] }

// A bus departing from a stop, as shown on the departures board.
//
// Times are "H:MM" or "HH:MM" exactly as displayed, in whatever
// timezone the board uses. Nil when missing or not a clock time.
type Departure struct {
	ServiceNumber string  `json:"service_number"`
	Destination   string  `json:"destination"`
	ScheduledTime *string `json:"scheduled_time"`
	ExpectedTime  *string `json:"expected_time"`
}

// Stop metadata as published by the upstream stops API.
type StopMetadata struct {
	AtcoCode    string   `json:"atco_code"`
	NaptanCode  string   `json:"naptan_code"`
	CommonName  string   `json:"common_name"`
	Name        string   `json:"name"`
	LongName    string   `json:"long_name"`
	Location    Location `json:"location"`
	Indicator   *string  `json:"indicator"`
	Bearing     *string  `json:"bearing"`
	StopType    string   `json:"stop_type"`
	BusStopType string   `json:"bus_stop_type"`
	Active      bool     `json:"active"`
}

// DisplayName picks the most descriptive non-empty name.
func (m *StopMetadata) DisplayName() string {
	if m == nil {
		return UnknownStopName
	}
	for _, name := range []string{m.LongName, m.Name, m.CommonName} {
		if name != "" {
			return name
		}
	}
	return UnknownStopName
}

type DeparturesResponse struct {
	Departures  []Departure `json:"departures"`
	StopName    string      `json:"stop_name"`
	StopCode    string      `json:"stop_code"`
	Location    *Location   `json:"location,omitempty"`
	LastUpdated string      `json:"last_updated"`
}

// Subset of StopMetadata reported when validating a stop code.
type StopSummary struct {
	Name       string   `json:"name"`
	CommonName string   `json:"common_name"`
	LongName   string   `json:"long_name"`
	Location   Location `json:"location"`
	Indicator  *string  `json:"indicator"`
	Bearing    *string  `json:"bearing"`
	Active     bool     `json:"active"`
}

func (m *StopMetadata) Summary() *StopSummary {
	return &StopSummary{
		Name:       m.Name,
		CommonName: m.CommonName,
		LongName:   m.LongName,
		Location:   m.Location,
		Indicator:  m.Indicator,
		Bearing:    m.Bearing,
		Active:     m.Active,
	}
}

type ValidationResult struct {
	StopCode      string       `json:"stop_code"`
	IsValid       bool         `json:"is_valid"`
	Metadata      *StopSummary `json:"metadata,omitempty"`
	MetadataError string       `json:"metadata_error,omitempty"`
}

// Timestamps are ISO-8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
