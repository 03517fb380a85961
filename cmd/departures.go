package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"tidbyt.dev/bustimes/model"
)

var departuresCmd = &cobra.Command{
	Use:   "departures <stop_code>",
	Short: "Lists departures from a bus stop",
	Args:  cobra.ExactArgs(1),
	RunE:  departures,
}

var (
	date   string
	clock  string
	format string
)

func init() {
	departuresCmd.Flags().StringVarP(&date, "date", "d", "", "Departures on this date (YYYY-MM-DD, requires --time)")
	departuresCmd.Flags().StringVarP(&clock, "time", "t", "", "Departures from this time (HH:MM, requires --date)")
	departuresCmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, csv)")
}

func departures(cmd *cobra.Command, args []string) error {
	stopCode := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	s := newService(cfg, newLogger(cfg))

	resp, err := s.GetDeparturesAt(cmd.Context(), stopCode, date, clock)
	if err != nil {
		return err
	}

	return writeDepartures(cmd.OutOrStdout(), resp, format)
}

type departureCSV struct {
	ServiceNumber string `csv:"service_number"`
	Destination   string `csv:"destination"`
	ScheduledTime string `csv:"scheduled_time"`
	ExpectedTime  string `csv:"expected_time"`
}

func writeDepartures(w io.Writer, resp *model.DeparturesResponse, format string) error {
	switch format {
	case "json":
		buf, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(buf))
		return err

	case "csv":
		rows := make([]*departureCSV, 0, len(resp.Departures))
		for _, d := range resp.Departures {
			rows = append(rows, &departureCSV{
				ServiceNumber: d.ServiceNumber,
				Destination:   d.Destination,
				ScheduledTime: orEmpty(d.ScheduledTime),
				ExpectedTime:  orEmpty(d.ExpectedTime),
			})
		}
		return gocsv.Marshal(rows, w)

	case "text":
		fmt.Fprintf(w, "%s (%s)\n", resp.StopName, resp.StopCode)
		for _, d := range resp.Departures {
			when := orEmpty(d.ExpectedTime)
			if when == "" {
				when = orEmpty(d.ScheduledTime)
			}
			if when == "" {
				when = "-"
			}
			fmt.Fprintf(w, "%s %s %s\n", d.ServiceNumber, when, d.Destination)
		}
		return nil
	}

	return fmt.Errorf("unknown format %q", format)
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
