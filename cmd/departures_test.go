package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tidbyt.dev/bustimes/model"
)

func strPtr(s string) *string { return &s }

func testResponse() *model.DeparturesResponse {
	return &model.DeparturesResponse{
		Departures: []model.Departure{
			{ServiceNumber: "72", Destination: "Bristol Temple Meads", ScheduledTime: strPtr("14:05"), ExpectedTime: strPtr("14:07")},
			{ServiceNumber: "m1", Destination: "Cribbs Causeway", ScheduledTime: strPtr("14:10")},
			{ServiceNumber: "X3", Destination: "Portishead"},
		},
		StopName:    "Parkway Station (Stop A)",
		StopCode:    "0100BRP90340",
		LastUpdated: "2025-01-15T14:00:00.000Z",
	}
}

func TestWriteDeparturesText(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeDepartures(buf, testResponse(), "text"))

	assert.Equal(t, `Parkway Station (Stop A) (0100BRP90340)
72 14:07 Bristol Temple Meads
m1 14:10 Cribbs Causeway
X3 - Portishead
`, buf.String())
}

func TestWriteDeparturesCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeDepartures(buf, testResponse(), "csv"))

	assert.Equal(t, `service_number,destination,scheduled_time,expected_time
72,Bristol Temple Meads,14:05,14:07
m1,Cribbs Causeway,14:10,
X3,Portishead,,
`, buf.String())
}

func TestWriteDeparturesJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, writeDepartures(buf, testResponse(), "json"))

	decoded := model.DeparturesResponse{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, *testResponse(), decoded)
}

func TestWriteDeparturesUnknownFormat(t *testing.T) {
	err := writeDepartures(&bytes.Buffer{}, testResponse(), "xml")
	assert.Error(t, err)
}
