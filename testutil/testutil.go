package testutil

// Helpers and configuration for tests.

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// A fake bustimes.org. Responses are keyed by request path; anything
// unknown is a 404.
type MockBustimes struct {
	Server *httptest.Server

	mutex     sync.Mutex
	responses map[string]mockResponse
	requests  []*http.Request
}

type mockResponse struct {
	status      int
	contentType string
	body        string
}

func NewMockBustimes(t testing.TB) *MockBustimes {
	m := &MockBustimes{
		responses: map[string]mockResponse{},
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handler))
	t.Cleanup(m.Server.Close)
	return m
}

func (m *MockBustimes) handler(w http.ResponseWriter, r *http.Request) {
	m.mutex.Lock()
	m.requests = append(m.requests, r.Clone(r.Context()))
	resp, found := m.responses[r.URL.Path]
	m.mutex.Unlock()

	if !found {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", resp.contentType)
	w.WriteHeader(resp.status)
	w.Write([]byte(resp.body))
}

func (m *MockBustimes) URL() string {
	return m.Server.URL
}

// Serves JSON stop metadata for stopCode.
func (m *MockBustimes) SetMetadata(stopCode string, status int, body string) {
	m.set(fmt.Sprintf("/api/stops/%s/", stopCode), status, "application/json", body)
}

// Serves a departures page for stopCode.
func (m *MockBustimes) SetDepartures(stopCode string, status int, body string) {
	m.set(fmt.Sprintf("/stops/%s/departures", stopCode), status, "text/html; charset=utf-8", body)
}

func (m *MockBustimes) set(path string, status int, contentType string, body string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.responses[path] = mockResponse{status: status, contentType: contentType, body: body}
}

// All requests received so far, in order.
func (m *MockBustimes) Requests() []*http.Request {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]*http.Request{}, m.requests...)
}

// Paths (with query, if any) of all requests received so far.
func (m *MockBustimes) RequestPaths() []string {
	paths := []string{}
	for _, r := range m.Requests() {
		paths = append(paths, r.URL.RequestURI())
	}
	return paths
}

// Stop metadata the way the stops API returns it.
func MetadataJSON(atcoCode string, longName string, lon float64, lat float64) string {
	return fmt.Sprintf(`{
  "atco_code": %q,
  "naptan_code": "bstgwpa",
  "common_name": "Parkway Station",
  "name": "Parkway Station (Stop A)",
  "long_name": %q,
  "location": [%g, %g],
  "indicator": "Stop A",
  "bearing": "N",
  "stop_type": "BCT",
  "bus_stop_type": "MKD",
  "active": true
}`, atcoCode, longName, lon, lat)
}

// A departures page in the shape bustimes.org serves. Rows are cells
// of raw HTML; each row becomes a <tr> of <td>s.
func DeparturesPage(stopName string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<!DOCTYPE html>
<html lang="en-GB">
<head>
<title>%s - bustimes.org</title>
<script src="/static/js/app.js"></script>
<script>window.dataLayer = [];</script>
</head>
<body onload="init()">
<ul class="breadcrumbs"><li><a href="/">Home</a></li><li>%s</li></ul>
<h1>Stop %s departures</h1>
<iframe src="https://ads.example.com/banner"></iframe>
<table>
<thead><tr><th>To</th><th>Departs</th></tr></thead>
<tbody>
`, stopName, stopName, stopName)
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", cell)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n</body>\n</html>\n")
	return b.String()
}
