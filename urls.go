package bustimes

import (
	"fmt"
	"net/url"
	"strings"
)

// URL of the JSON metadata for a stop.
func StopMetadataURL(baseURL string, stopCode string) string {
	return fmt.Sprintf("%s/api/stops/%s/", strings.TrimRight(baseURL, "/"), url.PathEscape(stopCode))
}

// URL of the departures page for a stop. The date (YYYY-MM-DD) and time
// (HH:MM) are only included when both are set.
func DeparturesURL(baseURL string, stopCode string, date string, clock string) string {
	u := fmt.Sprintf("%s/stops/%s/departures", strings.TrimRight(baseURL, "/"), url.PathEscape(stopCode))
	if date != "" && clock != "" {
		u += "?" + url.Values{"date": {date}, "time": {clock}}.Encode()
	}
	return u
}
