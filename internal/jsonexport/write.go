package jsonexport

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// ndjsonLine is one gzip-NDJSON record: the bar's RFC3339 datetime plus its
// snapshot, mirroring the shape the teacher's archiver writes for trades.
type ndjsonLine struct {
	Datetime string      `json:"datetime"`
	Bar      BarSnapshot `json:"bar"`
}

// WriteGzipNDJSON writes result as gzip-compressed NDJSON to path, one line
// per bar ordered by datetime.
func WriteGzipNDJSON(path string, result map[string]BarSnapshot) error {
	datetimes := make([]string, 0, len(result))
	for dt := range result {
		datetimes = append(datetimes, dt)
	}
	sort.Strings(datetimes)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)
	for _, dt := range datetimes {
		if err := enc.Encode(ndjsonLine{Datetime: dt, Bar: result[dt]}); err != nil {
			gz.Close()
			return fmt.Errorf("jsonexport: encode %s: %w", dt, err)
		}
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("jsonexport: gzip close: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("jsonexport: write %s: %w", path, err)
	}
	return nil
}
