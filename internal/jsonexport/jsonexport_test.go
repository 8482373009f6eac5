package jsonexport

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nyxquant/latticebt/internal/datareader"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/strategy"
)

func bar(sec int) datareader.Bar {
	return datareader.Bar{
		Time: time.Unix(int64(sec), 0),
		Fields: map[ids.FieldId]ids.CellValue{
			"open":   ids.Float64Value(10),
			"high":   ids.Float64Value(11),
			"low":    ids.Float64Value(9),
			"close":  ids.Float64Value(10.5),
			"volume": ids.Float64Value(1000),
		},
	}
}

func TestRunCollectsOneSnapshotPerBar(t *testing.T) {
	cfg := strategy.DefaultConfig()
	cfg.DataReaders = map[ids.AssetId]datareader.Reader{
		"A": datareader.NewSliceReader([]datareader.Bar{bar(0), bar(60)}),
	}
	cfg.Start = time.Unix(0, 0)
	cfg.TradingInterval = time.Minute
	cfg.EndTime = time.Unix(120, 0)

	result, err := Run(cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("len(result) = %d, want 2", len(result))
	}
	snap, ok := result[time.Unix(0, 0).Format(time.RFC3339)]
	if !ok {
		t.Fatalf("missing snapshot for first bar")
	}
	closeVal, ok := snap["A"]["close"].(float64)
	if !ok || closeVal != 10.5 {
		t.Fatalf("close = %v, want 10.5", snap["A"]["close"])
	}
}

func TestWriteGzipNDJSONRoundTrips(t *testing.T) {
	result := map[string]BarSnapshot{
		"2024-01-01T00:00:00Z": {"A": {"close": 10.5}},
		"2024-01-01T00:01:00Z": {"A": {"close": 11.0}},
	}
	path := filepath.Join(t.TempDir(), "out.jsonl.gz")
	if err := WriteGzipNDJSON(path, result); err != nil {
		t.Fatalf("WriteGzipNDJSON: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer gz.Close()

	dec := json.NewDecoder(gz)
	var lines []ndjsonLine
	for {
		var line ndjsonLine
		if err := dec.Decode(&line); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode: %v", err)
		}
		lines = append(lines, line)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].Datetime != "2024-01-01T00:00:00Z" {
		t.Fatalf("lines not sorted: first = %s", lines[0].Datetime)
	}
}
