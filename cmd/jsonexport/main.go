// Command jsonexport drives a backtest with every latency zeroed and full
// lattice retention, dumping the resulting per-bar field values to a single
// gzip-compressed NDJSON file for offline inspection.
//
// Usage:
//
//	jsonexport -data-dir ./data -start "2024-01-02 09:30:00" -end "2024-01-02 16:00:00" -out snapshot.jsonl.gz
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nyxquant/latticebt/internal/datareader"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/jsonexport"
	"github.com/nyxquant/latticebt/internal/strategy"
)

func main() {
	dataDir := flag.String("data-dir", "./data", "directory of per-asset CSV bar files")
	datetimeFmt := flag.String("datetime-fmt", "2006-01-02 15:04:05", "Go time layout for the datetime column")
	startRaw := flag.String("start", "", "export start datetime, in -datetime-fmt layout")
	endRaw := flag.String("end", "", "export end datetime, in -datetime-fmt layout")
	tradingInterval := flag.Duration("trading-interval", 390*time.Minute, "duration between bar starts")
	out := flag.String("out", "export.jsonl.gz", "output gzip-NDJSON path")
	flag.Parse()

	log.SetFlags(log.Ltime)

	if *startRaw == "" || *endRaw == "" {
		log.Fatal("-start and -end are required")
	}
	start, err := time.Parse(*datetimeFmt, *startRaw)
	if err != nil {
		log.Fatalf("parsing -start: %v", err)
	}
	end, err := time.Parse(*datetimeFmt, *endRaw)
	if err != nil {
		log.Fatalf("parsing -end: %v", err)
	}

	readers, err := loadCSVReaders(*dataDir, *datetimeFmt)
	if err != nil {
		log.Fatalf("loading data readers: %v", err)
	}
	log.Printf("loaded %d asset readers from %s", len(readers), *dataDir)

	cfg := strategy.DefaultConfig()
	cfg.DataReaders = readers
	cfg.Start = start
	cfg.EndTime = end
	cfg.TradingInterval = *tradingInterval

	result, err := jsonexport.Run(cfg)
	if err != nil {
		log.Fatalf("export run failed: %v", err)
	}
	log.Printf("collected %d bar snapshots", len(result))

	if err := jsonexport.WriteGzipNDJSON(*out, result); err != nil {
		log.Fatalf("writing output: %v", err)
	}
	log.Printf("wrote %s", *out)
}

func loadCSVReaders(dir, datetimeFmt string) (map[ids.AssetId]datareader.Reader, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	readers := make(map[ids.AssetId]datareader.Reader)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		asset := ids.AssetId(strings.TrimSuffix(e.Name(), ".csv"))
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		r, err := datareader.NewCSVReader(f, datareader.CSVConfig{DatetimeCol: "datetime", DatetimeFmt: datetimeFmt})
		if err != nil {
			return nil, err
		}
		readers[asset] = r
	}
	if len(readers) == 0 {
		return nil, strategy.ErrEmptyDataReaders
	}
	return readers, nil
}
