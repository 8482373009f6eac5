package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/nyxquant/latticebt/internal/cliconfig"
	"github.com/nyxquant/latticebt/internal/datareader"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/livefeed"
	"github.com/nyxquant/latticebt/internal/monitor"
	"github.com/nyxquant/latticebt/internal/resultstore"
	"github.com/nyxquant/latticebt/internal/strategy"
	"github.com/nyxquant/latticebt/internal/verbosity"
)

func main() {
	cfg := cliconfig.Load()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "2006-01-02 15:04:05.000"}).With().Timestamp().Logger()
	log.Info().Msg("backtest starting")

	readers, assets, err := loadCSVReaders(cfg.DataDir, cfg.DatetimeFmt)
	if err != nil {
		log.Fatal().Err(err).Msg("loading data readers")
	}
	log.Info().Int("assets", len(assets)).Msg("data readers loaded")

	strategyCfg := strategy.DefaultConfig()
	strategyCfg.DataReaders = readers
	strategyCfg.Start = cfg.Start
	strategyCfg.EndTime = cfg.End
	strategyCfg.Seed = cfg.Seed
	strategyCfg.TradingInterval = cfg.TradingInterval
	strategyCfg.DataDelay = time.Duration(cfg.DataDelayMs) * time.Millisecond
	strategyCfg.MessageLatency = time.Duration(cfg.MessageLatencyMs) * time.Millisecond
	strategyCfg.FieldOpTimeout = time.Duration(cfg.FieldOpTimeoutMs) * time.Millisecond
	strategyCfg.Principal = cfg.Principal
	strategyCfg.Logger = log
	strategyCfg.Verbosity = parseVerbosity(cfg.Verbosity)

	var monitorMgr *monitor.Manager
	if cfg.MonitorPort != 0 {
		monitorMgr = monitor.NewManager(256, log)
		strategyCfg.OnDataEvent = monitorMgr.OnDataEventHook()
		go serveMonitor(cfg.MonitorHost, cfg.MonitorPort, monitorMgr, log)
	}

	var feedPublisher *livefeed.Publisher
	if cfg.RedisURL != "" {
		feedPublisher, err = livefeed.New(cfg.RedisURL, cfg.RedisChannel, log)
		if err != nil {
			log.Fatal().Err(err).Msg("connecting to redis")
		}
		defer feedPublisher.Close()
		prev := strategyCfg.OnDataEvent
		hook := feedPublisher.OnDataEventHook()
		strategyCfg.OnDataEvent = func(s *strategy.Strategy, e strategy.DataEvent) {
			if prev != nil {
				prev(s, e)
			}
			hook(s, e)
		}
	}

	var recorder *resultstore.Recorder
	if cfg.MongoURI != "" {
		recorder = resultstore.NewRecorder()
		prevOrder := strategyCfg.OnOrderEvent
		strategyCfg.OnOrderEvent = func(s *strategy.Strategy, e strategy.OrderEvent) {
			if prevOrder != nil {
				prevOrder(s, e)
			}
			if e.Kind == strategy.OrderFill {
				recorder.RecordFill(e.OrderID, e.Time, e.DeltaCash, e.DeltaEquity)
			}
		}
	}

	s, err := strategy.New(strategyCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("constructing strategy")
	}

	startedAt := time.Now()
	runErr := s.Run()
	finishedAt := time.Now()

	if cfg.MongoURI != "" {
		if err := persistRun(cfg, strategyCfg, s, recorder, startedAt, finishedAt, runErr, log); err != nil {
			log.Error().Err(err).Msg("persisting run record")
		}
	}

	if runErr != nil {
		log.Fatal().Err(runErr).Msg("backtest failed")
	}
	log.Info().
		Float64("total_value", s.Portfolio.TotalValue).
		Float64("buying_power", s.Portfolio.BuyingPower).
		Msg("backtest finished")
}

func persistRun(cfg *cliconfig.Config, strategyCfg strategy.Config, s *strategy.Strategy, recorder *resultstore.Recorder, startedAt, finishedAt time.Time, runErr error, log zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := resultstore.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	rec := resultstore.RunRecord{
		RunID:       cfg.RunID,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		Seed:        strategyCfg.Seed,
		Principal:   strategyCfg.Principal,
		BuyingPower: s.Portfolio.BuyingPower,
		TotalValue:  s.Portfolio.TotalValue,
		Equity:      s.Portfolio.Equity,
		Fills:       recorder.Fills,
	}
	if runErr != nil {
		rec.Failed = true
		rec.Error = runErr.Error()
	}
	return store.SaveRun(ctx, rec)
}

func serveMonitor(host string, port int, mgr *monitor.Manager, log zerolog.Logger) {
	r := chi.NewRouter()
	monitor.Routes(r, mgr, 256)
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Info().Str("addr", addr).Msg("monitor listening")
	if err := (&http.Server{Addr: addr, Handler: r}).ListenAndServe(); err != nil {
		log.Error().Err(err).Msg("monitor server stopped")
	}
}

func parseVerbosity(s string) verbosity.Level {
	switch strings.ToUpper(s) {
	case "INFO":
		return verbosity.INFO
	case "TRANSACTIONS":
		return verbosity.TRANSACTIONS
	case "DEBUG":
		return verbosity.DEBUG
	case "WARNING":
		return verbosity.WARNING
	default:
		return verbosity.NONE
	}
}

// loadCSVReaders builds one datareader.Reader per CSV file in dir, keyed by
// the file's base name (without extension) as the AssetId.
func loadCSVReaders(dir, datetimeFmt string) (map[ids.AssetId]datareader.Reader, []ids.AssetId, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading data dir %s: %w", dir, err)
	}

	readers := make(map[ids.AssetId]datareader.Reader)
	var assets []ids.AssetId
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		asset := ids.AssetId(strings.TrimSuffix(e.Name(), ".csv"))
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", e.Name(), err)
		}
		r, err := datareader.NewCSVReader(f, datareader.CSVConfig{DatetimeCol: "datetime", DatetimeFmt: datetimeFmt})
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", e.Name(), err)
		}
		readers[asset] = r
		assets = append(assets, asset)
	}
	if len(readers) == 0 {
		return nil, nil, strategy.ErrEmptyDataReaders
	}
	return readers, assets, nil
}
