package strategy

import (
	"testing"
	"time"

	"github.com/nyxquant/latticebt/internal/datareader"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/order"
)

func ohlcvBar(sec int, o, h, l, c, v float64) datareader.Bar {
	return datareader.Bar{
		Time: time.Unix(int64(sec), 0),
		Fields: map[ids.FieldId]ids.CellValue{
			"open":   ids.Float64Value(o),
			"high":   ids.Float64Value(h),
			"low":    ids.Float64Value(l),
			"close":  ids.Float64Value(c),
			"volume": ids.Float64Value(v),
		},
	}
}

func newTestConfig(bars map[ids.AssetId][]datareader.Bar, principal float64) Config {
	cfg := DefaultConfig()
	cfg.DataReaders = make(map[ids.AssetId]datareader.Reader, len(bars))
	for asset, b := range bars {
		cfg.DataReaders[asset] = datareader.NewSliceReader(b)
	}
	cfg.Start = bars["A"][0].Time
	cfg.TradingInterval = time.Minute
	cfg.DataDelay = 0
	cfg.MessageLatency = 0
	cfg.Principal = principal
	cfg.Seed = 1
	n := len(bars["A"])
	cfg.EndTime = bars["A"][n-1].Time.Add(cfg.TradingInterval)
	return cfg
}

func TestRunDrivesThroughAllBars(t *testing.T) {
	bars := map[ids.AssetId][]datareader.Bar{
		"A": {ohlcvBar(0, 10, 12, 9, 11, 100), ohlcvBar(60, 11, 13, 10, 12, 100)},
	}
	cfg := newTestConfig(bars, 100000)
	var seenBars int
	cfg.OnDataEvent = func(s *Strategy, e DataEvent) { seenBars++ }
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if seenBars != 2 {
		t.Fatalf("OnDataEvent called %d times, want 2", seenBars)
	}
}

func TestLimitBuyFillsInsideBar(t *testing.T) {
	bars := map[ids.AssetId][]datareader.Bar{
		"A": {ohlcvBar(0, 10, 12, 9, 11, 100)},
	}
	cfg := newTestConfig(bars, 100000)
	var placed bool
	var fillSeen bool
	cfg.OnDataEvent = func(s *Strategy, e DataEvent) {
		if placed {
			return
		}
		placed = true
		o, _ := order.NewLimit("A", 1, 9.5)
		if _, err := s.PlaceOrder(o); err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
	}
	cfg.OnOrderEvent = func(s *Strategy, e OrderEvent) {
		if e.Kind == OrderFill {
			fillSeen = true
			if e.DeltaCash != -9.5 {
				t.Fatalf("delta_cash = %v, want -9.5", e.DeltaCash)
			}
		}
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !fillSeen {
		t.Fatalf("expected a fill event")
	}
}

func TestMarketOrderInsufficientBuyingPower(t *testing.T) {
	bars := map[ids.AssetId][]datareader.Bar{
		"A": {ohlcvBar(0, 10, 11, 9, 10, 100)},
	}
	cfg := newTestConfig(bars, 5)
	cfg.OnDataEvent = func(s *Strategy, e DataEvent) {
		o, _ := order.NewMarket("A", 1)
		if _, err := s.PlaceOrder(o); err != ErrInsufficientBuyingPower {
			t.Fatalf("PlaceOrder = %v, want ErrInsufficientBuyingPower", err)
		}
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestDesynchronisedReadersFailsRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataReaders = map[ids.AssetId]datareader.Reader{
		"A": datareader.NewSliceReader([]datareader.Bar{ohlcvBar(0, 1, 1, 1, 1, 1), ohlcvBar(60, 1, 1, 1, 1, 1)}),
		"B": datareader.NewSliceReader([]datareader.Bar{ohlcvBar(0, 1, 1, 1, 1, 1), ohlcvBar(65, 1, 1, 1, 1, 1)}),
	}
	cfg.Start = time.Unix(0, 0)
	cfg.TradingInterval = time.Minute
	cfg.EndTime = time.Unix(120, 0)
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != ErrDesynchronisedReaders {
		t.Fatalf("Run = %v, want ErrDesynchronisedReaders", err)
	}
}

func TestEmptyDataReadersRejected(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := New(cfg); err != ErrEmptyDataReaders {
		t.Fatalf("New = %v, want ErrEmptyDataReaders", err)
	}
}

func TestOpenOrderCarriesOverToNextBarAndFills(t *testing.T) {
	bars := map[ids.AssetId][]datareader.Bar{
		"A": {
			ohlcvBar(0, 10, 12, 9, 11, 100),
			ohlcvBar(60, 13, 16, 12, 15, 100),
		},
	}
	cfg := newTestConfig(bars, 100000)
	var placed bool
	var fillBar int
	barCount := 0
	cfg.OnDataEvent = func(s *Strategy, e DataEvent) {
		barCount++
		if !placed {
			placed = true
			o, _ := order.NewLimit("A", -1, 15)
			if _, err := s.PlaceOrder(o); err != nil {
				t.Fatalf("PlaceOrder: %v", err)
			}
		}
	}
	cfg.OnOrderEvent = func(s *Strategy, e OrderEvent) {
		if e.Kind == OrderFill {
			fillBar = barCount
		}
	}
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if fillBar != 2 {
		t.Fatalf("fill observed on bar %d, want bar 2 (carried over)", fillBar)
	}
}
