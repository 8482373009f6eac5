package strategy

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/nyxquant/latticebt/internal/datareader"
	"github.com/nyxquant/latticebt/internal/fieldop"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/verbosity"
)

// LookbackAll means "retain every bar in the lattice" (mirrors
// lattice.RetentionAll, kept as a distinct constant here since Config is the
// user-facing surface).
const LookbackAll = -1

// DataEvent is delivered to OnDataEvent whenever a bar has finished
// propagating through the lattice.
type DataEvent struct {
	Time time.Time
}

// OrderEventKind distinguishes an OrderAck from an OrderFill at the
// callback boundary.
type OrderEventKind int

const (
	OrderAck OrderEventKind = iota
	OrderFill
)

// OrderEvent is delivered to OnOrderEvent for both order acknowledgements
// and fills.
type OrderEvent struct {
	Kind        OrderEventKind
	Time        time.Time
	OrderID     ids.OrderId
	DeltaCash   float64
	DeltaEquity float64
}

// Config enumerates everything the strategy loop needs to run a backtest.
type Config struct {
	DataReaders     map[ids.AssetId]datareader.Reader
	FieldOperations []fieldop.Op
	NumLookbackBars int

	Start           time.Time
	EndTime         time.Time
	TradingInterval time.Duration

	Verbosity verbosity.Level

	DataDelay      time.Duration
	MessageLatency time.Duration
	FieldOpTimeout time.Duration

	DatetimeCol ids.FieldId
	OpenCol     ids.FieldId
	HighCol     ids.FieldId
	LowCol      ids.FieldId
	CloseCol    ids.FieldId
	VolumeCol   ids.FieldId

	OnDataEvent  func(*Strategy, DataEvent)
	OnOrderEvent func(*Strategy, OrderEvent)

	Principal float64

	Logger zerolog.Logger
	Seed   int64
}

// DefaultConfig returns a Config with every spec-mandated default populated.
// Callers still must set DataReaders, Start, and EndTime.
func DefaultConfig() Config {
	return Config{
		NumLookbackBars: LookbackAll,
		TradingInterval: 390 * time.Minute,
		Verbosity:       verbosity.NONE,
		DataDelay:       100 * time.Millisecond,
		MessageLatency:  100 * time.Millisecond,
		FieldOpTimeout:  100 * time.Millisecond,
		DatetimeCol:     "datetime",
		OpenCol:         "open",
		HighCol:         "high",
		LowCol:          "low",
		CloseCol:        "close",
		VolumeCol:       "volume",
		OnDataEvent:     func(*Strategy, DataEvent) {},
		OnOrderEvent:    func(*Strategy, OrderEvent) {},
		Principal:       100000,
		Logger:          zerolog.Nop(),
	}
}
