// Package strategy orchestrates the per-bar discrete-event loop: data
// arrival, lattice propagation, user callbacks, and order placement/matching
// under the configured latency model.
package strategy

import (
	"sort"
	"time"

	"github.com/nyxquant/latticebt/internal/datareader"
	"github.com/nyxquant/latticebt/internal/eventqueue"
	"github.com/nyxquant/latticebt/internal/fieldop"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/lattice"
	"github.com/nyxquant/latticebt/internal/order"
	"github.com/nyxquant/latticebt/internal/portfolio"
	"github.com/nyxquant/latticebt/internal/simrng"
)

// Strategy holds all mutable state for one backtest run.
type Strategy struct {
	cfg Config

	assets  []ids.AssetId
	readers map[ids.AssetId]datareader.Reader

	lat   *lattice.Lattice
	queue *eventqueue.Queue
	rng   *simrng.RNG

	orders     map[ids.OrderId]order.Order
	openOrders []ids.OrderId

	Portfolio *portfolio.Portfolio
	lastClose map[ids.AssetId]float64

	currentGenesis  map[ids.AssetId]map[ids.FieldId]ids.CellValue
	currentBarStart time.Time
	currentTime     time.Time
	currentBarEnd   time.Time
	barIndex        int
}

// New constructs a Strategy, fast-forwarding every reader to cfg.Start and
// registering the implicit OHLCV genesis fields ahead of any user-supplied
// field operations.
func New(cfg Config) (*Strategy, error) {
	if len(cfg.DataReaders) == 0 {
		return nil, ErrEmptyDataReaders
	}

	assets := make([]ids.AssetId, 0, len(cfg.DataReaders))
	for a := range cfg.DataReaders {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i] < assets[j] })

	for _, a := range assets {
		if err := cfg.DataReaders[a].FastForward(cfg.Start); err != nil {
			return nil, err
		}
	}

	retention := lattice.RetentionAll
	if cfg.NumLookbackBars != LookbackAll {
		retention = cfg.NumLookbackBars
	}
	lat := lattice.New(assets, retention)

	genesisOps := []fieldop.Op{
		fieldop.Genesis(cfg.OpenCol),
		fieldop.Genesis(cfg.HighCol),
		fieldop.Genesis(cfg.LowCol),
		fieldop.Genesis(cfg.CloseCol),
		fieldop.Genesis(cfg.VolumeCol),
	}
	if err := lat.AddFields(genesisOps); err != nil {
		return nil, err
	}
	if err := lat.AddFields(cfg.FieldOperations); err != nil {
		return nil, err
	}

	s := &Strategy{
		cfg:       cfg,
		assets:    assets,
		readers:   cfg.DataReaders,
		lat:       lat,
		queue:     eventqueue.New(),
		rng:       simrng.New(cfg.Seed),
		orders:    make(map[ids.OrderId]order.Order),
		Portfolio: portfolio.New(cfg.Principal),
		lastClose: make(map[ids.AssetId]float64, len(assets)),
	}
	return s, nil
}

// Lattice returns the strategy's lattice so user callbacks can read it
// through its Data accessors. The pointer is not a read-only view: the
// mutating methods (AddField, AddFields, NewBar) are reachable through it.
func (s *Strategy) Lattice() *lattice.Lattice { return s.lat }

// CurrentTime returns the simulated time driving the current event.
func (s *Strategy) CurrentTime() time.Time { return s.currentTime }

// BarIndex returns the count of bars ingested so far.
func (s *Strategy) BarIndex() int { return s.barIndex }
