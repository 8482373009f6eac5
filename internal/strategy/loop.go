package strategy

import (
	"time"

	"github.com/nyxquant/latticebt/internal/eventqueue"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/verbosity"
)

// Run drives the backtest to completion: bar by bar, until the current
// bar's end time reaches cfg.EndTime. Events scheduled beyond the final
// bar's end are left undispatched, by design.
func (s *Strategy) Run() error {
	for {
		genesisData, barTime, err := s.loadBar()
		if err != nil {
			return err
		}

		s.currentGenesis = genesisData
		s.currentBarStart = barTime
		s.currentTime = barTime
		s.currentBarEnd = barTime.Add(s.cfg.TradingInterval)
		s.barIndex++
		s.logf(verbosity.DEBUG, "bar %d loaded", s.barIndex)

		if err := s.rescanOpenOrders(); err != nil {
			return err
		}

		s.queue.Push(eventqueue.Event{
			Kind:        eventqueue.KindNewBar,
			Time:        barTime.Add(s.cfg.DataDelay),
			GenesisData: genesisData,
		})

		if err := s.drainUntilBarEnd(); err != nil {
			return err
		}

		if !s.currentBarEnd.Before(s.cfg.EndTime) {
			return nil
		}
	}
}

// loadBar pops one bar from every reader in asset order and asserts they
// all agree on the bar's datetime.
func (s *Strategy) loadBar() (map[ids.AssetId]map[ids.FieldId]ids.CellValue, time.Time, error) {
	genesisData := make(map[ids.AssetId]map[ids.FieldId]ids.CellValue, len(s.assets))
	var barTime time.Time
	for i, a := range s.assets {
		bar, err := s.readers[a].PopFirst()
		if err != nil {
			return nil, time.Time{}, err
		}
		if i == 0 {
			barTime = bar.Time
		} else if !bar.Time.Equal(barTime) {
			return nil, time.Time{}, ErrDesynchronisedReaders
		}
		genesisData[a] = bar.Fields
	}
	return genesisData, barTime, nil
}

func (s *Strategy) drainUntilBarEnd() error {
	for {
		head, ok := s.queue.Peek()
		if !ok || !head.Time.Before(s.currentBarEnd) {
			return nil
		}
		e, _ := s.queue.Pop()
		s.currentTime = e.Time

		switch e.Kind {
		case eventqueue.KindNewBar:
			if err := s.handleNewBar(e); err != nil {
				return err
			}
		case eventqueue.KindFieldCompletedProcessing:
			s.logf(verbosity.INFO, "field processing completed")
			s.cfg.OnDataEvent(s, DataEvent{Time: s.currentTime})
		case eventqueue.KindOrderAck:
			s.logf(verbosity.TRANSACTIONS, "order %s acked", e.OrderID)
			s.cfg.OnOrderEvent(s, OrderEvent{Kind: OrderAck, Time: s.currentTime, OrderID: e.OrderID})
		case eventqueue.KindOrderFill:
			s.applyFill(e)
			s.logf(verbosity.TRANSACTIONS, "order %s filled: delta_cash=%.4f delta_equity=%.4f", e.OrderID, e.DeltaCash, e.DeltaEquity)
			s.cfg.OnOrderEvent(s, OrderEvent{
				Kind:        OrderFill,
				Time:        s.currentTime,
				OrderID:     e.OrderID,
				DeltaCash:   e.DeltaCash,
				DeltaEquity: e.DeltaEquity,
			})
		}
	}
}

func (s *Strategy) handleNewBar(e eventqueue.Event) error {
	start := time.Now()
	if err := s.lat.NewBar(e.GenesisData); err != nil {
		return err
	}
	cost := time.Since(start)
	// A zero FieldOpTimeout disables the check.
	if s.cfg.FieldOpTimeout > 0 && cost > s.cfg.FieldOpTimeout {
		s.logf(verbosity.WARNING, "lattice propagation took %s, exceeding timeout %s", cost, s.cfg.FieldOpTimeout)
		return ErrFieldOpTimeout
	}
	s.logf(verbosity.DEBUG, "lattice propagated in %s", cost)

	closes, err := s.lat.DataField(0, s.cfg.CloseCol)
	if err == nil {
		for a, v := range closes {
			if f, ok := v.AsFloat64(); ok {
				s.lastClose[a] = f
			}
		}
	}

	s.queue.Push(eventqueue.Event{
		Kind: eventqueue.KindFieldCompletedProcessing,
		Time: s.currentTime.Add(cost),
	})
	return nil
}

func (s *Strategy) applyFill(e eventqueue.Event) {
	o, ok := s.orders[e.OrderID]
	if !ok {
		return
	}
	s.Portfolio.ApplyFill(o.Asset, e.DeltaCash, e.DeltaEquity, s.lastClose)
}

func (s *Strategy) currentOHLC(asset ids.AssetId) (float64, float64, float64, float64, bool) {
	fields, ok := s.currentGenesis[asset]
	if !ok {
		return 0, 0, 0, 0, false
	}
	o, ok1 := fields[s.cfg.OpenCol].AsFloat64()
	h, ok2 := fields[s.cfg.HighCol].AsFloat64()
	l, ok3 := fields[s.cfg.LowCol].AsFloat64()
	c, ok4 := fields[s.cfg.CloseCol].AsFloat64()
	return o, h, l, c, ok1 && ok2 && ok3 && ok4
}
