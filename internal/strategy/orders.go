package strategy

import (
	"time"

	"github.com/nyxquant/latticebt/internal/eventqueue"
	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/order"
	"github.com/nyxquant/latticebt/internal/verbosity"
)

// PlaceOrder registers o, schedules its OrderAck, and attempts a same-bar
// fill. If the fill would leave buying power negative, placement fails
// outright and o is never registered — matching the spec's "insufficient
// buying power" failure at the moment of order!.
func (s *Strategy) PlaceOrder(o order.Order) (ids.OrderId, error) {
	ohlc, ok := s.ohlcFor(o.Asset)
	if !ok {
		return "", ErrDesynchronisedReaders
	}

	filled, err := s.tryFillOrder(o, ohlc)
	if err != nil {
		s.logf(verbosity.TRANSACTIONS, "order %s rejected: %v", o.ID, err)
		return "", err
	}

	s.orders[o.ID] = o
	s.queue.Push(eventqueue.Event{
		Kind:    eventqueue.KindOrderAck,
		Time:    s.currentTime.Add(2 * s.cfg.MessageLatency),
		OrderID: o.ID,
	})
	s.logf(verbosity.TRANSACTIONS, "order %s placed: asset=%s kind=%v size=%.4f filled=%v", o.ID, o.Asset, o.Kind, o.Size, filled)
	if !filled {
		s.openOrders = append(s.openOrders, o.ID)
	}
	return o.ID, nil
}

// rescanOpenOrders attempts one same-bar fill per currently-open order, in
// FIFO order, once per bar start. Orders that still don't fill are
// re-appended. An order that would fill but cannot be afforded stops the
// rescan with ErrInsufficientBuyingPower, which ends the run.
func (s *Strategy) rescanOpenOrders() error {
	if len(s.openOrders) == 0 {
		return nil
	}
	remaining := s.openOrders[:0:0]
	for _, id := range s.openOrders {
		o := s.orders[id]
		ohlc, ok := s.ohlcFor(o.Asset)
		if !ok {
			remaining = append(remaining, id)
			continue
		}
		filled, err := s.tryFillOrder(o, ohlc)
		if err != nil {
			s.logf(verbosity.TRANSACTIONS, "open order %s rejected on rescan: %v", id, err)
			return err
		}
		if filled {
			s.logf(verbosity.TRANSACTIONS, "open order %s filled on rescan", id)
		}
		if !filled {
			remaining = append(remaining, id)
		}
	}
	s.openOrders = remaining
	return nil
}

func (s *Strategy) ohlcFor(asset ids.AssetId) (order.OHLC, bool) {
	o, h, l, c, ok := s.currentOHLC(asset)
	if !ok {
		return order.OHLC{}, false
	}
	return order.OHLC{Open: o, High: h, Low: l, Close: c}, true
}

// tryFillOrder evaluates the single-bar fill heuristic and, on a fillable
// order, checks affordability before scheduling the OrderFill event.
func (s *Strategy) tryFillOrder(o order.Order, ohlc order.OHLC) (bool, error) {
	res, ok := order.TryFill(o, ohlc)
	if !ok {
		return false, nil
	}
	if !s.Portfolio.CanAfford(res.DeltaCash) {
		return false, ErrInsufficientBuyingPower
	}

	s.queue.Push(eventqueue.Event{
		Kind:        eventqueue.KindOrderFill,
		Time:        s.fillTime(o),
		OrderID:     o.ID,
		DeltaCash:   res.DeltaCash,
		DeltaEquity: res.DeltaEquity,
	})
	return true, nil
}

func (s *Strategy) fillTime(o order.Order) time.Time {
	earliest := s.currentTime.Add(s.cfg.MessageLatency)
	if o.Kind == order.KindMarket {
		return earliest
	}
	latest := s.currentBarEnd.Add(s.cfg.MessageLatency)
	span := latest.Sub(earliest)
	if span <= 0 {
		return earliest
	}
	offset := time.Duration(s.rng.Float64() * float64(span))
	return earliest.Add(offset)
}
