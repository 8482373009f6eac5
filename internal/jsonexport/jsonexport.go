// Package jsonexport drives the strategy loop with zero latencies and full
// retention to dump every bar's lattice state to JSON, per §6's "JSON
// export (utility)" contract.
package jsonexport

import (
	"time"

	"github.com/nyxquant/latticebt/internal/ids"
	"github.com/nyxquant/latticebt/internal/strategy"
)

// BarSnapshot maps AssetId -> FieldId -> value for one bar, with values
// converted to plain Go types (float64/int64/string/int or nil for Missing)
// so the result marshals with encoding/json directly.
type BarSnapshot map[ids.AssetId]map[ids.FieldId]any

// Run drives cfg's strategy to completion with DataDelay, MessageLatency,
// and FieldOpTimeout forced to zero (a zero FieldOpTimeout disables the
// propagation timeout) and NumLookbackBars forced to "all",
// collecting one BarSnapshot per bar keyed by its RFC3339 datetime.
func Run(cfg strategy.Config) (map[string]BarSnapshot, error) {
	cfg.DataDelay = 0
	cfg.MessageLatency = 0
	cfg.FieldOpTimeout = 0
	cfg.NumLookbackBars = strategy.LookbackAll

	result := make(map[string]BarSnapshot)
	userOnData := cfg.OnDataEvent
	cfg.OnDataEvent = func(s *strategy.Strategy, e strategy.DataEvent) {
		result[e.Time.Format(time.RFC3339)] = snapshotBar(s)
		if userOnData != nil {
			userOnData(s, e)
		}
	}

	s, err := strategy.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := s.Run(); err != nil {
		return nil, err
	}
	return result, nil
}

func snapshotBar(s *strategy.Strategy) BarSnapshot {
	lat := s.Lattice()
	layer, err := lat.Data(0)
	if err != nil {
		return BarSnapshot{}
	}

	snap := make(BarSnapshot, len(lat.Assets()))
	for _, asset := range lat.Assets() {
		fields := make(map[ids.FieldId]any)
		for _, f := range lat.Fields() {
			v, ok := layer.Get(asset, f)
			if !ok || v.IsMissing() {
				fields[f] = nil
				continue
			}
			fields[f] = cellToAny(v)
		}
		snap[asset] = fields
	}
	return snap
}

func cellToAny(v ids.CellValue) any {
	switch v.Kind {
	case ids.KindFloat64:
		return v.F
	case ids.KindInt64:
		return v.I
	case ids.KindString:
		return v.S
	case ids.KindRank:
		return v.R
	default:
		return nil
	}
}
