// Package portfolio tracks cash, per-asset equity, and the recomputed total
// value the spec derives from the lattice's most recent close per asset.
package portfolio

import "github.com/nyxquant/latticebt/internal/ids"

// Portfolio is the strategy's cash and position ledger.
type Portfolio struct {
	Equity      map[ids.AssetId]float64
	BuyingPower float64
	TotalValue  float64
}

// New returns a portfolio initialised with principal as both buying power
// and total value, with no open positions.
func New(principal float64) *Portfolio {
	return &Portfolio{
		Equity:      make(map[ids.AssetId]float64),
		BuyingPower: principal,
		TotalValue:  principal,
	}
}

// CanAfford reports whether applying deltaCash would keep buying power
// non-negative.
func (p *Portfolio) CanAfford(deltaCash float64) bool {
	return p.BuyingPower+deltaCash >= 0
}

// ApplyFill applies an OrderFill's economic effect and recomputes
// TotalValue from lastClose — the lattice's most recent completed bar for
// the configured close field, per asset. lastClose entries are looked up by
// asset; an asset with no recorded close (e.g. not yet traded) contributes 0.
func (p *Portfolio) ApplyFill(asset ids.AssetId, deltaCash, deltaEquity float64, lastClose map[ids.AssetId]float64) {
	p.Equity[asset] += deltaEquity
	p.BuyingPower += deltaCash
	p.recomputeTotalValue(lastClose)
}

func (p *Portfolio) recomputeTotalValue(lastClose map[ids.AssetId]float64) {
	total := p.BuyingPower
	for asset, qty := range p.Equity {
		total += qty * lastClose[asset]
	}
	p.TotalValue = total
}
