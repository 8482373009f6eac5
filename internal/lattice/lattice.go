// Package lattice implements CalcLattice: an incrementally maintained
// dependency graph over a rolling window of bars, keyed by (bar, asset,
// field), that propagates derived values forward as new genesis data
// arrives. This is the hard engineering of the backtester — ordered graph
// propagation with per-bar retention and cross-sectional barriers.
package lattice

import (
	"fmt"

	"github.com/nyxquant/latticebt/internal/barlayer"
	"github.com/nyxquant/latticebt/internal/fieldop"
	"github.com/nyxquant/latticebt/internal/ids"
)

// RetentionAll means "retain every ingested bar" rather than a fixed window.
const RetentionAll = -1

// Lattice is the rolling-window storage + DAG propagation engine. Zero value
// is not usable; construct with New.
type Lattice struct {
	assets    []ids.AssetId
	retention int

	fields       []ids.FieldId
	ops          map[ids.FieldId]fieldop.Op
	genesisOrder []ids.FieldId

	windowDependents map[ids.FieldId][]ids.FieldId
	crossDependents  map[ids.FieldId][]ids.FieldId

	bars     []*barlayer.Layer
	barIndex int

	completedCounter    map[ids.FieldId]int
	firedCrossSectional map[ids.FieldId]bool

	started bool
}

// New constructs a lattice over a fixed, ordered asset list. retention is
// either a positive bar count or RetentionAll.
func New(assets []ids.AssetId, retention int) *Lattice {
	return &Lattice{
		assets:           append([]ids.AssetId(nil), assets...),
		retention:        retention,
		ops:              make(map[ids.FieldId]fieldop.Op),
		windowDependents: make(map[ids.FieldId][]ids.FieldId),
		crossDependents:  make(map[ids.FieldId][]ids.FieldId),
	}
}

// Assets returns a copy of the lattice's immutable asset order.
func (l *Lattice) Assets() []ids.AssetId {
	return append([]ids.AssetId(nil), l.assets...)
}

// CurrentBarIndex returns the number of bars ingested so far (0 before the
// first bar).
func (l *Lattice) CurrentBarIndex() int {
	return l.barIndex
}

// Fields returns a copy of every registered field id, in registration order.
func (l *Lattice) Fields() []ids.FieldId {
	return append([]ids.FieldId(nil), l.fields...)
}

// AddField registers a single field operation. Fails if any bar has already
// been ingested, the field id is already registered, or (for non-genesis
// ops) the upstream has not been registered yet.
func (l *Lattice) AddField(op fieldop.Op) error {
	if l.started {
		return ErrFieldAfterStart
	}
	if err := op.Validate(); err != nil {
		return err
	}
	if _, exists := l.ops[op.FieldID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateField, op.FieldID)
	}
	if op.Kind != fieldop.KindGenesis {
		if _, ok := l.ops[op.Upstream]; !ok {
			return fmt.Errorf("%w: %s references %s", ErrUnknownUpstream, op.FieldID, op.Upstream)
		}
	}

	l.ops[op.FieldID] = op
	switch op.Kind {
	case fieldop.KindGenesis:
		l.genesisOrder = append(l.genesisOrder, op.FieldID)
	case fieldop.KindWindow:
		l.windowDependents[op.Upstream] = append(l.windowDependents[op.Upstream], op.FieldID)
	case fieldop.KindCrossSectional:
		l.crossDependents[op.Upstream] = append(l.crossDependents[op.Upstream], op.FieldID)
	}
	l.fields = append(l.fields, op.FieldID)
	return nil
}

// AddFields registers each op in sequence, stopping at the first error.
func (l *Lattice) AddFields(ops []fieldop.Op) error {
	for _, op := range ops {
		if err := l.AddField(op); err != nil {
			return err
		}
	}
	return nil
}

// NewBar ingests one bar of genesis data and fully propagates it. genesis
// must carry an entry for every lattice asset, and every asset's entry must
// carry a value for every registered genesis field.
func (l *Lattice) NewBar(genesis map[ids.AssetId]map[ids.FieldId]ids.CellValue) error {
	for _, a := range l.assets {
		assetData, ok := genesis[a]
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingAsset, a)
		}
		for _, f := range l.genesisOrder {
			if _, ok := assetData[f]; !ok {
				return fmt.Errorf("%w: asset %s field %s", ErrMissingGenesisField, a, f)
			}
		}
	}

	l.started = true
	l.completedCounter = make(map[ids.FieldId]int, len(l.fields))
	l.firedCrossSectional = make(map[ids.FieldId]bool, len(l.fields))
	l.barIndex++

	if l.retention > 0 && len(l.bars) >= l.retention {
		l.bars = l.bars[1:]
	}
	layer := barlayer.New()
	l.bars = append(l.bars, layer)

	for _, a := range l.assets {
		assetData := genesis[a]
		for _, f := range l.genesisOrder {
			v := assetData[f]
			layer.Set(a, f, v)
			l.completedCounter[f]++
			l.propagate(layer, a, f)
		}
	}
	return nil
}

// propagate performs the depth-first walk from (asset, field): first every
// window-field dependent for this asset, then — once every asset has
// produced a value for `field` — every cross-sectional dependent, computed
// once for all assets and then recursed into per asset. Sibling branches run
// in field-registration order and never interleave, matching the spec's
// stability guarantee.
func (l *Lattice) propagate(layer *barlayer.Layer, asset ids.AssetId, field ids.FieldId) {
	for _, wf := range l.windowDependents[field] {
		op := l.ops[wf]
		seq := l.collectWindow(asset, op.Upstream, op.Window)
		v := op.ReduceWindow(seq)
		layer.Set(asset, wf, v)
		l.completedCounter[wf]++
		l.propagate(layer, asset, wf)
	}

	for _, xf := range l.crossDependents[field] {
		if l.completedCounter[field] != len(l.assets) {
			continue
		}
		if l.firedCrossSectional[xf] {
			continue
		}
		l.firedCrossSectional[xf] = true

		op := l.ops[xf]
		values := make(map[ids.AssetId]ids.CellValue, len(l.assets))
		for _, a := range l.assets {
			v, _ := layer.Get(a, op.Upstream)
			values[a] = v
		}
		results := op.ReduceCrossSectional(values, l.assets)
		for _, a := range l.assets {
			layer.Set(a, xf, results[a])
			l.completedCounter[xf]++
		}
		for _, a := range l.assets {
			l.propagate(layer, a, xf)
		}
	}
}

// collectWindow gathers the last min(w, bars retained) values of field for
// asset, oldest-to-newest, including the bar currently being ingested.
func (l *Lattice) collectWindow(asset ids.AssetId, field ids.FieldId, w int) []ids.CellValue {
	n := len(l.bars)
	count := w
	if count > n {
		count = n
	}
	start := n - count
	seq := make([]ids.CellValue, 0, count)
	for i := start; i < n; i++ {
		v, ok := l.bars[i].Get(asset, field)
		if !ok {
			v = ids.MissingValue
		}
		seq = append(seq, v)
	}
	return seq
}

// Data returns the whole bar layer `ago` bars back from the most recently
// completed bar (ago=0 is the most recent).
func (l *Lattice) Data(ago int) (*barlayer.Layer, error) {
	n := len(l.bars)
	if ago < 0 || ago >= n {
		return nil, ErrAgoOutOfRange
	}
	if l.retention > 0 && ago >= l.retention {
		return nil, ErrAgoOutOfRange
	}
	return l.bars[n-1-ago], nil
}

// DataField returns one field's value for every asset, `ago` bars back.
func (l *Lattice) DataField(ago int, field ids.FieldId) (map[ids.AssetId]ids.CellValue, error) {
	layer, err := l.Data(ago)
	if err != nil {
		return nil, err
	}
	out := make(map[ids.AssetId]ids.CellValue, len(l.assets))
	for _, a := range l.assets {
		v, _ := layer.Get(a, field)
		out[a] = v
	}
	return out, nil
}

// DataCell returns a single (asset, field) cell, `ago` bars back.
func (l *Lattice) DataCell(ago int, asset ids.AssetId, field ids.FieldId) (ids.CellValue, error) {
	layer, err := l.Data(ago)
	if err != nil {
		return ids.CellValue{}, err
	}
	v, _ := layer.Get(asset, field)
	return v, nil
}

// NumBarsAvailable returns the count of retained bars.
func (l *Lattice) NumBarsAvailable() int {
	return len(l.bars)
}
