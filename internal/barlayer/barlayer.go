// Package barlayer holds the dense per-bar (asset, field) -> value table that
// the CalcLattice retains one of per ingested bar.
package barlayer

import "github.com/nyxquant/latticebt/internal/ids"

type cellKey struct {
	asset ids.AssetId
	field ids.FieldId
}

// Layer is a dense mapping from (AssetId, FieldId) to a cell value for
// exactly one bar. One Layer exists per retained bar; layers are arena-owned
// by the lattice's rolling window and reference each other only by field id,
// never by pointer, so there is no cyclic ownership to manage.
type Layer struct {
	cells map[cellKey]ids.CellValue
}

// New returns an empty layer.
func New() *Layer {
	return &Layer{cells: make(map[cellKey]ids.CellValue)}
}

// Set writes a cell value.
func (l *Layer) Set(asset ids.AssetId, field ids.FieldId, v ids.CellValue) {
	l.cells[cellKey{asset, field}] = v
}

// Get reads a cell value. The second return is false if the cell was never
// written for this bar.
func (l *Layer) Get(asset ids.AssetId, field ids.FieldId) (ids.CellValue, bool) {
	v, ok := l.cells[cellKey{asset, field}]
	return v, ok
}

// Len returns the number of cells populated in this layer.
func (l *Layer) Len() int {
	return len(l.cells)
}
