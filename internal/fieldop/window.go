package fieldop

import (
	"math"

	"github.com/nyxquant/latticebt/internal/ids"
)

// ReduceWindow applies the op's window reducer to a sequence of cells,
// ordered oldest-to-newest, already trimmed to at most o.Window entries by
// the caller (the lattice, which knows how many bars are retained).
//
//   - SMA: arithmetic mean of whatever was passed in, even if shorter than
//     o.Window (the lattice passes fewer cells when fewer bars are retained).
//   - Returns / LogReturns: require exactly o.Window cells; anything shorter
//     yields Missing. Note the tail indexing: (seq[W-1]-seq[0])/seq[0], i.e.
//     the most recent value against the oldest value in the window.
//
// For SMA, a non-numeric (Missing or String) cell anywhere in the sequence
// makes the whole reduction Missing. Returns / LogReturns read only the
// oldest and newest cells; either being non-numeric yields Missing, and
// cells between them are not inspected.
func (o Op) ReduceWindow(seq []ids.CellValue) ids.CellValue {
	switch o.WindowReducer {
	case SMA:
		return reduceSMA(seq)
	case Returns:
		return reduceReturns(seq, o.Window, false)
	case LogReturns:
		return reduceReturns(seq, o.Window, true)
	default:
		return ids.MissingValue
	}
}

func reduceSMA(seq []ids.CellValue) ids.CellValue {
	if len(seq) == 0 {
		return ids.MissingValue
	}
	sum := 0.0
	for _, c := range seq {
		v, ok := c.AsFloat64()
		if !ok {
			return ids.MissingValue
		}
		sum += v
	}
	return ids.Float64Value(sum / float64(len(seq)))
}

func reduceReturns(seq []ids.CellValue, window int, logarithmic bool) ids.CellValue {
	if len(seq) < window {
		return ids.MissingValue
	}
	// seq is already trimmed to <= window entries by the lattice; the
	// "< window" guard above only ever lets us through when len(seq)==window.
	oldest, ok1 := seq[0].AsFloat64()
	newest, ok2 := seq[len(seq)-1].AsFloat64()
	if !ok1 || !ok2 {
		return ids.MissingValue
	}
	if oldest == 0 {
		return ids.MissingValue
	}
	if logarithmic {
		ratio := newest / oldest
		if ratio <= 0 {
			return ids.MissingValue
		}
		return ids.Float64Value(math.Log(ratio))
	}
	return ids.Float64Value((newest - oldest) / oldest)
}
