package fieldop

import (
	"math"
	"sort"

	"github.com/nyxquant/latticebt/internal/ids"
)

// ReduceCrossSectional applies the op's cross-sectional reducer to a dense
// set of upstream values for the current bar, one per asset. assetOrder
// fixes the lattice's asset iteration order, which both breaks rank ties and
// determines the iteration order of the returned map's insertion (callers
// that need deterministic output should iterate assetOrder, not the map).
func (o Op) ReduceCrossSectional(values map[ids.AssetId]ids.CellValue, assetOrder []ids.AssetId) map[ids.AssetId]ids.CellValue {
	switch o.CrossReducer {
	case ZScore:
		return reduceZScore(values, assetOrder)
	case Rank:
		return reduceRank(values, assetOrder)
	default:
		out := make(map[ids.AssetId]ids.CellValue, len(assetOrder))
		for _, a := range assetOrder {
			out[a] = ids.MissingValue
		}
		return out
	}
}

func reduceZScore(values map[ids.AssetId]ids.CellValue, assetOrder []ids.AssetId) map[ids.AssetId]ids.CellValue {
	out := make(map[ids.AssetId]ids.CellValue, len(assetOrder))

	nums := make([]float64, 0, len(assetOrder))
	for _, a := range assetOrder {
		v, ok := values[a].AsFloat64()
		if !ok {
			for _, a2 := range assetOrder {
				out[a2] = ids.MissingValue
			}
			return out
		}
		nums = append(nums, v)
	}

	n := float64(len(nums))
	if n == 0 {
		for _, a := range assetOrder {
			out[a] = ids.MissingValue
		}
		return out
	}

	mean := 0.0
	for _, v := range nums {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range nums {
		d := v - mean
		variance += d * d
	}
	// sample standard deviation (n-1); undefined for n==1, which produces
	// division by zero below and is left as documented source behaviour,
	// not silently special-cased.
	stddev := math.Sqrt(variance / (n - 1))

	for i, a := range assetOrder {
		out[a] = ids.Float64Value((nums[i] - mean) / stddev)
	}
	return out
}

// reduceRank assigns rank 1 to the largest value, descending from there.
// Ties are broken by asset order (stable sort): undefined by the upstream
// spec beyond "document as undefined if ties must be resolved
// deterministically" — this implementation pins ties to break by the
// lattice's asset iteration order, and that choice is covered by tests.
func reduceRank(values map[ids.AssetId]ids.CellValue, assetOrder []ids.AssetId) map[ids.AssetId]ids.CellValue {
	out := make(map[ids.AssetId]ids.CellValue, len(assetOrder))

	type entry struct {
		asset ids.AssetId
		value float64
		ok    bool
	}
	entries := make([]entry, len(assetOrder))
	for i, a := range assetOrder {
		v, ok := values[a].AsFloat64()
		entries[i] = entry{asset: a, value: v, ok: ok}
	}

	idx := make([]int, len(entries))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		ei, ej := entries[idx[i]], entries[idx[j]]
		if !ei.ok {
			return false
		}
		if !ej.ok {
			return true
		}
		return ei.value > ej.value
	})

	for rank, i := range idx {
		e := entries[i]
		if !e.ok {
			out[e.asset] = ids.MissingValue
			continue
		}
		out[e.asset] = ids.RankValue(rank + 1)
	}
	return out
}
