// Package indicator provides series-crossing helpers over the two-element
// trailing windows a strategy callback typically pulls from the lattice via
// lattice.DataField(0, ...) / lattice.DataField(1, ...).
package indicator

// Crossover reports whether seriesA crossed above seriesB between the
// previous and current value: seriesA[0] <= seriesB[0] (previous) and
// seriesA[1] > seriesB[1] (current). Both slices must carry exactly two
// values, oldest first.
func Crossover(seriesA, seriesB []float64) bool {
	if len(seriesA) != 2 || len(seriesB) != 2 {
		return false
	}
	return seriesA[0] <= seriesB[0] && seriesA[1] > seriesB[1]
}

// Crossunder reports whether seriesA crossed below seriesB between the
// previous and current value: seriesA[0] >= seriesB[0] (previous) and
// seriesA[1] < seriesB[1] (current).
func Crossunder(seriesA, seriesB []float64) bool {
	if len(seriesA) != 2 || len(seriesB) != 2 {
		return false
	}
	return seriesA[0] >= seriesB[0] && seriesA[1] < seriesB[1]
}
