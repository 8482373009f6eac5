package order

// OHLC is the subset of a bar's genesis data the fill heuristic needs.
type OHLC struct {
	Open, High, Low, Close float64
}

// FillResult carries the economic effect of a successful fill.
type FillResult struct {
	ExecutionPrice float64
	DeltaCash      float64
	DeltaEquity    float64
}

// TryFill evaluates the single-bar fill heuristic against bar for o. The
// second return reports whether the order filled.
func TryFill(o Order, bar OHLC) (FillResult, bool) {
	switch o.Kind {
	case KindMarket:
		price := (bar.Low + bar.High) / 2
		return fillAt(o, price), true
	case KindLimit:
		if o.IsBuy() {
			if o.Extremum < bar.Low {
				return FillResult{}, false
			}
			price := min(bar.Open, o.Extremum)
			return fillAt(o, price), true
		}
		if o.Extremum > bar.High {
			return FillResult{}, false
		}
		price := max(bar.Open, o.Extremum)
		return fillAt(o, price), true
	default:
		return FillResult{}, false
	}
}

func fillAt(o Order, price float64) FillResult {
	return FillResult{
		ExecutionPrice: price,
		DeltaCash:      -o.Size * price,
		DeltaEquity:    o.Size,
	}
}
