package order

import "testing"

func TestZeroSizeOrderRejected(t *testing.T) {
	if _, err := NewMarket("A", 0); err != ErrZeroSize {
		t.Fatalf("NewMarket(size=0) = %v, want ErrZeroSize", err)
	}
	if _, err := NewLimit("A", 0, 10); err != ErrZeroSize {
		t.Fatalf("NewLimit(size=0) = %v, want ErrZeroSize", err)
	}
}

func TestMarketFillsAtMid(t *testing.T) {
	o, err := NewMarket("A", 1)
	if err != nil {
		t.Fatalf("NewMarket: %v", err)
	}
	res, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 8, Close: 11})
	if !filled {
		t.Fatalf("market order should always fill")
	}
	if res.ExecutionPrice != 10 {
		t.Fatalf("execution price = %v, want 10", res.ExecutionPrice)
	}
	if res.DeltaCash != -10 {
		t.Fatalf("delta_cash = %v, want -10", res.DeltaCash)
	}
	if res.DeltaEquity != 1 {
		t.Fatalf("delta_equity = %v, want 1", res.DeltaEquity)
	}
}

func TestLimitBuyFillsAtExtremumEqualsLow(t *testing.T) {
	o, err := NewLimit("A", 1, 9)
	if err != nil {
		t.Fatalf("NewLimit: %v", err)
	}
	res, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 9, Close: 11})
	if !filled {
		t.Fatalf("limit buy at extremum=low should fill")
	}
	if res.ExecutionPrice != 9 {
		t.Fatalf("execution price = %v, want min(open,extremum)=9", res.ExecutionPrice)
	}
}

func TestLimitBuyDoesNotFillBelowLow(t *testing.T) {
	o, err := NewLimit("A", 1, 8.99)
	if err != nil {
		t.Fatalf("NewLimit: %v", err)
	}
	if _, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 9, Close: 11}); filled {
		t.Fatalf("limit buy below low should not fill")
	}
}

func TestLimitBuyInsideBarScenario(t *testing.T) {
	o, err := NewLimit("A", 1, 9.5)
	if err != nil {
		t.Fatalf("NewLimit: %v", err)
	}
	res, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 9, Close: 11})
	if !filled {
		t.Fatalf("expected fill")
	}
	if res.ExecutionPrice != 9.5 {
		t.Fatalf("execution price = %v, want 9.5", res.ExecutionPrice)
	}
	if res.DeltaCash != -9.5 {
		t.Fatalf("delta_cash = %v, want -9.5", res.DeltaCash)
	}
}

func TestLimitSellFillsAtExtremumEqualsHigh(t *testing.T) {
	o, err := NewLimit("A", -1, 12)
	if err != nil {
		t.Fatalf("NewLimit: %v", err)
	}
	res, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 9, Close: 11})
	if !filled {
		t.Fatalf("limit sell at extremum=high should fill")
	}
	if res.ExecutionPrice != 12 {
		t.Fatalf("execution price = %v, want max(open,extremum)=12", res.ExecutionPrice)
	}
	if res.DeltaCash != 12 {
		t.Fatalf("delta_cash = %v, want 12", res.DeltaCash)
	}
	if res.DeltaEquity != -1 {
		t.Fatalf("delta_equity = %v, want -1", res.DeltaEquity)
	}
}

func TestLimitSellDoesNotFillAboveHigh(t *testing.T) {
	o, err := NewLimit("A", -1, 12.01)
	if err != nil {
		t.Fatalf("NewLimit: %v", err)
	}
	if _, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 9, Close: 11}); filled {
		t.Fatalf("limit sell above high should not fill")
	}
}

func TestOpenOrderCarryOverAcrossBars(t *testing.T) {
	o, err := NewLimit("A", -1, 15)
	if err != nil {
		t.Fatalf("NewLimit: %v", err)
	}
	if _, filled := TryFill(o, OHLC{Open: 10, High: 12, Low: 9, Close: 11}); filled {
		t.Fatalf("bar 1 should not fill: high < extremum")
	}
	res, filled := TryFill(o, OHLC{Open: 13, High: 16, Low: 12, Close: 15})
	if !filled {
		t.Fatalf("bar 2 should fill: high reaches extremum")
	}
	if res.ExecutionPrice != 15 {
		t.Fatalf("execution price = %v, want max(open,extremum)=15", res.ExecutionPrice)
	}
}
