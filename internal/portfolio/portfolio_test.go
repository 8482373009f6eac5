package portfolio

import (
	"testing"

	"github.com/nyxquant/latticebt/internal/ids"
)

func TestNewPortfolioInitialState(t *testing.T) {
	p := New(100000)
	if p.BuyingPower != 100000 {
		t.Fatalf("BuyingPower = %v, want 100000", p.BuyingPower)
	}
	if p.TotalValue != 100000 {
		t.Fatalf("TotalValue = %v, want 100000", p.TotalValue)
	}
	if len(p.Equity) != 0 {
		t.Fatalf("Equity should start empty, got %v", p.Equity)
	}
}

func TestCanAffordRejectsNegativeBuyingPower(t *testing.T) {
	p := New(5)
	if p.CanAfford(-10) {
		t.Fatalf("CanAfford(-10) on buying_power=5 should be false")
	}
	if !p.CanAfford(-5) {
		t.Fatalf("CanAfford(-5) on buying_power=5 should be true (exactly zero)")
	}
}

func TestApplyFillUpdatesEquityAndRecomputesTotalValue(t *testing.T) {
	p := New(100)
	lastClose := map[ids.AssetId]float64{"A": 10}
	p.ApplyFill("A", -10, 1, lastClose)
	if p.BuyingPower != 90 {
		t.Fatalf("BuyingPower = %v, want 90", p.BuyingPower)
	}
	if p.Equity["A"] != 1 {
		t.Fatalf("Equity[A] = %v, want 1", p.Equity["A"])
	}
	if p.TotalValue != 100 {
		t.Fatalf("TotalValue = %v, want 100 (90 cash + 1*10 equity)", p.TotalValue)
	}
}

func TestTotalValueUsesMostRecentCloseEvenIfStale(t *testing.T) {
	// Preserves the documented lag: total_value uses the most recently
	// completed bar's close, which can be stale relative to intra-bar fills.
	p := New(100)
	stale := map[ids.AssetId]float64{"A": 5}
	p.ApplyFill("A", -50, 10, stale)
	if p.TotalValue != 100 {
		t.Fatalf("TotalValue = %v, want 100 (50 cash + 10*5)", p.TotalValue)
	}
}
