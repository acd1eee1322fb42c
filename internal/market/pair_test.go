package market

import "testing"

func TestNormalizeDefaultsBadInput(t *testing.T) {
	snap := Normalize(Pair{PriceUsd: "not-a-number", PriceNative: "garbage"})
	if snap.PriceUSD != 0 {
		t.Fatalf("expected zero price, got %f", snap.PriceUSD)
	}
	if snap.LiquidityUSD != 0 || snap.FDV != 0 || snap.Vol24h != 0 {
		t.Fatalf("expected zero defaults, got %+v", snap)
	}
}

func TestNormalizePriceFallback(t *testing.T) {
	snap := Normalize(Pair{PriceUsd: "abc", PriceNative: "0.5"})
	if snap.PriceUSD != 0.5 {
		t.Fatalf("expected native price fallback, got %f", snap.PriceUSD)
	}

	snap = Normalize(Pair{PriceUsd: "0.0123"})
	if snap.PriceUSD != 0.0123 {
		t.Fatalf("expected usd price, got %f", snap.PriceUSD)
	}
}

func TestNormalizeFDVFallsBackToMarketCap(t *testing.T) {
	snap := Normalize(Pair{MarketCap: 2_000_000})
	if snap.FDV != 2_000_000 {
		t.Fatalf("expected market cap fallback, got %f", snap.FDV)
	}

	snap = Normalize(Pair{FDV: 1_000_000, MarketCap: 2_000_000})
	if snap.FDV != 1_000_000 {
		t.Fatalf("expected fdv preferred, got %f", snap.FDV)
	}
}

func TestBuySellRatio(t *testing.T) {
	if got := buySellRatio(10, 5); got != 2 {
		t.Fatalf("expected 2, got %f", got)
	}
	// Zero sells divides by 1 instead of erroring.
	if got := buySellRatio(7, 0); got != 7 {
		t.Fatalf("expected 7, got %f", got)
	}
	if got := buySellRatio(0, 0); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}

func TestSafeDiv(t *testing.T) {
	if got := safeDiv(10, 4, 0); got != 2.5 {
		t.Fatalf("expected 2.5, got %f", got)
	}
	if got := safeDiv(10, 0, 0); got != 0 {
		t.Fatalf("expected default, got %f", got)
	}
}
