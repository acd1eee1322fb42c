package screener

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/thiennguyenhieu/solana-bot/internal/alert"
	"github.com/thiennguyenhieu/solana-bot/internal/config"
	"github.com/thiennguyenhieu/solana-bot/internal/market"
	"github.com/thiennguyenhieu/solana-bot/internal/track"
)

const testMint = "So11111111111111111111111111111111111111112"

// pairPayload qualifies under the default old-tier bands: liq/FDV 0.25,
// turnover 0.6, balanced buy/sell, 24h change inside the band, and a 25x
// distance to the target peak.
const pairPayload = `{
	"chainId": "solana",
	"pairAddress": "pair1",
	"baseToken": {"address": "` + testMint + `", "symbol": "MEME"},
	"quoteToken": {"symbol": "SOL"},
	"priceUsd": "0.01",
	"txns": {"h1": {"buys": 100, "sells": 100}, "h6": {"buys": 500, "sells": 450}},
	"volume": {"h1": 60000, "h6": 400000, "h24": 1200000},
	"liquidity": {"usd": 500000},
	"priceChange": {"m5": 2, "h1": 5, "h24": 30},
	"fdv": 2000000,
	"url": "https://dexscreener.com/solana/pair1"
}`

// testUpstreams serves the catalog and risk endpoints a cycle touches. The
// discovery flag empties the candidate feed to exercise decay.
func testUpstreams(t *testing.T, discover *atomic.Bool) (catalog, rug *httptest.Server) {
	t.Helper()
	catalog = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token-boosts/latest/v1":
			if discover.Load() {
				w.Write([]byte(`[{"chainId":"solana","tokenAddress":"` + testMint + `"}]`))
				return
			}
			w.Write([]byte(`[]`))
		case "/token-boosts/top/v1", "/token-profiles/latest/v1":
			w.Write([]byte(`[]`))
		case "/token-pairs/v1/solana/" + testMint:
			w.Write([]byte(`[{"pairAddress":"pair1"}]`))
		case "/latest/dex/pairs/solana/pair1":
			w.Write([]byte(`{"pairs":[` + pairPayload + `]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(catalog.Close)

	rug = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rugged":false,"totalHolders":1200,"topHolders":[{"pct":2}],"markets":[{"lp":{"lpLockedPct":100}}]}`))
	}))
	t.Cleanup(rug.Close)
	return catalog, rug
}

func testConfig(t *testing.T, catalogURL, rugURL string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Dexscreener.BaseURL = catalogURL
	cfg.Dexscreener.RequestsPerSec = 1000
	cfg.Dexscreener.Burst = 100
	cfg.Rugcheck.BaseURL = rugURL
	cfg.Tracking.LedgerPath = filepath.Join(dir, "tracked.json")
	cfg.Tracking.MetaPath = filepath.Join(dir, "meta.json")
	return cfg
}

func signalsTotalSum(t *testing.T) float64 {
	t.Helper()
	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var sum float64
	for _, mf := range mfs {
		if mf.GetName() != "screener_signals_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func TestRunCycleTracksQualifyingPair(t *testing.T) {
	var discover atomic.Bool
	discover.Store(true)
	catalog, rug := testUpstreams(t, &discover)
	cfg := testConfig(t, catalog.URL, rug.URL)

	notifier := alert.NewNotifier("http://unused", "", "", zerolog.Nop())
	engine := New(cfg, notifier, zerolog.Nop())

	if err := engine.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	ledger := track.NewStore(cfg.Tracking.LedgerPath, zerolog.Nop()).Load()
	entry := ledger["pair1"]
	if entry == nil {
		t.Fatalf("pair1 not tracked: %v", ledger)
	}
	if entry.Count != 1 {
		t.Errorf("Count = %d, want 1", entry.Count)
	}
	if entry.MarketLabel != market.LabelX10 {
		t.Errorf("MarketLabel = %q, want %q", entry.MarketLabel, market.LabelX10)
	}
	if entry.Rug == nil || entry.Rug.Status != "Safe" {
		t.Errorf("rug = %+v, want Safe", entry.Rug)
	}
	if entry.TradeMeta == nil || len(entry.TradeMeta.Price) != 1 {
		t.Errorf("trade meta not seeded: %+v", entry.TradeMeta)
	}
}

func TestRunCycleAccumulatesAndDecays(t *testing.T) {
	var discover atomic.Bool
	discover.Store(true)
	catalog, rug := testUpstreams(t, &discover)
	cfg := testConfig(t, catalog.URL, rug.URL)

	notifier := alert.NewNotifier("http://unused", "", "", zerolog.Nop())
	engine := New(cfg, notifier, zerolog.Nop())

	for i := 0; i < 3; i++ {
		if err := engine.RunCycle(context.Background()); err != nil {
			t.Fatalf("cycle %d: %v", i, err)
		}
	}

	store := track.NewStore(cfg.Tracking.LedgerPath, zerolog.Nop())
	entry := store.Load()["pair1"]
	if entry == nil || entry.Count != 3 {
		t.Fatalf("after 3 cycles entry = %+v, want count 3", entry)
	}
	if len(entry.TradeMeta.Price) != 3 {
		t.Errorf("history samples = %d, want 3", len(entry.TradeMeta.Price))
	}

	// The pair drops out of discovery; the count decays without wiping state,
	// and the stale last-known signal is not re-counted as an emission.
	discover.Store(false)
	signalsBefore := signalsTotalSum(t)
	if err := engine.RunCycle(context.Background()); err != nil {
		t.Fatalf("decay cycle: %v", err)
	}
	if got := signalsTotalSum(t); got != signalsBefore {
		t.Errorf("decay cycle emitted %v signal counts, want 0", got-signalsBefore)
	}
	entry = store.Load()["pair1"]
	if entry == nil || entry.Count != 2 {
		t.Fatalf("after decay entry = %+v, want count 2", entry)
	}
	if entry.MarketLabel != market.LabelX10 {
		t.Errorf("decayed entry lost its last-known label: %+v", entry)
	}
}
