package alert

import (
	"strings"
	"testing"

	"github.com/thiennguyenhieu/solana-bot/internal/market"
	"github.com/thiennguyenhieu/solana-bot/internal/track"
)

func sampleRecord() track.Record {
	return track.Record{
		PairID: "pair1",
		Live: market.Snapshot{
			BaseSymbol:   "MEME",
			QuoteSymbol:  "SOL",
			PriceUSD:     0.00004231,
			FDV:          2_000_000,
			LiquidityUSD: 150_000,
			Chg24h:       42.5,
			URL:          "https://dexscreener.com/solana/pair1",
		},
		Entry: &track.Entry{
			Count:             5,
			MarketLabel:       market.LabelX10,
			MarketScore:       81.5,
			PotentialMultiple: 25,
			Rug: &track.RugReport{
				Status:  "Risky",
				Score:   60,
				Reasons: []string{"LP locked < 90%"},
				Link:    "https://rugcheck.xyz/tokens/mint1",
			},
			TradeSignal:  "Watching",
			TradeReasons: []string{"1/2 entry confirmations"},
		},
	}
}

func TestBuildBlockContent(t *testing.T) {
	text := Build([]track.Record{sampleRecord()}, 5)

	for _, want := range []string{
		"🔥 MEME / SOL",
		"$0.00004231",
		"MC: $2000000",
		"Liquidity: $150000",
		"24H Change: 42.50%",
		"Score: 81.50 / 100",
		"Potential: x25.0",
		"🟠 Risky | Score: 60 / 100",
		"🔍 https://rugcheck.xyz/tokens/mint1",
		"⚠️ LP locked < 90%",
		"👀 Watching: 1/2 entry confirmations",
		"🔗 https://dexscreener.com/solana/pair1",
		strings.Repeat("-", 20),
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestBuildLowCountPrefix(t *testing.T) {
	rec := sampleRecord()
	rec.Entry.Count = 2
	text := Build([]track.Record{rec}, 5)
	if !strings.HasPrefix(text, "➖ MEME / SOL") {
		t.Errorf("want dash prefix below the count cap:\n%s", text)
	}
}

func TestBuildMissingFields(t *testing.T) {
	rec := track.Record{
		PairID: "pair2",
		Live:   market.Snapshot{},
		Entry:  &track.Entry{Count: 1},
	}
	text := Build([]track.Record{rec}, 5)
	if !strings.Contains(text, "N/A / N/A") {
		t.Errorf("want N/A symbols:\n%s", text)
	}
	if !strings.Contains(text, "Price: $N/A") {
		t.Errorf("want N/A price:\n%s", text)
	}
	if strings.Contains(text, "📊") || strings.Contains(text, "🔗") {
		t.Errorf("empty sections should be omitted:\n%s", text)
	}
}

func TestBuildSeparatesBlocks(t *testing.T) {
	text := Build([]track.Record{sampleRecord(), sampleRecord()}, 5)
	if got := strings.Count(text, "🔥 MEME / SOL"); got != 2 {
		t.Fatalf("blocks = %d, want 2", got)
	}
	if !strings.Contains(text, strings.Repeat("-", 20)+"\n\n🔥") {
		t.Errorf("blocks should be separated by a blank line:\n%s", text)
	}
}
