// Package alert formats enriched tracking records into Telegram-ready text
// and delivers them through the Bot API.
package alert

import (
	"fmt"
	"strings"

	"github.com/thiennguyenhieu/solana-bot/internal/rugcheck"
	"github.com/thiennguyenhieu/solana-bot/internal/track"
	"github.com/thiennguyenhieu/solana-bot/internal/trade"
)

func statusEmoji(status string) string {
	switch status {
	case rugcheck.StatusSafe:
		return "🟩"
	case rugcheck.StatusRisky:
		return "🟠"
	default:
		return "🔴"
	}
}

func signalEmoji(signal string) string {
	switch trade.State(signal) {
	case trade.StateEntry:
		return "✅"
	case trade.StateExit:
		return "🚪"
	case trade.StateWatching:
		return "👀"
	default:
		return "➖"
	}
}

// Build renders one block per record, separated by blank lines. countCap
// controls the flame prefix marking pairs at the top of the tracking count.
func Build(records []track.Record, countCap int) string {
	blocks := make([]string, 0, len(records))
	for _, rec := range records {
		blocks = append(blocks, buildBlock(rec, countCap))
	}
	return strings.Join(blocks, "\n\n")
}

func buildBlock(rec track.Record, countCap int) string {
	entry := rec.Entry
	live := rec.Live

	prefix := "➖"
	if entry.Count >= countCap {
		prefix = "🔥"
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%s %s / %s", prefix, orNA(live.BaseSymbol), orNA(live.QuoteSymbol)))
	lines = append(lines, fmt.Sprintf("💰 Price: $%s | MC: $%s | Liquidity: $%s | 24H Change: %.2f%%",
		formatPrice(live.PriceUSD), formatAmount(live.FDV), formatAmount(live.LiquidityUSD), live.Chg24h))

	if entry.MarketLabel != "" {
		lines = append(lines, fmt.Sprintf("📊 %s | Score: %.2f / 100 | Potential: x%.1f",
			entry.MarketLabel, entry.MarketScore, entry.PotentialMultiple))
	}

	if entry.Rug != nil {
		lines = append(lines, fmt.Sprintf("%s %s | Score: %d / 100", statusEmoji(entry.Rug.Status), entry.Rug.Status, entry.Rug.Score))
		if entry.Rug.Link != "" {
			lines = append(lines, "🔍 "+entry.Rug.Link)
		}
		for _, reason := range entry.Rug.Reasons {
			lines = append(lines, "⚠️ "+reason)
		}
	}

	if entry.TradeSignal != "" {
		line := fmt.Sprintf("%s %s", signalEmoji(entry.TradeSignal), entry.TradeSignal)
		if len(entry.TradeReasons) > 0 {
			line += ": " + strings.Join(entry.TradeReasons, "; ")
		}
		lines = append(lines, line)
	}

	if live.URL != "" {
		lines = append(lines, "🔗 "+live.URL)
	}
	lines = append(lines, strings.Repeat("-", 20))
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatPrice(v float64) string {
	if v == 0 {
		return "N/A"
	}
	if v < 0.01 {
		return fmt.Sprintf("%.8f", v)
	}
	return fmt.Sprintf("%.4f", v)
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.0f", v)
}
