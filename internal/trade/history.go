// Package trade maintains per-pair rolling history and turns it into a
// stateful Entry/Watching/Exit signal with vote confirmation and cooldowns.
package trade

import (
	"time"

	"github.com/thiennguyenhieu/solana-bot/internal/market"
)

// Stats is the normalized view of the most recent snapshot consumed by the
// signal engine. The 1h ratio here differs from the evaluator's: zero sells
// yields 0 (no signal basis) and the value is capped so one thin-book poll
// cannot dominate the series.
type Stats struct {
	Ts      time.Time `json:"ts"`
	Price   float64   `json:"price"`
	Ratio1h float64   `json:"ratio_1h"`
	Vol1h   float64   `json:"vol_1h"`
	Vol6h   float64   `json:"vol_6h"`
	Chg5m   float64   `json:"chg_5m"`
	Chg1h   float64   `json:"chg_1h"`
	Chg24h  float64   `json:"chg_24h"`
	Txns1h  float64   `json:"txns_1h"`
	Buys1h  float64   `json:"buys_1h"`
	Sells1h float64   `json:"sells_1h"`
}

// History keeps three aligned bounded series plus the latest snapshot stats.
// Each series holds at most maxLen samples; the oldest is evicted first.
type History struct {
	Price []float64 `json:"price_hist"`
	Ratio []float64 `json:"ratio_hist"`
	Vol1h []float64 `json:"vol1h_hist"`
	Last  *Stats    `json:"last_snapshot,omitempty"`
}

// Append pushes the snapshot's price, capped 1h buy/sell ratio, and 1h volume
// onto the series and refreshes Last. It has no failure mode: the snapshot is
// already defaulted by the normalizer.
func (h *History) Append(s market.Snapshot, now time.Time, maxLen int, ratioCap float64) {
	ratio := 0.0
	if s.Sells1h > 0 {
		ratio = s.Buys1h / s.Sells1h
	}
	if ratioCap > 0 && ratio > ratioCap {
		ratio = ratioCap
	}

	stats := Stats{
		Ts:      now,
		Price:   s.PriceUSD,
		Ratio1h: ratio,
		Vol1h:   s.Vol1h,
		Vol6h:   s.Vol6h,
		Chg5m:   s.Chg5m,
		Chg1h:   s.Chg1h,
		Chg24h:  s.Chg24h,
		Txns1h:  s.Txns1h(),
		Buys1h:  s.Buys1h,
		Sells1h: s.Sells1h,
	}

	h.Price = appendBounded(h.Price, stats.Price, maxLen)
	h.Ratio = appendBounded(h.Ratio, stats.Ratio1h, maxLen)
	h.Vol1h = appendBounded(h.Vol1h, stats.Vol1h, maxLen)
	h.Last = &stats
}

func appendBounded(seq []float64, v float64, maxLen int) []float64 {
	seq = append(seq, v)
	if maxLen > 0 && len(seq) > maxLen {
		seq = append(seq[:0], seq[len(seq)-maxLen:]...)
	}
	return seq
}

// prev returns the second-to-last element, or the fallback when the series is
// too short to have one.
func prev(seq []float64, fallback float64) float64 {
	if len(seq) >= 2 {
		return seq[len(seq)-2]
	}
	return fallback
}
