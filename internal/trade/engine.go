package trade

import (
	"fmt"
	"sort"
	"time"

	"github.com/thiennguyenhieu/solana-bot/internal/config"
)

// State is the signal reported for a tracked pair on each poll.
type State string

const (
	StateEntry    State = "Entry"
	StateWatching State = "Watching"
	StateExit     State = "Exit"
	StateNone     State = "No Signal"
)

// Meta is the durable per-pair signal state: vote counters, cooldown expiry,
// and the embedded rolling history. At most one vote counter is nonzero at a
// time; confirming one side resets the other.
type Meta struct {
	EntryVotes    int       `json:"entry_votes"`
	ExitVotes     int       `json:"exit_votes"`
	CooldownUntil time.Time `json:"cooldown_until"`
	History
}

// Clone returns a deep copy of the meta. The embedded series get fresh
// backing arrays so appending to the copy never shifts the original's
// history once a series is at its cap.
func (m *Meta) Clone() *Meta {
	if m == nil {
		return &Meta{}
	}
	out := *m
	out.Price = append([]float64(nil), m.Price...)
	out.Ratio = append([]float64(nil), m.Ratio...)
	out.Vol1h = append([]float64(nil), m.Vol1h...)
	if m.Last != nil {
		last := *m.Last
		out.Last = &last
	}
	return &out
}

// Engine evaluates signal transitions from the latest history. The clock is
// injectable so vote and cooldown sequences can be driven deterministically
// in tests.
type Engine struct {
	cfg      config.Trade
	cooldown time.Duration
	now      func() time.Time
}

// NewEngine builds a signal engine. The cooldown armed after an exit lasts
// CooldownBars polling intervals.
func NewEngine(cfg config.Trade, pollInterval time.Duration) *Engine {
	return &Engine{
		cfg:      cfg,
		cooldown: time.Duration(cfg.CooldownBars) * pollInterval,
		now:      time.Now,
	}
}

// WithClock overrides the engine clock.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Signal runs one transition of the state machine against the latest history,
// mutating the vote counters and cooldown timer on meta. Exit conditions are
// checked before entry so capital preservation wins ties; the vote threshold
// keeps a single qualifying poll from confirming an entry.
func (e *Engine) Signal(meta *Meta) (State, []string) {
	if meta == nil || meta.Last == nil {
		return StateNone, nil
	}
	now := e.now()

	if now.Before(meta.CooldownUntil) {
		return StateWatching, []string{"cooldown active"}
	}

	snap := *meta.Last
	if reasons := e.exitReasons(snap, meta); len(reasons) > 0 {
		meta.EntryVotes = 0
		meta.ExitVotes++
		meta.CooldownUntil = now.Add(e.cooldown)
		return StateExit, reasons
	}

	if ok, reasons := e.entryQuality(snap, meta); ok {
		meta.EntryVotes++
		meta.ExitVotes = 0
		if meta.EntryVotes >= e.cfg.EntryVotesNeed {
			return StateEntry, reasons
		}
		confirm := fmt.Sprintf("%d/%d entry confirmations", meta.EntryVotes, e.cfg.EntryVotesNeed)
		return StateWatching, append([]string{confirm}, reasons...)
	}

	meta.EntryVotes = 0
	meta.ExitVotes = 0
	return StateNone, nil
}

// exitRule is one row of the ordered exit table; the first matching row wins.
type exitRule struct {
	match  bool
	reason string
}

func (e *Engine) exitReasons(snap Stats, meta *Meta) []string {
	prevPrice := prev(meta.Price, snap.Price)
	prevRatio := prev(meta.Ratio, snap.Ratio1h)

	ratioDrop := false
	if prevRatio > 0 {
		ratioDrop = (snap.Ratio1h-prevRatio)/prevRatio <= -e.cfg.RatioDropPct/100
	}
	priceDrop := false
	if prevPrice > 0 {
		priceDrop = (snap.Price-prevPrice)/prevPrice*100 <= -e.cfg.PriceDropPct
	}

	rules := []exitRule{
		{snap.Chg1h >= e.cfg.Blowoff1hPct || snap.Chg24h >= e.cfg.Blowoff24hPct, "blow-off top detected"},
		{snap.Chg1h <= e.cfg.Dump1hPct || snap.Chg5m <= e.cfg.Dump5mPct, "momentum dump"},
		{snap.Ratio1h <= e.cfg.ExitRatio, fmt.Sprintf("buy/sell ratio <= %.1f (sell pressure)", e.cfg.ExitRatio)},
		{ratioDrop, fmt.Sprintf("buy/sell ratio dropped >= %.0f%%", e.cfg.RatioDropPct)},
		{priceDrop, fmt.Sprintf("price down >= %.0f%% from last check", e.cfg.PriceDropPct)},
	}
	for _, rule := range rules {
		if rule.match {
			return []string{rule.reason}
		}
	}
	return nil
}

func (e *Engine) entryQuality(snap Stats, meta *Meta) (bool, []string) {
	// Disqualifiers first: a 5m spike or an already-pumped chart means no
	// amount of other quality makes this an entry.
	if snap.Chg5m > e.cfg.Spike5mPct {
		return false, nil
	}
	if snap.Chg1h >= e.cfg.Blowoff1hPct || snap.Chg24h >= e.cfg.Blowoff24hPct {
		return false, nil
	}
	if snap.Vol1h < e.cfg.MinVol1hUSD {
		return false, nil
	}
	if snap.Txns1h < e.cfg.MinTxns1h {
		return false, nil
	}

	volRising := trendUp(meta.Vol1h) || (snap.Vol6h > 0 && snap.Vol1h >= snap.Vol6h/6)
	inBand := snap.Chg1h >= e.cfg.EntryChg1hMin && snap.Chg1h <= e.cfg.EntryChg1hMax

	if snap.Ratio1h >= e.cfg.EntryRatio && volRising && inBand {
		return true, []string{
			fmt.Sprintf("buy/sell ratio >= %.1f", e.cfg.EntryRatio),
			"1h volume rising",
			fmt.Sprintf("1h price in %.0f%%..%.0f%% band", e.cfg.EntryChg1hMin, e.cfg.EntryChg1hMax),
		}
	}
	return false, nil
}

// trendUp reports whether the series' last sample is at or above the median
// of the trailing three and not below the previous sample.
func trendUp(seq []float64) bool {
	const minLen = 3
	if len(seq) < minLen {
		return false
	}
	tail := append([]float64(nil), seq[len(seq)-minLen:]...)
	sort.Float64s(tail)
	med := tail[minLen/2]
	last := seq[len(seq)-1]
	return last >= med && last >= seq[len(seq)-2]
}
