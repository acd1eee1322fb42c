// Package track maintains the durable per-pair tracking ledger: how many
// consecutive-ish cycles a pair has qualified, its last-known risk, score,
// and signal state, and the embedded signal meta. The ledger is the process's
// only durable state and is rewritten wholesale each cycle.
package track

import (
	"time"

	"github.com/thiennguyenhieu/solana-bot/internal/market"
	"github.com/thiennguyenhieu/solana-bot/internal/trade"
)

// RugReport is the reduced risk assessment persisted per pair.
type RugReport struct {
	Status  string   `json:"status"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
	Link    string   `json:"link,omitempty"`
}

// Entry is one tracked pair. Count increments (capped) each cycle the pair
// qualifies and decrements each cycle it does not; at zero the entry is
// dropped. Fields refresh from the current cycle, falling back to the
// previous value when the cycle produced nothing new.
type Entry struct {
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`

	Rug *RugReport `json:"rug,omitempty"`

	MarketLabel       string         `json:"market_label,omitempty"`
	MarketScore       float64        `json:"market_score"`
	PotentialMultiple float64        `json:"potential_multiple"`
	MarketChecks      *market.Checks `json:"market_checks,omitempty"`

	TradeSignal  string      `json:"trade_signal,omitempty"`
	TradeReasons []string    `json:"trade_reasons,omitempty"`
	TradeMeta    *trade.Meta `json:"trade_meta,omitempty"`
	LastSignalAt time.Time   `json:"last_signal_at"`
}

// Ledger maps pair address to tracking entry.
type Ledger map[string]*Entry

// ActiveIDs returns the set of tracked pair addresses.
func (l Ledger) ActiveIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(l))
	for id := range l {
		ids[id] = struct{}{}
	}
	return ids
}

// Record is the enriched per-pair view handed downstream after a cycle: the
// durable entry merged with freshly fetched live data.
type Record struct {
	PairID string
	Live   market.Snapshot
	Entry  *Entry
}

// Observation is one qualifying pair from the current cycle.
type Observation struct {
	Snapshot market.Snapshot
	Score    market.Result
	Rug      *RugReport // nil when the risk lookup produced no data this cycle
}

// Options bundles the tunables Reconcile needs beyond the signal engine.
type Options struct {
	CountCap      int
	HistoryMaxLen int
	RatioCap      float64
}

// Reconcile merges this cycle's qualifying observations into the previous
// ledger: upserts with capped count increment, history append, and a signal
// engine pass; decays everything absent this cycle, dropping entries whose
// count reaches zero. The input ledger is not mutated.
func Reconcile(previous Ledger, observations []Observation, engine *trade.Engine, now time.Time, opts Options) Ledger {
	updated := make(Ledger, len(previous)+len(observations))

	for _, obs := range observations {
		id := obs.Snapshot.PairAddress
		if id == "" {
			continue
		}

		prevEntry := previous[id]
		count := 1
		meta := &trade.Meta{}
		entry := &Entry{}
		if prevEntry != nil {
			clone := *prevEntry
			entry = &clone
			count = prevEntry.Count + 1
			if prevEntry.TradeMeta != nil {
				meta = prevEntry.TradeMeta.Clone()
			}
		}
		if count > opts.CountCap {
			count = opts.CountCap
		}

		meta.Append(obs.Snapshot, now, opts.HistoryMaxLen, opts.RatioCap)
		state, reasons := engine.Signal(meta)

		entry.Count = count
		entry.LastSeen = now
		if obs.Rug != nil {
			entry.Rug = obs.Rug
		}
		entry.MarketLabel = obs.Score.Label
		entry.MarketScore = obs.Score.Score
		entry.PotentialMultiple = obs.Score.PotentialMultiple
		checks := obs.Score.Checks
		entry.MarketChecks = &checks
		entry.TradeSignal = string(state)
		entry.TradeReasons = reasons
		entry.TradeMeta = meta
		entry.LastSignalAt = now

		updated[id] = entry
	}

	// Decay pairs that did not qualify this cycle; their last-known fields
	// ride along until the count runs out.
	for id, old := range previous {
		if _, ok := updated[id]; ok {
			continue
		}
		if old == nil || old.Count <= 1 {
			continue
		}
		clone := *old
		clone.Count = old.Count - 1
		updated[id] = &clone
	}

	return updated
}
