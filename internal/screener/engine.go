// Package screener orchestrates one polling cycle: candidate discovery,
// market evaluation and scoring, risk lookups, ledger reconciliation, and
// alert delivery. Execution is single-threaded and batch-per-cycle; the
// ledger is rewritten exactly once, at the end, from a complete in-memory
// reconciliation, so an abandoned cycle never corrupts state.
package screener

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/thiennguyenhieu/solana-bot/internal/alert"
	"github.com/thiennguyenhieu/solana-bot/internal/config"
	"github.com/thiennguyenhieu/solana-bot/internal/dexscreener"
	"github.com/thiennguyenhieu/solana-bot/internal/market"
	"github.com/thiennguyenhieu/solana-bot/internal/metrics"
	"github.com/thiennguyenhieu/solana-bot/internal/rugcheck"
	"github.com/thiennguyenhieu/solana-bot/internal/track"
	"github.com/thiennguyenhieu/solana-bot/internal/trade"
)

// Engine wires the collaborators for a screening cycle.
type Engine struct {
	log      zerolog.Logger
	cfg      *config.Config
	catalog  *dexscreener.Client
	rug      *rugcheck.Client
	ledger   *track.Store
	metas    *trade.Store
	signals  *trade.Engine
	notifier *alert.Notifier
	now      func() time.Time
}

// New assembles an engine from config.
func New(cfg *config.Config, notifier *alert.Notifier, log zerolog.Logger) *Engine {
	pollInterval := time.Duration(cfg.Screener.PollIntervalMins) * time.Minute
	return &Engine{
		log:      log,
		cfg:      cfg,
		catalog:  dexscreener.NewClient(cfg.Dexscreener, log),
		rug:      rugcheck.NewClient(cfg.Rugcheck, log),
		ledger:   track.NewStore(cfg.Tracking.LedgerPath, log),
		metas:    trade.NewStore(cfg.Tracking.MetaPath, log),
		signals:  trade.NewEngine(cfg.Trade, pollInterval),
		notifier: notifier,
		now:      time.Now,
	}
}

// RunCycle executes one full screening pass. Upstream failures for a single
// pair skip that pair; only context cancellation aborts the cycle.
func (e *Engine) RunCycle(ctx context.Context) error {
	start := e.now()

	tokens := e.catalog.TokenProfiles(ctx)
	e.log.Info().Int("tokens", len(tokens)).Msg("candidate tokens discovered")

	observations := e.collect(ctx, tokens)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	previous := e.ledger.Load()
	e.seedMetas(previous)

	updated := track.Reconcile(previous, observations, e.signals, e.now(), track.Options{
		CountCap:      e.cfg.Tracking.CountCap,
		HistoryMaxLen: e.cfg.Trade.HistoryMaxLen,
		RatioCap:      e.cfg.Trade.RatioCap,
	})

	if err := e.ledger.Save(updated); err != nil {
		e.log.Warn().Err(err).Msg("ledger save failed")
	}
	if err := e.saveMetas(updated); err != nil {
		e.log.Warn().Err(err).Msg("trade meta save failed")
	}

	records := e.enrich(ctx, updated)
	if err := e.notify(ctx, records); err != nil {
		e.log.Warn().Err(err).Msg("alert delivery failed")
	}

	metrics.CyclesTotal.Inc()
	metrics.TrackedPairs.Set(float64(len(updated)))
	// Count signals only for pairs observed this cycle; decayed entries carry
	// a stale last-known signal, not a fresh emission.
	observed := make(map[string]struct{}, len(observations))
	for _, obs := range observations {
		observed[obs.Snapshot.PairAddress] = struct{}{}
	}
	for id, entry := range updated {
		if _, ok := observed[id]; ok {
			metrics.SignalsTotal.WithLabelValues(entry.TradeSignal).Inc()
		}
	}

	e.log.Info().
		Int("observed", len(observations)).
		Int("tracked", len(updated)).
		Dur("elapsed", e.now().Sub(start)).
		Msg("cycle complete")
	return nil
}

// collect evaluates every candidate token and returns the qualifying
// observations. A pair qualifies when its score label is not reject.
func (e *Engine) collect(ctx context.Context, tokens []string) []track.Observation {
	var observations []track.Observation
	for _, token := range tokens {
		if ctx.Err() != nil {
			return observations
		}
		pair, ok := e.fetchPair(ctx, token)
		if !ok {
			continue
		}
		metrics.CandidatesTotal.Inc()

		snap := market.Normalize(*pair)
		checks := market.Evaluate(snap, e.cfg.Evaluator, e.now())
		result := market.Score(snap, checks, e.cfg.Scoring, e.cfg.Evaluator)
		if result.Label == market.LabelReject {
			continue
		}
		metrics.QualifiedTotal.Inc()

		var rug *track.RugReport
		if report := e.rug.Fetch(ctx, snap.BaseMint); report != nil {
			assessment := e.rug.Assess(report)
			rug = &track.RugReport{
				Status:  assessment.Status,
				Score:   assessment.Score,
				Reasons: assessment.Reasons,
				Link:    assessment.Link,
			}
		}

		observations = append(observations, track.Observation{
			Snapshot: snap,
			Score:    result,
			Rug:      rug,
		})
	}
	return observations
}

func (e *Engine) fetchPair(ctx context.Context, token string) (*market.Pair, bool) {
	pairAddr, err := e.catalog.PairAddress(ctx, token)
	if err != nil {
		if !errors.Is(err, dexscreener.ErrNotFound) && ctx.Err() == nil {
			e.log.Debug().Err(err).Str("token", token).Msg("pair lookup failed")
		}
		return nil, false
	}
	pair, err := e.catalog.PairDetails(ctx, pairAddr)
	if err != nil {
		if !errors.Is(err, dexscreener.ErrNotFound) && ctx.Err() == nil {
			e.log.Debug().Err(err).Str("pair", pairAddr).Msg("pair detail fetch failed")
		}
		return nil, false
	}
	return pair, true
}

// seedMetas backfills signal meta from the standalone meta store for tracked
// entries that lost theirs (older ledger formats, manual edits).
func (e *Engine) seedMetas(ledger track.Ledger) {
	active := ledger.ActiveIDs()
	if len(active) == 0 {
		return
	}
	metas := e.metas.Load(active)
	for id, entry := range ledger {
		if entry.TradeMeta == nil {
			entry.TradeMeta = metas[id]
		}
	}
}

func (e *Engine) saveMetas(ledger track.Ledger) error {
	metas := make(map[string]*trade.Meta, len(ledger))
	for id, entry := range ledger {
		metas[id] = entry.TradeMeta
	}
	return e.metas.Save(metas, ledger.ActiveIDs())
}

// enrich refetches live details for every surviving entry and merges them
// with the durable fields. Pairs the catalog no longer serves are skipped
// from the output but stay in the ledger to decay naturally.
func (e *Engine) enrich(ctx context.Context, ledger track.Ledger) []track.Record {
	records := make([]track.Record, 0, len(ledger))
	for id, entry := range ledger {
		if ctx.Err() != nil {
			break
		}
		pair, err := e.catalog.PairDetails(ctx, id)
		if err != nil {
			continue
		}
		records = append(records, track.Record{
			PairID: id,
			Live:   market.Normalize(*pair),
			Entry:  entry,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Entry.Count != records[j].Entry.Count {
			return records[i].Entry.Count > records[j].Entry.Count
		}
		if records[i].Entry.MarketScore != records[j].Entry.MarketScore {
			return records[i].Entry.MarketScore > records[j].Entry.MarketScore
		}
		return records[i].PairID < records[j].PairID
	})
	return records
}

func (e *Engine) notify(ctx context.Context, records []track.Record) error {
	if len(records) == 0 || !e.notifier.Enabled() {
		return nil
	}
	text := alert.Build(records, e.cfg.Tracking.CountCap)
	return e.notifier.Send(ctx, text)
}
