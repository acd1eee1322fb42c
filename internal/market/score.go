package market

import (
	"math"

	"github.com/thiennguyenhieu/solana-bot/internal/config"
)

// Score labels.
const (
	LabelX100   = "x100-candidate"
	LabelX10    = "x10-ready"
	LabelReject = "reject"
)

// Result is the composite scoring output for one snapshot.
type Result struct {
	Label             string  `json:"label"`
	Score             float64 `json:"score"`
	PotentialMultiple float64 `json:"potential_multiple"`
	Checks            Checks  `json:"market"`
}

// upsideCapacity maps the distance between current FDV and the category's
// target peak valuation onto a 0..1 sub-score: 0 at <=1x, linear to 0.5 at
// 10x, linear to 1.0 at 100x and beyond.
func upsideCapacity(fdv, targetPeak float64) (multiple, score float64) {
	target := math.Max(1, targetPeak)
	fdv = math.Max(1, fdv)
	pot := target / fdv
	switch {
	case pot <= 1:
		return pot, 0
	case pot >= 100:
		return pot, 1
	case pot >= 10:
		return pot, 0.5 + 0.5*(pot-10)/90.0
	default:
		return pot, 0.5 * (pot - 1) / 9.0
	}
}

// Score combines upside capacity, structural bands, and market quality into a
// weighted 0..100 score plus a discrete label. Pure and deterministic.
func Score(s Snapshot, checks Checks, cfg config.Scoring, eval config.Evaluator) Result {
	target := cfg.TargetPeakOldUSD
	tier := eval.Old
	if checks.Category == CategoryEarly {
		target = cfg.TargetPeakEarlyUSD
		tier = eval.Early
	}
	potMult, potScore := upsideCapacity(s.FDV, target)
	upsidePoints := cfg.UpsideWeight * potScore

	structurePasses := 0
	for _, ok := range []bool{checks.WithinLiqCapOK, checks.LiqOK, checks.FDVOK} {
		if ok {
			structurePasses++
		}
	}
	structurePoints := cfg.StructureWeight * (float64(structurePasses) / 3.0)

	subFlags := []bool{
		checks.LiqFDVOK, checks.TurnoverOK, checks.Vol1hOK, checks.Vol6hOK,
		checks.Vol24hOK, checks.BuySell1hOK, checks.BuySell6hOK, checks.MomentumOK,
	}
	subPasses := 0
	for _, ok := range subFlags {
		if ok {
			subPasses++
		}
	}
	bonus := 0.0
	if sweetSpot(s, tier) {
		bonus = 0.5
	}
	marketPoints := cfg.MarketWeight * ((float64(subPasses) + bonus) / (float64(len(subFlags)) + 0.5))

	total := round2(upsidePoints + structurePoints + marketPoints)

	baseOK := checks.WithinLiqCapOK && checks.LiqOK && checks.FDVOK &&
		checks.TurnoverOK && checks.Vol24hOK && checks.MomentumOK

	label := LabelReject
	switch {
	case baseOK && potMult >= 100 && total >= 75:
		label = LabelX100
	case baseOK && potMult >= 10 && total >= 60:
		label = LabelX10
	}

	return Result{
		Label:             label,
		Score:             total,
		PotentialMultiple: round1(potMult),
		Checks:            checks,
	}
}

// sweetSpot reports whether liq/FDV sits in the narrow band that earns the
// half-point quality bonus.
func sweetSpot(s Snapshot, tier config.Tier) bool {
	liqFDV := safeDiv(s.LiquidityUSD, s.FDV, 0)
	return liqFDV >= tier.SweetMin && liqFDV <= tier.SweetMax
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round1(v float64) float64 { return math.Round(v*10) / 10 }
