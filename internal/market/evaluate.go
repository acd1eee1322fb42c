package market

import (
	"fmt"
	"time"

	"github.com/thiennguyenhieu/solana-bot/internal/config"
)

// Age categories. Early pairs get tighter bands with more upside tolerance;
// established pairs are judged on sustained turnover instead.
const (
	CategoryEarly = "early"
	CategoryOld   = "old"
)

// Checks is the structured pass/fail report for one snapshot. Every false
// flag contributes exactly one category-tagged line to Reasons; that list is
// the only explanation surface exposed upstream.
type Checks struct {
	Category       string   `json:"category"`
	LiqOK          bool     `json:"liq_ok"`
	FDVOK          bool     `json:"fdv_ok"`
	LiqFDVOK       bool     `json:"liq_fdv_ok"`
	TurnoverOK     bool     `json:"turnover_ok"`
	Vol1hOK        bool     `json:"vol1h_ok"`
	Vol6hOK        bool     `json:"vol6h_ok"`
	Vol24hOK       bool     `json:"vol24h_ok"`
	BuySell1hOK    bool     `json:"bs_h1_ok"`
	BuySell6hOK    bool     `json:"bs_h6_ok"`
	MomentumOK     bool     `json:"momentum_ok"`
	WithinLiqCapOK bool     `json:"within_liq_cap_ok"`
	Reasons        []string `json:"reasons"`
}

// ClassifyAge buckets a pair by creation time. Unknown creation time counts
// as old: without an age there is no basis for the looser early bands.
func ClassifyAge(createdMs int64, earlyHours float64, now time.Time) string {
	if createdMs == 0 {
		return CategoryOld
	}
	ageH := float64(now.UnixMilli()-createdMs) / 3_600_000.0
	if ageH < 0 {
		ageH = 0
	}
	if ageH <= earlyHours {
		return CategoryEarly
	}
	return CategoryOld
}

// checkRow pairs one boolean outcome with the reason recorded when it fails.
type checkRow struct {
	ok     bool
	reason string
}

// Evaluate applies the category's band table plus the global liquidity cap to
// a snapshot. Pure function of its inputs; now only feeds age classification.
func Evaluate(s Snapshot, cfg config.Evaluator, now time.Time) Checks {
	cat := ClassifyAge(s.CreatedAtMs, cfg.EarlyHours, now)
	tier := cfg.Old
	if cat == CategoryEarly {
		tier = cfg.Early
	}

	liq := s.LiquidityUSD
	fdv := s.FDV
	rH1 := buySellRatio(s.Buys1h, s.Sells1h)
	rH6 := buySellRatio(s.Buys6h, s.Sells6h)
	liqFDV := safeDiv(liq, fdv, 0)
	turnover24 := safeDiv(s.Vol24h, fdv, 0)

	withinCap := cfg.LiqCapUSD <= 0 || liq <= cfg.LiqCapUSD

	liqMax := tier.LiqMaxUSD
	if liqMax == 0 {
		liqMax = cfg.LiqCapUSD
	}

	var momentumOK bool
	var momentumReason string
	if cat == CategoryEarly {
		momentumOK = s.Chg5m <= tier.Chg5mMax && s.Chg1h <= tier.Chg1hMax && s.Chg24h <= tier.Chg24hMax
		momentumReason = "momentum guards tripped m5/h1/h24"
	} else {
		momentumOK = s.Chg24h >= tier.Chg24hMin && s.Chg24h <= tier.Chg24hMax
		momentumReason = fmt.Sprintf("h24 change %.2f%% not in [%.0f,%.0f]", s.Chg24h, tier.Chg24hMin, tier.Chg24hMax)
	}

	liqFDVOK := liqFDV >= tier.LiqFDVMin
	liqFDVReason := fmt.Sprintf("liq/FDV %.3f < %.2f", liqFDV, tier.LiqFDVMin)
	if tier.LiqFDVMax > 0 {
		liqFDVOK = liqFDVOK && liqFDV <= tier.LiqFDVMax
		liqFDVReason = fmt.Sprintf("liq/FDV %.3f not in [%.2f,%.2f]", liqFDV, tier.LiqFDVMin, tier.LiqFDVMax)
	}

	rows := []checkRow{
		{liq >= tier.LiqMinUSD && liq <= liqMax, fmt.Sprintf("liquidity %.0f not in %.0f-%.0f", liq, tier.LiqMinUSD, liqMax)},
		{fdv <= tier.FDVMaxUSD, fmt.Sprintf("FDV %.0f > %.0f", fdv, tier.FDVMaxUSD)},
		{liqFDVOK, liqFDVReason},
		{turnover24 >= tier.TurnoverMin, fmt.Sprintf("24h turnover %.2f < %.1f", turnover24, tier.TurnoverMin)},
		{s.Vol1h >= tier.Vol1hMin, fmt.Sprintf("1h vol %.0f < %.0f", s.Vol1h, tier.Vol1hMin)},
		{s.Vol6h >= tier.Vol6hMin, fmt.Sprintf("6h vol %.0f < %.0f", s.Vol6h, tier.Vol6hMin)},
		{s.Vol24h >= tier.Vol24hMin, fmt.Sprintf("24h vol %.0f < %.0f", s.Vol24h, tier.Vol24hMin)},
		{rH1 >= tier.RatioMin && rH1 <= tier.RatioMax, fmt.Sprintf("h1 buy/sell %.2f not in [%.2f,%.2f]", rH1, tier.RatioMin, tier.RatioMax)},
		{rH6 >= tier.RatioMin && rH6 <= tier.RatioMax, fmt.Sprintf("h6 buy/sell %.2f not in [%.2f,%.2f]", rH6, tier.RatioMin, tier.RatioMax)},
		{momentumOK, momentumReason},
	}

	var reasons []string
	if !withinCap {
		reasons = append(reasons, fmt.Sprintf("liquidity %.0f exceeds cap %.0f", liq, cfg.LiqCapUSD))
	}
	for _, row := range rows {
		if !row.ok {
			reasons = append(reasons, fmt.Sprintf("[%s] %s", cat, row.reason))
		}
	}

	return Checks{
		Category:       cat,
		LiqOK:          rows[0].ok,
		FDVOK:          rows[1].ok,
		LiqFDVOK:       rows[2].ok,
		TurnoverOK:     rows[3].ok,
		Vol1hOK:        rows[4].ok,
		Vol6hOK:        rows[5].ok,
		Vol24hOK:       rows[6].ok,
		BuySell1hOK:    rows[7].ok,
		BuySell6hOK:    rows[8].ok,
		MomentumOK:     rows[9].ok,
		WithinLiqCapOK: withinCap,
		Reasons:        reasons,
	}
}
