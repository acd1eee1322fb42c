package rugcheck

import "fmt"

// Statuses assigned by Evaluate.
const (
	StatusSafe   = "Safe"
	StatusRisky  = "Risky"
	StatusDanger = "Danger"
	StatusRugged = "Rugged"
)

// Assessment is the reduced risk view consumed downstream.
type Assessment struct {
	Status  string
	Score   int
	Reasons []string
	Link    string
}

// Evaluate reduces a report to a deduction-based score out of 100 and a
// coarse status. A rugged token short-circuits to zero. Nil-safe; a missing
// report scores zero with no reasons.
func Evaluate(report *Report, linkBase string) Assessment {
	if report == nil {
		return Assessment{Status: StatusRugged, Score: 0}
	}
	link := linkBase + "/" + report.Mint
	if report.Rugged {
		return Assessment{Status: StatusRugged, Score: 0, Link: link}
	}

	score := 100
	var reasons []string
	deduct := func(points int, reason string) {
		score -= points
		reasons = append(reasons, reason)
	}

	top1 := 100.0
	if len(report.TopHolders) > 0 {
		top1 = report.TopHolders[0].Pct
	}
	top10 := 100.0
	if len(report.TopHolders) >= 10 {
		top10 = 0
		for _, h := range report.TopHolders[:10] {
			top10 += h.Pct
		}
	}
	lpLocked := 0.0
	for _, m := range report.Markets {
		if m.LP.LockedPct > lpLocked {
			lpLocked = m.LP.LockedPct
		}
	}

	if top1 > 10 {
		deduct(10, "top 1 holder > 10%")
	}
	if top10 > 30 {
		deduct(10, "top 10 holders > 30%")
	}
	if lpLocked < 90 {
		deduct(10, "LP locked < 90%")
	}
	if report.TotalHolders < 500 {
		deduct(10, "total holders < 500")
	}
	if report.CreatorBalance > 0 {
		deduct(10, "creator still holds tokens")
	}
	if report.MintAuthority != "" || report.FreezeAuthority != "" {
		deduct(10, "mint or freeze authority exists")
	}
	if report.TransferFee.Pct > 5 {
		deduct(10, fmt.Sprintf("transfer fee > 5%% (%.1f%%)", report.TransferFee.Pct))
	}
	if len(report.Risks) > 0 {
		score -= 15
		for _, r := range report.Risks {
			if r.Description != "" {
				reasons = append(reasons, r.Description)
			}
		}
	}
	if report.GraphInsidersDetected > 0 {
		deduct(15, "insider network detected")
	}
	if score < 0 {
		score = 0
	}

	status := StatusDanger
	switch {
	case score >= 80:
		status = StatusSafe
	case score >= 40:
		status = StatusRisky
	}

	return Assessment{Status: status, Score: score, Reasons: reasons, Link: link}
}
