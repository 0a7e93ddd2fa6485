package core

import "github.com/farewatch/farewatch/schema"

// ClassifyDrop returns the whole-percent drop of price below the baseline
// mean, or nil when there is no baseline or the drop is under the threshold.
// The threshold is compared against the fractional drop and the result is
// truncated afterwards.
func ClassifyDrop(price float64, baseline schema.Baseline, policy schema.DropPolicy) *int {
	if !baseline.Valid() || baseline.Mean <= 0 {
		return nil
	}
	pct := (baseline.Mean - price) / baseline.Mean * 100
	if pct < float64(policy.ThresholdPct) {
		return nil
	}
	dropped := int(pct)
	return &dropped
}

// ApplyDrops annotates every offer with its drop against one baseline and
// returns how many offers dropped by at least one whole percent.
func ApplyDrops(offers []schema.NormalizedOffer, baseline schema.Baseline, policy schema.DropPolicy) int {
	drops := 0
	for i := range offers {
		offers[i].DropPct = ClassifyDrop(offers[i].Price, baseline, policy)
		if offers[i].DropPct != nil && *offers[i].DropPct > 0 {
			drops++
		}
	}
	return drops
}
