package domain

import "math"

// NeutralRiskScore is the baseline for companies with no payment history.
const NeutralRiskScore = 50

const (
	// latenessWeight converts average days late into score points.
	latenessWeight = 1.5
	// latenessCap bounds the lateness contribution so a single factor
	// cannot dominate the score.
	latenessCap = 30.0

	overdueWeight = 20.0
	paymentWeight = 20.0

	// trendGroupSize is how many invoices form the recent and older groups.
	trendGroupSize = 5
	// trendMinGroup is the minimum invoices per group before a trend is called.
	trendMinGroup = 3
	// trendNoiseBand is the days-late delta below which the trend stays
	// stable, to avoid flapping on marginal differences.
	trendNoiseBand = 3.0
)

// Stats are the aggregate inputs to the risk score.
type Stats struct {
	TotalInvoices   int
	PaidInvoices    int
	OverdueInvoices int
	AvgDaysLate     float64
}

// ComputeRiskScore maps aggregate payment statistics to a 0-100 risk score.
// Base 50 is neutral risk; lateness, overdue rate and payment rate are
// additive adjustments. Total for any input: out-of-range values clamp.
func ComputeRiskScore(s Stats) int {
	if s.TotalInvoices <= 0 {
		return NeutralRiskScore
	}

	total := float64(s.TotalInvoices)
	paymentRate := float64(s.PaidInvoices) / total
	overdueRate := float64(s.OverdueInvoices) / total
	lateness := math.Min(s.AvgDaysLate*latenessWeight, latenessCap)

	score := NeutralRiskScore + lateness + overdueRate*overdueWeight - paymentRate*paymentWeight
	return int(math.Round(clamp(score, 0, 100)))
}

// ClassifyTrend compares the mean lateness of the 5 most recent invoices
// against the 5 before them. daysLate must be ordered most-recent-first.
// Both groups need at least 3 invoices; otherwise there is not enough
// signal and the trend defaults to stable.
func ClassifyTrend(daysLate []int) Trend {
	if len(daysLate) < 2*trendMinGroup {
		return TrendStable
	}

	recent := daysLate[:min(trendGroupSize, len(daysLate))]
	older := daysLate[len(recent):]
	if len(older) > trendGroupSize {
		older = older[:trendGroupSize]
	}
	if len(recent) < trendMinGroup || len(older) < trendMinGroup {
		return TrendStable
	}

	recentAvg := mean(recent)
	olderAvg := mean(older)
	switch {
	case recentAvg < olderAvg-trendNoiseBand:
		return TrendImproving
	case recentAvg > olderAvg+trendNoiseBand:
		return TrendWorsening
	default:
		return TrendStable
	}
}

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
