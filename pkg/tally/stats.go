package tally

import "math"

// HistoryStats accumulates one score per history and derives the mean and
// its relative error
type HistoryStats struct {
	Sum       float64 // sum of per-history scores
	SumSq     float64 // sum of squared per-history scores
	Histories uint64  // number of histories folded in
}

// AddHistory folds one history's score into the statistics
func (hs *HistoryStats) AddHistory(score float64) {
	hs.Sum += score
	hs.SumSq += score * score
	hs.Histories++
}

// Mean returns the mean score per history
func (hs *HistoryStats) Mean() float64 {
	if hs.Histories == 0 {
		return 0
	}
	return hs.Sum / float64(hs.Histories)
}

// RelativeError returns the relative standard error of the mean, or 0 when
// it is undefined (fewer than two histories or a zero mean)
func (hs *HistoryStats) RelativeError() float64 {
	if hs.Histories < 2 {
		return 0
	}
	n := float64(hs.Histories)
	mean := hs.Sum / n
	if mean == 0 {
		return 0
	}
	variance := math.Max(0, hs.SumSq/n-mean*mean)
	return math.Sqrt(variance/(n-1)) / math.Abs(mean)
}
