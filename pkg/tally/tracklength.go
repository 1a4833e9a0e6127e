package tally

import (
	"io"
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// TrackLength scores weight times the distance back to the boundary the
// particle came from. The result is not divided by cell volume.
type TrackLength struct {
	name    string
	history float64
	stats   HistoryStats
}

// NewTrackLength creates a track-length estimator
func NewTrackLength(name string) *TrackLength {
	return &TrackLength{name: name}
}

func (tl *TrackLength) Name() string { return tl.name }

// Score adds weight * reverse boundary distance for track events
func (tl *TrackLength) Score(p *core.Particle, ev core.Event) {
	if ev != core.EventTrack || p.Cell == nil {
		return
	}

	reverse := core.NewRay(p.Position, p.Direction.Negate())
	d := p.Cell.BoundaryDistance(reverse)
	if math.IsInf(d, 1) {
		// Unbounded behind the particle, nothing finite to score
		return
	}
	tl.history += p.Weight * d
}

// EndHistory folds the history total into the statistics
func (tl *TrackLength) EndHistory() {
	tl.stats.AddHistory(tl.history)
	tl.history = 0
}

// Stats returns the accumulated statistics
func (tl *TrackLength) Stats() HistoryStats {
	return tl.stats
}

func (tl *TrackLength) Report(w io.Writer) error {
	return writeScalar(w, tl.Summary())
}

func (tl *TrackLength) Summary() core.Summary {
	return core.Summary{
		Name:          tl.name,
		Kind:          KindTrackLength,
		Histories:     tl.stats.Histories,
		Mean:          tl.stats.Mean(),
		RelativeError: tl.stats.RelativeError(),
		Total:         tl.stats.Sum,
	}
}
