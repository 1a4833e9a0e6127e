package tally

import (
	"io"

	"github.com/df07/go-particle-transport/pkg/core"
)

// SurfaceCurrent sums particle weight over every crossing of its surfaces
type SurfaceCurrent struct {
	name    string
	history float64
	stats   HistoryStats
}

// NewSurfaceCurrent creates a surface-current estimator
func NewSurfaceCurrent(name string) *SurfaceCurrent {
	return &SurfaceCurrent{name: name}
}

func (sc *SurfaceCurrent) Name() string { return sc.name }

// Score adds the particle weight on surface crossings
func (sc *SurfaceCurrent) Score(p *core.Particle, ev core.Event) {
	if ev != core.EventCross {
		return
	}
	sc.history += p.Weight
}

// EndHistory folds the history total into the statistics
func (sc *SurfaceCurrent) EndHistory() {
	sc.stats.AddHistory(sc.history)
	sc.history = 0
}

// Stats returns the accumulated statistics
func (sc *SurfaceCurrent) Stats() HistoryStats {
	return sc.stats
}

func (sc *SurfaceCurrent) Report(w io.Writer) error {
	return writeScalar(w, sc.Summary())
}

func (sc *SurfaceCurrent) Summary() core.Summary {
	return core.Summary{
		Name:          sc.name,
		Kind:          KindCurrent,
		Histories:     sc.stats.Histories,
		Mean:          sc.stats.Mean(),
		RelativeError: sc.stats.RelativeError(),
		Total:         sc.stats.Sum,
	}
}
