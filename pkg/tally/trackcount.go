package tally

import (
	"io"

	"github.com/df07/go-particle-transport/pkg/core"
)

// TrackCount counts every entry into its cells
type TrackCount struct {
	name      string
	tracks    uint64
	histories uint64
}

// NewTrackCount creates a track-count estimator
func NewTrackCount(name string) *TrackCount {
	return &TrackCount{name: name}
}

func (tc *TrackCount) Name() string { return tc.name }

// Score counts cell entries
func (tc *TrackCount) Score(_ *core.Particle, ev core.Event) {
	if ev == core.EventEnter {
		tc.tracks++
	}
}

func (tc *TrackCount) EndHistory() {
	tc.histories++
}

// Tracks returns the raw number of entries
func (tc *TrackCount) Tracks() uint64 {
	return tc.tracks
}

func (tc *TrackCount) Report(w io.Writer) error {
	return writeTotal(w, tc.Summary())
}

func (tc *TrackCount) Summary() core.Summary {
	mean := 0.0
	if tc.histories > 0 {
		mean = float64(tc.tracks) / float64(tc.histories)
	}
	return core.Summary{
		Name:      tc.name,
		Kind:      KindTrackCount,
		Histories: tc.histories,
		Mean:      mean,
		Total:     float64(tc.tracks),
	}
}
