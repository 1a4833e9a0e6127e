package core

import "io"

// Event identifies which transport event an estimator is being scored for
type Event int

const (
	// EventTrack is a free flight inside a cell, scored before the move
	EventTrack Event = iota
	// EventCross is a particle crossing a surface
	EventCross
	// EventEnter is a particle taking up residency in a cell
	EventEnter
)

// String returns the event name used in logs
func (e Event) String() string {
	switch e {
	case EventTrack:
		return "track"
	case EventCross:
		return "cross"
	case EventEnter:
		return "enter"
	default:
		return "unknown"
	}
}

// Region is the view of a cell that estimators and particles need.
// Note: defined here rather than in geometry to avoid a circular import.
type Region interface {
	Name() string
	// BoundaryDistance returns the distance along r to the nearest bounding
	// surface, or +Inf if there is none
	BoundaryDistance(r Ray) float64
}

// Estimator converts particle events into a statistical estimate
type Estimator interface {
	Name() string
	Score(p *Particle, ev Event)
	// EndHistory closes out the contribution of the current history
	EndHistory()
	Report(w io.Writer) error
	Summary() Summary
}

// Summary is a serializable snapshot of an estimator's results
type Summary struct {
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	Histories     uint64    `json:"histories"`
	Mean          float64   `json:"mean"`
	RelativeError float64   `json:"relativeError"`
	Total         float64   `json:"total"`
	Variance      float64   `json:"variance,omitempty"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}
