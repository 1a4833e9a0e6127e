package tally

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-particle-transport/pkg/core"
)

// boxRegion is a region whose boundary is a fixed distance away in every
// direction
type boxRegion struct {
	distance float64
}

func (b boxRegion) Name() string                      { return "box" }
func (b boxRegion) BoundaryDistance(core.Ray) float64 { return b.distance }

func particleWithWeight(w float64) *core.Particle {
	p := core.NewParticle(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0))
	p.Weight = w
	return &p
}

func TestHistoryStats(t *testing.T) {
	var hs HistoryStats
	assert.Equal(t, 0.0, hs.Mean())
	assert.Equal(t, 0.0, hs.RelativeError())

	for _, x := range []float64{1, 2, 3, 4} {
		hs.AddHistory(x)
	}
	assert.Equal(t, uint64(4), hs.Histories)
	assert.InDelta(t, 2.5, hs.Mean(), 1e-12)

	// population variance 1.25, error of the mean sqrt(1.25/3)
	assert.InDelta(t, math.Sqrt(1.25/3)/2.5, hs.RelativeError(), 1e-12)
}

func TestSurfaceCurrent(t *testing.T) {
	sc := NewSurfaceCurrent("current")

	sc.Score(particleWithWeight(0.5), core.EventCross)
	sc.Score(particleWithWeight(0.25), core.EventCross)
	sc.Score(particleWithWeight(9), core.EventTrack)
	sc.Score(particleWithWeight(9), core.EventEnter)
	sc.EndHistory()
	sc.EndHistory()

	s := sc.Summary()
	assert.Equal(t, KindCurrent, s.Kind)
	assert.Equal(t, uint64(2), s.Histories)
	assert.InDelta(t, 0.75, s.Total, 1e-12)
	assert.InDelta(t, 0.375, s.Mean, 1e-12)
}

func TestTrackLength(t *testing.T) {
	tl := NewTrackLength("flux")

	p := particleWithWeight(2)
	p.Cell = boxRegion{distance: 1.5}
	tl.Score(p, core.EventTrack)
	tl.Score(p, core.EventCross)

	unbounded := particleWithWeight(1)
	unbounded.Cell = boxRegion{distance: math.Inf(1)}
	tl.Score(unbounded, core.EventTrack)

	// No residency, nothing to score against
	tl.Score(particleWithWeight(1), core.EventTrack)
	tl.EndHistory()

	s := tl.Summary()
	assert.InDelta(t, 3.0, s.Total, 1e-12)
	assert.Equal(t, uint64(1), s.Histories)
}

func TestCounting(t *testing.T) {
	c := NewCounting("counts", core.EventCross)

	// counts per history: 0, 1, 1, 3
	perHistory := []int{0, 1, 1, 3}
	for _, n := range perHistory {
		for i := 0; i < n; i++ {
			c.Score(nil, core.EventCross)
		}
		c.Score(nil, core.EventEnter)
		c.EndHistory()
	}

	hist := c.Histogram()
	require.Equal(t, []uint64{1, 2, 0, 1}, hist)

	var total uint64
	for _, h := range hist {
		total += h
	}
	assert.Equal(t, uint64(len(perHistory)), total)

	sum := 0.0
	for _, p := range c.Probabilities() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	mean, variance := c.Moments()
	assert.InDelta(t, 1.25, mean, 1e-12)
	assert.InDelta(t, (0+1+1+9)/4.0-1.25*1.25, variance, 1e-12)

	s := c.Summary()
	assert.Equal(t, KindCounting, s.Kind)
	assert.InDelta(t, 5.0, s.Total, 1e-12)
}

func TestCountingRandomHistories(t *testing.T) {
	c := NewCounting("cell", core.EventEnter)
	sampler := core.NewSeededSampler(3)
	const histories = 1000
	for h := 0; h < histories; h++ {
		n := int(sampler.Get1D() * 6)
		for i := 0; i < n; i++ {
			c.Score(nil, core.EventEnter)
		}
		c.EndHistory()
	}

	var total uint64
	for _, v := range c.Histogram() {
		total += v
	}
	assert.Equal(t, uint64(histories), total)

	sum := 0.0
	for _, p := range c.Probabilities() {
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestBinomialError(t *testing.T) {
	assert.Equal(t, 0.0, BinomialError(0, 10))
	assert.Equal(t, 0.0, BinomialError(1, 0))
	assert.InDelta(t, math.Sqrt(0.25/100)/0.5, BinomialError(0.5, 100), 1e-12)
}

func TestTrackCount(t *testing.T) {
	tc := NewTrackCount("tracks")
	for h := 0; h < 3; h++ {
		tc.Score(nil, core.EventEnter)
		tc.Score(nil, core.EventTrack)
		tc.Score(nil, core.EventCross)
		tc.EndHistory()
	}
	assert.Equal(t, uint64(3), tc.Tracks())
	assert.InDelta(t, 1.0, tc.Summary().Mean, 1e-12)
}

func TestWriteReport(t *testing.T) {
	tc := NewTrackCount("tracks")
	for i := 0; i < 12345; i++ {
		tc.Score(nil, core.EventEnter)
	}
	counting := NewCounting("counts", core.EventCross)
	counting.Score(nil, core.EventCross)
	counting.EndHistory()
	counting.EndHistory()

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, []core.Estimator{tc, counting}))

	out := buf.String()
	assert.Contains(t, out, "tracks   12,345")
	assert.Contains(t, out, "counts (2 histories)")
	assert.Contains(t, out, "mean = 0.500000")
	assert.Contains(t, out, "var  = 0.250000")
}

func TestSummaryJSON(t *testing.T) {
	// Empty estimators must still serialize; NaN would fail
	for _, e := range []core.Estimator{
		NewSurfaceCurrent("a"), NewTrackLength("b"), NewCounting("c", core.EventCross), NewTrackCount("d"),
	} {
		_, err := json.Marshal(e.Summary())
		assert.NoError(t, err, e.Name())
	}
}
