package tally

import (
	"io"
	"math"

	"github.com/df07/go-particle-transport/pkg/core"
)

// Counting records how many times an event happened in each history and
// builds a histogram of those counts over all histories
type Counting struct {
	name      string
	event     core.Event
	count     int
	histogram []uint64
	histories uint64
}

// NewCounting creates a counting estimator that counts ev events.
// Attach to a surface with core.EventCross, or to a cell with core.EventEnter.
func NewCounting(name string, ev core.Event) *Counting {
	return &Counting{name: name, event: ev}
}

func (c *Counting) Name() string { return c.name }

// Score counts one event
func (c *Counting) Score(_ *core.Particle, ev core.Event) {
	if ev != c.event {
		return
	}
	c.count++
}

// EndHistory adds the history's count to the histogram and resets it
func (c *Counting) EndHistory() {
	if len(c.histogram) < c.count+1 {
		grown := make([]uint64, c.count+1)
		copy(grown, c.histogram)
		c.histogram = grown
	}
	c.histogram[c.count]++
	c.histories++
	c.count = 0
}

// Histogram returns the number of histories with each count
func (c *Counting) Histogram() []uint64 {
	return c.histogram
}

// Probabilities returns the probability mass function over counts
func (c *Counting) Probabilities() []float64 {
	pmf := make([]float64, len(c.histogram))
	if c.histories == 0 {
		return pmf
	}
	for i, h := range c.histogram {
		pmf[i] = float64(h) / float64(c.histories)
	}
	return pmf
}

// BinomialError returns the relative standard deviation sqrt(p(1-p)/n)/p of
// a bucket probability, or 0 for an empty bucket
func BinomialError(p float64, histories uint64) float64 {
	if p <= 0 || histories == 0 {
		return 0
	}
	return math.Sqrt(p*(1-p)/float64(histories)) / p
}

// Moments returns the mean and variance of the count distribution
func (c *Counting) Moments() (mean, variance float64) {
	s1, s2 := 0.0, 0.0
	for i, p := range c.Probabilities() {
		x := float64(i)
		s1 += p * x
		s2 += p * x * x
	}
	return s1, s2 - s1*s1
}

func (c *Counting) Report(w io.Writer) error {
	return writeCounting(w, c.Summary())
}

func (c *Counting) Summary() core.Summary {
	mean, variance := c.Moments()
	relErr := 0.0
	if mean > 0 && c.histories > 0 {
		relErr = math.Sqrt(math.Max(0, variance)/float64(c.histories)) / mean
	}

	total := 0.0
	for i, h := range c.histogram {
		total += float64(i) * float64(h)
	}

	return core.Summary{
		Name:          c.name,
		Kind:          KindCounting,
		Histories:     c.histories,
		Mean:          mean,
		RelativeError: relErr,
		Total:         total,
		Variance:      variance,
		Probabilities: c.Probabilities(),
	}
}
