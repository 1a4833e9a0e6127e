package transport

import (
	"context"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-particle-transport/pkg/core"
	"github.com/df07/go-particle-transport/pkg/geometry"
	"github.com/df07/go-particle-transport/pkg/tally"
)

// statusInterval is how many histories pass between status snapshots
// when no progress point is reached
const statusInterval = 1000

// smallestDraw replaces an exact zero free-flight draw so -ln(U) stays finite
const smallestDraw = math.SmallestNonzeroFloat64

// Status is a point-in-time snapshot of a run, safe to hand to other goroutines
type Status struct {
	Problem        string         `json:"problem"`
	Running        bool           `json:"running"`
	HistoriesDone  uint64         `json:"historiesDone"`
	HistoriesTotal uint64         `json:"historiesTotal"`
	Elapsed        time.Duration  `json:"elapsed"`
	Remaining      time.Duration  `json:"remaining"`
	Stats          Stats          `json:"stats"`
	Estimators     []core.Summary `json:"estimators"`
}

// Simulation transports histories through a problem, one at a time, from a
// single random stream
type Simulation struct {
	problem *Problem
	sampler core.Sampler
	logger  *slog.Logger
	printer *message.Printer
	stats   Stats

	mu     sync.RWMutex
	status Status
}

// NewSimulation creates a simulation. A nil logger discards log output.
func NewSimulation(problem *Problem, sampler core.Sampler, logger *slog.Logger) *Simulation {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Simulation{
		problem: problem,
		sampler: sampler,
		logger:  logger,
		printer: message.NewPrinter(language.English),
		stats:   newStats(),
	}
	s.status = Status{Problem: problem.Name, Stats: s.stats.clone()}
	return s
}

// Problem returns the problem being simulated
func (s *Simulation) Problem() *Problem {
	return s.problem
}

// Stats returns a copy of the kernel event counters
func (s *Simulation) Stats() Stats {
	return s.stats.clone()
}

// FindResidency assigns the particle to the first cell containing its
// position. Returns nil, leaving the particle without a cell, if there is none.
func (s *Simulation) FindResidency(p *core.Particle) *geometry.Cell {
	for _, c := range s.problem.Cells {
		if c.TestPoint(p.Position) {
			p.Cell = c
			return c
		}
	}
	p.Cell = nil
	return nil
}

// RunHistory transports one source particle and all of its offspring, then
// closes out the history on every estimator
func (s *Simulation) RunHistory() {
	var bank core.Bank
	bank.Push(s.problem.Source.Sample(s.sampler))

	for !bank.Empty() {
		p, _ := bank.Pop()
		s.transport(&p, &bank)
	}

	for _, e := range s.problem.Estimators {
		e.EndHistory()
	}
	s.stats.history()
}

// transport follows one particle until it dies
func (s *Simulation) transport(p *core.Particle, bank *core.Bank) {
	cell, ok := p.Cell.(*geometry.Cell)
	if !ok || cell == nil {
		// Freshly emitted, resolve and count the entry
		cell = s.FindResidency(p)
		if cell == nil {
			s.lose(p, nil)
			return
		}
		if cell.Importance == 0 {
			p.Kill()
			s.stats.importanceKill()
			return
		}
		cell.ScoreEstimators(p, core.EventEnter)
	}

	for p.Alive() {
		u := s.sampler.Get1D()
		if u == 0 {
			u = smallestDraw
		}
		distCollision := math.Inf(1)
		if xs := cell.MacroXS(); xs > 0 {
			distCollision = -math.Log(u) / xs
		}

		surface, distSurface := cell.SurfaceIntersect(p.Ray())
		if math.IsInf(distCollision, 1) && math.IsInf(distSurface, 1) {
			p.Kill()
			s.stats.leak()
			return
		}

		distance := math.Min(distCollision, distSurface)
		cell.ScoreEstimators(p, core.EventTrack)
		p.Move(distance)

		if distance == distSurface {
			surface.Cross(p)
			s.stats.crossing(surface.Reflecting())
			cell = s.changeResidency(p, cell, bank)
			if cell == nil {
				return
			}
			continue
		}

		if reaction := cell.Material.SampleCollision(p, s.sampler, bank); reaction != "" {
			s.stats.collision(reaction)
		}
	}
}

// Run transports the given number of histories. It stops early, returning
// the context's error, if ctx is cancelled between histories.
func (s *Simulation) Run(ctx context.Context, histories uint64) error {
	start := time.Now()
	s.logger.Info("starting run",
		"problem", s.problem.Name,
		"histories", s.printer.Sprintf("%d", histories))
	s.publish(0, histories, start, true)

	for done := uint64(0); done < histories; {
		select {
		case <-ctx.Done():
			s.logger.Warn("run cancelled", "historiesDone", done)
			s.publish(done, histories, start, false)
			return ctx.Err()
		default:
		}

		s.RunHistory()
		done++

		switch {
		case isPowerOfTen(done) || done == histories:
			s.logProgress(done, histories, start)
			s.publish(done, histories, start, true)
		case done%statusInterval == 0:
			s.publish(done, histories, start, true)
		}
	}

	s.publish(histories, histories, start, false)
	s.logger.Info("run finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

// logProgress logs elapsed time and a finish-time estimate
func (s *Simulation) logProgress(done, total uint64, start time.Time) {
	elapsed := time.Since(start)
	remaining := estimateRemaining(elapsed, done, total)
	s.logger.Info("histories complete",
		"histories", s.printer.Sprintf("%d", done),
		"elapsed", elapsed.Round(time.Millisecond),
		"finishAround", time.Now().Add(remaining).Format(time.TimeOnly))
}

// estimateRemaining extrapolates the time per history over what is left
func estimateRemaining(elapsed time.Duration, done, total uint64) time.Duration {
	if done == 0 || done >= total {
		return 0
	}
	perHistory := float64(elapsed) / float64(done)
	return time.Duration(perHistory * float64(total-done))
}

// publish stores a status snapshot for concurrent readers
func (s *Simulation) publish(done, total uint64, start time.Time, running bool) {
	elapsed := time.Since(start)
	summaries := make([]core.Summary, 0, len(s.problem.Estimators))
	for _, e := range s.problem.Estimators {
		summaries = append(summaries, e.Summary())
	}

	status := Status{
		Problem:        s.problem.Name,
		Running:        running,
		HistoriesDone:  done,
		HistoriesTotal: total,
		Elapsed:        elapsed,
		Remaining:      estimateRemaining(elapsed, done, total),
		Stats:          s.stats.clone(),
		Estimators:     summaries,
	}

	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Status returns the most recently published snapshot
func (s *Simulation) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Report writes every estimator's report in configuration order
func (s *Simulation) Report(w io.Writer) error {
	return tally.WriteReport(w, s.problem.Estimators)
}

// isPowerOfTen reports whether n is 1, 10, 100, ...
func isPowerOfTen(n uint64) bool {
	if n == 0 {
		return false
	}
	for n%10 == 0 {
		n /= 10
	}
	return n == 1
}
