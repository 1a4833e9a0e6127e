package transport

import (
	"maps"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historiesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_histories_total",
		Help: "Completed particle histories",
	})

	collisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transport_collisions_total",
		Help: "Collisions by sampled reaction",
	}, []string{"reaction"})

	crossingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_surface_crossings_total",
		Help: "Surface crossings, including reflections",
	})

	reflectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_reflections_total",
		Help: "Crossings of reflecting surfaces",
	})

	splitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_splits_total",
		Help: "Particles added to the bank by importance splitting",
	})

	rouletteTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transport_roulette_total",
		Help: "Russian roulette games by result",
	}, []string{"result"})

	importanceKillsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_importance_kills_total",
		Help: "Particles killed entering a zero-importance cell",
	})

	leaksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_leaks_total",
		Help: "Particles escaping through unbounded vacuum",
	})

	lostTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "transport_lost_particles_total",
		Help: "Particles found in no cell",
	})
)

// Stats counts kernel events over one simulation
type Stats struct {
	Histories         uint64            `json:"histories"`
	Collisions        map[string]uint64 `json:"collisions"`
	Crossings         uint64            `json:"crossings"`
	Reflections       uint64            `json:"reflections"`
	Splits            uint64            `json:"splits"`
	RouletteKills     uint64            `json:"rouletteKills"`
	RouletteSurvivals uint64            `json:"rouletteSurvivals"`
	ImportanceKills   uint64            `json:"importanceKills"`
	Leaks             uint64            `json:"leaks"`
	Lost              uint64            `json:"lost"`
}

func newStats() Stats {
	return Stats{Collisions: make(map[string]uint64)}
}

// clone returns a copy that shares no memory with s
func (s Stats) clone() Stats {
	c := s
	c.Collisions = maps.Clone(s.Collisions)
	return c
}

func (s *Stats) history() {
	s.Histories++
	historiesTotal.Inc()
}

func (s *Stats) collision(reaction string) {
	s.Collisions[reaction]++
	collisionsTotal.WithLabelValues(reaction).Inc()
}

func (s *Stats) crossing(reflecting bool) {
	s.Crossings++
	crossingsTotal.Inc()
	if reflecting {
		s.Reflections++
		reflectionsTotal.Inc()
	}
}

func (s *Stats) split(n uint64) {
	s.Splits += n
	splitsTotal.Add(float64(n))
}

func (s *Stats) roulette(survived bool) {
	if survived {
		s.RouletteSurvivals++
		rouletteTotal.WithLabelValues("survived").Inc()
		return
	}
	s.RouletteKills++
	rouletteTotal.WithLabelValues("killed").Inc()
}

func (s *Stats) importanceKill() {
	s.ImportanceKills++
	importanceKillsTotal.Inc()
}

func (s *Stats) leak() {
	s.Leaks++
	leaksTotal.Inc()
}

func (s *Stats) lost() {
	s.Lost++
	lostTotal.Inc()
}
