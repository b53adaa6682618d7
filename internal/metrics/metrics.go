// Package metrics exposes Prometheus collectors for the game workers and
// the SSH server, and an HTTP router that serves them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vovakirdan/arkanoid/internal/worker"
)

// Rejection reasons. Label values stay bounded.
const (
	ReasonRateLimit = "rate_limit"
	ReasonFull      = "full"
)

// Metrics holds the collectors on their own registry.
type Metrics struct {
	reg *prometheus.Registry

	wakes  *prometheus.CounterVec
	drains *prometheus.CounterVec
	panics *prometheus.CounterVec

	frames        prometheus.Counter
	ballsLost     prometheus.Counter
	levelsDone    prometheus.Counter
	finalScores   prometheus.Histogram
	sessions      prometheus.Gauge
	sessionsTotal prometheus.Counter
	rejected      *prometheus.CounterVec
}

var _ worker.Observer = (*Metrics)(nil)

// New registers every collector, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		wakes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arkanoid_worker_wakes_total",
			Help: "Times a worker woke up with pending input",
		}, []string{"worker"}),
		drains: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arkanoid_worker_drains_total",
			Help: "Completed ProcessOnce passes",
		}, []string{"worker"}),
		panics: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arkanoid_worker_panics_total",
			Help: "Recovered panics in worker hooks",
		}, []string{"worker"}),
		frames: f.NewCounter(prometheus.CounterOpts{
			Name: "arkanoid_frames_total",
			Help: "Frames published by the presentation worker",
		}),
		ballsLost: f.NewCounter(prometheus.CounterOpts{
			Name: "arkanoid_balls_lost_total",
			Help: "Balls that fell past the bite",
		}),
		levelsDone: f.NewCounter(prometheus.CounterOpts{
			Name: "arkanoid_levels_finished_total",
			Help: "Levels cleared",
		}),
		finalScores: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "arkanoid_final_score",
			Help:    "Score at the end of a game",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10),
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "arkanoid_sessions_active",
			Help: "Currently connected SSH sessions",
		}),
		sessionsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "arkanoid_sessions_total",
			Help: "SSH sessions accepted",
		}),
		rejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "arkanoid_connections_rejected_total",
			Help: "SSH connections rejected",
		}, []string{"reason"}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Wake implements worker.Observer.
func (m *Metrics) Wake(name string) { m.wakes.WithLabelValues(name).Inc() }

// Drain implements worker.Observer.
func (m *Metrics) Drain(name string) { m.drains.WithLabelValues(name).Inc() }

// Panic implements worker.Observer.
func (m *Metrics) Panic(name string) { m.panics.WithLabelValues(name).Inc() }

// FramePublished counts a frame.
func (m *Metrics) FramePublished() { m.frames.Inc() }

// BallLost counts a lost ball.
func (m *Metrics) BallLost() { m.ballsLost.Inc() }

// LevelFinished counts a cleared level.
func (m *Metrics) LevelFinished() { m.levelsDone.Inc() }

// GameOver records a final score.
func (m *Metrics) GameOver(score int) { m.finalScores.Observe(float64(score)) }

// SessionStarted tracks a new SSH session.
func (m *Metrics) SessionStarted() {
	m.sessions.Inc()
	m.sessionsTotal.Inc()
}

// SessionEnded tracks a closed SSH session.
func (m *Metrics) SessionEnded() { m.sessions.Dec() }

// ConnectionRejected counts a refused connection. reason must be one of
// the Reason constants.
func (m *Metrics) ConnectionRejected(reason string) { m.rejected.WithLabelValues(reason).Inc() }
