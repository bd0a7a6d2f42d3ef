package rankingservice

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the ranking module's Prometheus instruments.
type Metrics struct {
	WindowsResolved  prometheus.Counter
	RoundsClosed     prometheus.Counter
	RoundsRolledOver prometheus.Counter
	CloseViolations  prometheus.Counter
}

// NewMetrics registers the module's counters on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WindowsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_windows_resolved_total",
			Help: "Number of challenge-window resolutions served.",
		}),
		RoundsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_rounds_closed_total",
			Help: "Number of rounds closed successfully.",
		}),
		RoundsRolledOver: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_rounds_rolled_over_total",
			Help: "Number of rounds rolled over into the following month.",
		}),
		CloseViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_close_violations_total",
			Help: "Number of policy violations reported by close attempts.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.WindowsResolved, m.RoundsClosed, m.RoundsRolledOver, m.CloseViolations)
	}
	return m
}

func (m *Metrics) incWindowsResolved() {
	if m != nil {
		m.WindowsResolved.Inc()
	}
}

func (m *Metrics) incRoundsClosed() {
	if m != nil {
		m.RoundsClosed.Inc()
	}
}

func (m *Metrics) incRoundsRolledOver() {
	if m != nil {
		m.RoundsRolledOver.Inc()
	}
}

func (m *Metrics) addCloseViolations(n int) {
	if m != nil && n > 0 {
		m.CloseViolations.Add(float64(n))
	}
}
