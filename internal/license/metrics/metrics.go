package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the licensing service. Counters are
// observability only and never feed back into authorization decisions.
type Metrics struct {
	// Accounts created via registration
	Registrations prometheus.Counter

	// Login outcomes by reason code ("success" for granted check-ins)
	LoginOutcomes *prometheus.CounterVec

	// Admin approval mutations by resulting state
	ApprovalChanges *prometheus.CounterVec
}

// New creates a Metrics instance with all collectors registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "keygate_registrations_total",
			Help: "Total number of accounts registered",
		}),

		LoginOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keygate_login_outcomes_total",
			Help: "Total login check-in outcomes by reason code",
		}, []string{"reason"}),

		ApprovalChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keygate_approval_changes_total",
			Help: "Total admin approval mutations by resulting state",
		}, []string{"state"}),
	}
}

// IncrementRegistrations records a successful registration.
func (m *Metrics) IncrementRegistrations() {
	if m != nil {
		m.Registrations.Inc()
	}
}

// IncrementLoginOutcome records a login decision by reason code.
func (m *Metrics) IncrementLoginOutcome(reason string) {
	if m != nil {
		m.LoginOutcomes.WithLabelValues(reason).Inc()
	}
}

// IncrementApprovalChange records an approval mutation by resulting state.
func (m *Metrics) IncrementApprovalChange(state string) {
	if m != nil {
		m.ApprovalChanges.WithLabelValues(state).Inc()
	}
}
