package metrics

import (
	"github.com/ipede/negocio-verification-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Verification outcome labels
const (
	OutcomeSuccess   = "success"
	OutcomeNotFound  = "invalid_or_expired"
	OutcomeExhausted = "attempts_exhausted"
	OutcomeIncorrect = "incorrect"
	OutcomeError     = "error"
)

// Verification counts one-time code activity by purpose
type Verification struct {
	issued   *prometheus.CounterVec
	verified *prometheus.CounterVec
	purged   prometheus.Counter
}

// NewVerification registers the counters with reg. Pass a fresh registry in
// tests to avoid duplicate registration.
func NewVerification(reg prometheus.Registerer) *Verification {
	m := &Verification{
		issued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otp_codes_issued_total",
			Help: "One-time codes issued, by purpose.",
		}, []string{"purpose"}),
		verified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "otp_verifications_total",
			Help: "One-time code verification attempts, by purpose and outcome.",
		}, []string{"purpose", "outcome"}),
		purged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "otp_expired_purged_total",
			Help: "Expired verification records deleted by maintenance.",
		}),
	}
	reg.MustRegister(m.issued, m.verified, m.purged)
	return m
}

func (m *Verification) Issued(purpose domain.Purpose) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(purpose.String()).Inc()
}

func (m *Verification) Verified(purpose domain.Purpose, outcome string) {
	if m == nil {
		return
	}
	m.verified.WithLabelValues(purpose.String(), outcome).Inc()
}

func (m *Verification) Purged(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.purged.Add(float64(n))
}
