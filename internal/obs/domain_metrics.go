package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ProposalGeneratedTotal counts proposal builds by kind, output format and outcome.
	ProposalGeneratedTotal *prometheus.CounterVec
	// ProposalBuildDuration records end-to-end build latency in milliseconds.
	ProposalBuildDuration *prometheus.HistogramVec
	// ProposalLinesSkippedTotal counts requested product ids dropped as unknown.
	ProposalLinesSkippedTotal prometheus.Counter
	// LoginAttemptsTotal counts session login attempts by outcome.
	LoginAttemptsTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ProposalGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_generated_total",
			Help:      "Count of proposal generation outcomes.",
		}, []string{"kind", "format", "result"})
		ProposalBuildDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "proposal_build_duration_ms",
			Help:      "Latency for assembling and rendering a proposal in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"kind", "format"})
		ProposalLinesSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_lines_skipped_total",
			Help:      "Number of requested product ids skipped because they are not in the catalog.",
		})
		LoginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Count of session login attempts by outcome.",
		}, []string{"result"})

		mustRegisterCollector(reg, ProposalGeneratedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProposalGeneratedTotal = v
			}
		})
		mustRegisterCollector(reg, ProposalBuildDuration, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				ProposalBuildDuration = v
			}
		})
		mustRegisterCollector(reg, ProposalLinesSkippedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ProposalLinesSkippedTotal = v
			}
		})
		mustRegisterCollector(reg, LoginAttemptsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				LoginAttemptsTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
