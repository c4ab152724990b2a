package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EvaluationMetrics records promotion evaluation outcomes for quote requests.
type EvaluationMetrics struct {
	evaluations   *prometheus.CounterVec
	quoteDuration prometheus.Histogram
	discountTotal prometheus.Counter
}

// NewEvaluationMetrics registers the evaluation metrics on the provided registerer.
func NewEvaluationMetrics(reg prometheus.Registerer) *EvaluationMetrics {
	if reg == nil {
		return &EvaluationMetrics{}
	}
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "posify_promotion_evaluations_total",
		Help: "Promotion evaluations by promotion type and outcome.",
	}, []string{"type", "outcome"})
	quoteDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "posify_quote_duration_seconds",
		Help:    "Duration of quote requests in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	discountTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "posify_discount_granted_total",
		Help: "Sum of discount amounts granted across quotes.",
	})
	reg.MustRegister(evaluations, quoteDuration, discountTotal)
	return &EvaluationMetrics{
		evaluations:   evaluations,
		quoteDuration: quoteDuration,
		discountTotal: discountTotal,
	}
}

// IncEvaluation counts one evaluation for the given promotion type.
func (e *EvaluationMetrics) IncEvaluation(promotionType string, applicable bool) {
	if e == nil || e.evaluations == nil {
		return
	}
	outcome := "skipped"
	if applicable {
		outcome = "applied"
	}
	e.evaluations.WithLabelValues(normalizeLabel(promotionType), outcome).Inc()
}

// ObserveQuote records the duration of one quote request.
func (e *EvaluationMetrics) ObserveQuote(duration time.Duration) {
	if e == nil || e.quoteDuration == nil {
		return
	}
	e.quoteDuration.Observe(duration.Seconds())
}

// AddDiscount accumulates granted discount amounts.
func (e *EvaluationMetrics) AddDiscount(amount int64) {
	if e == nil || e.discountTotal == nil {
		return
	}
	if amount <= 0 {
		return
	}
	e.discountTotal.Add(float64(amount))
}
