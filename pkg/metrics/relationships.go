package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// RelationshipMetrics counts graph operations by kind and outcome.
type RelationshipMetrics struct {
	ops *prometheus.CounterVec
}

// NewRelationshipMetrics registers the relationship counters on the provided registerer.
func NewRelationshipMetrics(reg prometheus.Registerer) *RelationshipMetrics {
	if reg == nil {
		return &RelationshipMetrics{}
	}
	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relationship_ops_total",
		Help: "Relationship graph operations by operation and outcome.",
	}, []string{"op", "outcome"})
	reg.MustRegister(ops)
	return &RelationshipMetrics{ops: ops}
}

// IncSuccess increments the success counter for the named operation.
func (m *RelationshipMetrics) IncSuccess(op string) {
	m.inc(op, "success")
}

// IncFailure increments the failure counter for the named operation.
func (m *RelationshipMetrics) IncFailure(op string) {
	m.inc(op, "failure")
}

func (m *RelationshipMetrics) inc(op, outcome string) {
	if m == nil || m.ops == nil {
		return
	}
	m.ops.WithLabelValues(normalizeLabel(op), outcome).Inc()
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return strings.ReplaceAll(value, " ", "_")
}
