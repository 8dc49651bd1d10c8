// Package metrics exposes Prometheus collectors for dashboard activity.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors registered for one process.
type Metrics struct {
	ProjectsCreated  prometheus.Counter
	ProjectsDeleted  prometheus.Counter
	FieldEdits       *prometheus.CounterVec
	StatusChanges    *prometheus.CounterVec
	LedgerSyncs      *prometheus.CounterVec
	ToolCallDuration *prometheus.HistogramVec
}

// New registers the collectors on reg. A nil reg uses a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		ProjectsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "jobtrack_projects_created_total",
			Help: "Total number of projects created",
		}),
		ProjectsDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "jobtrack_projects_deleted_total",
			Help: "Total number of projects deleted",
		}),
		FieldEdits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobtrack_field_edits_total",
			Help: "Total number of project field edits",
		}, []string{"field"}),
		StatusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobtrack_status_transitions_total",
			Help: "Total number of project status transitions",
		}, []string{"from", "to"}),
		LedgerSyncs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "jobtrack_ledger_syncs_total",
			Help: "Total number of sales ledger writes",
		}, []string{"op"}), // op: created, updated
		ToolCallDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "jobtrack_tool_call_duration_seconds",
			Help:    "MCP tool call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"tool", "status"}),
	}
}

// ProjectCreated counts a new project.
func (m *Metrics) ProjectCreated() { m.ProjectsCreated.Inc() }

// ProjectDeleted counts a removed project.
func (m *Metrics) ProjectDeleted() { m.ProjectsDeleted.Inc() }

// FieldEdited counts an edit of one editable field.
func (m *Metrics) FieldEdited(field string) { m.FieldEdits.WithLabelValues(field).Inc() }

// StatusChanged counts a status transition.
func (m *Metrics) StatusChanged(from, to string) { m.StatusChanges.WithLabelValues(from, to).Inc() }

// LedgerSynced counts a sale write.
func (m *Metrics) LedgerSynced(created bool) {
	op := "updated"
	if created {
		op = "created"
	}
	m.LedgerSyncs.WithLabelValues(op).Inc()
}

// RecordToolCall observes the duration of an MCP tool call.
func (m *Metrics) RecordToolCall(tool, status string, d time.Duration) {
	m.ToolCallDuration.WithLabelValues(tool, status).Observe(d.Seconds())
}
