package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for project workflow events.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	transitions      *prometheus.CounterVec
	rejected         *prometheus.CounterVec
	uploads          *prometheus.CounterVec
	messages         prometheus.Counter
	transcriptions   *prometheus.CounterVec
	objectCleanupErr prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutroom_project_transitions_total",
				Help: "Project status transitions applied",
			},
			[]string{"from", "to"},
		),
		rejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutroom_project_transitions_rejected_total",
				Help: "Project triggers refused by the status rules",
			},
			[]string{"trigger"},
		),
		uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutroom_version_uploads_total",
				Help: "Project versions uploaded",
			},
			[]string{"type"},
		),
		messages: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cutroom_messages_sent_total",
				Help: "Chat messages sent",
			},
		),
		transcriptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cutroom_brief_transcriptions_total",
				Help: "Voice brief transcription attempts by outcome",
			},
			[]string{"outcome"},
		),
		objectCleanupErr: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cutroom_object_cleanup_failures_total",
				Help: "Object deletions that failed after the row was removed",
			},
		),
	}
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) TransitionRejected(trigger string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(trigger).Inc()
}

func (m *Metrics) Upload(versionType string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(versionType).Inc()
}

func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.messages.Inc()
}

// Transcription records a transcription outcome: "ok", "error", or "stale" for a replaced brief.
func (m *Metrics) Transcription(outcome string) {
	if m == nil {
		return
	}
	m.transcriptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObjectCleanupFailed() {
	if m == nil {
		return
	}
	m.objectCleanupErr.Inc()
}
