package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus метрики mail-подсистемы.
//
// Экспортируются на /metrics endpoint каждого сервиса.
var (
	// DigestRunsTriggered — количество успешно поставленных в очередь daily runs.
	DigestRunsTriggered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openstock_digest_runs_triggered_total",
		Help: "Daily digest jobs enqueued by the scheduler",
	})

	// DigestRunsSkipped — runs, пропущенные из-за локов или существующего job.
	DigestRunsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openstock_digest_runs_skipped_total",
		Help: "Digest trigger attempts skipped, by reason",
	}, []string{"reason"})

	// CatchUpRetriggers — runs, восстановленные catch-up проверкой.
	CatchUpRetriggers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "openstock_digest_catchup_retriggers_total",
		Help: "Digest runs re-triggered by the catch-up check",
	})

	// EmailsSent — успешно отправленные письма по типу (welcome, news).
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openstock_emails_sent_total",
		Help: "Emails sent successfully, by kind",
	}, []string{"kind"})

	// EmailsFailed — неудачные отправки по типу.
	EmailsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "openstock_emails_failed_total",
		Help: "Email send failures, by kind",
	}, []string{"kind"})
)
