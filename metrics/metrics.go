// Package metrics exports bridge submission progress to Prometheus.
package metrics

import (
	"errors"
	"time"

	xclient "github.com/openweb3-io/xcbridge/client"
	"github.com/openweb3-io/xcbridge/confirm"
	xc "github.com/openweb3-io/xcbridge/types"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const namespace = "xcbridge"

// Collector counts what the confirmation tracker does. Register one per
// process; every tracker may share it.
type Collector struct {
	attempts   *prometheus.CounterVec
	dispatched *prometheus.CounterVec
	statuses   *prometheus.CounterVec
	retries    *prometheus.CounterVec
	outcomes   *prometheus.CounterVec
	tries      *prometheus.HistogramVec
	lastDone   *prometheus.GaugeVec
}

var _ confirm.Observer = &Collector{}

func NewCollector() *Collector {
	return &Collector{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "attempts_total",
				Help:      "Dispatch attempts started",
			},
			[]string{"chain"},
		),
		dispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "dispatched_total",
				Help:      "Transactions accepted by a node",
			},
			[]string{"chain"},
		),
		statuses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "status_updates_total",
				Help:      "Status updates reported by watched transactions",
			},
			[]string{"chain", "status"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "retries_total",
				Help:      "Resubmissions by classified error kind",
			},
			[]string{"chain", "kind"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "outcomes_total",
				Help:      "Terminal results, by status or error code",
			},
			[]string{"chain", "result"},
		),
		tries: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "attempts_per_outcome",
				Help:      "Dispatch attempts needed to reach a terminal outcome",
				Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100, 200},
			},
			[]string{"chain"},
		),
		lastDone: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "submission",
				Name:      "last_outcome_timestamp_seconds",
				Help:      "Unix time of the last terminal result",
			},
			[]string{"chain"},
		),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.attempts, c.dispatched, c.statuses, c.retries, c.outcomes, c.tries, c.lastDone}
}

// Register adds the collector's metrics to reg. Metrics that are already
// registered are left alone so a reload does not fail.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, collector := range c.collectors() {
		if err := reg.Register(collector); err != nil {
			var alreadyRegErr prometheus.AlreadyRegisteredError
			if errors.As(err, &alreadyRegErr) {
				zap.S().Debugf("metric already registered: %v", alreadyRegErr.ExistingCollector)
				continue
			}
			return err
		}
	}
	return nil
}

func (c *Collector) OnAttempt(chain xc.Blockchain, attempt int) {
	c.attempts.WithLabelValues(string(chain)).Inc()
}

func (c *Collector) OnDispatched(handle *xc.SubmissionHandle) {
	c.dispatched.WithLabelValues(string(handle.Chain)).Inc()
}

func (c *Collector) OnStatus(handle *xc.SubmissionHandle, update *xclient.StatusUpdate) {
	c.statuses.WithLabelValues(string(handle.Chain), string(update.Status)).Inc()
}

func (c *Collector) OnRetry(chain xc.Blockchain, kind confirm.ErrorKind, err error) {
	c.retries.WithLabelValues(string(chain), string(kind)).Inc()
}

func (c *Collector) OnOutcome(chain xc.Blockchain, outcome *xc.SubmissionOutcome, err error) {
	label := string(chain)
	c.outcomes.WithLabelValues(label, result(outcome, err)).Inc()
	if outcome != nil {
		c.tries.WithLabelValues(label).Observe(float64(outcome.Attempts))
	}
	c.lastDone.WithLabelValues(label).Set(float64(time.Now().Unix()))
}

func result(outcome *xc.SubmissionOutcome, err error) string {
	if err != nil {
		if code := xc.CodeOf(err); code != "" {
			return string(code)
		}
		return "error"
	}
	if outcome == nil {
		return "unknown"
	}
	if outcome.Failure != nil {
		return string(xc.TxStatusFailedOnChain)
	}
	return string(outcome.Status)
}
