// Package metrics defines and registers the custom Prometheus metrics of the
// library dashboard. Metrics are registered with the default registry on
// package init through promauto; request metrics come from echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

const namespace = "librarydesk"

// AuthOperationsTotal counts session actions.
// Labels:
//   - op: "sign_in", "sign_up" or "sign_out"
//   - result: "ok" or the failure kind (e.g. "authentication")
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of sign-in, sign-up and sign-out attempts by result.",
	},
	[]string{"op", "result"},
)

// SessionLoadsTotal counts load-current-user calls.
// Label:
//   - outcome: "authenticated" or "anonymous"
var SessionLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_loads_total",
		Help:      "Total number of session loads, by whether an identity was found.",
	},
	[]string{"outcome"},
)

// FailuresTotal counts failures that were handled without reaching the caller.
// Label:
//   - kind: "profile_lookup", "query", ...
var FailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "failures_reported_total",
		Help:      "Total number of swallowed failures reported to the error sink, by kind.",
	},
	[]string{"kind"},
)

// BooksListed observes how many rows each book list fetch returned.
var BooksListed = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "books_listed",
		Help:      "Number of books returned per book list fetch.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
	},
)

// ObserveAuth records the outcome of a session action.
func ObserveAuth(op string, err error) {
	result := "ok"
	if err != nil {
		result = string(domain.KindOf(err))
		if result == "" {
			result = "error"
		}
	}
	AuthOperationsTotal.WithLabelValues(op, result).Inc()
}

// ObserveSession records the outcome of a session load.
func ObserveSession(st domain.SessionState) {
	outcome := "anonymous"
	if st.Authenticated() {
		outcome = "authenticated"
	}
	SessionLoadsTotal.WithLabelValues(outcome).Inc()
}

// FailureSink is a ports.ErrorSink that counts failures by kind.
type FailureSink struct{}

func (FailureSink) Report(f *domain.Failure) {
	FailuresTotal.WithLabelValues(string(f.Kind)).Inc()
}
