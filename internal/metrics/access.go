// Package metrics holds the domain Prometheus collectors: access decisions,
// bytes served to authorized readers and finalized ledger transactions.
// HTTP request metrics live with the HTTP middleware.
package metrics

import (
	"io"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"recordgate/internal/ledger"
)

// Decision outcomes recorded per fetch.
const (
	OutcomeOwner    = "owner"
	OutcomeGranted  = "granted"
	OutcomeDenied   = "denied"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Access groups the domain collectors. A nil *Access is valid and records
// nothing, so components can run without a registry.
type Access struct {
	decisions    *prometheus.CounterVec
	bytesServed  prometheus.Counter
	transactions *prometheus.CounterVec
}

// NewAccess creates the collectors and registers them on reg.
func NewAccess(reg prometheus.Registerer) (*Access, error) {
	a := &Access{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recordgate_access_decisions_total",
				Help: "Fetch requests by access decision outcome.",
			},
			[]string{"outcome"},
		),
		bytesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recordgate_bytes_served_total",
			Help: "Record bytes streamed to authorized readers.",
		}),
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "recordgate_ledger_transactions_total",
				Help: "Finalized ledger transactions by kind and status.",
			},
			[]string{"kind", "status"},
		),
	}

	for _, c := range []prometheus.Collector{a.decisions, a.bytesServed, a.transactions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// ObserveDecision counts one fetch outcome.
func (a *Access) ObserveDecision(outcome string) {
	if a == nil {
		return
	}
	a.decisions.WithLabelValues(outcome).Inc()
}

// ObserveReceipt counts a finalized transaction. Pending receipts are ignored.
func (a *Access) ObserveReceipt(r ledger.Receipt) {
	if a == nil || !r.Status.Final() {
		return
	}
	a.transactions.WithLabelValues(string(r.Tx.Kind), string(r.Status)).Inc()
}

// CountBytes wraps body so that the bytes actually read are added to the
// bytes-served counter when it is closed.
func (a *Access) CountBytes(body io.ReadCloser) io.ReadCloser {
	if a == nil || body == nil {
		return body
	}
	return &countingBody{ReadCloser: body, counter: a.bytesServed}
}

type countingBody struct {
	io.ReadCloser
	counter prometheus.Counter
	n       atomic.Int64
	closed  atomic.Bool
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n.Add(int64(n))
	return n, err
}

func (b *countingBody) Close() error {
	if b.closed.CompareAndSwap(false, true) {
		b.counter.Add(float64(b.n.Load()))
	}
	return b.ReadCloser.Close()
}
