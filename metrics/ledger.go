package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/luca-patrignani/supply-chain/ledger"
)

const namespace = "supplychain"

// Chain is the part of the ledger that is instrumented.
type Chain interface {
	Append(ctx context.Context, payload ledger.Payload) (ledger.Block, error)
	IsChainValid() bool
	Len() int
}

// Ledger wraps a Chain and records appends, verification outcomes and the
// chain length.
type Ledger struct {
	chain         Chain
	appends       *prometheus.CounterVec
	duration      prometheus.Histogram
	verifications *prometheus.CounterVec
	blocks        prometheus.Gauge
}

// NewLedger instruments chain and registers its collectors with reg.
func NewLedger(chain Chain, reg prometheus.Registerer) (*Ledger, error) {
	l := Ledger{
		chain: chain,
		appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "appends_total",
			Help:      "number of append attempts by payload kind and result",
		}, []string{"kind", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "append_duration_seconds",
			Help:      "time spent hashing and linking a block",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "verifications_total",
			Help:      "number of integrity checks by outcome",
		}, []string{"result"}),
		blocks: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "blocks",
			Help:      "number of blocks in the chain, genesis included",
		}),
	}

	for _, c := range []prometheus.Collector{l.appends, l.duration, l.verifications, l.blocks} {
		err := reg.Register(c)
		if err != nil {
			return nil, fmt.Errorf("could not register ledger metrics: %w", err)
		}
	}
	l.blocks.Set(float64(chain.Len()))

	return &l, nil
}

// Append forwards to the wrapped chain.
func (l *Ledger) Append(ctx context.Context, payload ledger.Payload) (ledger.Block, error) {
	kind := "unknown"
	if payload != nil {
		kind = string(payload.Kind())
	}

	timer := prometheus.NewTimer(l.duration)
	block, err := l.chain.Append(ctx, payload)
	timer.ObserveDuration()

	result := "success"
	if err != nil {
		result = "failure"
	}
	l.appends.WithLabelValues(kind, result).Inc()
	l.blocks.Set(float64(l.chain.Len()))

	return block, err
}

// IsChainValid forwards to the wrapped chain.
func (l *Ledger) IsChainValid() bool {
	valid := l.chain.IsChainValid()
	result := "valid"
	if !valid {
		result = "invalid"
	}
	l.verifications.WithLabelValues(result).Inc()
	return valid
}

// Len forwards to the wrapped chain.
func (l *Ledger) Len() int {
	return l.chain.Len()
}
