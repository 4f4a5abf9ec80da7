package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/supply-chain/ledger"
)

// TestServerExposesMetrics verifies that the ledger metrics are served on /metrics.
func TestServerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	bc, err := ledger.NewBlockchain(context.Background())
	require.NoError(t, err)
	l, err := NewLedger(bc, reg)
	require.NoError(t, err)
	_, err = l.Append(context.Background(), ledger.Event{Type: "test"})
	require.NoError(t, err)

	s := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), "127.0.0.1:0", reg)

	rec := httptest.NewRecorder()
	s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `supplychain_ledger_appends_total{kind="event",result="success"} 1`)
	assert.Contains(t, body, "supplychain_ledger_blocks 2")
}

// TestServerStop verifies that a started server returns cleanly after Stop.
func TestServerStop(t *testing.T) {
	s := NewServer(slog.New(slog.NewTextHandler(io.Discard, nil)), "127.0.0.1:0", prometheus.NewRegistry())

	done := make(chan error, 1)
	go func() {
		done <- s.Start()
	}()

	require.Eventually(t, func() bool {
		return s.Stop(context.Background()) == nil
	}, time.Second, 10*time.Millisecond)
	assert.NoError(t, <-done)
}

// TestServerListenAddressInUse verifies that a busy address is reported by
// Listen and by Start without serving.
func TestServerListenAddressInUse(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	first := NewServer(log, "127.0.0.1:0", prometheus.NewRegistry())
	require.NoError(t, first.Listen())
	t.Cleanup(func() {
		_ = first.listener.Close()
	})
	address := first.listener.Addr().String()

	second := NewServer(log, address, prometheus.NewRegistry())
	assert.Error(t, second.Listen())

	third := NewServer(log, address, prometheus.NewRegistry())
	assert.Error(t, third.Start())
}
