package metrics

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/pingplot/pkg/core"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCollectorObserve(t *testing.T) {
	c := NewCollector()
	now := time.Now()

	c.Observe(core.Sample{Target: "a", Value: core.Some(12), Timestamp: now})
	c.Observe(core.Sample{Target: "a", Value: core.Missing, Timestamp: now})
	c.Observe(core.Sample{Target: "a", Value: core.Some(30), Timestamp: now})
	c.Observe(core.Sample{Target: "b", Value: core.Missing, Timestamp: now})

	assert.Equal(t, 3.0, testutil.ToFloat64(c.sent.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lost.WithLabelValues("a")))
	assert.Equal(t, 30.0, testutil.ToFloat64(c.last.WithLabelValues("a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lost.WithLabelValues("b")))

	// sent{a,b} + lost{a,b} + latency{a} + last{a}
	assert.Equal(t, 6, testutil.CollectAndCount(c))

	snap := c.Snapshot()
	assert.Equal(t, Totals{Sent: 3, Lost: 1}, snap["a"])
	assert.Equal(t, Totals{Sent: 1, Lost: 1}, snap["b"])
	assert.InDelta(t, 33.33, snap["a"].LossRate(), 0.01)
	assert.Zero(t, Totals{}.LossRate())
}

func TestCollectorExposition(t *testing.T) {
	c := NewCollector()
	c.Observe(core.Sample{Target: "example.com", Value: core.Missing})

	expected := `
# HELP pingplot_probe_lost_total The total number of probes without a reply.
# TYPE pingplot_probe_lost_total counter
pingplot_probe_lost_total{target="example.com"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected), "pingplot_probe_lost_total")
	require.NoError(t, err)
}

func TestServer(t *testing.T) {
	c := NewCollector()
	c.Observe(core.Sample{Target: "127.0.0.1", Value: core.Some(1.5)})

	r, err := NewRegistry(c)
	require.NoError(t, err)

	s, err := Listen("127.0.0.1:0", r, discardLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	resp, err := http.Get("http://" + s.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `pingplot_probe_sent_total{target="127.0.0.1"} 1`)
	assert.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
