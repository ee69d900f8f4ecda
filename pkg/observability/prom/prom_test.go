package prom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/slotframe/pkg/observability"
)

var (
	_ observability.ComposeHooks = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
)

func TestMetrics(t *testing.T) {
	ctx := context.Background()
	m := New(prometheus.NewRegistry())

	m.OnComposeComplete(ctx, "home", 4, 2, time.Millisecond, nil)
	m.OnComposeComplete(ctx, "broken", 0, 0, time.Millisecond, errors.New("boom"))
	if got := testutil.ToFloat64(m.ComposeTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("compose ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ComposeIssues); got != 2 {
		t.Errorf("compose issues = %v, want 2", got)
	}

	m.OnResolve(ctx, "fifty-fifty", 2, nil)
	m.OnResolve(ctx, "seventy-thirty", 0, errors.New("unknown"))
	if got := testutil.ToFloat64(m.Resolves.WithLabelValues("fifty-fifty", "ok")); got != 1 {
		t.Errorf("resolves fifty-fifty = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.Resolves.WithLabelValues("unknown", "error")); got != 1 {
		t.Errorf("resolves unknown = %v, want 1", got)
	}

	m.OnCacheHit(ctx, "artifact")
	m.OnCacheMiss(ctx, "artifact")
	m.OnCacheSet(ctx, "artifact", 512)
	if got := testutil.ToFloat64(m.CacheBytes.WithLabelValues("artifact")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}

	m.OnRequest(ctx, "GET", "/healthz")
	if got := testutil.ToFloat64(m.InFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	m.OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)
	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/healthz", "200")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}
}

func TestNewRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	New(reg)
}
