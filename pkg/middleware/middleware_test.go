package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRunOrder(t *testing.T) {
	var order []string

	mk := func(name string) Middleware {
		return Func(func(ev *Event, next func() error) error {
			order = append(order, name+"-before")
			err := next()
			order = append(order, name+"-after")
			return err
		})
	}

	ev := &Event{Kind: "navigate", Path: "/a", Ctx: context.Background()}
	err := Run([]Middleware{mk("outer"), mk("inner")}, ev, func() error {
		order = append(order, "final")
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"outer-before", "inner-before", "final", "inner-after", "outer-after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestRunStopsChain(t *testing.T) {
	boom := errors.New("boom")
	stop := Func(func(ev *Event, next func() error) error {
		return boom
	})

	ran := false
	err := Run([]Middleware{stop}, &Event{Kind: "navigate"}, func() error {
		ran = true
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if ran {
		t.Error("final ran despite middleware stopping the chain")
	}
}

func TestRunEmptyChain(t *testing.T) {
	ran := false
	if err := Run(nil, &Event{}, func() error { ran = true; return nil }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ran {
		t.Error("final did not run")
	}
}

func TestPrometheusCounts(t *testing.T) {
	// A private registry keeps this test independent of the global
	// default registerer.
	reg := prometheus.NewRegistry()
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()

	mw := Prometheus(WithRegistry(reg), WithNamespace("testns"))

	ev := &Event{Kind: "navigate", Path: "/a", SessionID: "s1", Ctx: context.Background()}
	if err := Run([]Middleware{mw}, ev, func() error { return nil }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	boom := errors.New("boom")
	_ = Run([]Middleware{mw}, ev, func() error { return boom })

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	totals := map[string]float64{}
	for _, fam := range families {
		if fam.GetName() != "testns_navigations_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" {
					totals[l.GetValue()] = m.GetCounter().GetValue()
				}
			}
		}
	}

	if totals["success"] != 1 {
		t.Errorf("success count = %v, want 1", totals["success"])
	}
	if totals["error"] != 1 {
		t.Errorf("error count = %v, want 1", totals["error"])
	}
}

func TestOpenTelemetryPassthrough(t *testing.T) {
	// The global tracer provider defaults to a no-op; the middleware
	// must still run the chain and propagate results.
	mw := OpenTelemetry(WithTracerName("test"))

	ev := &Event{Kind: "navigate", Path: "/a", SessionID: "s1", Ctx: context.Background()}
	if err := Run([]Middleware{mw}, ev, func() error { return nil }); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ev.Ctx == nil {
		t.Error("span context not injected")
	}

	boom := errors.New("boom")
	if err := Run([]Middleware{mw}, ev, func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}

	// Filtered events skip tracing but still run.
	skipped := OpenTelemetry(WithEventFilter(func(*Event) bool { return false }))
	ran := false
	if err := Run([]Middleware{skipped}, ev, func() error { ran = true; return nil }); err != nil || !ran {
		t.Errorf("filtered event did not run: %v", err)
	}
}

func TestSessionGauges(t *testing.T) {
	// Nil-safe when Prometheus() was never called.
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()

	RecordSessionStart()
	RecordSessionEnd()
	RecordWebSocketError("read")
}
