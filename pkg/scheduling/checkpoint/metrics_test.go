package checkpoint

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/wassim-k/renderflow/pkg/metrics"
)

func TestMetricsScheduler_RecordsLifecycle(t *testing.T) {
	provider := NewManualProvider()
	reg := prometheus.NewRegistry()
	s := NewWithConfigAndMetrics(Config{Provider: provider}, "test", metrics.Config{
		Enabled:  true,
		Registry: reg,
	})

	ms, ok := s.(*MetricsScheduler)
	if !ok {
		t.Fatalf("expected *MetricsScheduler, got %T", s)
	}
	registry := ms.registry

	s.Schedule(func(_ any) error { return nil }, 0, nil)
	s.Schedule(func(_ any) error { return errors.New("boom") }, 0, nil)

	if got := promtestutil.ToFloat64(registry.TasksScheduled.WithLabelValues("test")); got != 2 {
		t.Fatalf("TasksScheduled = %v, want 2", got)
	}

	if err := provider.Fire(); err == nil {
		t.Fatal("expected error from failed work")
	}

	if got := promtestutil.ToFloat64(registry.TasksFired.WithLabelValues("test")); got != 2 {
		t.Fatalf("TasksFired = %v, want 2", got)
	}
	if got := promtestutil.ToFloat64(registry.TasksFailed.WithLabelValues("test")); got != 1 {
		t.Fatalf("TasksFailed = %v, want 1", got)
	}
}

func TestMetricsScheduler_RecordsCancellation(t *testing.T) {
	provider := NewManualProvider()
	reg := prometheus.NewRegistry()
	s := NewWithConfigAndMetrics(Config{Provider: provider}, "test", metrics.Config{
		Enabled:  true,
		Registry: reg,
	})
	registry := s.(*MetricsScheduler).registry

	h := s.Schedule(func(_ any) error { return nil }, 0, nil)
	h.Cancel()
	h.Cancel() // second cancel is a no-op and must not double-count

	if got := promtestutil.ToFloat64(registry.TasksCancelled.WithLabelValues("test")); got != 1 {
		t.Fatalf("TasksCancelled = %v, want 1", got)
	}

	// Cancelling an already-fired task does not count either.
	h2 := s.Schedule(func(_ any) error { return nil }, 0, nil)
	if err := provider.Fire(); err != nil {
		t.Fatal(err)
	}
	h2.Cancel()

	if got := promtestutil.ToFloat64(registry.TasksCancelled.WithLabelValues("test")); got != 1 {
		t.Fatalf("TasksCancelled after post-fire cancel = %v, want 1", got)
	}
}

func TestMetricsScheduler_DisabledPassesThrough(t *testing.T) {
	provider := NewManualProvider()
	s := NewWithConfigAndMetrics(Config{Provider: provider}, "test", metrics.Config{Enabled: false})

	if _, ok := s.(*MetricsScheduler); ok {
		t.Fatal("disabled metrics config should return the base scheduler")
	}
}

func TestMetricsScheduler_EnableDisable(t *testing.T) {
	provider := NewManualProvider()
	reg := prometheus.NewRegistry()
	s := NewWithConfigAndMetrics(Config{Provider: provider}, "test", metrics.Config{
		Enabled:  true,
		Registry: reg,
	})
	ms := s.(*MetricsScheduler)

	if !ms.MetricsEnabled() {
		t.Fatal("metrics should start enabled")
	}

	ms.DisableMetrics()
	if ms.MetricsEnabled() {
		t.Fatal("metrics should be disabled")
	}

	ms.Schedule(func(_ any) error { return nil }, 0, nil)
	if got := promtestutil.ToFloat64(ms.registry.TasksScheduled.WithLabelValues("test")); got != 0 {
		t.Fatalf("disabled scheduler recorded TasksScheduled = %v, want 0", got)
	}
}

func TestMetricsProvider_TracksRegistrationsAndErrors(t *testing.T) {
	inner := NewManualProvider()
	reg := prometheus.NewRegistry()
	p := NewMetricsProvider(inner, "manual", metrics.Config{
		Enabled:  true,
		Registry: reg,
	})
	registry := p.(*MetricsProvider).registry

	p.RegisterOnce(func() error { return nil })
	p.RegisterOnce(func() error { return errors.New("work error") })

	if got := promtestutil.ToFloat64(registry.CheckpointRegistrations.WithLabelValues("manual")); got != 2 {
		t.Fatalf("CheckpointRegistrations = %v, want 2", got)
	}
	if got := promtestutil.ToFloat64(registry.CheckpointPending.WithLabelValues("manual")); got != 2 {
		t.Fatalf("CheckpointPending = %v, want 2", got)
	}

	if err := inner.Fire(); err == nil {
		t.Fatal("expected joined error from Fire")
	}

	if got := promtestutil.ToFloat64(registry.CheckpointPending.WithLabelValues("manual")); got != 0 {
		t.Fatalf("CheckpointPending after fire = %v, want 0", got)
	}
	if got := promtestutil.ToFloat64(registry.CheckpointFirings.WithLabelValues("manual")); got != 2 {
		t.Fatalf("CheckpointFirings = %v, want 2", got)
	}
	if got := promtestutil.ToFloat64(registry.CheckpointErrors.WithLabelValues("manual")); got != 1 {
		t.Fatalf("CheckpointErrors = %v, want 1", got)
	}
}

func TestMetricsProvider_DisabledPassesThrough(t *testing.T) {
	inner := NewManualProvider()
	p := NewMetricsProvider(inner, "manual", metrics.Config{Enabled: false})

	if p != Provider(inner) {
		t.Fatal("disabled metrics config should return the wrapped provider")
	}
}

func TestMetricsScheduler_LatencyWithDelay(t *testing.T) {
	provider := NewManualProvider()
	reg := prometheus.NewRegistry()
	s := NewWithConfigAndMetrics(Config{Provider: provider}, "test", metrics.Config{
		Enabled:  true,
		Registry: reg,
	})
	registry := s.(*MetricsScheduler).registry

	fired := make(chan struct{})
	s.Schedule(func(_ any) error {
		close(fired)
		return nil
	}, 5*time.Millisecond, nil)

	deadline := time.After(time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("delayed task never fired")
		default:
		}
		if err := provider.Fire(); err != nil {
			t.Fatal(err)
		}
		select {
		case <-fired:
		case <-time.After(time.Millisecond):
			continue
		}
		break
	}

	if got := promtestutil.ToFloat64(registry.TasksFired.WithLabelValues("test")); got != 1 {
		t.Fatalf("TasksFired = %v, want 1", got)
	}
}
