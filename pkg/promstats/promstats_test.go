package promstats

import (
	"testing"

	"github.com/delaneyj/realm/reactive"
	"github.com/delaneyj/realm/tick"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.GetCounter().GetValue()
	case out.Gauge != nil:
		return out.GetGauge().GetValue()
	case out.Histogram != nil:
		return float64(out.GetHistogram().GetSampleCount())
	}
	t.Fatalf("unsupported metric %T", m)
	return 0
}

func TestCollectorTracksRuntime(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(WithRegistry(reg))
	sched := tick.NewManual()
	rt := reactive.NewRuntime(reactive.WithScheduler(sched), reactive.WithHooks(c))

	child := rt.Root().CreateChild()
	assert.Equal(t, 2.0, value(t, c.scopesCreated))
	assert.Equal(t, 2.0, value(t, c.scopesLive))

	//  v -> a -> b -> effect
	v := reactive.NewValue(child, 1)
	a := reactive.NewExpr(child, func(int) int { return v.Get() + 1 }, 2).On(v)
	b := reactive.NewExpr(child, func(int) int { return a.Get() + 1 }, 3).On(a)
	reactive.NewEffect(child, func() {}).On(b)
	v.Set(5)
	sched.Tick()

	// the cascade schedules a second, empty drain that is not counted
	assert.Equal(t, 1.0, value(t, c.drains.WithLabelValues("update")))
	assert.Equal(t, 1.0, value(t, c.drains.WithLabelValues("effect")))
	assert.Equal(t, 2.0, value(t, c.tasks.WithLabelValues("update")))
	assert.Equal(t, 1.0, value(t, c.tasks.WithLabelValues("effect")))

	sched.Tick()
	assert.Equal(t, 1.0, value(t, c.drains.WithLabelValues("update")))

	ev := reactive.NewEvent[string, int](child, "saved")
	ev.Subscribe(reactive.NewHandler(func(reactive.Message[string, int]) {}))
	ev.Subscribe(reactive.NewHandler(func(reactive.Message[string, int]) {}))
	ev.Publish(1)
	assert.Equal(t, 1.0, value(t, c.published))
	assert.Equal(t, 2.0, value(t, c.deliveries))

	child.Destroy()
	assert.Equal(t, 1.0, value(t, c.scopesDestroyed))
	assert.Equal(t, 1.0, value(t, c.scopesLive))
}

func TestCollectorOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(
		WithRegistry(reg),
		WithNamespace("maps"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"app": "organizer"}),
		WithPassBuckets([]float64{1, 2}),
	)
	c.QueueDrained(reactive.QueueUpdate, 3, 4)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["maps_ui_queue_tasks_total"])
	assert.True(t, names["maps_ui_queue_drain_passes"])

	assert.Equal(t, 1.0, value(t, c.passes.WithLabelValues("update").(prometheus.Metric)))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(WithRegistry(reg))
	assert.Panics(t, func() { New(WithRegistry(reg)) })
}
