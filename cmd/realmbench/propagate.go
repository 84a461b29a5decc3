package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/realm/pkg/promstats"
	"github.com/delaneyj/realm/reactive"
	"github.com/delaneyj/realm/tick"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

var (
	ww = []int{1, 10, 100, 1_000}
	hh = []int{1, 10, 100, 1_000}
)

func propagateCommand() *cli.Command {
	return &cli.Command{
		Name:  "propagate",
		Usage: "Time one source write through w chains of h derivations and an effect",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per graph size",
				Value: 100,
			},
			&cli.BoolFlag{
				Name:  loopKey,
				Usage: "Drain on a tick.Loop goroutine instead of a manual scheduler",
			},
			&cli.BoolFlag{
				Name:  statsKey,
				Usage: "Print queue metrics collected while benchmarking",
			},
		},
		Action: withProfile(propagate),
	}
}

func addOne(old int) int {
	return old + 1
}

// driver runs a write and returns once the graph has settled.
type driver interface {
	scheduler() tick.Scheduler
	do(fn func(), settled func() <-chan struct{})
	close()
}

type manualDriver struct {
	sched *tick.Manual
}

func (d *manualDriver) scheduler() tick.Scheduler { return d.sched }
func (d *manualDriver) close()                    {}

func (d *manualDriver) do(fn func(), _ func() <-chan struct{}) {
	fn()
	d.sched.Tick()
}

type loopDriver struct {
	loop *tick.Loop
	errc chan error
}

func newLoopDriver(ctx context.Context) (*loopDriver, error) {
	loop, err := tick.NewLoop(tick.WithPanicHandler(func(pe *tick.PanicError) {
		log.Panic(pe)
	}))
	if err != nil {
		return nil, err
	}
	d := &loopDriver{
		loop: loop,
		errc: make(chan error, 1),
	}
	go func() { d.errc <- d.loop.Run(ctx) }()
	return d, nil
}

func (d *loopDriver) scheduler() tick.Scheduler { return d.loop }

func (d *loopDriver) do(fn func(), settled func() <-chan struct{}) {
	syncc := make(chan (<-chan struct{}), 1)
	if err := d.loop.Submit(func() {
		fn()
		syncc <- settled()
	}); err != nil {
		log.Panic(err)
	}
	<-<-syncc
}

func (d *loopDriver) close() {
	if err := d.loop.Shutdown(context.Background()); err != nil {
		log.Printf("loop shutdown: %v", err)
	}
	if err := <-d.errc; err != nil {
		log.Printf("loop: %v", err)
	}
}

func propagate(ctx context.Context, cmd *cli.Command) error {
	iters := int(cmd.Uint(itersKey))
	useLoop := cmd.Bool(loopKey)

	log.Printf("warming up")

	reg := prometheus.NewRegistry()
	stats := promstats.New(promstats.WithRegistry(reg))

	tbl := table.NewWriter()
	title := "realm propagate (manual)"
	if useLoop {
		title = "realm propagate (loop)"
	}
	tbl.SetTitle(title)
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max"})

	for _, w := range ww {
		for _, h := range hh {
			var d driver
			if useLoop {
				ld, err := newLoopDriver(ctx)
				if err != nil {
					return err
				}
				d = ld
			} else {
				d = &manualDriver{sched: tick.NewManual()}
			}

			rt := reactive.NewRuntime(runtimeOptions(cmd,
				reactive.WithScheduler(d.scheduler()),
				reactive.WithHooks(stats),
			)...)
			root := rt.Root()

			var src *reactive.Value[int]
			d.do(func() {
				src = reactive.NewValue(root, 1)
				for i := 0; i < w; i++ {
					var last reactive.Source = src
					for j := 0; j < h; j++ {
						last = reactive.NewExpr(root, addOne, 0).On(last)
					}
					reactive.NewEffect(root, func() {}).On(last)
				}
			}, root.Sync)

			tach := tachymeter.New(&tachymeter.Config{Size: iters})
			for i := 0; i < iters; i++ {
				start := time.Now()
				d.do(func() { src.Apply(addOne) }, root.Sync)
				tach.AddTime(time.Since(start))
			}

			d.do(root.Destroy, root.Sync)
			d.close()

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
				},
			})
		}
	}
	tbl.Render()

	if cmd.Bool(statsKey) {
		return renderStats(reg)
	}
	return nil
}

func renderStats(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetTitle("queue metrics")
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"metric", "labels", "value"})
	for _, f := range families {
		for _, m := range f.GetMetric() {
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += lp.GetName() + "=" + lp.GetValue() + " "
			}
			var value float64
			switch {
			case m.Counter != nil:
				value = m.GetCounter().GetValue()
			case m.Gauge != nil:
				value = m.GetGauge().GetValue()
			case m.Histogram != nil:
				value = float64(m.GetHistogram().GetSampleCount())
			}
			tbl.AppendRow(table.Row{f.GetName(), labels, value})
		}
	}
	tbl.Render()
	return nil
}
