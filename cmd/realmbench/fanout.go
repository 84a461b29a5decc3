package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/realm/reactive"
	"github.com/delaneyj/realm/tick"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

type fanoutConfig struct {
	name        string // unique
	width       int    // nodes per layer
	totalLayers int    // layers including the sources
	nSources    int    // upstream edges per node
	iterations  int64
}

var fanoutConfigs = []fanoutConfig{
	{name: "simple component", width: 10, totalLayers: 5, nSources: 2, iterations: 60_000},
	{name: "large web app", width: 1000, totalLayers: 12, nSources: 4, iterations: 700},
	{name: "wide dense", width: 1000, totalLayers: 5, nSources: 25, iterations: 300},
	{name: "deep", width: 5, totalLayers: 500, nSources: 3, iterations: 500},
}

func fanoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "fanout",
		Usage: "Layered graphs where every node sums several upstream nodes",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Runs per config, the fastest is reported",
				Value: 5,
			},
			&cli.UintFlag{
				Name:  iterationsKey,
				Usage: "Override the writes per config",
			},
		},
		Action: withProfile(fanout),
	}
}

type fanoutGraph struct {
	sched   *tick.Manual
	root    *reactive.Scope
	sources []*reactive.Value[int]
	leaves  []*reactive.Expr[int]
}

func makeFanoutGraph(cmd *cli.Command, cfg fanoutConfig, counter *int64) *fanoutGraph {
	sched := tick.NewManual()
	rt := reactive.NewRuntime(runtimeOptions(cmd, reactive.WithScheduler(sched))...)
	g := &fanoutGraph{
		sched:   sched,
		root:    rt.Root(),
		sources: make([]*reactive.Value[int], cfg.width),
	}

	prev := make([]func() int, cfg.width)
	prevSources := make([]reactive.Source, cfg.width)
	for i := range g.sources {
		src := reactive.NewValue(g.root, i)
		g.sources[i] = src
		prev[i] = src.Get
		prevSources[i] = src
	}

	for l := 1; l < cfg.totalLayers; l++ {
		row := make([]*reactive.Expr[int], cfg.width)
		rowGets := make([]func() int, cfg.width)
		rowSources := make([]reactive.Source, cfg.width)
		for myDex := range row {
			gets := make([]func() int, 0, cfg.nSources)
			deps := make([]reactive.Source, 0, cfg.nSources)
			for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
				x := (myDex + sourceDex) % cfg.width
				gets = append(gets, prev[x])
				deps = append(deps, prevSources[x])
			}
			node := reactive.NewExpr(g.root, func(int) int {
				*counter++
				sum := 0
				for _, get := range gets {
					sum += get()
				}
				return sum
			}, 0).On(deps...)
			row[myDex] = node
			rowGets[myDex] = node.Get
			rowSources[myDex] = node
		}
		g.leaves = row
		prev, prevSources = rowGets, rowSources
	}
	return g
}

// run writes one source per iteration, settles, and returns the leaf sum.
func (g *fanoutGraph) run(iterations int64) int {
	for i := 0; i < int(iterations); i++ {
		sourceDex := i % len(g.sources)
		g.sources[sourceDex].Set(i + sourceDex)
		g.sched.Tick()
	}
	sum := 0
	for _, leaf := range g.leaves {
		sum += leaf.Get()
	}
	return sum
}

func fanout(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting fanout benchmark, please wait...")
	defer log.Print("Finished fanout benchmark")

	repeats := int(cmd.Uint(repeatsKey))
	if repeats < 1 {
		repeats = 1
	}

	tbl := tablewriter.NewWriter(os.Stdout)
	tbl.SetHeader([]string{"size", "nSources", "nTimes", "test", "time", "recomputes", "updateRate", "sum"})

	for _, cfg := range fanoutConfigs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if n := cmd.Uint(iterationsKey); n > 0 {
			cfg.iterations = int64(n)
		}
		log.Printf("Running '%s' config", cfg.name)

		best := struct {
			duration time.Duration
			count    int64
			sum      int
		}{duration: time.Hour}

		for i := 0; i < repeats; i++ {
			log.Printf("Running '%s' config, iteration %d/%d", cfg.name, i+1, repeats)
			counter := new(int64)
			g := makeFanoutGraph(cmd, cfg, counter)
			*counter = 0

			start := time.Now()
			sum := g.run(cfg.iterations)
			duration := time.Since(start)
			g.root.Destroy()

			if duration < best.duration {
				best.duration = duration
				best.count = *counter
				best.sum = sum
			}
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))
		tbl.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best.duration),
			humanize.Comma(best.count),
			humanize.Comma(int64(updateRate)) + "/ms",
			humanize.Comma(int64(best.sum)),
		})
	}
	tbl.Render()
	return nil
}
