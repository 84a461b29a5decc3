package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/delaneyj/realm/appstate"
	"github.com/delaneyj/realm/pkg/scopetree"
	"github.com/delaneyj/realm/reactive"
	"github.com/delaneyj/realm/tick"
	"github.com/urfave/cli/v3"
)

type namedView string

func (v namedView) Name() string { return string(v) }
func (v namedView) Focus()       { log.Printf("focus %s", v) }
func (v namedView) Blur()        { log.Printf("blur %s", v) }

// demoState builds the application state with a couple of views, each
// with its own child scope, the shape the UI keeps at runtime. View changes
// are published on the state scope's router, so that is where they are
// listened for.
func demoState(root *reactive.Scope) *appstate.State {
	st := appstate.New(root, namedView("main"), appstate.Size{Width: 1280, Height: 720})
	for _, name := range []string{"main", "archive"} {
		view := st.Scope().CreateChild(reactive.WithContext(namedView(name)))
		reactive.NewEffect(view, func() {}).On(st.MapsInfo, st.WindowSize)
	}
	reactive.NewEventEffect(st.Scope(), func(msg reactive.Message[string, string]) {
		log.Printf("view changed to %s", msg.Payload)
	}).Listen(appstate.EventViewChanged)
	return st
}

func treeCommand() *cli.Command {
	return &cli.Command{
		Name:  "tree",
		Usage: "Print the scope tree of the demo application state",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			sched := tick.NewManual()
			rt := reactive.NewRuntime(runtimeOptions(cmd, reactive.WithScheduler(sched))...)
			st := demoState(rt.Root())

			st.MapsAndSaves.Set([]appstate.MapAndSaves{{MapHashID: "demo", Saves: []string{"a.dta", "b.mul"}}})
			scopetree.WriteTree(os.Stdout, rt.Root())

			sched.Tick()
			fmt.Fprintf(os.Stdout, "save files: %+v\n", st.SaveFilesCountByType.Get())
			st.Destroy()
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Drive the demo state from an interval on a loop and log the settled progress",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  delayKey,
				Usage: "Interval between progress steps",
				Value: tick.DefaultIntervalDelay,
			},
			&cli.UintFlag{
				Name:  countKey,
				Usage: "Steps before stopping",
				Value: 10,
			},
		},
		Action: watch,
	}
}

func watch(ctx context.Context, cmd *cli.Command) error {
	steps := int(cmd.Uint(countKey))
	loop, err := tick.NewLoop(tick.WithLogger(logger(cmd)))
	if err != nil {
		return err
	}
	rt := reactive.NewRuntime(runtimeOptions(cmd, reactive.WithScheduler(loop))...)

	done := make(chan struct{})
	if err := loop.Submit(func() {
		st := demoState(rt.Root())
		reactive.NewEffect(st.Scope(), func() {
			log.Printf("progress %.0f%%", st.Progress.Get()*100)
		}).On(st.Progress)

		n := 0
		iv := tick.NewInterval(loop, cmd.Duration(delayKey), func(iv *tick.Interval) {
			n++
			st.Progress.Set(float64(n) / float64(steps))
			if n >= steps {
				iv.Stop()
				st.Scope().AfterSettle(reactive.NewTask(func() {
					st.Destroy()
					close(done)
				}))
			}
		})
		iv.Start()
	}); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() { errc <- loop.Run(ctx) }()

	start := time.Now()
	select {
	case <-done:
	case err := <-errc:
		return err
	}
	log.Printf("watched %d steps in %v", steps, time.Since(start))

	if err := loop.Shutdown(ctx); err != nil {
		return err
	}
	return <-errc
}
