package tick

import (
	"sync"
	"time"
)

const DefaultIntervalDelay = 100 * time.Millisecond

// Interval submits a callback to a Loop every delay until stopped. It
// stops itself once the loop rejects a tick.
type Interval struct {
	loop  *Loop
	delay time.Duration
	fn    func(*Interval)

	mu   sync.Mutex
	stop chan struct{}
}

// NewInterval creates a stopped interval. A non-positive delay falls back
// to DefaultIntervalDelay.
func NewInterval(loop *Loop, delay time.Duration, fn func(*Interval)) *Interval {
	if delay <= 0 {
		delay = DefaultIntervalDelay
	}
	return &Interval{loop: loop, delay: delay, fn: fn}
}

func (iv *Interval) Delay() time.Duration {
	return iv.delay
}

// Running reports whether the interval has been started and not stopped.
func (iv *Interval) Running() bool {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.stop != nil
}

// Start is a no-op if the interval is already running.
func (iv *Interval) Start() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stop != nil {
		return
	}
	stop := make(chan struct{})
	iv.stop = stop
	go iv.run(stop)
}

// Stop is a no-op if the interval is not running.
func (iv *Interval) Stop() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stop == nil {
		return
	}
	close(iv.stop)
	iv.stop = nil
}

func (iv *Interval) run(stop chan struct{}) {
	t := time.NewTicker(iv.delay)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			err := iv.loop.Submit(func() {
				select {
				case <-stop:
					// stopped after the tick was submitted
				default:
					iv.fn(iv)
				}
			})
			if err != nil {
				iv.release(stop)
				return
			}
		}
	}
}

func (iv *Interval) release(stop chan struct{}) {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	if iv.stop == stop {
		close(stop)
		iv.stop = nil
	}
}
