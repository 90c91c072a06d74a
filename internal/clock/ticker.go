package clock

import (
	"sync"
	"time"

	"github.com/nareth/motive/internal/event"
)

// Ticker is a driving clock built on time.Ticker. Ticks carry the measured
// wall-clock elapsed time, not the nominal interval, so subscribers see real
// frame pacing.
type Ticker struct {
	ticks    *event.Channel[float64]
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewTicker starts a driving clock firing roughly every interval. Stop it
// when done.
func NewTicker(interval time.Duration) *Ticker {
	t := &Ticker{
		ticks: event.New[float64](),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go t.run(interval)
	return t
}

func (t *Ticker) run(interval time.Duration) {
	defer close(t.done)
	tk := time.NewTicker(interval)
	defer tk.Stop()

	last := time.Now()
	for {
		select {
		case now := <-tk.C:
			t.ticks.Fire(now.Sub(last).Seconds())
			last = now
		case <-t.stop:
			return
		}
	}
}

func (t *Ticker) Subscribe(handler func(dt float64)) *event.Subscription[float64] {
	return t.ticks.Connect(handler)
}

func (t *Ticker) WaitTick() float64 { return t.ticks.Wait() }

func (t *Ticker) Flavor() Flavor { return Driving }

// Stop halts the tick goroutine and waits for it to exit. Idempotent and safe
// to call from multiple goroutines.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
	<-t.done
}
