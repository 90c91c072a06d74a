// Package clock abstracts the host tick source that drives springs.
//
// A [Clock] delivers an elapsed-time value to each subscriber per tick. Two
// flavors exist: [Driven] clocks advance only when the caller pumps them
// (deterministic fixed steps, the right choice for tests and batch runs) and
// [Driving] clocks run themselves off wall time.
package clock

import (
	"github.com/nareth/motive/internal/event"
)

// Flavor tells subscribers what kind of tick a clock produces.
type Flavor int

const (
	// Driving clocks produce ticks on their own, from wall time.
	Driving Flavor = iota
	// Driven clocks tick only when the caller advances them.
	Driven
)

func (f Flavor) String() string {
	if f == Driven {
		return "driven"
	}
	return "driving"
}

// Clock is a per-tick subscription source. Each tick delivers the elapsed
// time in seconds since the previous tick.
type Clock interface {
	// Subscribe registers a per-tick handler; dispatch order is
	// subscription order.
	Subscribe(handler func(dt float64)) *event.Subscription[float64]
	// WaitTick blocks until the next tick and returns its elapsed time.
	// One-shot.
	WaitTick() float64
	Flavor() Flavor
}

// FixedStep is a driven clock with a constant timestep.
type FixedStep struct {
	dt    float64
	now   float64
	ticks *event.Channel[float64]
}

// NewFixedStep creates a driven clock that delivers dt seconds per Advance.
func NewFixedStep(dt float64) *FixedStep {
	return &FixedStep{dt: dt, ticks: event.New[float64]()}
}

func (c *FixedStep) Subscribe(handler func(dt float64)) *event.Subscription[float64] {
	return c.ticks.Connect(handler)
}

func (c *FixedStep) WaitTick() float64 { return c.ticks.Wait() }

func (c *FixedStep) Flavor() Flavor { return Driven }

// Dt returns the fixed timestep.
func (c *FixedStep) Dt() float64 { return c.dt }

// Now returns the accumulated simulated time.
func (c *FixedStep) Now() float64 { return c.now }

// Advance delivers one tick.
func (c *FixedStep) Advance() {
	c.now += c.dt
	c.ticks.Fire(c.dt)
}

// Run delivers n ticks.
func (c *FixedStep) Run(n int) {
	for i := 0; i < n; i++ {
		c.Advance()
	}
}

// RunUntil advances until cond reports true or the simulated-time budget runs
// out, returning the number of ticks delivered.
func (c *FixedStep) RunUntil(cond func() bool, maxTime float64) int {
	steps := 0
	start := c.now
	for !cond() && c.now-start < maxTime {
		c.Advance()
		steps++
	}
	return steps
}
