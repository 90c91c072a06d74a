// Package spring animates a value toward a moving target with a damped
// harmonic oscillator, solved in closed form.
//
// A [Spring] owns a value, a velocity, and a target of one [vec.Kind], fixed
// at construction. [Spring.SetTarget] activates the spring and subscribes it
// to its clock; each tick advances the motion analytically (no numerical
// integration error regardless of dt) and fires [Spring.OnStep] with the new
// value. When both the velocity and the residual displacement drop below
// fixed thresholds the value snaps exactly to the target, [Spring.OnComplete]
// fires once, and the spring detaches from the clock.
//
// The motion follows x'' + 2ζωx' + ω²x = 0 with ω = 2π·frequency and ζ the
// damping ratio: ζ < 1 oscillatory decay, ζ = 1 fastest non-oscillatory
// decay, ζ > 1 slow non-oscillatory decay.
//
// A spring and its channels belong to a single logical flow: the clock tick
// is the only mutator while the spring is active. Nothing here is safe for
// concurrent mutation from independent goroutines.
package spring

import (
	"errors"

	"github.com/nareth/motive/internal/clock"
	"github.com/nareth/motive/internal/event"
	"github.com/nareth/motive/internal/vec"
)

const (
	// DefaultFrequency is the oscillation rate, in cycles per second, used
	// when none is given.
	DefaultFrequency = 1.0
	// DefaultDamping is the damping ratio used when none is given.
	DefaultDamping = 1.0
)

// Tuning parameters out of range. Degenerate motion (a frequency of zero
// never converges; negative damping diverges) is rejected up front rather
// than clamped.
var (
	ErrFrequency = errors.New("spring: frequency must be positive")
	ErrDamping   = errors.New("spring: damping must be non-negative")
)

// Spring is one animated quantity. Create with New; drive with SetTarget.
type Spring struct {
	clk  clock.Clock
	kind vec.Kind

	value    vec.Value
	velocity vec.Value
	target   vec.Value

	frequency float64
	damping   float64
	active    bool

	sub *event.Subscription[float64]

	onStep     *event.Channel[vec.Value]
	onComplete *event.Channel[struct{}]
}

// Option adjusts construction or retargeting.
type Option func(*settings)

type settings struct {
	frequency *float64
	damping   *float64
	goal      *vec.Value
}

// WithFrequency sets the oscillation rate in cycles per second.
func WithFrequency(f float64) Option {
	return func(s *settings) { s.frequency = &f }
}

// WithDamping sets the damping ratio.
func WithDamping(z float64) Option {
	return func(s *settings) { s.damping = &z }
}

// WithGoal gives the spring an initial target. Activation is deferred to the
// next tick boundary so the caller observes the settled initial value first.
func WithGoal(g vec.Value) Option {
	return func(s *settings) { s.goal = &g }
}

// New creates a spring at rest on initial, which fixes the spring's kind for
// its lifetime. Frequency defaults to 1, damping to 1 (critically damped).
func New(clk clock.Clock, initial vec.Value, opts ...Option) (*Spring, error) {
	var set settings
	for _, o := range opts {
		o(&set)
	}

	s := &Spring{
		clk:        clk,
		kind:       initial.Kind(),
		value:      initial,
		velocity:   vec.Zero(initial.Kind()),
		target:     initial,
		frequency:  DefaultFrequency,
		damping:    DefaultDamping,
		onStep:     event.New[vec.Value](),
		onComplete: event.New[struct{}](),
	}

	if err := s.applyTuning(set); err != nil {
		return nil, err
	}

	if set.goal != nil {
		goal := *set.goal
		if err := initial.CheckKind(goal); err != nil {
			return nil, err
		}
		// Defer activation one tick so the first observed state is the
		// settled initial value. The one-shot lives in s.sub so that
		// SetTarget and Stop cancel the pending activation like any other
		// subscription.
		var once *event.Subscription[float64]
		once = clk.Subscribe(func(float64) {
			once.Disconnect()
			s.SetTarget(goal)
		})
		s.sub = once
	}

	return s, nil
}

// applyTuning validates every given option before committing any of them, so
// a rejected call leaves the tuning untouched.
func (s *Spring) applyTuning(set settings) error {
	if set.frequency != nil && *set.frequency <= 0 {
		return ErrFrequency
	}
	if set.damping != nil && *set.damping < 0 {
		return ErrDamping
	}
	if set.frequency != nil {
		s.frequency = *set.frequency
	}
	if set.damping != nil {
		s.damping = *set.damping
	}
	return nil
}

// SetTarget points the spring at target, optionally retuning frequency and
// damping, and activates it. The target's kind must match the spring's; on
// mismatch the spring is left untouched and a vec.KindMismatchError is
// returned.
//
// Exactly one clock subscription drives the spring at a time: retargeting an
// active spring supersedes the previous subscription instead of stacking a
// second one.
func (s *Spring) SetTarget(target vec.Value, opts ...Option) error {
	if err := s.value.CheckKind(target); err != nil {
		return err
	}

	var set settings
	for _, o := range opts {
		o(&set)
	}
	if err := s.applyTuning(set); err != nil {
		return err
	}

	s.target = target
	s.active = true

	var sub *event.Subscription[float64]
	sub = s.clk.Subscribe(func(dt float64) {
		s.Step(dt)
		if !s.active {
			sub.Disconnect()
		}
	})

	if s.sub != nil {
		s.sub.Disconnect()
	}
	s.sub = sub

	return nil
}

// Stop deactivates the spring in place: future ticks are ignored, no
// OnComplete fires for this activation, and value/velocity keep whatever the
// last committed tick left them.
func (s *Spring) Stop() {
	s.active = false
	if s.sub != nil {
		s.sub.Disconnect()
		s.sub = nil
	}
}

// Value returns the current animated value.
func (s *Spring) Value() vec.Value { return s.value }

// Velocity returns the current rate of change.
func (s *Spring) Velocity() vec.Value { return s.velocity }

// Target returns the value the spring is settling toward.
func (s *Spring) Target() vec.Value { return s.target }

// Kind returns the dimensional kind fixed at construction.
func (s *Spring) Kind() vec.Kind { return s.kind }

// Frequency returns the current oscillation rate in cycles per second.
func (s *Spring) Frequency() float64 { return s.frequency }

// Damping returns the current damping ratio.
func (s *Spring) Damping() float64 { return s.damping }

// Active reports whether a clock subscription is currently driving the
// spring.
func (s *Spring) Active() bool { return s.active }

// OnStep fires the new value once per tick while the spring is active,
// including the final snapped value.
func (s *Spring) OnStep() *event.Channel[vec.Value] { return s.onStep }

// OnComplete fires exactly once per activation, after the value snaps to the
// target.
func (s *Spring) OnComplete() *event.Channel[struct{}] { return s.onComplete }
