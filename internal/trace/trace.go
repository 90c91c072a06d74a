// Package trace records spring motion for plotting and export.
package trace

import (
	"github.com/nareth/motive/internal/event"
	"github.com/nareth/motive/internal/spring"
	"github.com/nareth/motive/internal/vec"
)

// Sample is one tick of recorded motion.
type Sample struct {
	T     float64   `json:"t"`
	Value []float64 `json:"value"`
	Speed float64   `json:"speed"`
}

// Recorder accumulates one Sample per spring step. Attach it before
// activating the spring so no ticks are missed.
type Recorder struct {
	dt      float64
	t       float64
	samples []Sample
	sub     *event.Subscription[vec.Value]
}

// NewRecorder creates a recorder for motion stepped at a fixed dt.
func NewRecorder(dt float64) *Recorder {
	return &Recorder{dt: dt}
}

// Attach subscribes the recorder to the spring's step channel. Detach any
// previous spring first.
func (r *Recorder) Attach(s *spring.Spring) {
	r.Detach()
	r.sub = s.OnStep().Connect(func(v vec.Value) {
		r.t += r.dt
		r.samples = append(r.samples, Sample{
			T:     r.t,
			Value: v.Components(),
			Speed: s.Velocity().Magnitude(),
		})
	})
}

// Detach stops recording.
func (r *Recorder) Detach() {
	if r.sub != nil {
		r.sub.Disconnect()
		r.sub = nil
	}
}

// Samples returns everything recorded so far.
func (r *Recorder) Samples() []Sample { return r.samples }

// Len returns the number of recorded ticks.
func (r *Recorder) Len() int { return len(r.samples) }

// Series extracts one value component over time, for plotting.
func (r *Recorder) Series(component int) []float64 {
	out := make([]float64, 0, len(r.samples))
	for _, s := range r.samples {
		if component < len(s.Value) {
			out = append(out, s.Value[component])
		}
	}
	return out
}

// Duration returns the simulated time covered by the recording.
func (r *Recorder) Duration() float64 { return r.t }
