package spring

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nareth/motive/internal/clock"
	"github.com/nareth/motive/internal/vec"
)

const dt = 1.0 / 60.0

// Generous budget: the slowest tested configuration (overdamped, ζ=3)
// settles well inside 20 simulated seconds.
const maxSteps = 6000

var _ = Describe("Spring", func() {
	var clk *clock.FixedStep

	BeforeEach(func() {
		clk = clock.NewFixedStep(dt)
	})

	Describe("convergence", func() {
		for _, damping := range []float64{0.2, 1.0, 3.0} {
			damping := damping

			It("settles exactly on a scalar target", func() {
				s, err := New(clk, vec.NewScalar(0),
					WithFrequency(1), WithDamping(damping))
				Expect(err).ToNot(HaveOccurred())
				Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())

				steps := clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)
				Expect(steps).To(BeNumerically("<", maxSteps))
				Expect(s.Value()).To(Equal(vec.NewScalar(1)))
				Expect(s.Velocity()).To(Equal(vec.Zero(vec.Scalar)))
			})

			It("settles exactly on a vec3 target", func() {
				s, err := New(clk, vec.NewVec3(5, -2, 0.5),
					WithFrequency(2), WithDamping(damping))
				Expect(err).ToNot(HaveOccurred())
				target := vec.NewVec3(-1, 4, 2)
				Expect(s.SetTarget(target)).To(Succeed())

				steps := clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)
				Expect(steps).To(BeNumerically("<", maxSteps))
				Expect(s.Value()).To(Equal(target))
				Expect(s.Velocity()).To(Equal(vec.Zero(vec.Vec3)))
			})
		}

		It("converges for low frequencies", func() {
			s, err := New(clk, vec.NewScalar(0),
				WithFrequency(0.01), WithDamping(1))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())

			// At 0.01 cycles/s the settle time stretches into minutes of
			// simulated time; widen the budget accordingly.
			clk.RunUntil(func() bool { return !s.Active() }, 600)
			Expect(s.Active()).To(BeFalse())
			Expect(s.Value()).To(Equal(vec.NewScalar(1)))
		})
	})

	Describe("completion", func() {
		It("fires OnComplete exactly once per activation", func() {
			s, err := New(clk, vec.NewScalar(0), WithDamping(1))
			Expect(err).ToNot(HaveOccurred())

			completions := 0
			s.OnComplete().Connect(func(struct{}) { completions++ })

			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			clk.Run(maxSteps)
			Expect(completions).To(Equal(1))

			// Second activation gets its own completion.
			Expect(s.SetTarget(vec.NewScalar(-3))).To(Succeed())
			clk.Run(maxSteps)
			Expect(completions).To(Equal(2))
		})

		It("stops ticking after completion", func() {
			s, err := New(clk, vec.NewScalar(0))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())

			clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)

			stepsAfter := 0
			s.OnStep().Connect(func(vec.Value) { stepsAfter++ })
			clk.Run(10)
			Expect(stepsAfter).To(BeZero())
		})

		It("does not fire OnComplete after Stop", func() {
			s, err := New(clk, vec.NewScalar(0))
			Expect(err).ToNot(HaveOccurred())

			completions := 0
			s.OnComplete().Connect(func(struct{}) { completions++ })

			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			clk.Run(5)
			s.Stop()
			clk.Run(maxSteps)

			Expect(completions).To(BeZero())
			Expect(s.Active()).To(BeFalse())
		})
	})

	Describe("regime continuity", func() {
		// One step on either side of ζ=1 must agree: the underdamped
		// branch's sin(θ)/c factor has a removable singularity there.
		step := func(damping float64) (value, velocity float64) {
			c := clock.NewFixedStep(dt)
			s, err := New(c, vec.NewScalar(0),
				WithFrequency(1), WithDamping(damping))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			s.Step(dt)
			return s.Value().Scalar(), s.Velocity().Scalar()
		}

		It("is continuous across the critical boundary", func() {
			for _, eps := range []float64{1e-9, 1e-7, 1e-5} {
				underV, underVel := step(1 - eps)
				critV, critVel := step(1)
				overV, overVel := step(1 + eps)

				Expect(underV).To(BeNumerically("~", critV, 1e-6))
				Expect(overV).To(BeNumerically("~", critV, 1e-6))
				Expect(underVel).To(BeNumerically("~", critVel, 1e-5))
				Expect(overVel).To(BeNumerically("~", critVel, 1e-5))
			}
		})
	})

	Describe("kind immutability", func() {
		It("rejects a target of a different kind and keeps state", func() {
			s, err := New(clk, vec.NewScalar(0.5))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(2))).To(Succeed())
			clk.Run(3)

			value, velocity, target := s.Value(), s.Velocity(), s.Target()

			err = s.SetTarget(vec.NewVec3(1, 2, 3))
			var mismatch vec.KindMismatchError
			Expect(err).To(BeAssignableToTypeOf(mismatch))

			Expect(s.Value()).To(Equal(value))
			Expect(s.Velocity()).To(Equal(velocity))
			Expect(s.Target()).To(Equal(target))
			Expect(s.Kind()).To(Equal(vec.Scalar))
		})
	})

	Describe("retargeting", func() {
		It("supersedes the previous clock subscription", func() {
			s, err := New(clk, vec.NewScalar(0))
			Expect(err).ToNot(HaveOccurred())

			stepFires := 0
			s.OnStep().Connect(func(vec.Value) { stepFires++ })

			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			Expect(s.SetTarget(vec.NewScalar(2))).To(Succeed())
			Expect(s.SetTarget(vec.NewScalar(3))).To(Succeed())

			clk.Advance()
			// A stacked subscription would step the spring once per
			// SetTarget call on every tick.
			Expect(stepFires).To(Equal(1))
		})

		It("leaves tuning untouched when a retune is rejected", func() {
			s, err := New(clk, vec.NewScalar(0),
				WithFrequency(2), WithDamping(0.5))
			Expect(err).ToNot(HaveOccurred())

			// A valid frequency paired with an invalid damping must not
			// commit the frequency.
			err = s.SetTarget(vec.NewScalar(1),
				WithFrequency(9), WithDamping(-1))
			Expect(err).To(MatchError(ErrDamping))
			Expect(s.Frequency()).To(Equal(2.0))
			Expect(s.Damping()).To(Equal(0.5))
			Expect(s.Active()).To(BeFalse())

			err = s.SetTarget(vec.NewScalar(1),
				WithFrequency(-3), WithDamping(0.9))
			Expect(err).To(MatchError(ErrFrequency))
			Expect(s.Damping()).To(Equal(0.5))
		})

		It("retargets mid-flight without discontinuity", func() {
			s, err := New(clk, vec.NewScalar(0), WithDamping(0.5))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			clk.Run(30)

			before := s.Value()
			Expect(s.SetTarget(vec.NewScalar(-1))).To(Succeed())
			Expect(s.Value()).To(Equal(before))

			clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)
			Expect(s.Value()).To(Equal(vec.NewScalar(-1)))
		})
	})

	Describe("critically damped scenario", func() {
		It("rises monotonically to 1 without overshoot within 5 seconds", func() {
			s, err := New(clk, vec.NewScalar(0),
				WithFrequency(1), WithDamping(1))
			Expect(err).ToNot(HaveOccurred())

			prev := 0.0
			s.OnStep().Connect(func(v vec.Value) {
				x := v.Scalar()
				Expect(x).To(BeNumerically(">=", prev))
				Expect(x).To(BeNumerically("<=", 1.0))
				prev = x
			})

			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			steps := clk.RunUntil(func() bool { return !s.Active() }, 5.0)

			Expect(s.Active()).To(BeFalse())
			Expect(s.Value().Scalar()).To(Equal(1.0))
			Expect(float64(steps) * dt).To(BeNumerically("<=", 5.0))
		})
	})

	Describe("construction", func() {
		It("defaults to frequency 1 and critical damping", func() {
			s, err := New(clk, vec.NewVec2(1, 1))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.Frequency()).To(Equal(1.0))
			Expect(s.Damping()).To(Equal(1.0))
			Expect(s.Active()).To(BeFalse())
			Expect(s.Value()).To(Equal(vec.NewVec2(1, 1)))
			Expect(s.Target()).To(Equal(vec.NewVec2(1, 1)))
		})

		It("defers activation of an initial goal to the next tick", func() {
			s, err := New(clk, vec.NewScalar(0), WithGoal(vec.NewScalar(1)))
			Expect(err).ToNot(HaveOccurred())

			Expect(s.Active()).To(BeFalse())
			Expect(s.Value()).To(Equal(vec.NewScalar(0)))

			clk.Advance()
			Expect(s.Active()).To(BeTrue())

			clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)
			Expect(s.Value()).To(Equal(vec.NewScalar(1)))
		})

		It("lets an explicit target supersede a pending initial goal", func() {
			s, err := New(clk, vec.NewScalar(0), WithGoal(vec.NewScalar(1)))
			Expect(err).ToNot(HaveOccurred())

			// Retarget before the first tick: the deferred goal must not
			// win it back.
			Expect(s.SetTarget(vec.NewScalar(5))).To(Succeed())
			clk.Advance()
			Expect(s.Target()).To(Equal(vec.NewScalar(5)))

			clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)
			Expect(s.Value()).To(Equal(vec.NewScalar(5)))
		})

		It("cancels a pending initial goal on Stop", func() {
			s, err := New(clk, vec.NewScalar(0), WithGoal(vec.NewScalar(1)))
			Expect(err).ToNot(HaveOccurred())

			s.Stop()
			clk.Run(10)

			Expect(s.Active()).To(BeFalse())
			Expect(s.Value()).To(Equal(vec.NewScalar(0)))
		})

		It("rejects an initial goal of a different kind", func() {
			_, err := New(clk, vec.NewScalar(0), WithGoal(vec.NewVec2(1, 1)))
			var mismatch vec.KindMismatchError
			Expect(err).To(BeAssignableToTypeOf(mismatch))
		})

		It("rejects non-positive frequency and negative damping", func() {
			_, err := New(clk, vec.NewScalar(0), WithFrequency(0))
			Expect(err).To(MatchError(ErrFrequency))

			_, err = New(clk, vec.NewScalar(0), WithFrequency(-2))
			Expect(err).To(MatchError(ErrFrequency))

			_, err = New(clk, vec.NewScalar(0), WithDamping(-0.1))
			Expect(err).To(MatchError(ErrDamping))

			s, err := New(clk, vec.NewScalar(0))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(1), WithFrequency(-1))).
				To(MatchError(ErrFrequency))
		})
	})

	Describe("underdamped motion", func() {
		It("overshoots the target at least once", func() {
			s, err := New(clk, vec.NewScalar(0),
				WithFrequency(2), WithDamping(0.2))
			Expect(err).ToNot(HaveOccurred())

			overshot := false
			s.OnStep().Connect(func(v vec.Value) {
				if v.Scalar() > 1 {
					overshot = true
				}
			})

			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)

			Expect(overshot).To(BeTrue())
			Expect(s.Value().Scalar()).To(Equal(1.0))
		})
	})

	Describe("overdamped motion", func() {
		It("approaches without oscillating", func() {
			s, err := New(clk, vec.NewScalar(0),
				WithFrequency(1), WithDamping(3))
			Expect(err).ToNot(HaveOccurred())

			prev := 0.0
			s.OnStep().Connect(func(v vec.Value) {
				x := v.Scalar()
				Expect(x).To(BeNumerically(">=", prev-1e-12))
				Expect(x).To(BeNumerically("<=", 1.0))
				prev = x
			})

			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())
			clk.RunUntil(func() bool { return !s.Active() }, maxSteps*dt)
			Expect(s.Value().Scalar()).To(Equal(1.0))
		})
	})

	Describe("against the exact solution", func() {
		It("matches the analytic underdamped trajectory", func() {
			// ζ=0, the pure oscillator: x(t) = target - cos(ωt).
			s, err := New(clk, vec.NewScalar(0),
				WithFrequency(1), WithDamping(0))
			Expect(err).ToNot(HaveOccurred())
			Expect(s.SetTarget(vec.NewScalar(1))).To(Succeed())

			omega := 2 * math.Pi
			for i := 1; i <= 30; i++ {
				s.Step(dt)
				t := float64(i) * dt
				want := 1 - math.Cos(omega*t)
				Expect(s.Value().Scalar()).To(BeNumerically("~", want, 1e-9))
			}
		})
	})
})
