package spring

import (
	"math"

	"github.com/nareth/motive/internal/vec"
)

const (
	// Convergence thresholds on residual displacement and velocity
	// magnitude. Meeting both snaps the value to the target exactly, which
	// keeps an asymptotic approach from ticking forever.
	positionEpsilon = 1e-3
	velocityEpsilon = 1e-3

	// Below this, sqrt(1-ζ²) is small enough that sin(θ)/c is evaluated by
	// Taylor series instead of direct division (removable 0/0 singularity
	// at the critical-damping boundary).
	criticalEpsilon = 1e-4
)

// Step advances the motion by dt seconds using the closed-form solution for
// the spring's damping regime, fires OnStep with the new value, and on
// convergence snaps to the target, fires OnComplete, and deactivates. While
// the spring is inactive Step does nothing.
//
// The displacement x = value - target and the velocity v evolve linearly:
// each regime reduces to four coefficients with new x = a·x + b·v and
// new v = c·x + d·v, applied componentwise, so one derivation covers scalars
// and vectors alike.
func (s *Spring) Step(dt float64) vec.Value {
	if !s.active {
		return s.value
	}

	x := s.value.Sub(s.target)
	v := s.velocity

	a, b, c, d := s.coefficients(dt)

	newX := x.Scale(a).Add(v.Scale(b))
	newV := x.Scale(c).Add(v.Scale(d))

	if newV.Magnitude() < velocityEpsilon && newX.Magnitude() < positionEpsilon {
		s.value = s.target
		s.velocity = vec.Zero(s.kind)
		s.onStep.Fire(s.value)
		s.active = false
		s.onComplete.Fire(struct{}{})
		return s.value
	}

	s.value = s.target.Add(newX)
	s.velocity = newV
	s.onStep.Fire(s.value)
	return s.value
}

// coefficients solves x'' + 2ζωx' + ω²x = 0 over one step of length dt.
//
// The three damping regimes have genuinely different closed forms; the
// underdamped trigonometric solution is invalid for ζ ≥ 1, where its
// discriminant goes imaginary, so the branch on ζ is load-bearing.
func (s *Spring) coefficients(dt float64) (a, b, c, d float64) {
	omega := 2 * math.Pi * s.frequency
	zeta := s.damping

	switch {
	case zeta == 1:
		// Critically damped: x(t) = (x₀(1+ωt) + v₀t)·e^(-ωt).
		decay := math.Exp(-omega * dt)
		a = decay * (1 + omega*dt)
		b = decay * dt
		c = -decay * omega * omega * dt
		d = decay * (1 - omega*dt)

	case zeta < 1:
		// Underdamped: damped angular frequency ωc with c = sqrt(1-ζ²).
		cr := math.Sqrt(1 - zeta*zeta)
		theta := omega * cr * dt
		decay := math.Exp(-zeta * omega * dt)
		cosT := math.Cos(theta)
		sinDivC := sinOverC(theta, cr, omega*dt)

		a = decay * (cosT + zeta*sinDivC)
		b = decay * sinDivC / omega
		c = -decay * omega * sinDivC
		d = decay * (cosT - zeta*sinDivC)

	default:
		// Overdamped: two real roots r1 = -ω(ζ-c), r2 = -ω(ζ+c) with
		// c = sqrt(ζ²-1). The initial conditions split into the two
		// exponential modes A·e^(r1·t) + B·e^(r2·t).
		cr := math.Sqrt(zeta*zeta - 1)
		r1 := -omega * (zeta - cr)
		r2 := -omega * (zeta + cr)
		e1 := math.Exp(r1 * dt)
		e2 := math.Exp(r2 * dt)
		span := r1 - r2 // 2ωc, positive

		a = (r1*e2 - r2*e1) / span
		b = (e1 - e2) / span
		c = r1 * r2 * (e2 - e1) / span
		d = (r1*e1 - r2*e2) / span
	}

	return a, b, c, d
}

// sinOverC evaluates sin(θ)/c where θ = ω·c·dt. As c → 0 this is 0/0 with
// limit ω·dt; direct division there loses precision catastrophically, so for
// tiny c the odd Taylor expansion of sin is divided through analytically:
//
//	sin(ωc·dt)/c = ω·dt - (ω·dt)³c²/6 + (ω·dt)⁵c⁴/120 - ...
func sinOverC(theta, c, omegaDt float64) float64 {
	if c < criticalEpsilon {
		od3 := omegaDt * omegaDt * omegaDt
		od5 := od3 * omegaDt * omegaDt
		return omegaDt - od3*c*c/6 + od5*c*c*c*c/120
	}
	return math.Sin(theta) / c
}
