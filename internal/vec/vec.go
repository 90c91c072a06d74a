// Package vec provides the dimensional value types animated by the spring
// solver.
//
// A [Value] is a tagged union over the supported kinds:
//
//   - [Scalar]: single float64
//   - [Vec2]: 2-component vector
//   - [Vec3]: 3-component vector
//
// The kind is fixed when the value is constructed. Arithmetic between values
// assumes matching kinds; the solver enforces this once at its API boundary
// (see [KindMismatchError]) so per-step math never re-validates.
package vec

import (
	"errors"
	"fmt"
	"math"
)

// Kind identifies the dimensional representation of a Value.
type Kind int

const (
	Scalar Kind = iota
	Vec2
	Vec3
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Vec2:
		return "vec2"
	case Vec3:
		return "vec3"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Dim returns the number of components for the kind.
func (k Kind) Dim() int {
	switch k {
	case Scalar:
		return 1
	case Vec2:
		return 2
	default:
		return 3
	}
}

// ErrUnsupportedKind indicates a value that is none of the supported kinds.
var ErrUnsupportedKind = errors.New("vec: unsupported kind (want scalar, vec2, or vec3)")

// KindMismatchError indicates an operation across two different kinds.
type KindMismatchError struct {
	Want Kind
	Got  Kind
}

func (e KindMismatchError) Error() string {
	return fmt.Sprintf("vec: kind mismatch (want %s, got %s)", e.Want, e.Got)
}

// Value is a scalar, 2-vector, or 3-vector. Unused components stay zero, so
// componentwise arithmetic and Magnitude are uniform across kinds.
type Value struct {
	kind    Kind
	x, y, z float64
}

// NewScalar returns a scalar Value.
func NewScalar(v float64) Value {
	return Value{kind: Scalar, x: v}
}

// NewVec2 returns a 2-vector Value.
func NewVec2(x, y float64) Value {
	return Value{kind: Vec2, x: x, y: y}
}

// NewVec3 returns a 3-vector Value.
func NewVec3(x, y, z float64) Value {
	return Value{kind: Vec3, x: x, y: y, z: z}
}

// Zero returns the zero value of the given kind.
func Zero(k Kind) Value {
	return Value{kind: k}
}

// FromSlice builds a Value from 1, 2, or 3 components. Any other length is
// ErrUnsupportedKind.
func FromSlice(c []float64) (Value, error) {
	switch len(c) {
	case 1:
		return NewScalar(c[0]), nil
	case 2:
		return NewVec2(c[0], c[1]), nil
	case 3:
		return NewVec3(c[0], c[1], c[2]), nil
	default:
		return Value{}, fmt.Errorf("%w: %d components", ErrUnsupportedKind, len(c))
	}
}

func (v Value) Kind() Kind { return v.kind }

// Components returns the value as a slice sized for its kind.
func (v Value) Components() []float64 {
	switch v.kind {
	case Scalar:
		return []float64{v.x}
	case Vec2:
		return []float64{v.x, v.y}
	default:
		return []float64{v.x, v.y, v.z}
	}
}

// Scalar returns the single component of a scalar Value.
func (v Value) Scalar() float64 { return v.x }

// XYZ returns the raw components. Components beyond the kind's dimension are
// zero.
func (v Value) XYZ() (x, y, z float64) { return v.x, v.y, v.z }

// SameKind reports whether o has the same kind as v.
func (v Value) SameKind(o Value) bool { return v.kind == o.kind }

// CheckKind returns a KindMismatchError if o's kind differs from v's.
func (v Value) CheckKind(o Value) error {
	if v.kind != o.kind {
		return KindMismatchError{Want: v.kind, Got: o.kind}
	}
	return nil
}

// Add returns v + o. Operands must share a kind.
func (v Value) Add(o Value) Value {
	return Value{kind: v.kind, x: v.x + o.x, y: v.y + o.y, z: v.z + o.z}
}

// Sub returns v - o. Operands must share a kind.
func (v Value) Sub(o Value) Value {
	return Value{kind: v.kind, x: v.x - o.x, y: v.y - o.y, z: v.z - o.z}
}

// Scale returns v scaled by factor.
func (v Value) Scale(factor float64) Value {
	return Value{kind: v.kind, x: v.x * factor, y: v.y * factor, z: v.z * factor}
}

// Magnitude returns the Euclidean norm.
func (v Value) Magnitude() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y + v.z*v.z)
}

// IsValid reports whether all components are finite.
func (v Value) IsValid() bool {
	for _, c := range []float64{v.x, v.y, v.z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case Scalar:
		return fmt.Sprintf("%.4f", v.x)
	case Vec2:
		return fmt.Sprintf("(%.4f, %.4f)", v.x, v.y)
	default:
		return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.x, v.y, v.z)
	}
}
