package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Vector3 is a point in R^3. Magnetizations, fields and anisotropy axes all
// use it; it is passed by value everywhere.
type Vector3 struct {
	X, Y, Z float64
}

func NewVector3(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Div(s float64) Vector3 {
	return Vector3{v.X / s, v.Y / s, v.Z / s}
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the right-handed cross product v x o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vector3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Length is Norm under the name the scripting binding exposes.
func (v Vector3) Length() float64 {
	return v.Norm()
}

// Normalize scales v to unit length in place. A zero vector yields NaN
// components; callers must guarantee a nonzero magnetization.
func (v *Vector3) Normalize() {
	n := v.Norm()
	v.X /= n
	v.Y /= n
	v.Z /= n
}

func (v Vector3) Normalized() Vector3 {
	v.Normalize()
	return v
}

// At returns the i-th component; 0, 1 and 2 alias X, Y and Z.
func (v Vector3) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("dynamo: vector index %d out of range", i))
}

func (v *Vector3) Set(i int, val float64) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	default:
		panic(fmt.Sprintf("dynamo: vector index %d out of range", i))
	}
}

func (v Vector3) Array() [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func (v Vector3) IsValid() bool {
	for _, c := range v.Array() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Equal reports whether every component of v and o differs by at most tol.
func (v Vector3) Equal(o Vector3, tol float64) bool {
	return scalar.EqualWithinAbs(v.X, o.X, tol) &&
		scalar.EqualWithinAbs(v.Y, o.Y, tol) &&
		scalar.EqualWithinAbs(v.Z, o.Z, tol)
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}
