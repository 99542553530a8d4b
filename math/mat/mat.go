/*
mat contains the small amount of linear algebra needed to move between the
simulation frame and an observer's frame: a general Matrix type for composing
transforms, and Transform, a 4x4 homogeneous matrix which is applied to every
position and velocity that enters the light cone.

Everything here is stateless and safe to share between goroutines.
*/
package mat

import (
	"fmt"
	"math"
)

// Matrix represents a matrix of float64 values.
type Matrix struct {
	Vals          []float64
	Width, Height int
}

// New matrix creates a matrix with the specified values and dimensions.
func NewMatrix(vals []float64, width, height int) *Matrix {
	if width <= 0 {
		panic("width must be positive.")
	} else if height <= 0 {
		panic("height must be positive.")
	} else if width*height != len(vals) {
		panic("height * width must equal len(vals).")
	}

	return &Matrix{Vals: vals, Width: width, Height: height}
}

// Mult multiplies two matrices together.
func (m1 *Matrix) Mult(m2 *Matrix) *Matrix {
	h, w := m1.Height, m2.Width
	out := NewMatrix(make([]float64, h*w), w, h)
	return m1.MultAt(m2, out)
}

// Mult multiplies to matrices together and writes the result to the
// specified matrix.
func (m1 *Matrix) MultAt(m2, out *Matrix) *Matrix {
	if m1.Width != m2.Height {
		panic("Multiplication of incompatible matrix sizes.")
	} else if out.Height != m1.Height || out.Width != m2.Width {
		panic("Output matrix has the wrong dimensions.")
	}

	for i := range out.Vals {
		out.Vals[i] = 0
	}
	for i := 0; i < m1.Height; i++ {
		off := i * m1.Width
		for j := 0; j < m2.Width; j++ {
			outIdx := i*out.Width + j
			for k := 0; k < m1.Width; k++ {
				out.Vals[outIdx] += m1.Vals[off+k] * m2.Vals[k*m2.Width+j]
			}
		}
	}

	return out
}

// Transform is a general 4x4 linear transform acting on homogeneous
// coordinates (x, y, z, 1). Rows are indexed first.
type Transform [4][4]float64

// Identity returns the identity transform.
func Identity() Transform {
	var t Transform
	for i := 0; i < 4; i++ {
		t[i][i] = 1
	}
	return t
}

// Translation returns a transform which shifts points by dx.
func Translation(dx [3]float64) Transform {
	t := Identity()
	for i := 0; i < 3; i++ {
		t[i][3] = dx[i]
	}
	return t
}

// NewTransform builds a transform from 16 row-major values.
func NewTransform(vals []float64) (Transform, error) {
	var t Transform
	if len(vals) != 16 {
		return t, fmt.Errorf(
			"A 4x4 transform needs 16 values, but %d were given.", len(vals),
		)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			t[i][j] = vals[4*i+j]
		}
	}
	return t, nil
}

// Matrix returns a copy of t as a general Matrix.
func (t *Transform) Matrix() *Matrix {
	vals := make([]float64, 16)
	for i := 0; i < 4; i++ {
		copy(vals[4*i:4*i+4], t[i][:])
	}
	return NewMatrix(vals, 4, 4)
}

// Then returns the transform which applies t first and then next.
func (t Transform) Then(next Transform) Transform {
	prod := next.Matrix().Mult(t.Matrix())
	out, _ := NewTransform(prod.Vals)
	return out
}

// Apply multiplies the homogeneous vector xi by t and writes the result to
// xo. xi and xo may alias.
func (t *Transform) Apply(xi, xo *[4]float64) {
	var tmp [4]float64
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			tmp[i] += t[i][j] * xi[j]
		}
	}
	*xo = tmp
}

// ApplyPoint transforms the point x after shifting it by shift. The fourth
// component of the shift is applied to the homogeneous coordinate.
func (t *Transform) ApplyPoint(x [3]float64, shift [4]float64) [3]float64 {
	xi := [4]float64{x[0] + shift[0], x[1] + shift[1], x[2] + shift[2], 1 + shift[3]}
	var xo [4]float64
	t.Apply(&xi, &xo)
	return [3]float64{xo[0], xo[1], xo[2]}
}

// ApplyVector applies the upper-left 3x3 block of t to v. This is how
// velocities are carried into the observer frame.
func (t *Transform) ApplyVector(v [3]float32) [3]float32 {
	var vo [3]float32
	for i := 0; i < 3; i++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			sum += t[i][j] * float64(v[j])
		}
		vo[i] = float32(sum)
	}
	return vo
}

// Euler returns the rotation made of three consecutive rotations by phi,
// theta, and psi radians around the x, y, and z axes, respectively.
func Euler(phi, theta, psi float64) Transform {
	cf, sf := math.Cos(phi), math.Sin(phi)
	ct, st := math.Cos(theta), math.Sin(theta)
	cp, sp := math.Cos(psi), math.Sin(psi)

	t := Identity()
	t[0] = [4]float64{ct * cp, cf*sp + sf*st*cp, sf*sp - cf*st*cp, 0}
	t[1] = [4]float64{-ct * sp, cf*cp - sf*st*sp, sf*cp + cf*st*sp, 0}
	t[2] = [4]float64{st, -sf * ct, cf * ct, 0}
	return t
}

// ZAngle returns the angle in degrees between x and the +z axis.
func ZAngle(x [3]float64) float64 {
	dxy := x[0]*x[0] + x[1]*x[1]
	return math.Atan2(math.Sqrt(dxy), x[2]) / math.Pi * 180
}

// Norm returns the Euclidean length of x.
func Norm(x [3]float64) float64 {
	return math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
}
