package d3

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/mmiscool/BREP.io-sub008/internal/d2"
)

// Transform represents a rigid 3D spatial transformation
// stored as a row-major 4x4 affine matrix.
type Transform struct {
	data [4 * 4]float64
}

// Identity returns the identity transform.
func Identity() Transform {
	t := Transform{}
	t.Set(0, 0, 1)
	t.Set(1, 1, 1)
	t.Set(2, 2, 1)
	t.Set(3, 3, 1)
	return t
}

// Translate returns a translation by v.
func Translate(v r3.Vec) Transform {
	t := Identity()
	t.Set(0, 3, v.X)
	t.Set(1, 3, v.Y)
	t.Set(2, 3, v.Z)
	return t
}

// FromRotation expands a quaternion rotation about the origin to a Transform.
func FromRotation(q r3.Rotation) Transform {
	x2 := q.Imag + q.Imag
	y2 := q.Jmag + q.Jmag
	z2 := q.Kmag + q.Kmag
	xx := q.Imag * x2
	yy := q.Jmag * y2
	zz := q.Kmag * z2
	xy := q.Imag * y2
	xz := q.Imag * z2
	yz := q.Jmag * z2
	wx := q.Real * x2
	wy := q.Real * y2
	wz := q.Real * z2

	t := Identity()
	t.Set(0, 0, 1-(yy+zz))
	t.Set(1, 0, xy+wz)
	t.Set(2, 0, xz-wy)

	t.Set(0, 1, xy-wz)
	t.Set(1, 1, 1-(xx+zz))
	t.Set(2, 1, yz+wx)

	t.Set(0, 2, xz+wy)
	t.Set(1, 2, yz-wx)
	t.Set(2, 2, 1-(xx+yy))
	return t
}

// RotateAbout returns the rotation by alpha radians about the line
// through origin with direction axis (right-hand rule).
func RotateAbout(origin, axis r3.Vec, alpha float64) Transform {
	rot := FromRotation(r3.NewRotation(alpha, axis))
	return Translate(origin).Mul(rot).Mul(Translate(r3.Scale(-1, origin)))
}

// FromPlanar embeds a rigid 2D transform into 3D: rotation about Z
// plus an in-plane translation.
func FromPlanar(p d2.Transform) Transform {
	t := Identity()
	t.Set(0, 0, p.At(0, 0))
	t.Set(0, 1, p.At(0, 1))
	t.Set(1, 0, p.At(1, 0))
	t.Set(1, 1, p.At(1, 1))
	t.Set(0, 3, p.At(0, 2))
	t.Set(1, 3, p.At(1, 2))
	return t
}

func (t *Transform) At(i, j int) float64 {
	return t.data[i*4+j]
}

func (t *Transform) Set(i, j int, v float64) {
	t.data[i*4+j] = v
}

// Mul multiplies 4x4 matrices.
func (a Transform) Mul(b Transform) Transform {
	m := Transform{}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m.Set(i, j, a.At(i, 0)*b.At(0, j)+a.At(i, 1)*b.At(1, j)+
				a.At(i, 2)*b.At(2, j)+a.At(i, 3)*b.At(3, j))
		}
	}
	return m
}

// Transform applies the Transform to the argument position vector
// and returns the result.
func (t Transform) Transform(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.At(0, 0)*v.X + t.At(0, 1)*v.Y + t.At(0, 2)*v.Z + t.At(0, 3),
		Y: t.At(1, 0)*v.X + t.At(1, 1)*v.Y + t.At(1, 2)*v.Z + t.At(1, 3),
		Z: t.At(2, 0)*v.X + t.At(2, 1)*v.Y + t.At(2, 2)*v.Z + t.At(2, 3),
	}
}

// TransformDir applies the Transform to a direction vector,
// ignoring translation.
func (t Transform) TransformDir(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: t.At(0, 0)*v.X + t.At(0, 1)*v.Y + t.At(0, 2)*v.Z,
		Y: t.At(1, 0)*v.X + t.At(1, 1)*v.Y + t.At(1, 2)*v.Z,
		Z: t.At(2, 0)*v.X + t.At(2, 1)*v.Y + t.At(2, 2)*v.Z,
	}
}

// Apply transforms a set of position vectors into a new slice.
func (t Transform) Apply(pts []r3.Vec) []r3.Vec {
	out := make([]r3.Vec, len(pts))
	for i, p := range pts {
		out[i] = t.Transform(p)
	}
	return out
}
