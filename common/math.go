package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a perspective projection matrix for WebGPU clip space.
// Depth is mapped to [0, 1] rather than OpenGL's [-1, 1], so the result is not
// interchangeable with mgl32.Perspective.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// NormalMatrix computes the inverse-transpose of the upper 3x3 of model and
// packs it as three vec4 columns, the layout WGSL uses for a mat3x3<f32> in a
// uniform buffer. A singular matrix yields the identity.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - [12]float32: three padded columns of the normal matrix
func NormalMatrix(model mgl32.Mat4) [12]float32 {
	m := model.Mat3()
	n := mgl32.Ident3()
	if m.Det() != 0 {
		n = m.Inv().Transpose()
	}

	var out [12]float32
	for col := 0; col < 3; col++ {
		c := n.Col(col)
		out[col*4+0] = c[0]
		out[col*4+1] = c[1]
		out[col*4+2] = c[2]
	}
	return out
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
//
// Parameters:
//   - n: the value to round
//   - align: the alignment
//
// Returns:
//   - uint32: the aligned value
func AlignUp(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}
