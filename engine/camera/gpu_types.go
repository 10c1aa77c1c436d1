package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (192 bytes, uniform address space aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the per-frame transform uniform.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 192 bytes.
type GPUCameraUniform struct {
	MVP          [16]float32 // offset   0: projection * view * model (mat4x4<f32>)
	Model        [16]float32 // offset  64: model matrix (mat4x4<f32>)
	NormalMatrix [12]float32 // offset 128: inverse-transpose of the model's upper 3x3 (mat3x3<f32>, 3 padded columns)
	EyePosition  [3]float32  // offset 176: world-space camera position (vec3<f32>)
	_pad         float32     // offset 188: padding to 192 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (192)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.MVP[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Model[i]))
	}
	for i := range 12 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.NormalMatrix[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[176+i*4:], math.Float32bits(g.EyePosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[188:], 0) // _pad
	return buf
}
