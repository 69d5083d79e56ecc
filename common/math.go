package common

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PutFloat32 writes v at offset in little-endian IEEE-754 form.
//
// Parameters:
//   - buf: destination buffer (must hold offset+4 bytes)
//   - offset: the byte offset to write at
//   - v: the value to write
func PutFloat32(buf []byte, offset int, v float32) {
	binary.LittleEndian.PutUint32(buf[offset:offset+4], math.Float32bits(v))
}

// PutVec3 writes the three components of v starting at offset.
//
// Parameters:
//   - buf: destination buffer (must hold offset+12 bytes)
//   - offset: the byte offset to write at
//   - v: the vector to write
func PutVec3(buf []byte, offset int, v mgl32.Vec3) {
	PutFloat32(buf, offset, v[0])
	PutFloat32(buf, offset+4, v[1])
	PutFloat32(buf, offset+8, v[2])
}

// PutMat4 writes a 4x4 matrix in column-major order starting at offset, matching
// the WGSL mat4x4<f32> layout.
//
// Parameters:
//   - buf: destination buffer (must hold offset+64 bytes)
//   - offset: the byte offset to write at
//   - m: the matrix to write
func PutMat4(buf []byte, offset int, m mgl32.Mat4) {
	for i, v := range m {
		PutFloat32(buf, offset+i*4, v)
	}
}

// Float32At reads a little-endian float32 from buf at offset.
func Float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset : offset+4]))
}
