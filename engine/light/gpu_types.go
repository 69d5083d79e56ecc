package light

import (
	_ "embed"
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/go-gl/mathgl/mgl32"
)

// GPULightsSource is the canonical WGSL definition of the ALight, DLight and
// PLight structs. Each struct matches its GPU type below exactly.
//
//go:embed assets/lights.wgsl
var GPULightsSource string

const (
	// GPUAmbientLightSize is the array stride of ALight in uniform space.
	GPUAmbientLightSize = 32

	// GPUDirectionalLightSize is the array stride of DLight in uniform space.
	GPUDirectionalLightSize = 32

	// GPUPointLightSize is the array stride of PLight in uniform space.
	GPUPointLightSize = 48
)

// GPUAmbientLight is the GPU-aligned representation of an ambient light.
// Matches the WGSL ALight struct (32 bytes).
type GPUAmbientLight struct {
	Color     [3]float32 // offset  0
	Intensity float32    // offset 12
	Visible   uint32     // offset 16, padded to 32
}

// GPUDirectionalLight is the GPU-aligned representation of a directional light.
// Matches the WGSL DLight struct (32 bytes).
type GPUDirectionalLight struct {
	Color     [3]float32 // offset  0
	Intensity float32    // offset 12
	Position  [3]float32 // offset 16
	Visible   uint32     // offset 28
}

// GPUPointLight is the GPU-aligned representation of a point light.
// Matches the WGSL PLight struct (48 bytes).
type GPUPointLight struct {
	Color     [3]float32 // offset  0
	Intensity float32    // offset 12
	Position  [3]float32 // offset 16
	Distance  float32    // offset 28
	Decay     float32    // offset 32
	Visible   uint32     // offset 36, padded to 48
}

// NewGPUAmbientLight snapshots the current values of an ambient light.
func NewGPUAmbientLight(l Light) GPUAmbientLight {
	return GPUAmbientLight{
		Color:     l.Color(),
		Intensity: l.Intensity(),
		Visible:   boolToU32(l.Visible()),
	}
}

// NewGPUDirectionalLight snapshots the current values of a directional light.
func NewGPUDirectionalLight(l Light) GPUDirectionalLight {
	return GPUDirectionalLight{
		Color:     l.Color(),
		Intensity: l.Intensity(),
		Position:  l.Position(),
		Visible:   boolToU32(l.Visible()),
	}
}

// NewGPUPointLight snapshots the current values of a point light.
func NewGPUPointLight(l Light) GPUPointLight {
	return GPUPointLight{
		Color:     l.Color(),
		Intensity: l.Intensity(),
		Position:  l.Position(),
		Distance:  l.Distance(),
		Decay:     l.Decay(),
		Visible:   boolToU32(l.Visible()),
	}
}

// Marshal serializes the light into a 32-byte buffer suitable for GPU upload.
func (g *GPUAmbientLight) Marshal() []byte {
	buf := make([]byte, GPUAmbientLightSize)
	putVec3(buf, 0, g.Color)
	putF32(buf, 12, g.Intensity)
	binary.LittleEndian.PutUint32(buf[16:20], g.Visible)
	return buf
}

// Marshal serializes the light into a 32-byte buffer suitable for GPU upload.
func (g *GPUDirectionalLight) Marshal() []byte {
	buf := make([]byte, GPUDirectionalLightSize)
	putVec3(buf, 0, g.Color)
	putF32(buf, 12, g.Intensity)
	putVec3(buf, 16, g.Position)
	binary.LittleEndian.PutUint32(buf[28:32], g.Visible)
	return buf
}

// Marshal serializes the light into a 48-byte buffer suitable for GPU upload.
func (g *GPUPointLight) Marshal() []byte {
	buf := make([]byte, GPUPointLightSize)
	putVec3(buf, 0, g.Color)
	putF32(buf, 12, g.Intensity)
	putVec3(buf, 16, g.Position)
	putF32(buf, 28, g.Distance)
	putF32(buf, 32, g.Decay)
	binary.LittleEndian.PutUint32(buf[36:40], g.Visible)
	return buf
}

// MarshalAmbient serializes a slice of ambient lights into one contiguous buffer.
func MarshalAmbient(lights []GPUAmbientLight) []byte {
	buf := make([]byte, 0, len(lights)*GPUAmbientLightSize)
	for i := range lights {
		buf = append(buf, lights[i].Marshal()...)
	}
	return buf
}

// MarshalDirectional serializes a slice of directional lights into one contiguous buffer.
func MarshalDirectional(lights []GPUDirectionalLight) []byte {
	buf := make([]byte, 0, len(lights)*GPUDirectionalLightSize)
	for i := range lights {
		buf = append(buf, lights[i].Marshal()...)
	}
	return buf
}

// MarshalPoint serializes a slice of point lights into one contiguous buffer.
func MarshalPoint(lights []GPUPointLight) []byte {
	buf := make([]byte, 0, len(lights)*GPUPointLightSize)
	for i := range lights {
		buf = append(buf, lights[i].Marshal()...)
	}
	return buf
}

func putF32(buf []byte, offset int, v float32) {
	common.PutFloat32(buf, offset, v)
}

func putVec3(buf []byte, offset int, v [3]float32) {
	common.PutVec3(buf, offset, mgl32.Vec3(v))
}

func boolToU32(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
