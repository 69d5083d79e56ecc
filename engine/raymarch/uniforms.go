package raymarch

import (
	"encoding/binary"
	"fmt"

	"github.com/Carmen-Shannon/oxy-raymarch/common"
	"github.com/Carmen-Shannon/oxy-raymarch/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Uniform binding names declared by the built-in chunks, all in group 0.
const (
	BindingFrame             = "uFrame"
	BindingMarching          = "uRmMarching"
	BindingSoftShadow        = "uRmSoftShadow"
	BindingBackground        = "uBackground"
	BindingAmbientLights     = "aLights"
	BindingDirectionalLights = "dLights"
	BindingPointLights       = "pLights"
)

// Byte sizes of the fixed uniform blocks.
const (
	FrameUniformsSize      = 144
	MarchingUniformsSize   = 16
	SoftShadowUniformsSize = 16
	BackgroundUniformsSize = 16
)

// FrameState is the per-frame part of the uniform state. The light arrays are
// snapshots of the classified lights taken when the frame was built.
type FrameState struct {
	Time              float32
	ProjectionInverse mgl32.Mat4
	WorldMatrix       mgl32.Mat4
	CameraPosition    mgl32.Vec3

	Ambient     []light.GPUAmbientLight
	Directional []light.GPUDirectionalLight
	Point       []light.GPUPointLight
}

// Counts returns the light counts of the snapshot.
func (f *FrameState) Counts() light.Counts {
	return light.Counts{
		Ambient:     len(f.Ambient),
		Directional: len(f.Directional),
		Point:       len(f.Point),
	}
}

// Uniforms is the complete uniform state of one execution: the frame state plus
// the three configuration blocks. Every device reads the same values.
type Uniforms struct {
	Frame      FrameState
	Marching   MarchingConfig
	SoftShadow SoftShadowConfig
	Background BackgroundConfig
}

// NewFrameState snapshots lights into their GPU layouts.
//
// Parameters:
//   - classified: the classified light buckets
//
// Returns:
//   - FrameState: a frame state holding only the light snapshots
func NewFrameState(classified light.Classified) FrameState {
	var f FrameState
	for _, l := range classified.Ambient {
		f.Ambient = append(f.Ambient, light.NewGPUAmbientLight(l))
	}
	for _, l := range classified.Directional {
		f.Directional = append(f.Directional, light.NewGPUDirectionalLight(l))
	}
	for _, l := range classified.Point {
		f.Point = append(f.Point, light.NewGPUPointLight(l))
	}
	return f
}

// Bytes serializes the uniform block bound under name in its WGSL uniform layout.
//
// Parameters:
//   - name: a Binding* constant
//
// Returns:
//   - []byte: the block contents
//   - error: an error if name is not a known binding
func (u *Uniforms) Bytes(name string) ([]byte, error) {
	switch name {
	case BindingFrame:
		buf := make([]byte, FrameUniformsSize)
		common.PutMat4(buf, 0, u.Frame.ProjectionInverse)
		common.PutMat4(buf, 64, u.Frame.WorldMatrix)
		common.PutVec3(buf, 128, u.Frame.CameraPosition)
		common.PutFloat32(buf, 140, u.Frame.Time)
		return buf, nil
	case BindingMarching:
		buf := make([]byte, MarchingUniformsSize)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(u.Marching.MaxSteps))
		common.PutFloat32(buf, 4, u.Marching.MaxTravelDist)
		common.PutFloat32(buf, 8, u.Marching.MaxHitMargin)
		common.PutFloat32(buf, 12, u.Marching.DistScale)
		return buf, nil
	case BindingSoftShadow:
		buf := make([]byte, SoftShadowUniformsSize)
		common.PutFloat32(buf, 0, u.SoftShadow.MinT)
		common.PutFloat32(buf, 4, u.SoftShadow.MaxT)
		common.PutFloat32(buf, 8, u.SoftShadow.K)
		common.PutFloat32(buf, 12, u.SoftShadow.DistScale)
		return buf, nil
	case BindingBackground:
		buf := make([]byte, BackgroundUniformsSize)
		common.PutVec3(buf, 0, u.Background.Color)
		common.PutFloat32(buf, 12, u.Background.Alpha)
		return buf, nil
	case BindingAmbientLights:
		return light.MarshalAmbient(u.Frame.Ambient), nil
	case BindingDirectionalLights:
		return light.MarshalDirectional(u.Frame.Directional), nil
	case BindingPointLights:
		return light.MarshalPoint(u.Frame.Point), nil
	default:
		return nil, fmt.Errorf("unknown uniform binding %q", name)
	}
}
