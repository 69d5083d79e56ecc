package sdf

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CNoise is classic 3D Perlin noise, roughly in [-1, 1]. It is zero on integer
// lattice points and follows cnoise in the rm_noise chunk.
func CNoise(p mgl32.Vec3) float32 {
	var pi0, pi1, pf0, pf1 mgl32.Vec3
	for i := range 3 {
		fl := math32.Floor(p[i])
		pi0[i] = mod289(fl)
		pi1[i] = mod289(fl + 1)
		pf0[i] = fract(p[i])
		pf1[i] = pf0[i] - 1
	}

	ix := [4]float32{pi0.X(), pi1.X(), pi0.X(), pi1.X()}
	iy := [4]float32{pi0.Y(), pi0.Y(), pi1.Y(), pi1.Y()}

	var ixy0, ixy1 [4]float32
	for i := range 4 {
		ixy := permute(permute(ix[i]) + iy[i])
		ixy0[i] = permute(ixy + pi0.Z())
		ixy1[i] = permute(ixy + pi1.Z())
	}
	g0, g1 := gradients(ixy0), gradients(ixy1)

	// Corner i sits at x = i&1, y = i>>1 on the z0 and z1 faces.
	var nz [4]float32
	fade := mgl32.Vec3{fadeCurve(pf0[0]), fadeCurve(pf0[1]), fadeCurve(pf0[2])}
	for i := range 4 {
		off := mgl32.Vec3{pf0.X(), pf0.Y(), 0}
		if i&1 == 1 {
			off[0] = pf1.X()
		}
		if i>>1 == 1 {
			off[1] = pf1.Y()
		}
		off0, off1 := off, off
		off0[2], off1[2] = pf0.Z(), pf1.Z()
		nz[i] = mix(g0[i].Dot(off0), g1[i].Dot(off1), fade.Z())
	}

	ny0 := mix(nz[0], nz[2], fade.Y())
	ny1 := mix(nz[1], nz[3], fade.Y())
	return 2.2 * mix(ny0, ny1, fade.X())
}

func gradients(ixy [4]float32) [4]mgl32.Vec3 {
	var g [4]mgl32.Vec3
	for i, v := range ixy {
		gx := v * (1.0 / 7.0)
		gy := fract(math32.Floor(gx)*(1.0/7.0)) - 0.5
		gx = fract(gx)
		gz := 0.5 - math32.Abs(gx) - math32.Abs(gy)
		sz := step(gz, 0)
		gx -= sz * (step(0, gx) - 0.5)
		gy -= sz * (step(0, gy) - 0.5)

		d := mgl32.Vec3{gx, gy, gz}
		g[i] = d.Mul(taylorInvSqrt(d.Dot(d)))
	}
	return g
}

func mod289(x float32) float32 {
	return x - math32.Floor(x*(1.0/289.0))*289.0
}

func permute(x float32) float32 {
	return mod289((x*34.0 + 1.0) * x)
}

func taylorInvSqrt(r float32) float32 {
	return 1.79284291400159 - 0.85373472095314*r
}

func fadeCurve(t float32) float32 {
	return t * t * t * (t*(t*6.0-15.0) + 10.0)
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}

// step is the shading-language step: 0 when x < edge, 1 otherwise.
func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}
