package common

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

func Lerp(a, b, t float32) float32 {
	return a + t*(b-a)
}

// RotateVector rotates v by the unit quaternion q.
func RotateVector(q mgl32.Quat, v mgl32.Vec3) mgl32.Vec3 {
	if q == (mgl32.Quat{}) {
		return v
	}
	return q.Rotate(v)
}

// RandomSign returns -1 or 1 with equal probability.
func RandomSign(rng *rand.Rand) float32 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}

// RandomRotation builds a rotation from three angles drawn independently
// from [0, maxDegrees).
func RandomRotation(rng *rand.Rand, maxDegrees float32) mgl32.Quat {
	x := mgl32.DegToRad(rng.Float32() * maxDegrees)
	y := mgl32.DegToRad(rng.Float32() * maxDegrees)
	z := mgl32.DegToRad(rng.Float32() * maxDegrees)
	return mgl32.AnglesToQuat(x, y, z, mgl32.XYZ).Normalize()
}

// RandomWholeRotation is RandomRotation with whole-degree angles in
// [0, maxDegrees).
func RandomWholeRotation(rng *rand.Rand, maxDegrees int) mgl32.Quat {
	if maxDegrees <= 0 {
		return mgl32.QuatIdent()
	}
	x := mgl32.DegToRad(float32(rng.IntN(maxDegrees)))
	y := mgl32.DegToRad(float32(rng.IntN(maxDegrees)))
	z := mgl32.DegToRad(float32(rng.IntN(maxDegrees)))
	return mgl32.AnglesToQuat(x, y, z, mgl32.XYZ).Normalize()
}

// RandomOffset draws a per-axis magnitude from [0, spread), pushes it out
// by margin and flips each axis with an independent random sign. Every
// component ends up in [margin, spread+margin) in absolute value.
func RandomOffset(rng *rand.Rand, spread, margin float32) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := range out {
		out[i] = RandomSign(rng) * (rng.Float32()*spread + margin)
	}
	return out
}
