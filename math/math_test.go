package math

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-5

func vec3Near(t *testing.T, expected, actual Vec3) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, epsilon)
	assert.InDelta(t, expected.Y, actual.Y, epsilon)
	assert.InDelta(t, expected.Z, actual.Z, epsilon)
}

func TestVec3Operations(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, 5, 6)

	vec3Near(t, Vec3{5, 7, 9}, a.Add(b))
	vec3Near(t, Vec3{-3, -3, -3}, a.Sub(b))
	vec3Near(t, Vec3{2, 4, 6}, a.Mul(2))
	assert.InDelta(t, float32(32), a.Dot(b), epsilon)
}

func TestVec3Cross(t *testing.T) {
	vec3Near(t, Vec3Front, Vec3Right.Cross(Vec3Up))
	vec3Near(t, Vec3Front.Negate(), Vec3Up.Cross(Vec3Right))
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 4).Normalize()
	assert.InDelta(t, float32(1), v.Length(), epsilon)
	vec3Near(t, Vec3{0.6, 0, 0.8}, v)

	vec3Near(t, Vec3Zero, Vec3Zero.Normalize())
}

func TestMat4IdentityMul(t *testing.T) {
	id := Mat4Identity()
	m := Translation(NewVec3(1, 2, 3)).Mul(RotationY(0.5))

	assert.Equal(t, m, id.Mul(m))
	assert.Equal(t, m, m.Mul(id))
}

func TestTranslationTransformsPoint(t *testing.T) {
	m := Translation(NewVec3(10, -5, 2))
	p := NewVec4(1, 1, 1, 1).MulMat(m)
	vec3Near(t, Vec3{11, -4, 3}, p.ToVec3())

	// Directions (w = 0) are unaffected.
	d := NewVec4(1, 1, 1, 0).MulMat(m)
	vec3Near(t, Vec3{1, 1, 1}, d.ToVec3())
}

func TestRotationX(t *testing.T) {
	m := RotationX(math32.Pi / 2)
	v := NewVec4(0, 1, 0, 1).MulMat(m)
	vec3Near(t, Vec3{0, 0, 1}, v.ToVec3())
}

func TestRotationY(t *testing.T) {
	m := RotationY(math32.Pi / 2)
	v := NewVec4(0, 0, 1, 1).MulMat(m)
	vec3Near(t, Vec3{1, 0, 0}, v.ToVec3())
}

func TestMulOrder(t *testing.T) {
	// A.Mul(B) applies A first: rotate about Y, then translate.
	m := RotationY(math32.Pi/2).Mul(Translation(NewVec3(5, 0, 0)))
	v := NewVec4(0, 0, 1, 1).MulMat(m)
	vec3Near(t, Vec3{6, 0, 0}, v.ToVec3())
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := float32(0.1), float32(100)
	m := Perspective(math32.Pi/2, 16.0/9.0, near, far)

	nearClip := NewVec4(0, 0, -near, 1).MulMat(m).ToVec3DivW()
	farClip := NewVec4(0, 0, -far, 1).MulMat(m).ToVec3DivW()

	assert.InDelta(t, float32(0), nearClip.Z, epsilon)
	assert.InDelta(t, float32(1), farClip.Z, epsilon)
}

func TestPerspectiveW(t *testing.T) {
	m := Perspective(math32.Pi/3, 1, 0.1, 10)
	clip := NewVec4(0, 0, -2, 1).MulMat(m)
	assert.InDelta(t, float32(2), clip.W, epsilon)
}
