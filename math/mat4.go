package math

import "github.com/chewxy/math32"

// Mat4 is a 4x4 row-major matrix using the row-vector convention:
// points transform as v * M, and A.Mul(B) applies A first, then B.
// Uploaded directly to a std140 mat4 the memory layout reads as the
// column-vector transpose, so shaders multiply M * v as usual.
type Mat4 [4][4]float32

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[i][k] * other[k][j]
			}
			result[i][j] = sum
		}
	}
	return result
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return v.MulMat(m)
}

func (m Mat4) Transpose() Mat4 {
	var result Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			result[i][j] = m[j][i]
		}
	}
	return result
}

func Translation(v Vec3) Mat4 {
	m := Mat4Identity()
	m[3][0] = v.X
	m[3][1] = v.Y
	m[3][2] = v.Z
	return m
}

func Scale(v Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = v.X
	m[1][1] = v.Y
	m[2][2] = v.Z
	return m
}

func RotationX(radians float32) Mat4 {
	c := math32.Cos(radians)
	s := math32.Sin(radians)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, s, 0},
		{0, -s, c, 0},
		{0, 0, 0, 1},
	}
}

func RotationY(radians float32) Mat4 {
	c := math32.Cos(radians)
	s := math32.Sin(radians)
	return Mat4{
		{c, 0, -s, 0},
		{0, 1, 0, 0},
		{s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func RotationZ(radians float32) Mat4 {
	c := math32.Cos(radians)
	s := math32.Sin(radians)
	return Mat4{
		{c, s, 0, 0},
		{-s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// Perspective builds a right-handed projection with depth in [0, 1].
// fovY is in radians.
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / math32.Tan(fovY*0.5)
	var m Mat4
	m[0][0] = f / aspect
	m[1][1] = f
	m[2][2] = far / (near - far)
	m[2][3] = -1
	m[3][2] = (near * far) / (near - far)
	return m
}
