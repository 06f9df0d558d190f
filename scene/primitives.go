package scene

import (
	"cond-render/core"
	"cond-render/math"
)

// CreateCube builds a unit-ish cube centered at the origin with the given
// edge half-extent. Each face has its own four vertices so normals and
// colors stay flat across the face.
func CreateCube(halfExtent float32) *Mesh {
	h := halfExtent

	type face struct {
		normal  math.Vec3
		color   core.Color
		corners [4]math.Vec3
	}

	faces := []face{
		{ // front (+Z)
			normal: math.NewVec3(0, 0, 1),
			color:  core.ColorRed,
			corners: [4]math.Vec3{
				math.NewVec3(-h, -h, h), math.NewVec3(h, -h, h),
				math.NewVec3(h, h, h), math.NewVec3(-h, h, h),
			},
		},
		{ // back (-Z)
			normal: math.NewVec3(0, 0, -1),
			color:  core.ColorGreen,
			corners: [4]math.Vec3{
				math.NewVec3(h, -h, -h), math.NewVec3(-h, -h, -h),
				math.NewVec3(-h, h, -h), math.NewVec3(h, h, -h),
			},
		},
		{ // right (+X)
			normal: math.NewVec3(1, 0, 0),
			color:  core.ColorBlue,
			corners: [4]math.Vec3{
				math.NewVec3(h, -h, h), math.NewVec3(h, -h, -h),
				math.NewVec3(h, h, -h), math.NewVec3(h, h, h),
			},
		},
		{ // left (-X)
			normal: math.NewVec3(-1, 0, 0),
			color:  core.ColorYellow,
			corners: [4]math.Vec3{
				math.NewVec3(-h, -h, -h), math.NewVec3(-h, -h, h),
				math.NewVec3(-h, h, h), math.NewVec3(-h, h, -h),
			},
		},
		{ // top (+Y)
			normal: math.NewVec3(0, 1, 0),
			color:  core.ColorCyan,
			corners: [4]math.Vec3{
				math.NewVec3(-h, h, h), math.NewVec3(h, h, h),
				math.NewVec3(h, h, -h), math.NewVec3(-h, h, -h),
			},
		},
		{ // bottom (-Y)
			normal: math.NewVec3(0, -1, 0),
			color:  core.ColorMagenta,
			corners: [4]math.Vec3{
				math.NewVec3(-h, -h, -h), math.NewVec3(h, -h, -h),
				math.NewVec3(h, -h, h), math.NewVec3(-h, -h, h),
			},
		},
	}

	uvs := [4]math.Vec2{
		math.NewVec2(0, 0), math.NewVec2(1, 0),
		math.NewVec2(1, 1), math.NewVec2(0, 1),
	}

	var data core.MeshData
	for _, f := range faces {
		base := uint32(len(data.Vertices))
		for i, corner := range f.corners {
			data.Vertices = append(data.Vertices, core.Vertex{
				Position: corner,
				Normal:   f.normal,
				UV:       uvs[i],
				Color:    f.color,
			})
		}
		data.Indices = append(data.Indices,
			base, base+1, base+2,
			base+2, base+3, base)
	}

	return CreateMeshFromData("cube", data)
}
