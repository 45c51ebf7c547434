package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// A unit voxel has eight corners at the block center offset by half a
// block along each axis. Corner order matches the winding in blockFaces.
var blockCornerOffsets = [8]mgl32.Vec3{
	{-0.5, -0.5, -0.5},
	{+0.5, -0.5, -0.5},
	{+0.5, -0.5, +0.5},
	{-0.5, -0.5, +0.5},
	{-0.5, +0.5, -0.5},
	{+0.5, +0.5, -0.5},
	{+0.5, +0.5, +0.5},
	{-0.5, +0.5, +0.5},
}

// blockFaces lists, per face, the corner indices of the two
// counter-clockwise triangles that make it up. Face order fixes the
// normal index: front, back, left, right, top, bottom.
var blockFaces = [6][6]uint8{
	{3, 2, 6, 3, 6, 7}, // front  (+z)
	{1, 0, 4, 1, 4, 5}, // back   (-z)
	{0, 3, 7, 0, 7, 4}, // left   (-x)
	{2, 1, 5, 2, 5, 6}, // right  (+x)
	{7, 6, 5, 7, 5, 4}, // top    (+y)
	{0, 1, 2, 0, 2, 3}, // bottom (-y)
}

// Texture coordinates for one face quad, in the same triangle order as
// blockFaces rows.
var faceTexCoords = [6][2]float32{
	{0, 0},
	{1, 0},
	{1, 1},
	{0, 0},
	{1, 1},
	{0, 1},
}

const (
	BlockFaceCount   = 6
	BlockVertexCount = 36
)

// GenerateBlockFrameData produces this frame's vertex data for one voxel
// centered at blockCenter and feeds it into the chunk batch. The layer
// selects the texture-array slice for the block's appearance.
func (r *Renderer) GenerateBlockFrameData(blockCenter mgl32.Vec3, layer float32) error {
	var vertices [BlockVertexCount]BlockVertex3D

	i := 0
	for face := 0; face < BlockFaceCount; face++ {
		for v := 0; v < 6; v++ {
			corner := blockCenter.Add(blockCornerOffsets[blockFaces[face][v]])
			vertices[i] = BlockVertex3D{
				Position: [3]int32{
					roundCoord(corner.X()),
					roundCoord(corner.Y()),
					roundCoord(corner.Z()),
				},
				TexCoord: [3]float32{faceTexCoords[v][0], faceTexCoords[v][1], layer},
				Normal:   float32(face),
			}
			i++
		}
	}

	if err := r.chunkBatch.AddVertices(vertices[:]); err != nil {
		return err
	}
	r.vertexCount += BlockVertexCount
	r.faceCount += BlockFaceCount
	return nil
}

// roundCoord snaps a corner coordinate (block center ± 0.5) onto the
// integer block grid without drifting for negative values.
func roundCoord(f float32) int32 {
	return int32(math.Floor(float64(f) + 0.5))
}
