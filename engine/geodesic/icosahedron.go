package geodesic

import "github.com/go-gl/mathgl/mgl32"

// icosahedronVertices are the 12 corners of the seed icosahedron.
// Values are the five-digit literals, so magnitudes are 1 only to within ~1e-7.
var icosahedronVertices = [12]mgl32.Vec3{
	{0, -0.525731, 0.850651}, {0.850651, 0, 0.525731}, {0.850651, 0, -0.525731}, {-0.850651, 0, -0.525731},
	{-0.850651, 0, 0.525731}, {-0.525731, 0.850651, 0}, {0.525731, 0.850651, 0}, {0.525731, -0.850651, 0},
	{-0.525731, -0.850651, 0}, {0, -0.525731, -0.850651}, {0, 0.525731, -0.850651}, {0, 0.525731, 0.850651},
}

// icosahedronFaces lists the 20 faces as 1-based corner indices.
var icosahedronFaces = [20][3]int{
	{2, 3, 7}, {2, 8, 3}, {4, 5, 6}, {5, 4, 9}, {7, 6, 12},
	{6, 7, 11}, {10, 11, 3}, {11, 10, 4}, {8, 9, 10}, {9, 8, 1},
	{12, 1, 2}, {1, 12, 5}, {7, 3, 11}, {2, 7, 12}, {4, 6, 11},
	{6, 5, 12}, {3, 8, 10}, {8, 2, 1}, {4, 10, 9}, {5, 9, 1},
}

// BaseMesh returns the seed icosahedron: 12 vertex positions and 20 triangles
// whose corners are 0-based indices into the returned positions.
//
// Returns:
//   - []mgl32.Vec3: the 12 vertex positions
//   - []Triangle: the 20 faces
func BaseMesh() ([]mgl32.Vec3, []Triangle) {
	positions := make([]mgl32.Vec3, len(icosahedronVertices))
	copy(positions, icosahedronVertices[:])

	triangles := make([]Triangle, len(icosahedronFaces))
	for i, f := range icosahedronFaces {
		triangles[i] = Triangle{I0: f[0] - 1, I1: f[1] - 1, I2: f[2] - 1}
	}
	return positions, triangles
}
