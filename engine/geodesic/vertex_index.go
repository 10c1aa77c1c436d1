package geodesic

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// vertexKey identifies a position inside the VertexIndex lookup table.
type vertexKey [3]int64

// VertexIndex is the source-vertex table together with its deduplication index.
// Vertices are addressed by their position in the table and never removed.
//
// With a zero snap precision keys are the exact float32 bit patterns of the
// coordinates, so only bit-identical points collapse (negative zero is treated
// as zero). A positive precision quantizes each coordinate to a grid of that
// spacing before lookup, which also merges points that differ by rounding.
type VertexIndex struct {
	vertices []SourceVertex
	lookup   map[vertexKey]int
	snap     float64
}

// NewVertexIndex creates an empty VertexIndex.
//
// Parameters:
//   - snapPrecision: grid spacing for key quantization, or 0 for exact keys
//   - capacity: expected number of vertices, used to pre-size the table
//
// Returns:
//   - *VertexIndex: the new index
func NewVertexIndex(snapPrecision float64, capacity int) *VertexIndex {
	if snapPrecision < 0 {
		snapPrecision = 0
	}
	return &VertexIndex{
		vertices: make([]SourceVertex, 0, capacity),
		lookup:   make(map[vertexKey]int, capacity),
		snap:     snapPrecision,
	}
}

// MaybeAdd returns the index of p, allocating a new SourceVertex with an empty
// adjacency list the first time p is seen. p is expected to already lie on the
// unit sphere.
//
// Parameters:
//   - p: the normalized point to look up
//
// Returns:
//   - int: the index of the existing or newly added vertex
func (x *VertexIndex) MaybeAdd(p mgl32.Vec3) int {
	k := x.key(p)
	if i, ok := x.lookup[k]; ok {
		return i
	}
	i := len(x.vertices)
	x.vertices = append(x.vertices, SourceVertex{Position: p})
	x.lookup[k] = i
	return i
}

// Len returns the number of distinct vertices in the table.
func (x *VertexIndex) Len() int {
	return len(x.vertices)
}

// Position returns the position of vertex i.
func (x *VertexIndex) Position(i int) mgl32.Vec3 {
	return x.vertices[i].Position
}

// Vertices returns the backing vertex table. The slice is shared, not copied.
func (x *VertexIndex) Vertices() []SourceVertex {
	return x.vertices
}

func (x *VertexIndex) key(p mgl32.Vec3) vertexKey {
	var k vertexKey
	for i, c := range p {
		if x.snap > 0 {
			k[i] = int64(math.Round(float64(c) / x.snap))
			continue
		}
		if c == 0 {
			c = 0 // fold -0 into +0
		}
		k[i] = int64(math.Float32bits(c))
	}
	return k
}
