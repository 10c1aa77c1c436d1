package geodesic

import "github.com/go-gl/mathgl/mgl32"

// LeafSink receives every leaf triangle produced by a Subdivider.
type LeafSink interface {
	// Leaf is called once per leaf, in depth-first order.
	//
	// Parameters:
	//   - t: the leaf triangle, indexing the Subdivider's VertexIndex
	Leaf(t Triangle)
}

// Subdivider splits triangles into four recursively down to a fixed depth,
// registering every edge midpoint in a shared VertexIndex.
type Subdivider struct {
	index    *VertexIndex
	maxDepth int
	stack    []workItem
}

// workItem is one pending triangle in the subdivision walk.
type workItem struct {
	tri   Triangle
	depth int
}

// NewSubdivider creates a Subdivider over the given index.
//
// Parameters:
//   - index: the vertex table the base triangle corners already live in
//   - maxDepth: the depth at which triangles become leaves (must be >= 0)
//
// Returns:
//   - *Subdivider: the new subdivider
func NewSubdivider(index *VertexIndex, maxDepth int) *Subdivider {
	return &Subdivider{
		index:    index,
		maxDepth: maxDepth,
		stack:    make([]workItem, 0, 3*maxDepth+1),
	}
}

// Subdivide walks the subdivision tree rooted at base and hands each leaf to sink.
// The walk uses an explicit stack but visits nodes in the same order as the
// recursive form (corner 0, corner 1, corner 2, center), so vertex indices and
// leaf order are identical to it.
//
// Parameters:
//   - base: the root triangle
//   - sink: the consumer of leaf triangles
func (s *Subdivider) Subdivide(base Triangle, sink LeafSink) {
	s.stack = append(s.stack[:0], workItem{tri: base})
	for len(s.stack) > 0 {
		item := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]

		if item.depth == s.maxDepth {
			sink.Leaf(item.tri)
			continue
		}

		t := item.tri
		i01 := s.midpoint(t.I0, t.I1)
		i12 := s.midpoint(t.I1, t.I2)
		i20 := s.midpoint(t.I2, t.I0)

		children := [4]Triangle{
			{I0: t.I0, I1: i01, I2: i20},
			{I0: i01, I1: t.I1, I2: i12},
			{I0: i20, I1: i12, I2: t.I2},
			{I0: i01, I1: i12, I2: i20},
		}
		// Pushed in reverse so children[0] is popped first.
		for c := len(children) - 1; c >= 0; c-- {
			s.stack = append(s.stack, workItem{tri: children[c], depth: item.depth + 1})
		}
	}
}

// midpoint returns the index of the normalized midpoint of vertices a and b.
// The lower index is always the left operand so both triangles sharing an
// edge compute the same bits.
func (s *Subdivider) midpoint(a, b int) int {
	if b < a {
		a, b = b, a
	}
	pa, pb := s.index.Position(a), s.index.Position(b)
	return s.index.MaybeAdd(pa.Add(pb).Mul(0.5).Normalize())
}

// flatEmitter turns every leaf into one flat-shaded triangle. Its normal is
// the unnormalized centroid, which the shading stage uses as a light-direction
// proxy rather than a true surface normal.
type flatEmitter struct {
	index *VertexIndex
	out   []GPUVertex
}

func (e *flatEmitter) Leaf(t Triangle) {
	v0, v1, v2 := e.index.Position(t.I0), e.index.Position(t.I1), e.index.Position(t.I2)
	centroid := v0.Add(v1).Add(v2).Mul(1.0 / 3)
	e.out = append(e.out,
		GPUVertex{Position: v0, Normal: centroid},
		GPUVertex{Position: v1, Normal: centroid},
		GPUVertex{Position: v2, Normal: centroid},
	)
}

// leafCollector records leaves for the dual pass.
type leafCollector struct {
	leaves []Triangle
}

func (c *leafCollector) Leaf(t Triangle) {
	c.leaves = append(c.leaves, t)
}

// BuildAdjacency appends every leaf to the adjacency list of each of its three
// corners, in leaf order.
//
// Parameters:
//   - vertices: the source-vertex table to populate
//   - leaves: the leaf triangles indexing vertices
func BuildAdjacency(vertices []SourceVertex, leaves []Triangle) {
	for _, t := range leaves {
		vertices[t.I0].Adjacent = append(vertices[t.I0].Adjacent, t)
		vertices[t.I1].Adjacent = append(vertices[t.I1].Adjacent, t)
		vertices[t.I2].Adjacent = append(vertices[t.I2].Adjacent, t)
	}
}

// faceCenter is the normalized centroid of t.
func faceCenter(vertices []SourceVertex, t Triangle) mgl32.Vec3 {
	sum := vertices[t.I0].Position.Add(vertices[t.I1].Position).Add(vertices[t.I2].Position)
	return sum.Mul(1.0 / 3).Normalize()
}
