package geodesic

import "fmt"

// sphere is the implementation of the Sphere interface.
type sphere struct {
	subdivisions  int
	dual          bool
	ordering      PolygonOrdering
	snapPrecision float64

	vertices []GPUVertex
	stats    Stats
}

// Sphere is a generated geodesic sphere mesh.
// The mesh is built once by NewSphere and is read-only afterwards; only the
// flat vertex list and a Stats summary are retained.
type Sphere interface {
	// Subdivisions returns the recursion depth the sphere was built with.
	//
	// Returns:
	//   - int: the subdivision depth
	Subdivisions() int

	// Dual reports whether the sphere holds the dual (hexagon/pentagon) mesh.
	//
	// Returns:
	//   - bool: true for the dual mesh, false for the triangulated mesh
	Dual() bool

	// Ordering returns the face-point ordering used for dual polygons.
	//
	// Returns:
	//   - PolygonOrdering: the ordering strategy
	Ordering() PolygonOrdering

	// Vertices returns the flat, non-indexed triangle list. Every three
	// consecutive vertices form one triangle. The slice must not be modified.
	//
	// Returns:
	//   - []GPUVertex: the vertex list
	Vertices() []GPUVertex

	// VertexCount returns the number of vertices, which is also the draw count.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// TriangleCount returns the number of triangles in the vertex list.
	//
	// Returns:
	//   - int: VertexCount() / 3
	TriangleCount() int

	// VertexData returns the vertex list serialized for GPU upload.
	//
	// Returns:
	//   - []byte: VertexCount()*GPUVertexStride little-endian bytes
	VertexData() []byte

	// Stats returns counts describing the generated mesh.
	//
	// Returns:
	//   - Stats: the mesh statistics
	Stats() Stats
}

var _ Sphere = &sphere{}

// NewSphere generates a geodesic sphere with the specified options applied.
// The depth defaults to 0 and the triangulated mesh is produced unless
// WithDual(true) is given.
//
// Parameters:
//   - options: a variadic list of SphereBuilderOption functions to configure the Sphere
//
// Returns:
//   - Sphere: the generated sphere
//   - error: ErrNegativeSubdivisions if the depth is negative
func NewSphere(options ...SphereBuilderOption) (Sphere, error) {
	s := &sphere{}
	for _, opt := range options {
		opt(s)
	}
	if s.subdivisions < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNegativeSubdivisions, s.subdivisions)
	}
	s.generate()
	return s, nil
}

// generate builds the mesh. All intermediate state is local and dropped on return.
func (s *sphere) generate() {
	positions, faces := BaseMesh()

	leavesPerFace := 1 << (2 * s.subdivisions)
	leafCount := len(faces) * leavesPerFace
	index := NewVertexIndex(s.snapPrecision, leafCount/2+2)
	for _, p := range positions {
		index.MaybeAdd(p)
	}

	sub := NewSubdivider(index, s.subdivisions)
	s.stats = Stats{LeafTriangles: leafCount}

	if !s.dual {
		emitter := &flatEmitter{index: index, out: make([]GPUVertex, 0, 3*leafCount)}
		for _, f := range faces {
			sub.Subdivide(f, emitter)
		}
		s.vertices = emitter.out
		s.stats.SourceVertices = index.Len()
		return
	}

	collector := &leafCollector{leaves: make([]Triangle, 0, leafCount)}
	for _, f := range faces {
		sub.Subdivide(f, collector)
	}
	vertices := index.Vertices()
	BuildAdjacency(vertices, collector.leaves)

	polygons := BuildDualPolygons(vertices, s.ordering)
	s.vertices = EmitFans(polygons)

	s.stats.SourceVertices = index.Len()
	s.stats.Polygons = len(polygons)
	s.stats.PolygonSizes = make(map[int]int)
	for _, p := range polygons {
		s.stats.PolygonSizes[len(p.Points)]++
	}
}

func (s *sphere) Subdivisions() int {
	return s.subdivisions
}

func (s *sphere) Dual() bool {
	return s.dual
}

func (s *sphere) Ordering() PolygonOrdering {
	return s.ordering
}

func (s *sphere) Vertices() []GPUVertex {
	return s.vertices
}

func (s *sphere) VertexCount() int {
	return len(s.vertices)
}

func (s *sphere) TriangleCount() int {
	return len(s.vertices) / 3
}

func (s *sphere) VertexData() []byte {
	return MarshalVertices(s.vertices)
}

func (s *sphere) Stats() Stats {
	st := s.stats
	if s.stats.PolygonSizes != nil {
		st.PolygonSizes = make(map[int]int, len(s.stats.PolygonSizes))
		for k, v := range s.stats.PolygonSizes {
			st.PolygonSizes[k] = v
		}
	}
	return st
}
