package geodesic

// SphereBuilderOption is a functional option for configuring a Sphere via NewSphere.
type SphereBuilderOption func(*sphere)

// WithSubdivisions is an option builder that sets the recursion depth of the Sphere.
// Each level splits every triangle into four.
//
// Parameters:
//   - n: the subdivision depth (must be >= 0)
//
// Returns:
//   - SphereBuilderOption: a function that applies the subdivisions option to a sphere
func WithSubdivisions(n int) SphereBuilderOption {
	return func(s *sphere) {
		s.subdivisions = n
	}
}

// WithDual is an option builder that selects the dual (hexagon/pentagon) mesh
// instead of the triangulated one.
//
// Parameters:
//   - dual: true to emit dual polygons
//
// Returns:
//   - SphereBuilderOption: a function that applies the dual option to a sphere
func WithDual(dual bool) SphereBuilderOption {
	return func(s *sphere) {
		s.dual = dual
	}
}

// WithPolygonOrdering is an option builder that sets how dual polygon face points are ordered.
// Has no effect on triangulated meshes.
//
// Parameters:
//   - ordering: the ordering strategy (default OrderNearestNeighbor)
//
// Returns:
//   - SphereBuilderOption: a function that applies the ordering option to a sphere
func WithPolygonOrdering(ordering PolygonOrdering) SphereBuilderOption {
	return func(s *sphere) {
		s.ordering = ordering
	}
}

// WithSnapPrecision is an option builder that makes vertex deduplication quantize
// coordinates to a grid of the given spacing instead of comparing exact bits.
// Points closer than the spacing then collapse even when they were computed
// with different rounding.
//
// Parameters:
//   - precision: the grid spacing, or 0 for exact comparison (default)
//
// Returns:
//   - SphereBuilderOption: a function that applies the snap precision option to a sphere
func WithSnapPrecision(precision float64) SphereBuilderOption {
	return func(s *sphere) {
		s.snapPrecision = precision
	}
}
