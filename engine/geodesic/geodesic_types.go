package geodesic

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrNegativeSubdivisions is returned by NewSphere when the requested depth is below zero.
var ErrNegativeSubdivisions = errors.New("geodesic: subdivisions must be non-negative")

// Triangle is a triple of indices into a source-vertex table.
type Triangle struct {
	I0, I1, I2 int
}

// SourceVertex is a deduplicated point on the unit sphere.
type SourceVertex struct {
	// Position is the unit-length location of the vertex.
	Position mgl32.Vec3

	// Adjacent holds the leaf triangles touching this vertex, in leaf order.
	// It is only populated when building a dual mesh.
	Adjacent []Triangle
}

// Polygon is one face of the dual mesh, centered on a source vertex.
type Polygon struct {
	// Source is the index of the source vertex the polygon surrounds.
	Source int

	// Center is the mean of the ordered face points.
	Center mgl32.Vec3

	// Normal is the outward unit normal shared by every fan triangle of the polygon.
	Normal mgl32.Vec3

	// Points are the face points, ordered into a simple polygon and wound
	// counter-clockwise when seen from outside.
	Points []mgl32.Vec3
}

// Stats summarizes a generated sphere. It outlives the intermediate
// structures that produced it.
type Stats struct {
	// SourceVertices is the number of distinct subdivided vertices.
	SourceVertices int `json:"sourceVertices"`

	// LeafTriangles is the number of triangles at the deepest subdivision level.
	LeafTriangles int `json:"leafTriangles"`

	// Polygons is the number of dual polygons emitted (0 in triangulated mode).
	Polygons int `json:"polygons"`

	// PolygonSizes maps a face-point count to the number of polygons with that many points.
	PolygonSizes map[int]int `json:"polygonSizes,omitempty"`
}

// PolygonOrdering selects how the face points of a dual polygon are put in order.
type PolygonOrdering int

const (
	// OrderNearestNeighbor chains each face point to the closest one not yet
	// placed, starting from the first. This reproduces the reference output.
	OrderNearestNeighbor PolygonOrdering = iota

	// OrderAngular sorts face points by angle around the polygon normal.
	// The resulting polygons are equally valid but not bit-identical to
	// OrderNearestNeighbor.
	OrderAngular
)

// String returns the configuration name of the ordering.
func (o PolygonOrdering) String() string {
	switch o {
	case OrderNearestNeighbor:
		return "nearest"
	case OrderAngular:
		return "angular"
	default:
		return fmt.Sprintf("PolygonOrdering(%d)", int(o))
	}
}

// ParsePolygonOrdering converts a configuration name into a PolygonOrdering.
// The empty string selects OrderNearestNeighbor.
//
// Parameters:
//   - name: "nearest", "angular", or ""
//
// Returns:
//   - PolygonOrdering: the parsed ordering
//   - error: error if the name is unknown
func ParsePolygonOrdering(name string) (PolygonOrdering, error) {
	switch name {
	case "", "nearest":
		return OrderNearestNeighbor, nil
	case "angular":
		return OrderAngular, nil
	default:
		return 0, fmt.Errorf("geodesic: unknown polygon ordering %q", name)
	}
}
