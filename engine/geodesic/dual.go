package geodesic

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// BuildDualPolygons reconstructs one polygon around every source vertex that
// has at least one adjacent leaf triangle. Vertices are visited in table order.
//
// Parameters:
//   - vertices: the source-vertex table with adjacency populated
//   - ordering: the face-point ordering strategy
//
// Returns:
//   - []Polygon: the ordered and wound dual polygons
func BuildDualPolygons(vertices []SourceVertex, ordering PolygonOrdering) []Polygon {
	polygons := make([]Polygon, 0, len(vertices))
	for i := range vertices {
		if len(vertices[i].Adjacent) == 0 {
			continue
		}
		polygons = append(polygons, reconstructPolygon(vertices, i, ordering))
	}
	return polygons
}

// reconstructPolygon builds the dual polygon around vertices[src].
// Panics when the vertex has fewer than three adjacent triangles; the
// subdivision walk never produces such a vertex.
func reconstructPolygon(vertices []SourceVertex, src int, ordering PolygonOrdering) Polygon {
	adjacent := vertices[src].Adjacent
	if len(adjacent) < 3 {
		panic(fmt.Sprintf("geodesic: vertex %d has %d adjacent triangles, a dual polygon needs at least 3", src, len(adjacent)))
	}

	points := make([]mgl32.Vec3, len(adjacent))
	for i, t := range adjacent {
		points[i] = faceCenter(vertices, t)
	}

	switch ordering {
	case OrderAngular:
		orderByAngle(points)
	default:
		orderNearestNeighbor(points)
	}

	center := centroid(points)
	normal := center.Normalize()

	// Reverse so the polygon winds counter-clockwise seen from outside.
	r := points[0].Sub(center).Cross(points[1].Sub(center))
	if r.Dot(normal) < 0 {
		slices.Reverse(points)
	}

	return Polygon{
		Source: src,
		Center: center,
		Normal: normal,
		Points: points,
	}
}

// orderNearestNeighbor reorders points in place into a greedy chain: starting
// from points[0], each slot receives the closest point not yet placed. Ties go
// to the earliest candidate. The final slot is whatever remains.
func orderNearestNeighbor(points []mgl32.Vec3) {
	for i := 1; i < len(points)-1; i++ {
		prev := points[i-1]
		best := i
		bestDist := points[i].Sub(prev).Len()
		for j := i + 1; j < len(points); j++ {
			if d := points[j].Sub(prev).Len(); d < bestDist {
				best, bestDist = j, d
			}
		}
		points[i], points[best] = points[best], points[i]
	}
}

// orderByAngle sorts points by their angle around the provisional polygon
// normal, measured from points[0], which stays first.
func orderByAngle(points []mgl32.Vec3) {
	center := centroid(points)
	normal := center.Normalize()

	ref := points[0].Sub(center)
	u := ref.Sub(normal.Mul(ref.Dot(normal))).Normalize()
	w := normal.Cross(u)

	type angled struct {
		p     mgl32.Vec3
		angle float64
	}
	sorted := make([]angled, len(points))
	for i, p := range points {
		d := p.Sub(center)
		a := math.Atan2(float64(d.Dot(w)), float64(d.Dot(u)))
		if a < 0 {
			a += 2 * math.Pi
		}
		if i == 0 {
			a = 0
		}
		sorted[i] = angled{p: p, angle: a}
	}
	slices.SortStableFunc(sorted, func(a, b angled) int {
		return cmp.Compare(a.angle, b.angle)
	})
	for i := range sorted {
		points[i] = sorted[i].p
	}
}

func centroid(points []mgl32.Vec3) mgl32.Vec3 {
	var sum mgl32.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float32(len(points)))
}

// EmitFans triangulates each polygon as a fan around its center. Every polygon
// edge yields one (center, p[i], p[i+1]) triangle, wrapping at the end, and all
// three vertices carry the polygon's outward normal.
//
// Parameters:
//   - polygons: the dual polygons to emit
//
// Returns:
//   - []GPUVertex: a flat triangle list
func EmitFans(polygons []Polygon) []GPUVertex {
	n := 0
	for _, p := range polygons {
		n += 3 * len(p.Points)
	}
	out := make([]GPUVertex, 0, n)
	for _, p := range polygons {
		for i, a := range p.Points {
			b := p.Points[(i+1)%len(p.Points)]
			out = append(out,
				GPUVertex{Position: p.Center, Normal: p.Normal},
				GPUVertex{Position: a, Normal: p.Normal},
				GPUVertex{Position: b, Normal: p.Normal},
			)
		}
	}
	return out
}
