package geodesic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestMaybeAddIsIdempotent(t *testing.T) {
	index := NewVertexIndex(0, 0)
	p := mgl32.Vec3{1, 2, 3}.Normalize()
	first := index.MaybeAdd(p)
	second := index.MaybeAdd(p)
	if first != second {
		t.Fatalf("same point got indices %d and %d", first, second)
	}
	if index.Len() != 1 {
		t.Fatalf("index holds %d vertices, want 1", index.Len())
	}
	if index.Position(first) != p {
		t.Fatalf("stored position %v, want %v", index.Position(first), p)
	}
	if adj := index.Vertices()[first].Adjacent; adj != nil {
		t.Fatalf("new vertex has adjacency %v", adj)
	}
}

func TestMaybeAddAllocatesSequentially(t *testing.T) {
	index := NewVertexIndex(0, 0)
	points := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, p := range points {
		if got := index.MaybeAdd(p); got != i {
			t.Fatalf("point %d got index %d", i, got)
		}
	}
	if got := index.MaybeAdd(points[1]); got != 1 {
		t.Fatalf("repeat lookup got %d, want 1", got)
	}
}

func TestExactKeysFoldNegativeZero(t *testing.T) {
	index := NewVertexIndex(0, 0)
	negZero := float32(math.Copysign(0, -1))
	a := index.MaybeAdd(mgl32.Vec3{0, 1, 0})
	b := index.MaybeAdd(mgl32.Vec3{negZero, 1, 0})
	if a != b {
		t.Fatalf("-0 and +0 produced distinct vertices %d and %d", a, b)
	}
}

func TestExactKeysSeparateRoundingNeighbors(t *testing.T) {
	index := NewVertexIndex(0, 0)
	p := mgl32.Vec3{0.6, 0.8, 0}
	q := mgl32.Vec3{math.Nextafter32(0.6, 1), 0.8, 0}
	if index.MaybeAdd(p) == index.MaybeAdd(q) {
		t.Fatalf("exact index merged points one ulp apart")
	}
}

func TestSnappedKeysMergeRoundingNeighbors(t *testing.T) {
	index := NewVertexIndex(1e-5, 0)
	p := mgl32.Vec3{0.6, 0.8, 0}
	q := mgl32.Vec3{math.Nextafter32(0.6, 1), 0.8, 0}
	a := index.MaybeAdd(p)
	b := index.MaybeAdd(q)
	if a != b {
		t.Fatalf("snapped index kept points one ulp apart distinct (%d, %d)", a, b)
	}
	if index.Position(a) != p {
		t.Fatalf("snapped index replaced the first position")
	}
	if c := index.MaybeAdd(mgl32.Vec3{0.8, 0.6, 0}); c == a {
		t.Fatalf("snapped index merged distinct points")
	}
}

func TestSnappedSphereKeepsClosedFormCount(t *testing.T) {
	for d := 0; d <= 4; d++ {
		s := mustSphere(t, WithSubdivisions(d), WithSnapPrecision(1e-6))
		if got, want := s.Stats().SourceVertices, 10*pow4(d)+2; got != want {
			t.Errorf("depth %d: %d vertices with snapping, want %d", d, got, want)
		}
	}
}
