package geodesic

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// recordingSink keeps leaves in arrival order.
type recordingSink struct {
	leaves []Triangle
}

func (r *recordingSink) Leaf(t Triangle) {
	r.leaves = append(r.leaves, t)
}

func seededIndex(snap float64) (*VertexIndex, []Triangle) {
	positions, faces := BaseMesh()
	index := NewVertexIndex(snap, 0)
	for _, p := range positions {
		index.MaybeAdd(p)
	}
	return index, faces
}

// recursiveSubdivide is the textbook recursive walk, used as the reference
// for the iterative Subdivider.
func recursiveSubdivide(index *VertexIndex, t Triangle, depth, maxDepth int, sink LeafSink) {
	if depth == maxDepth {
		sink.Leaf(t)
		return
	}
	mid := func(a, b int) int {
		if b < a {
			a, b = b, a
		}
		return index.MaybeAdd(index.Position(a).Add(index.Position(b)).Mul(0.5).Normalize())
	}
	i01 := mid(t.I0, t.I1)
	i12 := mid(t.I1, t.I2)
	i20 := mid(t.I2, t.I0)
	recursiveSubdivide(index, Triangle{t.I0, i01, i20}, depth+1, maxDepth, sink)
	recursiveSubdivide(index, Triangle{i01, t.I1, i12}, depth+1, maxDepth, sink)
	recursiveSubdivide(index, Triangle{i20, i12, t.I2}, depth+1, maxDepth, sink)
	recursiveSubdivide(index, Triangle{i01, i12, i20}, depth+1, maxDepth, sink)
}

func TestBaseMeshIsZeroBased(t *testing.T) {
	positions, faces := BaseMesh()
	if len(positions) != 12 || len(faces) != 20 {
		t.Fatalf("base mesh has %d vertices / %d faces", len(positions), len(faces))
	}
	uses := make([]int, len(positions))
	for _, f := range faces {
		for _, i := range []int{f.I0, f.I1, f.I2} {
			if i < 0 || i >= len(positions) {
				t.Fatalf("face %v index %d out of range", f, i)
			}
			uses[i]++
		}
	}
	for i, n := range uses {
		if n != 5 {
			t.Errorf("vertex %d touches %d faces, want 5", i, n)
		}
	}
	for i, p := range positions {
		if math.Abs(float64(p.Len())-1) > 1e-5 {
			t.Errorf("vertex %d magnitude %v", i, p.Len())
		}
	}
}

func TestSubdivideMatchesRecursiveOrder(t *testing.T) {
	for d := 0; d <= 3; d++ {
		iterIndex, faces := seededIndex(0)
		iter := &recordingSink{}
		sub := NewSubdivider(iterIndex, d)
		for _, f := range faces {
			sub.Subdivide(f, iter)
		}

		recIndex, _ := seededIndex(0)
		rec := &recordingSink{}
		for _, f := range faces {
			recursiveSubdivide(recIndex, f, 0, d, rec)
		}

		if len(iter.leaves) != len(rec.leaves) {
			t.Fatalf("depth %d: %d leaves, reference has %d", d, len(iter.leaves), len(rec.leaves))
		}
		for i := range rec.leaves {
			if iter.leaves[i] != rec.leaves[i] {
				t.Fatalf("depth %d: leaf %d is %v, reference %v", d, i, iter.leaves[i], rec.leaves[i])
			}
		}
		if iterIndex.Len() != recIndex.Len() {
			t.Fatalf("depth %d: %d vertices, reference %d", d, iterIndex.Len(), recIndex.Len())
		}
		for i := 0; i < recIndex.Len(); i++ {
			if iterIndex.Position(i) != recIndex.Position(i) {
				t.Fatalf("depth %d: vertex %d differs from reference", d, i)
			}
		}
	}
}

func TestSubdividedVerticesAreOnUnitSphere(t *testing.T) {
	index, faces := seededIndex(0)
	sub := NewSubdivider(index, 4)
	sink := &recordingSink{}
	for _, f := range faces {
		sub.Subdivide(f, sink)
	}
	if want := 10*pow4(4) + 2; index.Len() != want {
		t.Fatalf("%d vertices, want %d", index.Len(), want)
	}
	for i, v := range index.Vertices() {
		if math.Abs(float64(v.Position.Len())-1) > 1e-5 {
			t.Fatalf("vertex %d magnitude %v", i, v.Position.Len())
		}
		if len(v.Adjacent) != 0 {
			t.Fatalf("vertex %d has adjacency before BuildAdjacency", i)
		}
	}
}

func TestSubdivideLeavesPerFace(t *testing.T) {
	index, faces := seededIndex(0)
	sub := NewSubdivider(index, 3)
	sink := &recordingSink{}
	sub.Subdivide(faces[0], sink)
	if len(sink.leaves) != pow4(3) {
		t.Fatalf("%d leaves from one face, want %d", len(sink.leaves), pow4(3))
	}
}

func TestMidpointIsSymmetric(t *testing.T) {
	index, _ := seededIndex(0)
	sub := NewSubdivider(index, 1)
	a := sub.midpoint(0, 6)
	b := sub.midpoint(6, 0)
	if a != b {
		t.Fatalf("midpoint(0,6)=%d, midpoint(6,0)=%d", a, b)
	}
	want := index.Position(0).Add(index.Position(6)).Mul(0.5).Normalize()
	if index.Position(a) != want {
		t.Fatalf("midpoint position %v, want %v", index.Position(a), want)
	}
}

func TestBuildAdjacencyKeepsLeafOrder(t *testing.T) {
	vertices := make([]SourceVertex, 4)
	leaves := []Triangle{{0, 1, 2}, {0, 2, 3}, {1, 3, 0}}
	BuildAdjacency(vertices, leaves)

	want := map[int][]Triangle{
		0: {{0, 1, 2}, {0, 2, 3}, {1, 3, 0}},
		1: {{0, 1, 2}, {1, 3, 0}},
		2: {{0, 1, 2}, {0, 2, 3}},
		3: {{0, 2, 3}, {1, 3, 0}},
	}
	for v, tris := range want {
		got := vertices[v].Adjacent
		if len(got) != len(tris) {
			t.Fatalf("vertex %d: %d adjacent, want %d", v, len(got), len(tris))
		}
		for i := range tris {
			if got[i] != tris[i] {
				t.Fatalf("vertex %d adjacency[%d] = %v, want %v", v, i, got[i], tris[i])
			}
		}
	}
}

func TestFlatEmitterUsesUnnormalizedCentroid(t *testing.T) {
	index := NewVertexIndex(0, 3)
	index.MaybeAdd(mgl32.Vec3{1, 0, 0})
	index.MaybeAdd(mgl32.Vec3{0, 1, 0})
	index.MaybeAdd(mgl32.Vec3{0, 0, 1})

	e := &flatEmitter{index: index}
	e.Leaf(Triangle{0, 1, 2})
	if len(e.out) != 3 {
		t.Fatalf("emitted %d vertices, want 3", len(e.out))
	}
	third := float32(1.0 / 3)
	for i, v := range e.out {
		if v.Normal != [3]float32{third, third, third} {
			t.Fatalf("vertex %d normal %v, want the raw centroid", i, v.Normal)
		}
	}
	if mgl32.Vec3(e.out[0].Normal).Len() > 0.6 {
		t.Fatalf("centroid normal was normalized")
	}
}
