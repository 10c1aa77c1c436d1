package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approxVec(a, b mgl32.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-5)
}

func TestDefaultCameraLooksAtOriginFromPlusZ(t *testing.T) {
	c := NewCamera()
	if !approxVec(c.Eye(), mgl32.Vec3{0, 0, 3}) {
		t.Fatalf("eye %v, want (0,0,3)", c.Eye())
	}
	if got := c.Fov(); math.Abs(float64(got)-math.Pi/4) > 1e-6 {
		t.Fatalf("fov %v, want pi/4", got)
	}

	// The origin projects to the center of the screen, in front of the camera.
	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip[3])
	if math.Abs(float64(ndc[0])) > 1e-5 || math.Abs(float64(ndc[1])) > 1e-5 {
		t.Fatalf("origin projects to %v", ndc)
	}
	if ndc[2] <= 0 || ndc[2] >= 1 {
		t.Fatalf("origin depth %v outside (0, 1)", ndc[2])
	}
}

func TestSetAspectUpdatesProjection(t *testing.T) {
	c := NewCamera()
	before := c.ProjectionMatrix()[0]
	c.SetAspect(2)
	if after := c.ProjectionMatrix()[0]; math.Abs(float64(after*2-before)) > 1e-5 {
		t.Fatalf("x scale %v after doubling aspect, was %v", after, before)
	}
}

func TestControllerOrbitAndClamp(t *testing.T) {
	cc := NewCameraController(WithOrbitSpeed(0.1), WithElevationBounds(-0.15, 0.15), WithRadiusBounds(2, 4))

	cc.OrbitUp()
	cc.OrbitUp()
	if got := cc.Elevation(); math.Abs(float64(got)-0.15) > 1e-6 {
		t.Fatalf("elevation %v, want clamp at 0.15", got)
	}
	cc.OrbitRight()
	if got := cc.Azimuth(); math.Abs(float64(got)-0.1) > 1e-6 {
		t.Fatalf("azimuth %v, want 0.1", got)
	}
	if d := cc.Position().Sub(cc.Target()).Len(); math.Abs(float64(d)-3) > 1e-5 {
		t.Fatalf("distance to target %v, want 3", d)
	}

	cc.Zoom(100)
	if cc.Radius() != 2 {
		t.Fatalf("radius %v after zooming in, want 2", cc.Radius())
	}
	cc.SetRadius(50)
	if cc.Radius() != 4 {
		t.Fatalf("radius %v, want 4", cc.Radius())
	}

	cc.Orbit(0.2, 1)
	if got := cc.Azimuth(); math.Abs(float64(got)-0.3) > 1e-6 {
		t.Fatalf("azimuth %v after drag, want 0.3", got)
	}
	if got := cc.Elevation(); math.Abs(float64(got)-0.15) > 1e-6 {
		t.Fatalf("elevation %v after drag, want clamp at 0.15", got)
	}

	cc.Reset()
	if !approxVec(cc.Position(), mgl32.Vec3{0, 0, 3}) {
		t.Fatalf("position after reset %v", cc.Position())
	}
}

func TestCameraFollowsControllerAfterUpdate(t *testing.T) {
	cc := NewCameraController()
	c := NewCamera(WithController(cc))
	view := c.ViewMatrix()

	cc.OrbitLeft()
	if c.ViewMatrix() != view {
		t.Fatalf("view changed before Update")
	}
	c.Update()
	if c.ViewMatrix() == view {
		t.Fatalf("view unchanged after Update")
	}
}

func TestUniformContents(t *testing.T) {
	c := NewCamera()
	model := SwayRotation(1, 0.5)
	u := c.Uniform(model)

	want := c.ViewProjectionMatrix().Mul4(model)
	if mgl32.Mat4(u.MVP) != want {
		t.Fatalf("mvp mismatch")
	}
	if mgl32.Mat4(u.Model) != model {
		t.Fatalf("model mismatch")
	}
	if !approxVec(u.EyePosition, mgl32.Vec3{0, 0, 3}) {
		t.Fatalf("eye %v", u.EyePosition)
	}
	// A pure rotation is its own normal matrix.
	if math.Abs(float64(u.NormalMatrix[0]-model[0])) > 1e-5 || math.Abs(float64(u.NormalMatrix[2]-model[2])) > 1e-5 {
		t.Fatalf("normal matrix column 0 %v, model column 0 %v", u.NormalMatrix[:3], model[:3])
	}
}

func TestUniformMarshalLayout(t *testing.T) {
	u := GPUCameraUniform{EyePosition: [3]float32{1, 2, 3}}
	u.MVP[0] = 7
	u.Model[15] = 9
	u.NormalMatrix[4] = 5

	if u.Size() != 192 {
		t.Fatalf("size %d, want 192", u.Size())
	}
	buf := u.Marshal()
	if len(buf) != 192 {
		t.Fatalf("marshaled %d bytes", len(buf))
	}
	read := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
	}
	checks := []struct {
		off  int
		want float32
	}{
		{0, 7},
		{64 + 15*4, 9},
		{128 + 4*4, 5},
		{176, 1},
		{184, 3},
		{188, 0},
	}
	for _, c := range checks {
		if got := read(c.off); got != c.want {
			t.Errorf("offset %d: %v, want %v", c.off, got, c.want)
		}
	}
}

func TestVisible(t *testing.T) {
	c := NewCamera()
	if !c.Visible(mgl32.Ident4(), 1) {
		t.Fatalf("unit sphere at origin reported invisible")
	}
	if c.Visible(mgl32.Translate3D(0, 0, 10), 1) {
		t.Fatalf("sphere behind the camera reported visible")
	}
}

func TestSwayRotation(t *testing.T) {
	if SwayRotation(0, 0.5) != mgl32.Ident4() {
		t.Fatalf("rotation at t=0 is not identity")
	}
	// At t = pi/2 the angle peaks at the amplitude.
	m := SwayRotation(math.Pi/2, 0.5)
	got := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	want := mgl32.Vec3{float32(math.Sin(0.5)), 0, float32(math.Cos(0.5))}
	if !approxVec(got, want) {
		t.Fatalf("rotated +Z is %v, want %v", got, want)
	}
}
