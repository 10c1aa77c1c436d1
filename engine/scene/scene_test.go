package scene

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/Carmen-Shannon/geosphere/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeRenderer struct {
	mu        sync.Mutex
	uploads   []int
	uniforms  []camera.GPUCameraUniform
	lights    []light.GPULightUniform
	draws     []string
	uploadErr error
}

func (f *fakeRenderer) UploadMesh(data []byte, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if len(data) != count*geodesic.GPUVertexStride {
		return errors.New("vertex data size mismatch")
	}
	f.uploads = append(f.uploads, count)
	return nil
}

func (f *fakeRenderer) WriteCamera(u camera.GPUCameraUniform) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uniforms = append(f.uniforms, u)
}

func (f *fakeRenderer) WriteLight(u light.GPULightUniform) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lights = append(f.lights, u)
}

func (f *fakeRenderer) DrawMesh(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draws = append(f.draws, key)
	return nil
}

func newTestScene(t *testing.T, r MeshRenderer, options ...SceneBuilderOption) Scene {
	t.Helper()
	s, err := NewScene("test", camera.NewCamera(), r, options...)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	t.Cleanup(s.Release)
	return s
}

func TestNewSceneBuildsInitialMesh(t *testing.T) {
	s := newTestScene(t, nil, WithSubdivisions(1))
	if got := s.Sphere().VertexCount(); got != 240 {
		t.Fatalf("vertex count %d, want 240", got)
	}
	if s.Dual() || s.Ordering() != geodesic.OrderNearestNeighbor {
		t.Fatalf("unexpected defaults dual=%t ordering=%s", s.Dual(), s.Ordering())
	}
}

func TestNewSceneRejectsOutOfRangeDepth(t *testing.T) {
	for _, d := range []int{-1, 4} {
		if _, err := NewScene("bad", camera.NewCamera(), nil, WithSubdivisions(d), WithMaxSubdivisions(3)); err == nil {
			t.Errorf("depth %d: expected an error", d)
		}
	}
}

func TestDrawCallsUploadsOnceAndDraws(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(t, r, WithPipelineKey("custom"))

	for range 3 {
		if err := s.DrawCalls(); err != nil {
			t.Fatalf("DrawCalls: %v", err)
		}
	}
	if len(r.uploads) != 1 || r.uploads[0] != 60 {
		t.Fatalf("uploads %v, want [60]", r.uploads)
	}
	if len(r.draws) != 3 || r.draws[0] != "custom" {
		t.Fatalf("draws %v", r.draws)
	}
	if len(r.uniforms) != 3 {
		t.Fatalf("got %d uniform writes, want 3", len(r.uniforms))
	}
}

func TestDrawCallsWithoutRenderer(t *testing.T) {
	s := newTestScene(t, nil)
	if err := s.DrawCalls(); err == nil {
		t.Fatal("expected an error without a renderer")
	}

	r := &fakeRenderer{}
	s.SetRenderer(r)
	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if len(r.uploads) != 1 {
		t.Fatalf("mesh not uploaded to the new renderer: %v", r.uploads)
	}
}

func TestDrawCallsUploadError(t *testing.T) {
	r := &fakeRenderer{uploadErr: errors.New("out of memory")}
	s := newTestScene(t, r)
	if err := s.DrawCalls(); err == nil {
		t.Fatal("expected the upload error")
	}
	if len(r.draws) != 0 {
		t.Fatalf("drew after a failed upload: %v", r.draws)
	}
}

func TestToggleDualRebuilds(t *testing.T) {
	r := &fakeRenderer{}
	var rebuilt []int
	s := newTestScene(t, r, WithRebuildCallback(func(sph geodesic.Sphere) {
		rebuilt = append(rebuilt, sph.VertexCount())
	}))
	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}

	s.ToggleDual()
	s.Wait()
	if !s.Dual() || !s.Sphere().Dual() {
		t.Fatal("sphere was not rebuilt as dual")
	}
	if got := s.Sphere().Stats().PolygonSizes[5]; got != 12 {
		t.Fatalf("got %d pentagons, want 12", got)
	}
	if len(rebuilt) != 1 || rebuilt[0] != 180 {
		t.Fatalf("rebuild callback saw %v, want [180]", rebuilt)
	}

	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if len(r.uploads) != 2 || r.uploads[1] != 180 {
		t.Fatalf("uploads %v, want [60 180]", r.uploads)
	}
}

func TestToggleOrderingKeepsPolygonCounts(t *testing.T) {
	s := newTestScene(t, nil, WithDual(true), WithSubdivisions(1))
	before := s.Sphere().Stats()

	s.ToggleOrdering()
	s.Wait()
	if s.Ordering() != geodesic.OrderAngular || s.Sphere().Ordering() != geodesic.OrderAngular {
		t.Fatalf("ordering %s, want angular", s.Ordering())
	}
	after := s.Sphere().Stats()
	if after.Polygons != before.Polygons || after.PolygonSizes[6] != before.PolygonSizes[6] {
		t.Fatalf("polygon stats changed: %+v -> %+v", before, after)
	}

	s.ToggleOrdering()
	s.Wait()
	if s.Ordering() != geodesic.OrderNearestNeighbor {
		t.Fatalf("ordering %s, want nearest", s.Ordering())
	}
}

func TestSetSubdivisionsBounds(t *testing.T) {
	s := newTestScene(t, nil, WithMaxSubdivisions(2))

	if err := s.SetSubdivisions(3); err == nil {
		t.Fatal("expected an error above the maximum")
	}
	if err := s.SetSubdivisions(-1); err == nil {
		t.Fatal("expected an error below zero")
	}
	if s.Subdivisions() != 0 {
		t.Fatalf("rejected depth changed settings to %d", s.Subdivisions())
	}

	if err := s.SetSubdivisions(2); err != nil {
		t.Fatalf("SetSubdivisions: %v", err)
	}
	s.Wait()
	if got := s.Sphere().VertexCount(); got != 60*16 {
		t.Fatalf("vertex count %d, want %d", got, 60*16)
	}
}

func TestLatestRebuildWins(t *testing.T) {
	s := newTestScene(t, nil, WithMaxSubdivisions(3))
	for d := 1; d <= 3; d++ {
		if err := s.SetSubdivisions(d); err != nil {
			t.Fatalf("SetSubdivisions(%d): %v", d, err)
		}
	}
	s.Wait()
	if got := s.Sphere().Subdivisions(); got != 3 {
		t.Fatalf("installed depth %d, want 3", got)
	}
}

func TestWaitReturnsAfterRelease(t *testing.T) {
	s := newTestScene(t, &fakeRenderer{})
	for i := range 6 {
		if err := s.SetSubdivisions(6 + i%2); err != nil {
			t.Fatalf("SetSubdivisions: %v", err)
		}
	}
	s.Release()
	// Changes after Release must not queue work nobody will run.
	s.ToggleDual()

	done := make(chan struct{})
	go func() {
		s.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Wait blocked after Release")
	}
	if !s.Dual() {
		t.Error("settings change after Release was not recorded")
	}
}

func TestUpdateAndPause(t *testing.T) {
	s := newTestScene(t, nil)

	s.Update(0.5)
	if got := s.Elapsed(); got != 0.5 {
		t.Fatalf("elapsed %v, want 0.5", got)
	}
	want := camera.SwayRotation(0.5, DefaultSwayAmplitude)
	if !s.ModelMatrix().ApproxEqual(want) {
		t.Fatalf("model matrix %v, want %v", s.ModelMatrix(), want)
	}

	s.TogglePaused()
	s.Update(0.5)
	if !s.Paused() || s.Elapsed() != 0.5 {
		t.Fatalf("paused scene advanced to %v", s.Elapsed())
	}

	s.TogglePaused()
	s.Update(0.25)
	if s.Elapsed() != 0.75 {
		t.Fatalf("elapsed %v, want 0.75", s.Elapsed())
	}
}

func TestZeroSwayHoldsStill(t *testing.T) {
	s := newTestScene(t, nil, WithSwayAmplitude(0))
	s.Update(1.3)
	if !s.ModelMatrix().ApproxEqual(mgl32.Ident4()) {
		t.Fatalf("model matrix %v, want identity", s.ModelMatrix())
	}
}

func TestCulledSceneSkipsDraw(t *testing.T) {
	r := &fakeRenderer{}
	// The sphere's near side is 2 units from the eye, past the far plane.
	cam := camera.NewCamera(camera.WithFar(1.5))
	s, err := NewScene("culled", cam, r)
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	defer s.Release()

	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if len(r.draws) != 0 {
		t.Fatalf("culled sphere was drawn: %v", r.draws)
	}

	s.SetCullingDisabled(true)
	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if len(r.draws) != 1 {
		t.Fatalf("draws %v, want one with culling disabled", r.draws)
	}
}

func TestAccessors(t *testing.T) {
	s := newTestScene(t, nil, WithActive(true))
	if !s.Active() || s.Name() != "test" {
		t.Fatalf("active=%t name=%q", s.Active(), s.Name())
	}
	s.SetActive(false)
	s.SetName("renamed")
	if s.Active() || s.Name() != "renamed" {
		t.Fatalf("active=%t name=%q", s.Active(), s.Name())
	}
	cam := camera.NewCamera()
	s.SetCamera(cam)
	if s.Camera() != cam {
		t.Fatal("camera not replaced")
	}
}

func TestDrawCallsWritesLight(t *testing.T) {
	r := &fakeRenderer{}
	l := light.NewLight(light.WithAmbient(0.4))
	s := newTestScene(t, r, WithLight(l))
	if s.Light() != l {
		t.Fatal("light option not applied")
	}

	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	l.SetDirection(0, 0, 1)
	if err := s.DrawCalls(); err != nil {
		t.Fatalf("DrawCalls: %v", err)
	}
	if len(r.lights) != 2 {
		t.Fatalf("got %d light writes, want 2", len(r.lights))
	}
	if r.lights[0].Ambient != 0.4 || r.lights[1].Direction != [3]float32{0, 0, 1} {
		t.Fatalf("light writes %+v", r.lights)
	}
}
