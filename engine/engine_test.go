package engine

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/light"
	"github.com/Carmen-Shannon/geosphere/engine/profiler"
	"github.com/Carmen-Shannon/geosphere/engine/scene"
)

// fakeRenderer records the frame lifecycle and doubles as the scene's mesh renderer.
type fakeRenderer struct {
	calls    []string
	beginErr error
	width    int
	height   int
}

func (f *fakeRenderer) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.calls = append(f.calls, "begin")
	return nil
}

func (f *fakeRenderer) EndFrame() { f.calls = append(f.calls, "end") }
func (f *fakeRenderer) Present() { f.calls = append(f.calls, "present") }
func (f *fakeRenderer) Resize(width, height int) { f.width, f.height = width, height }

func (f *fakeRenderer) UploadMesh(_ []byte, _ int) error {
	f.calls = append(f.calls, "upload")
	return nil
}

func (f *fakeRenderer) WriteCamera(camera.GPUCameraUniform) {}
func (f *fakeRenderer) WriteLight(light.GPULightUniform) {}

func (f *fakeRenderer) DrawMesh(string) error {
	f.calls = append(f.calls, "draw")
	return nil
}

func newTestScene(t *testing.T, r scene.MeshRenderer) scene.Scene {
	t.Helper()
	s, err := scene.NewScene("sphere", camera.NewCamera(), r, scene.WithActive(true))
	if err != nil {
		t.Fatalf("NewScene: %v", err)
	}
	t.Cleanup(s.Release)
	return s
}

func runUntilDone(t *testing.T, e Engine) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		e.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		e.Quit()
		t.Fatal("engine did not stop on its own")
	}
}

func TestMaxFramesWithFixedTimestep(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(t, r)

	var hooked []int
	var shownAt []float32
	e := NewEngine(
		WithRenderer(r),
		WithScene(0, s),
		WithFixedTimestep(1.0/40),
		WithMaxFrames(4),
		WithFrameHook(func(frame int) error {
			hooked = append(hooked, frame)
			shownAt = append(shownAt, s.Elapsed())
			return nil
		}),
	)
	runUntilDone(t, e)

	if e.FrameCount() != 4 {
		t.Fatalf("rendered %d frames, want 4", e.FrameCount())
	}
	if len(hooked) != 4 || hooked[0] != 0 || hooked[3] != 3 {
		t.Fatalf("hook saw frames %v, want [0 1 2 3]", hooked)
	}
	// Frame k is drawn before the step, at k/40 seconds.
	for k, at := range shownAt {
		if want := float32(k) / 40; at < want-1e-6 || at > want+1e-6 {
			t.Fatalf("frame %d drawn at t=%v, want %v", k, at, want)
		}
	}
	if got := s.Elapsed(); got < 0.0999 || got > 0.1001 {
		t.Fatalf("scene elapsed %v, want 0.1", got)
	}

	want := "begin upload draw end present begin draw end present"
	if got := strings.Join(r.calls[:9], " "); got != want {
		t.Fatalf("call order %q, want %q", got, want)
	}
}

func TestFrameHookErrorStopsEngine(t *testing.T) {
	r := &fakeRenderer{}
	e := NewEngine(
		WithRenderer(r),
		WithScene(0, newTestScene(t, r)),
		WithFrameHook(func(frame int) error {
			if frame == 1 {
				return errors.New("disk full")
			}
			return nil
		}),
	)
	runUntilDone(t, e)

	if e.FrameCount() != 1 {
		t.Fatalf("rendered %d complete frames, want 1", e.FrameCount())
	}
	if last := r.calls[len(r.calls)-1]; last != "present" {
		t.Fatalf("last call %q, want the failing frame to still be presented", last)
	}
}

func TestSkippedFramesAreNotCounted(t *testing.T) {
	r := &fakeRenderer{beginErr: errors.New("surface lost")}
	s := newTestScene(t, r)
	e := NewEngine(WithRenderer(r), WithScene(0, s)).(*engine)

	for range 3 {
		if !e.renderFrame(0.1) {
			t.Fatal("renderFrame asked to stop")
		}
	}
	if e.frameCount != 0 || len(r.calls) != 0 {
		t.Fatalf("frameCount=%d calls=%v", e.frameCount, r.calls)
	}
	if s.Elapsed() != 0 {
		t.Fatalf("skipped frames advanced the scene to %v", s.Elapsed())
	}
}

func TestInactiveScenesAreNotDrawn(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(t, r)
	s.SetActive(false)
	e := NewEngine(WithRenderer(r), WithScene(0, s)).(*engine)

	e.renderFrame(0.5)
	if len(r.calls) != 0 {
		t.Fatalf("calls %v for an inactive scene", r.calls)
	}
	if s.Elapsed() != 0 {
		t.Fatalf("inactive scene advanced to %v", s.Elapsed())
	}
}

func TestProfilerSeesMesh(t *testing.T) {
	r := &fakeRenderer{}
	var buf bytes.Buffer
	p := profiler.NewProfiler(profiler.WithUpdateInterval(time.Nanosecond), profiler.WithLogger(log.New(&buf, "", 0)))
	e := NewEngine(WithRenderer(r), WithScene(0, newTestScene(t, r)), WithProfiler(p), WithProfiling(true)).(*engine)

	time.Sleep(time.Millisecond)
	e.renderFrame(0.1)
	if !strings.Contains(buf.String(), "triangulated D=0, 60 verts") {
		t.Fatalf("profiler line %q does not describe the mesh", buf.String())
	}
	if e.Profiler() != p {
		t.Fatal("profiler not replaced")
	}
}

func TestResizeUpdatesRendererAndCamera(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(t, r)
	e := NewEngine(WithRenderer(r), WithScene(0, s)).(*engine)

	e.resize(800, 400)
	if r.width != 800 || r.height != 400 {
		t.Fatalf("renderer size %dx%d", r.width, r.height)
	}
	if got := s.Camera().Aspect(); got != 2 {
		t.Fatalf("camera aspect %v, want 2", got)
	}

	e.resize(0, 400)
	if r.width != 800 {
		t.Fatal("zero-sized resize reached the renderer")
	}
}

func TestSceneRegistry(t *testing.T) {
	r := &fakeRenderer{}
	e := NewEngine()
	s := newTestScene(t, r)

	e.AddScene(2, s)
	if e.Scene(2) != s || len(e.Scenes()) != 1 {
		t.Fatal("scene not registered")
	}
	e.RemoveScene(2)
	if e.Scene(2) != nil {
		t.Fatal("scene not removed")
	}
}
