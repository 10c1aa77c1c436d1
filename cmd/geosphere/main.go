// Command geosphere opens a window showing a slowly swaying geodesic sphere.
//
// Keys: T toggles the dual mesh, O toggles polygon ordering, Space pauses, = and -
// change the subdivision depth, arrows orbit, R resets the camera, Esc quits.
// Dragging orbits and scrolling zooms. With -d the first frames are written to
// numbered PPM files and the program exits.
package main

import (
	"flag"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/geosphere/common"
	"github.com/Carmen-Shannon/geosphere/engine"
	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/framedump"
	"github.com/Carmen-Shannon/geosphere/engine/profiler"
	"github.com/Carmen-Shannon/geosphere/engine/renderer"
	"github.com/Carmen-Shannon/geosphere/engine/scene"
	"github.com/Carmen-Shannon/geosphere/engine/window"
	"github.com/Carmen-Shannon/geosphere/internal/config"
)

// frameStep is the animation step per rendered frame outside of dump mode.
const frameStep = float32(1.0 / 60.0)

// dragSensitivity converts dragged pixels into orbit radians.
const dragSensitivity = 0.005

// keyState tracks which keys are held between the window thread and the tick goroutine.
type keyState struct {
	mu   sync.Mutex
	held map[uint32]bool
}

func (k *keyState) set(key uint32, down bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.held[key] = down
}

func (k *keyState) down(key uint32) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.held[key]
}

func main() {
	width := flag.Int("w", 512, "window width in pixels")
	height := flag.Int("h", 512, "window height in pixels")
	subdivisions := flag.Int("s", 3, "subdivision depth")
	triangulated := flag.Bool("t", false, "draw the triangulated mesh instead of the dual mesh")
	dump := flag.Bool("d", false, "write the first frames to numbered PPM files and exit")
	configPath := flag.String("config", "", "optional JSON settings file")
	profile := flag.Bool("profile", false, "log frame rate and memory statistics")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	// Flags given on the command line win over the settings file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w":
			settings.Window.Width = *width
		case "h":
			settings.Window.Height = *height
		case "s":
			settings.Mesh.Subdivisions = *subdivisions
		case "t":
			settings.Mesh.Dual = !*triangulated
		case "profile":
			settings.Profile.Enabled = *profile
		}
	})
	if err := settings.Validate(); err != nil {
		log.Fatalf("invalid settings: %v", err)
	}

	w := window.NewWindow(
		window.WithTitle(common.Coalesce(settings.Window.Title, "geosphere")),
		window.WithWidth(settings.Window.Width),
		window.WithHeight(settings.Window.Height),
		window.WithResizable(!*dump),
	)

	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		w,
		renderer.WithFrameCapture(*dump),
		renderer.WithPresentMode(presentMode(settings.Render.VSync)),
		renderer.WithMSAA(renderer.MSAASampleCount(settings.Render.MSAA)),
		renderer.WithClearColor(settings.Render.ClearColor[0], settings.Render.ClearColor[1], settings.Render.ClearColor[2], settings.Render.ClearColor[3]),
		renderer.WithForceSoftwareRenderer(settings.Render.Software),
	)

	cam := settings.NewCamera()

	sc, err := scene.NewScene("geosphere", cam, r,
		scene.WithActive(true),
		scene.WithSubdivisions(settings.Mesh.Subdivisions),
		scene.WithDual(settings.Mesh.Dual),
		scene.WithPolygonOrdering(settings.PolygonOrdering()),
		scene.WithSnapPrecision(settings.Mesh.SnapPrecision),
		scene.WithMaxSubdivisions(config.MaxSubdivisions),
		scene.WithPipelineKey(renderer.SpherePipelineKey),
		scene.WithLight(settings.NewLight()),
	)
	if err != nil {
		log.Fatalf("failed to build sphere: %v", err)
	}
	stats := sc.Sphere().Stats()
	log.Printf("geosphere: D=%d dual=%t, %d vertices, %d source vertices, %d polygons",
		settings.Mesh.Subdivisions, settings.Mesh.Dual, sc.Sphere().VertexCount(), stats.SourceVertices, stats.Polygons)

	opts := []engine.EngineBuilderOption{
		engine.WithWindow(w),
		engine.WithRenderer(r),
		engine.WithScene(0, sc),
		engine.WithTickRate(60),
		engine.WithRenderFrameLimit(settings.Window.FrameLimit),
		engine.WithFixedTimestep(frameStep),
		engine.WithProfiling(settings.Profile.Enabled),
		engine.WithProfiler(profiler.NewProfiler(
			profiler.WithUpdateInterval(time.Duration(settings.Profile.IntervalMs) * time.Millisecond),
		)),
	}

	var dumper framedump.Dumper
	if *dump {
		dumper, err = framedump.NewDumper(settings.Dump.Dir, framedump.WithFrameCount(settings.Dump.Frames))
		if err != nil {
			log.Fatalf("failed to start frame dump: %v", err)
		}
		opts = append(opts,
			engine.WithFixedTimestep(framedump.DefaultFrameStep),
			engine.WithMaxFrames(dumper.FrameCount()),
			engine.WithFrameHook(func(frame int) error {
				img, err := r.CaptureFrame()
				if err != nil {
					return err
				}
				return dumper.Submit(frame, img)
			}),
		)
	}

	eng := engine.NewEngine(opts...)
	bindInput(eng, sc, cam)

	eng.Run()

	if dumper != nil {
		n, err := dumper.Wait()
		if err != nil {
			log.Printf("frame dump finished with errors: %v", err)
		}
		log.Printf("wrote %d frames to %s", n, dumper.Dir())
	}

	sc.Release()
	r.Release()
	if err := w.Close(); err != nil {
		log.Printf("failed to close window: %v", err)
	}
}

// bindInput wires keyboard and mouse input to the scene and the orbit camera.
func bindInput(eng engine.Engine, sc scene.Scene, cam camera.Camera) {
	keys := &keyState{held: make(map[uint32]bool)}
	ctrl := cam.Controller()

	eng.Window().SetKeyDownCallback(func(keyCode uint32) {
		keys.set(keyCode, true)
		switch keyCode {
		case common.KeyT:
			sc.ToggleDual()
		case common.KeyO:
			sc.ToggleOrdering()
		case common.KeySpace:
			sc.TogglePaused()
		case common.KeyR:
			ctrl.Reset()
		case common.KeyEqual:
			if err := sc.SetSubdivisions(sc.Subdivisions() + 1); err != nil {
				log.Printf("geosphere: %v", err)
			}
		case common.KeyMinus:
			if err := sc.SetSubdivisions(sc.Subdivisions() - 1); err != nil {
				log.Printf("geosphere: %v", err)
			}
		}
	})
	eng.Window().SetKeyUpCallback(func(keyCode uint32) {
		keys.set(keyCode, false)
	})
	eng.Window().SetDragCallback(func(dx, dy float32) {
		ctrl.Orbit(-dx*dragSensitivity, dy*dragSensitivity)
	})
	eng.Window().SetScrollCallback(func(delta float32) {
		ctrl.Zoom(delta)
	})

	eng.SetTickCallback(func(_ float32) {
		if keys.down(common.KeyLeft) {
			ctrl.OrbitLeft()
		}
		if keys.down(common.KeyRight) {
			ctrl.OrbitRight()
		}
		if keys.down(common.KeyUp) {
			ctrl.OrbitUp()
		}
		if keys.down(common.KeyDown) {
			ctrl.OrbitDown()
		}
	})
}

func presentMode(vsync bool) renderer.PresentMode {
	if vsync {
		return renderer.PresentModeVSync
	}
	return renderer.PresentModeUncapped
}
