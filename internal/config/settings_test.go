package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if s.Mesh.Subdivisions != 3 || !s.Mesh.Dual || s.Window.Width != 512 || s.Window.Height != 512 {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if s.PolygonOrdering() != geodesic.OrderNearestNeighbor {
		t.Fatalf("default ordering %s", s.PolygonOrdering())
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := writeSettings(t, `{"mesh": {"subdivisions": 5, "dual": false, "ordering": "angular"}, "server": {"addr": ":9000", "maxMessageKiB": 4}}`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Mesh.Subdivisions != 5 || s.Mesh.Dual || s.PolygonOrdering() != geodesic.OrderAngular {
		t.Fatalf("mesh section not applied: %+v", s.Mesh)
	}
	if s.Server.Addr != ":9000" || s.Server.CacheEntries != 16 {
		t.Fatalf("server section %+v", s.Server)
	}
	if s.Window.Width != 512 || s.Dump.Frames != 120 {
		t.Fatalf("untouched sections lost their defaults: %+v %+v", s.Window, s.Dump)
	}
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":     `{"mesh": `,
		"unknown field": `{"mesh": {"depth": 2}}`,
		"too deep":      `{"mesh": {"subdivisions": 10}}`,
		"negative":      `{"mesh": {"subdivisions": -1}}`,
		"bad ordering":  `{"mesh": {"ordering": "spiral"}}`,
		"zero width":    `{"window": {"width": 0}}`,
		"no frames":     `{"dump": {"frames": 0}}`,
		"zero light":    `{"light": {"direction": [0, 0, 0]}}`,
		"server depth":  `{"server": {"maxSubdivisions": 10}}`,
		"no generators": `{"server": {"maxConcurrentGenerations": 0}}`,
		"dark ambient":  `{"light": {"ambient": -0.5}}`,
		"msaa 2":        `{"render": {"msaa": 2}}`,
		"flat fov":      `{"camera": {"fov": 0}}`,
		"inverted clip": `{"camera": {"near": 10, "far": 1}}`,
		"radius out":    `{"camera": {"radius": 50}}`,
		"pole tilt":     `{"camera": {"maxElevation": 90}}`,
		"still orbit":   `{"camera": {"orbitSpeed": 0}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeSettings(t, body)); err == nil {
				t.Fatalf("expected an error for %s", body)
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestValidateWrapsSentinel(t *testing.T) {
	s := Default()
	s.Mesh.Subdivisions = MaxSubdivisions + 1
	if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("Validate = %v, want ErrInvalidSettings", err)
	}
	s.Mesh.Subdivisions = MaxSubdivisions
	if err := s.Validate(); err != nil {
		t.Fatalf("depth %d rejected: %v", MaxSubdivisions, err)
	}
}

func TestSphereOptionsBuildConfiguredMesh(t *testing.T) {
	s := Default()
	s.Mesh.Subdivisions = 1
	sph, err := geodesic.NewSphere(s.SphereOptions()...)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	if !sph.Dual() || sph.Subdivisions() != 1 || sph.Stats().Polygons != 42 {
		t.Fatalf("unexpected sphere: dual=%t D=%d polygons=%d", sph.Dual(), sph.Subdivisions(), sph.Stats().Polygons)
	}
}

func TestApproximateVertexCount(t *testing.T) {
	for level, want := range []int{12, 42, 162, 642} {
		if got := ApproximateVertexCount(level); got != want {
			t.Errorf("level %d: got %d, want %d", level, got, want)
		}
	}
}

func TestNewLightFromSettings(t *testing.T) {
	path := writeSettings(t, `{"light": {"direction": [0, 2, 0], "ambient": 0.3}}`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l := s.NewLight()
	if l.Direction() != [3]float32{0, 1, 0} || l.Ambient() != 0.3 || l.Intensity() != 1 {
		t.Fatalf("direction %v ambient %v intensity %v", l.Direction(), l.Ambient(), l.Intensity())
	}
}

func approx(got, want float32) bool {
	return math.Abs(float64(got-want)) < 1e-5
}

func TestNewCameraFromSettings(t *testing.T) {
	path := writeSettings(t, `{
		"window": {"width": 800, "height": 400},
		"camera": {"fov": 60, "near": 0.5, "far": 50, "radius": 5, "azimuth": 90, "elevation": 30, "maxElevation": 45}
	}`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cam := s.NewCamera()
	if cam.Aspect() != 2 || !approx(cam.Fov(), math.Pi/3) || cam.Near() != 0.5 || cam.Far() != 50 {
		t.Fatalf("aspect %v fov %v clip [%v, %v]", cam.Aspect(), cam.Fov(), cam.Near(), cam.Far())
	}
	ctrl := cam.Controller()
	if ctrl.Radius() != 5 || !approx(ctrl.Azimuth(), math.Pi/2) || !approx(ctrl.Elevation(), math.Pi/6) {
		t.Fatalf("radius %v azimuth %v elevation %v", ctrl.Radius(), ctrl.Azimuth(), ctrl.Elevation())
	}

	for range 100 {
		ctrl.OrbitUp()
	}
	if !approx(ctrl.Elevation(), math.Pi/4) {
		t.Fatalf("elevation %v, want clamp at 45 degrees", ctrl.Elevation())
	}
	ctrl.Zoom(100)
	if ctrl.Radius() != s.Camera.MinRadius {
		t.Fatalf("radius %v, want clamp at %v", ctrl.Radius(), s.Camera.MinRadius)
	}
}

func TestRenderDefaults(t *testing.T) {
	s := Default()
	if !s.Render.VSync || s.Render.MSAA != 4 || s.Render.Software {
		t.Fatalf("render defaults %+v", s.Render)
	}
	if s.Render.ClearColor != [4]float64{0.5, 0.5, 0.5, 1} {
		t.Fatalf("clear color %v", s.Render.ClearColor)
	}
}
