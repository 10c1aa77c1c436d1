// Package config loads the JSON settings shared by the viewer and the mesh server.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/Carmen-Shannon/geosphere/engine/light"
)

// MaxSubdivisions is the deepest mesh a settings file may request.
const MaxSubdivisions = 9

// ErrInvalidSettings wraps every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the root of a settings file. Sections left out of the file keep their defaults.
type Settings struct {
	Mesh    MeshSettings    `json:"mesh"`
	Window  WindowSettings  `json:"window"`
	Render  RenderSettings  `json:"render"`
	Camera  CameraSettings  `json:"camera"`
	Light   LightSettings   `json:"light"`
	Server  ServerSettings  `json:"server"`
	Dump    DumpSettings    `json:"dump"`
	Profile ProfileSettings `json:"profile"`
}

// MeshSettings control sphere generation.
type MeshSettings struct {
	Subdivisions  int     `json:"subdivisions"`
	Dual          bool    `json:"dual"`
	Ordering      string  `json:"ordering"`
	SnapPrecision float64 `json:"snapPrecision"`
}

// WindowSettings control the viewer window.
type WindowSettings struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Title      string  `json:"title"`
	FrameLimit float64 `json:"frameLimit"`
}

// RenderSettings control the GPU surface. MSAA is a sample count: 1, 4, 8 or 16.
type RenderSettings struct {
	VSync      bool       `json:"vsync"`
	MSAA       int        `json:"msaa"`
	ClearColor [4]float64 `json:"clearColor"`
	Software   bool       `json:"software"`
}

// CameraSettings place the orbit camera. Angles are in degrees.
type CameraSettings struct {
	FovDegrees   float32 `json:"fov"`
	Near         float32 `json:"near"`
	Far          float32 `json:"far"`
	Radius       float32 `json:"radius"`
	MinRadius    float32 `json:"minRadius"`
	MaxRadius    float32 `json:"maxRadius"`
	Azimuth      float32 `json:"azimuth"`
	Elevation    float32 `json:"elevation"`
	MaxElevation float32 `json:"maxElevation"`
	OrbitSpeed   float32 `json:"orbitSpeed"`
	ZoomSpeed    float32 `json:"zoomSpeed"`
}

// LightSettings describe the directional light shading the sphere in the viewer.
type LightSettings struct {
	Direction [3]float32 `json:"direction"`
	Color     [3]float32 `json:"color"`
	Intensity float32    `json:"intensity"`
	Ambient   float32    `json:"ambient"`
}

// ServerSettings control the mesh server.
type ServerSettings struct {
	Addr                     string `json:"addr"`
	CacheEntries             int    `json:"cacheEntries"`
	MaxMessageKiB            int    `json:"maxMessageKiB"`
	MaxSubdivisions          int    `json:"maxSubdivisions"`
	MaxConcurrentGenerations int    `json:"maxConcurrentGenerations"`
}

// DumpSettings control frame dumping.
type DumpSettings struct {
	Dir    string `json:"dir"`
	Frames int    `json:"frames"`
}

// ProfileSettings control the periodic profiler log line.
type ProfileSettings struct {
	Enabled    bool `json:"enabled"`
	IntervalMs int  `json:"intervalMs"`
}

// Default returns the settings used when no file is given.
//
// Returns:
//   - Settings: a valid default configuration
func Default() Settings {
	return Settings{
		Mesh: MeshSettings{
			Subdivisions: 3,
			Dual:         true,
			Ordering:     geodesic.OrderNearestNeighbor.String(),
		},
		Window: WindowSettings{
			Width:  512,
			Height: 512,
			Title:  "geosphere",
		},
		Render: RenderSettings{
			VSync:      true,
			MSAA:       4,
			ClearColor: [4]float64{0.5, 0.5, 0.5, 1},
		},
		Camera: CameraSettings{
			FovDegrees:   45,
			Near:         0.1,
			Far:          100,
			Radius:       3,
			MinRadius:    1.5,
			MaxRadius:    20,
			MaxElevation: 84,
			OrbitSpeed:   0.05,
			ZoomSpeed:    0.25,
		},
		Light: LightSettings{
			Direction: light.DefaultDirection,
			Color:     light.DefaultColor,
			Intensity: light.DefaultIntensity,
			Ambient:   light.DefaultAmbient,
		},
		Server: ServerSettings{
			Addr:                     ":8080",
			CacheEntries:             16,
			MaxMessageKiB:            4,
			MaxSubdivisions:          7,
			MaxConcurrentGenerations: 2,
		},
		Dump: DumpSettings{
			Dir:    ".",
			Frames: 120,
		},
		Profile: ProfileSettings{
			IntervalMs: 1000,
		},
	}
}

// Load reads the settings file at path on top of Default and validates the result.
// An empty path returns the defaults.
//
// Parameters:
//   - path: the JSON settings file, or ""
//
// Returns:
//   - Settings: the loaded settings
//   - error: an open, decode or validation error
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return s, fmt.Errorf("failed to open settings %s: %w", path, err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return s, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}

	log.Printf("[Config] loaded %s: D=%d dual=%t ordering=%s (~%d source vertices)",
		path, s.Mesh.Subdivisions, s.Mesh.Dual, s.Mesh.Ordering, ApproximateVertexCount(s.Mesh.Subdivisions))
	return s, nil
}

// Validate reports the first out-of-range value.
//
// Returns:
//   - error: an error wrapping ErrInvalidSettings, or nil
func (s Settings) Validate() error {
	switch {
	case s.Mesh.Subdivisions < 0 || s.Mesh.Subdivisions > MaxSubdivisions:
		return fmt.Errorf("%w: mesh.subdivisions %d not in [0, %d]", ErrInvalidSettings, s.Mesh.Subdivisions, MaxSubdivisions)
	case s.Mesh.SnapPrecision < 0:
		return fmt.Errorf("%w: mesh.snapPrecision %g is negative", ErrInvalidSettings, s.Mesh.SnapPrecision)
	case s.Window.Width <= 0 || s.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d must be positive", ErrInvalidSettings, s.Window.Width, s.Window.Height)
	case s.Window.FrameLimit < 0:
		return fmt.Errorf("%w: window.frameLimit %g is negative", ErrInvalidSettings, s.Window.FrameLimit)
	case s.Render.MSAA != 1 && s.Render.MSAA != 4 && s.Render.MSAA != 8 && s.Render.MSAA != 16:
		return fmt.Errorf("%w: render.msaa %d is not 1, 4, 8 or 16", ErrInvalidSettings, s.Render.MSAA)
	case s.Camera.FovDegrees <= 0 || s.Camera.FovDegrees >= 180:
		return fmt.Errorf("%w: camera.fov %g not in (0, 180)", ErrInvalidSettings, s.Camera.FovDegrees)
	case s.Camera.Near <= 0 || s.Camera.Far <= s.Camera.Near:
		return fmt.Errorf("%w: camera clip range [%g, %g] is empty", ErrInvalidSettings, s.Camera.Near, s.Camera.Far)
	case s.Camera.MinRadius <= 0 || s.Camera.MaxRadius < s.Camera.MinRadius:
		return fmt.Errorf("%w: camera radius bounds [%g, %g] are empty", ErrInvalidSettings, s.Camera.MinRadius, s.Camera.MaxRadius)
	case s.Camera.Radius < s.Camera.MinRadius || s.Camera.Radius > s.Camera.MaxRadius:
		return fmt.Errorf("%w: camera.radius %g not in [%g, %g]", ErrInvalidSettings, s.Camera.Radius, s.Camera.MinRadius, s.Camera.MaxRadius)
	case s.Camera.MaxElevation <= 0 || s.Camera.MaxElevation >= 90:
		return fmt.Errorf("%w: camera.maxElevation %g not in (0, 90)", ErrInvalidSettings, s.Camera.MaxElevation)
	case s.Camera.Elevation < -s.Camera.MaxElevation || s.Camera.Elevation > s.Camera.MaxElevation:
		return fmt.Errorf("%w: camera.elevation %g exceeds maxElevation %g", ErrInvalidSettings, s.Camera.Elevation, s.Camera.MaxElevation)
	case s.Camera.OrbitSpeed <= 0 || s.Camera.ZoomSpeed <= 0:
		return fmt.Errorf("%w: camera speeds must be positive", ErrInvalidSettings)
	case s.Light.Direction == [3]float32{}:
		return fmt.Errorf("%w: light.direction must not be zero", ErrInvalidSettings)
	case s.Light.Intensity < 0 || s.Light.Ambient < 0:
		return fmt.Errorf("%w: light intensity %g and ambient %g must not be negative", ErrInvalidSettings, s.Light.Intensity, s.Light.Ambient)
	case s.Server.CacheEntries < 0:
		return fmt.Errorf("%w: server.cacheEntries %d is negative", ErrInvalidSettings, s.Server.CacheEntries)
	case s.Server.MaxMessageKiB <= 0:
		return fmt.Errorf("%w: server.maxMessageKiB %d must be positive", ErrInvalidSettings, s.Server.MaxMessageKiB)
	case s.Server.MaxSubdivisions < 0 || s.Server.MaxSubdivisions > MaxSubdivisions:
		return fmt.Errorf("%w: server.maxSubdivisions %d not in [0, %d]", ErrInvalidSettings, s.Server.MaxSubdivisions, MaxSubdivisions)
	case s.Server.MaxConcurrentGenerations <= 0:
		return fmt.Errorf("%w: server.maxConcurrentGenerations %d must be positive", ErrInvalidSettings, s.Server.MaxConcurrentGenerations)
	case s.Dump.Frames <= 0:
		return fmt.Errorf("%w: dump.frames %d must be positive", ErrInvalidSettings, s.Dump.Frames)
	}
	if _, err := geodesic.ParsePolygonOrdering(s.Mesh.Ordering); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return nil
}

// PolygonOrdering returns the parsed mesh ordering. Validate must have succeeded.
func (s Settings) PolygonOrdering() geodesic.PolygonOrdering {
	o, _ := geodesic.ParsePolygonOrdering(s.Mesh.Ordering)
	return o
}

// SphereOptions returns the generation options described by the mesh section.
//
// Returns:
//   - []geodesic.SphereBuilderOption: options for geodesic.NewSphere
func (s Settings) SphereOptions() []geodesic.SphereBuilderOption {
	return []geodesic.SphereBuilderOption{
		geodesic.WithSubdivisions(s.Mesh.Subdivisions),
		geodesic.WithDual(s.Mesh.Dual),
		geodesic.WithPolygonOrdering(s.PolygonOrdering()),
		geodesic.WithSnapPrecision(s.Mesh.SnapPrecision),
	}
}

// NewLight returns the light described by the light section.
//
// Returns:
//   - light.Light: the configured directional light
func (s Settings) NewLight() light.Light {
	d, c := s.Light.Direction, s.Light.Color
	return light.NewLight(
		light.WithDirection(d[0], d[1], d[2]),
		light.WithColor(c[0], c[1], c[2]),
		light.WithIntensity(s.Light.Intensity),
		light.WithAmbient(s.Light.Ambient),
	)
}

// NewCamera returns the orbit camera described by the camera section, with the
// window's aspect ratio.
//
// Returns:
//   - camera.Camera: the configured camera
func (s Settings) NewCamera() camera.Camera {
	c := s.Camera
	ctrl := camera.NewCameraController(
		camera.WithRadius(c.Radius),
		camera.WithRadiusBounds(c.MinRadius, c.MaxRadius),
		camera.WithAzimuth(radians(c.Azimuth)),
		camera.WithElevation(radians(c.Elevation)),
		camera.WithElevationBounds(-radians(c.MaxElevation), radians(c.MaxElevation)),
		camera.WithOrbitSpeed(c.OrbitSpeed),
		camera.WithZoomSpeed(c.ZoomSpeed),
	)
	return camera.NewCamera(
		camera.WithFov(radians(c.FovDegrees)),
		camera.WithAspect(float32(s.Window.Width)/float32(s.Window.Height)),
		camera.WithNear(c.Near),
		camera.WithFar(c.Far),
		camera.WithController(ctrl),
	)
}

func radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// ApproximateVertexCount returns the number of distinct subdivided vertices, 10·4^level+2.
func ApproximateVertexCount(level int) int {
	count := 10
	for range level {
		count *= 4
	}
	return count + 2
}
