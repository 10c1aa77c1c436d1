// Package light describes the directional light that shades the sphere.
package light

import (
	"math"
	"sync"
)

// Default light parameters. The direction points up and to the right of a camera on +Z.
var (
	DefaultDirection = [3]float32{0.4, 0.7, 0.6}
	DefaultColor     = [3]float32{1, 1, 1}
)

const (
	DefaultIntensity = 1.0
	DefaultAmbient   = 0.15
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	direction [3]float32
	color     [3]float32
	intensity float32
	ambient   float32
}

// Light is a directional light infinitely far away. Direction points from the surface
// towards the light. All methods are safe for concurrent use.
type Light interface {
	// Direction returns the normalized direction towards the light.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar multiplier applied to the diffuse and specular terms.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Ambient returns the constant term added to every fragment.
	//
	// Returns:
	//   - float32: the ambient value
	Ambient() float32

	// SetDirection sets the direction of the light and normalizes it. A zero vector
	// is ignored.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier. Negative values are clamped to 0.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetAmbient sets the ambient term. Negative values are clamped to 0.
	//
	// Parameters:
	//   - ambient: the ambient value
	SetAmbient(ambient float32)

	// Uniform packs the light for upload.
	//
	// Returns:
	//   - GPULightUniform: the GPU representation of the light
	Uniform() GPULightUniform
}

var _ Light = &lightImpl{}

// NewLight creates a new Light with the default parameters and any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		direction: normalize3(DefaultDirection[0], DefaultDirection[1], DefaultDirection[2]),
		color:     DefaultColor,
		intensity: DefaultIntensity,
		ambient:   DefaultAmbient,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Ambient() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ambient
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if x == 0 && y == 0 && z == 0 {
		return
	}
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}

func (l *lightImpl) SetAmbient(ambient float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ambient = max(ambient, 0)
}

func (l *lightImpl) Uniform() GPULightUniform {
	l.mu.Lock()
	defer l.mu.Unlock()
	return GPULightUniform{
		Direction: l.direction,
		Intensity: l.intensity,
		Color:     l.color,
		Ambient:   l.ambient,
	}
}

// normalize3 returns the unit vector of (x, y, z), or (0, 1, 0) for a zero vector.
func normalize3(x, y, z float32) [3]float32 {
	length := float32(math.Sqrt(float64(x*x + y*y + z*z)))
	if length == 0 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{x / length, y / length, z / length}
}
