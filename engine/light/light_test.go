package light

import (
	"encoding/binary"
	"math"
	"testing"
)

func length3(v [3]float32) float64 {
	return math.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]))
}

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	if d := l.Direction(); math.Abs(length3(d)-1) > 1e-6 {
		t.Fatalf("default direction %v is not normalized", d)
	}
	if l.Color() != DefaultColor || l.Intensity() != DefaultIntensity || l.Ambient() != DefaultAmbient {
		t.Fatalf("color %v intensity %v ambient %v", l.Color(), l.Intensity(), l.Ambient())
	}
}

func TestLightOptionsAndSetters(t *testing.T) {
	l := NewLight(
		WithDirection(0, 0, 5),
		WithColor(1, 0.5, 0.25),
		WithIntensity(-2),
		WithAmbient(0.3),
	)
	if l.Direction() != [3]float32{0, 0, 1} {
		t.Errorf("direction %v, want (0, 0, 1)", l.Direction())
	}
	if l.Intensity() != 0 {
		t.Errorf("negative intensity not clamped: %v", l.Intensity())
	}

	l.SetDirection(0, 0, 0)
	if l.Direction() != [3]float32{0, 0, 1} {
		t.Errorf("zero direction replaced %v", l.Direction())
	}
	l.SetDirection(3, 0, 0)
	l.SetAmbient(-1)
	l.SetIntensity(2)
	if l.Direction() != [3]float32{1, 0, 0} || l.Ambient() != 0 || l.Intensity() != 2 {
		t.Errorf("direction %v ambient %v intensity %v", l.Direction(), l.Ambient(), l.Intensity())
	}
}

func TestUniformLayout(t *testing.T) {
	l := NewLight(WithDirection(0, 1, 0), WithColor(0.1, 0.2, 0.3), WithIntensity(0.8), WithAmbient(0.05))
	u := l.Uniform()
	if u.Size() != 32 {
		t.Fatalf("size %d, want 32", u.Size())
	}

	buf := u.Marshal()
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	if f(4) != 1 || f(12) != 0.8 || f(20) != 0.2 || f(28) != 0.05 {
		t.Fatalf("packed light %v %v %v %v", f(4), f(12), f(20), f(28))
	}
}
