package framedump

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/geosphere/common"
	"github.com/spakin/netpbm"
)

func testFrame(shade byte) *common.FrameImage {
	f := common.NewFrameImage(2, 2)
	for y := range 2 {
		for x := range 2 {
			f.Set(x, y, shade, shade, shade)
		}
	}
	return f
}

func TestDumpWritesNumberedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	d, err := NewDumper(dir, WithFrameCount(3), WithWorkers(2))
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}

	for i := range 3 {
		if err := d.Submit(i, testFrame(byte(i*10))); err != nil {
			t.Fatalf("Submit(%d): %v", i, err)
		}
	}
	n, err := d.Wait()
	if err != nil || n != 3 {
		t.Fatalf("Wait = %d, %v; want 3, nil", n, err)
	}

	for i, name := range []string{"00000.ppm", "00001.ppm", "00002.ppm"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if !bytes.HasPrefix(data, []byte("P6")) {
			t.Fatalf("%s is not a binary pixmap", name)
		}
		img, err := netpbm.Decode(bytes.NewReader(data), &netpbm.DecodeOptions{Target: netpbm.PPM, Exact: true})
		if err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if r, _, _, _ := img.At(1, 1).RGBA(); img.Bounds().Dx() != 2 || byte(r>>8) != byte(i*10) {
			t.Fatalf("%s bounds %v red %d", name, img.Bounds(), r>>8)
		}
	}
}

func TestSubmitRejectsBadFrames(t *testing.T) {
	d, err := NewDumper(t.TempDir(), WithFrameCount(2))
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}

	if err := d.Submit(2, testFrame(0)); !errors.Is(err, ErrFrameOutOfRange) {
		t.Fatalf("Submit(2) = %v, want ErrFrameOutOfRange", err)
	}
	if err := d.Submit(-1, testFrame(0)); !errors.Is(err, ErrFrameOutOfRange) {
		t.Fatalf("Submit(-1) = %v, want ErrFrameOutOfRange", err)
	}
	bad := &common.FrameImage{}
	if err := d.Submit(0, bad); !errors.Is(err, common.ErrFrameSize) {
		t.Fatalf("Submit(bad) = %v, want ErrFrameSize", err)
	}

	if n, err := d.Wait(); n != 0 || err != nil {
		t.Fatalf("Wait = %d, %v; want 0, nil", n, err)
	}
}

func TestWaitJoinsWriteErrors(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should go makes the create fail.
	if err := os.Mkdir(filepath.Join(dir, "00001.ppm"), 0o755); err != nil {
		t.Fatal(err)
	}
	d, err := NewDumper(dir, WithFrameCount(2), WithWorkers(1))
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	for i := range 2 {
		if err := d.Submit(i, testFrame(1)); err != nil {
			t.Fatalf("Submit(%d): %v", i, err)
		}
	}

	n, err := d.Wait()
	if n != 1 {
		t.Fatalf("wrote %d frames, want 1", n)
	}
	if err == nil {
		t.Fatal("expected the failed write to be reported")
	}
}

func TestPathAndFrameCount(t *testing.T) {
	d, err := NewDumper(t.TempDir(), WithNamePattern("frame-%03d.ppm"))
	if err != nil {
		t.Fatalf("NewDumper: %v", err)
	}
	defer d.Wait()

	if got := filepath.Base(d.Path(7)); got != "frame-007.ppm" {
		t.Fatalf("Path(7) = %q", got)
	}
	if d.FrameCount() != DefaultFrameCount {
		t.Fatalf("frame count %d, want %d", d.FrameCount(), DefaultFrameCount)
	}
}
