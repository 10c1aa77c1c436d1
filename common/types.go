// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/spakin/netpbm"
)

// ErrFrameSize is returned when a FrameImage's pixel buffer does not match its dimensions.
var ErrFrameSize = errors.New("frame pixel buffer does not match its dimensions")

// ppmOptions writes binary (P6) pixmaps with 8-bit channels.
var ppmOptions = &netpbm.EncodeOptions{
	Format:   netpbm.PPM,
	MaxValue: 255,
}

// FrameImage holds one captured frame, top row first. Alpha is always opaque.
type FrameImage struct {
	// Image is the frame's pixel data.
	Image *image.RGBA
}

// NewFrameImage allocates an opaque black frame.
//
// Parameters:
//   - width: the frame width in pixels
//   - height: the frame height in pixels
//
// Returns:
//   - *FrameImage: the new frame
func NewFrameImage(width, height int) *FrameImage {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return &FrameImage{Image: img}
}

// Validate checks that the frame has pixels and that the buffer covers its bounds.
//
// Returns:
//   - error: ErrFrameSize if the frame is empty or its buffer is short
func (f *FrameImage) Validate() error {
	if f == nil || f.Image == nil {
		return fmt.Errorf("%w: no image", ErrFrameSize)
	}
	b := f.Image.Bounds()
	if b.Empty() || len(f.Image.Pix) < f.Image.Stride*(b.Dy()-1)+b.Dx()*4 {
		return fmt.Errorf("%w: %dx%d with %d bytes", ErrFrameSize, b.Dx(), b.Dy(), len(f.Image.Pix))
	}
	return nil
}

// Set writes one opaque pixel.
func (f *FrameImage) Set(x, y int, r, g, b uint8) {
	f.Image.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
}

// EncodePPM writes the frame as a binary (P6) portable pixmap.
//
// Parameters:
//   - w: the destination writer
//
// Returns:
//   - error: a validation or write error
func (f *FrameImage) EncodePPM(w io.Writer) error {
	if err := f.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := netpbm.Encode(bw, f.Image, ppmOptions); err != nil {
		return fmt.Errorf("failed to encode ppm: %w", err)
	}
	return bw.Flush()
}

// WritePPMFile encodes the frame into a new file at path, replacing any existing file.
//
// Parameters:
//   - path: the output file path
//
// Returns:
//   - error: a create, encode or close error
func (f *FrameImage) WritePPMFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := f.EncodePPM(file); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return file.Close()
}

// FrameFromRGBA converts padded 4-byte-per-pixel rows, as read back from a GPU
// texture, into a FrameImage. bytesPerRow may exceed width*4. When bgra is set
// the red and blue channels are swapped.
//
// Parameters:
//   - data: the raw texture rows
//   - width: the frame width in pixels
//   - height: the frame height in pixels
//   - bytesPerRow: the row pitch of data
//   - bgra: true if data is in BGRA order
//
// Returns:
//   - *FrameImage: the opaque frame
//   - error: ErrFrameSize if data is too short
func FrameFromRGBA(data []byte, width, height, bytesPerRow uint32, bgra bool) (*FrameImage, error) {
	if width == 0 || height == 0 || bytesPerRow < width*4 || uint64(len(data)) < uint64(bytesPerRow)*uint64(height-1)+uint64(width)*4 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d at pitch %d", ErrFrameSize, len(data), width, height, bytesPerRow)
	}

	r, b := 0, 2
	if bgra {
		r, b = 2, 0
	}

	f := NewFrameImage(int(width), int(height))
	for y := uint32(0); y < height; y++ {
		row := data[y*bytesPerRow:]
		dst := f.Image.Pix[int(y)*f.Image.Stride:]
		for x := uint32(0); x < width; x++ {
			src := row[x*4 : x*4+4]
			dst[x*4+0] = src[r]
			dst[x*4+1] = src[1]
			dst[x*4+2] = src[b]
		}
	}
	return f, nil
}
