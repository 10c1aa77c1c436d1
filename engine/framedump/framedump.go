// Package framedump writes captured frames to numbered PPM files on a worker pool so the
// render loop only pays for the GPU readback.
package framedump

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/geosphere/common"
)

// DefaultFrameCount is the number of frames a dump records.
const DefaultFrameCount = 120

// DefaultFrameStep is the animation time step used while dumping, in seconds.
const DefaultFrameStep = float32(1.0 / 40.0)

// DefaultNamePattern names dumped files by zero-padded frame number.
const DefaultNamePattern = "%05d.ppm"

// ErrFrameOutOfRange is returned by Submit for frames outside [0, FrameCount).
var ErrFrameOutOfRange = errors.New("framedump: frame number out of range")

// dumper is the implementation of the Dumper interface.
type dumper struct {
	mu *sync.Mutex

	dir         string
	namePattern string
	frameCount  int
	workers     int
	queueSize   int

	pool    worker.DynamicWorkerPool
	pending sync.WaitGroup
	written int
	errs    []error
}

// Dumper encodes frames to disk in the background.
type Dumper interface {
	// Dir returns the output directory.
	Dir() string

	// FrameCount returns the number of frames the dump expects.
	FrameCount() int

	// Path returns the file a frame number is written to.
	//
	// Parameters:
	//   - frame: the zero-based frame number
	//
	// Returns:
	//   - string: the output path
	Path(frame int) string

	// Submit queues a frame for encoding. It does not wait for the write.
	//
	// Parameters:
	//   - frame: the zero-based frame number
	//   - img: the captured frame; it must not be modified afterwards
	//
	// Returns:
	//   - error: ErrFrameOutOfRange, or a validation error for a malformed frame
	Submit(frame int, img *common.FrameImage) error

	// Wait blocks until every submitted frame has been written and stops the workers.
	//
	// Returns:
	//   - int: the number of files written
	//   - error: every write error joined together, or nil
	Wait() (int, error)
}

var _ Dumper = &dumper{}

// NewDumper creates the output directory and starts the encoding workers.
//
// Parameters:
//   - dir: the directory frames are written into
//   - options: functional options to configure the dumper
//
// Returns:
//   - Dumper: the started dumper
//   - error: an error if the directory cannot be created
func NewDumper(dir string, options ...DumperBuilderOption) (Dumper, error) {
	d := &dumper{
		mu:          &sync.Mutex{},
		dir:         dir,
		namePattern: DefaultNamePattern,
		frameCount:  DefaultFrameCount,
		workers:     max(runtime.NumCPU()-1, 1),
		queueSize:   32,
	}
	for _, opt := range options {
		opt(d)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("framedump: failed to create %s: %w", dir, err)
	}

	d.pool = worker.NewDynamicWorkerPool(d.workers, d.queueSize, time.Second)
	return d, nil
}

func (d *dumper) Dir() string {
	return d.dir
}

func (d *dumper) FrameCount() int {
	return d.frameCount
}

func (d *dumper) Path(frame int) string {
	return filepath.Join(d.dir, fmt.Sprintf(d.namePattern, frame))
}

func (d *dumper) Submit(frame int, img *common.FrameImage) error {
	if frame < 0 || frame >= d.frameCount {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrFrameOutOfRange, frame, d.frameCount)
	}
	if err := img.Validate(); err != nil {
		return fmt.Errorf("framedump: frame %d: %w", frame, err)
	}

	path := d.Path(frame)
	d.pending.Add(1)
	d.pool.SubmitTask(worker.Task{
		ID:      frame,
		Payload: path,
		Do: func() (any, error) {
			defer d.pending.Done()

			err := img.WritePPMFile(path)

			d.mu.Lock()
			defer d.mu.Unlock()
			if err != nil {
				d.errs = append(d.errs, fmt.Errorf("frame %d: %w", frame, err))
				return nil, err
			}
			d.written++
			return path, nil
		},
	})
	return nil
}

func (d *dumper) Wait() (int, error) {
	d.pending.Wait()
	d.pool.Stop()

	d.mu.Lock()
	defer d.mu.Unlock()
	log.Printf("[FrameDump] wrote %d/%d frames to %s", d.written, d.frameCount, d.dir)
	return d.written, errors.Join(d.errs...)
}
