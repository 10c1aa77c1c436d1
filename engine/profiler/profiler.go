package profiler

import (
	"log"
	"os"
	"runtime"
	"time"
)

// Profiler tracks frame rate, memory statistics and the size of the mesh being drawn.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
	lastFPS        float64

	vertexCount  int
	subdivisions int
	dual         bool

	logger *log.Logger
	now    func() time.Time
}

// ProfilerOption is a functional option applied to a Profiler during construction via NewProfiler.
type ProfilerOption func(*Profiler)

// WithUpdateInterval sets how often statistics are logged. Non-positive values are ignored.
//
// Parameters:
//   - d: the interval between log lines
//
// Returns:
//   - ProfilerOption: a function that applies the interval to a profiler
func WithUpdateInterval(d time.Duration) ProfilerOption {
	return func(p *Profiler) {
		if d > 0 {
			p.updateInterval = d
		}
	}
}

// WithLogger sets the logger the statistics line is written to. Defaults to a logger on stderr
// with the standard flags.
//
// Parameters:
//   - l: the destination logger
//
// Returns:
//   - ProfilerOption: a function that applies the logger to a profiler
func WithLogger(l *log.Logger) ProfilerOption {
	return func(p *Profiler) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		updateInterval: time.Second,
		memStats:       runtime.MemStats{},
		logger:         log.New(os.Stderr, "", log.LstdFlags),
		now:            time.Now,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.now()
	return p
}

// SetMesh records what is currently being drawn so it is included in the next log line.
//
// Parameters:
//   - vertexCount: the number of vertices drawn per frame
//   - subdivisions: the subdivision depth of the mesh
//   - dual: true if the mesh is the dual polygon mesh
func (p *Profiler) SetMesh(vertexCount, subdivisions int, dual bool) {
	p.vertexCount = vertexCount
	p.subdivisions = subdivisions
	p.dual = dual
}

// LastFPS returns the frame rate computed at the most recent log line.
//
// Returns:
//   - float64: frames per second, 0 before the first interval has elapsed
func (p *Profiler) LastFPS() float64 {
	return p.lastFPS
}

// Tick should be called once per frame to track frame timing.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, mesh size, heap usage, allocation rate, GC count/pause times, total memory.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)

	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	// Alloc: bytes of live heap objects. Sys: bytes obtained from the OS.
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 GC pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			maxPauseUs = max(maxPauseUs, p.memStats.PauseNs[i%256]/1000)
		}
	}

	mode := "triangulated"
	if p.dual {
		mode = "dual"
	}
	p.logger.Printf("[Profiler] FPS: %.2f | Mesh: %s D=%d, %d verts | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, mode, p.subdivisions, p.vertexCount, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.lastFPS = fps
	p.frameCount = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
