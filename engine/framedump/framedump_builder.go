package framedump

// DumperBuilderOption is a functional option for configuring a Dumper.
type DumperBuilderOption func(*dumper)

// WithFrameCount sets how many frames the dump records. Non-positive values are ignored.
//
// Parameters:
//   - n: the number of frames
//
// Returns:
//   - DumperBuilderOption: option function to apply
func WithFrameCount(n int) DumperBuilderOption {
	return func(d *dumper) {
		if n > 0 {
			d.frameCount = n
		}
	}
}

// WithWorkers sets the number of encoding goroutines. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - DumperBuilderOption: option function to apply
func WithWorkers(n int) DumperBuilderOption {
	return func(d *dumper) {
		d.workers = max(n, 1)
	}
}

// WithQueueSize sets how many frames may wait for a worker before Submit blocks.
//
// Parameters:
//   - n: the queue capacity (minimum 1)
//
// Returns:
//   - DumperBuilderOption: option function to apply
func WithQueueSize(n int) DumperBuilderOption {
	return func(d *dumper) {
		d.queueSize = max(n, 1)
	}
}

// WithNamePattern sets the fmt pattern applied to the frame number to name each file.
//
// Parameters:
//   - pattern: a pattern with one integer verb, e.g. "%05d.ppm"
//
// Returns:
//   - DumperBuilderOption: option function to apply
func WithNamePattern(pattern string) DumperBuilderOption {
	return func(d *dumper) {
		if pattern != "" {
			d.namePattern = pattern
		}
	}
}
