package meshserver

import "time"

// ServerBuilderOption is a functional option for configuring a Server.
type ServerBuilderOption func(*server)

// WithMaxSubdivisions caps the depth a client may request. Defaults to DefaultMaxSubdivisions.
//
// Parameters:
//   - n: the deepest accepted subdivision level
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithMaxSubdivisions(n int) ServerBuilderOption {
	return func(s *server) {
		if n >= 0 {
			s.maxSubdivisions = n
		}
	}
}

// WithSnapPrecision sets the vertex deduplication precision used for every mesh.
//
// Parameters:
//   - precision: the snap precision, 0 for exact matching
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithSnapPrecision(precision float64) ServerBuilderOption {
	return func(s *server) {
		s.snapPrecision = precision
	}
}

// WithCacheEntries sets how many generated meshes are kept. The oldest entry is evicted
// first. 0 disables caching.
//
// Parameters:
//   - n: the cache capacity
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithCacheEntries(n int) ServerBuilderOption {
	return func(s *server) {
		s.cacheEntries = max(n, 0)
	}
}

// WithMaxMessageBytes limits the size of a client request. Larger messages close the connection.
//
// Parameters:
//   - n: the read limit in bytes
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithMaxMessageBytes(n int64) ServerBuilderOption {
	return func(s *server) {
		if n > 0 {
			s.maxMessageBytes = n
		}
	}
}

// WithWriteTimeout bounds how long sending one reply may take.
//
// Parameters:
//   - d: the write deadline applied to each reply
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithWriteTimeout(d time.Duration) ServerBuilderOption {
	return func(s *server) {
		if d > 0 {
			s.writeTimeout = d
		}
	}
}

// WithMaxConcurrentGenerations bounds how many distinct meshes may be generated at the
// same time. Further misses wait for a slot.
//
// Parameters:
//   - n: the number of generation slots, at least 1
//
// Returns:
//   - ServerBuilderOption: option function to apply
func WithMaxConcurrentGenerations(n int) ServerBuilderOption {
	return func(s *server) {
		if n > 0 {
			s.maxGenerations = int64(n)
		}
	}
}
