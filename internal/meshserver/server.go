// Package meshserver streams generated sphere vertex buffers to WebSocket clients.
//
// A client sends one JSON Request per mesh it wants. The server replies with a JSON
// MeshHeader text message followed by one binary message holding VertexCount packed
// 24-byte vertices, or with a single ErrorMessage.
package meshserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxSubdivisions is the deepest mesh a client may request unless
// WithMaxSubdivisions overrides it. Depth 7 is about 1.2M vertices, 30 MB of vertex data.
const DefaultMaxSubdivisions = 7

// DefaultMaxConcurrentGenerations bounds how many distinct meshes are generated at once.
const DefaultMaxConcurrentGenerations = 2

// Request asks for one mesh.
type Request struct {
	Subdivisions int    `json:"subdivisions"`
	Dual         bool   `json:"dual"`
	Ordering     string `json:"ordering,omitempty"`
}

// MeshHeader describes the binary message that follows it.
type MeshHeader struct {
	Type           string         `json:"type"`
	Subdivisions   int            `json:"subdivisions"`
	Dual           bool           `json:"dual"`
	Ordering       string         `json:"ordering"`
	VertexCount    int            `json:"vertexCount"`
	Stride         int            `json:"stride"`
	BoundingRadius float32        `json:"boundingRadius"`
	Stats          geodesic.Stats `json:"stats"`
}

// ErrorMessage reports a rejected request. The connection stays open.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

const (
	messageTypeMesh  = "mesh"
	messageTypeError = "error"
)

// meshKey identifies a cached mesh.
type meshKey struct {
	subdivisions int
	dual         bool
	ordering     geodesic.PolygonOrdering
}

// String is the key identical in-flight generations are collapsed on.
func (k meshKey) String() string {
	return fmt.Sprintf("%d/%t/%d", k.subdivisions, k.dual, k.ordering)
}

// cachedMesh is a generated mesh ready to send.
type cachedMesh struct {
	header MeshHeader
	data   []byte
}

// server is the implementation of the Server interface.
type server struct {
	mu *sync.Mutex

	upgrader        websocket.Upgrader
	maxSubdivisions int
	snapPrecision   float64
	cacheEntries    int
	maxMessageBytes int64
	writeTimeout    time.Duration
	maxGenerations  int64

	inflight    singleflight.Group
	generations *semaphore.Weighted

	cache      map[meshKey]*cachedMesh
	cacheOrder []meshKey
	generated  int
}

// Server serves generated meshes over WebSocket.
type Server interface {
	// Handler returns the HTTP routes: /ws for mesh requests and /healthz for liveness.
	//
	// Returns:
	//   - http.Handler: the router
	Handler() http.Handler

	// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts down gracefully.
	//
	// Parameters:
	//   - ctx: cancelled to stop the server
	//   - addr: the TCP listen address
	//
	// Returns:
	//   - error: a listen error, or nil after a clean shutdown
	ListenAndServe(ctx context.Context, addr string) error

	// Mesh returns the header and vertex data for req, generating and caching it on a miss.
	// Concurrent misses for the same mesh share one generation, and at most
	// WithMaxConcurrentGenerations distinct meshes are generated at once.
	//
	// Parameters:
	//   - ctx: cancels waiting for a generation slot
	//   - req: the requested mesh
	//
	// Returns:
	//   - MeshHeader: the header describing data
	//   - []byte: the packed vertices, shared with the cache and must not be modified
	//   - error: an error if req is out of range or ctx is done before generation starts
	Mesh(ctx context.Context, req Request) (MeshHeader, []byte, error)

	// Generated returns how many meshes have been generated, cache misses included.
	Generated() int
}

var _ Server = &server{}

// NewServer creates a Server with an empty cache.
//
// Parameters:
//   - options: functional options to configure the server
//
// Returns:
//   - Server: the new server
func NewServer(options ...ServerBuilderOption) Server {
	s := &server{
		mu:              &sync.Mutex{},
		maxSubdivisions: DefaultMaxSubdivisions,
		cacheEntries:    16,
		maxMessageBytes: 4 << 10,
		writeTimeout:    30 * time.Second,
		maxGenerations:  DefaultMaxConcurrentGenerations,
		cache:           make(map[meshKey]*cachedMesh),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	for _, opt := range options {
		opt(s)
	}
	s.generations = semaphore.NewWeighted(s.maxGenerations)
	return s
}

func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

func (s *server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[MeshServer] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("mesh server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("mesh server shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mesh server: %w", err)
		}
		log.Printf("[MeshServer] stopped")
		return nil
	}
}

func (s *server) Generated() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generated
}

func (s *server) Mesh(ctx context.Context, req Request) (MeshHeader, []byte, error) {
	if req.Subdivisions < 0 || req.Subdivisions > s.maxSubdivisions {
		return MeshHeader{}, nil, fmt.Errorf("subdivisions %d not in [0, %d]", req.Subdivisions, s.maxSubdivisions)
	}
	ordering, err := geodesic.ParsePolygonOrdering(req.Ordering)
	if err != nil {
		return MeshHeader{}, nil, err
	}
	key := meshKey{subdivisions: req.Subdivisions, dual: req.Dual, ordering: ordering}

	if m, ok := s.cached(key); ok {
		return m.header, m.data, nil
	}

	v, err, _ := s.inflight.Do(key.String(), func() (any, error) {
		// An earlier flight may have filled the cache after our lookup.
		if m, ok := s.cached(key); ok {
			return m, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.generations.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer s.generations.Release(1)

		m, err := s.generate(key)
		if err != nil {
			return nil, err
		}
		s.store(key, m)
		return m, nil
	})
	if err != nil {
		return MeshHeader{}, nil, err
	}
	m := v.(*cachedMesh)
	return m.header, m.data, nil
}

func (s *server) cached(key meshKey) (*cachedMesh, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.cache[key]
	return m, ok
}

// generate builds the mesh for key and counts it.
func (s *server) generate(key meshKey) (*cachedMesh, error) {
	sph, err := geodesic.NewSphere(
		geodesic.WithSubdivisions(key.subdivisions),
		geodesic.WithDual(key.dual),
		geodesic.WithPolygonOrdering(key.ordering),
		geodesic.WithSnapPrecision(s.snapPrecision),
	)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.generated++
	s.mu.Unlock()

	return &cachedMesh{
		header: MeshHeader{
			Type:           messageTypeMesh,
			Subdivisions:   sph.Subdivisions(),
			Dual:           sph.Dual(),
			Ordering:       sph.Ordering().String(),
			VertexCount:    sph.VertexCount(),
			Stride:         geodesic.GPUVertexStride,
			BoundingRadius: geodesic.ComputeBoundingRadius(sph.Vertices()),
			Stats:          sph.Stats(),
		},
		data: sph.VertexData(),
	}, nil
}

// store adds m to the cache, evicting the oldest entry when full.
func (s *server) store(key meshKey, m *cachedMesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cacheEntries == 0 {
		return
	}
	if _, ok := s.cache[key]; ok {
		return
	}
	if len(s.cacheOrder) >= s.cacheEntries {
		oldest := s.cacheOrder[0]
		s.cacheOrder = s.cacheOrder[1:]
		delete(s.cache, oldest)
	}
	s.cache[key] = m
	s.cacheOrder = append(s.cacheOrder, key)
}

// handleWebSocket answers mesh requests on one connection until the client goes away.
func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[MeshServer] websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.maxMessageBytes)

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if isDecodeError(err) {
				if err := s.writeError(conn, fmt.Errorf("malformed request: %w", err)); err != nil {
					return
				}
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[MeshServer] websocket read error: %v", err)
			}
			return
		}

		header, data, err := s.Mesh(r.Context(), req)
		if err != nil {
			if err := s.writeError(conn, err); err != nil {
				return
			}
			continue
		}

		_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		if err := conn.WriteJSON(header); err != nil {
			log.Printf("[MeshServer] websocket write error: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			log.Printf("[MeshServer] websocket write error: %v", err)
			return
		}
	}
}

func (s *server) writeError(conn *websocket.Conn, cause error) error {
	_ = conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := conn.WriteJSON(ErrorMessage{Type: messageTypeError, Error: cause.Error()}); err != nil {
		log.Printf("[MeshServer] websocket write error: %v", err)
		return err
	}
	return nil
}

// isDecodeError reports whether err came from decoding a message rather than reading it.
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF)
}
