// Command geosphere-server serves geodesic sphere vertex buffers over WebSocket.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Carmen-Shannon/geosphere/internal/config"
	"github.com/Carmen-Shannon/geosphere/internal/meshserver"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	configPath := flag.String("config", "", "optional JSON settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "addr" {
			settings.Server.Addr = *addr
		}
	})

	srv := meshserver.NewServer(
		meshserver.WithMaxSubdivisions(settings.Server.MaxSubdivisions),
		meshserver.WithMaxConcurrentGenerations(settings.Server.MaxConcurrentGenerations),
		meshserver.WithSnapPrecision(settings.Mesh.SnapPrecision),
		meshserver.WithCacheEntries(settings.Server.CacheEntries),
		meshserver.WithMaxMessageBytes(int64(settings.Server.MaxMessageKiB)<<10),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache with the configured mesh so the first client does not wait for it.
	if _, _, err := srv.Mesh(ctx, meshserver.Request{
		Subdivisions: settings.Mesh.Subdivisions,
		Dual:         settings.Mesh.Dual,
		Ordering:     settings.Mesh.Ordering,
	}); err != nil {
		log.Printf("skipping cache warm-up: %v", err)
	}

	if err := srv.ListenAndServe(ctx, settings.Server.Addr); err != nil {
		log.Fatalf("%v", err)
	}
}
