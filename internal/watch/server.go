package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/KamilPietrzak/blogbuild/internal/logfields"
	"github.com/KamilPietrzak/blogbuild/internal/metrics"
)

// previewServer serves the rendered HTML tree plus /healthz and /metrics.
type previewServer struct {
	srv  *http.Server
	addr string
}

// startPreviewServer pre-binds the listener so an occupied port fails
// watch startup instead of logging from a goroutine later.
func (w *Watcher) startPreviewServer(publicDir string) (*previewServer, error) {
	ln, err := net.Listen("tcp", w.cfg.Watch.Addr)
	if err != nil {
		return nil, fmt.Errorf("%w: listen on %s: %w", ErrPreviewServer, w.cfg.Watch.Addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(publicDir)))
	mux.HandleFunc("/healthz", w.status.healthHandler)
	mux.Handle("/metrics", metrics.HTTPHandler(w.registry))

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server error", logfields.Error(err))
		}
	}()

	slog.Info("Preview server listening",
		slog.String("addr", ln.Addr().String()),
		logfields.Path(publicDir))
	return &previewServer{srv: srv, addr: ln.Addr().String()}, nil
}

// Addr returns the bound listen address.
func (p *previewServer) Addr() string { return p.addr }

// Stop shuts the server down, letting in-flight responses finish.
func (p *previewServer) Stop(ctx context.Context) error {
	return p.srv.Shutdown(ctx)
}
