// Package api implements the localhost JSON API (spec component C15):
// an HTTP server bound to 127.0.0.1 exposing the memory commands, with
// Prometheus metrics at /metrics and an idle-timeout self-shutdown.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the localhost server.
type Config struct {
	// Addr is the listen address; the host portion must resolve to the
	// loopback interface (spec.md §4.15 "bound to 127.0.0.1").
	Addr string
	// IdleTimeout is how long the server waits without a request before
	// shutting itself down.
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// Handler is one memory-command endpoint: it receives the raw (undecoded)
// request body and context, and returns a value to be JSON-encoded in the
// response, or an error.
type Handler func(ctx context.Context, body []byte) (any, error)

// Server is the localhost JSON API daemon.
type Server struct {
	cfg      Config
	mux      *http.ServeMux
	srv      *http.Server
	logger   *slog.Logger
	mu        sync.Mutex
	lastSeen  time.Time
	idleStop  chan struct{}
	boundAddr string
	ready     chan struct{}
}

// New builds a Server registering one handler per command path (e.g.
// "/memory/explore") plus a /metrics endpoint backed by promhttp, mirroring
// the teacher's optional metrics-server wiring.
func New(cfg Config, handlers map[string]Handler) *Server {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 10 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{cfg: cfg, mux: http.NewServeMux(), logger: logger, lastSeen: time.Now(), idleStop: make(chan struct{}), ready: make(chan struct{})}
	s.mux.Handle("/metrics", promhttp.Handler())
	for path, h := range handlers {
		s.mux.HandleFunc(path, s.wrap(h))
	}
	s.srv = &http.Server{Addr: cfg.Addr, Handler: s.mux}
	return s
}

func (s *Server) wrap(h Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.touch()

		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := h(r.Context(), body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result); err != nil {
			s.logger.Warn("api.encode.error", "err", err)
		}
	}
}

func (s *Server) touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *Server) idleFor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastSeen)
}

// Run listens on cfg.Addr (binding only the loopback interface is the
// caller's responsibility via Addr, e.g. "127.0.0.1:0") and blocks until
// the context is canceled or the idle timeout elapses, whichever first.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.boundAddr = ln.Addr().String()
	s.mu.Unlock()
	close(s.ready)

	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(ln) }()

	ticker := time.NewTicker(s.cfg.IdleTimeout / 4)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		case <-ctx.Done():
			s.logger.Info("api.shutdown", "reason", "context_canceled")
			return s.shutdown()
		case <-ticker.C:
			if s.idleFor() >= s.cfg.IdleTimeout {
				s.logger.Info("api.shutdown", "reason", "idle_timeout", "idle_for", s.idleFor().String())
				return s.shutdown()
			}
		}
	}
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

// Addr returns the server's bound address, blocking until Run has started
// listening; primarily useful when cfg.Addr requests an ephemeral port
// ("127.0.0.1:0").
func (s *Server) Addr() string {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundAddr
}
