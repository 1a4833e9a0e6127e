package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/df07/go-particle-transport/pkg/transport"
)

// DefaultEventInterval is how often /api/events pushes a status snapshot
const DefaultEventInterval = time.Second

// StatusProvider returns the latest published run status
type StatusProvider interface {
	Status() transport.Status
}

// Server exposes the status of a running simulation over HTTP. It only reads
// published snapshots.
type Server struct {
	addr          string
	status        StatusProvider
	logger        *slog.Logger
	eventInterval time.Duration
}

// NewServer creates a new status server. A nil logger discards log output.
func NewServer(addr string, status StatusProvider, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		addr:          addr,
		status:        status,
		logger:        logger,
		eventInterval: DefaultEventInterval,
	}
}

// Handler returns the router for every endpoint
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/events", s.handleEvents)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	s.logger.Info("status server listening", "addr", listener.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("status server shutdown: %w", err)
		}
		return nil
	}
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleStatus returns the latest status snapshot as JSON
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if err := json.NewEncoder(w).Encode(s.status.Status()); err != nil {
		s.logger.Error("failed to encode status", "error", err)
	}
}

// handleEvents streams status snapshots via SSE until the run finishes or
// the client disconnects
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	ticker := time.NewTicker(s.eventInterval)
	defer ticker.Stop()

	for {
		status := s.status.Status()
		if err := s.sendSSEStatus(w, status); err != nil {
			s.logger.Debug("status stream closed", "error", err)
			return
		}
		if !status.Running && status.HistoriesDone > 0 {
			s.sendSSEEvent(w, "complete", "{}")
			return
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

// sendSSEStatus sends a status snapshot via SSE
func (s *Server) sendSSEStatus(w http.ResponseWriter, status transport.Status) error {
	data, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "status", string(data))
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
