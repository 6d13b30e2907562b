// Package http exposes the harvest session over a JSON API with
// server-sent progress events.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/leadscout"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is how long in-flight requests get to finish on shutdown.
const ShutdownTimeout = 5 * time.Second

// Server serves the session API.
type Server struct {
	Sessions leadscout.SessionService
	// Runs archives finished harvests. Nil disables the archive and the
	// /api/runs endpoints.
	Runs   leadscout.RunService
	Logger *slog.Logger

	hub     *Hub
	handler http.Handler

	// Background harvests run on ctx so that Close can end them.
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	harvesting atomic.Bool
	now        func() time.Time
}

// NewServer creates a server for sessions. runs and logger may be nil.
func NewServer(sessions leadscout.SessionService, runs leadscout.RunService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		Sessions: sessions,
		Runs:     runs,
		Logger:   logger,
		hub:      NewHub(),
		ctx:      ctx,
		cancel:   cancel,
		now:      time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/start-scraping", s.handleEvents)
	mux.HandleFunc("POST /api/start-scraping", s.handleStartHarvest)
	mux.HandleFunc("POST /api/stop-scraping", s.handleStopHarvest)
	mux.HandleFunc("GET /api/check-status", s.handleStatus)
	mux.HandleFunc("GET /api/runs", s.handleRunIndex)
	mux.HandleFunc("GET /api/runs/{id}", s.handleRunView)

	s.handler = chain(mux, s.recoverPanic, requestID, s.accessLog, cors)
	return s
}

// Hub returns the event hub streams are served from.
func (s *Server) Hub() *Hub { return s.hub }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down: open event streams
// are ended, the running harvest is stopped and in-flight requests drain.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		s.Logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		return errors.Join(err, s.Close())
	})
	return g.Wait()
}

// Close stops the running harvest and waits for it to be archived.
func (s *Server) Close() error {
	s.cancel()
	err := s.Sessions.Stop()
	s.wg.Wait()
	return err
}

// Wait blocks until background harvests have finished.
func (s *Server) Wait() { s.wg.Wait() }

// Error writes err as a JSON failure with a status derived from its code.
// Internal errors are logged and hidden from the client.
func (s *Server) Error(w http.ResponseWriter, r *http.Request, err error) {
	code, message := leadscout.ErrorCode(err), leadscout.ErrorMessage(err)
	if code == leadscout.EINTERNAL {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	writeJSON(w, ErrorStatusCode(code), failure{Error: message})
}

// codes maps application error codes to HTTP status codes.
var codes = map[string]int{
	leadscout.ECONFLICT:     http.StatusConflict,
	leadscout.EINVALID:      http.StatusBadRequest,
	leadscout.ENOTFOUND:     http.StatusNotFound,
	leadscout.EUNAUTHORIZED: http.StatusUnauthorized,
	leadscout.EUNAVAILABLE:  http.StatusServiceUnavailable,
	leadscout.EINTERNAL:     http.StatusInternalServerError,
}

// ErrorStatusCode returns the HTTP status code for an application error code.
func ErrorStatusCode(code string) int {
	if v, ok := codes[code]; ok {
		return v
	}
	return http.StatusInternalServerError
}

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return leadscout.Errorf(leadscout.EINVALID, "Invalid JSON body.")
	}
	return nil
}
