// Package server exposes check and toggle runs over HTTP so the tool can be
// driven from a phone browser on the home network.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/entrhq/wifitoggle/pkg/logging"
	"github.com/entrhq/wifitoggle/pkg/reconcile"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("server")
	if err != nil {
		debugLog.Warnf("Failed to initialize server logger, using stderr fallback: %v", err)
	}
}

// Runner performs one run per call. orchestrator.Runner implements it.
type Runner interface {
	Check() (reconcile.Status, error)
	Toggle() (reconcile.Outcome, error)
}

// Server serves the check and toggle pages. Runs are serialised: a request
// that arrives while another run drives the browser waits for it to finish.
type Server struct {
	runner    Runner
	mu        sync.Mutex
	startedAt time.Time
	lastRun   time.Time
	lastErr   string
}

// New creates a server around runner.
func New(runner Runner) *Server {
	return &Server{
		runner:    runner,
		startedAt: time.Now(),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/", s.handleCheck)
	router.Get("/toggle", s.handleToggle)
	router.Get("/healthz", s.handleHealthz)
	router.Handle("/metrics", promhttp.Handler())
	return router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		debugLog.Infof("serving on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-serverErr:
		return err
	}
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var status reconcile.Status
	err := s.run(func() (err error) {
		status, err = s.runner.Check()
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, status.Report(), "/toggle", "Toggle")
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var outcome reconcile.Outcome
	err := s.run(func() (err error) {
		outcome, err = s.runner.Toggle()
		return err
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writePage(w, outcome.Report(), "/", "Home")
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	payload := map[string]any{
		"status":     "ok",
		"run_id":     logging.GetRunID(),
		"uptime":     time.Since(s.startedAt).Round(time.Second).String(),
		"last_error": s.lastErr,
	}
	if !s.lastRun.IsZero() {
		payload["last_run"] = s.lastRun.UTC().Format(time.RFC3339)
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) run(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn()
	s.lastRun = time.Now()
	s.lastErr = ""
	if err != nil {
		s.lastErr = err.Error()
		debugLog.Errorf("request run failed: %v", err)
	}
	return err
}

func writePage(w http.ResponseWriter, text, link, label string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<h2>%s</h2><br><br><br><a href=\"%s\">%s</a>", strings.Join(lines, "<br>"), link, label)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "Error: %s", html.EscapeString(err.Error()))
}
