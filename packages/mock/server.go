// Package mock provides a mock HTTP server that serves responses described
// in a YAML routes file.
package mock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	hf "github.com/abdul-hamid-achik/hitfetch/packages/http"
)

// WatchDebounceDelay is how long Watch waits after the last file event
// before reloading.
const WatchDebounceDelay = 100 * time.Millisecond

// Server is a mock HTTP server driven by a routes file
type Server struct {
	router atomic.Pointer[Router]
	path   string
	port   int
	delay  time.Duration
	logger *slog.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithLogger sets the request logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new mock server with no routes
func NewServer(opts ...Option) *Server {
	s := &Server{
		port:   3000,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.router.Store(NewRouter())
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadFile loads routes from path and remembers it for Reload and Watch.
func (s *Server) LoadFile(path string) error {
	routes, err := LoadRoutes(path)
	if err != nil {
		return err
	}
	s.path = path
	s.SetRoutes(routes)
	return nil
}

// SetRoutes replaces the route table.
func (s *Server) SetRoutes(routes []*Route) {
	s.router.Store(NewRouter(routes...))
}

// Reload re-reads the routes file. On error the current routes stay active.
func (s *Server) Reload() error {
	if s.path == "" {
		return errors.New("no routes file loaded")
	}
	routes, err := LoadRoutes(s.path)
	if err != nil {
		return err
	}
	s.SetRoutes(routes)
	s.logger.Info("routes reloaded", "file", s.path, "routes", len(routes))
	return nil
}

// Routes returns all registered routes
func (s *Server) Routes() []*Route {
	return s.router.Load().Routes()
}

// Handler returns the http.Handler serving the routes.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start serves on the configured port until ctx is cancelled. ready, when
// non-nil, receives the bound address once the listener is open.
func (s *Server) Start(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.port, err)
	}

	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("mock server started", "addr", ln.Addr().String(), "routes", len(s.Routes()))
	if ready != nil {
		ready(ln.Addr().String())
	}

	if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Watch reloads the routes file whenever it changes, until ctx is
// cancelled. Reload failures are logged and the previous routes kept.
func (s *Server) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("no routes file loaded")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace files rather than write them, so watch the
	// directory and filter by name.
	target, err := filepath.Abs(s.path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, _ := filepath.Abs(event.Name)
			if name != target || (!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				if err := s.Reload(); err != nil {
					s.logger.Error("reload failed", "file", s.path, "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("watch error", "error", err)
		}
	}
}

type notFoundBody struct {
	Error       string   `json:"error"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	router := s.router.Load()
	route, params := router.Match(r.Method, r.URL.EscapedPath())

	if route == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(notFoundBody{
			Error:       fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path),
			Suggestions: router.Suggest(r.URL.Path, 3),
		})
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", http.StatusNotFound, "duration", time.Since(start))
		return
	}

	resp := route.Response

	for key, value := range resp.Headers {
		w.Header().Set(key, substitute(value, params))
	}
	if resp.NTag != "" {
		w.Header().Set(hf.HeaderSessionTag, substitute(resp.NTag, params))
	}
	w.Header().Set("Content-Type", resp.ContentType)

	w.WriteHeader(resp.StatusCode)
	if resp.StatusCode != http.StatusNoContent {
		_, _ = io.WriteString(w, substitute(resp.Body, params))
	}

	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"ntag", r.Header.Get(hf.HeaderSessionTag),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
}
