// Package catalogserver exposes an autoselect.Source over HTTP so remote
// fields can search it:
//
//	GET /health           -> {"status": "ready", "items": 12, ...}
//	GET /search?term=foo  -> {"items": [{"id": 1, "title": "..."}]}
package catalogserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kingrea/autoselect/internal/autoselect"
)

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

const requestIDHeader = "X-Request-ID"

var errServerDisabled = errors.New("catalogserver: server disabled")

// Logger receives request and lifecycle lines.
type Logger interface {
	Printf(format string, args ...any)
}

// Counter reports the size of the served catalog for /health.
type Counter interface {
	Len() int
}

// Server wraps the HTTP listener and handlers backing the search endpoint.
type Server struct {
	settings Settings
	source   autoselect.Source
	logger   Logger
	clock    func() time.Time

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewServer prepares a search server for source.
func NewServer(settings Settings, source autoselect.Source, opts ...Option) *Server {
	s := &Server{
		settings: settings,
		source:   source,
		logger:   nopLogger{},
		clock:    func() time.Time { return time.Now().UTC() },
		status:   StatusStarting,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler builds the gin engine serving the routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())
	r.GET("/health", s.handleHealth)
	r.HEAD("/health", s.handleHealth)
	r.GET("/search", s.handleSearch)
	return r
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("catalogserver: server is nil")
	}
	if !s.settings.Enabled {
		return errServerDisabled
	}
	if s.source == nil {
		return fmt.Errorf("catalogserver: source is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("catalogserver: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("catalogserver: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	s.status = StatusReady
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("catalogserver: serve error: %v", err)
		}
	}()
	s.logger.Printf("catalogserver: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	s.status = StatusDraining
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL (scheme + host:port) for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(s.clock().Sub(s.startTime).Seconds())
}

type healthResponse struct {
	Status        string `json:"status"`
	Items         int    `json:"items"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := healthResponse{
		Status:        string(s.Status()),
		Items:         -1,
		UptimeSeconds: s.uptimeSeconds(),
	}
	if counter, ok := s.source.(Counter); ok {
		resp.Items = counter.Len()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSearch(c *gin.Context) {
	term := c.Query("term")
	resp, err := s.source.Search(c.Request.Context(), term)
	if err != nil {
		s.logger.Printf("catalogserver: search %q failed: %v", term, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	if resp.Items == nil {
		resp.Items = []autoselect.Item{}
	}
	if limit := s.settings.Limit; limit > 0 && len(resp.Items) > limit {
		resp.Items = resp.Items[:limit]
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := s.clock()
		c.Next()
		s.logger.Printf("catalogserver: %s %s %d %s id=%s",
			c.Request.Method,
			c.Request.URL.RequestURI(),
			c.Writer.Status(),
			s.clock().Sub(start),
			c.GetHeader(requestIDHeader),
		)
	}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
