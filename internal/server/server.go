package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/ytsheet/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows the path patterns it serves.
type Handler interface {
	http.Handler
	Routes() []string
}

// Router registers handlers behind a shared middleware stack.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// LoggingMiddleware logs each request with its status and duration at debug level.
func LoggingMiddleware(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Debug("callback request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// CallbackServer listens on addr until the OAuth callback arrives, the context ends, or the timeout passes.
type CallbackServer struct {
	addr    string
	handler *OAuthHandler
	timeout time.Duration
	logger  *log.Logger
}

// NewCallbackServer creates a [CallbackServer] for handler on host:port.
func NewCallbackServer(host string, port int, handler *OAuthHandler, timeout time.Duration, logger *log.Logger) *CallbackServer {
	if host == "" {
		host = "localhost"
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &CallbackServer{
		addr:    net.JoinHostPort(host, fmt.Sprint(port)),
		handler: handler,
		timeout: timeout,
		logger:  logger,
	}
}

// Addr returns the listen address.
func (s *CallbackServer) Addr() string {
	return s.addr
}

// WaitForToken serves the callback and returns the exchanged token. ready, when non-nil, runs once the listener is bound.
func (s *CallbackServer) WaitForToken(ctx context.Context, ready func()) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.serve(ctx, ln, ready)
}

func (s *CallbackServer) serve(ctx context.Context, ln net.Listener, ready func()) (*oauth2.Token, error) {
	router := NewBasicRouter()
	router.Use(LoggingMiddleware(s.logger))
	router.Handler(s.handler)

	srv := &http.Server{Handler: router, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("callback server shutdown", "err", err)
		}
	}()

	if ready != nil {
		ready()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	select {
	case result := <-s.handler.Result():
		if result.Err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, result.Err)
		}
		return result.Token, nil
	case err := <-serveErr:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: no authorization callback within %s", shared.ErrTimeout, s.timeout)
		}
		return nil, ctx.Err()
	}
}
