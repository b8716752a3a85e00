package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
	"github.com/cespare/xxhash/v2"
	"github.com/go-chi/chi/v5"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// readHeaderTimeout bounds how long a client may take to send headers.
const readHeaderTimeout = 5 * time.Second

// cacheControl is sent with every rendered page. Pages are public and
// short-lived; upstream content changes without notice.
const cacheControl = "public, max-age=300"

// Server serves documentation pages as Markdown: the configured upstream
// under the root routes and arbitrary origins under the external proxy
// prefix. External targets pass the access gate; the upstream origin is
// operator-designated and fetched directly.
type Server struct {
	server *http.Server
	router chi.Router

	addr       string
	upstream   string
	logger     *slog.Logger
	metrics    http.Handler
	instrument func(http.Handler) http.Handler

	gate     *sosumi.Gate
	docs     sosumi.DocumentService
	renderer sosumi.DocumentRenderer

	landing string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address. Defaults to DefaultAddr.
func WithAddr(addr string) ServerOption {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithUpstream sets the origin mirrored under the root routes.
// Defaults to sosumi.DefaultUpstream.
func WithUpstream(origin string) ServerOption {
	return func(s *Server) {
		s.upstream = origin
	}
}

// WithLogger sets the server's logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler exposes h at GET /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithInstrumentation wraps every route in mw.
func WithInstrumentation(mw func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) {
		s.instrument = mw
	}
}

// NewServer creates a Server rendering documents fetched by docs through
// renderer, gating external targets with gate.
func NewServer(gate *sosumi.Gate, docs sosumi.DocumentService, renderer sosumi.DocumentRenderer, opts ...ServerOption) *Server {
	s := &Server{
		addr:     DefaultAddr,
		upstream: sosumi.DefaultUpstream,
		logger:   slog.Default(),
		gate:     gate,
		docs:     docs,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.landing = landingPage(s.upstream)
	s.router = s.routes()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(s.logger))
	r.Use(Recoverer(s.logger))
	if s.instrument != nil {
		r.Use(s.instrument)
	}

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Get("/robots.txt", s.handleRobotsTxt)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get(sosumi.ProxyPathPrefix+"*", s.handleExternal)
	r.Get("/*", s.handleUpstream)

	return r
}

// handleExternal serves GET /external/<url>: the percent-decoded remainder
// of the path names the documentation page to render.
func (s *Server) handleExternal(w http.ResponseWriter, r *http.Request) {
	raw, err := sosumi.DecodeProxyPath(r.URL.EscapedPath())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.URL.RawQuery != "" {
		raw += "?" + r.URL.RawQuery
	}

	target, err := sosumi.ParseTargetURL(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.gate.Authorize(r.Context(), target); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.serveDocument(w, r, target, target.Origin())
}

// handleUpstream mirrors any other path from the configured upstream.
func (s *Server) handleUpstream(w http.ResponseWriter, r *http.Request) {
	raw := s.upstream + r.URL.EscapedPath()
	if r.URL.RawQuery != "" {
		raw += "?" + r.URL.RawQuery
	}

	target, err := sosumi.ParseTargetURL(raw)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.serveDocument(w, r, target, "")
}

func (s *Server) serveDocument(w http.ResponseWriter, r *http.Request, target *sosumi.TargetURL, externalBase string) {
	doc, err := s.docs.FetchDocument(r.Context(), target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeMarkdown(w, r, s.renderer.Render(doc, target, externalBase))
}

// writeMarkdown sends a rendered page with its ETag, answering 304 when
// the client already holds the current rendering.
func (s *Server) writeMarkdown(w http.ResponseWriter, r *http.Request, md string) {
	etag := fmt.Sprintf("\"%x\"", xxhash.Sum64String(md))
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", cacheControl)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, md)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	fmt.Fprint(w, s.landing)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": sosumi.Version,
	})
}

// handleRobotsTxt publishes this service's own crawl policy.
func (s *Server) handleRobotsTxt(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "User-agent: *\nAllow: /\n")
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Handler returns the server's route tree.
func (s *Server) Handler() http.Handler {
	return s.router
}
