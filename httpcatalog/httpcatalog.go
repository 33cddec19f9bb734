// Package httpcatalog serves the API catalog with net/http.
//
// Server.ServeHTTP behaves like a standalone endpoint: 404 for any other
// path, 405 for methods other than GET and HEAD. Middleware answers the
// catalog path and passes everything else to the next handler.
package httpcatalog

import (
	"log/slog"
	"net/http"

	"github.com/alecgard/apicatalog/catalog"
)

// Observer is told about every catalog response that was written.
type Observer func(r *http.Request, origin catalog.OriginResult, status int)

type options struct {
	logger   *slog.Logger
	observer Observer
}

// Option configures a Server.
type Option func(*options)

// WithLogger sets the logger used for debug and error records.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver registers fn to be called after each catalog response.
func WithObserver(fn Observer) Option {
	return func(o *options) { o.observer = fn }
}

// Server renders catalog responses onto http.ResponseWriter.
type Server struct {
	catalog *catalog.Catalog
	opts    options
}

// New returns a Server for cfg. A nil cfg returns catalog.ErrNoConfig.
func New(cfg *catalog.Config, opts ...Option) (*Server, error) {
	c, err := catalog.New(cfg)
	if err != nil {
		return nil, err
	}
	return NewFromCatalog(c, opts...), nil
}

// NewFromCatalog wraps an existing Catalog.
func NewFromCatalog(c *catalog.Catalog, opts ...Option) *Server {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return &Server{catalog: c, opts: o}
}

// Catalog returns the wrapped catalog.
func (s *Server) Catalog() *catalog.Catalog { return s.catalog }

// ServeGet writes the full catalog document.
func (s *Server) ServeGet(w http.ResponseWriter, r *http.Request) {
	origin := s.catalog.ResolveOrigin(catalog.HTTPRequest(r))
	resp, err := catalog.GetResponse(s.catalog.BuildForOrigin(origin.Origin), origin.Origin)
	if err != nil {
		s.opts.logger.Error("rendering api catalog", "error", err)
		http.Error(w, "failed to render api catalog", http.StatusInternalServerError)
		s.observe(r, origin, http.StatusInternalServerError)
		return
	}
	s.write(w, r, origin, resp)
}

// ServeHead writes the catalog headers without a body.
func (s *Server) ServeHead(w http.ResponseWriter, r *http.Request) {
	origin := s.catalog.ResolveOrigin(catalog.HTTPRequest(r))
	s.write(w, r, origin, catalog.HeadResponse(origin.Origin))
}

// TryServe handles r when it targets the catalog path and reports whether it
// did. Unsupported methods on the catalog path get 405.
func (s *Server) TryServe(w http.ResponseWriter, r *http.Request) bool {
	if r.URL.Path != catalog.WellKnownPath {
		return false
	}
	switch r.Method {
	case http.MethodGet:
		s.ServeGet(w, r)
	case http.MethodHead:
		s.ServeHead(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
	return true
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.TryServe(w, r) {
		http.NotFound(w, r)
	}
}

// Middleware serves the catalog path and delegates the rest to next.
func (s *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.TryServe(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, origin catalog.OriginResult, resp catalog.Response) {
	if err := resp.WriteHTTP(w); err != nil {
		s.opts.logger.Warn("writing api catalog response", "error", err)
	}
	s.opts.logger.Debug("api catalog served",
		"method", r.Method,
		"origin", origin.Origin,
		"forwarded", origin.Forwarded,
	)
	s.observe(r, origin, resp.Status)
}

func (s *Server) observe(r *http.Request, origin catalog.OriginResult, status int) {
	if s.opts.observer != nil {
		s.opts.observer(r, origin, status)
	}
}

// Handler returns a standalone catalog handler for cfg.
func Handler(cfg *catalog.Config, opts ...Option) (http.Handler, error) {
	s, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Middleware returns middleware serving the catalog for cfg.
func Middleware(cfg *catalog.Config, opts ...Option) (func(http.Handler) http.Handler, error) {
	s, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return s.Middleware, nil
}

// Register mounts GET and HEAD handlers for the catalog path on mux.
func Register(mux *http.ServeMux, cfg *catalog.Config, opts ...Option) error {
	s, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET "+catalog.WellKnownPath, s.ServeGet)
	mux.HandleFunc("HEAD "+catalog.WellKnownPath, s.ServeHead)
	return nil
}
