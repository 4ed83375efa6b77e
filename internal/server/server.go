// Package server implements the cortexwalk HTTP API.
//
// Routes:
//
//	GET  /healthz               liveness
//	GET  /version               build information
//	GET  /metrics               Prometheus exposition, when enabled
//	GET  /api/v1/samples        k and the sample of every color
//	GET  /api/v1/kmers/{kmer}   per-color coverage and edges of one k-mer
//	POST /api/v1/walk           traverse, walk and render from seeds
//	POST /api/v1/call           call variants from a sample's novel k-mers
package server

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cortexwalk/pkg/buildinfo"
	"github.com/matzehuels/cortexwalk/pkg/caller"
	"github.com/matzehuels/cortexwalk/pkg/config"
	"github.com/matzehuels/cortexwalk/pkg/errors"
	"github.com/matzehuels/cortexwalk/pkg/httputil"
	"github.com/matzehuels/cortexwalk/pkg/observability"
	"github.com/matzehuels/cortexwalk/pkg/pipeline"
	"github.com/matzehuels/cortexwalk/pkg/store"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 60 * time.Second

// Options configures a [Server].
type Options struct {
	// Runner executes walk requests. Its store also answers k-mer lookups.
	Runner *pipeline.Runner
	// Defaults fill traversal settings a walk request leaves empty.
	Defaults config.TraversalConfig
	// References and Caller configure call requests.
	References []caller.Reference
	Caller     config.CallerConfig
	// Metrics serves /metrics when set.
	Metrics http.Handler
	Timeout time.Duration
	Logger  *log.Logger
}

// Server routes API requests.
type Server struct {
	runner     *pipeline.Runner
	defaults   config.TraversalConfig
	references []caller.Reference
	caller     config.CallerConfig
	logger     *log.Logger
	router     chi.Router
}

// New builds the router.
func New(o Options) *Server {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	s := &Server{
		runner:     o.Runner,
		defaults:   o.Defaults,
		references: o.References,
		caller:     o.Caller,
		logger:     o.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(o.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if o.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.Metrics)
	}
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/samples", s.handleSamples)
		r.Get("/kmers/{kmer}", s.handleKmer)
		r.Post("/walk", s.handleWalk)
		r.Post("/call", s.handleCall)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// instrument reports every request to the HTTP hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.HTTP()

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		// The route pattern is known only once chi has matched.
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnRequest(r.Context(), r.Method, route)
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, buildinfo.Get())
}

// SamplesResponse describes the graph.
type SamplesResponse struct {
	KmerSize int      `json:"kmer_size"`
	Samples  []string `json:"samples"` // indexed by color
}

func (s *Server) handleSamples(w http.ResponseWriter, r *http.Request) {
	st := s.runner.Store
	resp := SamplesResponse{KmerSize: st.KmerSize(), Samples: make([]string, st.NumColors())}
	for c := range resp.Samples {
		resp.Samples[c] = st.SampleName(c)
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

// KmerResponse is the per-color content of one k-mer. Edges are those of
// the canonical orientation.
type KmerResponse struct {
	Kmer      string      `json:"kmer"`
	Canonical string      `json:"canonical"`
	Flipped   bool        `json:"flipped"`
	Colors    []ColorInfo `json:"colors"`
}

// ColorInfo is one color of a [KmerResponse].
type ColorInfo struct {
	Color    int    `json:"color"`
	Sample   string `json:"sample"`
	Coverage uint32 `json:"coverage"`
	Edges    string `json:"edges"`
}

func (s *Server) handleKmer(w http.ResponseWriter, r *http.Request) {
	st := s.runner.Store
	bases := strings.ToUpper(chi.URLParam(r, "kmer"))
	if err := errors.ValidateKmer(bases, st.KmerSize()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	rec, flipped, ok := store.Find(st, bases)
	if !ok {
		httputil.WriteError(w, errors.New(errors.ErrCodeKmerNotFound, "k-mer %s not in graph", bases))
		return
	}
	resp := KmerResponse{Kmer: bases, Canonical: string(rec.Kmer), Flipped: flipped}
	for c := 0; c < rec.NumColors(); c++ {
		info := ColorInfo{Color: c, Sample: st.SampleName(c), Edges: rec.Edge(c).String()}
		if c < len(rec.Coverage) {
			info.Coverage = rec.Coverage[c]
		}
		resp.Colors = append(resp.Colors, info)
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

// WalkResponse is the result of a walk request. Artifacts are keyed by
// format and carried as text.
type WalkResponse struct {
	Found     bool               `json:"found"`
	Contigs   []pipeline.Contig  `json:"contigs"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Artifacts map[string]string  `json:"artifacts"`
}

func (s *Server) handleWalk(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := httputil.DecodeJSON(r, &opts, 0); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if opts.Previous != "" {
		if err := errors.ValidatePath(opts.Previous); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	opts.Traversal = withDefaults(opts.Traversal, s.defaults)
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		if r.Context().Err() != nil {
			err = errors.Wrap(errors.ErrCodeTimeout, err, "walk")
		}
		httputil.WriteError(w, err)
		return
	}
	resp := WalkResponse{
		Found:     res.Found,
		Contigs:   res.Contigs,
		Stats:     res.Stats,
		Cache:     res.CacheInfo,
		Artifacts: make(map[string]string, len(res.Artifacts)),
	}
	for f, data := range res.Artifacts {
		resp.Artifacts[f] = string(data)
	}
	_ = httputil.WriteJSON(w, http.StatusOK, resp)
}

// withDefaults fills every empty field of t from def.
func withDefaults(t, def config.TraversalConfig) config.TraversalConfig {
	if len(t.Colors) == 0 {
		t.Colors = def.Colors
	}
	if len(t.Joining) == 0 {
		t.Joining = def.Joining
	}
	if len(t.Recruitment) == 0 {
		t.Recruitment = def.Recruitment
	}
	if len(t.Secondary) == 0 {
		t.Secondary = def.Secondary
	}
	if t.Direction == "" {
		t.Direction = def.Direction
	}
	if t.Operator == "" {
		t.Operator = def.Operator
	}
	if t.Rule == "" {
		t.Rule = def.Rule
	}
	if t.MaxBranchLength == 0 {
		t.MaxBranchLength = def.MaxBranchLength
	}
	if t.MaxWalkLength == 0 {
		t.MaxWalkLength = def.MaxWalkLength
	}
	return t
}
