// Package web serves the calculator page and its JSON API.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/huangsam/dmgcalc/core"
	"github.com/huangsam/dmgcalc/internal/contract"
	"github.com/huangsam/dmgcalc/internal/statesink"
	"github.com/huangsam/dmgcalc/schema"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

// Server wires the handlers to a base configuration and the history store.
type Server struct {
	cfg     Config
	base    *contract.Config
	history contract.HistoryManager
	logger  *slog.Logger
}

// NewServer creates a server. base supplies the config file overrides and
// presets every request starts from; history may be nil.
func NewServer(cfg Config, base *contract.Config, history contract.HistoryManager, logger *slog.Logger) *Server {
	if base == nil {
		base = &contract.Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, base: base, history: history, logger: logger}
}

// Handler returns the instrumented routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /set", s.handleSet)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /api/damage", s.handleDamage)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return otelhttp.NewHandler(mux, "dmgcalc")
}

// Run serves on cfg.Addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting http server", "addr", lis.Addr().String())
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	store, err := core.NewStoreWithSink(s.base, statesink.NewURLSink(&u))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	templ.Handler(page(newPageModel(store, newPrinter()))).ServeHTTP(w, r)
}

// handleSet applies one input change and redirects to the re-encoded state.
func (s *Server) handleSet(w http.ResponseWriter, r *http.Request) {
	sink := statesink.NewRedirectSink(w, r, "/")
	store, err := core.NewStoreWithSink(s.base, sink)
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}

	build := schema.BuildID(r.Form.Get("build"))
	field := r.Form.Get("field")
	if err := store.SetInput(build, field, r.Form.Get("value")); err != nil {
		if errors.Is(err, core.ErrUnknownBuild) || errors.Is(err, core.ErrUnknownField) {
			s.fail(w, r, http.StatusBadRequest, err)
			return
		}
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	s.logger.Debug("input applied", "build", build, "field", field, "written", sink.Written())

	// An unchanged encoding skips the sink, so redirect here
	if !sink.Written() {
		http.Redirect(w, r, "/?"+store.Query(), http.StatusSeeOther)
	}
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	store, err := core.NewStoreWithSink(s.base, statesink.NewURLSink(&u))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	result := store.Result()
	core.RecordRun(core.WithHistorySource(r.Context(), core.SourceWeb), s.history, result)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDamage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := parseDamageRequest(q)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}

	u := *r.URL
	store, err := core.NewStoreWithSink(s.base, statesink.NewURLSink(&u))
	if err != nil {
		s.fail(w, r, http.StatusInternalServerError, err)
		return
	}
	result, err := core.EvaluateDamage(store, req)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseDamageRequest reads strength, build and crit from the query.
func parseDamageRequest(q url.Values) (core.DamageRequest, error) {
	var req core.DamageRequest
	raw := q.Get("strength")
	if raw == "" {
		return req, errors.New("strength is required")
	}
	strength, ok := schema.ParseFinite(raw)
	if !ok {
		return req, fmt.Errorf("strength must be a finite number, got %q", raw)
	}
	req.Strength = strength

	var err error
	if req.Build, err = core.ParseBuild(q.Get("build")); err != nil {
		return req, err
	}
	if c := q.Get("crit"); c != "" {
		if req.Crit, err = strconv.ParseBool(c); err != nil {
			return req, fmt.Errorf("crit must be a boolean, got %q", c)
		}
	}
	return req, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
