package ops

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyFunc reports whether the server can serve traffic, typically by
// pinging the database.
type ReadyFunc func(ctx context.Context) error

// NewRouter wires /metrics and /healthz.
func NewRouter(m *Metrics, ready ReadyFunc) http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthHandler(ready)).Methods(http.MethodGet)

	return m.instrument(router)
}

func healthHandler(ready ReadyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if ready != nil {
			if err := ready(ctx); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("unavailable\n"))
				return
			}
		}
		_, _ = w.Write([]byte("ok\n"))
	}
}

type statusRecordingWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecordingWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// unmatchedRoute labels requests that hit no route, so unknown paths share
// one series.
const unmatchedRoute = "unmatched"

// routeLabel returns the path template of the route serving r.
func routeLabel(router *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if !router.Match(r, &match) || match.Route == nil {
		return unmatchedRoute
	}
	tmpl, err := match.Route.GetPathTemplate()
	if err != nil {
		return unmatchedRoute
	}
	return tmpl
}

func (m *Metrics) instrument(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		route := routeLabel(router, r)

		rw := &statusRecordingWriter{ResponseWriter: w, statusCode: http.StatusOK}
		router.ServeHTTP(rw, r)

		m.httpDuration.WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).
			Observe(time.Since(start).Seconds())
	})
}

// HTTPServer runs the ops router until its context is cancelled.
type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(address string, h http.Handler, l logging.Logger) *HTTPServer {
	return &HTTPServer{address: address, handler: h, logger: l.With("module", "ops_http")}
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping ops HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting ops HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
