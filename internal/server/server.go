// Package server exposes the directory over HTTP: the composed listing,
// per-employee detail with localized occasion badges, letter navigation,
// persisted filter state, and the occasions calendar/vCard exports.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"staffdir/internal/config"
	"staffdir/internal/engine"
	"staffdir/internal/metrics"
	"staffdir/internal/state"
)

// EmployeeSource supplies directory records. Implemented by store.Store.
type EmployeeSource interface {
	List(ctx context.Context) ([]engine.Employee, error)
	Get(ctx context.Context, empNo string) (engine.Employee, error)
}

// FilterStore persists the filter panel selections. Implemented by state.Store.
type FilterStore interface {
	Load() (state.SavedFilters, error)
	Save(state.SavedFilters) error
}

// DirectoryServer serves the employee directory API.
type DirectoryServer struct {
	Addr    string
	Source  EmployeeSource
	Filters FilterStore

	composer engine.Composer
	calendar calendarCache
	i18n     *translator
}

// NewDirectoryServer wires the server with its collaborators.
func NewDirectoryServer(addr string, source EmployeeSource, filters FilterStore, clock engine.Clock) *DirectoryServer {
	return &DirectoryServer{
		Addr:     addr,
		Source:   source,
		Filters:  filters,
		composer: engine.Composer{Clock: clock},
		i18n:     newTranslator(),
	}
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *DirectoryServer) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteDirectory, s.instrument(config.RouteDirectory, s.handleDirectory))
	mux.HandleFunc(config.RouteDirectoryDetail, s.instrument(config.RouteDirectoryDetail, s.handleDetail))
	mux.HandleFunc(config.RouteLetters, s.instrument(config.RouteLetters, s.handleLetters))
	mux.HandleFunc(config.RouteFilters, s.instrument(config.RouteFilters, s.handleFilters))
	mux.HandleFunc(config.RouteCalendar, s.instrument(config.RouteCalendar, s.handleCalendar))
	mux.HandleFunc(config.RouteVCard, s.instrument(config.RouteVCard, s.handleVCard))
	mux.Handle(config.RouteMetrics, promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// statusRecorder captures the response code for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with the per-route request counter.
func (s *DirectoryServer) instrument(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
	}
}
