// Package api serves the simulation engine over HTTP with JSON bodies.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jude-pinkman/Hypercar-Sim/internal/metrics"
	"github.com/jude-pinkman/Hypercar-Sim/internal/sim"
	"github.com/jude-pinkman/Hypercar-Sim/internal/vehicle"
)

// Server wires the simulation runner and the vehicle catalog to HTTP routes.
type Server struct {
	runner  *sim.Runner
	catalog *vehicle.Catalog
	log     *zap.Logger
	http    *http.Server
}

// New builds the server with its routes mounted.
func New(addr string, runner *sim.Runner, catalog *vehicle.Catalog, log *zap.Logger) *Server {
	s := &Server{runner: runner, catalog: catalog, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/vehicles", s.handleVehicles)
	mux.HandleFunc("POST /api/reload", s.handleReload)
	mux.HandleFunc("POST /api/simulate/drag", s.handleDrag)
	mux.HandleFunc("POST /api/simulate/lap", s.handleLap)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      s.recover(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error { return s.http.ListenAndServe() }

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error { return s.http.Shutdown(ctx) }

// recover converts handler panics into 500 responses instead of dropping the
// connection.
func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				s.respondError(w, r, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	metrics.HTTPRequestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	s.respondJSON(w, r, code, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"vehicles": s.catalog.Len(),
	})
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"vehicles": s.catalog.List(),
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Reload(); err != nil {
		s.log.Error("catalog reload failed", zap.Error(err))
		s.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info("catalog reloaded", zap.Int("vehicles", s.catalog.Len()))
	s.respondJSON(w, r, http.StatusOK, map[string]any{
		"status":   "reloaded",
		"vehicles": s.catalog.Len(),
	})
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	var req sim.DragRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	resp, err := s.runner.RunDrag(r.Context(), req)
	metrics.SimulationDuration.WithLabelValues("drag").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("drag", "error").Inc()
		s.log.Warn("drag simulation failed", zap.Error(err))
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	metrics.SimulationsTotal.WithLabelValues("drag", "ok").Inc()
	for _, res := range resp.Results {
		if res.Fallback {
			metrics.CatalogFallbacks.Inc()
		}
	}
	s.respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleLap(w http.ResponseWriter, r *http.Request) {
	var req sim.LapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	start := time.Now()
	resp, err := s.runner.RunLap(r.Context(), req)
	metrics.SimulationDuration.WithLabelValues("lap").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SimulationsTotal.WithLabelValues("lap", "error").Inc()
		s.log.Warn("lap simulation failed", zap.Error(err))
		s.respondError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	}

	metrics.SimulationsTotal.WithLabelValues("lap", "ok").Inc()
	if resp.Fallback {
		metrics.CatalogFallbacks.Inc()
	}
	s.respondJSON(w, r, http.StatusOK, resp)
}
