package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	arbitrageApp "github.com/fd1az/defi-agents/business/arbitrage/app"
	"github.com/fd1az/defi-agents/internal/apperror"
	"github.com/fd1az/defi-agents/internal/logger"
)

// ServerConfig holds configuration for the gateway HTTP server.
type ServerConfig struct {
	Port    int
	Version string
}

// Server exposes the lifecycle controller over REST and WebSocket.
type Server struct {
	config     ServerConfig
	controller *arbitrageApp.Controller
	wsHandler  http.Handler
	logger     logger.LoggerInterface

	startTime time.Time
	server    *http.Server
}

// NewServer creates the gateway server. wsHandler serves /ws; pass nil
// to disable the WebSocket endpoint.
func NewServer(cfg ServerConfig, controller *arbitrageApp.Controller, wsHandler http.Handler, log logger.LoggerInterface) *Server {
	return &Server{
		config:     cfg,
		controller: controller,
		wsHandler:  wsHandler,
		logger:     log,
		startTime:  time.Now(),
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/opportunities", s.handleOpportunities)
	mux.HandleFunc("POST /api/system/start", s.handleStart)
	mux.HandleFunc("POST /api/system/stop", s.handleStop)
	mux.HandleFunc("GET /api/system/settings", s.handleGetSettings)
	mux.HandleFunc("POST /api/system/settings", s.handleUpdateSettings)
	mux.HandleFunc("GET /api/system/status", s.handleStatus)
	mux.HandleFunc("POST /api/opportunity/{id}/approve", s.handleApprove)
	mux.HandleFunc("POST /api/opportunity/{id}/reject", s.handleReject)

	if s.wsHandler != nil {
		mux.Handle("GET /ws", s.wsHandler)
	}

	return otelhttp.NewHandler(mux, "gateway")
}

// Start begins listening. Non-blocking; listen errors are logged.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error(context.Background(), "gateway server stopped", "error", err)
		}
	}()

	s.logger.Info(context.Background(), "gateway server listening", "port", s.config.Port)
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).Milliseconds(),
		"timestamp": time.Now().UnixMilli(),
		"version":   s.config.Version,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	status, err := s.controller.GetStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status.Stats)
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	opps, err := s.controller.ListOpportunities(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]OpportunityView, 0, len(opps))
	for _, opp := range opps {
		views = append(views, NewOpportunityView(opp))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	// Settings may be piggybacked on the start request.
	var patch arbitrageApp.SettingsPatch
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "malformed request body"))
			return
		}
	}

	settings, err := s.controller.UpdateSettings(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	started, err := s.controller.Start(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !started {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "System already running",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "System started",
		"settings": settings,
	})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	stopped, err := s.controller.Stop(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !stopped {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "System not running",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "System stopped",
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	status, err := s.controller.GetStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status.Settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch arbitrageApp.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.writeError(w, r, apperror.Validation(apperror.CodeInvalidInput, "malformed request body"))
		return
	}
	settings, err := s.controller.UpdateSettings(r.Context(), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"settings": settings,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.controller.GetStatus(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.controller.Approve(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Opportunity approved; execution started",
	})
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.controller.Reject(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Opportunity rejected",
	})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal error"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		statusCode = appErr.StatusCode
		message = appErr.Message
		if appErr.Context != "" {
			message = appErr.Context
		}
	}

	if statusCode >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}

	writeJSON(w, statusCode, map[string]any{
		"success": false,
		"message": message,
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
