// Package api exposes the monitor suite over HTTP so other systems can
// trigger audits and test notifications without shelling out to the CLI.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fabriziosalmi/domainmate/internal/audit"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
	"github.com/fabriziosalmi/domainmate/internal/notify"
	"github.com/fabriziosalmi/domainmate/internal/validate"
)

// notifyTimeout bounds the background notification dispatch triggered by an
// analyze request; the HTTP response does not wait for it.
const notifyTimeout = 30 * time.Second

// Server serves analyze, notification-test, and health endpoints.
type Server struct {
	handler    http.Handler
	httpServer *http.Server
	monitors   []monitors.Monitor
	notifier   *notify.Service
	logger     *slog.Logger
	version    string
	startTime  time.Time
}

// Config holds the server's dependencies. Notifier may be nil when no
// notification channels are configured.
type Config struct {
	ListenAddress string
	Monitors      []monitors.Monitor
	Notifier      *notify.Service
	Logger        *slog.Logger
	Version       string
}

// New creates an API server over the given monitor suite.
func New(cfg *Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	s := &Server{
		monitors:  cfg.Monitors,
		notifier:  cfg.Notifier,
		logger:    cfg.Logger,
		version:   cfg.Version,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /notify/test", s.handleNotifyTest)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	s.handler = s.loggingMiddleware(mux)
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting API server", "address", s.httpServer.Addr)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

type analyzeRequest struct {
	Domain string   `json:"domain"`
	Skip   []string `json:"skip,omitempty"`
}

type analyzeResponse struct {
	Domain      string          `json:"domain"`
	GeneratedAt time.Time       `json:"generated_at"`
	Findings    []audit.Finding `json:"findings"`
	IssuesFound int             `json:"issues_found"`
}

// handleAnalyze runs the monitor suite, minus any skipped names, against one
// domain. Actionable findings are dispatched to the notification channels in
// the background; the response does not wait for delivery.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}

	domain := validate.CleanDomain(body.Domain)
	if !validate.IsDomain(domain) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("not a valid domain name: %q", body.Domain))
		return
	}

	selected := s.selectMonitors(body.Skip)
	if len(selected) == 0 {
		s.writeError(w, http.StatusBadRequest, "skip excludes every monitor")
		return
	}

	runner := audit.NewRunner(selected, 1, s.logger)
	rep := runner.Audit(r.Context(), []string{domain})
	issues := rep.Actionable()

	if len(issues) > 0 && s.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), notifyTimeout)
			defer cancel()
			if err := s.notifier.Dispatch(ctx, rep); err != nil {
				s.logger.Error("background notification failed", "domain", domain, "error", err)
			}
		}()
	}

	s.writeJSON(w, http.StatusOK, analyzeResponse{
		Domain:      domain,
		GeneratedAt: rep.GeneratedAt,
		Findings:    rep.Findings,
		IssuesFound: len(issues),
	})
}

// selectMonitors returns the monitor suite minus the skipped names.
func (s *Server) selectMonitors(skip []string) []monitors.Monitor {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	var out []monitors.Monitor
	for _, m := range s.monitors {
		if !skipped[m.Name()] {
			out = append(out, m)
		}
	}
	return out
}

type notifyTestRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// handleNotifyTest sends an arbitrary message through every configured
// notification channel so operators can verify their channel settings.
func (s *Server) handleNotifyTest(w http.ResponseWriter, r *http.Request) {
	var body notifyTestRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}
	if body.Title == "" {
		body.Title = "domainmate test notification"
	}

	if s.notifier == nil {
		s.writeError(w, http.StatusBadRequest, notify.ErrNoChannels.Error())
		return
	}
	if err := s.notifier.Test(r.Context(), body.Title, body.Message); err != nil {
		if errors.Is(err, notify.ErrNoChannels) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":         "healthy",
		"version":        s.version,
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":          "healthy",
		"monitors_active": len(s.monitors),
		"version":         s.version,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, map[string]string{"error": message})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}
