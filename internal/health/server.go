// Package health serves the liveness, readiness and metrics endpoints of the
// bet-outlier watch loop.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	statusOK       = "ok"
	statusNotReady = "not_ready"

	defaultPort        = "8080"
	defaultMetricsPath = "/metrics"
	shutdownTimeout    = 5 * time.Second
)

// Checker reports whether a dependency is ready to serve.
type Checker interface {
	Ready() error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func() error

// Ready calls f.
func (f CheckerFunc) Ready() error {
	return f()
}

// StatusReport is the body written by every endpoint.
type StatusReport struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version,omitempty"`
	Commit  string            `json:"commit,omitempty"`
	Uptime  string            `json:"uptime,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Config holds the configuration for the health server.
type Config struct {
	ServiceName string
	Version     string
	Commit      string
	// Port falls back to HEALTH_PORT, then 8080
	Port   string
	Logger *logrus.Logger
	// Checks are consulted by /ready, keyed by name
	Checks map[string]Checker
	// MetricsHandler is mounted at MetricsPath when set
	MetricsHandler http.Handler
	MetricsPath    string
}

// Server answers orchestrator checks while the watch loop runs.
type Server struct {
	cfg     Config
	started time.Time
	ready   atomic.Bool
	httpSrv *http.Server
}

// NewServer fills in config defaults and returns a server that reports
// not ready until SetReady(true).
func NewServer(cfg Config) *Server {
	if cfg.Port == "" {
		cfg.Port = os.Getenv("HEALTH_PORT")
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = defaultMetricsPath
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
		cfg.Logger.SetOutput(io.Discard)
	}
	return &Server{cfg: cfg, started: time.Now()}
}

// SetReady flips the readiness flag reported by /ready.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.alive)
	mux.HandleFunc("/live", s.alive)
	mux.HandleFunc("/ready", s.readiness)
	if s.cfg.MetricsHandler != nil {
		mux.Handle(s.cfg.MetricsPath, s.cfg.MetricsHandler)
	}
	return mux
}

// Start listens in the background and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	log := s.cfg.Logger.WithField("port", s.cfg.Port)

	go func() {
		log.Info("bet-outlier status endpoints listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("bet-outlier status endpoints stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			log.WithError(err).Warn("status endpoint shutdown incomplete")
		}
	}()
	return nil
}

// Shutdown stops the listener, waiting up to five seconds for open requests.
func (s *Server) Shutdown() error {
	if s.httpSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) alive(w http.ResponseWriter, _ *http.Request) {
	s.write(w, http.StatusOK, StatusReport{
		Status:  statusOK,
		Service: s.cfg.ServiceName,
		Version: s.cfg.Version,
		Commit:  s.cfg.Commit,
		Uptime:  time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) readiness(w http.ResponseWriter, _ *http.Request) {
	report := StatusReport{
		Status:  statusOK,
		Service: s.cfg.ServiceName,
		Checks:  map[string]string{"watch": statusOK},
	}
	if !s.ready.Load() {
		report.Status = statusNotReady
		report.Checks["watch"] = statusNotReady
	}

	names := make([]string, 0, len(s.cfg.Checks))
	for name := range s.cfg.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := s.cfg.Checks[name].Ready(); err != nil {
			report.Status = statusNotReady
			report.Checks[name] = "error: " + err.Error()
			continue
		}
		report.Checks[name] = statusOK
	}

	code := http.StatusOK
	if report.Status != statusOK {
		code = http.StatusServiceUnavailable
	}
	s.write(w, code, report)
}

func (s *Server) write(w http.ResponseWriter, code int, report StatusReport) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.cfg.Logger.WithError(err).Debug("status response not written")
	}
}
