// Package http exposes the fleet API as JSON over net/http.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"log/slog"

	"github.com/AhmedElsenosy/car-management-API/internal/core"
	"github.com/AhmedElsenosy/car-management-API/internal/report"
	"github.com/AhmedElsenosy/car-management-API/internal/services"
)

// FleetAPI is the slice of the fleet service the handlers consume.
type FleetAPI interface {
	CreateCar(ctx context.Context, c core.Car) (core.Car, error)
	GetCar(ctx context.Context, id int64) (core.Car, error)
	ListCars(ctx context.Context) ([]core.Car, error)
	UpdateCar(ctx context.Context, c core.Car) (core.Car, error)
	DeleteCar(ctx context.Context, id int64) error

	CreateDailyEntry(ctx context.Context, e core.DailyEntry) (core.DailyEntry, error)
	UpdateDailyEntryByDate(ctx context.Context, carID int64, date core.Date, e core.DailyEntry) (core.DailyEntry, error)

	UpsertWeekly(ctx context.Context, in services.WeeklyInput) (services.WeeklyDetail, error)
	UpdateWeeklyByDate(ctx context.Context, in services.WeeklyInput) (services.WeeklyDetail, error)
	WeeklyDetail(ctx context.Context, carID int64, date core.Date) (services.WeeklyDetail, error)
	MonthlyDetail(ctx context.Context, carID int64, year, month int) (report.MonthlyTotals, error)

	CreateMaintenance(ctx context.Context, m core.MaintenanceEntry) (core.MaintenanceEntry, error)
	UpdateMaintenanceByDate(ctx context.Context, carID int64, date core.Date, m core.MaintenanceEntry) (core.MaintenanceEntry, error)
	MaintenanceByYear(ctx context.Context, carID int64, year int) ([]core.MaintenanceEntry, error)
}

var _ FleetAPI = (*services.FleetService)(nil)

type Server struct {
	http.Server
	fleet        FleetAPI
	ready        func(ctx context.Context) error
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
// ready is called by the readiness probe and may be nil.
func NewServer(addr string, fleet FleetAPI, ready func(ctx context.Context) error) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		fleet:       fleet,
		ready:       ready,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /cars", s.withMiddleware(s.handleListCars))
	mux.HandleFunc("POST /cars", s.withMiddleware(s.handleCreateCar))
	mux.HandleFunc("GET /cars/{id}", s.withMiddleware(s.handleGetCar))
	mux.HandleFunc("PUT /cars/{id}", s.withMiddleware(s.handleUpdateCar))
	mux.HandleFunc("DELETE /cars/{id}", s.withMiddleware(s.handleDeleteCar))

	mux.HandleFunc("POST /daily-entries", s.withMiddleware(s.handleCreateDailyEntry))
	mux.HandleFunc("PUT /daily-entries/by-date", s.withMiddleware(s.handleUpdateDailyEntryByDate))

	mux.HandleFunc("POST /weekly", s.withMiddleware(s.handleUpsertWeekly))
	mux.HandleFunc("PUT /weekly/by-date", s.withMiddleware(s.handleUpdateWeeklyByDate))
	mux.HandleFunc("GET /weekly/detail", s.withMiddleware(s.handleWeeklyDetail))
	mux.HandleFunc("GET /monthly/detail", s.withMiddleware(s.handleMonthlyDetail))

	mux.HandleFunc("POST /maintenance", s.withMiddleware(s.handleCreateMaintenance))
	mux.HandleFunc("PUT /maintenance/by-date", s.withMiddleware(s.handleUpdateMaintenanceByDate))
	mux.HandleFunc("GET /maintenance/year", s.withMiddleware(s.handleMaintenanceByYear))

	return s
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutating requests only
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("not ready"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
