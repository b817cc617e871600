package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Server struct {
	client  *Client
	limiter domain.RateLimiter
	cfg     config.GatewayConfig
	server  *http.Server
	logger  *zerolog.Logger
}

func NewServer(cfg config.GatewayConfig, client *Client, limiter domain.RateLimiter, logger *zerolog.Logger) *Server {
	s := &Server{client: client, limiter: limiter, cfg: cfg, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.forward)
	mux.HandleFunc("GET /users/{id}", s.forward)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", s.forward)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("GET /items", s.withSharerAndPage)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", s.withSharer)
	mux.HandleFunc("PATCH /items/{id}", s.withSharer)
	mux.HandleFunc("DELETE /items/{id}", s.forward)
	mux.HandleFunc("POST /items/{id}/comment", s.handleCreateComment)

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /bookings", s.handleListBookings)
	mux.HandleFunc("GET /bookings/owner", s.handleListBookings)
	mux.HandleFunc("GET /bookings/owner/export", s.withSharer)
	mux.HandleFunc("GET /bookings/{id}", s.withSharer)
	mux.HandleFunc("PATCH /bookings/{id}", s.handleDecideBooking)
	mux.HandleFunc("DELETE /bookings/{id}", s.forward)

	mux.HandleFunc("POST /requests", s.handleCreateRequest)
	mux.HandleFunc("GET /requests", s.withSharer)
	mux.HandleFunc("GET /requests/all", s.withSharerAndPage)
	mux.HandleFunc("GET /requests/{id}", s.withSharer)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	handler := s.loggingMiddleware(s.rateLimitMiddleware(mux))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Str("server_url", s.cfg.ServerURL).Msg("gateway tier listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// forward relays without gateway-side checks.
func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	s.client.Forward(w, r)
}

func (s *Server) withSharer(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) withSharerAndPage(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePage(r); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateUser(body); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateUpdateUser(body); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateItem(body); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if err := validatePage(r); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateComment(body); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateBooking(body, time.Now()); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	if err := validateState(r); err != nil {
		writeError(w, err)
		return
	}
	if err := validatePage(r); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	if err := validateApproved(r); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		writeError(w, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := validateCreateRequest(body); err != nil {
		writeError(w, err)
		return
	}
	s.client.Forward(w, r)
}

// rateLimitMiddleware throttles per user id with the configured fixed window.
// Requests without a parseable user id pass through; the handlers decide
// whether the header is required.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	limit := s.cfg.RateLimit.Requests
	if s.limiter == nil || limit <= 0 {
		return next
	}
	window := time.Duration(s.cfg.RateLimit.WindowSeconds) * time.Second
	if window <= 0 {
		window = time.Minute
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, err := sharerID(r); err == nil {
			allowed, limitErr := s.limiter.CheckRateLimit(r.Context(), userID, limit, window)
			if limitErr != nil {
				s.logger.Error().Err(limitErr).Msg("rate limit check error")
			} else if !allowed {
				writeJSON(w, http.StatusTooManyRequests, errorResponse{
					Message: "rate limit exceeded",
					Error:   "RATE_LIMITED",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP("gateway", r.Pattern, recorder.status)
		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusBadRequest
	if kind == apperr.KindInternal {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, errorResponse{Message: err.Error(), Error: string(kind)})
}
