// Package api is the server tier: it owns the domain services and exposes
// them over HTTP to the gateway.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/service"

	"github.com/rs/zerolog"
)

type Server struct {
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
	server   *http.Server
	logger   *zerolog.Logger
}

func NewServer(
	cfg config.ServerConfig,
	users *service.UserService,
	items *service.ItemService,
	bookings *service.BookingService,
	requests *service.RequestService,
	logger *zerolog.Logger,
) *Server {
	s := &Server{
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		logger:   logger,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", s.handleCreateUser)
	mux.HandleFunc("GET /users", s.handleListUsers)
	mux.HandleFunc("GET /users/{id}", s.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", s.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", s.handleDeleteUser)

	mux.HandleFunc("POST /items", s.handleCreateItem)
	mux.HandleFunc("GET /items", s.handleListItems)
	mux.HandleFunc("GET /items/search", s.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", s.handleGetItem)
	mux.HandleFunc("PATCH /items/{id}", s.handleUpdateItem)
	mux.HandleFunc("DELETE /items/{id}", s.handleDeleteItem)
	mux.HandleFunc("POST /items/{id}/comment", s.handleCreateComment)

	mux.HandleFunc("POST /bookings", s.handleCreateBooking)
	mux.HandleFunc("GET /bookings", s.handleListBookingsByBooker)
	mux.HandleFunc("GET /bookings/owner", s.handleListBookingsByOwner)
	mux.HandleFunc("GET /bookings/owner/export", s.handleExportBookings)
	mux.HandleFunc("GET /bookings/{id}", s.handleGetBooking)
	mux.HandleFunc("PATCH /bookings/{id}", s.handleDecideBooking)
	mux.HandleFunc("DELETE /bookings/{id}", s.handleDeleteBooking)

	mux.HandleFunc("POST /requests", s.handleCreateRequest)
	mux.HandleFunc("GET /requests", s.handleListOwnRequests)
	mux.HandleFunc("GET /requests/all", s.handleListOtherRequests)
	mux.HandleFunc("GET /requests/{id}", s.handleGetRequest)

	mux.HandleFunc("GET /healthz", s.handleHealth)

	limiter := newClientLimiter(cfg.RateLimit)
	handler := loggingMiddleware(logger, "server")(limiter.Middleware(mux))

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("server tier listening")
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
