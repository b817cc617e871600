package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/export"
	"shareit/internal/service"
)

func (s *Server) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	booking, err := s.bookings.Create(r.Context(), req, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *Server) handleDecideBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	approved, err := strconv.ParseBool(r.URL.Query().Get("approved"))
	if err != nil {
		writeError(w, apperr.Validation("approved must be true or false"))
		return
	}
	booking, err := s.bookings.Decide(r.Context(), bookingID, userID, approved)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	booking, err := s.bookings.FindByID(r.Context(), bookingID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleListBookingsByBooker(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookings, err := s.bookings.ListByBooker(r.Context(), queryState(r), userID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleListBookingsByOwner(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	page, err := queryPage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bookings, err := s.bookings.ListByOwner(r.Context(), queryState(r), userID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *Server) handleDeleteBooking(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.bookings.Delete(r.Context(), bookingID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExportBookings streams an XLSX report of every booking of the
// caller's items.
func (s *Server) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	owner, err := s.users.FindByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	bookings, items, err := s.bookings.AllByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	fileName := fmt.Sprintf("bookings_%d_%s.xlsx", userID, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	if err := export.OwnerReport(w, owner, items, bookings); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("export error")
	}
}
