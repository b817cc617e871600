package api

import (
	"net/http"

	"shareit/internal/service"
)

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.CreateRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	request, err := s.requests.Create(r.Context(), req, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, request)
}

func (s *Server) handleListOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	views, err := s.requests.FindByRequester(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleListOtherRequests(w http.ResponseWriter, r *http.Request) {
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
	views, err := s.requests.FindFromOthers(r.Context(), userID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	requestID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := s.requests.FindByID(r.Context(), requestID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
