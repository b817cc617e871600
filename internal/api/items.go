package api

import (
	"net/http"

	"shareit/internal/service"
)

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.CreateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := s.items.Create(r.Context(), req, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
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
	views, err := s.items.FindAllByOwner(r.Context(), userID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	page, err := queryPage(r)
	if err != nil {
		writeError(w, err)
		return
	}
	items, err := s.items.Search(r.Context(), r.URL.Query().Get("text"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	view, err := s.items.FindByID(r.Context(), itemID, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := s.items.Update(r.Context(), itemID, req, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.items.Delete(r.Context(), itemID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	itemID, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	comment, err := s.items.CreateComment(r.Context(), itemID, userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}
