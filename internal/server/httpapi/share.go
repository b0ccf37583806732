package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/geolists/internal/common"
	"github.com/dmitrijs2005/geolists/internal/models"
)

type shareBody struct {
	Title  string                `json:"title"`
	Places []models.PayloadPlace `json:"places"`
}

type createdShareResponse struct {
	ID        string `json:"id"`
	ViewURL   string `json:"viewUrl"`
	EditURL   string `json:"editUrl"`
	EditToken string `json:"editToken"`
}

type shareDocumentResponse struct {
	Title     string                `json:"title"`
	Places    []models.PayloadPlace `json:"places"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// handleCreateShare publishes a list as a new hosted share.
func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	var req shareBody
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.shares.Create(r.Context(), req.Title, req.Places)
	if err != nil {
		s.log.Error(r.Context(), "share create failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create share")
		return
	}

	respondJSON(w, http.StatusCreated, createdShareResponse{
		ID:        created.ID,
		ViewURL:   created.ViewURL,
		EditURL:   created.EditURL,
		EditToken: created.EditToken,
	})
}

// handleGetShare returns the hosted document; 401 when the share is
// password protected and the header password is missing or wrong.
func (s *Server) handleGetShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	password := r.Header.Get(common.SharePasswordHeaderName)

	doc, err := s.shares.Fetch(r.Context(), id, password)
	if err != nil {
		s.respondShareError(w, r, err)
		return
	}

	places := doc.Places
	if places == nil {
		places = []models.PayloadPlace{}
	}
	respondJSON(w, http.StatusOK, shareDocumentResponse{
		Title:     doc.Title,
		Places:    places,
		UpdatedAt: doc.UpdatedAt,
	})
}

// handleGetShareMeta returns only the freshness timestamp, with the same
// gating as a full fetch.
func (s *Server) handleGetShareMeta(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	password := r.Header.Get(common.SharePasswordHeaderName)

	updatedAt, err := s.shares.Meta(r.Context(), id, password)
	if err != nil {
		s.respondShareError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]time.Time{"updatedAt": updatedAt})
}

// handleUpdateShare replaces the hosted copy. Requires a valid edit token
// scoped to this share.
func (s *Server) handleUpdateShare(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := r.Header.Get(common.EditTokenHeaderName)

	var req shareBody
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.shares.Update(r.Context(), id, token, req.Title, req.Places); err != nil {
		s.respondShareError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleSetPassword gates the share. Requires the edit token.
func (s *Server) handleSetPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := r.Header.Get(common.EditTokenHeaderName)

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	if err := s.shares.SetPassword(r.Context(), id, token, req.Password); err != nil {
		s.respondShareError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleClearPassword removes the gate. Requires the edit token.
func (s *Server) handleClearPassword(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	token := r.Header.Get(common.EditTokenHeaderName)

	if err := s.shares.ClearPassword(r.Context(), id, token); err != nil {
		s.respondShareError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handlePasswordState reports whether the share is password protected.
func (s *Server) handlePasswordState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	has, err := s.shares.PasswordState(r.Context(), id)
	if err != nil {
		s.respondShareError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"hasPassword": has})
}

// respondShareError maps service sentinels onto HTTP statuses.
func (s *Server) respondShareError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		respondError(w, http.StatusNotFound, "share not found")
	case errors.Is(err, common.ErrorPasswordRequired):
		respondError(w, http.StatusUnauthorized, "password required")
	case errors.Is(err, common.ErrorUnauthorized):
		respondError(w, http.StatusForbidden, "edit token required")
	default:
		s.log.Error(r.Context(), "share request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
