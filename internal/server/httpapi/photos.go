package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handlePresignPhotoPut mints a storage key and a presigned upload URL.
// The photo bytes go straight to the object store.
func (s *Server) handlePresignPhotoPut(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.photos.GetPresignedPutURL(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "photo presign failed", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to presign upload")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}

// handlePresignPhotoGet returns a presigned download URL for a stored photo.
func (s *Server) handlePresignPhotoGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		respondError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := s.photos.GetPresignedGetURL(r.Context(), key)
	if err != nil {
		s.log.Error(r.Context(), "photo presign failed", "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to presign download")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
