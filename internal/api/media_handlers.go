package api

import (
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/http/response"
)

// handleGetRecipeImage serves a stored recipe image.
// GET /media/recipes/{file}.
func (s *Server) handleGetRecipeImage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "file")
	images := s.storage.RecipeImages

	if !images.Exists(name) {
		response.NotFound(w, "Image not found", s.logger)
		return
	}

	hash, err := images.Hash(name)
	if err != nil {
		s.logger.Error("Failed to compute image hash", "file", name, "error", err)
		response.HandleError(w, domainerrors.Internal("failed to retrieve image"), s.logger)
		return
	}
	etag := `"` + hash + `"`

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := images.Get(name)
	if err != nil {
		s.logger.Error("Failed to read image", "file", name, "error", err)
		response.HandleError(w, domainerrors.Internal("failed to retrieve image"), s.logger)
		return
	}

	w.Header().Set("Content-Type", mimetype.Detect(data).String())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", CacheOneWeek)
	w.Header().Set("ETag", etag)

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("Failed to write image response", "file", name, "error", err)
	}
}
