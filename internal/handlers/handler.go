package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dagmawibabi/telesight/internal/archive"
	"github.com/dagmawibabi/telesight/internal/detect"
)

// Handler contains shared dependencies for all HTTP handlers.
type Handler struct {
	archives *archive.Registry

	fraud        *detect.FraudDetector
	manipulation *detect.ManipulationDetector
	conflict     *detect.ConflictDetector
}

// NewHandler creates a new Handler backed by the given registry.
func NewHandler(archives *archive.Registry) *Handler {
	return &Handler{
		archives:     archives,
		fraud:        detect.NewFraudDetector(),
		manipulation: detect.NewManipulationDetector(),
		conflict:     detect.NewConflictDetector(),
	}
}

// JSON sends a JSON response with the given status code.
func (h *Handler) JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Error sends a JSON error response with the given status code.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, map[string]string{"error": message})
}

// entryFromRequest resolves the {id} URL parameter to a registered
// archive, writing the error response itself on failure.
func (h *Handler) entryFromRequest(w http.ResponseWriter, r *http.Request) (*archive.Entry, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid archive id")
		return nil, false
	}
	entry, err := h.archives.Get(id)
	if err != nil {
		h.Error(w, http.StatusNotFound, "archive not found")
		return nil, false
	}
	return entry, true
}

// detectOptions parses the shared detector query parameters.
func detectOptions(r *http.Request) detect.Options {
	q := r.URL.Query()
	opts := detect.Options{
		MinSeverity: q.Get("min_severity"),
	}
	if types := q.Get("types"); types != "" {
		for _, t := range strings.Split(types, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				opts.Types = append(opts.Types, detect.Category(t))
			}
		}
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil && n > 0 {
			opts.MaxResults = n
		}
	}
	return opts
}

// queryInt parses a positive integer query parameter, returning def when
// absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
