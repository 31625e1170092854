package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dagmawibabi/telesight/internal/archive"
	"github.com/dagmawibabi/telesight/internal/metrics"
)

// UploadArchive handles POST /archives. The body is a raw chat export
// JSON document.
func (h *Handler) UploadArchive(w http.ResponseWriter, r *http.Request) {
	export, err := archive.Parse(r.Body)
	if err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	entry := h.archives.Put(export)

	metrics.ArchivesUploaded.Inc()
	metrics.ArchiveMessages.Observe(float64(entry.Messages))

	h.JSON(w, http.StatusCreated, entry)
}

// ListArchives handles GET /archives.
func (h *Handler) ListArchives(w http.ResponseWriter, r *http.Request) {
	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archives": h.archives.List(),
	})
}

// DeleteArchive handles DELETE /archives/{id}.
func (h *Handler) DeleteArchive(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid archive id")
		return
	}
	if err := h.archives.Delete(id); err != nil {
		h.Error(w, http.StatusNotFound, "archive not found")
		return
	}
	h.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
