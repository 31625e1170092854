package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dagmawibabi/telesight/internal/metrics"
	"github.com/dagmawibabi/telesight/internal/models"
	"github.com/dagmawibabi/telesight/internal/scoring"
)

const defaultSimilarLimit = 10

// messageFromRequest resolves the {mid} URL parameter within an export,
// writing the error response itself on failure.
func (h *Handler) messageFromRequest(w http.ResponseWriter, r *http.Request, export []models.Message) (*models.Message, bool) {
	mid, err := strconv.Atoi(chi.URLParam(r, "mid"))
	if err != nil {
		h.Error(w, http.StatusBadRequest, "invalid message id")
		return nil, false
	}
	for i := range export {
		if export[i].ID == mid && export[i].IsContent() {
			return &export[i], true
		}
	}
	h.Error(w, http.StatusNotFound, "message not found")
	return nil, false
}

// PostScore handles GET /archives/{id}/posts/{mid}/score.
func (h *Handler) PostScore(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}
	msg, ok := h.messageFromRequest(w, r, entry.Export.Messages)
	if !ok {
		return
	}

	score := scoring.Score(msg, entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues("score").Inc()

	h.JSON(w, http.StatusOK, score)
}

// SimilarPosts handles GET /archives/{id}/posts/{mid}/similar.
func (h *Handler) SimilarPosts(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}
	msg, ok := h.messageFromRequest(w, r, entry.Export.Messages)
	if !ok {
		return
	}

	limit := queryInt(r, "limit", defaultSimilarLimit)
	similar := scoring.FindSimilar(msg, entry.Export.Messages, limit)
	metrics.AnalysesRun.WithLabelValues("similar").Inc()

	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archive": entry.ID,
		"message": msg.ID,
		"count":   len(similar),
		"similar": similar,
	})
}
