package handlers

import (
	"net/http"

	"github.com/dagmawibabi/telesight/internal/analytics"
	"github.com/dagmawibabi/telesight/internal/metrics"
)

// Members handles GET /archives/{id}/members.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	stats := analytics.MemberStats(entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues("members").Inc()

	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archive": entry.ID,
		"count":   len(stats),
		"members": stats,
	})
}

// Interactions handles GET /archives/{id}/interactions.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	edges := analytics.InteractionMap(entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues("interactions").Inc()

	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archive": entry.ID,
		"count":   len(edges),
		"edges":   edges,
	})
}

// Topics handles GET /archives/{id}/topics.
func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	topics := analytics.Topics(entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues("topics").Inc()

	h.JSON(w, http.StatusOK, map[string]interface{}{
		"archive": entry.ID,
		"count":   len(topics),
		"topics":  topics,
	})
}
