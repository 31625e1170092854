package handlers

import (
	"net/http"

	"github.com/dagmawibabi/telesight/internal/graph"
	"github.com/dagmawibabi/telesight/internal/metrics"
)

// ReplyGraph handles GET /archives/{id}/graph/replies.
func (h *Handler) ReplyGraph(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	crossChannel := r.URL.Query().Get("cross_channel") == "true"
	g := graph.BuildReplyGraph(entry.Export.Messages, crossChannel)
	metrics.AnalysesRun.WithLabelValues("graph").Inc()

	h.JSON(w, http.StatusOK, g)
}

// ForwardGraph handles GET /archives/{id}/graph/forwards.
func (h *Handler) ForwardGraph(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	g := graph.BuildForwardGraph(entry.Export.Messages)
	metrics.AnalysesRun.WithLabelValues("graph").Inc()

	h.JSON(w, http.StatusOK, g)
}
