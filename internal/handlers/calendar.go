package handlers

import (
	"net/http"

	"github.com/dagmawibabi/telesight/internal/calendar"
	"github.com/dagmawibabi/telesight/internal/metrics"
)

// Calendar handles GET /archives/{id}/calendar. Scope narrows with each
// parameter present: year, then month, then day. No parameters means the
// whole export.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.entryFromRequest(w, r)
	if !ok {
		return
	}

	scope := calendar.Scope{
		Year:  queryInt(r, "year", 0),
		Month: queryInt(r, "month", 0),
		Day:   queryInt(r, "day", 0),
	}
	if scope.Month != 0 && (scope.Month < 1 || scope.Month > 12) {
		h.Error(w, http.StatusBadRequest, "month must be 1-12")
		return
	}
	if scope.Day != 0 && (scope.Day < 1 || scope.Day > 31) {
		h.Error(w, http.StatusBadRequest, "day must be 1-31")
		return
	}

	stats := calendar.Compute(entry.Export.Messages, scope)
	metrics.AnalysesRun.WithLabelValues("calendar").Inc()

	h.JSON(w, http.StatusOK, stats)
}
