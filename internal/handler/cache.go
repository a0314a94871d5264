package handler

import (
	"net/http"

	"github.com/tanmay-ghai/ticketly/internal/cache"
)

// CacheHandler holds admin HTTP handlers for cache management.
type CacheHandler struct {
	store cache.Store
}

// NewCacheHandler constructs a CacheHandler.
func NewCacheHandler(store cache.Store) *CacheHandler {
	return &CacheHandler{store: store}
}

// Status handles GET /admin/cache/status.
func (h *CacheHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.store.Status(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read cache status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Clear handles DELETE /admin/cache.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cache")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cache cleared"})
}

// ClearEvents handles DELETE /admin/cache/events, evicting the event list
// and analytics aggregates without touching per-user keys.
func (h *CacheHandler) ClearEvents(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), cache.EventsKey, cache.AnalyticsKey); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear events cache")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "events cache cleared"})
}
