package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tanmay-ghai/ticketly/internal/model"
	"github.com/tanmay-ghai/ticketly/internal/service"
)

// WaitlistHandler holds HTTP handlers for waitlist membership and reads.
type WaitlistHandler struct {
	svc *service.WaitlistService
}

// NewWaitlistHandler constructs a WaitlistHandler.
func NewWaitlistHandler(svc *service.WaitlistService) *WaitlistHandler {
	return &WaitlistHandler{svc: svc}
}

// Join handles POST /events/{id}/waitlist.
func (h *WaitlistHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req model.BookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	entry, err := h.svc.Join(r.Context(), chi.URLParam(r, "id"), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Leave handles DELETE /events/{id}/waitlist?user_id=...
func (h *WaitlistHandler) Leave(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Leave(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "removed from waitlist"})
}

// ListByEvent handles GET /events/{id}/waitlist.
func (h *WaitlistHandler) ListByEvent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListByEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []model.WaitlistEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Position handles GET /events/{id}/waitlist/position?user_id=...
func (h *WaitlistHandler) Position(w http.ResponseWriter, r *http.Request) {
	pos, err := h.svc.Position(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("user_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

// ListByUser handles GET /users/{id}/waitlists.
func (h *WaitlistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListByUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []model.WaitlistEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
