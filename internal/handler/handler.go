// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/tanmay-ghai/ticketly/internal/model"
	"github.com/tanmay-ghai/ticketly/internal/repository"
)

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps domain errors onto HTTP statuses. Expected business
// outcomes (event full, already waitlisted) come back as conflicts the
// client can act on; lock timeouts are retryable; a broken invariant is a
// plain server error with no detail leaked.
func writeDomainError(w http.ResponseWriter, err error) {
	var inv *repository.InvariantError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrEventFull):
		writeError(w, http.StatusConflict, "event is fully booked, you can join the waitlist")
	case errors.Is(err, repository.ErrAlreadyBooked),
		errors.Is(err, repository.ErrAlreadyWaitlisted),
		errors.Is(err, repository.ErrAlreadyCancelled),
		errors.Is(err, repository.ErrEventNotFull),
		errors.Is(err, repository.ErrNotWaitlisted),
		errors.Is(err, repository.ErrCapacityBelowBooked),
		errors.Is(err, repository.ErrEmailTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrLockTimeout):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &inv):
		log.Printf("INVARIANT VIOLATION: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
