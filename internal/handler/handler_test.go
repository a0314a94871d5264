package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tanmay-ghai/ticketly/internal/repository"
)

func TestWriteDomainErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrEventFull, http.StatusConflict},
		{repository.ErrAlreadyBooked, http.StatusConflict},
		{repository.ErrAlreadyWaitlisted, http.StatusConflict},
		{repository.ErrAlreadyCancelled, http.StatusConflict},
		{repository.ErrEventNotFull, http.StatusConflict},
		{repository.ErrNotWaitlisted, http.StatusConflict},
		{repository.ErrCapacityBelowBooked, http.StatusConflict},
		{repository.ErrEmailTaken, http.StatusConflict},
		{repository.ErrLockTimeout, http.StatusServiceUnavailable},
		{&repository.InvariantError{EventID: "e1", Detail: "boom"}, http.StatusInternalServerError},
		{errors.New("name is required"), http.StatusBadRequest},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, c.err)
		if rec.Code != c.status {
			t.Errorf("writeDomainError(%v) = %d, want %d", c.err, rec.Code, c.status)
		}
	}
}

func TestLockTimeoutSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, repository.ErrLockTimeout)
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("lock timeout response must carry Retry-After")
	}
}

func TestInvariantErrorLeaksNoDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, &repository.InvariantError{EventID: "e1", Detail: "booked_count drifted"})

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "internal error" {
		t.Fatalf("body = %v, internal detail must not leak", body)
	}
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
