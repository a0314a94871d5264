package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tanmay-ghai/ticketly/internal/cache"
)

func TestCacheStatus(t *testing.T) {
	h := NewCacheHandler(cache.Noop{})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/admin/cache/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["cache_type"] != "none" {
		t.Fatalf("body = %v, want cache_type none without Redis", body)
	}
}

func TestCacheClearEndpoints(t *testing.T) {
	h := NewCacheHandler(cache.Noop{})

	rec := httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/admin/cache", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Clear status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ClearEvents(rec, httptest.NewRequest(http.MethodDelete, "/admin/cache/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("ClearEvents status = %d", rec.Code)
	}
}
