package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/locus/internal/storage/memory"
)

func TestHealthHandler_ReportsCacheSize(t *testing.T) {
	cache := memory.NewCache(time.Minute, 0, arbor.NewLogger())
	cache.Put("a", []byte("1"))
	cache.Put("b", []byte("2"))

	handler := NewAPIHandler(cache, arbor.NewLogger())
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %v", response["status"])
	}
	if int(response["cache_entries"].(float64)) != 2 {
		t.Errorf("Expected cache_entries 2, got %v", response["cache_entries"])
	}
}

func TestVersionHandler(t *testing.T) {
	cache := memory.NewCache(time.Minute, 0, arbor.NewLogger())
	handler := NewAPIHandler(cache, arbor.NewLogger())
	req := httptest.NewRequest("GET", "/api/version", nil)
	rec := httptest.NewRecorder()

	handler.VersionHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response["version"] == "" {
		t.Error("Expected a version string")
	}
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	cache := memory.NewCache(time.Minute, 0, arbor.NewLogger())
	handler := NewAPIHandler(cache, arbor.NewLogger())
	req := httptest.NewRequest("DELETE", "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthHandler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", rec.Code)
	}
}
