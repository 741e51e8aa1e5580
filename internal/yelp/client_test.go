package yelp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("test-key",
		WithBaseURL(server.URL),
		WithRateLimit(0),
	)
	return client, server
}

func TestBusinessSearch_Success(t *testing.T) {
	var gotAuth, gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"businesses":[{"id":"abc","name":"Alpha","rating":4.5,"review_count":120,"price":"$$","distance":850.3}],"total":1}`))
	})
	defer server.Close()

	businesses, err := client.BusinessSearch(context.Background(), SearchParams{
		Term:      "sushi",
		Latitude:  43.6532,
		Longitude: -79.3832,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("BusinessSearch failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Expected bearer auth header, got %q", gotAuth)
	}
	if len(businesses) != 1 || businesses[0].ID != "abc" {
		t.Errorf("Unexpected businesses: %+v", businesses)
	}

	req := httptest.NewRequest("GET", "/?"+gotQuery, nil)
	q := req.URL.Query()
	if q.Get("term") != "sushi" {
		t.Errorf("Expected term=sushi, got %q", q.Get("term"))
	}
	// 10 requested results means a 50-candidate overfetch pool
	if q.Get("limit") != "50" {
		t.Errorf("Expected limit=50, got %q", q.Get("limit"))
	}
}

func TestBusinessSearch_OverfetchCap(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit string
	}{
		{"small limit multiplies", 3, "15"},
		{"large limit caps at 50", 20, "50"},
		{"zero limit falls back to cap", 0, "50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotLimit string
			client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
				gotLimit = r.URL.Query().Get("limit")
				w.Write([]byte(`{"businesses":[],"total":0}`))
			})
			defer server.Close()

			_, err := client.BusinessSearch(context.Background(), SearchParams{
				Term: "pizza", Latitude: 43, Longitude: -79, Limit: tt.limit,
			})
			if err != nil {
				t.Fatalf("BusinessSearch failed: %v", err)
			}
			if gotLimit != tt.wantLimit {
				t.Errorf("Expected limit=%s, got %q", tt.wantLimit, gotLimit)
			}
		})
	}
}

func TestBusinessSearch_RadiusCap(t *testing.T) {
	var gotRadius string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotRadius = r.URL.Query().Get("radius")
		w.Write([]byte(`{"businesses":[],"total":0}`))
	})
	defer server.Close()

	_, err := client.BusinessSearch(context.Background(), SearchParams{
		Term: "pizza", Latitude: 43, Longitude: -79, Limit: 10, RadiusM: 100000,
	})
	if err != nil {
		t.Fatalf("BusinessSearch failed: %v", err)
	}
	if gotRadius != "40000" {
		t.Errorf("Expected radius capped at 40000, got %q", gotRadius)
	}
}

func TestBusinessSearch_Filters(t *testing.T) {
	var gotQuery string
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"businesses":[],"total":0}`))
	})
	defer server.Close()

	_, err := client.BusinessSearch(context.Background(), SearchParams{
		Term: "pizza", Latitude: 43, Longitude: -79, Limit: 10,
		OpenNow: true,
		Prices:  []int{1, 2},
	})
	if err != nil {
		t.Fatalf("BusinessSearch failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/?"+gotQuery, nil)
	q := req.URL.Query()
	if q.Get("open_now") != "true" {
		t.Errorf("Expected open_now=true, got %q", q.Get("open_now"))
	}
	if q.Get("price") != "1,2" {
		t.Errorf("Expected price=1,2, got %q", q.Get("price"))
	}
}

func TestBusinessSearch_RateLimited(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	defer server.Close()

	_, err := client.BusinessSearch(context.Background(), SearchParams{
		Term: "pizza", Latitude: 43, Longitude: -79, Limit: 10,
	})

	var rlErr *RateLimitError
	if !errors.As(err, &rlErr) {
		t.Fatalf("Expected RateLimitError, got %v", err)
	}
	if rlErr.RetryAfter != 30*time.Second {
		t.Errorf("Expected RetryAfter 30s, got %v", rlErr.RetryAfter)
	}
}

func TestBusinessSearch_UpstreamError(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR"}}`))
	})
	defer server.Close()

	_, err := client.BusinessSearch(context.Background(), SearchParams{
		Term: "pizza", Latitude: 43, Longitude: -79, Limit: 10,
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", apiErr.StatusCode)
	}
	if apiErr.Timeout {
		t.Error("Server error should not be flagged as timeout")
	}
}

func TestBusinessSearch_MalformedBody(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	defer server.Close()

	_, err := client.BusinessSearch(context.Background(), SearchParams{
		Term: "pizza", Latitude: 43, Longitude: -79, Limit: 10,
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError for undecodable body, got %v", err)
	}
}

func TestBusinessSearch_Timeout(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"businesses":[],"total":0}`))
	})
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.BusinessSearch(ctx, SearchParams{
		Term: "pizza", Latitude: 43, Longitude: -79, Limit: 10,
	})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if !apiErr.Timeout {
		t.Error("Context deadline should be flagged as timeout")
	}
}
