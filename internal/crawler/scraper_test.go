package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"devscan/internal/config"
)

func testPolicy(maxAttempts int) *config.RetryPolicy {
	return &config.RetryPolicy{
		MaxAttempts:       maxAttempts,
		InitialDelayMs:    1,
		MaxDelayMs:        5,
		BackoffMultiplier: 2.0,
		TimeoutSec:        5,
		BufferSizeKb:      64,
	}
}

func TestScraperFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	s := NewScraperWithConfig(testPolicy(3))

	body, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if body != "hello" {
		t.Errorf("body = %q, want %q", body, "hello")
	}
}

func TestScraperRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	s := NewScraperWithConfig(testPolicy(3))

	body, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed after retries: %v", err)
	}

	if body != "recovered" {
		t.Errorf("body = %q, want %q", body, "recovered")
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d requests, want 3", got)
	}
}

func TestScraperDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := NewScraperWithConfig(testPolicy(3))

	_, err := s.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("expected ErrUnexpectedStatusCode, got %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d requests, want 1", got)
	}
}

func TestScraperExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewScraperWithConfig(testPolicy(2))

	_, err := s.Fetch(context.Background(), srv.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("expected ErrUnexpectedStatusCode, got %v", err)
	}

	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d requests, want 2", got)
	}
}

func TestScraperSendsExtraHeaders(t *testing.T) {
	var gotToken string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-App-Token")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	s := NewScraperWithConfig(testPolicy(1))

	_, err := s.FetchWithHeaders(context.Background(), srv.URL, map[string]string{"X-App-Token": "secret"})
	if err != nil {
		t.Fatalf("FetchWithHeaders failed: %v", err)
	}

	if gotToken != "secret" {
		t.Errorf("X-App-Token = %q, want %q", gotToken, "secret")
	}
}

func TestScraperCapsBodySize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 4096)))
	}))
	defer srv.Close()

	policy := testPolicy(1)
	policy.BufferSizeKb = 1

	s := NewScraperWithConfig(policy)

	body, err := s.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if len(body) != 1024 {
		t.Errorf("body length = %d, want 1024", len(body))
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
		{http.StatusForbidden, false},
	}

	for _, tc := range tests {
		if got := isRetryableStatus(tc.code); got != tc.want {
			t.Errorf("isRetryableStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}
