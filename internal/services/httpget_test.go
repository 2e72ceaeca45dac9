package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond}
}

func TestGetJSONDecodesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Dune: Part Two"}`))
	}))
	defer server.Close()

	var out struct {
		Title string `json:"title"`
	}
	if err := GetJSON(context.Background(), server.Client(), server.URL, fastPolicy(1), &out); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if out.Title != "Dune: Part Two" {
		t.Errorf("title = %q", out.Title)
	}
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	var out struct {
		OK bool `json:"ok"`
	}
	if err := GetJSON(context.Background(), server.Client(), server.URL, fastPolicy(3), &out); err != nil {
		t.Fatalf("GetJSON failed after retries: %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestGetJSONExhaustedIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var out map[string]any
	err := GetJSON(context.Background(), server.Client(), server.URL, fastPolicy(2), &out)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected ErrTransient, got %v", err)
	}
}

func TestGetJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	var out map[string]any
	err := GetJSON(context.Background(), server.Client(), server.URL, fastPolicy(3), &out)
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("401 should be tagged ErrConfiguration, got %v", err)
	}
	if errors.Is(err, ErrTransient) {
		t.Errorf("401 should not be tagged ErrTransient, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("401 should not be retried, got %d calls", got)
	}
}

func TestGetJSONMissingIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	var out map[string]any
	err := GetJSON(context.Background(), server.Client(), server.URL, fastPolicy(3), &out)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 404, got %v", err)
	}
	if errors.Is(err, ErrTransient) {
		t.Errorf("404 should not be tagged ErrTransient, got %v", err)
	}
}
