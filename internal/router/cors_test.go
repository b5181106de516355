package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWithCORS_AllowsSingleOrigin(t *testing.T) {
	h := withCORS("http://localhost:3000", false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/index", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("unexpected vary: %q", got)
	}
}

func TestWithCORS_AllowsFromCSVList(t *testing.T) {
	h := withCORS("http://192.168.0.251:3000,http://cbs:3000", false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/index", nil)
	req.Header.Set("Origin", "http://cbs:3000")
	w := httptest.NewRecorder()
	h(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://cbs:3000" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestWithCORS_BlocksUnknownOriginFromCSVList(t *testing.T) {
	h := withCORS("http://192.168.0.251:3000,http://cbs:3000", false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/index", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	h(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin for blocked origin: %q", got)
	}
}

func TestWithCORS_ExposesRangeHeaders(t *testing.T) {
	h := withCORS("*", false, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/index", nil)
	w := httptest.NewRecorder()
	h(w, req)

	exposed := w.Header().Get("Access-Control-Expose-Headers")
	if !strings.Contains(exposed, "Content-Range") || !strings.Contains(exposed, "X-Total-Count") {
		t.Fatalf("range metadata headers must be exposed, got %q", exposed)
	}
}

func TestWithCORS_PreflightShortCircuits(t *testing.T) {
	called := false
	h := withCORS("*", false, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/index", nil)
	w := httptest.NewRecorder()
	h(w, req)

	if called {
		t.Fatal("preflight must not reach the handler")
	}
	if w.Code != http.StatusNoContent {
		t.Fatalf("unexpected preflight status: %d", w.Code)
	}
}
