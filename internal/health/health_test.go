package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProbe(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantOK     bool
		wantReason string
	}{
		{"healthy", http.StatusOK, `{"status":"healthy","database":"connected"}`, true, ""},
		{"db down", http.StatusOK, `{"status":"unhealthy","database":"disconnected"}`, false, "database disconnected"},
		{"db error", http.StatusOK, `{"status":"unhealthy","database":"error","error":"ping timeout"}`, false, "ping timeout"},
		{"server error", http.StatusInternalServerError, `{}`, false, "500"},
		{"garbage", http.StatusOK, `not json`, false, "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/health" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			res := Probe(context.Background(), srv.Client(), srv.URL+"/health")
			if res.OK() != tt.wantOK {
				t.Fatalf("OK() = %v, want %v (reason %q)", res.OK(), tt.wantOK, res.Reason)
			}
			if !strings.Contains(res.Reason, tt.wantReason) {
				t.Fatalf("reason %q does not mention %q", res.Reason, tt.wantReason)
			}
		})
	}
}

func TestProbeUnreachableNeverErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/health"
	srv.Close()

	res := Probe(context.Background(), http.DefaultClient, url)
	if res.OK() {
		t.Fatal("closed server reported healthy")
	}
	if !strings.Contains(res.Reason, "unreachable") {
		t.Fatalf("unexpected reason %q", res.Reason)
	}
}

func TestURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:8000/api":  "http://localhost:8000/health",
		"http://localhost:8000/api/": "http://localhost:8000/health",
		"https://example.com":        "https://example.com/health",
	}
	for in, want := range tests {
		if got := URL(in); got != want {
			t.Errorf("URL(%q) = %q, want %q", in, got, want)
		}
	}
}
