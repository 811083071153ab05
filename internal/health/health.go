// Package health implements the startup connectivity probe.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Status is the two-state outcome of a probe
type Status string

const (
	Healthy   Status = "healthy"
	Unhealthy Status = "unhealthy"
)

// Result is what a probe returns. Reason is empty when healthy.
type Result struct {
	Status Status `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// OK reports whether the backend answered as healthy.
func (r Result) OK() bool {
	return r.Status == Healthy
}

func unhealthy(format string, args ...any) Result {
	return Result{Status: Unhealthy, Reason: fmt.Sprintf(format, args...)}
}

// Doer sends a single HTTP request; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// body is what the backend's /health endpoint returns
type body struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error"`
}

// Probe issues a single GET to url and classifies the answer. It never
// returns an error: every failure is mapped to an unhealthy result.
func Probe(ctx context.Context, client Doer, url string) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return unhealthy("invalid health URL: %v", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return unhealthy("backend unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return unhealthy("health check returned %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var b body
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return unhealthy("read health response: %v", err)
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return unhealthy("malformed health response: %v", err)
	}

	if !strings.EqualFold(b.Status, string(Healthy)) {
		reason := "backend reported " + b.Status
		if b.Status == "" {
			reason = "backend reported no status"
		}
		if b.Database != "" {
			reason += ", database " + b.Database
		}
		if b.Error != "" {
			reason += ": " + b.Error
		}
		return Result{Status: Unhealthy, Reason: reason}
	}

	return Result{Status: Healthy}
}

// URL derives the liveness endpoint from an API base URL: the probe lives
// at the origin, outside the /api prefix.
func URL(apiBase string) string {
	base := strings.TrimRight(apiBase, "/")
	base = strings.TrimSuffix(base, "/api")
	return base + "/health"
}
