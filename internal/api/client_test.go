package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dori/tablero/internal/model"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL + "/api", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, srv
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "ftp://host/api", "http://"} {
		if _, err := New(Options{BaseURL: raw}); err == nil {
			t.Errorf("New(%q) succeeded", raw)
		}
	}
}

func TestListProjects(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/projects" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		io.WriteString(w, `[{"_id":"1","name":"Alpha","status":"Activo","total":12,"completadas":8,"pendientes":4}]`)
	}))

	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 1 || projects[0].Name != "Alpha" || projects[0].Completion() != 67 {
		t.Fatalf("unexpected projects: %+v", projects)
	}
}

func TestAPIErrorMessage(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"detail string", http.StatusNotFound, `{"detail":"Proyecto no encontrado"}`, "Error 404: Proyecto no encontrado"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","name"]}]}`, `Error 422: [{"loc":["body","name"]}]`},
		{"no body", http.StatusInternalServerError, ``, "Error 500: Internal Server Error"},
		{"not json", http.StatusBadGateway, `<html>`, "Error 502: Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))

			_, err := c.GetProject(context.Background(), "x")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T: %v", err, err)
			}
			if apiErr.StatusCode != tt.status {
				t.Fatalf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}
			if err.Error() != tt.wantMsg {
				t.Fatalf("Error() = %q, want %q", err.Error(), tt.wantMsg)
			}
			if IsConnection(err) {
				t.Fatal("API error classified as connection error")
			}
		})
	}
}

func TestConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api"
	srv.Close()

	c, err := New(Options{BaseURL: base, Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = c.ListProjects(context.Background())
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %T: %v", err, err)
	}
	if _, ok := StatusCode(err); ok {
		t.Fatal("connection error should carry no status code")
	}
	if !strings.Contains(err.Error(), "backend is running") {
		t.Fatalf("unhelpful message %q", err.Error())
	}
}

// flakyTransport fails the first n round trips before delegating.
type flakyTransport struct {
	failures int32
	calls    atomic.Int32
	next     http.RoundTripper
}

func (f *flakyTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, errors.New("connection refused")
	}
	return f.next.RoundTrip(r)
}

func TestGetRetriedOnConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	ft := &flakyTransport{failures: 2, next: http.DefaultTransport}
	c, err := New(Options{
		BaseURL:    srv.URL + "/api",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		HTTPClient: &http.Client{Transport: ft},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := c.ListUsers(context.Background()); err != nil {
		t.Fatalf("ListUsers after retries: %v", err)
	}
	if got := ft.calls.Load(); got != 3 {
		t.Fatalf("transport called %d times, want 3", got)
	}
}

func TestRetriesExhausted(t *testing.T) {
	ft := &flakyTransport{failures: 100, next: http.DefaultTransport}
	c, _ := New(Options{
		BaseURL:    "http://backend.invalid/api",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		HTTPClient: &http.Client{Transport: ft},
	})

	_, err := c.ListProjects(context.Background())
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if got := ft.calls.Load(); got != 3 {
		t.Fatalf("transport called %d times, want 3", got)
	}
}

func TestMutationsNeverRetried(t *testing.T) {
	ft := &flakyTransport{failures: 100, next: http.DefaultTransport}
	c, _ := New(Options{
		BaseURL:    "http://backend.invalid/api",
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
		HTTPClient: &http.Client{Transport: ft},
	})

	_, err := c.CreateProject(context.Background(), model.ProjectInput{Name: "x"})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if got := ft.calls.Load(); got != 1 {
		t.Fatalf("POST attempted %d times, want 1", got)
	}
}

func TestAPIErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := New(Options{BaseURL: srv.URL + "/api", MaxRetries: 3, RetryDelay: time.Millisecond})
	if _, err := c.ListProjects(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("server hit %d times, want 1", calls.Load())
	}
}

func TestCreatePayloadDefaults(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("missing JSON content type")
		}
		got = nil
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		switch r.URL.Path {
		case "/api/projects":
			io.WriteString(w, `{"_id":"p1","name":"Alpha","status":"Activo"}`)
		case "/api/tasks":
			io.WriteString(w, `{"_id":"t1","descripcion":"x","project_id":"p1"}`)
		case "/api/users":
			io.WriteString(w, `{"_id":"u1","name":"Ana","email":"ana@example.com","role":"user"}`)
		}
	}))
	ctx := context.Background()

	p, err := c.CreateProject(ctx, model.ProjectInput{Name: "Alpha"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if got["status"] != "Activo" || got["users"] != float64(0) {
		t.Errorf("project payload %v", got)
	}
	if !p.Key.Matches("p1") {
		t.Errorf("created project key %s", p.Key)
	}

	if _, err := c.CreateTask(ctx, model.TaskInput{Description: "x", ProjectID: "p1"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got["estado"] != "pendiente" || got["prioridad"] != "media" || got["project_id"] != "p1" {
		t.Errorf("task payload %v", got)
	}
	if v, ok := got["usuario"]; !ok || v != nil {
		t.Errorf("blank assignee should be sent as null, got %v", got)
	}

	if _, err := c.CreateUser(ctx, model.UserInput{Name: "Ana", Email: "ana@example.com"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if got["role"] != "user" {
		t.Errorf("user payload %v", got)
	}
}

func TestTaskCompletionAgrees(t *testing.T) {
	var got map[string]any
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = nil
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"_id":"t1","descripcion":"x","project_id":"p1"}`)
	}))
	ctx := context.Background()

	if _, err := c.UpdateTask(ctx, "t1", model.TaskInput{Description: "x", Status: model.StatusCompleted, ProjectID: "p1"}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got["completada"] != true || got["estado"] != string(model.StatusCompleted) {
		t.Errorf("status only: payload %v", got)
	}

	if _, err := c.CreateTask(ctx, model.TaskInput{Description: "x", Completed: true, ProjectID: "p1"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got["completada"] != true || got["estado"] != string(model.StatusCompleted) {
		t.Errorf("flag only: payload %v", got)
	}

	if _, err := c.CreateTask(ctx, model.TaskInput{Description: "x", Status: model.StatusInProgress, ProjectID: "p1"}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if got["completada"] != false {
		t.Errorf("in progress task sent as completed: %v", got)
	}
}

func TestEmptyIDNeverSent(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	ctx := context.Background()

	if err := c.DeleteProject(ctx, ""); err == nil {
		t.Error("DeleteProject with empty id succeeded")
	}
	if _, err := c.UpdateTask(ctx, "", model.TaskInput{ProjectID: "p1"}); err == nil {
		t.Error("UpdateTask with empty id succeeded")
	}
	if err := c.DeleteUser(ctx, ""); err == nil {
		t.Error("DeleteUser with empty id succeeded")
	}
	if calls.Load() != 0 {
		t.Fatalf("server received %d requests", calls.Load())
	}
}

func TestTaskWithoutProjectRejected(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler())
	if _, err := c.CreateTask(context.Background(), model.TaskInput{Description: "x"}); err == nil {
		t.Fatal("task without project id accepted")
	}
}

func TestPathsAndMethods(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		switch {
		case strings.HasSuffix(r.URL.Path, "/tasks"), strings.HasPrefix(r.URL.Path, "/api/reports"):
			io.WriteString(w, `[]`)
		case r.Method == http.MethodDelete:
			io.WriteString(w, `{"message":"deleted"}`)
		default:
			io.WriteString(w, `{}`)
		}
	}))
	ctx := context.Background()

	c.ListProjectTasks(ctx, "p 1")
	c.UpdateProject(ctx, "p1", model.ProjectInput{Name: "x"})
	c.DeleteTask(ctx, "t1")
	c.UpdateUser(ctx, "u1", model.UserInput{Name: "a", Email: "a@b.c"})
	c.ProjectStats(ctx)
	c.TaskTimeline(ctx)

	want := []string{
		"GET /api/projects/p 1/tasks",
		"PUT /api/projects/p1",
		"DELETE /api/tasks/t1",
		"PUT /api/users/u1",
		"GET /api/reports/project-stats",
		"GET /api/reports/task-timeline",
	}
	if len(seen) != len(want) {
		t.Fatalf("requests = %v", seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestCheckHealthUsesOrigin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, `{"status":"healthy","database":"connected"}`)
	}))

	if res := c.CheckHealth(context.Background()); !res.OK() {
		t.Fatalf("expected healthy, got %+v", res)
	}
}
