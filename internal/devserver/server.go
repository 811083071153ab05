package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/dori/tablero/internal/model"
)

// Options configures a Server
type Options struct {
	AllowedOrigins []string // browser origins allowed by CORS
	Logger         *slog.Logger
}

// Server serves the REST API over a Store
type Server struct {
	store   *Store
	log     *slog.Logger
	origins []string
	router  *chi.Mux
}

// NewServer creates a server and its routes
func NewServer(store *Store, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		store:   store,
		log:     logger.With("component", "devserver"),
		origins: opts.AllowedOrigins,
	}
	s.router = s.setupRouter()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(s.instrument)
	r.Use(chimw.Recoverer)
	r.Use(s.cors)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.listProjects)
			r.Post("/", s.createProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getProject)
				r.Put("/", s.updateProject)
				r.Delete("/", s.deleteProject)
				r.Get("/tasks", s.listProjectTasks)
			})
		})

		r.Post("/tasks", s.createTask)
		r.Put("/tasks/{id}", s.updateTask)
		r.Delete("/tasks/{id}", s.deleteTask)

		r.Get("/users", s.listUsers)
		r.Post("/users", s.createUser)
		r.Put("/users/{id}", s.updateUser)
		r.Delete("/users/{id}", s.deleteUser)

		r.Get("/reports/project-stats", s.projectStats)
		r.Get("/reports/task-timeline", s.taskTimeline)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "API de Gestión de Proyectos funcionando correctamente"})
	})
	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && slices.Contains(s.origins, origin) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func missing(field string) fieldError {
	return fieldError{Loc: []string{"body", field}, Msg: "field required", Type: "value_error.missing"}
}

func invalid(field, msg string) fieldError {
	return fieldError{Loc: []string{"body", field}, Msg: msg, Type: "value_error"}
}

// decode reads a JSON body, answering 422 itself when it cannot
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []fieldError{
			{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error.jsondecode"},
		})
		return false
	}
	return true
}

func unprocessable(w http.ResponseWriter, errs []fieldError) bool {
	if len(errs) == 0 {
		return false
	}
	writeDetail(w, http.StatusUnprocessableEntity, errs)
	return true
}

// fail maps a store error to a response
func (s *Server) fail(w http.ResponseWriter, err error, notFound, action string) {
	if errors.Is(err, ErrNotFound) {
		writeDetail(w, http.StatusNotFound, notFound)
		return
	}
	s.log.Error(action, "err", err)
	writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Error al %s: %v", action, err))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "unhealthy", "database": "error", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "database": "connected"})
}

// projects

func validateProject(in *model.ProjectInput) []fieldError {
	var errs []fieldError
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		errs = append(errs, missing("name"))
	}
	if in.Status != "" && !slices.Contains(model.ProjectStatuses, in.Status) {
		errs = append(errs, invalid("status", "unknown status"))
	}
	if in.Users < 0 {
		errs = append(errs, invalid("users", "must not be negative"))
	}
	return errs
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.fail(w, err, "", "obtener proyectos")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" || id == "undefined" {
		writeDetail(w, http.StatusBadRequest, "ID de proyecto inválido o no proporcionado")
		return
	}
	p, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.fail(w, err, "Proyecto no encontrado", "obtener proyecto")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decode(w, r, &in) || unprocessable(w, validateProject(&in)) {
		return
	}
	p, err := s.store.CreateProject(r.Context(), in)
	if err != nil {
		s.fail(w, err, "", "crear proyecto")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var in model.ProjectInput
	if !decode(w, r, &in) || unprocessable(w, validateProject(&in)) {
		return
	}
	p, err := s.store.UpdateProject(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, err, "Proyecto no encontrado", "actualizar proyecto")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err, "Proyecto no encontrado", "eliminar proyecto")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Proyecto eliminado exitosamente"})
}

func (s *Server) listProjectTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err, "", "obtener tareas")
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// tasks

func validateTask(in *model.TaskInput) []fieldError {
	var errs []fieldError
	in.Description = strings.TrimSpace(in.Description)
	if in.Description == "" {
		errs = append(errs, missing("descripcion"))
	}
	if in.ProjectID == "" {
		errs = append(errs, missing("project_id"))
	}
	if in.Priority != "" && !slices.Contains(model.Priorities, in.Priority) {
		errs = append(errs, invalid("prioridad", "unknown priority"))
	}
	if in.Status != "" && !slices.Contains(model.Statuses, in.Status) {
		errs = append(errs, invalid("estado", "unknown status"))
	}
	return errs
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var in model.TaskInput
	if !decode(w, r, &in) || unprocessable(w, validateTask(&in)) {
		return
	}
	t, err := s.store.CreateTask(r.Context(), in)
	if err != nil {
		s.fail(w, err, "Proyecto no encontrado", "crear tarea")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var in model.TaskInput
	if !decode(w, r, &in) || unprocessable(w, validateTask(&in)) {
		return
	}
	t, err := s.store.UpdateTask(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, err, "Tarea no encontrada", "actualizar tarea")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err, "Tarea no encontrada", "eliminar tarea")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tarea eliminada exitosamente"})
}

// users

func validateUser(in *model.UserInput) []fieldError {
	var errs []fieldError
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" {
		errs = append(errs, missing("name"))
	}
	if in.Email == "" {
		errs = append(errs, missing("email"))
	}
	if in.Role != "" && !slices.Contains(model.Roles, in.Role) {
		errs = append(errs, invalid("role", "unknown role"))
	}
	return errs
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.fail(w, err, "", "obtener usuarios")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if !decode(w, r, &in) || unprocessable(w, validateUser(&in)) {
		return
	}
	u, err := s.store.CreateUser(r.Context(), in)
	if err != nil {
		s.fail(w, err, "", "crear usuario")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if !decode(w, r, &in) || unprocessable(w, validateUser(&in)) {
		return
	}
	u, err := s.store.UpdateUser(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		s.fail(w, err, "Usuario no encontrado", "actualizar usuario")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err, "Usuario no encontrado", "eliminar usuario")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Usuario eliminado exitosamente"})
}

// reports

func (s *Server) projectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.ProjectStats(r.Context())
	if err != nil {
		s.fail(w, err, "", "obtener estadísticas")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) taskTimeline(w http.ResponseWriter, r *http.Request) {
	entries, err := s.store.TaskTimeline(r.Context())
	if err != nil {
		s.fail(w, err, "", "obtener cronograma")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
