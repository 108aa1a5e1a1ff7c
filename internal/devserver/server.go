package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"todo/internal/service"
)

// shutdownTimeout bounds graceful shutdown in ListenAndServe.
const shutdownTimeout = 5 * time.Second

// Server serves the todos API backed by a Repository.
type Server struct {
	repo   Repository
	logger *log.Logger
	router *mux.Router
}

// New creates a server over repo.
func New(repo Repository, logger *log.Logger) *Server {
	s := &Server{repo: repo, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	r.Methods(http.MethodGet).Path("/health").HandlerFunc(s.health)

	r.Methods(http.MethodGet).Path("/api/todos").HandlerFunc(s.listTodos)
	r.Methods(http.MethodGet).Path("/api/todos/").HandlerFunc(s.listTodos)
	r.Methods(http.MethodPost).Path("/api/todos").HandlerFunc(s.createTodo)
	r.Methods(http.MethodPost).Path("/api/todos/").HandlerFunc(s.createTodo)
	r.Methods(http.MethodGet).Path("/api/todos/stats").HandlerFunc(s.stats)
	r.Methods(http.MethodGet).Path("/api/todos/{id:[0-9]+}").HandlerFunc(s.getTodo)
	r.Methods(http.MethodPut).Path("/api/todos/{id:[0-9]+}").HandlerFunc(s.updateTodo)
	r.Methods(http.MethodDelete).Path("/api/todos/{id:[0-9]+}").HandlerFunc(s.deleteTodo)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{Handler: s, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	s.logger.Info("serving todos api", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Info("handled", "method", r.Method, "path", r.URL.Path, "status", m.Code,
			"duration", m.Duration, "request_id", r.Header.Get("X-Request-ID"))
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if _, err := s.repo.List(r.Context()); err != nil {
		s.logger.Error("health check failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "todo-api",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, "Failed to fetch todos", err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	todos, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, "Failed to fetch stats", err)
		return
	}
	writeJSON(w, http.StatusOK, ComputeStats(todos))
}

func (s *Server) getTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	todo, err := s.repo.Get(r.Context(), id)
	if err != nil {
		s.repoError(w, "Failed to fetch todo", err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	var req service.NewTodo
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req, err := normalizeNew(req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.repo.Create(r.Context(), req)
	if err != nil {
		s.internalError(w, "Failed to create todo", err)
		return
	}
	s.logger.Debug("created todo", "id", todo.ID, "title", todo.Title)
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	var req service.TodoUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	req, err := normalizeUpdate(req)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	todo, err := s.repo.Update(r.Context(), id, req)
	if err != nil {
		s.repoError(w, "Failed to update todo", err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	id, ok := todoID(w, r)
	if !ok {
		return
	}
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.repoError(w, "Failed to delete todo", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) repoError(w http.ResponseWriter, detail string, err error) {
	if errors.Is(err, ErrTodoNotFound) {
		writeDetail(w, http.StatusNotFound, "Todo not found")
		return
	}
	s.internalError(w, detail, err)
}

func (s *Server) internalError(w http.ResponseWriter, detail string, err error) {
	s.logger.Error(detail, "err", err)
	writeDetail(w, http.StatusInternalServerError, detail)
}

func todoID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id < 1 {
		writeDetail(w, http.StatusBadRequest, "Invalid ID")
		return 0, false
	}
	return id, true
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
