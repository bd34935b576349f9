// Package httpapi serves the task list controller as a small JSON API.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"todos/internal/todo"
)

type Handler struct {
	app    *todo.App
	logger *log.Logger
}

type listResponse struct {
	Filter    todo.Filter `json:"filter"`
	Remaining int         `json:"remaining"`
	Todos     []todo.Task `json:"todos"`
}

type createRequest struct {
	Content string `json:"content"`
}

func NewHandler(app *todo.App, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{app: app, logger: logger}
}

// Routes mounts the API on a chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/todos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/toggle-all", h.ToggleAll)
		r.Post("/clear-completed", h.ClearCompleted)
		r.Post("/{id}/toggle", h.Toggle)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

// List returns the tasks selected by the filter query parameter. The
// controller's own filter is left alone so HTTP readers do not disturb the TUI.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := todo.ParseFilter(r.URL.Query().Get("filter"))
	tasks := h.app.Tasks()
	respondJSON(w, http.StatusOK, listResponse{
		Filter:    f,
		Remaining: todo.Remaining(tasks),
		Todos:     todo.Apply(tasks, f),
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.app.Add(r.Context(), req.Content)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/todos/"+strconv.FormatInt(t.ID, 10))
	respondJSON(w, http.StatusCreated, t)
}

func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	t, err := h.app.Toggle(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.app.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	if err := h.app.ToggleAll(r.Context()); err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.app.Tasks())
}

func (h *Handler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	removed, err := h.app.ClearCompleted(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, todo.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, todo.ErrEmptyContent):
		respondError(w, http.StatusBadRequest, "content is empty")
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
