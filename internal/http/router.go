package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/mkettle/quicknotes/internal/domain"
	"github.com/mkettle/quicknotes/internal/repository"
	"github.com/mkettle/quicknotes/internal/service/auth"
	"github.com/mkettle/quicknotes/internal/service/notes"
	"github.com/mkettle/quicknotes/internal/service/user"
)

// Router wires HTTP endpoints to services.
type Router struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	auth     auth.Service
	users    user.Service
	notes    notes.Service
	dbHealth func(context.Context) error
}

const healthCheckTimeout = 2 * time.Second

// NewRouter assembles routes with dependencies.
func NewRouter(logger *slog.Logger, authSvc auth.Service, userSvc user.Service, noteSvc notes.Service, dbHealth func(context.Context) error) *Router {
	r := &Router{
		mux:      http.NewServeMux(),
		logger:   logger,
		auth:     authSvc,
		users:    userSvc,
		notes:    noteSvc,
		dbHealth: dbHealth,
	}
	r.register()
	return r
}

// ServeHTTP delegates to the underlying mux.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) register() {
	r.mux.HandleFunc("/healthz", r.audit(r.handleHealthz))
	r.mux.HandleFunc("/users/login", r.audit(r.handleLogin))
	r.mux.HandleFunc("/users/registerUser", r.audit(r.handleRegister))
	r.mux.HandleFunc("/users/", r.audit(r.requireAuth(r.handleListUsers)))
	r.mux.HandleFunc("/notes/getNotes", r.audit(r.requireAuth(r.handleListNotes)))
	r.mux.HandleFunc("/notes/createNotes", r.audit(r.requireAuth(r.handleCreateNote)))
	r.mux.HandleFunc("/notes/update/", r.audit(r.requireAuth(r.handleUpdateNote)))
	r.mux.HandleFunc("/notes/delete/", r.audit(r.requireAuth(r.handleDeleteNote)))
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Name == "" || payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	account, token, err := r.users.Register(req.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, user.ErrAccountExists) {
			writeError(w, http.StatusConflict, "email or name already in use")
			return
		}
		r.storeError(w, req, "registration failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    userView(account),
		"token":   token,
	})
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	payload.Email = strings.TrimSpace(payload.Email)
	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	account, token, err := r.users.Login(req.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		r.storeError(w, req, "login failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    userView(account),
		"token":   token,
	})
}

func (r *Router) handleListUsers(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/users/" {
		r.notFound(w)
		return
	}
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	accounts, err := r.users.List(req.Context())
	if err != nil {
		r.storeError(w, req, "listing users failed", err)
		return
	}
	views := make([]map[string]any, 0, len(accounts))
	for i := range accounts {
		views = append(views, userView(&accounts[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": views})
}

func (r *Router) handleListNotes(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	identity, ok := identityFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization token required")
		return
	}
	list, err := r.notes.List(req.Context(), identity)
	if err != nil {
		r.noteError(w, req, "listing notes failed", err)
		return
	}
	if list == nil {
		list = []domain.Note{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": list})
}

func (r *Router) handleCreateNote(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.methodNotAllowed(w)
		return
	}
	identity, ok := identityFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization token required")
		return
	}
	title, content, ok := r.noteBody(w, req)
	if !ok {
		return
	}
	note, err := r.notes.Create(req.Context(), identity, title, content)
	if err != nil {
		r.noteError(w, req, "creating note failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Note created successfully",
		"note":    note,
	})
}

func (r *Router) handleUpdateNote(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPut {
		r.methodNotAllowed(w)
		return
	}
	identity, ok := identityFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization token required")
		return
	}
	noteID, ok := r.noteID(w, req, "/notes/update/")
	if !ok {
		return
	}
	title, content, ok := r.noteBody(w, req)
	if !ok {
		return
	}
	note, err := r.notes.Update(req.Context(), identity, noteID, title, content)
	if err != nil {
		r.noteError(w, req, "updating note failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note updated successfully",
		"note":    note,
	})
}

func (r *Router) handleDeleteNote(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodDelete {
		r.methodNotAllowed(w)
		return
	}
	identity, ok := identityFromContext(req.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization token required")
		return
	}
	noteID, ok := r.noteID(w, req, "/notes/delete/")
	if !ok {
		return
	}
	note, err := r.notes.Delete(req.Context(), identity, noteID)
	if err != nil {
		r.noteError(w, req, "deleting note failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Note deleted successfully",
		"note":    note,
	})
}

func (r *Router) handleHealthz(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		r.methodNotAllowed(w)
		return
	}
	components := make(map[string]any)
	status := "ok"
	if r.dbHealth != nil {
		ctx, cancel := context.WithTimeout(req.Context(), healthCheckTimeout)
		defer cancel()
		if err := r.dbHealth(ctx); err != nil {
			status = "degraded"
			components["database"] = map[string]any{
				"status": "down",
				"error":  err.Error(),
			}
		} else {
			components["database"] = map[string]any{"status": "up"}
		}
	}
	payload := map[string]any{
		"status":     status,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, payload)
}

// noteID extracts and validates the note id path segment.
func (r *Router) noteID(w http.ResponseWriter, req *http.Request, prefix string) (string, bool) {
	id := strings.TrimPrefix(req.URL.Path, prefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "note id is required")
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return "", false
	}
	return id, true
}

// noteBody decodes and validates a title/content payload.
func (r *Router) noteBody(w http.ResponseWriter, req *http.Request) (string, string, bool) {
	var payload struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return "", "", false
	}
	payload.Title = strings.TrimSpace(payload.Title)
	payload.Content = strings.TrimSpace(payload.Content)
	if payload.Title == "" || payload.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return "", "", false
	}
	return payload.Title, payload.Content, true
}

// noteError maps note service failures to HTTP codes.
func (r *Router) noteError(w http.ResponseWriter, req *http.Request, msg string, err error) {
	switch {
	case errors.Is(err, notes.ErrMissingIdentity):
		writeError(w, http.StatusUnauthorized, "authorization token required")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "note not found")
	default:
		r.storeError(w, req, msg, err)
	}
}

// storeError logs the failure with detail and answers with a generic
// message so store internals never leak to clients.
func (r *Router) storeError(w http.ResponseWriter, req *http.Request, msg string, err error) {
	r.logger.Error(msg, "error", err, "path", req.URL.Path)
	if errors.Is(err, repository.ErrUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// userView renders the sanitized account shape shared by all responses.
func userView(u *domain.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"created_at": u.CreatedAt,
	}
}

func (r *Router) methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func (r *Router) notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not found")
}
