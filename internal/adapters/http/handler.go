package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hotate516/kiga-workspace/internal/app/notes"
	"github.com/Hotate516/kiga-workspace/internal/app/profile"
	"github.com/Hotate516/kiga-workspace/internal/app/workspace"
	"github.com/Hotate516/kiga-workspace/internal/domain"
)

const maxAvatarBytes = 5 << 20

type Server struct {
	notes     *notes.Service
	profile   *profile.Service
	workspace *workspace.Service
	events    *EventHub
}

// NewServer wires the workspace REST surface. events may be nil when no
// websocket fan-out is wanted.
func NewServer(notesSvc *notes.Service, profileSvc *profile.Service, workspaceSvc *workspace.Service, events *EventHub) http.Handler {
	s := &Server{
		notes:     notesSvc,
		profile:   profileSvc,
		workspace: workspaceSvc,
		events:    events,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/apps", s.handleApps)

	// /users/{uid}/notes            → GET: list, POST: create
	// /users/{uid}/notes/{id}       → GET: content, PUT: save, DELETE
	// /users/{uid}/notes/{id}/meta  → PATCH: title only
	// /users/{uid}/profile          → GET, PUT
	// /users/{uid}/profile/avatar   → POST
	mux.HandleFunc("/users/", s.handleUserScoped)

	if events != nil {
		mux.HandleFunc("/events", events.handleWebsocket)
	}

	return chainMiddlewares(mux, withCORS, withLogging, withRequestID)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type noteResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	LastModified time.Time `json:"last_modified"`
}

type noteContentResponse struct {
	ID      string          `json:"id"`
	Content domain.Document `json:"content"`
}

type saveNoteRequest struct {
	Title   string           `json:"title"`
	Content *domain.Document `json:"content"`
}

type saveNoteResponse struct {
	LastModified time.Time `json:"last_modified"`
}

type updateMetaRequest struct {
	Title string `json:"title"`
}

type profileResponse struct {
	UID      string `json:"uid"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

// ─────────────────────────────────────────────
// Basic routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleApps(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"apps": s.workspace.Apps()})
}

// /users/{uid}/...
func (s *Server) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	uid := domain.UserID(parts[0])

	switch parts[1] {
	case "notes":
		s.routeNotes(w, r, uid, parts[2:])
	case "profile":
		s.routeProfile(w, r, uid, parts[2:])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) routeNotes(w http.ResponseWriter, r *http.Request, uid domain.UserID, rest []string) {
	switch {
	case len(rest) == 0:
		switch r.Method {
		case http.MethodGet:
			s.handleListNotes(w, r, uid)
		case http.MethodPost:
			s.handleCreateNote(w, r, uid)
		default:
			methodNotAllowed(w)
		}
	case len(rest) == 1 && rest[0] != "":
		id := domain.NoteID(rest[0])
		switch r.Method {
		case http.MethodGet:
			s.handleGetNote(w, r, uid, id)
		case http.MethodPut:
			s.handleSaveNote(w, r, uid, id)
		case http.MethodDelete:
			s.handleDeleteNote(w, r, uid, id)
		default:
			methodNotAllowed(w)
		}
	case len(rest) == 2 && rest[1] == "meta":
		if r.Method != http.MethodPatch {
			methodNotAllowed(w)
			return
		}
		s.handleUpdateMeta(w, r, uid, domain.NoteID(rest[0]))
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) routeProfile(w http.ResponseWriter, r *http.Request, uid domain.UserID, rest []string) {
	switch {
	case len(rest) == 0:
		switch r.Method {
		case http.MethodGet:
			s.handleGetProfile(w, r, uid)
		case http.MethodPut:
			s.handleUpdateProfile(w, r, uid)
		default:
			methodNotAllowed(w)
		}
	case len(rest) == 1 && rest[0] == "avatar":
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleUploadAvatar(w, r, uid)
	default:
		http.NotFound(w, r)
	}
}

// ─────────────────────────────────────────────
// Note handlers
// ─────────────────────────────────────────────

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request, uid domain.UserID) {
	list, err := s.notes.List(r.Context(), uid)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]noteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNoteResponse(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notes": out})
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request, uid domain.UserID) {
	meta, err := s.notes.Create(r.Context(), uid)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(*meta))
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request, uid domain.UserID, id domain.NoteID) {
	doc, err := s.notes.FetchContent(r.Context(), uid, id)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, noteContentResponse{ID: string(id), Content: doc})
}

func (s *Server) handleSaveNote(w http.ResponseWriter, r *http.Request, uid domain.UserID, id domain.NoteID) {
	var req saveNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.Content == nil {
		badRequest(w, "content is required")
		return
	}
	if strings.TrimSpace(req.Title) == "" && req.Content.IsEmpty() {
		badRequest(w, "there is nothing to save")
		return
	}

	modified, err := s.notes.Save(r.Context(), uid, id, req.Title, *req.Content)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveNoteResponse{LastModified: modified})
}

func (s *Server) handleUpdateMeta(w http.ResponseWriter, r *http.Request, uid domain.UserID, id domain.NoteID) {
	var req updateMetaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	if err := s.notes.UpdateMeta(r.Context(), uid, id, req.Title); err != nil {
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request, uid domain.UserID, id domain.NoteID) {
	if err := s.notes.Delete(r.Context(), uid, id); err != nil {
		if errors.Is(err, domain.ErrNoteNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ─────────────────────────────────────────────
// Profile handlers
// ─────────────────────────────────────────────

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request, uid domain.UserID) {
	u, err := s.profile.Get(r.Context(), uid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, uid domain.UserID) {
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(w, "name is required")
		return
	}

	u, err := s.profile.UpdateName(r.Context(), uid, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request, uid domain.UserID) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAvatarBytes))
	if err != nil {
		badRequest(w, "image too large or unreadable")
		return
	}
	if len(data) == 0 {
		badRequest(w, "image body is required")
		return
	}

	u, err := s.profile.UpdateAvatar(r.Context(), uid, data, r.Header.Get("Content-Type"))
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(u))
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toNoteResponse(n domain.NoteMeta) noteResponse {
	return noteResponse{
		ID:           string(n.ID),
		Title:        n.Title,
		LastModified: n.LastModified,
	}
}

func toProfileResponse(u *domain.User) profileResponse {
	return profileResponse{
		UID:      string(u.UID),
		Name:     u.Name,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
