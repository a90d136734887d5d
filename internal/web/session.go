package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-playlist-editor/internal/db"
	"github.com/justestif/go-playlist-editor/internal/editor"
)

const (
	sessionCookieName = "session_id"
	sessionTTL        = 24 * time.Hour
)

// Workspace is the editor state of one browser session. Each workspace owns
// an independent track list.
type Workspace struct {
	ID        uuid.UUID
	Editor    *editor.Editor
	View      *View
	CreatedAt time.Time
}

func newWorkspace(id uuid.UUID, api editor.API, createdAt time.Time) *Workspace {
	view := &View{}
	return &Workspace{
		ID:        id,
		Editor:    editor.New(api, view),
		View:      view,
		CreatedAt: createdAt,
	}
}

func (w *Workspace) expired() bool {
	return time.Since(w.CreatedAt) > sessionTTL
}

// SessionManager defines the interface for session management.
type SessionManager interface {
	Create(ctx context.Context) (*Workspace, error)
	Get(ctx context.Context, id uuid.UUID) *Workspace
	Delete(ctx context.Context, id uuid.UUID)
	SaveUserID(ctx context.Context, ws *Workspace) error
	GetFromRequest(r *http.Request) *Workspace
	SetCookie(w http.ResponseWriter, ws *Workspace)
	ClearCookie(w http.ResponseWriter)
	PurgeExpired(ctx context.Context) int
}

// ============================================================================
// In-Memory Session Store
// ============================================================================

// SessionStore keeps workspaces in memory. Everything is lost on restart.
type SessionStore struct {
	api editor.API

	mu         sync.RWMutex
	workspaces map[uuid.UUID]*Workspace
}

// NewSessionStore creates a new in-memory session store whose editors talk
// to api.
func NewSessionStore(api editor.API) *SessionStore {
	return &SessionStore{
		api:        api,
		workspaces: make(map[uuid.UUID]*Workspace),
	}
}

// Create starts a new workspace with an empty track list.
func (s *SessionStore) Create(_ context.Context) (*Workspace, error) {
	ws := newWorkspace(uuid.New(), s.api, time.Now())

	s.mu.Lock()
	s.workspaces[ws.ID] = ws
	s.mu.Unlock()

	return ws, nil
}

// Get retrieves a workspace by ID.
func (s *SessionStore) Get(_ context.Context, id uuid.UUID) *Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.workspaces[id]
	if !ok || ws.expired() {
		return nil
	}
	return ws
}

// Delete removes a workspace by ID.
func (s *SessionStore) Delete(_ context.Context, id uuid.UUID) {
	s.mu.Lock()
	delete(s.workspaces, id)
	s.mu.Unlock()
}

// SaveUserID is a no-op; the user id lives on the editor.
func (s *SessionStore) SaveUserID(_ context.Context, _ *Workspace) error {
	return nil
}

// GetFromRequest extracts the workspace from the request cookie.
func (s *SessionStore) GetFromRequest(r *http.Request) *Workspace {
	id, ok := sessionIDFromRequest(r)
	if !ok {
		return nil
	}
	return s.Get(r.Context(), id)
}

// SetCookie sets the session cookie on the response.
func (s *SessionStore) SetCookie(w http.ResponseWriter, ws *Workspace) {
	setCookie(w, ws)
}

// ClearCookie removes the session cookie from the response.
func (s *SessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// PurgeExpired drops expired workspaces and returns how many were removed.
func (s *SessionStore) PurgeExpired(_ context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, ws := range s.workspaces {
		if ws.expired() {
			delete(s.workspaces, id)
			n++
		}
	}
	return n
}

// ============================================================================
// Database-Backed Session Store
// ============================================================================

// DBSessionStore persists session ids and the user id entered in each
// session. Track lists stay in memory, so a restart yields empty editors
// that still remember who the user is.
type DBSessionStore struct {
	database *db.DB
	memory   *SessionStore
}

// NewDBSessionStore creates a new database-backed session store.
func NewDBSessionStore(database *db.DB, api editor.API) *DBSessionStore {
	return &DBSessionStore{
		database: database,
		memory:   NewSessionStore(api),
	}
}

// Create starts a workspace and records the session in the database.
func (s *DBSessionStore) Create(ctx context.Context) (*Workspace, error) {
	ws, err := s.memory.Create(ctx)
	if err != nil {
		return nil, err
	}

	err = s.database.Sessions().Create(ctx, &db.Session{
		ID:        ws.ID,
		CreatedAt: ws.CreatedAt,
		ExpiresAt: ws.CreatedAt.Add(sessionTTL),
	})
	if err != nil {
		s.memory.Delete(ctx, ws.ID)
		return nil, err
	}

	return ws, nil
}

// Get returns the in-memory workspace, rebuilding an empty one from the
// database when the process has restarted since the session began.
func (s *DBSessionStore) Get(ctx context.Context, id uuid.UUID) *Workspace {
	if ws := s.memory.Get(ctx, id); ws != nil {
		return ws
	}

	dbSession, err := s.database.Sessions().Get(ctx, id)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Printf("loading session %s: %v", id, err)
		}
		return nil
	}

	ws := newWorkspace(dbSession.ID, s.memory.api, dbSession.CreatedAt)
	ws.Editor.SetUserID(dbSession.UserID)
	ws.View.SetPlaylistForm(PlaylistFormValues{UserID: dbSession.UserID})

	s.memory.mu.Lock()
	defer s.memory.mu.Unlock()
	if existing, ok := s.memory.workspaces[id]; ok {
		return existing
	}
	s.memory.workspaces[id] = ws
	return ws
}

// Delete removes a session from memory and the database.
func (s *DBSessionStore) Delete(ctx context.Context, id uuid.UUID) {
	s.memory.Delete(ctx, id)
	_ = s.database.Sessions().Delete(ctx, id)
}

// SaveUserID persists the workspace's current user id.
func (s *DBSessionStore) SaveUserID(ctx context.Context, ws *Workspace) error {
	return s.database.Sessions().UpdateUserID(ctx, ws.ID, ws.Editor.UserID())
}

// GetFromRequest extracts the workspace from the request cookie.
func (s *DBSessionStore) GetFromRequest(r *http.Request) *Workspace {
	id, ok := sessionIDFromRequest(r)
	if !ok {
		return nil
	}
	return s.Get(r.Context(), id)
}

// SetCookie sets the session cookie on the response.
func (s *DBSessionStore) SetCookie(w http.ResponseWriter, ws *Workspace) {
	setCookie(w, ws)
}

// ClearCookie removes the session cookie from the response.
func (s *DBSessionStore) ClearCookie(w http.ResponseWriter) {
	clearCookie(w)
}

// PurgeExpired drops expired workspaces from memory and expired sessions
// from the database.
func (s *DBSessionStore) PurgeExpired(ctx context.Context) int {
	n := s.memory.PurgeExpired(ctx)
	deleted, err := s.database.Sessions().DeleteExpired(ctx)
	if err != nil {
		log.Printf("purging sessions: %v", err)
		return n
	}
	return max(n, int(deleted))
}

// ============================================================================
// Helper Functions
// ============================================================================

// sessionIDFromRequest parses the session cookie.
func sessionIDFromRequest(r *http.Request) (uuid.UUID, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// setCookie sets the session cookie on the response.
func setCookie(w http.ResponseWriter, ws *Workspace) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    ws.ID.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sessionTTL.Seconds()),
	})
}

// clearCookie removes the session cookie from the response.
func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Ensure both stores implement SessionManager.
var (
	_ SessionManager = (*SessionStore)(nil)
	_ SessionManager = (*DBSessionStore)(nil)
)
