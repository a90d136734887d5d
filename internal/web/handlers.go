package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/justestif/go-playlist-editor/internal/editor"
	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

type workspaceKey struct{}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	sessions  SessionManager
	templates *Templates
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(sessions SessionManager, templates *Templates) *Handlers {
	return &Handlers{
		sessions:  sessions,
		templates: templates,
	}
}

// WithWorkspace attaches the caller's workspace to the request context,
// starting a new session when the cookie is missing or stale.
func (h *Handlers) WithWorkspace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws := h.sessions.GetFromRequest(r)
		if ws == nil {
			var err error
			ws, err = h.sessions.Create(r.Context())
			if err != nil {
				log.Printf("creating session: %v", err)
				http.Error(w, "Failed to create session", http.StatusInternalServerError)
				return
			}
			h.sessions.SetCookie(w, ws)
		}

		ctx := context.WithValue(r.Context(), workspaceKey{}, ws)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func workspaceFrom(r *http.Request) *Workspace {
	ws, _ := r.Context().Value(workspaceKey{}).(*Workspace)
	return ws
}

// Home renders the editor page (GET /).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	ws.Editor.Render()

	editorData, flash := ws.View.Snapshot()
	data := HomePageData{
		PageData: PageData{
			Title:       "Playlist Editor",
			Flash:       flash,
			CurrentPath: r.URL.Path,
		},
		Editor: editorData,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, "home", data); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// Tracks renders only the tracks table (GET /tracks).
func (h *Handlers) Tracks(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	rows := tracklist.RowsOf(ws.Editor.Tracks())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.RenderPartial(w, "tracks", rows); err != nil {
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}
}

// AddTrack appends a track from the form (POST /tracks).
func (h *Handlers) AddTrack(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	values := TrackFormValues{
		Title:       r.PostForm.Get("title"),
		Artist:      r.PostForm.Get("artist"),
		Duration:    r.PostForm.Get("duration"),
		ExternalURL: r.PostForm.Get("external_url"),
	}

	_, err := ws.Editor.AddTrack(values.Title, values.Artist, values.Duration, values.ExternalURL)
	if err != nil {
		// Keep what was typed so the user can fix it.
		ws.View.SetTrackForm(values)
	} else {
		ws.View.SetTrackForm(TrackFormValues{})
	}

	redirectHome(w, r)
}

// RemoveTrack removes the track at the given index (POST /tracks/{index}/remove).
func (h *Handlers) RemoveTrack(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		http.Error(w, "Invalid track index", http.StatusBadRequest)
		return
	}

	if err := ws.Editor.RemoveTrack(index); err != nil {
		if errors.Is(err, tracklist.ErrIndexOutOfRange) {
			// Stale page, e.g. a second tab removed the row already.
			ws.View.setFlash("warning", "That track is no longer in the list")
		} else {
			http.Error(w, "Failed to remove track", http.StatusInternalServerError)
			return
		}
	}

	redirectHome(w, r)
}

// CreatePlaylist submits the track list as a new playlist (POST /playlists).
func (h *Handlers) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	ws, values, ok := h.playlistForm(w, r)
	if !ok {
		return
	}

	_, err := ws.Editor.SubmitPlaylist(r.Context(), editor.PlaylistForm{
		Name:        values.Name,
		Description: values.Description,
		IsPublic:    values.IsPublic,
	})
	logRequestError("creating playlist", err)

	redirectHome(w, r)
}

// LoadPlaylists fetches the user's playlists into the output area (POST /playlists/load).
func (h *Handlers) LoadPlaylists(w http.ResponseWriter, r *http.Request) {
	ws, _, ok := h.playlistForm(w, r)
	if !ok {
		return
	}

	_, err := ws.Editor.LoadPlaylists(r.Context())
	logRequestError("loading playlists", err)

	redirectHome(w, r)
}

// Reset discards the session and its track list (POST /reset). The next
// request starts a fresh session.
func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFrom(r)
	h.sessions.Delete(r.Context(), ws.ID)
	h.sessions.ClearCookie(w)

	redirectHome(w, r)
}

// Health reports that the UI server is up (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// playlistForm reads the shared playlist form, which also carries the user id
// sent with every API call.
func (h *Handlers) playlistForm(w http.ResponseWriter, r *http.Request) (*Workspace, PlaylistFormValues, bool) {
	ws := workspaceFrom(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return nil, PlaylistFormValues{}, false
	}

	values := PlaylistFormValues{
		UserID:      r.PostForm.Get("uid"),
		Name:        r.PostForm.Get("name"),
		Description: r.PostForm.Get("description"),
		IsPublic:    r.PostForm.Get("is_public") != "",
	}
	ws.View.SetPlaylistForm(values)

	if ws.Editor.UserID() != strings.TrimSpace(values.UserID) {
		ws.Editor.SetUserID(values.UserID)
		if err := h.sessions.SaveUserID(r.Context(), ws); err != nil {
			log.Printf("saving user id for session %s: %v", ws.ID, err)
		}
	}

	return ws, values, true
}

// logRequestError logs failures that are not validation errors; those are
// already shown to the user.
func logRequestError(action string, err error) {
	var vErr *tracklist.ValidationError
	if err != nil && !errors.As(err, &vErr) {
		log.Printf("%s: %v", action, err)
	}
}

// redirectHome sends the browser back to the editor page.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
