package editor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/justestif/go-playlist-editor/internal/playlists"
	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

// recordingSurface captures everything the editor draws.
type recordingSurface struct {
	mu       sync.Mutex
	rows     []tracklist.Row
	renders  int
	output   string
	alerts   []string
	failures []error
}

func (s *recordingSurface) Rows(rows []tracklist.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = rows
	s.renders++
}

func (s *recordingSurface) Output(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.output = text
}

func (s *recordingSurface) Alert(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, message)
}

func (s *recordingSurface) Failure(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, err)
}

// mockAPI implements API for testing.
type mockAPI struct {
	calls   atomic.Int32
	resp    *playlists.Response
	err     error
	created []playlists.CreateRequest
	userIDs []string
}

func (m *mockAPI) record(userID string) (*playlists.Response, error) {
	m.calls.Add(1)
	m.userIDs = append(m.userIDs, userID)
	if m.err != nil {
		return nil, m.err
	}
	return m.resp, nil
}

func (m *mockAPI) Create(_ context.Context, userID string, req playlists.CreateRequest) (*playlists.Response, error) {
	m.created = append(m.created, req)
	return m.record(userID)
}

func (m *mockAPI) List(_ context.Context, userID string) (*playlists.Response, error) {
	return m.record(userID)
}

func (m *mockAPI) Get(_ context.Context, userID, _ string) (*playlists.Response, error) {
	return m.record(userID)
}

func (m *mockAPI) Delete(_ context.Context, userID, _ string) (*playlists.Response, error) {
	return m.record(userID)
}

func addTracks(t *testing.T, e *Editor, titles ...string) {
	t.Helper()
	for _, title := range titles {
		if _, err := e.AddTrack(title, "Artist", "", ""); err != nil {
			t.Fatalf("AddTrack(%q) error = %v", title, err)
		}
	}
}

func TestEditor_AddAndRemoveRender(t *testing.T) {
	surface := &recordingSurface{}
	e := New(&mockAPI{}, surface)

	addTracks(t, e, "one", "two", "three")
	if err := e.RemoveTrack(0); err != nil {
		t.Fatalf("RemoveTrack(0) error = %v", err)
	}

	if len(surface.rows) != 2 {
		t.Fatalf("rendered rows = %d, want 2", len(surface.rows))
	}
	if surface.rows[0].Title != "two" || surface.rows[1].Title != "three" {
		t.Errorf("rows = %+v, want [two three]", surface.rows)
	}
	if surface.rows[0].Position != 1 {
		t.Errorf("first position = %d, want 1", surface.rows[0].Position)
	}
	if surface.renders != 4 {
		t.Errorf("renders = %d, want 4", surface.renders)
	}
}

func TestEditor_AddTrackValidation(t *testing.T) {
	tests := []struct {
		name                               string
		title, artist, duration, externURL string
		wantAlert                          string
	}{
		{name: "missing title", title: "", artist: "Artist", wantAlert: "Title and Artist are required"},
		{name: "negative duration", title: "T", artist: "A", duration: "-5", wantAlert: "Duration must be a non-negative number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface := &recordingSurface{}
			e := New(&mockAPI{}, surface)

			_, err := e.AddTrack(tt.title, tt.artist, tt.duration, tt.externURL)
			var vErr *tracklist.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("AddTrack() error = %v, want ValidationError", err)
			}
			if e.Len() != 0 {
				t.Errorf("Len() = %d, want 0", e.Len())
			}
			if len(surface.alerts) != 1 || surface.alerts[0] != tt.wantAlert {
				t.Errorf("alerts = %v, want [%q]", surface.alerts, tt.wantAlert)
			}
			if surface.renders != 0 {
				t.Errorf("renders = %d, want 0", surface.renders)
			}
		})
	}
}

func TestEditor_RemoveOutOfRange(t *testing.T) {
	surface := &recordingSurface{}
	e := New(&mockAPI{}, surface)
	addTracks(t, e, "only")

	if err := e.RemoveTrack(3); !errors.Is(err, tracklist.ErrIndexOutOfRange) {
		t.Errorf("RemoveTrack(3) error = %v, want ErrIndexOutOfRange", err)
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
}

func TestEditor_SubmitPlaylistAgainstServer(t *testing.T) {
	var posts atomic.Int32
	var body struct {
		Name            string            `json:"name"`
		Description     *string           `json:"description"`
		IsPublic        bool              `json:"is_public"`
		CollaboratorIDs []string          `json:"collaborator_ids"`
		Tracks          []json.RawMessage `json:"tracks"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/playlists" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		posts.Add(1)
		if got := r.Header.Get("X-User-Id"); got != "alice" {
			t.Errorf("X-User-Id = %q, want alice", got)
		}
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &body); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new"}`))
	}))
	defer server.Close()

	surface := &recordingSurface{}
	e := New(playlists.NewClient(&playlists.Config{BaseURL: server.URL}), surface)
	e.SetUserID(" alice ")
	addTracks(t, e, "one", "two")

	resp, err := e.SubmitPlaylist(context.Background(), PlaylistForm{Name: "My List", IsPublic: true})
	if err != nil {
		t.Fatalf("SubmitPlaylist() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
	if posts.Load() != 1 {
		t.Errorf("POST count = %d, want 1", posts.Load())
	}
	if len(body.Tracks) != 2 {
		t.Errorf("len(tracks) = %d, want 2", len(body.Tracks))
	}
	if body.CollaboratorIDs == nil || len(body.CollaboratorIDs) != 0 {
		t.Errorf("collaborator_ids = %v, want []", body.CollaboratorIDs)
	}
	if body.Description != nil {
		t.Errorf("description = %q, want null", *body.Description)
	}
	if !body.IsPublic || body.Name != "My List" {
		t.Errorf("name/is_public = %q/%v", body.Name, body.IsPublic)
	}
	if e.Len() != 0 {
		t.Errorf("Len() = %d after success, want 0", e.Len())
	}
	if len(surface.rows) != 0 {
		t.Errorf("rendered rows = %d after success, want 0", len(surface.rows))
	}
	if surface.output != `{"id":"new"}` {
		t.Errorf("output = %q", surface.output)
	}
}

func TestEditor_SubmitPlaylistFailureKeepsTracks(t *testing.T) {
	api := &mockAPI{resp: &playlists.Response{StatusCode: http.StatusUnauthorized, Body: `{"detail":"Missing X-User-Id header"}`}}
	surface := &recordingSurface{}
	e := New(api, surface)
	addTracks(t, e, "one")

	resp, err := e.SubmitPlaylist(context.Background(), PlaylistForm{Name: "Mix", Description: "  road trip "})
	if err != nil {
		t.Fatalf("SubmitPlaylist() error = %v", err)
	}
	if resp.OK() {
		t.Error("OK() = true, want false")
	}
	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
	if surface.output != `{"detail":"Missing X-User-Id header"}` {
		t.Errorf("output = %q", surface.output)
	}
	if d := api.created[0].Description; d == nil || *d != "road trip" {
		t.Errorf("description = %v, want road trip", d)
	}
}

func TestEditor_SubmitPlaylistRequiresName(t *testing.T) {
	api := &mockAPI{resp: &playlists.Response{StatusCode: http.StatusCreated}}
	surface := &recordingSurface{}
	e := New(api, surface)
	addTracks(t, e, "one")

	_, err := e.SubmitPlaylist(context.Background(), PlaylistForm{Name: "   "})
	var vErr *tracklist.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "name" {
		t.Fatalf("SubmitPlaylist() error = %v, want name ValidationError", err)
	}
	if api.calls.Load() != 0 {
		t.Errorf("API calls = %d, want 0", api.calls.Load())
	}
	if len(surface.alerts) != 1 {
		t.Errorf("alerts = %v, want one", surface.alerts)
	}
}

func TestEditor_TransportFailure(t *testing.T) {
	api := &mockAPI{err: playlists.ErrTransport}
	surface := &recordingSurface{output: "previous"}
	e := New(api, surface)
	addTracks(t, e, "one")

	if _, err := e.SubmitPlaylist(context.Background(), PlaylistForm{Name: "Mix"}); !errors.Is(err, playlists.ErrTransport) {
		t.Errorf("SubmitPlaylist() error = %v, want ErrTransport", err)
	}
	if _, err := e.LoadPlaylists(context.Background()); !errors.Is(err, playlists.ErrTransport) {
		t.Errorf("LoadPlaylists() error = %v, want ErrTransport", err)
	}

	if e.Len() != 1 {
		t.Errorf("Len() = %d, want 1", e.Len())
	}
	if surface.output != "previous" {
		t.Errorf("output = %q, want unchanged", surface.output)
	}
	if len(surface.failures) != 2 {
		t.Errorf("failures = %d, want 2", len(surface.failures))
	}
}

func TestEditor_LoadPlaylistsShowsLastResponse(t *testing.T) {
	var gets atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/playlists" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		n := gets.Add(1)
		if n == 2 {
			w.WriteHeader(http.StatusInternalServerError)
		}
		_, _ = w.Write([]byte{'0' + byte(n)})
	}))
	defer server.Close()

	surface := &recordingSurface{}
	e := New(playlists.NewClient(&playlists.Config{BaseURL: server.URL}), surface)

	for range 2 {
		if _, err := e.LoadPlaylists(context.Background()); err != nil {
			t.Fatalf("LoadPlaylists() error = %v", err)
		}
	}

	if gets.Load() != 2 {
		t.Errorf("GET count = %d, want 2", gets.Load())
	}
	if surface.output != "2" {
		t.Errorf("output = %q, want 2", surface.output)
	}
}

func TestEditor_ShowAndDeleteRequireID(t *testing.T) {
	api := &mockAPI{resp: &playlists.Response{StatusCode: http.StatusOK, Body: `{"deleted":true}`}}
	surface := &recordingSurface{}
	e := New(api, surface)
	e.SetUserID("owner")

	if _, err := e.ShowPlaylist(context.Background(), " "); err == nil {
		t.Error("ShowPlaylist(blank) error = nil")
	}
	if api.calls.Load() != 0 {
		t.Errorf("API calls = %d, want 0", api.calls.Load())
	}

	if _, err := e.DeletePlaylist(context.Background(), "p1"); err != nil {
		t.Fatalf("DeletePlaylist() error = %v", err)
	}
	if surface.output != `{"deleted":true}` {
		t.Errorf("output = %q", surface.output)
	}
	if api.userIDs[0] != "owner" {
		t.Errorf("user id = %q, want owner", api.userIDs[0])
	}
}
