// Package editor implements the track list editor: it owns one track list,
// renders it to a Surface and submits it to the playlists API.
package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/justestif/go-playlist-editor/internal/playlists"
	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

// Surface is where the editor shows its state and the results of API calls.
type Surface interface {
	// Rows replaces the rendered track table.
	Rows(rows []tracklist.Row)
	// Output replaces the output area with a raw response body.
	Output(text string)
	// Alert shows a blocking validation message.
	Alert(message string)
	// Failure reports a request that produced no response.
	Failure(err error)
}

// API is the subset of the playlists client used by the editor.
type API interface {
	Create(ctx context.Context, userID string, req playlists.CreateRequest) (*playlists.Response, error)
	List(ctx context.Context, userID string) (*playlists.Response, error)
	Get(ctx context.Context, userID, id string) (*playlists.Response, error)
	Delete(ctx context.Context, userID, id string) (*playlists.Response, error)
}

// PlaylistForm is the raw playlist form data.
type PlaylistForm struct {
	Name        string
	Description string
	IsPublic    bool
}

// Editor holds one independent track list. It is safe for concurrent use;
// API calls run outside the lock against a snapshot of the list.
type Editor struct {
	api     API
	surface Surface

	mu     sync.Mutex
	list   *tracklist.List
	userID string
}

// New creates an editor with an empty track list.
func New(api API, surface Surface) *Editor {
	return &Editor{
		api:     api,
		surface: surface,
		list:    tracklist.New(),
	}
}

// SetUserID sets the identifier sent as X-User-Id. It is trimmed and
// otherwise passed through verbatim.
func (e *Editor) SetUserID(id string) {
	e.mu.Lock()
	e.userID = strings.TrimSpace(id)
	e.mu.Unlock()
}

// UserID returns the current user identifier.
func (e *Editor) UserID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.userID
}

// Tracks returns a snapshot of the track list.
func (e *Editor) Tracks() []tracklist.Track {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Snapshot()
}

// Len returns the number of tracks in the list.
func (e *Editor) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Len()
}

// AddTrack validates the fields and appends a track. Validation failures
// raise an alert and leave the list untouched.
func (e *Editor) AddTrack(title, artist, durationRaw, externalURL string) (tracklist.Track, error) {
	e.mu.Lock()
	t, err := e.list.Add(tracklist.Input{
		Title:       title,
		Artist:      artist,
		DurationRaw: durationRaw,
		ExternalURL: externalURL,
	})
	rows := e.list.Rows()
	e.mu.Unlock()

	if err != nil {
		e.surface.Alert(err.Error())
		return tracklist.Track{}, err
	}

	e.surface.Rows(rows)
	return t, nil
}

// RemoveTrack deletes the track at index and re-renders.
func (e *Editor) RemoveTrack(index int) error {
	e.mu.Lock()
	err := e.list.Remove(index)
	rows := e.list.Rows()
	e.mu.Unlock()

	if err != nil {
		return err
	}

	e.surface.Rows(rows)
	return nil
}

// Render draws the current list.
func (e *Editor) Render() {
	e.mu.Lock()
	rows := e.list.Rows()
	e.mu.Unlock()

	e.surface.Rows(rows)
}

// SubmitPlaylist sends the list as a new playlist. The response body is
// always shown; the list is cleared only on a 2xx status.
func (e *Editor) SubmitPlaylist(ctx context.Context, form PlaylistForm) (*playlists.Response, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		err := &tracklist.ValidationError{Field: "name", Message: "Enter a playlist name"}
		e.surface.Alert(err.Error())
		return nil, err
	}

	var description *string
	if d := strings.TrimSpace(form.Description); d != "" {
		description = &d
	}

	e.mu.Lock()
	userID := e.userID
	req := playlists.CreateRequest{
		Name:            name,
		Description:     description,
		IsPublic:        form.IsPublic,
		CollaboratorIDs: []string{},
		Tracks:          e.list.Snapshot(),
	}
	e.mu.Unlock()

	resp, err := e.api.Create(ctx, userID, req)
	if err != nil {
		err = fmt.Errorf("creating playlist: %w", err)
		e.surface.Failure(err)
		return nil, err
	}

	e.surface.Output(resp.Body)
	if resp.OK() {
		e.mu.Lock()
		e.list.Clear()
		rows := e.list.Rows()
		e.mu.Unlock()
		e.surface.Rows(rows)
	}

	return resp, nil
}

// LoadPlaylists fetches the playlists visible to the user and shows the
// response body whatever the status.
func (e *Editor) LoadPlaylists(ctx context.Context) (*playlists.Response, error) {
	resp, err := e.api.List(ctx, e.UserID())
	return e.show(resp, err, "loading playlists")
}

// ShowPlaylist fetches a single playlist and shows the response body.
func (e *Editor) ShowPlaylist(ctx context.Context, id string) (*playlists.Response, error) {
	id, err := e.requireID(id)
	if err != nil {
		return nil, err
	}
	resp, err := e.api.Get(ctx, e.UserID(), id)
	return e.show(resp, err, "fetching playlist")
}

// DeletePlaylist deletes a playlist and shows the response body.
func (e *Editor) DeletePlaylist(ctx context.Context, id string) (*playlists.Response, error) {
	id, err := e.requireID(id)
	if err != nil {
		return nil, err
	}
	resp, err := e.api.Delete(ctx, e.UserID(), id)
	return e.show(resp, err, "deleting playlist")
}

func (e *Editor) requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		err := &tracklist.ValidationError{Field: "id", Message: "Enter a playlist id"}
		e.surface.Alert(err.Error())
		return "", err
	}
	return id, nil
}

func (e *Editor) show(resp *playlists.Response, err error, action string) (*playlists.Response, error) {
	if err != nil {
		err = fmt.Errorf("%s: %w", action, err)
		e.surface.Failure(err)
		return nil, err
	}
	e.surface.Output(resp.Body)
	return resp, nil
}
