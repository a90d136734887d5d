package web

import (
	"sync"

	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

// TrackFormValues are the values of the add-track form.
type TrackFormValues struct {
	Title       string
	Artist      string
	Duration    string
	ExternalURL string
}

// PlaylistFormValues are the values of the playlist form.
type PlaylistFormValues struct {
	UserID      string
	Name        string
	Description string
	IsPublic    bool
}

// View is the display surface of one browser session. The editor draws into
// it and the next page render reads from it.
type View struct {
	mu       sync.Mutex
	rows     []tracklist.Row
	output   string
	flash    *FlashMessage
	track    TrackFormValues
	playlist PlaylistFormValues
}

// Rows implements editor.Surface.
func (v *View) Rows(rows []tracklist.Row) {
	v.mu.Lock()
	v.rows = rows
	v.mu.Unlock()
}

// Output implements editor.Surface.
func (v *View) Output(text string) {
	v.mu.Lock()
	v.output = text
	v.mu.Unlock()
}

// Alert implements editor.Surface.
func (v *View) Alert(message string) {
	v.setFlash("error", message)
}

// Failure implements editor.Surface.
func (v *View) Failure(err error) {
	v.setFlash("error", "Request failed: "+err.Error())
}

func (v *View) setFlash(kind, message string) {
	v.mu.Lock()
	v.flash = &FlashMessage{Type: kind, Message: message}
	v.mu.Unlock()
}

// SetTrackForm remembers the add-track form so a rejected add keeps the input.
func (v *View) SetTrackForm(values TrackFormValues) {
	v.mu.Lock()
	v.track = values
	v.mu.Unlock()
}

// SetPlaylistForm remembers the playlist form.
func (v *View) SetPlaylistForm(values PlaylistFormValues) {
	v.mu.Lock()
	v.playlist = values
	v.mu.Unlock()
}

// EditorData is a point-in-time copy of a View for templates.
type EditorData struct {
	Rows     []tracklist.Row
	Output   string
	Track    TrackFormValues
	Playlist PlaylistFormValues
}

// Snapshot returns the current view contents and consumes the flash message.
func (v *View) Snapshot() (EditorData, *FlashMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	rows := make([]tracklist.Row, len(v.rows))
	copy(rows, v.rows)
	flash := v.flash
	v.flash = nil

	return EditorData{
		Rows:     rows,
		Output:   v.output,
		Track:    v.track,
		Playlist: v.playlist,
	}, flash
}
