package playlists

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

// CreateRequest is the body of POST /playlists.
type CreateRequest struct {
	Name            string            `json:"name"`
	Description     *string           `json:"description"` // null when blank
	IsPublic        bool              `json:"is_public"`
	CollaboratorIDs []string          `json:"collaborator_ids"`
	Tracks          []tracklist.Track `json:"tracks"`
}

// Playlist is a playlist as returned by the API.
type Playlist struct {
	ID              string            `json:"id"`
	OwnerID         string            `json:"owner_id"`
	Name            string            `json:"name"`
	Description     *string           `json:"description"`
	IsPublic        bool              `json:"is_public"`
	CollaboratorIDs []string          `json:"collaborator_ids"`
	Tracks          []tracklist.Track `json:"tracks"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Response is the raw outcome of an API call that reached the server.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DecodePlaylists parses a GET /playlists body.
func DecodePlaylists(body string) ([]Playlist, error) {
	var out []Playlist
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("parsing playlists response: %w", err)
	}
	return out, nil
}

// DecodePlaylist parses a single playlist body.
func DecodePlaylist(body string) (*Playlist, error) {
	var out Playlist
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, fmt.Errorf("parsing playlist response: %w", err)
	}
	return &out, nil
}
