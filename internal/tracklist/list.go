package tracklist

import "fmt"

// List is an ordered sequence of tracks. Insertion order determines display
// order and the indexes used for removal. The zero value is an empty list.
//
// List is not safe for concurrent use; owners serialize access.
type List struct {
	tracks []Track
}

// New returns an empty list.
func New() *List {
	return &List{}
}

// Add validates the input and appends the resulting track.
// On a validation error the list is left unchanged.
func (l *List) Add(in Input) (Track, error) {
	t, err := in.Parse()
	if err != nil {
		return Track{}, err
	}
	l.tracks = append(l.tracks, t)
	return t, nil
}

// Remove deletes the track at index, shifting later tracks down by one.
func (l *List) Remove(index int) error {
	if index < 0 || index >= len(l.tracks) {
		return fmt.Errorf("removing track %d of %d: %w", index, len(l.tracks), ErrIndexOutOfRange)
	}
	l.tracks = append(l.tracks[:index], l.tracks[index+1:]...)
	return nil
}

// Clear empties the list.
func (l *List) Clear() {
	l.tracks = nil
}

// Len returns the number of tracks.
func (l *List) Len() int {
	return len(l.tracks)
}

// Snapshot returns a copy of the tracks. The result is never nil so it
// serializes as an empty JSON array.
func (l *List) Snapshot() []Track {
	out := make([]Track, len(l.tracks))
	copy(out, l.tracks)
	return out
}

// Row is the display projection of a single track.
type Row struct {
	Position    int // 1-based
	Index       int // 0-based, used for removal
	Title       string
	Artist      string
	Duration    string
	ExternalURL string
}

// Rows projects the list into display rows in sequence order.
func (l *List) Rows() []Row {
	return RowsOf(l.tracks)
}

// RowsOf projects tracks into display rows.
func RowsOf(tracks []Track) []Row {
	rows := make([]Row, len(tracks))
	for i, t := range tracks {
		rows[i] = Row{
			Position:    i + 1,
			Index:       i,
			Title:       t.Title,
			Artist:      t.Artist,
			Duration:    FormatDuration(t.DurationSec),
			ExternalURL: t.ExternalURL,
		}
	}
	return rows
}
