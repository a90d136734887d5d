// Package tracklist holds the in-memory track list edited before a playlist
// is submitted, along with the validation rules for adding tracks.
package tracklist

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ErrIndexOutOfRange is returned when removing a position that does not exist.
var ErrIndexOutOfRange = errors.New("track index out of range")

// Track is a single song entry. DurationSec and ExternalURL are optional and
// omitted from the wire form when unset.
type Track struct {
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	DurationSec *float64 `json:"duration_sec,omitempty"`
	ExternalURL string   `json:"external_url,omitempty"`
}

// ValidationError describes user input that was rejected before any state
// change or network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Input is the raw, untrimmed form data for a new track.
type Input struct {
	Title       string
	Artist      string
	DurationRaw string
	ExternalURL string
}

// Parse trims and validates the input, returning the Track it describes.
func (in Input) Parse() (Track, error) {
	title := strings.TrimSpace(in.Title)
	artist := strings.TrimSpace(in.Artist)
	durationRaw := strings.TrimSpace(in.DurationRaw)
	externalURL := strings.TrimSpace(in.ExternalURL)

	if title == "" || artist == "" {
		field := "title"
		if title != "" {
			field = "artist"
		}
		return Track{}, &ValidationError{Field: field, Message: "Title and Artist are required"}
	}

	t := Track{
		Title:       title,
		Artist:      artist,
		ExternalURL: externalURL,
	}

	if durationRaw != "" {
		d, err := ParseDuration(durationRaw)
		if err != nil {
			return Track{}, err
		}
		t.DurationSec = &d
	}

	return t, nil
}

// ParseDuration parses a duration in seconds. The value must be a finite
// number greater than or equal to zero. Accepted forms are decimal numbers
// with an optional exponent and unsigned 0x, 0o and 0b integers.
func ParseDuration(raw string) (float64, error) {
	invalid := &ValidationError{Field: "duration", Message: "Duration must be a non-negative number"}

	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, invalid
	}

	var d float64
	if base := integerBase(s); base != 0 {
		digits := s[2:]
		if digits == "" || digits[0] == '+' || digits[0] == '-' {
			return 0, invalid
		}
		n, ok := new(big.Int).SetString(digits, base)
		if !ok {
			return 0, invalid
		}
		d, _ = new(big.Float).SetInt(n).Float64()
	} else {
		if !isDecimal(s) {
			return 0, invalid
		}
		var err error
		if d, err = strconv.ParseFloat(s, 64); err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, invalid
		}
	}

	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, invalid
	}
	if d == 0 {
		// Drops the sign of -0.
		d = 0
	}
	return d, nil
}

// integerBase returns the base of a 0x, 0o or 0b prefixed integer, or 0.
func integerBase(s string) int {
	if len(s) < 2 || s[0] != '0' {
		return 0
	}
	switch s[1] {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

// isDecimal reports whether s only uses the characters of a signed decimal
// number with an optional exponent. ParseFloat also takes hex floats and
// spelled out infinities, which are not durations.
func isDecimal(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// FormatDuration renders an optional duration the way it was typed: whole
// numbers without a decimal point, empty when absent.
func FormatDuration(d *float64) string {
	if d == nil {
		return ""
	}
	return strconv.FormatFloat(*d, 'f', -1, 64)
}

// String returns a short human readable form, e.g. "Artist - Title (180s)".
func (t Track) String() string {
	s := fmt.Sprintf("%s - %s", t.Artist, t.Title)
	if t.DurationSec != nil {
		s += fmt.Sprintf(" (%ss)", FormatDuration(t.DurationSec))
	}
	return s
}
