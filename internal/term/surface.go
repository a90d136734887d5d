// Package term renders the editor to a terminal.
package term

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	alertStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// Surface writes editor output to a terminal. Output holds the raw response
// body, written verbatim.
type Surface struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	quiet bool
}

// NewSurface creates a surface writing tables and bodies to out and alerts
// and failures to errOut.
func NewSurface(out, errOut io.Writer) *Surface {
	return &Surface{out: out, err: errOut}
}

// Rows prints the track table, unless called inside Quiet.
func (s *Surface) Rows(rows []tracklist.Row) {
	s.mu.Lock()
	quiet := s.quiet
	s.mu.Unlock()
	if quiet {
		return
	}

	if len(rows) == 0 {
		s.println(false, mutedStyle.Render("(no tracks)"))
		return
	}
	s.println(false, Table(rows))
}

// Output prints a response body verbatim.
func (s *Surface) Output(text string) {
	s.println(false, text)
}

// Alert prints a validation message.
func (s *Surface) Alert(message string) {
	s.println(true, alertStyle.Render(message))
}

// Failure prints a transport error.
func (s *Surface) Failure(err error) {
	s.println(true, alertStyle.Render("Error: "+err.Error()))
}

// Defer holds everything written while fn runs and prints it afterwards,
// so output does not interleave with a spinner.
func (s *Surface) Defer(fn func() error) error {
	var out, errOut bytes.Buffer

	s.mu.Lock()
	origOut, origErr := s.out, s.err
	s.out, s.err = &out, &errOut
	s.mu.Unlock()

	err := fn()

	s.mu.Lock()
	s.out, s.err = origOut, origErr
	s.mu.Unlock()

	_, _ = errOut.WriteTo(origErr)
	_, _ = out.WriteTo(origOut)
	return err
}

// Quiet runs fn without printing track tables. Bodies, alerts and failures
// are still written.
func (s *Surface) Quiet(fn func() error) error {
	s.mu.Lock()
	prev := s.quiet
	s.quiet = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.quiet = prev
		s.mu.Unlock()
	}()
	return fn()
}

func (s *Surface) println(toErr bool, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.out
	if toErr {
		w = s.err
	}
	fmt.Fprintln(w, text)
}

// Table renders rows as a bordered table.
func Table(rows []tracklist.Row) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Title", "Artist", "Duration", "URL").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, r := range rows {
		t.Row(strconv.Itoa(r.Position), r.Title, r.Artist, r.Duration, r.ExternalURL)
	}

	return t.String()
}
