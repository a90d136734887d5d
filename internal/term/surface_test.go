package term

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

func TestSurface_Rows(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSurface(&out, &errOut)

	d := 215.0
	s.Rows(tracklist.RowsOf([]tracklist.Track{
		{Title: "Paranoid Android", Artist: "Radiohead", DurationSec: &d},
		{Title: "Teardrop", Artist: "Massive Attack", ExternalURL: "https://example.test/t"},
	}))

	got := out.String()
	for _, want := range []string{"Paranoid Android", "Radiohead", "215", "Teardrop", "https://example.test/t", "Artist"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected stderr output: %q", errOut.String())
	}
}

func TestSurface_EmptyRows(t *testing.T) {
	var out bytes.Buffer
	s := NewSurface(&out, &bytes.Buffer{})
	s.Rows(nil)

	if !strings.Contains(out.String(), "no tracks") {
		t.Errorf("output = %q, want placeholder", out.String())
	}
}

func TestSurface_OutputVerbatim(t *testing.T) {
	var out bytes.Buffer
	s := NewSurface(&out, &bytes.Buffer{})
	body := `{"id":"p1","name":"Mix"}`
	s.Output(body)

	if out.String() != body+"\n" {
		t.Errorf("output = %q, want %q", out.String(), body+"\n")
	}
}

func TestSurface_AlertsGoToErr(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSurface(&out, &errOut)
	s.Alert("Enter a playlist name")
	s.Failure(errors.New("connection refused"))

	if out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", out.String())
	}
	if !strings.Contains(errOut.String(), "Enter a playlist name") || !strings.Contains(errOut.String(), "connection refused") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestSurface_DeferHoldsOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSurface(&out, &errOut)

	err := s.Defer(func() error {
		s.Output("body")
		s.Alert("careful")
		if out.Len() != 0 || errOut.Len() != 0 {
			t.Error("output written before fn returned")
		}
		return errors.New("boom")
	})

	if err == nil || err.Error() != "boom" {
		t.Errorf("Defer() error = %v, want boom", err)
	}
	if out.String() != "body\n" {
		t.Errorf("stdout = %q, want body", out.String())
	}
	if !strings.Contains(errOut.String(), "careful") {
		t.Errorf("stderr = %q, want alert", errOut.String())
	}
}

func TestSurface_QuietDropsTables(t *testing.T) {
	var out, errOut bytes.Buffer
	s := NewSurface(&out, &errOut)

	err := s.Quiet(func() error {
		s.Rows(nil)
		s.Rows(tracklist.RowsOf([]tracklist.Track{{Title: "T", Artist: "A"}}))
		s.Output("body")
		return nil
	})
	if err != nil {
		t.Fatalf("Quiet() error = %v", err)
	}
	if out.String() != "body\n" {
		t.Errorf("stdout = %q, want only the body", out.String())
	}

	s.Rows(nil)
	if !strings.Contains(out.String(), "no tracks") {
		t.Errorf("Rows after Quiet = %q, want table output", out.String())
	}
}
