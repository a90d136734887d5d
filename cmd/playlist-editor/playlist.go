package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"

	"github.com/justestif/go-playlist-editor/internal/editor"
	"github.com/justestif/go-playlist-editor/internal/playlists"
	"github.com/justestif/go-playlist-editor/internal/term"
	"github.com/justestif/go-playlist-editor/internal/tracklist"
)

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create a playlist from tracks",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "playlist name"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "playlist description"},
			&cli.BoolFlag{Name: "public", Usage: "make the playlist public"},
			&cli.StringSliceFlag{
				Name:    "track",
				Aliases: []string{"t"},
				Usage:   `track as "title|artist|duration|url" (duration and url optional), repeatable`,
			},
			&cli.BoolFlag{Name: "interactive", Aliases: []string{"i"}, Usage: "enter tracks with a form"},
		},
		Action: runCreate,
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show the playlists visible to the user",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "summary", Aliases: []string{"s"}, Usage: "print one line per playlist instead of the raw body"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("summary") {
				return listSummary(c)
			}

			ed, surface, err := newEditor(c)
			if err != nil {
				return err
			}
			return withSpinner(c, surface, "Loading playlists...", func(ctx context.Context) error {
				resp, err := ed.LoadPlaylists(ctx)
				return statusError(resp, err)
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "show one playlist",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "summary", Aliases: []string{"s"}, Usage: "print the playlist and its tracks instead of the raw body"},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("summary") {
				return showSummary(c)
			}

			ed, surface, err := newEditor(c)
			if err != nil {
				return err
			}
			return withSpinner(c, surface, "Fetching playlist...", func(ctx context.Context) error {
				resp, err := ed.ShowPlaylist(ctx, c.Args().First())
				return statusError(resp, err)
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a playlist owned by the user",
		ArgsUsage: "ID",
		Action: func(c *cli.Context) error {
			ed, surface, err := newEditor(c)
			if err != nil {
				return err
			}
			return withSpinner(c, surface, "Deleting playlist...", func(ctx context.Context) error {
				resp, err := ed.DeletePlaylist(ctx, c.Args().First())
				return statusError(resp, err)
			})
		},
	}
}

func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "check that the playlists API is up",
		Action: func(c *cli.Context) error {
			client, err := apiClient(c)
			if err != nil {
				return err
			}
			resp, err := client.Health(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, resp.Body)
			return statusError(resp, nil)
		},
	}
}

func runCreate(c *cli.Context) error {
	ed, surface, err := newEditor(c)
	if err != nil {
		return err
	}

	name := c.String("name")

	// Tracks are drawn once, right before submitting.
	err = surface.Quiet(func() error {
		for _, raw := range c.StringSlice("track") {
			in := parseTrackFlag(raw)
			if _, err := ed.AddTrack(in.Title, in.Artist, in.DurationRaw, in.ExternalURL); err != nil {
				return fmt.Errorf("track %q: %w", raw, err)
			}
		}

		if c.Bool("interactive") {
			if err := promptTracks(ed); err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				return huh.NewInput().Title("Playlist name").Value(&name).Run()
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	ed.Render()

	form := editor.PlaylistForm{
		Name:        name,
		Description: c.String("description"),
		IsPublic:    c.Bool("public"),
	}
	return surface.Quiet(func() error {
		return withSpinner(c, surface, "Creating playlist...", func(ctx context.Context) error {
			resp, err := ed.SubmitPlaylist(ctx, form)
			return statusError(resp, err)
		})
	})
}

// promptTracks asks for tracks until the user declines to add another.
func promptTracks(ed *editor.Editor) error {
	for {
		var in tracklist.Input
		more := true

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Title").Value(&in.Title).Validate(required("title")),
				huh.NewInput().Title("Artist").Value(&in.Artist).Validate(required("artist")),
				huh.NewInput().Title("Duration (seconds, optional)").Value(&in.DurationRaw).Validate(optionalDuration),
				huh.NewInput().Title("External URL (optional)").Value(&in.ExternalURL),
				huh.NewConfirm().Title("Add another track?").Value(&more),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		if _, err := ed.AddTrack(in.Title, in.Artist, in.DurationRaw, in.ExternalURL); err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func optionalDuration(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	_, err := tracklist.ParseDuration(s)
	return err
}

// newEditor builds an editor that draws to the terminal.
func newEditor(c *cli.Context) (*editor.Editor, *term.Surface, error) {
	client, err := apiClient(c)
	if err != nil {
		return nil, nil, err
	}
	surface := term.NewSurface(c.App.Writer, c.App.ErrWriter)
	ed := editor.New(client, surface)
	ed.SetUserID(c.String("user"))
	return ed, surface, nil
}

// parseTrackFlag splits "title|artist|duration|url". Missing parts are empty.
func parseTrackFlag(raw string) tracklist.Input {
	parts := strings.SplitN(raw, "|", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}
	return tracklist.Input{
		Title:       parts[0],
		Artist:      parts[1],
		DurationRaw: parts[2],
		ExternalURL: parts[3],
	}
}

// withSpinner runs fn behind a spinner when writing to a terminal. Editor
// output is held back until the spinner has stopped.
func withSpinner(c *cli.Context, surface *term.Surface, title string, fn func(context.Context) error) error {
	return surface.Defer(func() error {
		if !isTerminal(c.App.Writer) {
			return fn(c.Context)
		}
		return spinner.New().Title(title).Context(c.Context).ActionWithErr(fn).Run()
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// statusError turns a non-2xx response into an exit error so scripts can
// detect it. The body has already been printed.
func statusError(resp *playlists.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.OK() {
		return cli.Exit(fmt.Sprintf("playlists API returned status %d", resp.StatusCode), 1)
	}
	return nil
}

// listSummary prints one line per playlist instead of the raw body.
func listSummary(c *cli.Context) error {
	client, err := apiClient(c)
	if err != nil {
		return err
	}
	resp, err := client.List(c.Context, c.String("user"))
	if err != nil {
		return err
	}

	w := c.App.Writer
	if !resp.OK() {
		fmt.Fprintln(w, resp.Body)
		return statusError(resp, nil)
	}

	list, err := playlists.DecodePlaylists(resp.Body)
	if err != nil {
		return err
	}
	for _, p := range list {
		visibility := "private"
		if p.IsPublic {
			visibility = "public"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d tracks\n", p.ID, p.Name, visibility, len(p.Tracks))
	}
	return nil
}

// showSummary prints a playlist header followed by one line per track.
func showSummary(c *cli.Context) error {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return cli.Exit("Enter a playlist id", 1)
	}

	client, err := apiClient(c)
	if err != nil {
		return err
	}
	resp, err := client.Get(c.Context, c.String("user"), id)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if !resp.OK() {
		fmt.Fprintln(w, resp.Body)
		return statusError(resp, nil)
	}

	p, err := playlists.DecodePlaylist(resp.Body)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s (%s)\n", p.Name, p.ID)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintln(w, *p.Description)
	}
	for i, t := range p.Tracks {
		fmt.Fprintf(w, "%d. %s\n", i+1, t)
	}
	return nil
}
