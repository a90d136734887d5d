// Command playlist-editor builds playlists from a list of tracks and submits
// them to the playlists API, either through a browser UI or the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/justestif/go-playlist-editor/internal/playlists"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "playlist-editor",
		Usage: "assemble a list of tracks and submit it as a playlist",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "base URL of the playlists API",
				Value:   playlists.DefaultBaseURL,
				EnvVars: []string{"PLAYLISTS_API_URL"},
			},
			&cli.StringFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "user id sent as X-User-Id",
				EnvVars: []string{"PLAYLISTS_USER_ID"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			createCommand(),
			listCommand(),
			showCommand(),
			deleteCommand(),
			healthCommand(),
		},
	}
}

// apiClient builds a playlists client from the global flags.
func apiClient(c *cli.Context) (*playlists.Client, error) {
	cfg := &playlists.Config{BaseURL: c.String("api-url")}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %q", err, cfg.BaseURL)
	}
	return playlists.NewClient(cfg), nil
}
