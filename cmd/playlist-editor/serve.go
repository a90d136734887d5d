package main

import (
	"fmt"
	"io/fs"
	"log"

	"github.com/urfave/cli/v2"

	"github.com/justestif/go-playlist-editor/internal/db"
	"github.com/justestif/go-playlist-editor/internal/web"
	webfs "github.com/justestif/go-playlist-editor/web"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the browser UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address",
				Value:   web.DefaultAddr,
				EnvVars: []string{"ADDR"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "PostgreSQL URL for persistent sessions (optional)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Action: runServe,
	}
}

func runServe(c *cli.Context) error {
	client, err := apiClient(c)
	if err != nil {
		return err
	}

	var sessions web.SessionManager
	if url := c.String("database-url"); url != "" {
		database, err := db.New(c.Context, url)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(c.Context); err != nil {
			return err
		}
		sessions = web.NewDBSessionStore(database, client)
		log.Println("Using PostgreSQL session store")
	} else {
		sessions = web.NewSessionStore(client)
	}

	// Create sub-filesystems for templates and static files
	templates, err := fs.Sub(webfs.TemplatesFS, "templates")
	if err != nil {
		return fmt.Errorf("creating templates filesystem: %w", err)
	}

	static, err := fs.Sub(webfs.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("creating static filesystem: %w", err)
	}

	server, err := web.NewServer(web.ServerConfig{
		Addr:        c.String("addr"),
		Sessions:    sessions,
		TemplatesFS: templates,
		StaticFS:    static,
	})
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	log.Printf("Playlists API: %s", client.BaseURL())
	return server.Run()
}
