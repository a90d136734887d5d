// Package web provides embedded static assets and templates for the playlist editor UI.
package web

import "embed"

// TemplatesFS contains the embedded HTML templates.
//
//go:embed all:templates
var TemplatesFS embed.FS

// StaticFS contains the embedded static assets (CSS).
//
//go:embed all:static
var StaticFS embed.FS
