// Package web embeds the rendered views and their assets so the server ships
// as a single binary.
package web

import "embed"

// TemplatesFS holds the page templates and HTMX partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and client-side glue script.
//
//go:embed static/*
var StaticFS embed.FS
