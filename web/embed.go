// Package web embeds the page templates and static assets of the frontend.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

func sub(dir string) fs.FS {
	s, err := fs.Sub(content, dir)
	if err != nil {
		// Only reachable if the embed directive and dir disagree.
		panic(fmt.Sprintf("embedded %s: %v", dir, err))
	}
	return s
}

// StaticFS returns the stylesheet and page script.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the HTML templates.
func TemplatesFS() fs.FS { return sub("templates") }
