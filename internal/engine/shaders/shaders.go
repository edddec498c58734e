// Package shaders embeds the engine's default GLSL programs.
package shaders

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed *.vert *.frag
var files embed.FS

// Default program names.
const (
	MainVertex   = "main.vert"
	MainPixel    = "main.frag"
	ShadowVertex = "shadow.vert"
	SkyVertex    = "sky.vert"
	SkyPixel     = "sky.frag"
)

// FS exposes the embedded sources.
func FS() fs.FS {
	return files
}

// Source returns an embedded program source by file name.
func Source(name string) (string, error) {
	data, err := files.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("shader %s: %w", name, err)
	}
	return string(data), nil
}
