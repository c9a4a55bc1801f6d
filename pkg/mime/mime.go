// Package mime classifies files by extension.
package mime

import (
	"path"
	"strings"
)

const (
	Default = "application/octet-stream"
)

var types = map[string]string{
	"html": "text/html",
	"htm":  "text/html",
	"css":  "text/css",
	"js":   "application/javascript",
	"json": "application/json",
	"txt":  "text/plain",
	"xml":  "application/xml",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"gif":  "image/gif",
	"png":  "image/png",
	"svg":  "image/svg+xml",
	"ico":  "image/x-icon",
	"webp": "image/webp",
	"pdf":  "application/pdf",
	"mp4":  "video/mp4",
	"wasm": "application/wasm",
}

// TypeOf returns the content type for name, Default when the extension is unknown.
func TypeOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if t, ok := types[ext]; ok {
		return t
	}
	return Default
}
