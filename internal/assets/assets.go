// Package assets holds files compiled into the binaries.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed web/index.html
var preview embed.FS

// WebUI serves the preview page at its root.
var WebUI = mustSub(preview, "web")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
