package web

import (
	"embed"
	"errors"
	"io/fs"
	"os"
)

//go:embed all:dist
var distDir embed.FS

// DistFS is the embedded default bundle, served when the asset directory lacks a file
var DistFS fs.FS

func init() {
	// Strip the "dist" prefix to serve files directly
	DistFS, _ = fs.Sub(distDir, "dist")
}

// layeredFS opens a name from the first filesystem that has it
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	err := error(&fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist})
	for _, fsys := range l {
		f, openErr := fsys.Open(name)
		if openErr == nil {
			return f, nil
		}
		if !errors.Is(openErr, fs.ErrNotExist) {
			err = openErr
		}
	}
	return nil, err
}

// Assets returns the asset filesystem: files in dir take precedence over the embedded bundle
func Assets(dir string) fs.FS {
	return layeredFS{os.DirFS(dir), DistFS}
}
