// Package sources loads attendance periods and master rosters from CSV and
// YAML files.
package sources

import (
	"io/fs"
	"os"
	"path/filepath"
)

// FileReader abstracts where source files are read from.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// FilesystemReader reads files relative to BasePath. An empty BasePath
// reads paths as given.
type FilesystemReader struct {
	BasePath string
}

// ReadFile implements FileReader.
func (f *FilesystemReader) ReadFile(path string) ([]byte, error) {
	if f.BasePath != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.BasePath, path)
	}
	return os.ReadFile(path)
}

// FSReader reads files from an fs.FS such as an embed.FS.
type FSReader struct {
	FS fs.FS
}

// ReadFile implements FileReader.
func (f *FSReader) ReadFile(path string) ([]byte, error) {
	return fs.ReadFile(f.FS, filepath.ToSlash(path))
}
