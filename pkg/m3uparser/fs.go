package m3uparser

import (
	"io"
	"os"
)

// FileSystem is the access the parser needs to read playlist files.
type FileSystem interface {
	IsRegularFile(path string) bool
	Open(path string) (io.ReadCloser, error)
}

// OSFileSystem reads from the local disk.
type OSFileSystem struct{}

func (OSFileSystem) IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (OSFileSystem) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}
