package util

import (
	"io/fs"
	"os"
	"path/filepath"
)

// InitDir creates the parent directory of path with the given mode.
func InitDir(path string, mode fs.FileMode) error {
	expanded := os.ExpandEnv(path)
	return os.MkdirAll(filepath.Dir(expanded), mode)
}
