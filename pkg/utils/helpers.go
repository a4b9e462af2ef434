package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

// ListDir returns a list of files/ directories in given path
func ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "ListDir: could not read '%s'", path)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}

	return names, nil
}

// TrimExt returns given file name without its extension ("match.mp4" -> "match")
func TrimExt(name string) string {
	return strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
}

// EnsureDir creates given directory (and parents) if it does not exist yet
func EnsureDir(path string) error {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrapf(err, "EnsureDir: could not stat '%s'", path)
		}
		if err := os.MkdirAll(path, 0766); err != nil {
			return errors.Wrapf(err, "EnsureDir: could not create '%s'", path)
		}
	}

	return nil
}
