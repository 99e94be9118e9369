package ioutils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidFileChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots     = regexp.MustCompile(`\.+$`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// WriteFile writes data to path atomically: the bytes go to a temporary file
// in the same directory which then replaces path.
//
// The file is created with mode 0644. A reader never observes a partially
// written file.
//
// Example:
//
//	err := WriteFile("/home/me/albums.json", data)
func WriteFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// SanitizeFileName makes name safe to use as a single file name.
//
// Invalid characters (<>:"/\|?* and control chars) become underscores,
// trailing dots are removed, and whitespace runs collapse to one space.
// An empty result becomes "untitled".
//
// Example:
//
//	SanitizeFileName("AC/DC: Live") // "AC_DC_ Live"
func SanitizeFileName(name string) string {
	name = invalidFileChars.ReplaceAllString(name, "_")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	name = trailingDots.ReplaceAllString(name, "")
	if name == "" {
		return "untitled"
	}
	return name
}
