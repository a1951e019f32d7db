// Package storage holds helpers shared by the picture storage backends.
package storage

import (
	"errors"
	"mime"
	"path"
	"path/filepath"
	"strings"
)

// ErrInvalidKey is returned for keys that do not name a single file.
var ErrInvalidKey = errors.New("invalid storage key")

// CleanKey reduces name to its base file name and rejects empty or dot keys.
func CleanKey(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	key := path.Base(path.Clean("/" + name))
	if key == "/" || key == "." || key == ".." || strings.TrimSpace(key) == "" {
		return "", ErrInvalidKey
	}
	return key, nil
}

// ContentType guesses the media type of key from its extension.
func ContentType(key string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(key))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
