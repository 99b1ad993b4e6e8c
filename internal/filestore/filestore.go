package filestore

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Store persists destination artifacts as flat files keyed by their sanitized
// declared filename. Save overwrites an existing file of the same name.
type Store interface {
	Save(ctx context.Context, declaredName string, r io.Reader) (storedName string, err error)
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	Remove(ctx context.Context, storedName string) error
}

// Declared extension allow-lists per artifact kind. These are advisory:
// uploads with other extensions are stored anyway, callers only log the
// mismatch.
var (
	ModelExts = map[string]bool{".glb": true}
	ImageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true}
	MindExts  = map[string]bool{".mind": true}
)

// AllowedExt reports whether name carries one of the allowed extensions.
func AllowedExt(name string, allowed map[string]bool) bool {
	return allowed[strings.ToLower(filepath.Ext(name))]
}
