package filestore

import (
	"fmt"
	"path"
	"strings"

	"github.com/arwisata/oratorio/internal/domain"
)

// Sanitize normalizes a client-declared filename into a safe flat name:
// path components from either separator convention are stripped, every byte
// outside [A-Za-z0-9._-] becomes an underscore, and leading/trailing dots,
// underscores and dashes are trimmed. The extension survives sanitization.
func Sanitize(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	out := strings.Trim(b.String(), "._-")
	if out == "" {
		return "", fmt.Errorf("unusable filename %q: %w", name, domain.ErrValidation)
	}
	return out, nil
}
