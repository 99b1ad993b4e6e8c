package web

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	http.StripPrefix("/assets/", http.FileServer(http.Dir(s.assetsDir))).ServeHTTP(w, r)
}

// handleUploadedArtifact streams a stored artifact back to the client. The
// filestore rejects traversal outside the upload directory.
func (s *Server) handleUploadedArtifact(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")

	reader, err := s.files.Open(r.Context(), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "artifact reader", s.logger)

	w.Header().Set("Content-Type", artifactMIME(name))
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write artifact failed", "file", name, "error", err)
	}
}

// artifactMIME resolves the content type for the artifact kinds this catalog
// stores; .glb and .mind are not in the stdlib mime table.
func artifactMIME(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".glb":
		return "model/gltf-binary"
	case ".mind":
		return "application/octet-stream"
	default:
		if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
			return t
		}
		return "application/octet-stream"
	}
}
