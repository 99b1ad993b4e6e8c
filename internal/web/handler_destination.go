package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/arwisata/oratorio/internal/domain"
	"github.com/arwisata/oratorio/internal/service"
)

const maxUploadSize = 100 * 1024 * 1024 // 100 MB across all three artifacts

func (s *Server) handleListDestinations(w http.ResponseWriter, r *http.Request) {
	destinations, err := s.destinations.List(r.Context())
	if err != nil {
		s.logger.Error("list destinations failed", "error", err)
		s.writeError(w, err)
		return
	}
	if destinations == nil {
		destinations = []*domain.Destination{}
	}
	s.writeJSON(w, http.StatusOK, destinations)
}

func (s *Server) handleGetDestination(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	destination, err := s.destinations.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, destination)
}

func (s *Server) handleCreateDestination(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		s.writeError(w, fmt.Errorf("failed to parse form: %w", domain.ErrValidation))
		return
	}

	in := service.CreateInput{
		Fields: domain.DestinationFields{
			Name:        r.FormValue("name"),
			Description: r.FormValue("description"),
			Location:    r.FormValue("location"),
		},
	}
	for _, slot := range []struct {
		key string
		dst **service.Upload
	}{
		{"marker", &in.Marker},
		{"mind", &in.Mind},
		{"model", &in.Model},
	} {
		upload, closer, err := formUpload(r, slot.key)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if closer != nil {
			defer closeWithLog(closer, slot.key, s.logger)
		}
		*slot.dst = upload
	}

	id, err := s.destinations.Create(r.Context(), in)
	if err != nil {
		s.logger.Error("create destination failed", "error", err)
		s.writeError(w, err)
		return
	}
	s.writeOK(w, http.StatusCreated, "Created", map[string]any{"id": id})
}

func (s *Server) handleUpdateDestination(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var in service.UpdateInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var closers []io.Closer
		in, closers, err = parseMultipartUpdate(r)
		for _, c := range closers {
			defer closeWithLog(c, "update upload", s.logger)
		}
		if err != nil {
			s.writeError(w, err)
			return
		}
	} else {
		// JSON bodies may only touch the scalar fields, never artifacts.
		var body struct {
			Name        *string `json:"name"`
			Description *string `json:"description"`
			Location    *string `json:"location"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.writeError(w, fmt.Errorf("failed to parse request body: %w", domain.ErrValidation))
			return
		}
		in.Name = body.Name
		in.Description = body.Description
		in.Location = body.Location
	}

	if err := s.destinations.Update(r.Context(), id, in); err != nil {
		s.logger.Error("update destination failed", "id", id, "error", err)
		s.writeError(w, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Updated", nil)
}

func (s *Server) handleDeleteDestination(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.destinations.Delete(r.Context(), id); err != nil {
		s.logger.Error("delete destination failed", "id", id, "error", err)
		s.writeError(w, err)
		return
	}
	s.writeOK(w, http.StatusOK, "Deleted", nil)
}

// parseMultipartUpdate builds an UpdateInput from a multipart form. A scalar
// field participates only when the form carries its key; an artifact slot
// participates only when a file part is present. The caller must close the
// returned closers.
func parseMultipartUpdate(r *http.Request) (service.UpdateInput, []io.Closer, error) {
	var in service.UpdateInput
	var closers []io.Closer

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return in, closers, fmt.Errorf("failed to parse form: %w", domain.ErrValidation)
	}

	field := func(key string) *string {
		if vs, ok := r.MultipartForm.Value[key]; ok && len(vs) > 0 {
			return &vs[0]
		}
		return nil
	}
	in.Name = field("name")
	in.Description = field("description")
	in.Location = field("location")

	for _, slot := range []struct {
		key string
		dst **service.Upload
	}{
		{"marker", &in.Marker},
		{"mind", &in.Mind},
		{"model", &in.Model},
	} {
		upload, closer, err := formUpload(r, slot.key)
		if err != nil {
			return in, closers, err
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		*slot.dst = upload
	}

	return in, closers, nil
}

// formUpload opens the first file part under key, or returns a nil upload
// when the slot is absent from the request.
func formUpload(r *http.Request, key string) (*service.Upload, io.Closer, error) {
	if r.MultipartForm == nil {
		return nil, nil, nil
	}
	fhs := r.MultipartForm.File[key]
	if len(fhs) == 0 {
		return nil, nil, nil
	}
	f, err := fhs[0].Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s upload: %w", key, err)
	}
	return &service.Upload{Filename: fhs[0].Filename, Data: f}, f, nil
}

// parseID extracts the {id} URL param as int64.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid destination id: %w", domain.ErrValidation)
	}
	return id, nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
