package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/arwisata/oratorio/internal/domain"
	"github.com/arwisata/oratorio/internal/filestore"
)

// destinationRepository is the subset of store.DestinationStore that
// DestinationService requires.
type destinationRepository interface {
	List(ctx context.Context) ([]*domain.Destination, error)
	GetByID(ctx context.Context, id int64) (*domain.Destination, error)
	Create(ctx context.Context, fields domain.DestinationFields, marker, mind, model string) (int64, error)
	Update(ctx context.Context, id int64, upd domain.DestinationUpdate) error
	Delete(ctx context.Context, id int64) (domain.ArtifactRefs, error)
}

// Upload is one inbound artifact: the client-declared filename plus its bytes.
type Upload struct {
	Filename string
	Data     io.Reader
}

// CreateInput carries the scalar fields and the three required artifacts of a
// new destination.
type CreateInput struct {
	Fields domain.DestinationFields
	Marker *Upload
	Mind   *Upload
	Model  *Upload
}

// UpdateInput is a partial update request. Nil members are left untouched,
// both in the row and in the artifact store.
type UpdateInput struct {
	Name        *string
	Description *string
	Location    *string
	Marker      *Upload
	Mind        *Upload
	Model       *Upload
}

// DestinationService sequences artifact-store writes and row writes so the
// row never references a filename that was not actually persisted.
type DestinationService struct {
	destinations destinationRepository
	files        filestore.Store
	logger       *slog.Logger
}

func NewDestinationService(destinations destinationRepository, files filestore.Store, logger *slog.Logger) *DestinationService {
	return &DestinationService{
		destinations: destinations,
		files:        files,
		logger:       logger,
	}
}

func (s *DestinationService) List(ctx context.Context) ([]*domain.Destination, error) {
	return s.destinations.List(ctx)
}

func (s *DestinationService) Get(ctx context.Context, id int64) (*domain.Destination, error) {
	return s.destinations.GetByID(ctx, id)
}

// Create stores the three artifacts and inserts the row. The presence check
// runs before any byte is written, so a rejected request leaves no partial
// state behind. Files written before a failed insert are not removed; they
// accumulate as orphans until swept out of band.
func (s *DestinationService) Create(ctx context.Context, in CreateInput) (int64, error) {
	if in.Marker == nil || in.Mind == nil || in.Model == nil {
		return 0, fmt.Errorf("files marker, mind and model are required: %w", domain.ErrValidation)
	}
	s.warnExt(in.Marker.Filename, filestore.ImageExts, "marker")
	s.warnExt(in.Mind.Filename, filestore.MindExts, "mind")
	s.warnExt(in.Model.Filename, filestore.ModelExts, "model")

	marker, err := s.files.Save(ctx, in.Marker.Filename, in.Marker.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to save marker: %w", err)
	}
	mind, err := s.files.Save(ctx, in.Mind.Filename, in.Mind.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to save mind file: %w", err)
	}
	model, err := s.files.Save(ctx, in.Model.Filename, in.Model.Data)
	if err != nil {
		return 0, fmt.Errorf("failed to save model: %w", err)
	}

	id, err := s.destinations.Create(ctx, in.Fields, marker, mind, model)
	if err != nil {
		return 0, err
	}

	s.logger.Info("destination created", "id", id,
		"marker", marker, "mind", mind, "model", model)
	return id, nil
}

// Update stores any artifact present in the request, then applies one partial
// row update covering the supplied attributes. A replaced artifact's previous
// file stays in the store.
func (s *DestinationService) Update(ctx context.Context, id int64, in UpdateInput) error {
	upd := domain.DestinationUpdate{
		Name:        in.Name,
		Description: in.Description,
		Location:    in.Location,
	}

	if in.Marker != nil {
		s.warnExt(in.Marker.Filename, filestore.ImageExts, "marker")
		name, err := s.files.Save(ctx, in.Marker.Filename, in.Marker.Data)
		if err != nil {
			return fmt.Errorf("failed to save marker: %w", err)
		}
		upd.MarkerImage = &name
	}
	if in.Mind != nil {
		s.warnExt(in.Mind.Filename, filestore.MindExts, "mind")
		name, err := s.files.Save(ctx, in.Mind.Filename, in.Mind.Data)
		if err != nil {
			return fmt.Errorf("failed to save mind file: %w", err)
		}
		upd.MindFile = &name
	}
	if in.Model != nil {
		s.warnExt(in.Model.Filename, filestore.ModelExts, "model")
		name, err := s.files.Save(ctx, in.Model.Filename, in.Model.Data)
		if err != nil {
			return fmt.Errorf("failed to save model: %w", err)
		}
		upd.GLBModel = &name
	}

	if err := s.destinations.Update(ctx, id, upd); err != nil {
		return err
	}

	s.logger.Info("destination updated", "id", id)
	return nil
}

// Delete removes the row, then attempts to remove each artifact the row
// referenced. Removal failures are logged and swallowed: the row deletion has
// already committed and stays deleted.
func (s *DestinationService) Delete(ctx context.Context, id int64) error {
	refs, err := s.destinations.Delete(ctx, id)
	if err != nil {
		return err
	}

	for _, name := range []*string{refs.MarkerImage, refs.MindFile, refs.GLBModel} {
		if name == nil {
			continue
		}
		if err := s.files.Remove(ctx, *name); err != nil {
			s.logger.Error("failed to remove artifact", "id", id, "file", *name, "error", err)
		}
	}

	s.logger.Info("destination deleted", "id", id)
	return nil
}

// warnExt logs when an upload's extension falls outside the declared
// allow-list for its slot. The upload is stored regardless.
func (s *DestinationService) warnExt(filename string, allowed map[string]bool, slot string) {
	if !filestore.AllowedExt(filename, allowed) {
		s.logger.Warn("unexpected artifact extension", "slot", slot, "filename", filename)
	}
}
