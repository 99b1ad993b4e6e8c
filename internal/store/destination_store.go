package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arwisata/oratorio/internal/domain"
)

type DestinationStore struct {
	db *sql.DB
}

func NewDestinationStore(db *sql.DB) *DestinationStore {
	return &DestinationStore{db: db}
}

const destinationColumns = "id, name, description, location, marker_image, mind_file, glb_model, created_at"

func scanDestination(row interface{ Scan(...any) error }) (*domain.Destination, error) {
	d := &domain.Destination{}
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.Location,
		&d.MarkerImage, &d.MindFile, &d.GLBModel, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns all destinations, newest id first.
func (s *DestinationStore) List(ctx context.Context) ([]*domain.Destination, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+destinationColumns+` FROM ar_destinations ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var destinations []*domain.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		destinations = append(destinations, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destinations: %w", err)
	}

	return destinations, nil
}

func (s *DestinationStore) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	d, err := scanDestination(s.db.QueryRowContext(ctx, `
		SELECT `+destinationColumns+` FROM ar_destinations WHERE id = ?
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("destination %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}

	return d, nil
}

// Create inserts one row. All three artifact filenames must already be
// resolved by the caller; missing-artifact validation happens at the boundary,
// not here.
func (s *DestinationStore) Create(ctx context.Context, fields domain.DestinationFields, marker, mind, model string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO ar_destinations (name, description, location, marker_image, mind_file, glb_model)
		VALUES (?, ?, ?, ?, ?, ?)
	`, fields.Name, fields.Description, fields.Location, marker, mind, model)
	if err != nil {
		return 0, fmt.Errorf("failed to create destination: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return id, nil
}

// Update executes a single SET clause covering exactly the populated options
// of upd. An empty update is a validation error; an id matching no row is
// reported as not found via the affected-row count.
func (s *DestinationStore) Update(ctx context.Context, id int64, upd domain.DestinationUpdate) error {
	var cols []string
	var args []any
	set := func(col string, v *string) {
		if v != nil {
			cols = append(cols, col+" = ?")
			args = append(args, *v)
		}
	}
	set("name", upd.Name)
	set("description", upd.Description)
	set("location", upd.Location)
	set("marker_image", upd.MarkerImage)
	set("mind_file", upd.MindFile)
	set("glb_model", upd.GLBModel)

	if len(cols) == 0 {
		return fmt.Errorf("no fields to update: %w", domain.ErrValidation)
	}
	args = append(args, id)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	result, err := tx.ExecContext(ctx,
		"UPDATE ar_destinations SET "+strings.Join(cols, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("failed to update destination: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("destination %d: %w", id, domain.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// Delete reads the row's artifact filenames, deletes the row, and returns the
// filenames so the caller can clean up the artifact store.
func (s *DestinationStore) Delete(ctx context.Context, id int64) (domain.ArtifactRefs, error) {
	var refs domain.ArtifactRefs

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return refs, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	err = tx.QueryRowContext(ctx, `
		SELECT marker_image, mind_file, glb_model FROM ar_destinations WHERE id = ?
	`, id).Scan(&refs.MarkerImage, &refs.MindFile, &refs.GLBModel)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ArtifactRefs{}, fmt.Errorf("destination %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ArtifactRefs{}, fmt.Errorf("failed to get destination artifacts: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ar_destinations WHERE id = ?`, id); err != nil {
		return domain.ArtifactRefs{}, fmt.Errorf("failed to delete destination: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return domain.ArtifactRefs{}, fmt.Errorf("failed to commit: %w", err)
	}

	return refs, nil
}

// rollback discards tx; a failed rollback after commit is expected and
// ignored.
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error("failed to roll back transaction", "error", err)
	}
}
