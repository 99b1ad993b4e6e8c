package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/arwisata/oratorio/internal/domain"
	"github.com/arwisata/oratorio/internal/filestore"
	"github.com/arwisata/oratorio/internal/filestore/local"
	"github.com/arwisata/oratorio/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := sql.Open("sqlite", "file::memory:?cache=shared&mode=rwc&_journal_mode=WAL&_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	_, err = d.Exec(`
		CREATE TABLE ar_destinations (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL DEFAULT '',
			description  TEXT NOT NULL DEFAULT '',
			location     TEXT NOT NULL DEFAULT '',
			marker_image TEXT,
			mind_file    TEXT,
			glb_model    TEXT,
			created_at   DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE users (
			user_id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL DEFAULT '',
			email      TEXT NOT NULL UNIQUE,
			password   TEXT NOT NULL,
			role       TEXT NOT NULL DEFAULT 'user',
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);
	`)
	require.NoError(t, err)

	return d
}

func newTestDestinationService(t *testing.T) (*DestinationService, string) {
	t.Helper()
	uploadDir := t.TempDir()
	files, err := local.NewLocalStore(uploadDir)
	require.NoError(t, err)

	svc := NewDestinationService(store.NewDestinationStore(openTestDB(t)), files, testLogger())
	return svc, uploadDir
}

func upload(name, content string) *Upload {
	return &Upload{Filename: name, Data: strings.NewReader(content)}
}

func fullCreateInput() CreateInput {
	return CreateInput{
		Fields: domain.DestinationFields{Name: "Candi X", Description: "desc", Location: "Solo"},
		Marker: upload("marker.png", "marker bytes"),
		Mind:   upload("targets.mind", "mind bytes"),
		Model:  upload("scene.glb", "glb bytes"),
	}
}

func TestDestinationServiceCreate(t *testing.T) {
	svc, uploadDir := newTestDestinationService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Candi X", got.Name)

	for _, ref := range []*string{got.MarkerImage, got.MindFile, got.GLBModel} {
		require.NotNil(t, ref)
		assert.FileExists(t, uploadDir+string(os.PathSeparator)+*ref)
	}
}

func TestDestinationServiceCreateMissingArtifact(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"no marker", func(in *CreateInput) { in.Marker = nil }},
		{"no mind", func(in *CreateInput) { in.Mind = nil }},
		{"no model", func(in *CreateInput) { in.Model = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, uploadDir := newTestDestinationService(t)
			ctx := context.Background()

			in := fullCreateInput()
			tc.mutate(&in)

			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrValidation)

			// No partial side effects: no row, no file.
			destinations, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, destinations)

			entries, err := os.ReadDir(uploadDir)
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestDestinationServiceUpdateScalarOnly(t *testing.T) {
	svc, _ := newTestDestinationService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)
	before, err := svc.Get(ctx, id)
	require.NoError(t, err)

	location := "Yogyakarta"
	err = svc.Update(ctx, id, UpdateInput{Location: &location})
	require.NoError(t, err)

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Yogyakarta", after.Location)
	assert.Equal(t, before.Name, after.Name)
	assert.Equal(t, *before.MarkerImage, *after.MarkerImage)
	assert.Equal(t, *before.MindFile, *after.MindFile)
	assert.Equal(t, *before.GLBModel, *after.GLBModel)
}

func TestDestinationServiceUpdateArtifactSlot(t *testing.T) {
	svc, uploadDir := newTestDestinationService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)

	err = svc.Update(ctx, id, UpdateInput{Marker: upload("marker_v2.png", "new marker")})
	require.NoError(t, err)

	after, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "marker_v2.png", *after.MarkerImage)
	assert.Equal(t, "targets.mind", *after.MindFile)
	assert.FileExists(t, uploadDir+string(os.PathSeparator)+"marker_v2.png")
	// The replaced file is left behind on purpose.
	assert.FileExists(t, uploadDir+string(os.PathSeparator)+"marker.png")
}

func TestDestinationServiceUpdateEmpty(t *testing.T) {
	svc, _ := newTestDestinationService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)

	err = svc.Update(ctx, id, UpdateInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDestinationServiceUpdateNotFound(t *testing.T) {
	svc, _ := newTestDestinationService(t)

	name := "Ghost"
	err := svc.Update(context.Background(), 404, UpdateInput{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDestinationServiceDeleteCleansUpArtifacts(t *testing.T) {
	svc, uploadDir := newTestDestinationService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, id)
	require.NoError(t, err)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDestinationServiceDeleteSurvivesMissingFiles(t *testing.T) {
	svc, uploadDir := newTestDestinationService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)

	// Remove one artifact behind the service's back; cleanup failures are
	// swallowed and the row deletion still succeeds.
	require.NoError(t, os.Remove(uploadDir+string(os.PathSeparator)+"scene.glb"))

	err = svc.Delete(ctx, id)
	require.NoError(t, err)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// trackingStore counts removal attempts so tests can assert cleanup behavior.
type trackingStore struct {
	filestore.Store
	removed []string
}

func (s *trackingStore) Remove(ctx context.Context, storedName string) error {
	s.removed = append(s.removed, storedName)
	return s.Store.Remove(ctx, storedName)
}

func TestDestinationServiceDeleteNotFoundSkipsCleanup(t *testing.T) {
	files, err := local.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	tracking := &trackingStore{Store: files}

	svc := NewDestinationService(store.NewDestinationStore(openTestDB(t)), tracking, testLogger())

	err = svc.Delete(context.Background(), 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, tracking.removed)
}

func TestDestinationServiceDeleteRemovesExactlyStoredNames(t *testing.T) {
	files, err := local.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	tracking := &trackingStore{Store: files}

	svc := NewDestinationService(store.NewDestinationStore(openTestDB(t)), tracking, testLogger())
	ctx := context.Background()

	id, err := svc.Create(ctx, fullCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ElementsMatch(t, []string{"marker.png", "targets.mind", "scene.glb"}, tracking.removed)
}

func TestDestinationServiceListEmpty(t *testing.T) {
	svc, _ := newTestDestinationService(t)

	destinations, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, destinations)
}

func TestDestinationServiceCreateSanitizesFilenames(t *testing.T) {
	svc, uploadDir := newTestDestinationService(t)
	ctx := context.Background()

	in := fullCreateInput()
	in.Marker = upload("../../my marker.png", "bytes")

	id, err := svc.Create(ctx, in)
	require.NoError(t, err)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "my_marker.png", *got.MarkerImage)
	assert.FileExists(t, fmt.Sprintf("%s%cmy_marker.png", uploadDir, os.PathSeparator))
}
