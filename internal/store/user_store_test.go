package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arwisata/oratorio/internal/domain"
)

func TestUserStoreCreateAndGetByEmail(t *testing.T) {
	d := openTestDB(t)
	t.Cleanup(func() { _ = d.Close() })

	store := NewUserStore(d)
	ctx := context.Background()

	created, err := store.Create(ctx, "Yoga", "yoga@example.com", "hashed", "user")
	require.NoError(t, err)
	assert.Positive(t, created.UserID)
	assert.Equal(t, "user", created.Role)

	got, err := store.GetByEmail(ctx, "yoga@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, got.UserID)
	assert.Equal(t, "Yoga", got.Name)
	assert.Equal(t, "hashed", got.Password)
}

func TestUserStoreGetByEmailNotFound(t *testing.T) {
	d := openTestDB(t)
	t.Cleanup(func() { _ = d.Close() })

	store := NewUserStore(d)

	_, err := store.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStoreDuplicateEmail(t *testing.T) {
	d := openTestDB(t)
	t.Cleanup(func() { _ = d.Close() })

	store := NewUserStore(d)
	ctx := context.Background()

	_, err := store.Create(ctx, "Yoga", "yoga@example.com", "hashed", "user")
	require.NoError(t, err)

	_, err = store.Create(ctx, "Other", "yoga@example.com", "hashed2", "user")
	assert.Error(t, err)
}
