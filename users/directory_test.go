package users_test

import (
	"context"
	"testing"
	"time"

	"github.com/sessionauth/go-session-core/credentials"
	"github.com/sessionauth/go-session-core/internal/autherrors"
	"github.com/sessionauth/go-session-core/kv"
	"github.com/sessionauth/go-session-core/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "a@x.com"
	testPassword = "Passw0rd!"
)

func newTestDirectory(t *testing.T) *users.Directory {
	t.Helper()

	directory, err := users.NewDirectory(kv.NewMemory(), credentials.NewHasher())
	require.NoError(t, err)
	return directory
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	user, err := directory.Create(ctx, testEmail, testPassword)
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, testEmail, user.Email)
	assert.NotEmpty(t, user.PasswordDigest)
	assert.NotContains(t, user.PasswordDigest, testPassword)
	assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Minute)
}

func TestCreateDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	_, err := directory.Create(ctx, testEmail, testPassword)
	require.NoError(t, err)

	_, err = directory.Create(ctx, testEmail, "OtherPassw0rd")
	assert.ErrorIs(t, err, autherrors.ErrDuplicateUser)

	count, err := directory.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "directory size must be unchanged after the failed call")
}

func TestEmailMatchIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	_, err := directory.Create(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// Email uniqueness is case-sensitive, as stored.
	_, err = directory.Create(ctx, "A@X.COM", testPassword)
	require.NoError(t, err)

	_, err = directory.FindByEmail(ctx, "A@X.COM")
	require.NoError(t, err)
}

func TestFindByEmail(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	created, err := directory.Create(ctx, testEmail, testPassword)
	require.NoError(t, err)

	found, err := directory.FindByEmail(ctx, testEmail)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = directory.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	created, err := directory.Create(ctx, testEmail, testPassword)
	require.NoError(t, err)

	found, err := directory.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, testEmail, found.Email)

	_, err = directory.FindByID(ctx, "missing-id")
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}

func TestUninitializedStoreIsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	count, err := directory.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = directory.FindByEmail(ctx, testEmail)
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}

func TestIdsAreUnique(t *testing.T) {
	ctx := context.Background()
	directory := newTestDirectory(t)

	first, err := directory.Create(ctx, "a@x.com", testPassword)
	require.NoError(t, err)
	second, err := directory.Create(ctx, "b@x.com", testPassword)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestDirectoryPersistsThroughStore(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	directory, err := users.NewDirectory(store, credentials.NewHasher())
	require.NoError(t, err)

	created, err := directory.Create(ctx, testEmail, testPassword)
	require.NoError(t, err)

	// A second directory over the same store sees the record.
	reopened, err := users.NewDirectory(store, credentials.NewHasher())
	require.NoError(t, err)

	found, err := reopened.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, testEmail, found.Email)
}
