package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceLocks_TryLockIsExclusive(t *testing.T) {
	locks := NewPlaceLocks()
	ctx := context.Background()

	token, ok, err := locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, token)

	_, ok, err = locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second lock on the same key must fail")

	_, ok, err = locks.TryLock(ctx, "place-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "other keys are independent")
}

func TestPlaceLocks_UnlockReleases(t *testing.T) {
	locks := NewPlaceLocks()
	ctx := context.Background()

	token, _, _ := locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, locks.Unlock(ctx, "place-1", token))

	_, ok, err := locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPlaceLocks_ExpiredLockCanBeTaken(t *testing.T) {
	locks := NewPlaceLocks()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	locks.now = func() time.Time { return now }
	ctx := context.Background()

	_, _, _ = locks.TryLock(ctx, "place-1", time.Second)
	now = now.Add(2 * time.Second)

	_, ok, err := locks.TryLock(ctx, "place-1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, locks.Len())
}

func TestPlaceLocks_StaleUnlockKeepsNewerHolder(t *testing.T) {
	locks := NewPlaceLocks()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	locks.now = func() time.Time { return now }
	ctx := context.Background()

	first, ok, err := locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(2 * time.Minute)
	second, ok, err := locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, first, second)

	// The first holder finishes late and releases with its old token.
	require.NoError(t, locks.Unlock(ctx, "place-1", first))

	_, ok, err = locks.TryLock(ctx, "place-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "the second holder must still own the lock")

	require.NoError(t, locks.Unlock(ctx, "place-1", second))
	assert.Zero(t, locks.Len())
}
