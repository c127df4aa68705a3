package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRunLock(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	acquired, err := lock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = lock.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, lock.Unlock(ctx))

	acquired, err = lock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestInMemoryRunLock_UnlockIdempotent(t *testing.T) {
	lock := NewInMemoryRunLock()
	ctx := context.Background()

	require.NoError(t, lock.Unlock(ctx))
	acquired, err := lock.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, acquired)
}
