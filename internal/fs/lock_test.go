//go:build unix || windows

package fs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLock_Exclusive(t *testing.T) {
	name := filepath.Join(t.TempDir(), "cache.lock")

	l1, err := Default.Lock(name)
	require.NoError(t, err)

	_, err = Default.Lock(name)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, l1.Close())
	assert.NoError(t, l1.Close(), "Close must be idempotent")

	l2, err := Default.Lock(name)
	require.NoError(t, err)
	assert.NoError(t, l2.Close())
}
