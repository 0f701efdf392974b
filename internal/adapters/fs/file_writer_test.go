package fs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWriterAdapter(t *testing.T) {
	ctx := context.Background()
	w := NewFileWriterAdapter()
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	path := filepath.Join(dir, "vault.toml")

	exists, err := w.FileExists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, w.EnsureDirectory(ctx, dir))
	require.NoError(t, w.WriteFile(ctx, path, "[service]\n"))

	exists, err = w.FileExists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	content, err := w.ReadFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "[service]\n", content)
}
