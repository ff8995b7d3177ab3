package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangedAndDeletedFiles(t *testing.T) {
	s := NewState()
	s.SetFile("a.c", "a1", 1, false)
	s.SetFile("b.c", "b1", 2, false)
	s.SetFile("c.c", "c1", 0, false)

	current := map[string]string{
		"a.c": "a1",
		"b.c": "b2",
		"d.c": "d1",
	}

	assert.Equal(t, []string{"b.c", "d.c"}, s.ChangedFiles(current))
	assert.Equal(t, []string{"c.c"}, s.DeletedFiles(current))
	assert.Equal(t, 3, s.TotalBreadcrumbs())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	empty, err := Load(root)
	require.NoError(t, err)
	assert.Empty(t, empty.Files)

	s := NewState()
	s.SetFile("gfx/blit.c", "abc", 4, false)
	require.NoError(t, s.Save(root))

	loaded, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, CurrentStateVersion, loaded.Version)
	assert.False(t, loaded.UpdatedAt.IsZero())
	require.Contains(t, loaded.Files, "gfx/blit.c")
	assert.Equal(t, 4, loaded.Files["gfx/blit.c"].Breadcrumbs)
}

func TestLoadCorruptState(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, Dir), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, Dir, StateFile), []byte("{not json"), 0644))

	_, err := Load(root)
	assert.Error(t, err)
}
