package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndRemoveOrphans(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"used.png", "orphan-b.jpg", "orphan-a.gif", ".keep"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	contents := []string{"intro\n![](http://localhost:5000/static/images/used.png)", "no images"}
	orphans, err := FindOrphans(dir, contents)
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan-a.gif", "orphan-b.jpg"}, orphans)

	removed, err := RemoveOrphans(dir, orphans)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = os.Stat(filepath.Join(dir, "used.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "orphan-a.gif"))
	assert.True(t, os.IsNotExist(err))
}

func TestFindOrphansMissingDir(t *testing.T) {
	orphans, err := FindOrphans(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestRemoveOrphansRefusesPaths(t *testing.T) {
	_, err := RemoveOrphans(t.TempDir(), []string{"../escape.png"})
	assert.Error(t, err)
}
