package database

import (
	"path/filepath"
	"testing"

	"learnbase/models"

	"github.com/stretchr/testify/require"
)

// openTestDB points the package connection at a fresh migrated database.
func openTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, InitDB(filepath.Join(t.TempDir(), "learnbase.db")))
	t.Cleanup(func() { Close() })
}

func mustCategory(t *testing.T, name string) models.Category {
	t.Helper()
	c, _, err := CreateCategory(name)
	require.NoError(t, err)
	return c
}

func mustNote(t *testing.T, title string, categoryID int64, content, rawTags string) models.Note {
	t.Helper()
	n, err := CreateNote(models.NoteInput{Title: title, CategoryID: categoryID, Content: content, Tags: rawTags})
	require.NoError(t, err)
	return n
}
