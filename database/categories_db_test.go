package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"learnbase/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryIsCaseAndSpaceInsensitive(t *testing.T) {
	openTestDB(t)

	first, created, err := CreateCategory("Energy")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := CreateCategory("ENERGY ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Energy", second.Name, "stored spelling is kept")

	all, err := ListCategories()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCreateCategoryFoldsNonASCIICase(t *testing.T) {
	openTestDB(t)

	tests := []struct {
		stored, again string
	}{
		{"énergie", "ÉNERGIE "},
		{"Ökologie", " ökologie"},
		{"Σύνοψη", "σύνοψη"},
	}
	for _, tt := range tests {
		first, created, err := CreateCategory(tt.stored)
		require.NoError(t, err)
		assert.True(t, created, tt.stored)

		second, created, err := CreateCategory(tt.again)
		require.NoError(t, err)
		assert.False(t, created, tt.again)
		assert.Equal(t, first.ID, second.ID)

		found, err := GetCategoryByName(tt.again)
		require.NoError(t, err)
		assert.Equal(t, tt.stored, found.Name)
	}

	all, err := ListCategories()
	require.NoError(t, err)
	assert.Len(t, all, len(tests))
}

func TestCategoryNameKeyIsUnique(t *testing.T) {
	openTestDB(t)
	mustCategory(t, "énergie")

	_, err := DB.Exec("INSERT INTO categories (name, name_key) VALUES (?, ?)", "ÉNERGIE", categoryKey("ÉNERGIE"))
	assert.Error(t, err, "a second row with the same folded name must be refused")
}

func TestNameKeyMigrationBackfillsExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnbase.db")
	schema, err := migrationFiles.ReadFile("migrations/000001_create_categories_notes.up.sql")
	require.NoError(t, err)

	old, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = old.Exec(string(schema))
	require.NoError(t, err)
	_, err = old.Exec("INSERT INTO categories (name) VALUES ('Énergie')")
	require.NoError(t, err)
	require.NoError(t, old.Close())

	require.NoError(t, InitDB(path))
	t.Cleanup(func() { Close() })

	c, created, err := CreateCategory("énergie")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Énergie", c.Name)
}

func TestCreateCategoryRejectsBlankName(t *testing.T) {
	openTestDB(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, _, err := CreateCategory(name)
		assert.ErrorIs(t, err, models.ErrValidation, "name %q", name)
	}
}

func TestCreateCategoryConcurrentSameName(t *testing.T) {
	openTestDB(t)

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, _, err := CreateCategory(fmt.Sprintf(" water%s", []string{"", " "}[i%2]))
			ids[i], errs[i] = c.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	all, err := ListCategories()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetCategoryNotFound(t *testing.T) {
	openTestDB(t)

	_, err := GetCategoryByID(999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = GetCategoryByName("missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListCategoriesWithCounts(t *testing.T) {
	openTestDB(t)

	water := mustCategory(t, "water")
	energy := mustCategory(t, "Energy")
	mustCategory(t, "Biodiversity")
	mustNote(t, "a", water.ID, "x", "")
	mustNote(t, "b", water.ID, "y", "")
	mustNote(t, "c", energy.ID, "z", "")

	summaries, err := ListCategoriesWithCounts()
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, "Biodiversity", summaries[0].Name)
	assert.Equal(t, int64(0), summaries[0].NoteCount)
	assert.Equal(t, "Energy", summaries[1].Name)
	assert.Equal(t, int64(1), summaries[1].NoteCount)
	assert.Equal(t, "water", summaries[2].Name)
	assert.Equal(t, int64(2), summaries[2].NoteCount)
}

func TestCategoryWithNotesCannotBeDeleted(t *testing.T) {
	openTestDB(t)

	c := mustCategory(t, "Energy")
	mustNote(t, "a", c.ID, "x", "")

	_, err := DB.Exec("DELETE FROM categories WHERE id = ?", c.ID)
	assert.Error(t, err, "foreign key must restrict deletion")
}
