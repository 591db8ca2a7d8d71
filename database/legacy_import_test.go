package database

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"learnbase/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLegacyDB(t *testing.T, statements ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer legacy.Close()
	for _, stmt := range statements {
		_, err := legacy.Exec(stmt)
		require.NoError(t, err, stmt)
	}
	return path
}

func TestImportLegacyTextCategories(t *testing.T) {
	openTestDB(t)
	existing := mustCategory(t, "Energy")

	path := writeLegacyDB(t,
		`CREATE TABLE learning_note (
			id INTEGER PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			category VARCHAR(50),
			content TEXT NOT NULL,
			tags VARCHAR(200),
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`INSERT INTO learning_note VALUES (1, 'Grid', 'energy ', 'location based', 'scope2, grid', '2023-05-01 10:00:00', '2023-06-01 12:30:00')`,
		`INSERT INTO learning_note VALUES (2, 'Rivers', 'Water', 'basins', '[{"value":"hydro"}]', '2023-05-02 09:00:00', '2023-05-02 09:00:00')`,
		`INSERT INTO learning_note VALUES (3, 'Loose', '', 'no category', NULL, '2023-05-03 09:00:00', NULL)`,
		`INSERT INTO learning_note VALUES (4, '', 'Water', 'no title', NULL, NULL, NULL)`,
	)

	report, err := ImportLegacy(path)
	require.NoError(t, err)
	assert.Equal(t, 3, report.NotesImported)
	assert.Equal(t, 1, report.NotesSkipped)
	assert.Equal(t, 2, report.CategoriesCreated, "Water and Uncategorized")
	assert.Equal(t, 1, report.CategoriesReused, "Energy")
	assert.Len(t, report.Warnings, 2)

	notes, err := ListNotes()
	require.NoError(t, err)
	byTitle := map[string]models.Note{}
	for _, n := range notes {
		byTitle[n.Title] = n
	}

	grid := byTitle["Grid"]
	assert.Equal(t, existing.ID, grid.CategoryID)
	assert.Equal(t, []string{"scope2", "grid"}, grid.TagList)
	assert.True(t, grid.CreatedAt.Equal(time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)), grid.CreatedAt.String())
	assert.True(t, grid.UpdatedAt.Equal(time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC)), grid.UpdatedAt.String())

	assert.Equal(t, []string{"hydro"}, byTitle["Rivers"].TagList)

	loose := byTitle["Loose"]
	assert.Equal(t, UncategorizedName, loose.CategoryName)
	assert.Equal(t, []string{}, loose.TagList)
	assert.True(t, loose.UpdatedAt.Equal(loose.CreatedAt), "missing updated_at falls back to created_at")
}

func TestImportLegacyCategoryTable(t *testing.T) {
	openTestDB(t)

	path := writeLegacyDB(t,
		`CREATE TABLE category (id INTEGER PRIMARY KEY, name VARCHAR(50) NOT NULL UNIQUE)`,
		`CREATE TABLE learning_note (
			id INTEGER PRIMARY KEY,
			title VARCHAR(100) NOT NULL,
			category_id INTEGER,
			content TEXT NOT NULL,
			tags VARCHAR(200),
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`INSERT INTO category VALUES (1, 'Biodiversity'), (2, 'Energy')`,
		`INSERT INTO learning_note VALUES (1, 'Pollinators', 1, 'bees', 'insects', '2024-01-01 00:00:00', '2024-01-02 00:00:00')`,
		`INSERT INTO learning_note VALUES (2, 'Orphan', 99, 'dangling', '', '2024-01-01 00:00:00', '2024-01-01 00:00:00')`,
	)

	report, err := ImportLegacy(path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.NotesImported)

	summaries, err := ListCategoriesWithCounts()
	require.NoError(t, err)
	counts := map[string]int64{}
	for _, s := range summaries {
		counts[s.Name] = s.NoteCount
	}
	assert.Equal(t, map[string]int64{"Biodiversity": 1, UncategorizedName: 1}, counts)
}

func TestImportLegacyWithoutNotesTable(t *testing.T) {
	openTestDB(t)
	path := writeLegacyDB(t, `CREATE TABLE something_else (id INTEGER)`)

	_, err := ImportLegacy(path)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

const legacyTextSchema = `CREATE TABLE learning_note (
	id INTEGER PRIMARY KEY,
	title VARCHAR(100) NOT NULL,
	category VARCHAR(50),
	content TEXT NOT NULL,
	tags VARCHAR(200),
	created_at DATETIME,
	updated_at DATETIME
)`

func TestImportLegacyTwiceIsIdempotent(t *testing.T) {
	openTestDB(t)

	path := writeLegacyDB(t,
		legacyTextSchema,
		`INSERT INTO learning_note VALUES (1, 'Grid', 'Energy', 'location based', 'scope2', '2023-05-01 10:00:00', NULL)`,
		`INSERT INTO learning_note VALUES (2, 'Rivers', 'Water', 'basins', NULL, '2023-05-02 09:00:00', NULL)`,
		`INSERT INTO learning_note VALUES (3, 'Undated', 'Water', 'no timestamps', NULL, NULL, NULL)`,
	)

	first, err := ImportLegacy(path)
	require.NoError(t, err)
	assert.Equal(t, 3, first.NotesImported)
	assert.Equal(t, 0, first.NotesAlreadyPresent)
	assert.Equal(t, 2, first.CategoriesCreated)

	second, err := ImportLegacy(path)
	require.NoError(t, err)
	assert.Equal(t, 0, second.NotesImported)
	assert.Equal(t, 3, second.NotesAlreadyPresent)
	assert.Equal(t, 0, second.CategoriesCreated)
	assert.Equal(t, 2, second.CategoriesReused)

	notes, err := ListNotes()
	require.NoError(t, err)
	assert.Len(t, notes, 3)
	categories, err := ListCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

func TestImportLegacyRollsBackOnFailure(t *testing.T) {
	openTestDB(t)

	// An untyped id column lets a text id sort after the integer ones, so the
	// first row is written before the second fails to scan.
	path := writeLegacyDB(t,
		`CREATE TABLE learning_note (id, title, category, content, tags, created_at, updated_at)`,
		`INSERT INTO learning_note VALUES (1, 'Grid', 'Energy', 'location based', NULL, '2023-05-01 10:00:00', NULL)`,
		`INSERT INTO learning_note VALUES ('x', 'Broken', 'Energy', 'bad id', NULL, '2023-05-02 10:00:00', NULL)`,
	)

	report, err := ImportLegacy(path)
	require.Error(t, err)
	assert.Equal(t, ImportReport{}, report)

	notes, err := ListNotes()
	require.NoError(t, err)
	assert.Empty(t, notes)
	categories, err := ListCategories()
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestImportLegacyPathWithURIDelimiters(t *testing.T) {
	openTestDB(t)

	src := writeLegacyDB(t,
		legacyTextSchema,
		`INSERT INTO learning_note VALUES (1, 'Grid', 'Energy', 'location based', NULL, '2023-05-01 10:00:00', NULL)`,
	)
	dir := filepath.Join(t.TempDir(), "notes?v=1#old 100%")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "legacy.db")
	require.NoError(t, os.Rename(src, path))

	report, err := ImportLegacy(path)
	require.NoError(t, err)
	assert.Equal(t, 1, report.NotesImported)
}

func TestLegacyDSNEscapesPath(t *testing.T) {
	dsn, err := legacyDSN("/data/notes?v=1#old/legacy.db")
	require.NoError(t, err)
	assert.Equal(t, "file:///data/notes%3Fv=1%23old/legacy.db?mode=ro", dsn)
}

func TestSeedSampleNoteOnlyWhenEmpty(t *testing.T) {
	openTestDB(t)

	seeded, err := SeedSampleNote()
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = SeedSampleNote()
	require.NoError(t, err)
	assert.False(t, seeded)

	notes, err := ListNotes()
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Getting Started", notes[0].CategoryName)
	assert.Equal(t, []string{"ISO14064", "GHG Protocol", "basics"}, notes[0].TagList)
}

func TestInitDBInMemoryMigrates(t *testing.T) {
	require.NoError(t, InitDB(":memory:"))
	t.Cleanup(func() { Close() })

	for _, table := range []string{"categories", "notes"} {
		ok, err := tableExists(DB, table)
		require.NoError(t, err)
		assert.True(t, ok, table)
	}
	ok, err := columnExists(DB, "notes", "tags")
	require.NoError(t, err)
	assert.True(t, ok)
}
