package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"learnbase/logger"
	"learnbase/models"
)

// UncategorizedName receives legacy notes whose category is empty or unmapped.
const UncategorizedName = "Uncategorized"

// legacyTimeLayouts covers how older databases wrote timestamps.
var legacyTimeLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// ImportReport summarizes one legacy import run.
type ImportReport struct {
	CategoriesCreated   int
	CategoriesReused    int
	NotesImported       int
	NotesAlreadyPresent int
	NotesSkipped        int
	Warnings            []string
}

func (r *ImportReport) warn(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	logger.Warn("ImportLegacy: %s", msg)
	r.Warnings = append(r.Warnings, msg)
}

// legacyDSN opens path read-only through an SQLite URI, escaping characters
// such as ? and # that would otherwise end the path.
func legacyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving legacy database path %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: "mode=ro"}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

// ImportLegacy copies notes out of a database written by the earlier
// learning_note schema into the current store. Both legacy shapes are read:
// a free-text category column on learning_note, and a category_id pointing at
// a category table. Categories are created or reused by name; timestamps,
// tags, titles and content are preserved.
//
// The import is one transaction: any failure leaves the store untouched.
// Running it again is safe; a legacy note whose title and creation time (or
// title and content, when the creation time is unreadable) are already stored
// is counted in NotesAlreadyPresent instead of being inserted twice.
func ImportLegacy(legacyPath string) (ImportReport, error) {
	if err := requireDB(); err != nil {
		return ImportReport{}, err
	}

	dsn, err := legacyDSN(legacyPath)
	if err != nil {
		return ImportReport{}, err
	}
	legacy, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return ImportReport{}, fmt.Errorf("opening legacy database %s: %w", legacyPath, err)
	}
	defer legacy.Close()

	query, err := legacyNoteQuery(legacy)
	if err != nil {
		return ImportReport{}, err
	}
	rows, err := legacy.Query(query)
	if err != nil {
		return ImportReport{}, fmt.Errorf("reading legacy notes: %w", err)
	}
	defer rows.Close()

	tx, err := DB.Begin()
	if err != nil {
		return ImportReport{}, fmt.Errorf("starting legacy import transaction: %w", err)
	}
	defer tx.Rollback()

	report, err := importLegacyRows(tx, rows)
	if err != nil {
		logger.Error("ImportLegacy: Rolled back import from %s: %v", legacyPath, err)
		return ImportReport{}, err
	}
	if err := tx.Commit(); err != nil {
		return ImportReport{}, fmt.Errorf("committing legacy import: %w", err)
	}
	logger.Info("ImportLegacy: Imported %d notes (%d already present, %d skipped), %d categories created, %d reused",
		report.NotesImported, report.NotesAlreadyPresent, report.NotesSkipped, report.CategoriesCreated, report.CategoriesReused)
	return report, nil
}

func importLegacyRows(tx *sql.Tx, rows *sql.Rows) (ImportReport, error) {
	var report ImportReport
	seen := map[int64]bool{}
	for rows.Next() {
		var (
			legacyID                 int64
			title, category, content string
			rawTags                  string
			createdRaw, updatedRaw   any
		)
		if err := rows.Scan(&legacyID, &title, &category, &content, &rawTags, &createdRaw, &updatedRaw); err != nil {
			return report, fmt.Errorf("scanning legacy note row: %w", err)
		}

		category = strings.TrimSpace(category)
		if category == "" {
			report.warn("legacy note %d had an empty or unmapped category; filed under %q", legacyID, UncategorizedName)
			category = UncategorizedName
		}
		cat, created, err := createCategory(tx, category)
		if err != nil {
			return report, fmt.Errorf("creating category %q for legacy note %d: %w", category, legacyID, err)
		}
		if !seen[cat.ID] {
			seen[cat.ID] = true
			if created {
				report.CategoriesCreated++
			} else {
				report.CategoriesReused++
			}
		}

		in := models.NoteInput{Title: strings.TrimSpace(title), CategoryID: cat.ID, Content: content, Tags: rawTags}
		if err := in.Validate(); err != nil {
			report.warn("skipping legacy note %d: %v", legacyID, err)
			report.NotesSkipped++
			continue
		}

		createdAt, createdKnown := legacyTime(createdRaw)
		if !createdKnown {
			createdAt = time.Now()
		}
		updatedAt, ok := legacyTime(updatedRaw)
		if !ok {
			updatedAt = createdAt
		}

		present, err := legacyNotePresent(tx, in, createdAt, createdKnown)
		if err != nil {
			return report, fmt.Errorf("checking legacy note %d: %w", legacyID, err)
		}
		if present {
			logger.Debug("ImportLegacy: Legacy note %d '%s' is already stored", legacyID, in.Title)
			report.NotesAlreadyPresent++
			continue
		}

		if _, err := tx.Exec(`
			INSERT INTO notes (title, category_id, content, tags, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, in.Title, cat.ID, content, rawTags, dbTime(createdAt), dbTime(updatedAt)); err != nil {
			return report, fmt.Errorf("inserting legacy note %d: %w", legacyID, err)
		}
		report.NotesImported++
	}
	if err := rows.Err(); err != nil {
		return report, fmt.Errorf("iterating legacy notes: %w", err)
	}
	return report, nil
}

// legacyNotePresent reports whether an earlier import already stored in.
func legacyNotePresent(q execQuerier, in models.NoteInput, createdAt time.Time, createdKnown bool) (bool, error) {
	var n int
	var err error
	if createdKnown {
		err = q.QueryRow("SELECT COUNT(*) FROM notes WHERE title = ? AND created_at = ?", in.Title, dbTime(createdAt)).Scan(&n)
	} else {
		err = q.QueryRow("SELECT COUNT(*) FROM notes WHERE title = ? AND content = ?", in.Title, in.Content).Scan(&n)
	}
	return n > 0, err
}

// legacyNoteQuery picks the category expression that matches the legacy schema.
func legacyNoteQuery(legacy *sql.DB) (string, error) {
	hasNotes, err := tableExists(legacy, "learning_note")
	if err != nil {
		return "", err
	}
	if !hasNotes {
		return "", fmt.Errorf("legacy database has no learning_note table: %w", models.ErrNotFound)
	}
	hasCategoryText, err := columnExists(legacy, "learning_note", "category")
	if err != nil {
		return "", fmt.Errorf("inspecting learning_note.category: %w", err)
	}
	hasCategoryID, err := columnExists(legacy, "learning_note", "category_id")
	if err != nil {
		return "", fmt.Errorf("inspecting learning_note.category_id: %w", err)
	}
	hasCategoryTable, err := tableExists(legacy, "category")
	if err != nil {
		return "", err
	}

	categoryExpr := "''"
	join := ""
	switch {
	case hasCategoryID && hasCategoryTable && hasCategoryText:
		categoryExpr = "COALESCE(c.name, n.category, '')"
		join = " LEFT JOIN category c ON c.id = n.category_id"
	case hasCategoryID && hasCategoryTable:
		categoryExpr = "COALESCE(c.name, '')"
		join = " LEFT JOIN category c ON c.id = n.category_id"
	case hasCategoryText:
		categoryExpr = "COALESCE(n.category, '')"
	}
	return fmt.Sprintf(`SELECT n.id, COALESCE(n.title, ''), %s, COALESCE(n.content, ''), COALESCE(n.tags, ''), n.created_at, n.updated_at
		FROM learning_note n%s
		ORDER BY n.id ASC`, categoryExpr, join), nil
}

// legacyTime parses a legacy timestamp. ok is false when raw is missing or
// in no known layout.
func legacyTime(raw any) (t time.Time, ok bool) {
	switch v := raw.(type) {
	case time.Time:
		return v, true
	case string:
		return parseLegacyTimeString(v)
	case []byte:
		return parseLegacyTimeString(string(v))
	default:
		return time.Time{}, false
	}
}

func parseLegacyTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
