package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnbase/logger"
	"learnbase/models"
	"learnbase/tags"

	"github.com/mattn/go-sqlite3"
)

const noteSelect = `
	SELECT n.id, n.title, n.category_id, c.name, n.content, n.tags, n.created_at, n.updated_at
	FROM notes n
	JOIN categories c ON c.id = n.category_id`

// noteOrder is the one ordering used wherever notes are listed.
const noteOrder = ` ORDER BY n.updated_at DESC, n.id DESC`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (models.Note, error) {
	var note models.Note
	err := row.Scan(&note.ID, &note.Title, &note.CategoryID, &note.CategoryName, &note.Content, &note.Tags, &note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return note, err
	}
	note.TagList = tags.Normalize(note.Tags)
	return note, nil
}

func scanNotes(rows *sql.Rows) ([]models.Note, error) {
	defer rows.Close()
	notes := []models.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note row: %w", err)
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// checkNoteInput runs field validation and confirms the category exists.
func checkNoteInput(in models.NoteInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if _, err := GetCategoryByID(in.CategoryID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return referenceError(in.CategoryID)
		}
		return err
	}
	return nil
}

func referenceError(categoryID int64) error {
	return &models.ValidationError{
		Fields:    map[string]string{"category_id": fmt.Sprintf("category %d does not exist", categoryID)},
		Reference: true,
	}
}

func CreateNote(in models.NoteInput) (models.Note, error) {
	if err := requireDB(); err != nil {
		return models.Note{}, err
	}
	if err := checkNoteInput(in); err != nil {
		return models.Note{}, err
	}

	now := dbTime(time.Now())
	result, err := DB.Exec(`
		INSERT INTO notes (title, category_id, content, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(in.Title), in.CategoryID, in.Content, in.Tags, now, now)
	if err != nil {
		if isConstraintError(err, sqlite3.ErrConstraintForeignKey) {
			return models.Note{}, referenceError(in.CategoryID)
		}
		logger.Error("CreateNote: Error inserting note '%s': %v", in.Title, err)
		return models.Note{}, fmt.Errorf("executing create note statement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Note{}, fmt.Errorf("getting last insert ID for note: %w", err)
	}
	logger.Info("CreateNote: Created note %d in category %d", id, in.CategoryID)
	return GetNoteByID(id)
}

func GetNoteByID(noteID int64) (models.Note, error) {
	if err := requireDB(); err != nil {
		return models.Note{}, err
	}
	note, err := scanNote(DB.QueryRow(noteSelect+" WHERE n.id = ?", noteID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return note, fmt.Errorf("note with ID %d: %w", noteID, models.ErrNotFound)
		}
		return note, fmt.Errorf("querying note %d: %w", noteID, err)
	}
	return note, nil
}

// UpdateNote replaces the writable fields of a note and refreshes updated_at.
// created_at is never written here.
func UpdateNote(noteID int64, in models.NoteInput) (models.Note, error) {
	if _, err := GetNoteByID(noteID); err != nil {
		return models.Note{}, err
	}
	if err := checkNoteInput(in); err != nil {
		return models.Note{}, err
	}

	result, err := DB.Exec(`
		UPDATE notes
		SET title = ?, category_id = ?, content = ?, tags = ?, updated_at = ?
		WHERE id = ?
	`, strings.TrimSpace(in.Title), in.CategoryID, in.Content, in.Tags, dbTime(time.Now()), noteID)
	if err != nil {
		if isConstraintError(err, sqlite3.ErrConstraintForeignKey) {
			return models.Note{}, referenceError(in.CategoryID)
		}
		logger.Error("UpdateNote: Error updating note %d: %v", noteID, err)
		return models.Note{}, fmt.Errorf("executing update note statement for note %d: %w", noteID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return models.Note{}, fmt.Errorf("note with ID %d: %w", noteID, models.ErrNotFound)
	}
	logger.Info("UpdateNote: Updated note %d", noteID)
	return GetNoteByID(noteID)
}

func DeleteNote(noteID int64) error {
	if err := requireDB(); err != nil {
		return err
	}
	result, err := DB.Exec("DELETE FROM notes WHERE id = ?", noteID)
	if err != nil {
		return fmt.Errorf("deleting note %d: %w", noteID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected for note %d: %w", noteID, err)
	}
	if n == 0 {
		return fmt.Errorf("note with ID %d: %w", noteID, models.ErrNotFound)
	}
	logger.Info("DeleteNote: Deleted note %d", noteID)
	return nil
}

// ListNotes returns every note, most recently updated first.
func ListNotes() ([]models.Note, error) {
	if err := requireDB(); err != nil {
		return nil, err
	}
	rows, err := DB.Query(noteSelect + noteOrder)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	return scanNotes(rows)
}

func CountNotes() (int64, error) {
	if err := requireDB(); err != nil {
		return 0, err
	}
	var n int64
	if err := DB.QueryRow("SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting notes: %w", err)
	}
	return n, nil
}

// ListNotesPage returns one page over all notes.
func ListNotesPage(page, perPage int) (models.NotePage, error) {
	return queryNotePage("", nil, page, perPage)
}

// ListNotesByCategory returns one page of the notes filed under categoryID.
func ListNotesByCategory(categoryID int64, page, perPage int) (models.NotePage, error) {
	return queryNotePage(" WHERE n.category_id = ?", []any{categoryID}, page, perPage)
}

// queryNotePage counts the rows matched by where, then loads the requested
// window. Pages outside the matched range come back empty without querying.
func queryNotePage(where string, args []any, page, perPage int) (models.NotePage, error) {
	if err := requireDB(); err != nil {
		return models.NotePage{}, err
	}
	if perPage <= 0 {
		return models.NotePage{}, models.NewValidationError("per_page", "page size must be positive")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM notes n JOIN categories c ON c.id = n.category_id" + where
	if err := DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return models.NotePage{}, fmt.Errorf("counting notes: %w", err)
	}

	result := models.NotePage{Pagination: models.NewPagination(page, perPage, total), Notes: []models.Note{}}
	if !result.InRange() {
		return result, nil
	}

	pageArgs := append(append([]any{}, args...), perPage, result.Offset())
	rows, err := DB.Query(noteSelect+where+noteOrder+" LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return models.NotePage{}, fmt.Errorf("querying note page %d: %w", page, err)
	}
	notes, err := scanNotes(rows)
	if err != nil {
		return models.NotePage{}, err
	}
	result.Notes = notes
	return result, nil
}
