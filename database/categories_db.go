package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"learnbase/logger"
	"learnbase/models"

	"github.com/mattn/go-sqlite3"
)

// categoryKey is the form category names are compared in: trimmed and
// lowercased with full Unicode case mapping.
func categoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CreateCategory returns the category named name, creating it when no category
// with that name exists ignoring case and surrounding whitespace. The bool
// reports whether a new row was inserted. Two concurrent creates of the same
// name both end up with the single stored row: the loser of the insert race
// hits the unique constraint and falls back to the lookup.
func CreateCategory(name string) (models.Category, bool, error) {
	if err := requireDB(); err != nil {
		return models.Category{}, false, err
	}
	return createCategory(DB, name)
}

func createCategory(q execQuerier, name string) (models.Category, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, false, models.NewValidationError("name", "category name is required")
	}

	existing, err := getCategoryByName(q, name)
	if err == nil {
		logger.Debug("CreateCategory: Category '%s' already exists (ID: %d). Returning existing category.", name, existing.ID)
		return existing, false, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return models.Category{}, false, err
	}

	result, err := q.Exec("INSERT INTO categories (name, name_key) VALUES (?, ?)", name, categoryKey(name))
	if err != nil {
		if isConstraintError(err, sqlite3.ErrConstraintUnique) {
			logger.Info("CreateCategory: Lost insert race for '%s', reusing stored row.", name)
			existing, lookupErr := getCategoryByName(q, name)
			if lookupErr != nil {
				return models.Category{}, false, fmt.Errorf("re-reading category '%s' after conflict: %w", name, lookupErr)
			}
			return existing, false, nil
		}
		logger.Error("CreateCategory: Error inserting category '%s': %v", name, err)
		return models.Category{}, false, fmt.Errorf("inserting category '%s': %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return models.Category{}, false, fmt.Errorf("getting last insert ID for category: %w", err)
	}
	logger.Info("CreateCategory: Created category '%s' (ID: %d)", name, id)
	return models.Category{ID: id, Name: name}, true, nil
}

func GetCategoryByID(id int64) (models.Category, error) {
	var c models.Category
	if err := requireDB(); err != nil {
		return c, err
	}
	err := DB.QueryRow("SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, fmt.Errorf("category with ID %d: %w", id, models.ErrNotFound)
		}
		return c, fmt.Errorf("querying category %d: %w", id, err)
	}
	return c, nil
}

// GetCategoryByName looks a category up ignoring case.
func GetCategoryByName(name string) (models.Category, error) {
	if err := requireDB(); err != nil {
		return models.Category{}, err
	}
	return getCategoryByName(DB, name)
}

func getCategoryByName(q execQuerier, name string) (models.Category, error) {
	var c models.Category
	name = strings.TrimSpace(name)
	err := q.QueryRow("SELECT id, name FROM categories WHERE name_key = ?", categoryKey(name)).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, fmt.Errorf("category '%s': %w", name, models.ErrNotFound)
		}
		return c, fmt.Errorf("querying category '%s': %w", name, err)
	}
	return c, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories() ([]models.Category, error) {
	if err := requireDB(); err != nil {
		return nil, err
	}
	rows, err := DB.Query("SELECT id, name FROM categories ORDER BY name_key ASC, id ASC")
	if err != nil {
		logger.Error("ListCategories: Error querying categories: %v", err)
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListCategoriesWithCounts is ListCategories plus the number of notes in each.
func ListCategoriesWithCounts() ([]models.CategorySummary, error) {
	if err := requireDB(); err != nil {
		return nil, err
	}
	rows, err := DB.Query(`
		SELECT c.id, c.name, COUNT(n.id)
		FROM categories c
		LEFT JOIN notes n ON n.category_id = c.id
		GROUP BY c.id, c.name, c.name_key
		ORDER BY c.name_key ASC, c.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying category counts: %w", err)
	}
	defer rows.Close()

	summaries := []models.CategorySummary{}
	for rows.Next() {
		var s models.CategorySummary
		if err := rows.Scan(&s.ID, &s.Name, &s.NoteCount); err != nil {
			return nil, fmt.Errorf("scanning category count row: %w", err)
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
