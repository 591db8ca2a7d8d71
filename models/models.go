package models

import (
	"strings"
	"time"
)

// Category groups notes. Names are unique ignoring case.
type Category struct {
	ID   int64  `json:"id" example:"3" format:"int64" readOnly:"true"`
	Name string `json:"name" example:"Scope 3 Emissions" binding:"required"`
}

// CategorySummary is a category plus the number of notes filed under it.
type CategorySummary struct {
	Category
	NoteCount int64 `json:"note_count" example:"12"`
}

// Note is a learning note. Tags holds the raw stored encoding and TagList the
// normalized values decoded once when the row is read.
type Note struct {
	ID           int64     `json:"id" example:"42" format:"int64" readOnly:"true"`
	Title        string    `json:"title" example:"GHG Protocol boundaries" binding:"required"`
	CategoryID   int64     `json:"category_id" example:"3" format:"int64" binding:"required"`
	CategoryName string    `json:"category" example:"Scope 3 Emissions" readOnly:"true"`
	Content      string    `json:"content" binding:"required"`
	Tags         string    `json:"tags"`
	TagList      []string  `json:"tag_list" readOnly:"true"`
	CreatedAt    time.Time `json:"created_at" readOnly:"true" swaggertype:"string" format:"date-time"`
	UpdatedAt    time.Time `json:"updated_at" readOnly:"true" swaggertype:"string" format:"date-time"`
}

// NoteInput carries the writable fields of a note for create and update.
type NoteInput struct {
	Title      string `json:"title"`
	CategoryID int64  `json:"category_id"`
	Content    string `json:"content"`
	Tags       string `json:"tags"`
}

// Validate reports every missing required field at once.
func (in NoteInput) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}
	if in.CategoryID <= 0 {
		fields["category_id"] = "category is required"
	}
	if strings.TrimSpace(in.Content) == "" {
		fields["content"] = "content is required"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
