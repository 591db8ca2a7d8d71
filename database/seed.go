package database

import (
	"fmt"

	"learnbase/logger"
	"learnbase/models"
)

const sampleCategory = "Getting Started"

const sampleContent = `# Carbon inventory framework

A greenhouse gas inventory is built on **ISO 14064-1** and the **GHG Protocol** corporate standard.

## Boundaries

| Scope | Covers |
|-------|--------|
| 1 | Direct emissions from owned or controlled sources |
| 2 | Purchased electricity, steam, heat and cooling |
| 3 | Other indirect emissions across the value chain |

## Workflow

1. Set organizational and operational boundaries
2. Collect activity data
3. Apply emission factors
4. Report, verify, improve
`

// SeedSampleNote inserts one welcome note when the store has no notes. It
// reports whether a note was written.
func SeedSampleNote() (bool, error) {
	count, err := CountNotes()
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	cat, _, err := CreateCategory(sampleCategory)
	if err != nil {
		return false, fmt.Errorf("creating sample category: %w", err)
	}
	note, err := CreateNote(models.NoteInput{
		Title:      "Carbon inventory framework",
		CategoryID: cat.ID,
		Content:    sampleContent,
		Tags:       `[{"value":"ISO14064"},{"value":"GHG Protocol"},{"value":"basics"}]`,
	})
	if err != nil {
		return false, fmt.Errorf("creating sample note: %w", err)
	}
	logger.Info("SeedSampleNote: Seeded sample note %d", note.ID)
	return true, nil
}
