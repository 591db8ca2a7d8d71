package database

import (
	"fmt"
	"testing"

	"learnbase/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListNotesPagePaging(t *testing.T) {
	openTestDB(t)
	c := mustCategory(t, "Energy")
	for i := 0; i < 20; i++ {
		mustNote(t, fmt.Sprintf("note %02d", i), c.ID, "body", "")
	}

	tests := []struct {
		page    int
		items   int
		hasPrev bool
		hasNext bool
	}{
		{1, 9, false, true},
		{2, 9, true, true},
		{3, 2, true, false},
		{4, 0, true, false},
		{40, 0, true, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			page, err := ListNotesPage(tt.page, 9)
			require.NoError(t, err)
			assert.Len(t, page.Notes, tt.items)
			assert.NotNil(t, page.Notes)
			assert.Equal(t, int64(20), page.Total)
			assert.Equal(t, 3, page.Pages)
			assert.Equal(t, tt.hasPrev, page.HasPrev)
			assert.Equal(t, tt.hasNext, page.HasNext)
		})
	}

	first, err := ListNotesPage(1, 9)
	require.NoError(t, err)
	assert.Equal(t, "note 19", first.Notes[0].Title)
}

func TestListNotesPageRejectsNonPositivePageSize(t *testing.T) {
	openTestDB(t)

	_, err := ListNotesPage(1, 0)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestListNotesByCategory(t *testing.T) {
	openTestDB(t)
	energy := mustCategory(t, "Energy")
	water := mustCategory(t, "Water")
	mustNote(t, "e1", energy.ID, "x", "")
	mustNote(t, "w1", water.ID, "x", "")
	mustNote(t, "e2", energy.ID, "x", "")

	page, err := ListNotesByCategory(energy.ID, 1, 9)
	require.NoError(t, err)
	require.Len(t, page.Notes, 2)
	assert.Equal(t, "e2", page.Notes[0].Title)
	assert.Equal(t, "e1", page.Notes[1].Title)
	assert.Equal(t, int64(2), page.Total)
}

func TestSearchNotes(t *testing.T) {
	openTestDB(t)
	c := mustCategory(t, "Energy")
	byTitle := mustNote(t, "Solar PV Yield", c.ID, "nothing here", "")
	byContent := mustNote(t, "Wind", c.ID, "Capacity factor of solar farms", "")
	byStructuredTag := mustNote(t, "Storage", c.ID, "batteries", `[{"value":"SolarThermal"}]`)
	byDelimitedTag := mustNote(t, "Hydro", c.ID, "dams", "water, solar-adjacent")
	mustNote(t, "Coal", c.ID, "retirement schedules", `[{"value":"fossil"}]`)

	page, err := SearchNotes("  SOLAR ", 1, 9)
	require.NoError(t, err)
	ids := map[int64]bool{}
	for _, n := range page.Notes {
		ids[n.ID] = true
	}
	assert.Len(t, ids, 4)
	for _, n := range []models.Note{byTitle, byContent, byStructuredTag, byDelimitedTag} {
		assert.True(t, ids[n.ID], "expected %q in results", n.Title)
	}
}

func TestSearchMatchesTagValuesNotEncoding(t *testing.T) {
	openTestDB(t)
	c := mustCategory(t, "Energy")
	mustNote(t, "Storage", c.ID, "batteries", `[{"value":"lithium"}]`)

	page, err := SearchNotes("value", 1, 9)
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
}

func TestSearchMatchesNormalizedDelimitedTags(t *testing.T) {
	openTestDB(t)
	c := mustCategory(t, "Energy")
	n := mustNote(t, "Storage", c.ID, "batteries", " Grid,,Scale ")

	tests := []struct {
		query string
		found bool
	}{
		{"grid, scale", true},
		{"SCALE", true},
		{"grid,,scale", false},
		{"grid scale", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page, err := SearchNotes(tt.query, 1, 9)
			require.NoError(t, err)
			if !tt.found {
				assert.Empty(t, page.Notes)
				return
			}
			require.Len(t, page.Notes, 1)
			assert.Equal(t, n.ID, page.Notes[0].ID)
		})
	}
}

func TestSearchEmptyQueryReturnsNothing(t *testing.T) {
	openTestDB(t)
	c := mustCategory(t, "Energy")
	mustNote(t, "a", c.ID, "b", "c")

	for _, q := range []string{"", "   "} {
		page, err := SearchNotes(q, 1, 9)
		require.NoError(t, err)
		assert.Empty(t, page.Notes)
		assert.NotNil(t, page.Notes)
		assert.Zero(t, page.Total)
	}
}

func TestSearchTreatsLikeWildcardsLiterally(t *testing.T) {
	openTestDB(t)
	c := mustCategory(t, "Energy")
	mustNote(t, "plain", c.ID, "plain text", "")
	pct := mustNote(t, "percent", c.ID, "reduced 40% by 2030", "")

	page, err := SearchNotes("%", 1, 9)
	require.NoError(t, err)
	require.Len(t, page.Notes, 1)
	assert.Equal(t, pct.ID, page.Notes[0].ID)

	page, err = SearchNotes("_", 1, 9)
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
}
