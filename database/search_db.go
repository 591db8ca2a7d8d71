package database

import (
	"strings"

	"learnbase/models"
)

// searchWhere matches the query as a case-insensitive substring of the title,
// the content, or the decoded tag values.
//
// Tags are matched on tag_text, the decoded values joined with ", ", and not
// on the stored string. A structured row therefore never matches its JSON
// keys, and a delimited row is matched in its normalized spelling: "a,,b" is
// found by "a, b" but not by "a,,b".
const searchWhere = ` WHERE instr(casefold(n.title), ?) > 0
	OR instr(casefold(n.content), ?) > 0
	OR instr(casefold(tag_text(n.tags)), ?) > 0`

// SearchNotes returns one page of notes matching query. An empty query
// matches nothing; it is not a way to browse all notes.
func SearchNotes(query string, page, perPage int) (models.NotePage, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return models.EmptyNotePage(page, perPage), nil
	}
	return queryNotePage(searchWhere, []any{needle, needle, needle}, page, perPage)
}
