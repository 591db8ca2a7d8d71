// Package tags decodes the two stored tag encodings: a JSON array of objects
// carrying a "value" field (as written by the tag input widget) and a plain
// comma-delimited string.
package tags

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Format identifies which encoding a raw tag string used.
type Format int

const (
	FormatEmpty Format = iota
	FormatStructured
	FormatDelimited
)

func (f Format) String() string {
	switch f {
	case FormatStructured:
		return "structured"
	case FormatDelimited:
		return "delimited"
	default:
		return "empty"
	}
}

// Set is a decoded tag string. Values keeps the stored order and duplicates.
type Set struct {
	Format Format
	Values []string
}

// Parse resolves raw into exactly one Format. It never fails: anything that is
// not a JSON array of {"value": ...} objects is read as comma-delimited text.
func Parse(raw string) Set {
	if strings.TrimSpace(raw) == "" {
		return Set{Format: FormatEmpty, Values: []string{}}
	}
	if values, ok := parseStructured(raw); ok {
		return Set{Format: FormatStructured, Values: values}
	}
	return Set{Format: FormatDelimited, Values: parseDelimited(raw)}
}

// Normalize returns only the ordered tag values of raw.
func Normalize(raw string) []string {
	return Parse(raw).Values
}

func parseStructured(raw string) ([]string, bool) {
	if !gjson.Valid(raw) {
		return nil, false
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return nil, false
	}
	values := []string{}
	ok := true
	root.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			ok = false
			return false
		}
		v := item.Get("value")
		if !v.Exists() {
			ok = false
			return false
		}
		values = append(values, v.String())
		return true
	})
	if !ok {
		return nil, false
	}
	return values, true
}

// parseDelimited splits on commas and trims each piece. Empty pieces are dropped.
func parseDelimited(raw string) []string {
	values := []string{}
	for _, piece := range strings.Split(raw, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		values = append(values, piece)
	}
	return values
}
