package tags

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		format Format
		want   []string
	}{
		{name: "empty string", raw: "", format: FormatEmpty, want: []string{}},
		{name: "whitespace only", raw: "   ", format: FormatEmpty, want: []string{}},
		{name: "comma delimited with spaces", raw: "a, b,c", format: FormatDelimited, want: []string{"a", "b", "c"}},
		{name: "structured values", raw: `[{"value":"x"},{"value":"y"}]`, format: FormatStructured, want: []string{"x", "y"}},
		{name: "structured keeps duplicates and order", raw: `[{"value":"z"},{"value":"a"},{"value":"z"}]`, format: FormatStructured, want: []string{"z", "a", "z"}},
		{name: "structured extra fields", raw: `[{"value":"ISO14064","color":"red"}]`, format: FormatStructured, want: []string{"ISO14064"}},
		{name: "empty json array", raw: `[]`, format: FormatStructured, want: []string{}},
		{name: "json array of strings falls back", raw: `["a","b"]`, format: FormatDelimited, want: []string{`["a"`, `"b"]`}},
		{name: "object missing value falls back", raw: `[{"name":"x"}]`, format: FormatDelimited, want: []string{`[{"name":"x"}]`}},
		{name: "json object falls back", raw: `{"value":"x"}`, format: FormatDelimited, want: []string{`{"value":"x"}`}},
		{name: "broken json falls back", raw: `[{"value":"x"},`, format: FormatDelimited, want: []string{`[{"value":"x"}`}},
		{name: "empty pieces dropped", raw: "a,,b, ,", format: FormatDelimited, want: []string{"a", "b"}},
		{name: "unicode tags", raw: "碳盤查, 架構", format: FormatDelimited, want: []string{"碳盤查", "架構"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			assert.Equal(t, tt.format, got.Format)
			assert.Equal(t, tt.want, got.Values)
		})
	}
}

func TestNormalizeNeverNil(t *testing.T) {
	assert.NotNil(t, Normalize(""))
	assert.NotNil(t, Normalize("[]"))
}

func TestStructuredRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOf(rapid.StringMatching(`[A-Za-z0-9 ,]{0,12}`)).Draw(t, "values")
		items := make([]map[string]string, len(values))
		for i, v := range values {
			items[i] = map[string]string{"value": v}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		got := Parse(string(raw))
		if got.Format != FormatStructured {
			t.Fatalf("expected structured format for %s, got %s", raw, got.Format)
		}
		if len(got.Values) != len(values) {
			t.Fatalf("expected %d values, got %d", len(values), len(got.Values))
		}
		for i := range values {
			if got.Values[i] != values[i] {
				t.Fatalf("value %d: expected %q, got %q", i, values[i], got.Values[i])
			}
		}
	})
}

func TestDelimitedPiecesAreTrimmedAndNonEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pieces := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 1, 10).Draw(t, "pieces")
		padded := make([]string, len(pieces))
		for i, p := range pieces {
			padded[i] = "  " + p + " "
		}
		got := Normalize(strings.Join(padded, ","))
		if len(got) != len(pieces) {
			t.Fatalf("expected %d tags, got %v", len(pieces), got)
		}
		for i := range pieces {
			if got[i] != pieces[i] {
				t.Fatalf("tag %d: expected %q, got %q", i, pieces[i], got[i])
			}
		}
	})
}
