package frontmatter

import (
	"fmt"
	"time"
)

// PostMeta is the typed subset of frontmatter the capsule rendering uses.
type PostMeta struct {
	Title   string
	Summary string
	Draft   bool
	// Date is the parsed publication date; IsZero when absent or unparsable.
	Date time.Time
	// RawDate preserves the original value for rendering when parsing failed.
	RawDate string
}

// HasDate reports whether a parsed date is available.
func (m PostMeta) HasDate() bool { return !m.Date.IsZero() }

// dateLayouts are tried in order for string-typed date fields. Hugo accepts
// all of these in content frontmatter.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Meta extracts typed post metadata from parsed frontmatter fields.
// Unquoted YAML timestamps arrive as time.Time; quoted dates as strings.
func Meta(fields map[string]any) PostMeta {
	m := PostMeta{
		Title:   stringField(fields, "title"),
		Summary: stringField(fields, "summary"),
	}
	if d, ok := fields["draft"].(bool); ok {
		m.Draft = d
	}

	switch v := fields["date"].(type) {
	case time.Time:
		m.Date = v
		m.RawDate = v.Format("2006-01-02")
	case string:
		m.RawDate = v
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, v); err == nil {
				m.Date = parsed
				break
			}
		}
	case nil:
	default:
		m.RawDate = fmt.Sprint(v)
	}
	return m
}

func stringField(fields map[string]any, key string) string {
	switch v := fields[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
