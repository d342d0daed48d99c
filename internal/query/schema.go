// Package query compiles filter, sort and page parameters into SQL against a fixed column schema.
package query

import (
	"strconv"
	"strings"
	"time"
)

// Kind is the value type of a filterable column.
type Kind int

const (
	Int Kind = iota
	Text
	DateTime
	Date
)

// DateLayout is the accepted format for date values.
const DateLayout = "2006-01-02"

// Field describes a filterable column.
type Field struct {
	Name   string
	Column string
	Kind   Kind
}

// Schema is the set of columns a query may filter and sort on.
type Schema struct {
	Table  string
	Fields []Field
}

// PostSchema covers the posts table.
var PostSchema = Schema{
	Table: "posts",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: Int},
		{Name: "title", Column: "title", Kind: Text},
		{Name: "author", Column: "author", Kind: Text},
		{Name: "created", Column: "created", Kind: DateTime},
		{Name: "lastupdated", Column: "last_updated", Kind: Date},
		{Name: "content", Column: "content", Kind: Text},
	},
}

// TagSchema covers the tags table.
var TagSchema = Schema{
	Table: "tags",
	Fields: []Field{
		{Name: "id", Column: "id", Kind: Int},
		{Name: "name", Column: "name", Kind: Text},
	},
}

// Columns returns the selected column names in declaration order.
func (s Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Column
	}
	return cols
}

// Lookup finds a field by name, ignoring case. Underscores are ignored so
// "last_updated" and "lastUpdated" both resolve.
func (s Schema) Lookup(name string) (Field, bool) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), "_", ""))
	for _, f := range s.Fields {
		if f.Name == key {
			return f, true
		}
	}
	return Field{}, false
}

// Term is a parsed "field=value" token.
type Term struct {
	Field Field
	Raw   string
	Value any
}

// Parse converts a "field=value" token into a typed term.
// It returns false for tokens without '=', unknown fields and values that do not convert.
func (s Schema) Parse(token string) (Term, bool) {
	name, raw, ok := strings.Cut(token, "=")
	if !ok {
		return Term{}, false
	}
	f, ok := s.Lookup(name)
	if !ok {
		return Term{}, false
	}
	v, ok := convert(f.Kind, raw)
	if !ok {
		return Term{}, false
	}
	return Term{Field: f, Raw: raw, Value: v}, true
}

func convert(kind Kind, raw string) (any, bool) {
	switch kind {
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case Text:
		return raw, true
	case DateTime:
		raw = strings.TrimSpace(raw)
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, true
		}
		if t, err := time.Parse("2006-01-02T15:04:05", raw); err == nil {
			return t, true
		}
		// a bare date means midnight
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, false
		}
		return t, true
	case Date:
		t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
		if err != nil {
			return nil, false
		}
		return t, true
	}
	return nil, false
}
