package pubcontent

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind is the declared type of a schema field.
type Kind int

const (
	KindString Kind = iota
	KindDate
	KindStringList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindStringList:
		return "array"
	}
	return "unknown"
}

// Field declares one key of a front matter record.
type Field struct {
	Name     string
	Kind     Kind
	Optional bool
	// Default produces the value used when an optional key is absent.
	// Nil leaves the key unset.
	Default func() any
}

// Schema is an ordered set of fields. Keys not named by the schema are ignored.
type Schema []Field

// Parse checks raw against the schema and returns the normalized values:
// string for KindString, time.Time for KindDate and []string for
// KindStringList. Every violation is collected; on failure the returned map
// is nil.
func (s Schema) Parse(raw map[string]any) (map[string]any, error) {
	var errs ValidationErrors
	out := make(map[string]any, len(s))
	for _, f := range s {
		v, ok := raw[f.Name]
		if !ok {
			if !f.Optional {
				errs = append(errs, missingField(f.Name))
				continue
			}
			if f.Default != nil {
				out[f.Name] = f.Default()
			}
			continue
		}
		val, ferrs := f.convert(v)
		if len(ferrs) > 0 {
			errs = append(errs, ferrs...)
			continue
		}
		out[f.Name] = val
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

func (f Field) convert(v any) (any, ValidationErrors) {
	switch f.Kind {
	case KindString:
		s, ok := v.(string)
		if !ok {
			return nil, ValidationErrors{typeMismatch(f.Name, "string", v)}
		}
		return s, nil
	case KindDate:
		t, ok := parseDate(v)
		if !ok {
			return nil, ValidationErrors{typeMismatch(f.Name, "date", v)}
		}
		return t, nil
	case KindStringList:
		return f.convertList(v)
	}
	return nil, ValidationErrors{typeMismatch(f.Name, f.Kind.String(), v)}
}

func (f Field) convertList(v any) (any, ValidationErrors) {
	switch items := v.(type) {
	case []string:
		return append([]string{}, items...), nil
	case []any:
		var errs ValidationErrors
		out := make([]string, 0, len(items))
		for i, item := range items {
			s, ok := item.(string)
			if !ok {
				errs = append(errs, typeMismatch(f.Name+"["+strconv.Itoa(i)+"]", "string", item))
				continue
			}
			out = append(out, s)
		}
		if len(errs) > 0 {
			return nil, errs
		}
		return out, nil
	}
	return nil, ValidationErrors{typeMismatch(f.Name, "array", v)}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts a non-zero time.Time or a string in one of dateLayouts.
func parseDate(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil || x.IsZero() {
			return time.Time{}, false
		}
		return *x, true
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Collection is a named, schema-validated group of content records.
type Collection struct {
	Name   string
	Schema Schema
}

// BlogSchema is the front matter contract for entries of the blog collection.
var BlogSchema = Schema{
	{Name: "title", Kind: KindString},
	{Name: "description", Kind: KindString},
	{Name: "pubDate", Kind: KindDate},
	{Name: "coverImage", Kind: KindString, Optional: true},
	{Name: "tags", Kind: KindStringList, Optional: true, Default: func() any { return []string{} }},
}

// BlogCollection is the "blog" content collection.
var BlogCollection = Collection{Name: "blog", Schema: BlogSchema}

// Collections lists every registered collection by name.
var Collections = map[string]Collection{
	BlogCollection.Name: BlogCollection,
}

// LookupCollection returns the registered collection called name.
func LookupCollection(name string) (Collection, error) {
	c, ok := Collections[name]
	if !ok {
		return Collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}
	return c, nil
}
