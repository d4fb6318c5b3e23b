package pubcontent

import (
	"errors"
	"testing"
)

func TestLookupCollection(t *testing.T) {
	c, err := LookupCollection("blog")
	if err != nil {
		t.Fatalf("LookupCollection(blog) failed: %v", err)
	}
	if c.Name != "blog" || len(c.Schema) != 5 {
		t.Errorf("collection = %s with %d fields, want blog with 5", c.Name, len(c.Schema))
	}

	_, err = LookupCollection("docs")
	if !errors.Is(err, ErrUnknownCollection) {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestSchemaParseDefaults(t *testing.T) {
	vals, err := BlogSchema.Parse(validRaw())
	if err != nil {
		t.Fatal(err)
	}
	tags, ok := vals["tags"].([]string)
	if !ok || tags == nil || len(tags) != 0 {
		t.Errorf("tags = %#v, want empty []string", vals["tags"])
	}
	if _, ok := vals["coverImage"]; ok {
		t.Errorf("absent optional field without default should stay unset")
	}
}

func TestSchemaParseCustomSchema(t *testing.T) {
	s := Schema{
		{Name: "name", Kind: KindString},
		{Name: "aliases", Kind: KindStringList, Optional: true},
	}
	vals, err := s.Parse(map[string]any{"name": "x"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := vals["aliases"]; ok {
		t.Errorf("aliases has no default and should be unset")
	}

	_, err = s.Parse(map[string]any{"name": "x", "aliases": nil})
	verrs := mustFieldErrors(t, err)
	if verrs[0].Field != "aliases" || verrs[0].Code != TypeMismatch {
		t.Errorf("explicit null should be a type mismatch, got %+v", verrs[0])
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindString:     "string",
		KindDate:       "date",
		KindStringList: "array",
		Kind(99):       "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
