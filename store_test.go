package pubcontent

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "test_content.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEntry(slug string, date time.Time, tags ...string) Entry {
	if tags == nil {
		tags = []string{}
	}
	return Entry{
		Slug: slug,
		Path: "content/blog/" + slug + ".md",
		Data: BlogEntry{
			Title:       "Title " + slug,
			Description: "About " + slug,
			PubDate:     date,
			Tags:        tags,
		},
		Body: "Body of " + slug,
	}
}

func TestNewStore(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
}

func TestSaveAndGetEntry(t *testing.T) {
	s := setupTestStore(t)

	cover := "/images/cover.png"
	entry := testEntry("test-entry", time.Date(2024, 1, 15, 9, 30, 0, 0, time.FixedZone("CET", 3600)), "Go", "testing")
	entry.Data.CoverImage = &cover

	if err := s.SaveEntry(entry); err != nil {
		t.Fatalf("SaveEntry failed: %v", err)
	}

	got, err := s.GetEntry("test-entry")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.Data.Title != entry.Data.Title {
		t.Errorf("Title = %q, want %q", got.Data.Title, entry.Data.Title)
	}
	if got.Data.Description != entry.Data.Description {
		t.Errorf("Description = %q, want %q", got.Data.Description, entry.Data.Description)
	}
	if !got.Data.PubDate.Equal(entry.Data.PubDate) {
		t.Errorf("PubDate = %v, want %v", got.Data.PubDate, entry.Data.PubDate)
	}
	if got.Data.CoverImage == nil || *got.Data.CoverImage != cover {
		t.Errorf("CoverImage = %v, want %q", got.Data.CoverImage, cover)
	}
	if strings.Join(got.Data.Tags, ",") != "Go,testing" {
		t.Errorf("Tags = %v, want [Go testing]", got.Data.Tags)
	}
	if got.Body != entry.Body || got.Path != entry.Path {
		t.Errorf("Body/Path = %q/%q", got.Body, got.Path)
	}
}

func TestGetEntryWithoutCover(t *testing.T) {
	s := setupTestStore(t)
	if err := s.SaveEntry(testEntry("plain", time.Now())); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetEntry("plain")
	if err != nil {
		t.Fatal(err)
	}
	if got.Data.HasCoverImage() {
		t.Errorf("CoverImage = %q, want absent", *got.Data.CoverImage)
	}
	if got.Data.Tags == nil || len(got.Data.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty", got.Data.Tags)
	}
}

func TestGetEntryNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetEntry("nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListEntriesOrderAndTagFilter(t *testing.T) {
	s := setupTestStore(t)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	for _, e := range []Entry{
		testEntry("old", day(1), "go"),
		testEntry("new", day(20), "Web", "Go"),
		testEntry("mid", day(10), "web"),
	} {
		if err := s.SaveEntry(e); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListEntries("")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	var slugs []string
	for _, e := range all {
		slugs = append(slugs, e.Slug)
	}
	if got := strings.Join(slugs, ","); got != "new,mid,old" {
		t.Errorf("order = %s, want new,mid,old", got)
	}

	goEntries, err := s.ListEntries("GO")
	if err != nil {
		t.Fatal(err)
	}
	if len(goEntries) != 2 {
		t.Errorf("entries tagged go = %d, want 2", len(goEntries))
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	s.SaveEntry(testEntry("a", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), "Go", "web"))
	s.SaveEntry(testEntry("b", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "go", "css"))

	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	if got := strings.Join(tags, ","); got != "css,Go,web" {
		t.Errorf("tags = %s, want css,Go,web", got)
	}
}

func TestDeleteEntry(t *testing.T) {
	s := setupTestStore(t)
	s.SaveEntry(testEntry("gone", time.Now()))
	if err := s.DeleteEntry("gone"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}
	if _, err := s.GetEntry("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestReplaceCollection(t *testing.T) {
	s := setupTestStore(t)
	s.SaveEntry(testEntry("stale", time.Now()))

	_, err := ValidateBlogEntry(map[string]any{"title": 1})
	verrs := mustFieldErrors(t, err)
	report := &Report{
		Collection: "blog",
		Entries:    []Entry{testEntry("fresh", time.Now(), "go")},
		Failures:   []Failure{{Slug: "bad", Path: "content/blog/bad.md", Errors: verrs}},
	}
	if err := s.ReplaceCollection(report); err != nil {
		t.Fatalf("ReplaceCollection failed: %v", err)
	}

	if _, err := s.GetEntry("stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale entry should be removed, got %v", err)
	}
	if _, err := s.GetEntry("fresh"); err != nil {
		t.Errorf("fresh entry missing: %v", err)
	}

	failures, err := s.ListFailures()
	if err != nil {
		t.Fatalf("ListFailures failed: %v", err)
	}
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	f := failures[0]
	if f.Slug != "bad" || len(f.Errors) != 3 {
		t.Fatalf("failure = %+v", f)
	}
	if f.Errors[0].Field != "title" || f.Errors[0].Code != TypeMismatch || f.Errors[0].Received != "int 1" {
		t.Errorf("first stored error = %+v", f.Errors[0])
	}
	if f.Errors[1].Code != MissingField {
		t.Errorf("second stored error = %+v, want missing field", f.Errors[1])
	}
}
