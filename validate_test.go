package pubcontent

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func validRaw() map[string]any {
	return map[string]any{
		"title":       "Hello",
		"description": "World",
		"pubDate":     "2024-01-01",
	}
}

func mustFieldErrors(t *testing.T, err error) ValidationErrors {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	verrs, ok := AsValidationErrors(err)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T: %v", err, err)
	}
	return verrs
}

func TestValidateBlogEntryMinimal(t *testing.T) {
	entry, err := ValidateBlogEntry(validRaw())
	if err != nil {
		t.Fatalf("ValidateBlogEntry failed: %v", err)
	}
	if entry.Title != "Hello" {
		t.Errorf("Title = %q, want %q", entry.Title, "Hello")
	}
	if entry.Description != "World" {
		t.Errorf("Description = %q, want %q", entry.Description, "World")
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !entry.PubDate.Equal(want) {
		t.Errorf("PubDate = %v, want %v", entry.PubDate, want)
	}
	if entry.Tags == nil || len(entry.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", entry.Tags)
	}
	if entry.HasCoverImage() {
		t.Errorf("CoverImage = %q, want absent", *entry.CoverImage)
	}
}

func TestValidateBlogEntryMissingTitle(t *testing.T) {
	raw := validRaw()
	delete(raw, "title")

	entry, err := ValidateBlogEntry(raw)
	verrs := mustFieldErrors(t, err)
	if len(verrs) != 1 {
		t.Fatalf("got %d errors, want exactly 1: %v", len(verrs), verrs)
	}
	if verrs[0].Code != MissingField || verrs[0].Field != "title" {
		t.Errorf("error = %+v, want MissingField(title)", verrs[0])
	}
	if entry.Title != "" || !entry.PubDate.IsZero() || entry.Tags != nil {
		t.Errorf("entry should be the zero value on failure, got %+v", entry)
	}
}

func TestValidateBlogEntryMissingEveryRequiredField(t *testing.T) {
	_, err := ValidateBlogEntry(map[string]any{})
	verrs := mustFieldErrors(t, err)

	got := strings.Join(verrs.Fields(), ",")
	if got != "title,description,pubDate" {
		t.Errorf("fields = %s, want title,description,pubDate", got)
	}
	for _, e := range verrs {
		if e.Code != MissingField {
			t.Errorf("%s: code = %s, want %s", e.Field, e.Code, MissingField)
		}
	}
}

func TestValidateBlogEntryInvalidPubDate(t *testing.T) {
	cases := []any{"not a date", "2024-13-45", "", 20240101, true, time.Time{}, []any{"2024-01-01"}}
	for _, v := range cases {
		raw := validRaw()
		raw["pubDate"] = v

		_, err := ValidateBlogEntry(raw)
		verrs := mustFieldErrors(t, err)
		if len(verrs) != 1 {
			t.Fatalf("pubDate=%#v: got %d errors, want 1", v, len(verrs))
		}
		e := verrs[0]
		if e.Code != TypeMismatch || e.Field != "pubDate" || e.Expected != "date" {
			t.Errorf("pubDate=%#v: error = %+v, want TypeMismatch(pubDate, date)", v, e)
		}
	}
}

func TestValidateBlogEntryDateForms(t *testing.T) {
	cases := []struct {
		in   any
		want time.Time
	}{
		{"2024-01-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T10:30:00Z", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-01-01T10:30:00+02:00", time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)},
		{"2024-01-01 10:30:00", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-01-01T10:30:00", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)},
		{time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC), time.Date(2023, 5, 6, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		raw := validRaw()
		raw["pubDate"] = tc.in
		entry, err := ValidateBlogEntry(raw)
		if err != nil {
			t.Errorf("pubDate=%v: unexpected error: %v", tc.in, err)
			continue
		}
		if !entry.PubDate.Equal(tc.want) {
			t.Errorf("pubDate=%v: got %v, want %v", tc.in, entry.PubDate, tc.want)
		}
	}
}

func TestValidateBlogEntryTypeMismatchOnStrings(t *testing.T) {
	raw := validRaw()
	raw["title"] = 42
	raw["description"] = nil

	_, err := ValidateBlogEntry(raw)
	verrs := mustFieldErrors(t, err)
	if len(verrs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(verrs), verrs)
	}
	if verrs[0].Field != "title" || verrs[0].Code != TypeMismatch || verrs[0].Actual != 42 {
		t.Errorf("first error = %+v, want TypeMismatch(title, string, 42)", verrs[0])
	}
	if verrs[1].Field != "description" || verrs[1].Code != TypeMismatch || verrs[1].Actual != nil {
		t.Errorf("second error = %+v, want TypeMismatch(description, string, nil)", verrs[1])
	}
}

func TestValidateBlogEntryCoverImage(t *testing.T) {
	raw := validRaw()
	raw["coverImage"] = "/images/cover.png"
	entry, err := ValidateBlogEntry(raw)
	if err != nil {
		t.Fatalf("ValidateBlogEntry failed: %v", err)
	}
	if !entry.HasCoverImage() || *entry.CoverImage != "/images/cover.png" {
		t.Errorf("CoverImage = %v, want /images/cover.png", entry.CoverImage)
	}

	raw["coverImage"] = 7
	_, err = ValidateBlogEntry(raw)
	verrs := mustFieldErrors(t, err)
	if len(verrs) != 1 || verrs[0].Field != "coverImage" || verrs[0].Code != TypeMismatch {
		t.Errorf("errors = %v, want TypeMismatch(coverImage)", verrs)
	}
}

func TestValidateBlogEntryTagsPreserveOrder(t *testing.T) {
	raw := validRaw()
	raw["tags"] = []any{"a", "b"}
	entry, err := ValidateBlogEntry(raw)
	if err != nil {
		t.Fatalf("ValidateBlogEntry failed: %v", err)
	}
	if len(entry.Tags) != 2 || entry.Tags[0] != "a" || entry.Tags[1] != "b" {
		t.Errorf("Tags = %v, want [a b]", entry.Tags)
	}

	raw["tags"] = []string{"z", "y", "x"}
	entry, err = ValidateBlogEntry(raw)
	if err != nil {
		t.Fatalf("ValidateBlogEntry failed: %v", err)
	}
	if strings.Join(entry.Tags, ",") != "z,y,x" {
		t.Errorf("Tags = %v, want [z y x]", entry.Tags)
	}
}

func TestValidateBlogEntryTagsCopied(t *testing.T) {
	tags := []string{"go"}
	raw := validRaw()
	raw["tags"] = tags
	entry, err := ValidateBlogEntry(raw)
	if err != nil {
		t.Fatalf("ValidateBlogEntry failed: %v", err)
	}
	tags[0] = "changed"
	if entry.Tags[0] != "go" {
		t.Errorf("validated tags alias the input slice")
	}
}

func TestValidateBlogEntryBadTags(t *testing.T) {
	raw := validRaw()
	raw["tags"] = []any{"ok", 3, "fine", false}
	_, err := ValidateBlogEntry(raw)
	verrs := mustFieldErrors(t, err)
	if got := strings.Join(verrs.Fields(), ","); got != "tags[1],tags[3]" {
		t.Errorf("fields = %s, want tags[1],tags[3]", got)
	}

	raw["tags"] = "go, web"
	_, err = ValidateBlogEntry(raw)
	verrs = mustFieldErrors(t, err)
	if len(verrs) != 1 || verrs[0].Field != "tags" || verrs[0].Expected != "array" {
		t.Errorf("errors = %v, want TypeMismatch(tags, array)", verrs)
	}
}

func TestValidateBlogEntryCollectsAllErrors(t *testing.T) {
	raw := map[string]any{
		"description": 1,
		"pubDate":     "yesterday",
		"coverImage":  []any{},
		"tags":        []any{1},
	}
	_, err := ValidateBlogEntry(raw)
	verrs := mustFieldErrors(t, err)
	want := "title,description,pubDate,coverImage,tags[0]"
	if got := strings.Join(verrs.Fields(), ","); got != want {
		t.Errorf("fields = %s, want %s", got, want)
	}
}

func TestValidateBlogEntryIgnoresUnknownKeys(t *testing.T) {
	raw := validRaw()
	raw["draft"] = true
	raw["layout"] = "post"
	if _, err := ValidateBlogEntry(raw); err != nil {
		t.Errorf("unknown keys should be ignored, got %v", err)
	}
}

func TestValidateBlogEntryConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw := validRaw()
			raw["tags"] = []any{"a"}
			if _, err := ValidateBlogEntry(raw); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent validation failed: %v", err)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	_, err := ValidateBlogEntry(map[string]any{"title": "x", "description": "y", "pubDate": "nope"})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, `pubDate: expected date, received string "nope"`) {
		t.Errorf("message = %q", msg)
	}
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("errors.As should find ValidationErrors")
	}
}

func TestFieldErrorRecord(t *testing.T) {
	rec := typeMismatch("tags[0]", "string", 5).Record()
	if rec.Code != TypeMismatch || rec.Field != "tags[0]" || rec.Expected != "string" {
		t.Errorf("record = %+v", rec)
	}
	if rec.Received != "int 5" {
		t.Errorf("Received = %q, want %q", rec.Received, "int 5")
	}

	rec = missingField("title").Record()
	if rec.Received != "" || rec.Expected != "" {
		t.Errorf("missing field record should carry no types, got %+v", rec)
	}
}
