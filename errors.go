package pubcontent

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when a requested entry does not exist in the index.
var ErrNotFound = sql.ErrNoRows

// ErrUnknownCollection is returned when a collection name is not registered.
var ErrUnknownCollection = errors.New("pubcontent: unknown collection")

// ErrorCode classifies a field validation failure.
type ErrorCode string

const (
	MissingField ErrorCode = "missing_field"
	TypeMismatch ErrorCode = "type_mismatch"

	// Document-level failures found while checking a collection.
	InvalidFrontMatter ErrorCode = "invalid_front_matter"
	EmptySlug          ErrorCode = "empty_slug"
	DuplicateSlug      ErrorCode = "duplicate_slug"
)

// FieldError describes one schema violation in a raw record.
type FieldError struct {
	Code     ErrorCode
	Field    string
	Expected string // declared type; empty for MissingField
	Actual   any    // offending value; nil for MissingField
	Detail   string // explanation for document-level codes
}

func missingField(field string) *FieldError {
	return &FieldError{Code: MissingField, Field: field}
}

func typeMismatch(field, expected string, actual any) *FieldError {
	return &FieldError{Code: TypeMismatch, Field: field, Expected: expected, Actual: actual}
}

func frontMatterError(err error) *FieldError {
	return &FieldError{Code: InvalidFrontMatter, Field: "frontmatter", Detail: err.Error()}
}

func emptySlug(path string) *FieldError {
	return &FieldError{Code: EmptySlug, Field: "slug", Detail: fmt.Sprintf("file name %q yields an empty slug", filepath.Base(path))}
}

func duplicateSlug(slug, firstPath string) *FieldError {
	return &FieldError{Code: DuplicateSlug, Field: "slug", Detail: fmt.Sprintf("slug %q is already used by %s", slug, firstPath)}
}

func (e *FieldError) Error() string {
	switch e.Code {
	case MissingField:
		return fmt.Sprintf("%s: required field is missing", e.Field)
	case TypeMismatch:
		return fmt.Sprintf("%s: expected %s, received %s", e.Field, e.Expected, describe(e.Actual))
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

// FieldErrorRecord is the serializable form of a FieldError. The offending
// value is rendered as text so arbitrary front matter always encodes.
type FieldErrorRecord struct {
	Code     ErrorCode `json:"code"`
	Field    string    `json:"field"`
	Expected string    `json:"expected,omitempty"`
	Received string    `json:"received,omitempty"`
	Message  string    `json:"message"`
}

// Record converts e to its serializable form.
func (e *FieldError) Record() FieldErrorRecord {
	r := FieldErrorRecord{
		Code:     e.Code,
		Field:    e.Field,
		Expected: e.Expected,
		Message:  e.Error(),
	}
	if e.Code == TypeMismatch {
		r.Received = describe(e.Actual)
	}
	return r
}

func (e *FieldError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Record())
}

// ValidationErrors is every violation found in a single record.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "invalid front matter: " + strings.Join(msgs, "; ")
}

// Fields returns the names of the offending fields in report order.
func (v ValidationErrors) Fields() []string {
	out := make([]string, len(v))
	for i, e := range v {
		out[i] = e.Field
	}
	return out
}

// Records converts every violation to its serializable form.
func (v ValidationErrors) Records() []FieldErrorRecord {
	out := make([]FieldErrorRecord, len(v))
	for i, e := range v {
		out[i] = e.Record()
	}
	return out
}

// AsValidationErrors extracts the violation list from err, if it carries one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("string %q", x)
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T %v", v, v)
}
