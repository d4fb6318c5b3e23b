package views

import "time"

// Report is the view model for the HTML validation report. It is filled by
// the server from the latest collection check.
type Report struct {
	Collection string
	CheckedAt  time.Time
	Entries    []EntryRow
	Failures   []FailureRow
	Warnings   []WarningRow
}

// EntryRow is one valid entry.
type EntryRow struct {
	Slug    string
	Title   string
	PubDate time.Time
	Tags    []string
}

// FailureRow is one rejected document and its violations.
type FailureRow struct {
	Path     string
	Messages []string
}

// WarningRow is a non-fatal finding about a valid entry.
type WarningRow struct {
	Slug    string
	Message string
}
