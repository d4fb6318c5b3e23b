package pubcontent

import "time"

// BlogEntry is a front matter record that passed the blog collection schema.
type BlogEntry struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PubDate     time.Time `json:"pubDate"`
	CoverImage  *string   `json:"coverImage,omitempty"`
	Tags        []string  `json:"tags"`
}

// HasCoverImage reports whether the entry declared a cover image.
func (e BlogEntry) HasCoverImage() bool {
	return e.CoverImage != nil
}

// Entry is a validated blog entry together with its source document.
type Entry struct {
	Slug string    `json:"slug"`
	Path string    `json:"path"`
	Data BlogEntry `json:"data"`
	Body string    `json:"body,omitempty"`
}

// Failure records a document whose front matter was rejected.
type Failure struct {
	Slug   string           `json:"slug"`
	Path   string           `json:"path"`
	Errors ValidationErrors `json:"errors"`
}

// Warning is a non-fatal finding about an otherwise valid entry.
type Warning struct {
	Slug    string `json:"slug"`
	Message string `json:"message"`
}

// Report is the outcome of checking one collection.
type Report struct {
	Collection string    `json:"collection"`
	Entries    []Entry   `json:"entries"`
	Failures   []Failure `json:"failures"`
	Warnings   []Warning `json:"warnings"`
	CheckedAt  time.Time `json:"checkedAt"`
}

// OK reports whether every document in the collection validated.
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}
