package pubcontent

import "time"

// ValidateBlogEntry checks a raw front matter record against BlogSchema.
// On failure the error is a ValidationErrors holding every violation and the
// returned entry is the zero value.
func ValidateBlogEntry(raw map[string]any) (BlogEntry, error) {
	vals, err := BlogSchema.Parse(raw)
	if err != nil {
		return BlogEntry{}, err
	}
	entry := BlogEntry{
		Title:       vals["title"].(string),
		Description: vals["description"].(string),
		PubDate:     vals["pubDate"].(time.Time),
		Tags:        vals["tags"].([]string),
	}
	if c, ok := vals["coverImage"].(string); ok {
		entry.CoverImage = &c
	}
	return entry, nil
}
