package views

import (
	"net/url"
	"strings"
	"time"
)

// PathEscape wraps url.PathEscape for use in links.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FormatDate renders a publish date the way the report lists it.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// StatusClass returns the CSS class for the report summary banner.
func StatusClass(failures int) string {
	if failures > 0 {
		return "status status-failed"
	}
	return "status status-ok"
}

func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
