package views

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// EntryURL is the API link for an entry of collection.
func EntryURL(collection, slug string) templ.SafeURL {
	return templ.URL("/api/collections/" + PathEscape(collection) + "/entries/" + slug)
}

// ReportPage renders the full HTML validation report.
func ReportPage(r Report) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		esc := templ.EscapeString

		buf.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		fmt.Fprintf(&buf, `<title>%s collection report</title>`, esc(r.Collection))
		buf.WriteString(`</head><body>`)
		fmt.Fprintf(&buf, `<h1>%s</h1>`, esc(r.Collection))
		fmt.Fprintf(&buf, `<p class="%s">%d valid, %d invalid, %d warnings. Checked %s.</p>`,
			esc(StatusClass(len(r.Failures))), len(r.Entries), len(r.Failures), len(r.Warnings),
			esc(r.CheckedAt.Format("2006-01-02 15:04:05 MST")))

		if len(r.Failures) > 0 {
			buf.WriteString(`<h2>Invalid entries</h2><ul class="failures">`)
			for _, f := range r.Failures {
				fmt.Fprintf(&buf, `<li><code>%s</code><ul>`, esc(f.Path))
				for _, m := range f.Messages {
					fmt.Fprintf(&buf, `<li>%s</li>`, esc(m))
				}
				buf.WriteString(`</ul></li>`)
			}
			buf.WriteString(`</ul>`)
		}

		if len(r.Warnings) > 0 {
			buf.WriteString(`<h2>Warnings</h2><ul class="warnings">`)
			for _, wr := range r.Warnings {
				fmt.Fprintf(&buf, `<li><code>%s</code> %s</li>`, esc(wr.Slug), esc(wr.Message))
			}
			buf.WriteString(`</ul>`)
		}

		buf.WriteString(`<h2>Entries</h2><table><thead><tr><th>Slug</th><th>Title</th><th>Published</th><th>Tags</th></tr></thead><tbody>`)
		for _, e := range r.Entries {
			link := EntryURL(r.Collection, e.Slug)
			fmt.Fprintf(&buf, `<tr><td><a href="%s">%s</a></td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				esc(string(link)), esc(e.Slug), esc(e.Title), esc(FormatDate(e.PubDate)), esc(joinTags(e.Tags)))
		}
		buf.WriteString(`</tbody></table></body></html>`)

		_, err := w.Write(buf.Bytes())
		return err
	})
}
