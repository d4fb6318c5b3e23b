package pubcontent

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/eringen/pubcontent/logging"
)

// CheckOption configures CheckCollection.
type CheckOption func(*checker)

type checker struct {
	publicDir   string
	checkCovers bool
	metrics     *Metrics
}

// WithCoverImageCheck verifies that local cover images exist and decode.
// Root-relative references resolve inside publicDir.
func WithCoverImageCheck(publicDir string) CheckOption {
	return func(c *checker) {
		c.publicDir = publicDir
		c.checkCovers = true
	}
}

// WithMetrics records check outcomes on m.
func WithMetrics(m *Metrics) CheckOption {
	return func(c *checker) {
		c.metrics = m
	}
}

// CheckCollection loads every document of the blog collection under
// contentDir and validates its front matter. Invalid documents are reported
// as failures, as are files whose front matter does not parse and files
// whose slug is empty or already taken. The error return is reserved for
// I/O problems.
func CheckCollection(contentDir string, opts ...CheckOption) (*Report, error) {
	c := &checker{}
	for _, opt := range opts {
		opt(c)
	}
	log := logging.WithComponent("check")
	start := time.Now()

	dir := filepath.Join(contentDir, BlogCollection.Name)
	docs, err := LoadDocuments(dir)
	if err != nil {
		return nil, fmt.Errorf("pubcontent: check %s: %w", BlogCollection.Name, err)
	}

	report := &Report{
		Collection: BlogCollection.Name,
		Entries:    []Entry{},
		Failures:   []Failure{},
		Warnings:   []Warning{},
	}
	// First file in walk order owns a slug.
	owners := make(map[string]string, len(docs))
	for _, doc := range docs {
		var errs ValidationErrors
		var data BlogEntry
		if doc.Err != nil {
			errs = append(errs, frontMatterError(doc.Err))
		} else {
			var err error
			data, err = ValidateBlogEntry(doc.Data)
			if err != nil {
				verrs, ok := AsValidationErrors(err)
				if !ok {
					return nil, err
				}
				errs = append(errs, verrs...)
			}
		}
		switch first, taken := owners[doc.Slug]; {
		case doc.Slug == "":
			errs = append(errs, emptySlug(doc.Path))
		case taken:
			errs = append(errs, duplicateSlug(doc.Slug, first))
		default:
			owners[doc.Slug] = doc.Path
		}

		if len(errs) > 0 {
			log.Warn().Str("path", doc.Path).Strs("fields", errs.Fields()).Msg("invalid entry")
			report.Failures = append(report.Failures, Failure{Slug: doc.Slug, Path: doc.Path, Errors: errs})
			c.metrics.observeFailure(errs)
			continue
		}
		c.metrics.observeValid()
		if c.checkCovers && data.HasCoverImage() && !isRemoteURL(*data.CoverImage) {
			if _, err := inspectCoverImage(c.publicDir, doc.Path, *data.CoverImage); err != nil {
				report.Warnings = append(report.Warnings, Warning{Slug: doc.Slug, Message: err.Error()})
			}
		}
		report.Entries = append(report.Entries, Entry{
			Slug: doc.Slug,
			Path: doc.Path,
			Data: data,
			Body: string(doc.Body),
		})
	}
	report.CheckedAt = time.Now().UTC()
	c.metrics.observeDuration(time.Since(start))

	log.Info().
		Int("entries", len(report.Entries)).
		Int("failures", len(report.Failures)).
		Int("warnings", len(report.Warnings)).
		Dur("took", time.Since(start)).
		Msg("collection checked")
	return report, nil
}
